package manifest

var capabilitiesRequiredFields = []string{
	"schema_version",
	"os",
	"tools",
	"user",
	"paths",
	"discovered_at",
}

func validateCapabilitiesFields(document map[string]any, accumulated *[]string) {
	requireFields(document, capabilitiesRequiredFields, accumulated)

	if version, ok := asString(document["schema_version"]); ok {
		checkVersion(version, accumulated)
	} else {
		*accumulated = append(*accumulated, "schema_version must be string")
	}

	if osInfo, ok := asObject(document["os"]); ok {
		if _, ok := asString(osInfo["family"]); !ok {
			*accumulated = append(*accumulated, "os.family must be string")
		}
	} else {
		*accumulated = append(*accumulated, "os must be object")
	}

	if _, ok := asObject(document["tools"]); !ok {
		*accumulated = append(*accumulated, "tools must be object")
	}

	if user, ok := asObject(document["user"]); ok {
		if _, ok := asInt(user["uid"]); !ok {
			*accumulated = append(*accumulated, "user.uid must be integer")
		}
		if _, ok := asString(user["username"]); !ok {
			*accumulated = append(*accumulated, "user.username must be string")
		}
		if _, ok := asString(user["home"]); !ok {
			*accumulated = append(*accumulated, "user.home must be string")
		}
	} else {
		*accumulated = append(*accumulated, "user must be object")
	}

	if paths, ok := asObject(document["paths"]); ok {
		if _, ok := asString(paths["config_dir"]); !ok {
			*accumulated = append(*accumulated, "paths.config_dir must be string")
		}
		if _, ok := asString(paths["data_dir"]); !ok {
			*accumulated = append(*accumulated, "paths.data_dir must be string")
		}
	} else {
		*accumulated = append(*accumulated, "paths must be object")
	}

	if discoveredAt, ok := asString(document["discovered_at"]); ok {
		if !parseTimestamp(discoveredAt) {
			*accumulated = append(*accumulated, "discovered_at must be RFC3339 timestamp")
		}
	} else {
		*accumulated = append(*accumulated, "discovered_at must be string")
	}
}
