package manifest

import (
	"fmt"

	"github.com/davidahmann/manifestkit/core/redact"
)

var fixtureRequiredFields = []string{
	"schema_version",
	"fixture_id",
	"domain",
	"capture_time",
	"source",
	"tool_versions",
	"redaction_profile",
	"artifacts",
	"manifest_sha256",
}

func validateFixtureFields(document map[string]any, accumulated *[]string) {
	requireFields(document, fixtureRequiredFields, accumulated)

	if version, ok := asString(document["schema_version"]); ok {
		checkVersion(version, accumulated)
	} else {
		*accumulated = append(*accumulated, "schema_version must be string")
	}

	if _, ok := asString(document["fixture_id"]); !ok {
		*accumulated = append(*accumulated, "fixture_id must be string")
	}
	if _, ok := asString(document["domain"]); !ok {
		*accumulated = append(*accumulated, "domain must be string")
	}

	if captureTime, ok := asString(document["capture_time"]); ok {
		if !parseTimestamp(captureTime) {
			*accumulated = append(*accumulated, "capture_time must be RFC3339 timestamp")
		}
	} else {
		*accumulated = append(*accumulated, "capture_time must be string")
	}

	if source, ok := asObject(document["source"]); ok {
		validateFixtureSource(source, accumulated)
	} else {
		*accumulated = append(*accumulated, "source must be object")
	}

	if toolVersions, ok := asObject(document["tool_versions"]); ok {
		validateToolVersions(toolVersions, accumulated)
	} else {
		*accumulated = append(*accumulated, "tool_versions must be object")
	}

	if profile, ok := asString(document["redaction_profile"]); !ok || !redactionProfiles[profile] {
		*accumulated = append(*accumulated, "redaction_profile must be one of minimal/safe/forensic/custom")
	}
}

func validateFixtureSource(source map[string]any, accumulated *[]string) {
	if origin, ok := asString(source["origin"]); !ok || origin == "" {
		*accumulated = append(*accumulated, "source.origin must be string")
	}

	for _, key := range []string{"command", "paths"} {
		value, present := source[key]
		if !present || value == nil {
			continue
		}
		list, ok := asList(value)
		if !ok {
			*accumulated = append(*accumulated, fmt.Sprintf("source.%s must be list", key))
			continue
		}
		for index, item := range list {
			if _, ok := asString(item); !ok {
				*accumulated = append(*accumulated, fmt.Sprintf("source.%s[%d] must be string", key, index))
			}
		}
	}

	if notes, present := source["notes"]; present && notes != nil {
		if _, ok := asString(notes); !ok {
			*accumulated = append(*accumulated, "source.notes must be string")
		}
	}
}

func validateToolVersions(toolVersions map[string]any, accumulated *[]string) {
	for key, value := range toolVersions {
		if key == "" {
			*accumulated = append(*accumulated, "tool_versions keys must be strings")
			continue
		}
		if text, ok := asString(value); !ok || text == "" {
			*accumulated = append(*accumulated, fmt.Sprintf("tool_versions.%s must be string", key))
		}
	}
}

// verifyFixtureArtifacts checks every artifact entry against disk and
// requires a valid per-entry redaction profile.
func verifyFixtureArtifacts(document map[string]any, baseDir string, accumulated *[]string) {
	artifacts, ok := asList(document["artifacts"])
	if !ok || len(artifacts) == 0 {
		*accumulated = append(*accumulated, "artifacts must be non-empty list")
		return
	}
	for _, value := range artifacts {
		entry, ok := asObject(value)
		if !ok {
			*accumulated = append(*accumulated, "artifact entry must be object")
			continue
		}
		if !verifyFileEntry(entry, baseDir, "artifact", accumulated) {
			continue
		}
		pathValue, _ := asString(entry["path"])
		if profile, ok := asString(entry["redaction_profile"]); !ok || !redactionProfiles[profile] {
			*accumulated = append(*accumulated, fmt.Sprintf("artifact redaction_profile invalid for %s", pathValue))
		}
	}
}

// scanFixtureProvenance runs the redaction scanner over the provenance
// string fields: source.command and source.paths entries. Digest fields are
// never scanned.
func scanFixtureProvenance(document map[string]any, accumulated *[]string) {
	source, ok := asObject(document["source"])
	if !ok {
		return
	}
	for _, key := range []string{"command", "paths"} {
		list, ok := asList(source[key])
		if !ok {
			continue
		}
		for index, item := range list {
			text, ok := asString(item)
			if !ok {
				continue
			}
			label := fmt.Sprintf("source.%s[%d]", key, index)
			*accumulated = append(*accumulated, redact.Scan(text, label)...)
		}
	}
}
