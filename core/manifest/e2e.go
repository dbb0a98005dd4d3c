package manifest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

var e2eRequiredFields = []string{
	"schema_version",
	"run_id",
	"suite",
	"test_id",
	"timestamp",
	"env",
	"commands",
	"logs",
	"artifacts",
	"metrics",
	"manifest_sha256",
}

var logKinds = map[string]bool{
	"jsonl":  true,
	"text":   true,
	"tap":    true,
	"stdout": true,
	"stderr": true,
}

var artifactKinds = map[string]bool{
	"snapshot":  true,
	"plan":      true,
	"telemetry": true,
	"bundle":    true,
	"report":    true,
	"daemon":    true,
	"install":   true,
	"tui":       true,
	"manifest":  true,
	"other":     true,
}

// redactionRequiredKinds lists the artifact kinds that must declare a
// non-empty redaction_profile; other kinds are exempt.
var redactionRequiredKinds = map[string]bool{
	"snapshot":  true,
	"plan":      true,
	"telemetry": true,
	"bundle":    true,
	"report":    true,
}

func validateE2EFields(document map[string]any, accumulated *[]string) {
	requireFields(document, e2eRequiredFields, accumulated)

	if version, ok := asString(document["schema_version"]); ok {
		checkVersion(version, accumulated)
	} else {
		*accumulated = append(*accumulated, "schema_version must be string")
	}

	if _, ok := asString(document["run_id"]); !ok {
		*accumulated = append(*accumulated, "run_id must be string")
	}
	if _, ok := asString(document["suite"]); !ok {
		*accumulated = append(*accumulated, "suite must be string")
	}
	if _, ok := asString(document["test_id"]); !ok {
		*accumulated = append(*accumulated, "test_id must be string")
	}

	if timestamp, ok := asString(document["timestamp"]); ok {
		if !parseTimestamp(timestamp) {
			*accumulated = append(*accumulated, "timestamp not RFC3339")
		}
	} else {
		*accumulated = append(*accumulated, "timestamp must be string")
	}

	if env, ok := asObject(document["env"]); ok {
		for _, field := range []string{"os", "arch", "kernel", "ci_provider"} {
			if _, ok := asString(env[field]); !ok {
				*accumulated = append(*accumulated, fmt.Sprintf("env.%s must be string", field))
			}
		}
	} else {
		*accumulated = append(*accumulated, "env must be object")
	}

	validateE2ECommands(document, accumulated)
}

func validateE2ECommands(document map[string]any, accumulated *[]string) {
	commands, ok := asList(document["commands"])
	if !ok || len(commands) == 0 {
		*accumulated = append(*accumulated, "commands must be non-empty array")
		return
	}
	for index, value := range commands {
		entry, ok := asObject(value)
		if !ok {
			*accumulated = append(*accumulated, fmt.Sprintf("commands[%d] must be object", index))
			continue
		}
		if !isNonEmptyStringList(entry["argv"]) {
			*accumulated = append(*accumulated, fmt.Sprintf("commands[%d].argv must be non-empty string array", index))
		}
		if _, ok := asInt(entry["exit_code"]); !ok {
			*accumulated = append(*accumulated, fmt.Sprintf("commands[%d].exit_code must be integer", index))
		}
		if _, ok := asInt(entry["duration_ms"]); !ok {
			*accumulated = append(*accumulated, fmt.Sprintf("commands[%d].duration_ms must be integer", index))
		}
	}
}

func isNonEmptyStringList(value any) bool {
	list, ok := asList(value)
	if !ok || len(list) == 0 {
		return false
	}
	for _, item := range list {
		if _, ok := asString(item); !ok {
			return false
		}
	}
	return true
}

// verifyE2EEntries checks log and artifact entries against disk, enforces
// the closed kind enumerations, the cross-field redaction_profile rule, and
// the JSONL run_id consistency invariant.
func verifyE2EEntries(document map[string]any, baseDir string, accumulated *[]string) {
	runID, _ := asString(document["run_id"])

	if logs, ok := asList(document["logs"]); ok {
		for _, value := range logs {
			entry, ok := asObject(value)
			if !ok {
				*accumulated = append(*accumulated, "log entry must be object")
				continue
			}
			kind, _ := asString(entry["kind"])
			if !logKinds[kind] {
				*accumulated = append(*accumulated, fmt.Sprintf("log kind invalid: %v", entry["kind"]))
			}
			readable := verifyFileEntry(entry, baseDir, "log", accumulated)
			if kind == "jsonl" && runID != "" && readable {
				pathValue, _ := asString(entry["path"])
				checkJSONLRunID(resolveEntryPath(pathValue, baseDir), pathValue, runID, accumulated)
			}
		}
	} else {
		*accumulated = append(*accumulated, "logs must be array")
	}

	if artifacts, ok := asList(document["artifacts"]); ok {
		for _, value := range artifacts {
			entry, ok := asObject(value)
			if !ok {
				*accumulated = append(*accumulated, "artifact entry must be object")
				continue
			}
			kind, _ := asString(entry["kind"])
			if !artifactKinds[kind] {
				*accumulated = append(*accumulated, fmt.Sprintf("artifact kind invalid: %v", entry["kind"]))
			}
			verifyFileEntry(entry, baseDir, "artifact", accumulated)
			if profile, _ := asString(entry["redaction_profile"]); redactionRequiredKinds[kind] && profile == "" {
				*accumulated = append(*accumulated, fmt.Sprintf("artifact %v missing redaction_profile", entry["path"]))
			}
		}
	} else {
		*accumulated = append(*accumulated, "artifacts must be array")
	}
}

// checkJSONLRunID parses every non-blank line of a jsonl log and requires
// its run_id to equal the manifest's own run_id. Parse failures and
// mismatches are reported with their line number.
func checkJSONLRunID(resolved, pathValue, runID string, accumulated *[]string) {
	// #nosec G304 -- path was resolved from an explicit manifest entry.
	file, err := os.Open(resolved)
	if err != nil {
		// The entry verified as readable just before, so a failure here is
		// worth reporting rather than swallowing.
		*accumulated = append(*accumulated, fmt.Sprintf("jsonl unreadable: %s", pathValue))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(text, &payload); err != nil {
			*accumulated = append(*accumulated, fmt.Sprintf("jsonl parse error in %s line %d", pathValue, line))
			continue
		}
		if lineRunID, _ := payload["run_id"].(string); lineRunID != runID {
			*accumulated = append(*accumulated, fmt.Sprintf("jsonl run_id mismatch in %s line %d", pathValue, line))
		}
	}
	// A scan abort (for example a line over the buffer limit) leaves the
	// rest of the log unchecked, which must never pass silently.
	if err := scanner.Err(); err != nil {
		*accumulated = append(*accumulated, fmt.Sprintf("jsonl read error in %s: %v", pathValue, err))
	}
}

