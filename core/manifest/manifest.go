// Package manifest implements the manifest integrity and validation engine:
// per-kind field rules, self-hash verification, artifact checksum
// verification, and redaction scanning. Documents stay untyped maps until
// validation passes; typed records live in core/schema/v1.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	coreerrors "github.com/davidahmann/manifestkit/core/errors"
)

// Kind selects which rule set a document is validated against.
type Kind string

const (
	KindFixture      Kind = "fixture"
	KindE2E          Kind = "e2e"
	KindCapabilities Kind = "capabilities"
)

// SupportedSchemaMajor pins the engine to major version 1 manifests. A
// well-formed semver with a different major is rejected as a
// forward-compatibility guard, not a parse failure.
const SupportedSchemaMajor = 1

var (
	versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)
	sha256Pattern  = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

var redactionProfiles = map[string]bool{
	"minimal":  true,
	"safe":     true,
	"forensic": true,
	"custom":   true,
}

// Load reads and parses a manifest file. Both failure modes are hard
// errors: the engine cannot reason about a missing or unparseable document,
// so no soft-error pipeline runs.
func Load(path string) (map[string]any, []byte, error) {
	// #nosec G304 -- manifest path is explicit caller input.
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, coreerrors.Wrap(
				fmt.Errorf("manifest not found: %s", path),
				coreerrors.CategoryIOFailure, "manifest_missing", "check the manifest path")
		}
		return nil, nil, coreerrors.Wrap(
			fmt.Errorf("read manifest %s: %w", path, err),
			coreerrors.CategoryIOFailure, "manifest_unreadable", "")
	}
	document, err := parseDocument(raw)
	if err != nil {
		return nil, nil, coreerrors.Wrap(
			fmt.Errorf("invalid JSON in %s: %w", path, err),
			coreerrors.CategoryInvalidInput, "manifest_not_json", "the manifest must be a JSON object")
	}
	return document, raw, nil
}

// parseDocument decodes with UseNumber so integer checks distinguish 3 from
// 3.0 the same way the wire format does.
func parseDocument(raw []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var document map[string]any
	if err := decoder.Decode(&document); err != nil {
		return nil, err
	}
	return document, nil
}

func requireFields(document map[string]any, fields []string, accumulated *[]string) {
	for _, field := range fields {
		if _, present := document[field]; !present {
			*accumulated = append(*accumulated, fmt.Sprintf("missing required field: %s", field))
		}
	}
}

func checkVersion(version string, accumulated *[]string) {
	match := versionPattern.FindStringSubmatch(version)
	if match == nil {
		*accumulated = append(*accumulated, fmt.Sprintf("schema_version not semver: %s", version))
		return
	}
	major, err := strconv.Atoi(match[1])
	if err != nil || major != SupportedSchemaMajor {
		*accumulated = append(*accumulated, fmt.Sprintf("unsupported schema_version major: %s", version))
	}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// parseTimestamp accepts RFC3339 (trailing Z as UTC shorthand) plus the
// offset-less form the capture tooling historically emitted.
func parseTimestamp(value string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func asString(value any) (string, bool) {
	text, ok := value.(string)
	return text, ok
}

func asInt(value any) (int64, bool) {
	number, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	parsed, err := number.Int64()
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func asObject(value any) (map[string]any, bool) {
	object, ok := value.(map[string]any)
	return object, ok
}

func asList(value any) ([]any, bool) {
	list, ok := value.([]any)
	return list, ok
}
