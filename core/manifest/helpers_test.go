package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/davidahmann/manifestkit/core/canonical"
	"github.com/davidahmann/manifestkit/core/digest"
)

// writeArtifact writes a file under dir and returns its recorded entry.
func writeArtifact(test *testing.T, dir, relPath string, content []byte) map[string]any {
	test.Helper()
	fullPath := filepath.Join(dir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		test.Fatalf("create artifact dir: %v", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		test.Fatalf("write artifact: %v", err)
	}
	return map[string]any{
		"path":   relPath,
		"sha256": digest.SHA256Bytes(content),
		"bytes":  len(content),
	}
}

// sealAndWrite computes manifest_sha256 over the document, embeds it, and
// writes the manifest file. Call after all mutations that should be covered
// by the hash.
func sealAndWrite(test *testing.T, document map[string]any, path string) {
	test.Helper()
	unsigned, err := json.Marshal(document)
	if err != nil {
		test.Fatalf("marshal document: %v", err)
	}
	manifestDigest, err := canonical.ManifestDigest(unsigned)
	if err != nil {
		test.Fatalf("digest document: %v", err)
	}
	document["manifest_sha256"] = manifestDigest
	writeDocument(test, document, path)
}

func writeDocument(test *testing.T, document map[string]any, path string) {
	test.Helper()
	encoded, err := json.Marshal(document)
	if err != nil {
		test.Fatalf("marshal document: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		test.Fatalf("write manifest: %v", err)
	}
}

func baseFixtureDocument(test *testing.T, dir string) map[string]any {
	test.Helper()
	artifact := writeArtifact(test, dir, "input.json", []byte(`{"seed":42}`))
	artifact["kind"] = "config"
	artifact["redaction_profile"] = "safe"
	return map[string]any{
		"schema_version": "1.0.0",
		"fixture_id":     "fx-001",
		"domain":         "planner",
		"capture_time":   "2026-03-01T12:00:00Z",
		// Provenance stays free of home paths: the scanner pattern matches
		// /home/<anything>, including the redaction placeholder itself.
		"source": map[string]any{
			"origin":  "manual",
			"command": []any{"capture", "--seed=42"},
			"paths":   []any{"fixtures/planner"},
		},
		"tool_versions":     map[string]any{"fixture_capture": "1.0.0"},
		"redaction_profile": "safe",
		"artifacts":         []any{artifact},
	}
}

func validateAt(test *testing.T, path string, kind Kind) []string {
	test.Helper()
	document, raw, err := Load(path)
	if err != nil {
		test.Fatalf("load manifest: %v", err)
	}
	return Validate(document, raw, path, nil, kind)
}

func containsError(findings []string, want string) bool {
	for _, finding := range findings {
		if finding == want {
			return true
		}
	}
	return false
}
