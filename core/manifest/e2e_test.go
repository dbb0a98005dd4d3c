package manifest

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func baseE2EDocument(test *testing.T, dir string) map[string]any {
	test.Helper()
	log := writeArtifact(test, dir, "logs/events.jsonl",
		[]byte("{\"run_id\":\"run-abc\",\"event\":\"start\"}\n{\"run_id\":\"run-abc\",\"event\":\"stop\"}\n"))
	log["kind"] = "jsonl"
	stdout := writeArtifact(test, dir, "logs/stdout.txt", []byte("all tests passed\n"))
	stdout["kind"] = "stdout"
	snapshot := writeArtifact(test, dir, "artifacts/state.snapshot.json", []byte(`{"state":"final"}`))
	snapshot["kind"] = "snapshot"
	snapshot["redaction_profile"] = "safe"

	return map[string]any{
		"schema_version": "1.0.0",
		"run_id":         "run-abc",
		"suite":          "smoke",
		"test_id":        "t-001",
		"timestamp":      "2026-03-01T12:00:00Z",
		"env": map[string]any{
			"os":          "linux",
			"arch":        "amd64",
			"kernel":      "6.8.0",
			"ci_provider": "github",
		},
		"commands": []any{
			map[string]any{
				"argv":        []any{"app", "run", "--once"},
				"exit_code":   0,
				"duration_ms": 1200,
			},
		},
		"logs":      []any{log, stdout},
		"artifacts": []any{snapshot},
		"metrics":   map[string]any{"wall_clock_ms": 1500},
	}
}

func TestValidateE2EManifestClean(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	if findings := validateAt(test, manifestPath, KindE2E); len(findings) != 0 {
		test.Fatalf("expected clean manifest, got %v", findings)
	}
}

func TestE2EJSONLRunIDMismatch(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	log := writeArtifact(test, dir, "logs/mixed.jsonl",
		[]byte("{\"run_id\":\"run-abc\"}\n\n{\"run_id\":\"run-xyz\"}\n"))
	log["kind"] = "jsonl"
	document["logs"] = []any{log}
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	if len(findings) != 1 {
		test.Fatalf("expected exactly one finding, got %v", findings)
	}
	if findings[0] != "jsonl run_id mismatch in logs/mixed.jsonl line 3" {
		test.Fatalf("unexpected finding: %s", findings[0])
	}
}

func TestE2EJSONLParseError(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	log := writeArtifact(test, dir, "logs/broken.jsonl",
		[]byte("{\"run_id\":\"run-abc\"}\nnot json\n"))
	log["kind"] = "jsonl"
	document["logs"] = []any{log}
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	if !containsError(findings, "jsonl parse error in logs/broken.jsonl line 2") {
		test.Fatalf("expected parse error at line 2, got %v", findings)
	}
}

func TestE2EJSONLOversizedLineReported(test *testing.T) {
	// A line over the scanner's buffer limit aborts the scan, leaving later
	// lines unchecked; the abort itself must surface as a finding so a
	// mismatch hiding behind it cannot validate as clean.
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	content := append([]byte(`{"run_id":"run-abc","pad":"`), bytes.Repeat([]byte("a"), 11*1024*1024)...)
	content = append(content, []byte("\"}\n{\"run_id\":\"run-xyz\"}\n")...)
	log := writeArtifact(test, dir, "logs/huge.jsonl", content)
	log["kind"] = "jsonl"
	document["logs"] = []any{log}
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	found := false
	for _, finding := range findings {
		if strings.HasPrefix(finding, "jsonl read error in logs/huge.jsonl") {
			found = true
		}
	}
	if !found {
		test.Fatalf("expected read error for oversized line, got %v", findings)
	}
}

func TestE2EArtifactKindClosure(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	bogus := writeArtifact(test, dir, "artifacts/odd.bin", []byte("x"))
	bogus["kind"] = "bogus"
	bareSnapshot := writeArtifact(test, dir, "artifacts/bare.snapshot.json", []byte("{}"))
	bareSnapshot["kind"] = "snapshot"
	manifestEntry := writeArtifact(test, dir, "artifacts/inner_manifest.json", []byte("{}"))
	manifestEntry["kind"] = "manifest"
	document["artifacts"] = []any{bogus, bareSnapshot, manifestEntry}
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	if !containsError(findings, "artifact kind invalid: bogus") {
		test.Fatalf("expected invalid kind error, got %v", findings)
	}
	if !containsError(findings, "artifact artifacts/bare.snapshot.json missing redaction_profile") {
		test.Fatalf("expected missing redaction_profile error, got %v", findings)
	}
	for _, finding := range findings {
		if strings.Contains(finding, "inner_manifest.json") {
			test.Fatalf("manifest-kind artifact must be exempt, got %v", finding)
		}
	}
}

func TestE2ECommandChecks(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	document["commands"] = []any{
		map[string]any{
			"argv":        []any{},
			"exit_code":   "zero",
			"duration_ms": 1.5,
		},
	}
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	for _, want := range []string{
		"commands[0].argv must be non-empty string array",
		"commands[0].exit_code must be integer",
		"commands[0].duration_ms must be integer",
	} {
		if !containsError(findings, want) {
			test.Fatalf("missing %q in %v", want, findings)
		}
	}
}

func TestE2EEmptyCommands(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	document["commands"] = []any{}
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	if !containsError(findings, "commands must be non-empty array") {
		test.Fatalf("expected commands error, got %v", findings)
	}
}

func TestE2EDigestMismatchReportsBothValues(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	document["suite"] = "tampered"
	writeDocument(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	found := false
	for _, finding := range findings {
		if strings.HasPrefix(finding, "manifest_sha256 mismatch: expected ") && strings.Contains(finding, ", got ") {
			found = true
		}
	}
	if !found {
		test.Fatalf("expected mismatch with expected/got values, got %v", findings)
	}
}

func TestE2EEnvFieldChecks(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	env := document["env"].(map[string]any)
	delete(env, "kernel")
	env["ci_provider"] = 3
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	if !containsError(findings, "env.kernel must be string") {
		test.Fatalf("expected env.kernel error, got %v", findings)
	}
	if !containsError(findings, "env.ci_provider must be string") {
		test.Fatalf("expected env.ci_provider error, got %v", findings)
	}
}

func TestE2ELogKindClosure(test *testing.T) {
	dir := test.TempDir()
	document := baseE2EDocument(test, dir)
	log := writeArtifact(test, dir, "logs/weird.log", []byte("x\n"))
	log["kind"] = "binary"
	document["logs"] = []any{log}
	manifestPath := filepath.Join(dir, "manifest.json")
	sealAndWrite(test, document, manifestPath)

	findings := validateAt(test, manifestPath, KindE2E)
	if !containsError(findings, "log kind invalid: binary") {
		test.Fatalf("expected log kind error, got %v", findings)
	}
}
