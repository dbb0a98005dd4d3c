package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestForKindCompilesAllEmbeddedSchemas(t *testing.T) {
	for _, name := range []string{FixtureSchema, E2ESchema, CapabilitiesSchema} {
		if _, err := ForKind(name); err != nil {
			t.Fatalf("compile embedded schema %s: %v", name, err)
		}
	}
}

func TestForKindUnknown(t *testing.T) {
	if _, err := ForKind("bogus-manifest"); err == nil {
		t.Fatalf("expected error for unknown schema name")
	}
}

func TestCheckReportsViolations(t *testing.T) {
	checker, err := ForKind(CapabilitiesSchema)
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	violations := checker.Check([]byte(`{"schema_version":"1.0.0"}`))
	if len(violations) == 0 {
		t.Fatalf("expected structural violations for incomplete document")
	}
	if !strings.Contains(violations[0], "schema validation failed") {
		t.Fatalf("unexpected violation message: %s", violations[0])
	}
}

func TestCheckValidDocument(t *testing.T) {
	checker, err := ForKind(CapabilitiesSchema)
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	document := `{
		"schema_version": "1.0.0",
		"os": {"family": "linux"},
		"tools": {"git": {"version": "2.43.0"}},
		"user": {"uid": 1000, "username": "ci", "home": "/home/USER"},
		"paths": {"config_dir": "/home/USER/.config", "data_dir": "/home/USER/.local/share"},
		"discovered_at": "2026-01-01T00:00:00Z"
	}`
	if violations := checker.Check([]byte(document)); len(violations) != 0 {
		t.Fatalf("expected valid document, got %v", violations)
	}
}

func TestNilCheckerIsAbsentCapability(t *testing.T) {
	var checker *Checker
	if violations := checker.Check([]byte(`{}`)); violations != nil {
		t.Fatalf("nil checker must report nothing, got %v", violations)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "min.schema.json")
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`
	if err := os.WriteFile(path, []byte(schema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	checker, err := FromFile(path)
	if err != nil {
		t.Fatalf("compile file schema: %v", err)
	}
	if violations := checker.Check([]byte(`{}`)); len(violations) == 0 {
		t.Fatalf("expected violation for missing name")
	}
	if violations := checker.Check([]byte(`{"name":"x"}`)); len(violations) != 0 {
		t.Fatalf("expected valid document, got %v", violations)
	}
	if _, err := FromFile(filepath.Join(dir, "absent.json")); err == nil {
		t.Fatalf("expected error for missing schema file")
	}
}
