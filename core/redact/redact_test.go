package redact

import (
	"strings"
	"testing"
)

func TestScanHomePath(test *testing.T) {
	violations := Scan("/Users/alice/project", "source.paths[0]")
	if len(violations) != 1 {
		test.Fatalf("expected one violation, got %v", violations)
	}
	if violations[0] != "source.paths[0] contains unredacted home path" {
		test.Fatalf("unexpected message: %s", violations[0])
	}
	if len(Scan(Path("/Users/alice/project"), "source.paths[0]")) != 0 {
		test.Fatalf("redacted home path must not be flagged")
	}
}

func TestScanUUID(test *testing.T) {
	value := "run 3F2504E0-4F89-11D3-9A0C-0305E82C3301 finished"
	violations := Scan(value, "source.command[1]")
	if len(violations) != 1 {
		test.Fatalf("expected one violation, got %v", violations)
	}
	if !strings.Contains(violations[0], "unredacted UUID") {
		test.Fatalf("unexpected message: %s", violations[0])
	}
	if len(Scan(ID(value), "source.command[1]")) != 0 {
		test.Fatalf("redacted UUID must not be flagged")
	}
}

func TestScanHexID(test *testing.T) {
	value := "token=" + strings.Repeat("ab", 16)
	violations := Scan(value, "source.command[0]")
	if len(violations) != 1 {
		test.Fatalf("expected one violation, got %v", violations)
	}
	if !strings.Contains(violations[0], "unredacted hex id") {
		test.Fatalf("unexpected message: %s", violations[0])
	}
	if ID(value) != "token=<HEX>" {
		test.Fatalf("unexpected substitution: %s", ID(value))
	}
}

func TestScanUUIDNotDoubleCountedAsHex(test *testing.T) {
	violations := Scan("3f2504e0-4f89-11d3-9a0c-0305e82c3301", "field")
	if len(violations) != 1 {
		test.Fatalf("UUID must only trigger the UUID class, got %v", violations)
	}
}

func TestScanClean(test *testing.T) {
	if violations := Scan("/home/USER/project run <UUID> <HEX>", "field"); len(violations) != 0 {
		test.Fatalf("expected no violations, got %v", violations)
	}
}

func TestScanAccumulatesClasses(test *testing.T) {
	value := "/home/bob/data 3f2504e0-4f89-11d3-9a0c-0305e82c3301 " + strings.Repeat("0", 40)
	violations := Scan(value, "field")
	if len(violations) != 3 {
		test.Fatalf("expected all three classes, got %v", violations)
	}
}

func TestValuesRoundTripIsScanClean(test *testing.T) {
	values := []string{
		"--input=/Users/carol/fixtures",
		"--run=0e7ceb6f-9a3c-4c5a-8f62-0a2b5f7f1c9e",
		"--token=" + strings.Repeat("f", 64),
	}
	for index, value := range Values(values) {
		if violations := Scan(value, "source.command[0]"); len(violations) != 0 {
			test.Fatalf("redactor output %d still flagged: %v", index, violations)
		}
	}
}
