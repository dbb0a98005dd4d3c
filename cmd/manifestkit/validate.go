package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	coreerrors "github.com/davidahmann/manifestkit/core/errors"
	"github.com/davidahmann/manifestkit/core/manifest"
	schemavalidate "github.com/davidahmann/manifestkit/core/schema/validate"
)

type validateOutput struct {
	OK        bool     `json:"ok"`
	Path      string   `json:"path,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	FixtureID string   `json:"fixture_id,omitempty"`
	RunID     string   `json:"run_id,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorCode string   `json:"error_code,omitempty"`
	Hint      string   `json:"hint,omitempty"`
}

func runValidate(arguments []string) int {
	if len(arguments) < 1 {
		printUsage()
		return exitInvalidInput
	}

	var kind manifest.Kind
	var schemaName string
	errorPrefix := ""
	printOKLine := false
	switch arguments[0] {
	case "fixture":
		kind = manifest.KindFixture
		schemaName = schemavalidate.FixtureSchema
	case "e2e":
		kind = manifest.KindE2E
		schemaName = schemavalidate.E2ESchema
		errorPrefix = "ERROR: "
		printOKLine = true
	case "capabilities":
		kind = manifest.KindCapabilities
		schemaName = schemavalidate.CapabilitiesSchema
	default:
		fmt.Fprintf(os.Stderr, "unknown manifest kind: %s\n", arguments[0])
		return exitInvalidInput
	}

	arguments = reorderInterspersedFlags(arguments[1:], map[string]bool{"schema": true})
	flagSet := flag.NewFlagSet("validate", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var schemaPath string
	var noSchema bool
	var jsonOutput bool
	flagSet.StringVar(&schemaPath, "schema", "", "path to a JSON Schema resource overriding the embedded one")
	flagSet.BoolVar(&noSchema, "no-schema", false, "disable the schema-validation capability")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit a JSON result")
	if err := flagSet.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidInput
	}
	if flagSet.NArg() != 1 {
		printUsage()
		return exitInvalidInput
	}
	manifestPath := flagSet.Arg(0)

	checker, exitCode := buildChecker(schemaName, schemaPath, noSchema)
	if exitCode != exitOK {
		return exitCode
	}

	document, raw, err := manifest.Load(manifestPath)
	if err != nil {
		if jsonOutput {
			return writeValidateJSON(validateOutput{
				Path:      manifestPath,
				Kind:      string(kind),
				Error:     err.Error(),
				ErrorCode: coreerrors.CodeOf(err),
				Hint:      coreerrors.HintOf(err),
			}, exitValidationFailed)
		}
		fmt.Fprintln(os.Stderr, err.Error())
		if hint := coreerrors.HintOf(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		return exitValidationFailed
	}

	findings := manifest.Validate(document, raw, manifestPath, checker, kind)
	resolvedPath := manifestPath
	if absolute, absErr := filepath.Abs(manifestPath); absErr == nil {
		resolvedPath = absolute
	}

	if jsonOutput {
		output := validateOutput{
			OK:     len(findings) == 0,
			Path:   resolvedPath,
			Kind:   string(kind),
			Errors: findings,
		}
		if output.OK {
			fillIdentifiers(&output, raw, kind)
		}
		if output.OK {
			return writeValidateJSON(output, exitOK)
		}
		return writeValidateJSON(output, exitValidationFailed)
	}

	if len(findings) > 0 {
		for _, finding := range findings {
			fmt.Fprintf(os.Stderr, "%s%s\n", errorPrefix, finding)
		}
		return exitValidationFailed
	}
	if printOKLine {
		fmt.Printf("OK: %s\n", resolvedPath)
	}
	return exitOK
}

// buildChecker resolves the optional schema capability. The embedded schema
// failing to compile leaves the capability absent rather than failing the
// run; an explicit --schema that cannot be compiled is a usage error.
func buildChecker(schemaName, schemaPath string, noSchema bool) (manifest.SchemaChecker, int) {
	if noSchema {
		return nil, exitOK
	}
	if schemaPath != "" {
		checker, err := schemavalidate.FromFile(schemaPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return nil, exitInvalidInput
		}
		return checker, exitOK
	}
	checker, err := schemavalidate.ForKind(schemaName)
	if err != nil {
		return nil, exitOK
	}
	return checker, exitOK
}

func fillIdentifiers(output *validateOutput, raw []byte, kind manifest.Kind) {
	switch kind {
	case manifest.KindFixture:
		if typed, err := manifest.DecodeFixture(raw); err == nil {
			output.FixtureID = typed.FixtureID
		}
	case manifest.KindE2E:
		if typed, err := manifest.DecodeE2E(raw); err == nil {
			output.RunID = typed.RunID
		}
	case manifest.KindCapabilities:
	}
}

func writeValidateJSON(output validateOutput, exitCode int) int {
	encoded, err := json.Marshal(output)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to encode output")
		return exitInvalidInput
	}
	fmt.Println(string(encoded))
	return exitCode
}
