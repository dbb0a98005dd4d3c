// Package validate provides the optional JSON Schema capability. The engine
// treats it as a plug-in: a nil *Checker means the capability is absent and
// structural validation falls back to the field rules alone.
package validate

import (
	"embed"
	"fmt"
	"os"

	"github.com/kaptinlin/jsonschema"
)

//go:embed schemas/*.schema.json
var schemaResources embed.FS

const (
	FixtureSchema      = "fixture-manifest"
	E2ESchema          = "e2e-artifact-manifest"
	CapabilitiesSchema = "capabilities-manifest"
)

// Checker validates manifest documents against one compiled schema resource.
type Checker struct {
	schema *jsonschema.Schema
}

// ForKind compiles the embedded schema resource for the given manifest kind.
func ForKind(name string) (*Checker, error) {
	data, err := schemaResources.ReadFile("schemas/" + name + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded schema %s: %w", name, err)
	}
	return compile(data)
}

// FromFile compiles an external schema resource, used by the CLI --schema
// override.
func FromFile(path string) (*Checker, error) {
	// #nosec G304 -- schema path is explicit CLI input.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return compile(data)
}

func compile(data []byte) (*Checker, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(data)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Checker{schema: schema}, nil
}

// Check validates raw manifest bytes and returns structural violations.
// A nil receiver reports nothing: the capability is simply unavailable.
func (c *Checker) Check(raw []byte) []string {
	if c == nil {
		return nil
	}
	result := c.schema.ValidateJSON(raw)
	if result.IsValid() {
		return nil
	}
	return []string{fmt.Sprintf("schema validation failed: %v", result.Errors)}
}
