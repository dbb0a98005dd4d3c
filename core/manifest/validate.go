package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/davidahmann/manifestkit/core/canonical"
	capabilitiesschema "github.com/davidahmann/manifestkit/core/schema/v1/capabilities"
	e2eschema "github.com/davidahmann/manifestkit/core/schema/v1/e2e"
	fixtureschema "github.com/davidahmann/manifestkit/core/schema/v1/fixture"
)

// SchemaChecker is the optional structural-validation capability. A nil
// checker means the capability is unavailable, which is not itself an error:
// the engine runs with reduced coverage.
type SchemaChecker interface {
	Check(raw []byte) []string
}

// Validate runs the full soft-error pipeline for one manifest kind and
// returns every discovered defect. It never short-circuits: a single pass
// surfaces the complete defect set. An empty list signals a valid manifest.
func Validate(document map[string]any, raw []byte, manifestPath string, checker SchemaChecker, kind Kind) []string {
	var accumulated []string
	baseDir := filepath.Dir(manifestPath)

	if checker != nil {
		accumulated = append(accumulated, checker.Check(raw)...)
	}

	switch kind {
	case KindFixture:
		validateFixtureFields(document, &accumulated)
		checkManifestDigest(document, raw, kind, &accumulated)
		verifyFixtureArtifacts(document, baseDir, &accumulated)
		scanFixtureProvenance(document, &accumulated)
	case KindE2E:
		validateE2EFields(document, &accumulated)
		checkManifestDigest(document, raw, kind, &accumulated)
		verifyE2EEntries(document, baseDir, &accumulated)
	case KindCapabilities:
		validateCapabilitiesFields(document, &accumulated)
		checkManifestDigest(document, raw, kind, &accumulated)
	default:
		accumulated = append(accumulated, fmt.Sprintf("unknown manifest kind: %s", kind))
	}

	return accumulated
}

// ValidateFile loads the manifest and runs Validate. Hard failures (missing
// file, invalid JSON) come back through the error return; soft findings
// through the list.
func ValidateFile(path string, checker SchemaChecker, kind Kind) ([]string, error) {
	document, raw, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Validate(document, raw, path, checker, kind), nil
}

// checkManifestDigest recomputes the self-referential hash over the
// canonical form of the document with manifest_sha256 removed and compares
// it to the stored value. The stored value is valid exactly when this
// round-trip reproduces it.
func checkManifestDigest(document map[string]any, raw []byte, kind Kind, accumulated *[]string) {
	stored, present := document[canonical.DigestField]
	if kind == KindCapabilities && !present {
		// Capabilities manifests do not carry a self-hash; verify only when
		// one is recorded.
		return
	}

	storedText, isString := stored.(string)
	if kind == KindE2E {
		if !isString {
			*accumulated = append(*accumulated, "manifest_sha256 must be string")
			return
		}
		if !sha256Pattern.MatchString(storedText) {
			*accumulated = append(*accumulated, "manifest_sha256 not sha256 hex")
		}
		computed, err := canonical.ManifestDigest(raw)
		if err != nil {
			*accumulated = append(*accumulated, fmt.Sprintf("manifest canonicalization failed: %v", err))
			return
		}
		if storedText != computed {
			*accumulated = append(*accumulated, fmt.Sprintf(
				"manifest_sha256 mismatch: expected %s, got %s", storedText, computed))
		}
		return
	}

	if !isString || !sha256Pattern.MatchString(storedText) {
		*accumulated = append(*accumulated, "manifest_sha256 must be sha256 hex")
		return
	}
	computed, err := canonical.ManifestDigest(raw)
	if err != nil {
		*accumulated = append(*accumulated, fmt.Sprintf("manifest canonicalization failed: %v", err))
		return
	}
	if storedText != computed {
		*accumulated = append(*accumulated, "manifest_sha256 mismatch")
	}
}

// DecodeFixture lowers a validated document into its typed record.
func DecodeFixture(raw []byte) (fixtureschema.Manifest, error) {
	var typed fixtureschema.Manifest
	if err := json.Unmarshal(raw, &typed); err != nil {
		return fixtureschema.Manifest{}, fmt.Errorf("decode fixture manifest: %w", err)
	}
	return typed, nil
}

// DecodeE2E lowers a validated document into its typed record.
func DecodeE2E(raw []byte) (e2eschema.Manifest, error) {
	var typed e2eschema.Manifest
	if err := json.Unmarshal(raw, &typed); err != nil {
		return e2eschema.Manifest{}, fmt.Errorf("decode e2e manifest: %w", err)
	}
	return typed, nil
}

// DecodeCapabilities lowers a validated document into its typed record.
func DecodeCapabilities(raw []byte) (capabilitiesschema.Manifest, error) {
	var typed capabilitiesschema.Manifest
	if err := json.Unmarshal(raw, &typed); err != nil {
		return capabilitiesschema.Manifest{}, fmt.Errorf("decode capabilities manifest: %w", err)
	}
	return typed, nil
}
