package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// DigestField is the self-referential hash field excluded from the
// canonical form of every manifest.
const DigestField = "manifest_sha256"

// CanonicalJSON returns the RFC 8785 (JCS) canonical form of JSON input.
func CanonicalJSON(input []byte) ([]byte, error) {
	return jcs.Transform(input)
}

// ManifestBytes returns the canonical byte sequence a manifest digest is
// computed over: the document with manifest_sha256 removed, serialized in
// RFC 8785 canonical form. Two documents with logically identical mappings
// produce byte-identical output regardless of construction order.
func ManifestBytes(raw []byte) ([]byte, error) {
	var document map[string]json.RawMessage
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("parse manifest document: %w", err)
	}
	delete(document, DigestField)
	stripped, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest document: %w", err)
	}
	canonical, err := jcs.Transform(stripped)
	if err != nil {
		return nil, fmt.Errorf("canonicalize manifest document: %w", err)
	}
	return canonical, nil
}

// ManifestDigest returns the sha256 hex digest over ManifestBytes.
func ManifestDigest(raw []byte) (string, error) {
	canonical, err := ManifestBytes(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
