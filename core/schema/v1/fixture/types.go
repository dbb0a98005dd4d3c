package fixture

// Manifest is the typed shape of a fixture manifest. Documents are validated
// as untyped maps first (core/manifest); this record is the post-validation
// lowering used by capture and by callers that want typed access.
type Manifest struct {
	SchemaVersion    string            `json:"schema_version"`
	FixtureID        string            `json:"fixture_id"`
	Domain           string            `json:"domain"`
	Description      string            `json:"description,omitempty"`
	CaptureTime      string            `json:"capture_time"`
	Source           Source            `json:"source"`
	ToolVersions     map[string]string `json:"tool_versions"`
	RedactionProfile string            `json:"redaction_profile"`
	Artifacts        []Artifact        `json:"artifacts"`
	ManifestSHA256   string            `json:"manifest_sha256"`
}

type Source struct {
	Origin  string   `json:"origin"`
	Command []string `json:"command,omitempty"`
	Paths   []string `json:"paths,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

type Artifact struct {
	Path             string `json:"path"`
	Kind             string `json:"kind"`
	SHA256           string `json:"sha256"`
	Bytes            int64  `json:"bytes"`
	RedactionProfile string `json:"redaction_profile"`
}
