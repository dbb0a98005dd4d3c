package e2e

// Manifest is the typed shape of an end-to-end artifact manifest.
type Manifest struct {
	SchemaVersion  string         `json:"schema_version"`
	RunID          string         `json:"run_id"`
	Suite          string         `json:"suite"`
	TestID         string         `json:"test_id"`
	Timestamp      string         `json:"timestamp"`
	Env            Env            `json:"env"`
	Commands       []Command      `json:"commands"`
	Logs           []Log          `json:"logs"`
	Artifacts      []Artifact     `json:"artifacts"`
	Metrics        map[string]any `json:"metrics"`
	ManifestSHA256 string         `json:"manifest_sha256"`
}

type Env struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Kernel     string `json:"kernel"`
	CIProvider string `json:"ci_provider"`
}

// Command records one executed step.
type Command struct {
	Argv       []string `json:"argv"`
	ExitCode   int      `json:"exit_code"`
	DurationMS int64    `json:"duration_ms"`
}

type Log struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Bytes  int64  `json:"bytes"`
}

type Artifact struct {
	Path             string `json:"path"`
	Kind             string `json:"kind"`
	SHA256           string `json:"sha256"`
	Bytes            int64  `json:"bytes"`
	RedactionProfile string `json:"redaction_profile,omitempty"`
}
