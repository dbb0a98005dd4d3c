package capabilities

// Manifest is the typed shape of a host capabilities manifest.
type Manifest struct {
	SchemaVersion string         `json:"schema_version"`
	OS            OS             `json:"os"`
	Tools         map[string]any `json:"tools"`
	User          User           `json:"user"`
	Paths         Paths          `json:"paths"`
	DiscoveredAt  string         `json:"discovered_at"`
}

type OS struct {
	Family  string `json:"family"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

type User struct {
	UID      int    `json:"uid"`
	Username string `json:"username"`
	Home     string `json:"home"`
}

type Paths struct {
	ConfigDir string `json:"config_dir"`
	DataDir   string `json:"data_dir"`
}
