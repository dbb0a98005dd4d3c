// Package capture produces deterministic fixture manifests: a sorted walk of
// a fixture directory with per-file checksums, redacted provenance, a
// self-referential content hash, and an append-only JSONL capture log.
package capture

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidahmann/manifestkit/core/canonical"
	"github.com/davidahmann/manifestkit/core/digest"
	"github.com/davidahmann/manifestkit/core/fsx"
	"github.com/davidahmann/manifestkit/core/redact"
	fixtureschema "github.com/davidahmann/manifestkit/core/schema/v1/fixture"
)

const (
	// Version is recorded in tool_versions under the fixture_capture key.
	Version       = "1.0.0"
	SchemaVersion = "1.0.0"

	DefaultOutputPath = "fixture_manifest.json"
	DefaultLogPath    = "logs/fixture_capture.jsonl"
	DefaultEvent      = "fixture_capture"
)

var validProfiles = map[string]bool{
	"minimal":  true,
	"safe":     true,
	"forensic": true,
	"custom":   true,
}

type Options struct {
	FixtureDir       string
	FixtureID        string // generated when empty
	Domain           string
	Description      string
	Origin           string // defaults to "manual"
	Command          []string
	SourcePaths      []string
	ToolVersions     map[string]string
	RedactionProfile string // defaults to "safe"
	CaptureTime      string // RFC3339; defaults to now UTC
	OutputPath       string // relative paths resolve against FixtureDir
	LogPath          string
	Event            string
	HostID           string
	Excludes         []string // globs matched against slash-relative paths
	DisableLog       bool
}

type Result struct {
	ManifestPath   string
	Manifest       fixtureschema.Manifest
	ManifestSHA256 string
	DurationMS     int64
}

type logRecord struct {
	Event      string        `json:"event"`
	Timestamp  string        `json:"timestamp"`
	FixtureID  string        `json:"fixture_id"`
	DurationMS int64         `json:"duration_ms"`
	Artifacts  []logArtifact `json:"artifacts"`
	HostID     string        `json:"host_id,omitempty"`
}

type logArtifact struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Bytes  int64  `json:"bytes"`
}

// Run captures the fixture directory and writes the manifest atomically.
func Run(options Options) (Result, error) {
	fixtureDir, err := filepath.Abs(options.FixtureDir)
	if err != nil {
		return Result{}, fmt.Errorf("resolve fixture dir: %w", err)
	}
	if info, statErr := os.Stat(fixtureDir); statErr != nil || !info.IsDir() {
		return Result{}, fmt.Errorf("fixture_dir not found: %s", fixtureDir)
	}

	profile := options.RedactionProfile
	if profile == "" {
		profile = "safe"
	}
	if !validProfiles[profile] {
		return Result{}, fmt.Errorf("redaction profile must be one of minimal/safe/forensic/custom")
	}

	fixtureID := strings.TrimSpace(options.FixtureID)
	if fixtureID == "" {
		fixtureID = uuid.NewString()
	}
	if strings.TrimSpace(options.Domain) == "" {
		return Result{}, fmt.Errorf("domain is required")
	}

	captureTime := options.CaptureTime
	if captureTime == "" {
		captureTime = time.Now().UTC().Format(time.RFC3339)
	}
	origin := options.Origin
	if origin == "" {
		origin = "manual"
	}

	outputPath := resolveAgainst(fixtureDir, options.OutputPath, DefaultOutputPath)
	logPath := ""
	if !options.DisableLog {
		logPath = resolveAgainst(fixtureDir, options.LogPath, DefaultLogPath)
	}

	started := time.Now()
	artifacts, err := gatherArtifacts(fixtureDir, options.Excludes, outputPath, logPath, profile)
	if err != nil {
		return Result{}, err
	}

	toolVersions := map[string]string{"fixture_capture": Version}
	for key, value := range options.ToolVersions {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			return Result{}, fmt.Errorf("tool versions must have non-empty keys and values")
		}
		toolVersions[key] = value
	}

	manifest := fixtureschema.Manifest{
		SchemaVersion:    SchemaVersion,
		FixtureID:        fixtureID,
		Domain:           options.Domain,
		Description:      options.Description,
		CaptureTime:      captureTime,
		Source:           fixtureschema.Source{Origin: origin},
		ToolVersions:     toolVersions,
		RedactionProfile: profile,
		Artifacts:        artifacts,
	}
	if len(options.Command) > 0 {
		manifest.Source.Command = redact.Values(options.Command)
	}
	if len(options.SourcePaths) > 0 {
		manifest.Source.Paths = redact.Values(options.SourcePaths)
	}

	unsigned, err := json.Marshal(manifest)
	if err != nil {
		return Result{}, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestDigest, err := canonical.ManifestDigest(unsigned)
	if err != nil {
		return Result{}, fmt.Errorf("digest manifest: %w", err)
	}
	manifest.ManifestSHA256 = manifestDigest

	encoded, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode manifest: %w", err)
	}
	encoded = append(encoded, '\n')
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return Result{}, fmt.Errorf("create manifest directory: %w", err)
	}
	if err := fsx.WriteFileAtomic(outputPath, encoded, 0o644); err != nil {
		return Result{}, fmt.Errorf("write manifest: %w", err)
	}

	durationMS := time.Since(started).Milliseconds()
	if logPath != "" {
		if err := appendCaptureLog(logPath, options.Event, fixtureID, options.HostID, durationMS, artifacts); err != nil {
			return Result{}, err
		}
	}

	return Result{
		ManifestPath:   outputPath,
		Manifest:       manifest,
		ManifestSHA256: manifestDigest,
		DurationMS:     durationMS,
	}, nil
}

func resolveAgainst(baseDir, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(baseDir, value)
}

// gatherArtifacts walks the fixture directory in sorted order, skipping the
// manifest output, the capture log, and excluded paths.
func gatherArtifacts(fixtureDir string, excludes []string, outputPath, logPath, profile string) ([]fixtureschema.Artifact, error) {
	var relPaths []string
	err := filepath.WalkDir(fixtureDir, func(walkPath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if walkPath == outputPath || (logPath != "" && walkPath == logPath) {
			return nil
		}
		relPath, relErr := filepath.Rel(fixtureDir, walkPath)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)
		if matchesExclude(relPath, excludes) {
			return nil
		}
		relPaths = append(relPaths, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk fixture dir: %w", err)
	}
	sort.Strings(relPaths)

	artifacts := make([]fixtureschema.Artifact, 0, len(relPaths))
	for _, relPath := range relPaths {
		fullPath := filepath.Join(fixtureDir, filepath.FromSlash(relPath))
		info, err := os.Stat(fullPath)
		if err != nil {
			return nil, fmt.Errorf("stat artifact %s: %w", relPath, err)
		}
		fileDigest, err := digest.SHA256File(fullPath)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, fixtureschema.Artifact{
			Path:             relPath,
			Kind:             inferKind(relPath),
			SHA256:           fileDigest,
			Bytes:            info.Size(),
			RedactionProfile: profile,
		})
	}
	return artifacts, nil
}

func matchesExclude(relPath string, excludes []string) bool {
	for _, pattern := range excludes {
		if matched, err := path.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := path.Match(pattern, path.Base(relPath)); err == nil && matched {
			return true
		}
	}
	return false
}

func inferKind(relPath string) string {
	name := strings.ToLower(path.Base(relPath))
	switch {
	case strings.HasSuffix(name, ".jsonl"):
		return "log"
	case strings.Contains(name, "policy"):
		return "policy"
	case strings.Contains(name, "priors"):
		return "priors"
	case strings.HasSuffix(name, "manifest.json"):
		return "manifest"
	case strings.HasSuffix(name, ".json"):
		return "config"
	default:
		return "other"
	}
}

func appendCaptureLog(logPath, event, fixtureID, hostID string, durationMS int64, artifacts []fixtureschema.Artifact) error {
	if event == "" {
		event = DefaultEvent
	}
	record := logRecord{
		Event:      event,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		FixtureID:  fixtureID,
		DurationMS: durationMS,
		Artifacts:  make([]logArtifact, 0, len(artifacts)),
		HostID:     hostID,
	}
	for _, artifact := range artifacts {
		record.Artifacts = append(record.Artifacts, logArtifact{
			Path:   artifact.Path,
			SHA256: artifact.SHA256,
			Bytes:  artifact.Bytes,
		})
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode capture log record: %w", err)
	}
	if err := fsx.AppendLine(logPath, encoded, 0o644); err != nil {
		return fmt.Errorf("append capture log: %w", err)
	}
	return nil
}
