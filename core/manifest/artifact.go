package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davidahmann/manifestkit/core/digest"
)

// resolveEntryPath resolves a recorded path against the manifest's own
// directory unless the path is absolute.
func resolveEntryPath(pathValue, baseDir string) string {
	if filepath.IsAbs(pathValue) {
		return pathValue
	}
	return filepath.Join(baseDir, pathValue)
}

// verifyFileEntry checks one referenced file against the filesystem:
// existence, then recorded size and digest against actual values. A missing
// file is a single error; once the file exists, size and digest mismatches
// are reported independently since both are diagnostically useful. The
// return value reports whether the entry resolved to a readable file.
func verifyFileEntry(entry map[string]any, baseDir, label string, accumulated *[]string) bool {
	pathValue, ok := asString(entry["path"])
	if !ok || pathValue == "" {
		*accumulated = append(*accumulated, fmt.Sprintf("%s entry missing path", label))
		return false
	}
	resolved := resolveEntryPath(pathValue, baseDir)

	info, err := os.Stat(resolved)
	if err != nil {
		*accumulated = append(*accumulated, fmt.Sprintf("%s file missing: %s", label, resolved))
		return false
	}
	actualBytes := info.Size()
	actualHash, err := digest.SHA256File(resolved)
	if err != nil {
		*accumulated = append(*accumulated, fmt.Sprintf("%s file unreadable: %s", label, resolved))
		return false
	}

	if expectedBytes, ok := asInt(entry["bytes"]); !ok {
		*accumulated = append(*accumulated, fmt.Sprintf("%s bytes missing for %s", label, pathValue))
	} else if expectedBytes != actualBytes {
		*accumulated = append(*accumulated, fmt.Sprintf(
			"%s bytes mismatch for %s: expected %d, got %d", label, pathValue, expectedBytes, actualBytes))
	}

	if expectedHash, ok := asString(entry["sha256"]); !ok || !sha256Pattern.MatchString(expectedHash) {
		*accumulated = append(*accumulated, fmt.Sprintf("%s sha256 invalid for %s", label, pathValue))
	} else if expectedHash != actualHash {
		*accumulated = append(*accumulated, fmt.Sprintf(
			"%s sha256 mismatch for %s: expected %s, got %s", label, pathValue, expectedHash, actualHash))
	}
	return true
}
