package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
)

// HexPattern matches a lowercase sha256 hex digest.
var HexPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// SHA256Bytes returns the lowercase hex sha256 digest of data.
func SHA256Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA256File streams the file through sha256 so memory use is independent
// of file size.
func SHA256File(path string) (string, error) {
	// #nosec G304 -- path comes from an explicit manifest entry or caller input.
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hashing: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash file %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
