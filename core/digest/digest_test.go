package digest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSHA256BytesKnownVector(test *testing.T) {
	got := SHA256Bytes([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		test.Fatalf("sha256(abc) = %s, want %s", got, want)
	}
	if !HexPattern.MatchString(got) {
		test.Fatalf("digest does not match hex pattern: %s", got)
	}
}

func TestSHA256FileMatchesBytes(test *testing.T) {
	dir := test.TempDir()
	path := filepath.Join(dir, "payload.bin")
	content := []byte(strings.Repeat("manifest integrity\n", 4096))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		test.Fatalf("write payload: %v", err)
	}
	fromFile, err := SHA256File(path)
	if err != nil {
		test.Fatalf("hash file: %v", err)
	}
	if fromFile != SHA256Bytes(content) {
		test.Fatalf("file and byte digests differ")
	}
}

func TestSHA256FileMissing(test *testing.T) {
	if _, err := SHA256File(filepath.Join(test.TempDir(), "absent")); err == nil {
		test.Fatalf("expected error for missing file")
	}
}
