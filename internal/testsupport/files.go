package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"relnotes/internal/releases"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteChannel writes a releases.json for version under metadataDir.
func WriteChannel(t testing.TB, metadataDir, version, content string) {
	t.Helper()
	WriteFile(t, releases.MetadataPath(metadataDir, version), content)
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
