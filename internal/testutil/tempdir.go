package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// TempDir returns a scratch directory for snapshot, config and store
// files. It is removed by the returned function or at the end of the test,
// whichever comes first.
func TempDir(t testing.TB) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "quantagraph-*")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() { os.RemoveAll(dir) })
	}
	t.Cleanup(cleanup)

	return dir, cleanup
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
