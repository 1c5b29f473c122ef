// Package testutil provides shared test helpers for setting up libraries and catalogs.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ganttview/internal/catalog"
	"github.com/starford/ganttview/internal/msproject"
	"github.com/starford/ganttview/internal/storage"
)

// TestDB opens an in-memory catalog that is closed when the test ends.
func TestDB(t *testing.T) *catalog.DB {
	t.Helper()
	db, err := catalog.Open(catalog.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary library directory with a storage.Provider.
func TestLibrary(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes data to rel under dir, creating parent directories.
func WriteFile(t *testing.T, dir, rel, data string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

// WriteSample writes the bundled sample project to rel under dir.
func WriteSample(t *testing.T, dir, rel string) {
	t.Helper()
	WriteFile(t, dir, rel, msproject.Sample)
}
