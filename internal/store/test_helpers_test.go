package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/roach88/wherequery/internal/writer"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCompilation creates a compilation with minimal fields.
func createTestCompilation(id, resource, sql string) Compilation {
	return Compilation{
		ID:          id,
		Resource:    resource,
		Filter:      `{"a":1}`,
		SQL:         sql,
		Parameters:  json.RawMessage(`{"a":1}`),
		Diagnostics: []writer.Diagnostic{},
	}
}
