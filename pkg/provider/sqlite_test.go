package provider

import (
	"os"
	"testing"
)

// setupTestDB creates a temporary database file and a provider over it.
func setupTestDB(t *testing.T) (*SQLiteProvider, func()) {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "testdb_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file for test database: %v", err)
	}
	path := tmpfile.Name()
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	provider, err := NewSQLiteProvider(path, nil)
	if err != nil {
		os.Remove(path)
		t.Fatalf("Failed to create SQLiteProvider for test: %v", err)
	}

	cleanup := func() {
		provider.Close()
		os.Remove(path)
	}
	return provider, cleanup
}

func TestSQLiteProvider(t *testing.T) {
	provider, cleanup := setupTestDB(t)
	defer cleanup()
	testProviderContract(t, provider)
}

func TestSQLiteProviderReopen(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/records.db"

	first, err := NewSQLiteProvider(path, nil)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	testProviderContract(t, first)
	first.Close()

	second, err := NewSQLiteProvider(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	recs, err := second.ListRecords(10, 0)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("Expected 3 records after reopen, got %d", len(recs))
	}
}

func TestNewSQLiteProviderEmptyPath(t *testing.T) {
	if _, err := NewSQLiteProvider("", nil); err == nil {
		t.Error("Expected error for empty path")
	}
}
