package bridge

import (
	"database/sql"
	"testing"
)

// NewTestBridge creates a fresh in-memory embedded database with the
// schema applied. The database lives until the test ends.
func NewTestBridge(t *testing.T) *SQLiteBridge {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test bridge database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := createLocalTables(db); err != nil {
		db.Close()
		t.Fatalf("creating test bridge schema: %v", err)
	}

	b := &SQLiteBridge{db: db}
	t.Cleanup(func() { b.Close() })

	return b
}
