package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/meeting-scheduler/internal/persistence/sqlite"
)

// NewSQLiteAuditStore opens and migrates an audit store in a temporary
// directory. The store is closed when tb finishes.
func NewSQLiteAuditStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "audit.db")
	store, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open audit store: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate audit store: %v", err)
	}
	return store
}
