package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
	"github.com/example/meeting-scheduler/internal/persistence/sqlite"
)

func openStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return store, path
}

func TestStoreAudit(t *testing.T) {
	t.Parallel()

	t.Run("appends and lists newest first", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store, _ := openStore(t)
		base := time.Date(2025, time.June, 20, 9, 0, 0, 0, time.UTC)

		entries := []persistence.AuditEntry{
			{At: base, Action: "user.created", Target: "user:1", Detail: "Alice"},
			{At: base.Add(time.Minute), Action: "meeting.scheduled", Target: "meeting:1"},
			{At: base.Add(2 * time.Minute), Action: "meeting.deleted", Target: "meeting:1"},
		}
		for _, entry := range entries {
			if err := store.AppendAudit(ctx, entry); err != nil {
				t.Fatalf("AppendAudit failed: %v", err)
			}
		}

		got, err := store.ListAudit(ctx, 2)
		if err != nil {
			t.Fatalf("ListAudit failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(got))
		}
		if got[0].Action != "meeting.deleted" || got[1].Action != "meeting.scheduled" {
			t.Fatalf("unexpected order: %+v", got)
		}
		if !got[1].At.Equal(base.Add(time.Minute)) {
			t.Fatalf("unexpected timestamp %s", got[1].At)
		}
		if got[1].Detail != "" {
			t.Fatalf("expected empty detail, got %q", got[1].Detail)
		}

		all, err := store.ListAudit(ctx, 0)
		if err != nil {
			t.Fatalf("ListAudit failed: %v", err)
		}
		if len(all) != 3 || all[2].Detail != "Alice" {
			t.Fatalf("unexpected entries: %+v", all)
		}
	})

	t.Run("empty journal is an empty slice", func(t *testing.T) {
		t.Parallel()

		store, _ := openStore(t)
		got, err := store.ListAudit(context.Background(), 10)
		if err != nil {
			t.Fatalf("ListAudit failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty slice, got %#v", got)
		}
	})

	t.Run("survives reopen and repeated migrate", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store, path := openStore(t)
		if err := store.AppendAudit(ctx, persistence.AuditEntry{Action: "user.created", Target: "user:7"}); err != nil {
			t.Fatalf("AppendAudit failed: %v", err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		reopened, err := sqlite.Open(path)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer reopened.Close()
		if err := reopened.Migrate(ctx); err != nil {
			t.Fatalf("Migrate failed: %v", err)
		}

		got, err := reopened.ListAudit(ctx, 0)
		if err != nil {
			t.Fatalf("ListAudit failed: %v", err)
		}
		if len(got) != 1 || got[0].Target != "user:7" {
			t.Fatalf("unexpected entries after reopen: %+v", got)
		}
	})

	t.Run("rejects use after close", func(t *testing.T) {
		t.Parallel()

		store, _ := openStore(t)
		if err := store.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
		err := store.AppendAudit(context.Background(), persistence.AuditEntry{Action: "x"})
		if !errors.Is(err, persistence.ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	})
}
