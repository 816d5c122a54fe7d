package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

func TestMemoryAuditLog(t *testing.T) {
	t.Parallel()

	t.Run("lists newest first with limit", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		log := persistence.NewMemoryAuditLog()
		base := time.Date(2025, time.June, 20, 9, 0, 0, 0, time.UTC)
		for i, action := range []string{"user.created", "meeting.scheduled", "meeting.deleted"} {
			entry := persistence.AuditEntry{At: base.Add(time.Duration(i) * time.Minute), Action: action, Target: "1"}
			if err := log.AppendAudit(ctx, entry); err != nil {
				t.Fatalf("AppendAudit failed: %v", err)
			}
		}

		entries, err := log.ListAudit(ctx, 2)
		if err != nil {
			t.Fatalf("ListAudit failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Action != "meeting.deleted" || entries[1].Action != "meeting.scheduled" {
			t.Fatalf("unexpected order: %+v", entries)
		}
		if entries[0].ID != 3 {
			t.Fatalf("expected id 3, got %d", entries[0].ID)
		}

		all, err := log.ListAudit(ctx, 0)
		if err != nil {
			t.Fatalf("ListAudit failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(all))
		}
	})

	t.Run("rejects use after close", func(t *testing.T) {
		t.Parallel()

		log := persistence.NewMemoryAuditLog()
		if err := log.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		err := log.AppendAudit(context.Background(), persistence.AuditEntry{Action: "x"})
		if !errors.Is(err, persistence.ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	})

	t.Run("nop log stays empty", func(t *testing.T) {
		t.Parallel()

		var log persistence.AuditRepository = persistence.NopAuditLog{}
		if err := log.AppendAudit(context.Background(), persistence.AuditEntry{Action: "x"}); err != nil {
			t.Fatalf("AppendAudit failed: %v", err)
		}
		entries, err := log.ListAudit(context.Background(), 10)
		if err != nil {
			t.Fatalf("ListAudit failed: %v", err)
		}
		if entries == nil || len(entries) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", entries)
		}
	})
}
