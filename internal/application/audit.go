package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// Audit actions written to the journal.
const (
	ActionUserCreated      = "user.created"
	ActionUserRemoved      = "user.removed"
	ActionMeetingScheduled = "meeting.scheduled"
	ActionMeetingAdded     = "meeting.added"
	ActionMeetingDeleted   = "meeting.deleted"
	ActionCalendarImported = "calendar.imported"
	defaultAuditListLimit  = 100
	maximumAuditListLimit  = 1000
)

// AuditService records successful mutations. Journal failures are logged and
// never fail the mutation that triggered them.
type AuditService struct {
	repo   persistence.AuditRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewAuditService wraps repo. A nil repo disables the journal.
func NewAuditService(repo persistence.AuditRepository, now func() time.Time, logger *slog.Logger) *AuditService {
	if repo == nil {
		repo = persistence.NopAuditLog{}
	}
	if now == nil {
		now = time.Now
	}
	return &AuditService{repo: repo, now: now, logger: defaultLogger(logger)}
}

// Record appends an entry to the journal.
func (s *AuditService) Record(ctx context.Context, action, target, detail string) {
	if s == nil {
		return
	}
	entry := persistence.AuditEntry{
		At:     s.now().UTC(),
		Action: action,
		Target: target,
		Detail: detail,
	}
	if err := s.repo.AppendAudit(ctx, entry); err != nil {
		serviceLogger(ctx, s.logger, "AuditService", "Record", "action", action, "target", target).
			WarnContext(ctx, "failed to append audit entry", "error", err)
	}
}

// List returns the newest journal entries. Limits outside 1..1000 fall back
// to 100.
func (s *AuditService) List(ctx context.Context, limit int) ([]persistence.AuditEntry, error) {
	if s == nil {
		return []persistence.AuditEntry{}, nil
	}
	if limit <= 0 || limit > maximumAuditListLimit {
		limit = defaultAuditListLimit
	}
	entries, err := s.repo.ListAudit(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return entries, nil
}

func userTarget(id int) string    { return fmt.Sprintf("user:%d", id) }
func meetingTarget(id int) string { return fmt.Sprintf("meeting:%d", id) }
