package persistence

import "context"

// AuditRepository appends to and reads from the audit journal.
type AuditRepository interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
	// ListAudit returns up to limit entries, newest first. A limit of zero or
	// less returns every entry.
	ListAudit(ctx context.Context, limit int) ([]AuditEntry, error)
	Close() error
}
