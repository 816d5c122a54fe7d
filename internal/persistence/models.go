package persistence

import "time"

// AuditEntry records one successful mutation of scheduler state.
type AuditEntry struct {
	ID     int64
	At     time.Time
	Action string
	Target string
	Detail string
}
