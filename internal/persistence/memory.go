package persistence

import (
	"context"
	"sync"
	"time"
)

// NopAuditLog discards every entry. It backs the "none" audit driver.
type NopAuditLog struct{}

// AppendAudit implements AuditRepository.
func (NopAuditLog) AppendAudit(context.Context, AuditEntry) error { return nil }

// ListAudit implements AuditRepository and always returns an empty journal.
func (NopAuditLog) ListAudit(context.Context, int) ([]AuditEntry, error) {
	return []AuditEntry{}, nil
}

// Close implements AuditRepository.
func (NopAuditLog) Close() error { return nil }

// MemoryAuditLog keeps the journal in process memory.
type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	closed  bool
}

// NewMemoryAuditLog returns an empty in-memory journal.
func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{}
}

// AppendAudit implements AuditRepository.
func (m *MemoryAuditLog) AppendAudit(_ context.Context, entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	entry.At = entry.At.UTC()
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

// ListAudit implements AuditRepository.
func (m *MemoryAuditLog) ListAudit(_ context.Context, limit int) ([]AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]AuditEntry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Close implements AuditRepository.
func (m *MemoryAuditLog) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
