// Package sqlite implements the audit journal on top of modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/meeting-scheduler/internal/logging"
	"github.com/example/meeting-scheduler/internal/persistence"
	"github.com/example/meeting-scheduler/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store persists audit entries in a SQLite database.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

var _ persistence.AuditRepository = (*Store)(nil)

// Open connects to the database identified by dsn. Call Migrate before use.
func Open(dsn string) (*Store, error) {
	db, err := migration.OpenDB(migration.DefaultSQLiteConfig(dsn))
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	migrations, err := migration.Scan(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return persistence.ErrClosed
	}

	manager := migration.NewManager(migration.NewExecutor(s.db), migrations, logging.FromContext(ctx))
	if _, err := manager.Run(ctx); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool. It is safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// AppendAudit stores a journal entry. A zero At is replaced by the current time.
func (s *Store) AppendAudit(ctx context.Context, entry persistence.AuditEntry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return persistence.ErrClosed
	}

	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (at, action, target, detail) VALUES (?, ?, ?, ?)`,
		entry.At.UTC().Format(time.RFC3339Nano), entry.Action, entry.Target, nullString(entry.Detail),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append audit: %w", err)
	}
	return nil
}

// ListAudit returns up to limit entries, newest first.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]persistence.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, persistence.ErrClosed
	}

	query := `SELECT id, at, action, target, COALESCE(detail, '') FROM audit_log ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list audit: %w", err)
	}
	defer rows.Close()

	entries := []persistence.AuditEntry{}
	for rows.Next() {
		var (
			entry persistence.AuditEntry
			at    string
		)
		if err := rows.Scan(&entry.ID, &at, &entry.Action, &entry.Target, &entry.Detail); err != nil {
			return nil, fmt.Errorf("sqlite: scan audit: %w", err)
		}
		if entry.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("sqlite: parse audit time %q: %w", at, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list audit: %w", err)
	}
	return entries, nil
}

func nullString(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
