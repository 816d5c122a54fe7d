package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Manager runs pending migrations in version order.
type Manager struct {
	executor   *Executor
	migrations []Migration
	logger     *slog.Logger
}

// NewManager creates a Manager for the given, already scanned, migrations.
func NewManager(executor *Executor, migrations []Migration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{executor: executor, migrations: migrations, logger: logger.With("component", "migration")}
}

// Run applies every migration not yet recorded and returns how many ran.
// A recorded migration whose checksum changed aborts the run.
func (m *Manager) Run(ctx context.Context) (int, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return 0, err
	}

	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		m.logger.DebugContext(ctx, "schema up to date")
		return 0, nil
	}

	for i, migration := range pending {
		started := time.Now()
		if err := m.executor.Apply(ctx, migration); err != nil {
			m.logger.ErrorContext(ctx, "migration failed",
				"version", migration.Version,
				"file", migration.FilePath,
				"error", err,
			)
			return i, err
		}
		m.logger.InfoContext(ctx, "migration applied",
			"version", migration.Version,
			"description", migration.Description,
			"duration", time.Since(started),
		)
	}
	return len(pending), nil
}

// Pending returns the migrations that have not been applied yet.
func (m *Manager) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.executor.Applied(ctx)
	if err != nil {
		return nil, err
	}

	recorded := make(map[string]string, len(applied))
	for _, a := range applied {
		recorded[a.Version] = a.Checksum
	}

	var pending []Migration
	for _, migration := range m.migrations {
		sum, ok := recorded[migration.Version]
		if !ok {
			pending = append(pending, migration)
			continue
		}
		if sum != "" && sum != migration.Checksum {
			return nil, NewMigrationError(migration.Version, migration.FilePath, "verify checksum",
				fmt.Errorf("%w: recorded %s", ErrChecksumMismatch, sum))
		}
	}
	return pending, nil
}
