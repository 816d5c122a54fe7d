// Package migration applies versioned SQL schema changes to SQLite databases.
//
// Migration files are read from an fs.FS (usually an embed.FS) and follow the
// naming convention {version}_{description}.sql, for example
// "001_audit_log.sql". Applied versions are tracked in the
// schema_migrations table so each file runs exactly once.
//
// Example usage:
//
//	migrations, err := migration.Scan(migrationsFS, "migrations")
//	if err != nil {
//		return err
//	}
//	manager := migration.NewManager(migration.NewExecutor(db), migrations, logger)
//	if _, err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
