// internal/database/migrate.go
//
// Forward-only schema migrations.
//
// Context
// -------
// Each Migration carries a monotonically increasing Version and one or more
// DDL statements.  Applied versions are recorded in `schema_migration`, so
// re-running Migrate is a no-op.  MySQL commits DDL implicitly, therefore
// each statement is executed on its own and a failure leaves earlier
// statements applied; fix forward.
//
// Notes
// -----
// • Versions must be unique and sorted ascending; Migrate refuses otherwise.
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Migration is one schema step.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

const createMigrationTable = `CREATE TABLE IF NOT EXISTS schema_migration (
    version    INT UNSIGNED NOT NULL PRIMARY KEY,
    name       VARCHAR(128) NOT NULL,
    applied_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Migrate applies every migration whose version is not yet recorded and
// returns the number applied.
func Migrate(ctx context.Context, db *sqlx.DB, migrations []Migration) (int, error) {
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version <= migrations[i-1].Version {
			return 0, fmt.Errorf("migration %d out of order", migrations[i].Version)
		}
	}

	if _, err := db.ExecContext(ctx, createMigrationTable); err != nil {
		return 0, fmt.Errorf("create schema_migration: %w", err)
	}

	var done []int
	if err := db.SelectContext(ctx, &done, `SELECT version FROM schema_migration`); err != nil {
		return 0, fmt.Errorf("read schema_migration: %w", err)
	}
	applied := make(map[int]struct{}, len(done))
	for _, v := range done {
		applied[v] = struct{}{}
	}

	var n int
	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		for _, stmt := range m.Statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return n, fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
			}
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_migration (version, name) VALUES (?, ?)`,
			m.Version, m.Name); err != nil {
			return n, fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		zap.L().Info("migration applied",
			zap.Int("version", m.Version), zap.String("name", m.Name))
		n++
	}
	return n, nil
}
