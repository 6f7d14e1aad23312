package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: transactions, incomes, budgets, subscriptions, fixed expenses, goals",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					merchant TEXT NOT NULL,
					category TEXT NOT NULL,
					amount TEXT NOT NULL,
					tx_date DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_user_date ON transactions(user_id, tx_date)`,

				`CREATE TABLE IF NOT EXISTS incomes (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					source TEXT,
					amount TEXT NOT NULL,
					income_date DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_incomes_user_date ON incomes(user_id, income_date)`,

				`CREATE TABLE IF NOT EXISTS budgets (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					category TEXT NOT NULL,
					amount TEXT NOT NULL,
					UNIQUE(user_id, category)
				)`,

				`CREATE TABLE IF NOT EXISTS subscriptions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					name TEXT NOT NULL,
					amount TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS fixed_expenses (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					name TEXT NOT NULL,
					amount TEXT NOT NULL,
					is_active INTEGER NOT NULL DEFAULT 1
				)`,

				`CREATE TABLE IF NOT EXISTS goals (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					title TEXT NOT NULL,
					target_amount TEXT NOT NULL,
					current_amount TEXT NOT NULL DEFAULT '0',
					target_date DATETIME,
					metric_type TEXT NOT NULL DEFAULT 'savings',
					status TEXT NOT NULL DEFAULT 'active',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_goals_user_status ON goals(user_id, status)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Action items with per-month source-hash de-duplication",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS action_items (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					month TEXT NOT NULL,
					title TEXT NOT NULL,
					source_insight TEXT,
					source_hash TEXT NOT NULL,
					priority TEXT NOT NULL DEFAULT 'MEDIUM',
					status TEXT NOT NULL DEFAULT 'pending',
					due_date DATETIME,
					done_at DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(user_id, month, source_hash)
				)`,
				`CREATE INDEX idx_action_items_user_month ON action_items(user_id, month)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Snapshot key-value cache",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS snapshot_cache (
					key TEXT PRIMARY KEY,
					value BLOB NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`)
			if err != nil {
				return fmt.Errorf("failed to create snapshot cache table: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies any pending migrations to bring the schema up to date.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			m.Version, m.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}
