package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SnapshotKV is a durable key-value store for serialized analysis snapshots,
// backed by the same SQLite database as the rest of the storage layer. It
// implements the insights cache's KVStore contract.
type SnapshotKV struct {
	db *sql.DB
}

// SnapshotKV returns the snapshot key-value store sharing this database.
func (s *SQLiteStorage) SnapshotKV() *SnapshotKV {
	return &SnapshotKV{db: s.db}
}

// Get returns the stored value for a key, if any.
func (kv *SnapshotKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, false, err
	}

	var value []byte
	err := kv.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_cache WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot cache: %w", err)
	}
	return value, true, nil
}

// Set overwrites the value for a key.
func (kv *SnapshotKV) Set(ctx context.Context, key string, value []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	_, err := kv.db.ExecContext(ctx, `
		INSERT INTO snapshot_cache (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write snapshot cache: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (kv *SnapshotKV) Delete(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	if _, err := kv.db.ExecContext(ctx,
		`DELETE FROM snapshot_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete snapshot cache entry: %w", err)
	}
	return nil
}
