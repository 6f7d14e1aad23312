package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eakarsu/parapilot/internal/common"
	"github.com/eakarsu/parapilot/internal/model"
)

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetActionItems returns all action items for a user and month. Pending
// items sort before resolved ones, then by priority (HIGH first), then by
// due date (undated last), then by creation time.
func (s *SQLiteStorage) GetActionItems(ctx context.Context, userID string, month model.PeriodKey) ([]model.ActionItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, month, title, source_insight, source_hash,
		       priority, status, due_date, done_at, created_at, updated_at
		FROM action_items
		WHERE user_id = ? AND month = ?
		ORDER BY CASE status WHEN 'pending' THEN 0 ELSE 1 END,
			CASE priority
				WHEN 'HIGH' THEN 0
				WHEN 'MEDIUM' THEN 1
				ELSE 2
			END,
			CASE WHEN due_date IS NULL THEN 1 ELSE 0 END,
			due_date ASC,
			created_at ASC`,
		userID, string(month))
	if err != nil {
		return nil, fmt.Errorf("failed to query action items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.ActionItem
	for rows.Next() {
		item, err := scanActionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate action items: %w", err)
	}

	slog.Debug("loaded action items", "user_id", userID, "month", month, "count", len(items))
	return items, nil
}

// GetActionItem returns one action item by ID, or ErrNotFound.
func (s *SQLiteStorage) GetActionItem(ctx context.Context, actionID string) (*model.ActionItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(actionID, "actionID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, month, title, source_insight, source_hash,
		       priority, status, due_date, done_at, created_at, updated_at
		FROM action_items
		WHERE id = ?`, actionID)

	item, err := scanActionItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("action item %s: %w", actionID, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SaveActionItem inserts a new action item. A source-hash collision within
// the same user and month surfaces as ErrDuplicateEntry.
func (s *SQLiteStorage) SaveActionItem(ctx context.Context, item *model.ActionItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("action item cannot be nil")
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid action item: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO action_items (id, user_id, month, title, source_insight,
			source_hash, priority, status, due_date, done_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, string(item.Month), item.Title, item.SourceInsight,
		item.SourceHash, string(item.Priority), string(item.Status),
		item.DueDate, item.DoneAt, item.CreatedAt, item.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("action item %s/%s: %w", item.Month, item.SourceHash, common.ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to save action item: %w", err)
	}
	return nil
}

// UpdateActionItem rewrites the mutable fields of an existing action item.
func (s *SQLiteStorage) UpdateActionItem(ctx context.Context, item *model.ActionItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("action item cannot be nil")
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid action item: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE action_items
		SET title = ?, priority = ?, status = ?, due_date = ?, done_at = ?, updated_at = ?
		WHERE id = ?`,
		item.Title, string(item.Priority), string(item.Status),
		item.DueDate, item.DoneAt, time.Now().UTC(), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update action item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("action item %s: %w", item.ID, common.ErrNotFound)
	}
	return nil
}

// DeleteActionItem removes an action item by ID.
func (s *SQLiteStorage) DeleteActionItem(ctx context.Context, actionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(actionID, "actionID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM action_items WHERE id = ?`, actionID)
	if err != nil {
		return fmt.Errorf("failed to delete action item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("action item %s: %w", actionID, common.ErrNotFound)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanActionItem(row rowScanner) (*model.ActionItem, error) {
	var item model.ActionItem
	var month, priority, status string
	var sourceInsight sql.NullString
	var dueDate, doneAt sql.NullTime

	err := row.Scan(&item.ID, &item.UserID, &month, &item.Title, &sourceInsight,
		&item.SourceHash, &priority, &status, &dueDate, &doneAt,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan action item: %w", err)
	}

	item.Month = model.PeriodKey(month)
	item.Priority = model.Priority(priority)
	item.Status = model.ActionStatus(status)
	if sourceInsight.Valid {
		item.SourceInsight = sourceInsight.String
	}
	if dueDate.Valid {
		item.DueDate = &dueDate.Time
	}
	if doneAt.Valid {
		item.DoneAt = &doneAt.Time
	}
	return &item, nil
}
