package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/model"
)

// GetGoals returns all goals for a user, newest first.
func (s *SQLiteStorage) GetGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	return s.queryGoals(ctx, `
		SELECT id, user_id, title, target_amount, current_amount,
		       target_date, metric_type, status, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
}

// GetGoalsDueWithin returns active goals whose target date falls within the
// given window from now.
func (s *SQLiteStorage) GetGoalsDueWithin(ctx context.Context, userID string, within time.Duration) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.queryGoals(ctx, `
		SELECT id, user_id, title, target_amount, current_amount,
		       target_date, metric_type, status, created_at
		FROM goals
		WHERE user_id = ? AND status = 'active'
		  AND target_date IS NOT NULL AND target_date >= ? AND target_date <= ?
		ORDER BY target_date ASC`, userID, now, now.Add(within))
}

// SaveGoal inserts a goal, or replaces it when the ID already exists.
func (s *SQLiteStorage) SaveGoal(ctx context.Context, goal *model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if goal == nil {
		return fmt.Errorf("goal cannot be nil")
	}
	if err := goal.Validate(); err != nil {
		return fmt.Errorf("invalid goal: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, title, target_amount, current_amount,
			target_date, metric_type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			target_date = excluded.target_date,
			metric_type = excluded.metric_type,
			status = excluded.status`,
		goal.ID, goal.UserID, goal.Title, goal.TargetAmount.String(),
		goal.CurrentAmount.String(), goal.TargetDate, string(goal.MetricType),
		string(goal.Status), goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) queryGoals(ctx context.Context, query string, args ...any) ([]model.Goal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		var g model.Goal
		var target, current, metric, status string
		var targetDate sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &target, &current,
			&targetDate, &metric, &status, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("invalid goal target amount %q: %w", target, err)
		}
		if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
			return nil, fmt.Errorf("invalid goal current amount %q: %w", current, err)
		}
		g.MetricType = model.GoalMetric(metric)
		g.Status = model.GoalStatus(status)
		if targetDate.Valid {
			g.TargetDate = &targetDate.Time
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}
