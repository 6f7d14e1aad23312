package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/model"
)

// GetBudgets returns all per-category budgets for a user.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount
		FROM budgets
		WHERE user_id = ?
		ORDER BY category ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		var amount string
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid budget amount %q: %w", amount, err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpsertBudget creates a budget for a category, or updates its limit when one
// already exists for the same user and category.
func (s *SQLiteStorage) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget == nil {
		return fmt.Errorf("budget cannot be nil")
	}
	if err := validateString(budget.Category, "category"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, category) DO UPDATE SET amount = excluded.amount`,
		budget.ID, budget.UserID, budget.Category, budget.Amount.String())
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

// GetSubscriptions returns all recurring subscriptions for a user.
func (s *SQLiteStorage) GetSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, amount
		FROM subscriptions
		WHERE user_id = ?
		ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var amount string
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Name, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		if sub.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid subscription amount %q: %w", amount, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	return subs, nil
}

// SaveSubscription persists a new subscription.
func (s *SQLiteStorage) SaveSubscription(ctx context.Context, sub *model.Subscription) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subscription cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, user_id, name, amount)
		VALUES (?, ?, ?, ?)`,
		sub.ID, sub.UserID, sub.Name, sub.Amount.String())
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// DeleteSubscriptionByName removes subscriptions matching a name
// (case-insensitive) and reports whether anything was deleted.
func (s *SQLiteStorage) DeleteSubscriptionByName(ctx context.Context, userID, name string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM subscriptions
		WHERE user_id = ? AND LOWER(name) = LOWER(?)`, userID, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

// GetFixedExpenseTotal returns the monthly total of active fixed expenses.
func (s *SQLiteStorage) GetFixedExpenseTotal(ctx context.Context, userID string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return decimal.Zero, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT amount FROM fixed_expenses
		WHERE user_id = ? AND is_active = 1`, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query fixed-expense amounts: %w", err)
	}
	return sumAmountRows(rows, "fixed-expense")
}

// SaveFixedExpense persists a new fixed-expense item.
func (s *SQLiteStorage) SaveFixedExpense(ctx context.Context, fe *model.FixedExpense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if fe == nil {
		return fmt.Errorf("fixed expense cannot be nil")
	}

	active := 0
	if fe.IsActive {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fixed_expenses (id, user_id, name, amount, is_active)
		VALUES (?, ?, ?, ?, ?)`,
		fe.ID, fe.UserID, fe.Name, fe.Amount.String(), active)
	if err != nil {
		return fmt.Errorf("failed to save fixed expense: %w", err)
	}
	return nil
}
