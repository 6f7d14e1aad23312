package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/model"
)

// periodRange returns the half-open [start, end) time range for a period.
func periodRange(period model.PeriodKey) (time.Time, time.Time, error) {
	start, _ := period.Bounds()
	if start.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period: %s", period)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// GetTransactionsByPeriod returns all transactions for a user within a month,
// most recent first.
func (s *SQLiteStorage) GetTransactionsByPeriod(ctx context.Context, userID string, period model.PeriodKey) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	start, end, err := periodRange(period)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, merchant, category, amount, tx_date, created_at
		FROM transactions
		WHERE user_id = ? AND tx_date >= ? AND tx_date < ?
		ORDER BY tx_date DESC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var amount string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Merchant, &t.Category, &amount, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid transaction amount %q: %w", amount, err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	slog.Debug("loaded transactions", "user_id", userID, "period", period, "count", len(txns))
	return txns, nil
}

// CountTransactions returns the number of transactions for a user within a month.
func (s *SQLiteStorage) CountTransactions(ctx context.Context, userID string, period model.PeriodKey) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}
	start, end, err := periodRange(period)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE user_id = ? AND tx_date >= ? AND tx_date < ?`,
		userID, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// sumAmountRows adds the single TEXT amount column of each row. Amounts are
// summed as decimals so totals stay exact regardless of magnitude.
func sumAmountRows(rows *sql.Rows, label string) (decimal.Decimal, error) {
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan %s amount: %w", label, err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid stored %s amount %q: %w", label, raw, err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate %s amounts: %w", label, err)
	}
	return total, nil
}

// GetTotalSpend returns the summed spend for a user within a month.
func (s *SQLiteStorage) GetTotalSpend(ctx context.Context, userID string, period model.PeriodKey) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return decimal.Zero, err
	}
	start, end, err := periodRange(period)
	if err != nil {
		return decimal.Zero, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT amount FROM transactions
		WHERE user_id = ? AND tx_date >= ? AND tx_date < ?`,
		userID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query transaction amounts: %w", err)
	}
	return sumAmountRows(rows, "transaction")
}

// GetSpendByCategory returns per-category totals for a user within a month,
// highest spend first.
func (s *SQLiteStorage) GetSpendByCategory(ctx context.Context, userID string, period model.PeriodKey) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	start, end, err := periodRange(period)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, amount FROM transactions
		WHERE user_id = ? AND tx_date >= ? AND tx_date < ?`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byCategory := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category, raw string
		if err := rows.Scan(&category, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid stored transaction amount %q: %w", raw, err)
		}
		byCategory[category] = byCategory[category].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	totals := make([]model.CategoryTotal, 0, len(byCategory))
	for name, total := range byCategory {
		totals = append(totals, model.CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].Name < totals[j].Name
	})
	return totals, nil
}

// SaveTransaction persists a new transaction.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, t *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("transaction cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, merchant, category, amount, tx_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Merchant, t.Category, t.Amount.String(), t.Date)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// GetTotalIncome returns the summed income for a user within a month.
func (s *SQLiteStorage) GetTotalIncome(ctx context.Context, userID string, period model.PeriodKey) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return decimal.Zero, err
	}
	start, end, err := periodRange(period)
	if err != nil {
		return decimal.Zero, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT amount FROM incomes
		WHERE user_id = ? AND income_date >= ? AND income_date < ?`,
		userID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query income amounts: %w", err)
	}
	return sumAmountRows(rows, "income")
}

// SaveIncome persists a new income record.
func (s *SQLiteStorage) SaveIncome(ctx context.Context, in *model.Income) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if in == nil {
		return fmt.Errorf("income cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incomes (id, user_id, source, amount, income_date)
		VALUES (?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Source, in.Amount.String(), in.Date)
	if err != nil {
		return fmt.Errorf("failed to save income: %w", err)
	}
	return nil
}
