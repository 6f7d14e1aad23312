// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations (read-only for the insights core).
	GetTransactionsByPeriod(ctx context.Context, userID string, period model.PeriodKey) ([]model.Transaction, error)
	CountTransactions(ctx context.Context, userID string, period model.PeriodKey) (int, error)
	GetTotalSpend(ctx context.Context, userID string, period model.PeriodKey) (decimal.Decimal, error)
	GetSpendByCategory(ctx context.Context, userID string, period model.PeriodKey) ([]model.CategoryTotal, error)

	// Income operations.
	GetTotalIncome(ctx context.Context, userID string, period model.PeriodKey) (decimal.Decimal, error)

	// Action item operations.
	GetActionItems(ctx context.Context, userID string, month model.PeriodKey) ([]model.ActionItem, error)
	GetActionItem(ctx context.Context, actionID string) (*model.ActionItem, error)
	SaveActionItem(ctx context.Context, item *model.ActionItem) error
	UpdateActionItem(ctx context.Context, item *model.ActionItem) error
	DeleteActionItem(ctx context.Context, actionID string) error

	// Goal operations.
	GetGoals(ctx context.Context, userID string) ([]model.Goal, error)
	GetGoalsDueWithin(ctx context.Context, userID string, within time.Duration) ([]model.Goal, error)
	SaveGoal(ctx context.Context, goal *model.Goal) error

	// Budget operations.
	GetBudgets(ctx context.Context, userID string) ([]model.Budget, error)
	UpsertBudget(ctx context.Context, budget *model.Budget) error

	// Subscription operations.
	GetSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error)
	DeleteSubscriptionByName(ctx context.Context, userID, name string) (bool, error)

	// Fixed expense operations.
	GetFixedExpenseTotal(ctx context.Context, userID string) (decimal.Decimal, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for remote operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
