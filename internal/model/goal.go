package model

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// GoalMetric identifies what a financial goal measures.
type GoalMetric string

const (
	// GoalMetricSavings tracks an absolute savings target.
	GoalMetricSavings GoalMetric = "savings"
	// GoalMetricExpenseReduction tracks a reduction in spending.
	GoalMetricExpenseReduction GoalMetric = "expense_reduction"
	// GoalMetricIncomeGrowth tracks income growth.
	GoalMetricIncomeGrowth GoalMetric = "income_growth"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	// GoalActive means the goal is being worked toward.
	GoalActive GoalStatus = "active"
	// GoalCompleted means the target has been reached.
	GoalCompleted GoalStatus = "completed"
	// GoalArchived means the goal was retired without completion.
	GoalArchived GoalStatus = "archived"
)

// Goal is a user-defined financial target.
type Goal struct {
	CreatedAt     time.Time
	TargetDate    *time.Time
	ID            string
	UserID        string
	Title         string
	MetricType    GoalMetric
	Status        GoalStatus
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
}

// ProgressPct returns completion as a whole percentage clamped to [0, 100].
// A zero target reports zero progress rather than dividing by zero.
func (g *Goal) ProgressPct() int {
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	ratio, _ := g.CurrentAmount.Div(g.TargetAmount).Float64()
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return int(math.Round(ratio * 100))
}

// Validate ensures the goal is well-formed.
func (g *Goal) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("goal ID is required")
	}
	if g.UserID == "" {
		return fmt.Errorf("goal user ID is required")
	}
	if g.Title == "" {
		return fmt.Errorf("goal title is required")
	}
	if g.TargetAmount.IsNegative() {
		return fmt.Errorf("goal target amount must not be negative")
	}
	switch g.Status {
	case GoalActive, GoalCompleted, GoalArchived:
	default:
		return fmt.Errorf("invalid goal status: %s", g.Status)
	}
	return nil
}
