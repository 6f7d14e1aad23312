package model

import "github.com/shopspring/decimal"

// Budget is a per-category monthly spending limit.
type Budget struct {
	ID       string
	UserID   string
	Category string
	Amount   decimal.Decimal
}

// BudgetWithSpend pairs a budget with the actual spend observed in a period.
type BudgetWithSpend struct {
	Budget
	Spent decimal.Decimal
}

// UsagePct returns spend as a percentage of the limit, or 0 for a zero limit.
func (b *BudgetWithSpend) UsagePct() float64 {
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	pct, _ := b.Spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// Met reports whether the period's spend stayed within the limit.
// Budgets with a zero limit are never counted as met.
func (b *BudgetWithSpend) Met() bool {
	return b.Amount.GreaterThan(decimal.Zero) && b.Spent.LessThanOrEqual(b.Amount)
}
