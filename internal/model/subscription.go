package model

import "github.com/shopspring/decimal"

// Subscription is a recurring monthly charge (streaming, SaaS, gym, ...).
type Subscription struct {
	ID     string
	UserID string
	Name   string
	Amount decimal.Decimal
}

// FixedExpense is a named item inside a fixed-expense group (rent,
// utilities, insurance). Inactive items are excluded from totals.
type FixedExpense struct {
	ID       string
	UserID   string
	Name     string
	Amount   decimal.Decimal
	IsActive bool
}
