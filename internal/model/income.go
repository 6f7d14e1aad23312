package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income represents money received in a given month.
type Income struct {
	Date   time.Time
	ID     string
	UserID string
	Source string
	Amount decimal.Decimal
}
