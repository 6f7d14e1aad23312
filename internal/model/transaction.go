package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single recorded expense, regardless of how it was
// captured (manual entry, scanned receipt, or voice dictation).
type Transaction struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
	UserID    string
	Merchant  string
	Category  string
	Amount    decimal.Decimal
}

// CategoryTotal is an aggregated spend figure for one category.
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}
