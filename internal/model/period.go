package model

import (
	"fmt"
	"time"
)

// PeriodKey is the canonical YYYY-MM key that all monthly state is indexed by.
type PeriodKey string

// ParsePeriod validates a YYYY-MM string and returns it as a PeriodKey.
// An empty input resolves to the current month.
func ParsePeriod(s string) (PeriodKey, error) {
	if s == "" {
		return PeriodKey(time.Now().Format("2006-01")), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("invalid period %q (want YYYY-MM): %w", s, err)
	}
	return PeriodKey(t.Format("2006-01")), nil
}

// String returns the YYYY-MM form.
func (p PeriodKey) String() string {
	return string(p)
}

// Bounds returns the first and last day of the period.
func (p PeriodKey) Bounds() (start, end time.Time) {
	t, err := time.Parse("2006-01", string(p))
	if err != nil {
		return time.Time{}, time.Time{}
	}
	start = t
	end = t.AddDate(0, 1, -1)
	return start, end
}

// DaysInMonth returns the number of days in the period.
func (p PeriodKey) DaysInMonth() int {
	start, end := p.Bounds()
	if start.IsZero() {
		return 0
	}
	return end.Day() - start.Day() + 1
}

// Contains reports whether the given time falls inside the period.
func (p PeriodKey) Contains(t time.Time) bool {
	return t.Format("2006-01") == string(p)
}

// IsCurrent reports whether the period is the current calendar month.
func (p PeriodKey) IsCurrent(now time.Time) bool {
	return now.Format("2006-01") == string(p)
}
