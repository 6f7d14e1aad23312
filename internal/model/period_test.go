package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2026-08")
	require.NoError(t, err)
	assert.Equal(t, PeriodKey("2026-08"), p)

	_, err = ParsePeriod("08-2026")
	assert.Error(t, err)
	_, err = ParsePeriod("2026-13")
	assert.Error(t, err)
	_, err = ParsePeriod("not a period")
	assert.Error(t, err)
}

func TestParsePeriodDefaultsToCurrentMonth(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01"), p.String())
}

func TestPeriodBounds(t *testing.T) {
	start, end := PeriodKey("2026-02").Bounds()
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 28, end.Day())

	// Leap year February.
	_, leapEnd := PeriodKey("2028-02").Bounds()
	assert.Equal(t, 29, leapEnd.Day())
}

func TestPeriodDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, PeriodKey("2026-08").DaysInMonth())
	assert.Equal(t, 30, PeriodKey("2026-09").DaysInMonth())
	assert.Equal(t, 0, PeriodKey("garbage").DaysInMonth())
}

func TestPeriodContains(t *testing.T) {
	p := PeriodKey("2026-08")
	assert.True(t, p.Contains(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodIsCurrent(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	assert.True(t, PeriodKey("2026-08").IsCurrent(now))
	assert.False(t, PeriodKey("2026-07").IsCurrent(now))
}
