package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGoalProgressPct(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		target  int64
		want    int
	}{
		{"three quarters", 750, 1000, 75},
		{"complete", 1000, 1000, 100},
		{"overfunded clamps", 2500, 1000, 100},
		{"zero target", 500, 0, 0},
		{"nothing saved", 0, 1000, 0},
		{"rounds", 333, 1000, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{
				TargetAmount:  decimal.NewFromInt(tt.target),
				CurrentAmount: decimal.NewFromInt(tt.current),
			}
			assert.Equal(t, tt.want, g.ProgressPct())
		})
	}
}

func TestGoalProgressNegativeClampsToZero(t *testing.T) {
	g := Goal{
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(-200),
	}
	assert.Equal(t, 0, g.ProgressPct())
}

func TestGoalValidate(t *testing.T) {
	valid := Goal{
		ID:           "g1",
		UserID:       "user-1",
		Title:        "Emergency fund",
		TargetAmount: decimal.NewFromInt(5000),
		MetricType:   GoalMetricSavings,
		Status:       GoalActive,
		CreatedAt:    time.Now(),
	}
	assert.NoError(t, valid.Validate())

	negative := valid
	negative.TargetAmount = decimal.NewFromInt(-1)
	assert.Error(t, negative.Validate())

	badStatus := valid
	badStatus.Status = "paused"
	assert.Error(t, badStatus.Validate())
}
