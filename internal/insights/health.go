package insights

import (
	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/model"
)

// Health score component weights: savings 30, budget adherence 25, spending
// trend 20, goal progress 15, anomaly freedom 10.
const (
	savingsWeight   = 30
	budgetWeight    = 25
	trendWeight     = 20
	goalWeight      = 15
	anomalyWeight   = 10
	noBudgetScore   = 12
	noGoalScore     = 8
	trendNetFloor   = -500
	anomalyGraceMax = 2
)

// ComputeHealthScore derives the 0-100 composite rating from live data. The
// remote analysis normally supplies a score on the snapshot; this local
// computation covers snapshots that omit it and degraded loads.
func ComputeHealthScore(savingsRate float64, netBalance decimal.Decimal, budgets []model.BudgetWithSpend, goals []model.Goal, anomalyCount int) HealthScore {
	var b ScoreBreakdown

	switch {
	case savingsRate >= 20:
		b.Savings = savingsWeight
	case savingsRate >= 10:
		b.Savings = 20
	case savingsRate >= 0:
		b.Savings = 10
	}

	if len(budgets) == 0 {
		b.BudgetAdherence = noBudgetScore
	} else {
		over := 0
		for _, budget := range budgets {
			if budget.UsagePct() > 100 {
				over++
			}
		}
		ratio := 1 - float64(over)/float64(len(budgets))
		b.BudgetAdherence = int(float64(budgetWeight) * ratio)
	}

	switch {
	case netBalance.GreaterThan(decimal.Zero):
		b.Trend = trendWeight
	case netBalance.GreaterThanOrEqual(decimal.NewFromInt(trendNetFloor)):
		b.Trend = 10
	}

	var progresses []float64
	for _, g := range goals {
		if g.Status != model.GoalActive {
			continue
		}
		if g.TargetAmount.GreaterThan(decimal.Zero) {
			ratio, _ := g.CurrentAmount.Div(g.TargetAmount).Float64()
			if ratio > 1 {
				ratio = 1
			}
			progresses = append(progresses, ratio)
		}
	}
	if hasActiveGoals(goals) {
		avg := 0.5
		if len(progresses) > 0 {
			sum := 0.0
			for _, p := range progresses {
				sum += p
			}
			avg = sum / float64(len(progresses))
		}
		b.GoalProgress = int(float64(goalWeight) * avg)
	} else {
		b.GoalProgress = noGoalScore
	}

	switch {
	case anomalyCount == 0:
		b.AnomalyFreedom = anomalyWeight
	case anomalyCount <= anomalyGraceMax:
		b.AnomalyFreedom = 5
	}

	score := b.Savings + b.BudgetAdherence + b.Trend + b.GoalProgress + b.AnomalyFreedom
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return HealthScore{
		Score:     score,
		Label:     healthLabel(score),
		Breakdown: b,
	}
}

func healthLabel(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Attention"
	}
}

func hasActiveGoals(goals []model.Goal) bool {
	for _, g := range goals {
		if g.Status == model.GoalActive {
			return true
		}
	}
	return false
}
