package insights

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/common"
	"github.com/eakarsu/parapilot/internal/model"
	"github.com/eakarsu/parapilot/internal/service"
)

// Cut percentages outside this range are rejected before any computation.
const (
	minCutPercent = 5
	maxCutPercent = 40
)

// maxAvailableCategories caps the category list returned for UI population.
const maxAvailableCategories = 8

// ScenarioResult is an ephemeral what-if projection. It is computed per
// request, never cached, and superseded by the next call.
type ScenarioResult struct {
	Month                model.PeriodKey
	Category             string
	AvailableCategories  []model.CategoryTotal
	CategoryTotal        decimal.Decimal
	EstimatedSaving      decimal.Decimal
	CurrentTotalSpent    decimal.Decimal
	ProjectedTotalSpent  decimal.Decimal
	CutPercent           int
	CurrentSavingsRate   int
	ProjectedSavingsRate int
	NoData               bool
	NoIncomeData         bool
}

// ScenarioEngine computes spending-cut projections against a month's
// transaction data. It never reads or writes the snapshot cache: a scenario
// is valid whether or not a cached analysis exists.
type ScenarioEngine struct {
	storage service.Storage
}

// NewScenarioEngine creates a scenario engine over the given storage.
func NewScenarioEngine(storage service.Storage) *ScenarioEngine {
	return &ScenarioEngine{storage: storage}
}

// Simulate projects the effect of cutting a category's spend by cutPercent.
// An empty category resolves to the month's highest-spending category. A
// month without transactions yields NoData=true rather than an error.
func (e *ScenarioEngine) Simulate(ctx context.Context, userID string, month model.PeriodKey, category string, cutPercent int) (*ScenarioResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if cutPercent < minCutPercent || cutPercent > maxCutPercent {
		return nil, fmt.Errorf("%w: cut percent %d outside [%d, %d]",
			common.ErrInvalidScenarioInput, cutPercent, minCutPercent, maxCutPercent)
	}

	categories, err := e.storage.GetSpendByCategory(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load category spend: %w", err)
	}
	if len(categories) == 0 {
		return &ScenarioResult{
			Month:      month,
			CutPercent: cutPercent,
			NoData:     true,
		}, nil
	}

	// Storage returns categories ordered by spend descending, so the
	// first entry is the highest-spend default.
	selected := categories[0]
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		found := false
		for _, ct := range categories {
			if strings.EqualFold(ct.Name, trimmed) {
				selected = ct
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: unknown category %q for %s",
				common.ErrInvalidScenarioInput, category, month)
		}
	}

	totalSpent, err := e.storage.GetTotalSpend(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load total spend: %w", err)
	}
	income, err := e.storage.GetTotalIncome(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load income: %w", err)
	}

	cut := decimal.NewFromInt(int64(cutPercent)).Div(decimal.NewFromInt(100))
	saving := selected.Total.Mul(cut).Round(2)

	projectedSpent := totalSpent.Sub(saving)
	if projectedSpent.IsNegative() {
		projectedSpent = decimal.Zero
	}

	result := &ScenarioResult{
		Month:               month,
		Category:            selected.Name,
		CutPercent:          cutPercent,
		CategoryTotal:       selected.Total,
		EstimatedSaving:     saving,
		CurrentTotalSpent:   totalSpent,
		ProjectedTotalSpent: projectedSpent,
	}

	if income.LessThanOrEqual(decimal.Zero) {
		result.NoIncomeData = true
	} else {
		result.CurrentSavingsRate = savingsRatePct(income, totalSpent)
		result.ProjectedSavingsRate = savingsRatePct(income, projectedSpent)
	}

	available := categories
	if len(available) > maxAvailableCategories {
		available = available[:maxAvailableCategories]
	}
	result.AvailableCategories = available

	return result, nil
}

// savingsRatePct computes round((income-spent)/income*100) clamped to
// [0, 100]. Callers must guard income > 0.
func savingsRatePct(income, spent decimal.Decimal) int {
	ratio, _ := income.Sub(spent).Div(income).Float64()
	pct := int(math.Round(ratio * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
