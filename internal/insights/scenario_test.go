package insights

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eakarsu/parapilot/internal/common"
	"github.com/eakarsu/parapilot/internal/model"
)

func scenarioFixture() (*ScenarioEngine, *fakeStorage) {
	storage := newFakeStorage()
	return NewScenarioEngine(storage), storage
}

func TestSimulateBasicProjection(t *testing.T) {
	engine, storage := scenarioFixture()
	period := model.PeriodKey("2026-08")
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	storage.addTransaction("user-1", "dining", 2000, day)
	storage.addTransaction("user-1", "transport", 3000, day)
	storage.addIncome("user-1", 10000, day)

	result, err := engine.Simulate(context.Background(), "user-1", period, "dining", 10)
	require.NoError(t, err)

	assert.Equal(t, "dining", result.Category)
	assert.True(t, result.CategoryTotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, result.EstimatedSaving.Equal(decimal.NewFromInt(200)), "10%% of 2000 is 200, got %s", result.EstimatedSaving)
	assert.True(t, result.CurrentTotalSpent.Equal(decimal.NewFromInt(5000)))
	assert.True(t, result.ProjectedTotalSpent.Equal(decimal.NewFromInt(4800)))

	// (10000-5000)/10000 = 50%, (10000-4800)/10000 = 52%
	assert.Equal(t, 50, result.CurrentSavingsRate)
	assert.Equal(t, 52, result.ProjectedSavingsRate)
	assert.False(t, result.NoData)
	assert.False(t, result.NoIncomeData)
}

func TestSimulateDefaultsToHighestSpendCategory(t *testing.T) {
	engine, storage := scenarioFixture()
	period := model.PeriodKey("2026-08")
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	storage.addTransaction("user-1", "dining", 500, day)
	storage.addTransaction("user-1", "rent", 1500, day)

	result, err := engine.Simulate(context.Background(), "user-1", period, "", 10)
	require.NoError(t, err)
	assert.Equal(t, "rent", result.Category, "empty category resolves to the highest spender")
}

func TestSimulateUnknownCategory(t *testing.T) {
	engine, storage := scenarioFixture()
	period := model.PeriodKey("2026-08")
	storage.addTransaction("user-1", "dining", 500, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))

	_, err := engine.Simulate(context.Background(), "user-1", period, "yachts", 10)
	assert.ErrorIs(t, err, common.ErrInvalidScenarioInput)
}

func TestSimulateCategoryMatchIsCaseInsensitive(t *testing.T) {
	engine, storage := scenarioFixture()
	period := model.PeriodKey("2026-08")
	storage.addTransaction("user-1", "Dining", 500, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))

	result, err := engine.Simulate(context.Background(), "user-1", period, "dining", 10)
	require.NoError(t, err)
	assert.Equal(t, "Dining", result.Category)
}

func TestSimulateCutBounds(t *testing.T) {
	engine, storage := scenarioFixture()
	period := model.PeriodKey("2026-08")
	storage.addTransaction("user-1", "dining", 500, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))

	for _, cut := range []int{0, 4, 41, 100, -10} {
		_, err := engine.Simulate(context.Background(), "user-1", period, "dining", cut)
		assert.ErrorIs(t, err, common.ErrInvalidScenarioInput, "cut=%d", cut)
	}

	for _, cut := range []int{5, 40} {
		_, err := engine.Simulate(context.Background(), "user-1", period, "dining", cut)
		assert.NoError(t, err, "cut=%d", cut)
	}
}

func TestSimulateEmptyMonth(t *testing.T) {
	engine, _ := scenarioFixture()

	result, err := engine.Simulate(context.Background(), "user-1", "2026-08", "dining", 10)
	require.NoError(t, err)
	assert.True(t, result.NoData)
	assert.Empty(t, result.AvailableCategories)
}

func TestSimulateNoIncome(t *testing.T) {
	engine, storage := scenarioFixture()
	period := model.PeriodKey("2026-08")
	storage.addTransaction("user-1", "dining", 500, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))

	result, err := engine.Simulate(context.Background(), "user-1", period, "dining", 10)
	require.NoError(t, err)
	assert.True(t, result.NoIncomeData)
	assert.Equal(t, 0, result.CurrentSavingsRate)
	assert.Equal(t, 0, result.ProjectedSavingsRate)
}

func TestSimulateCapsAvailableCategories(t *testing.T) {
	engine, storage := scenarioFixture()
	period := model.PeriodKey("2026-08")
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	categories := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for i, name := range categories {
		storage.addTransaction("user-1", name, float64(100+i), day)
	}

	result, err := engine.Simulate(context.Background(), "user-1", period, "", 10)
	require.NoError(t, err)
	assert.Len(t, result.AvailableCategories, maxAvailableCategories)
	// Highest-spend first.
	assert.Equal(t, "j", result.AvailableCategories[0].Name)
}

func TestSavingsRateClamping(t *testing.T) {
	income := decimal.NewFromInt(1000)

	assert.Equal(t, 0, savingsRatePct(income, decimal.NewFromInt(2000)), "overspending clamps to 0")
	assert.Equal(t, 100, savingsRatePct(income, decimal.Zero))
	assert.Equal(t, 25, savingsRatePct(income, decimal.NewFromInt(750)))
}
