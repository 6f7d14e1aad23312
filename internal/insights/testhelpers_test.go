package insights

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/common"
	"github.com/eakarsu/parapilot/internal/model"
)

// fakeStorage is an in-memory Storage implementation that derives aggregates
// from its transaction list, mirroring what the SQLite queries compute.
type fakeStorage struct {
	mu            sync.Mutex
	transactions  []model.Transaction
	incomes       []model.Income
	actions       map[string]model.ActionItem
	goals         []model.Goal
	budgets       []model.Budget
	subscriptions []model.Subscription
	fixedTotal    decimal.Decimal

	saveActionErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{actions: make(map[string]model.ActionItem)}
}

func (f *fakeStorage) addTransaction(userID, category string, amount float64, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = append(f.transactions, model.Transaction{
		ID:       fmt.Sprintf("tx-%d", len(f.transactions)+1),
		UserID:   userID,
		Merchant: category + " merchant",
		Category: category,
		Amount:   decimal.NewFromFloat(amount),
		Date:     date,
	})
}

func (f *fakeStorage) addIncome(userID string, amount float64, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incomes = append(f.incomes, model.Income{
		ID:     fmt.Sprintf("in-%d", len(f.incomes)+1),
		UserID: userID,
		Amount: decimal.NewFromFloat(amount),
		Date:   date,
	})
}

func (f *fakeStorage) GetTransactionsByPeriod(_ context.Context, userID string, period model.PeriodKey) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Transaction
	for _, t := range f.transactions {
		if t.UserID == userID && period.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStorage) CountTransactions(ctx context.Context, userID string, period model.PeriodKey) (int, error) {
	txns, _ := f.GetTransactionsByPeriod(ctx, userID, period)
	return len(txns), nil
}

func (f *fakeStorage) GetTotalSpend(ctx context.Context, userID string, period model.PeriodKey) (decimal.Decimal, error) {
	txns, _ := f.GetTransactionsByPeriod(ctx, userID, period)
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total, nil
}

func (f *fakeStorage) GetSpendByCategory(ctx context.Context, userID string, period model.PeriodKey) ([]model.CategoryTotal, error) {
	txns, _ := f.GetTransactionsByPeriod(ctx, userID, period)
	totals := make(map[string]decimal.Decimal)
	for _, t := range txns {
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	var out []model.CategoryTotal
	for name, total := range totals {
		out = append(out, model.CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out, nil
}

func (f *fakeStorage) GetTotalIncome(_ context.Context, userID string, period model.PeriodKey) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, in := range f.incomes {
		if in.UserID == userID && period.Contains(in.Date) {
			total = total.Add(in.Amount)
		}
	}
	return total, nil
}

func (f *fakeStorage) GetActionItems(_ context.Context, userID string, month model.PeriodKey) ([]model.ActionItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ActionItem
	for _, item := range f.actions {
		if item.UserID == userID && item.Month == month {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		iPending := out[i].Status == model.ActionPending
		jPending := out[j].Status == model.ActionPending
		if iPending != jPending {
			return iPending
		}
		if out[i].Priority.Order() != out[j].Priority.Order() {
			return out[i].Priority.Order() < out[j].Priority.Order()
		}
		if (out[i].DueDate == nil) != (out[j].DueDate == nil) {
			return out[i].DueDate != nil
		}
		if out[i].DueDate != nil && !out[i].DueDate.Equal(*out[j].DueDate) {
			return out[i].DueDate.Before(*out[j].DueDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStorage) GetActionItem(_ context.Context, actionID string) (*model.ActionItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.actions[actionID]
	if !ok {
		return nil, fmt.Errorf("action item %s: %w", actionID, common.ErrNotFound)
	}
	return &item, nil
}

func (f *fakeStorage) SaveActionItem(_ context.Context, item *model.ActionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveActionErr != nil {
		return f.saveActionErr
	}
	for _, existing := range f.actions {
		if existing.UserID == item.UserID && existing.Month == item.Month && existing.SourceHash == item.SourceHash {
			return fmt.Errorf("action item %s/%s: %w", item.Month, item.SourceHash, common.ErrDuplicateEntry)
		}
	}
	f.actions[item.ID] = *item
	return nil
}

func (f *fakeStorage) UpdateActionItem(_ context.Context, item *model.ActionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.actions[item.ID]; !ok {
		return fmt.Errorf("action item %s: %w", item.ID, common.ErrNotFound)
	}
	f.actions[item.ID] = *item
	return nil
}

func (f *fakeStorage) DeleteActionItem(_ context.Context, actionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.actions[actionID]; !ok {
		return fmt.Errorf("action item %s: %w", actionID, common.ErrNotFound)
	}
	delete(f.actions, actionID)
	return nil
}

func (f *fakeStorage) GetGoals(_ context.Context, userID string) ([]model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStorage) GetGoalsDueWithin(_ context.Context, userID string, within time.Duration) ([]model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	var out []model.Goal
	for _, g := range f.goals {
		if g.UserID != userID || g.Status != model.GoalActive || g.TargetDate == nil {
			continue
		}
		if g.TargetDate.After(now) && g.TargetDate.Before(now.Add(within)) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStorage) SaveGoal(_ context.Context, goal *model.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.goals {
		if g.ID == goal.ID {
			f.goals[i] = *goal
			return nil
		}
	}
	f.goals = append(f.goals, *goal)
	return nil
}

func (f *fakeStorage) GetBudgets(_ context.Context, userID string) ([]model.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Budget
	for _, b := range f.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStorage) UpsertBudget(_ context.Context, budget *model.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.budgets {
		if b.UserID == budget.UserID && b.Category == budget.Category {
			f.budgets[i].Amount = budget.Amount
			return nil
		}
	}
	f.budgets = append(f.budgets, *budget)
	return nil
}

func (f *fakeStorage) GetSubscriptions(_ context.Context, userID string) ([]model.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Subscription
	for _, s := range f.subscriptions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStorage) DeleteSubscriptionByName(_ context.Context, userID, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.subscriptions[:0]
	found := false
	for _, s := range f.subscriptions {
		if s.UserID == userID && s.Name == name {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	f.subscriptions = kept
	return found, nil
}

func (f *fakeStorage) GetFixedExpenseTotal(_ context.Context, _ string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fixedTotal, nil
}

func (f *fakeStorage) Migrate(_ context.Context) error { return nil }
func (f *fakeStorage) Close() error                    { return nil }

// mockRemote counts Analyze calls and delegates to a configurable function.
type mockRemote struct {
	mu      sync.Mutex
	calls   int
	analyze func(ctx context.Context, req RemoteRequest) (*AnalysisSnapshot, error)
	gate    chan struct{}
}

func (m *mockRemote) Analyze(ctx context.Context, req RemoteRequest) (*AnalysisSnapshot, error) {
	m.mu.Lock()
	m.calls++
	gate := m.gate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.analyze(ctx, req)
}

func (m *mockRemote) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// testSnapshot builds a valid snapshot for the period with two recommended
// actions.
func testSnapshot(period model.PeriodKey) *AnalysisSnapshot {
	return &AnalysisSnapshot{
		PeriodKey:  period,
		ComputedAt: time.Now(),
		Version:    CurrentSnapshotVersion,
		Coach: Coach{
			Headline: "Spending is under control.",
			Summary:  "You spent less than you earned this month.",
		},
		Insights: []Insight{
			{Text: "Dining spend rose 18% month over month.", Priority: model.PriorityHigh},
			{Text: "Utilities held steady.", Priority: model.PriorityLow},
		},
		NextActions: []NextAction{
			{Title: "Set a dining budget", Priority: model.PriorityHigh, DueInDays: 7},
			{Title: "Review subscriptions", Priority: model.PriorityMedium, DueInDays: 14},
		},
		Forecast: Forecast{
			NextMonthEstimate: decimal.NewFromInt(1800),
			Trend:             TrendStable,
			ConfidenceScore:   70,
		},
		HealthScore: HealthScore{Label: "Good", Score: 72},
	}
}
