package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/common"
	"github.com/eakarsu/parapilot/internal/model"
	"github.com/eakarsu/parapilot/internal/service"
)

// goalDueSoonWindow is how far ahead the overview looks for goal deadlines.
const goalDueSoonWindow = 14 * 24 * time.Hour

// maxRecommendations caps the recommendation list in the read-model.
const maxRecommendations = 5

// FinancialHealth summarizes income versus spend for the period.
type FinancialHealth struct {
	TotalSpent        decimal.Decimal
	TotalIncome       decimal.Decimal
	NetBalance        decimal.Decimal
	DailyBurn         decimal.Decimal
	ProjectedMonthEnd decimal.Decimal
	SavingsRate       float64
	TransactionCount  int
}

// Structure describes how spending is composed.
type Structure struct {
	TopCategories     []model.CategoryTotal
	SubscriptionTotal decimal.Decimal
	FixedExpenseTotal decimal.Decimal
	SubscriptionShare float64
	FixedExpenseShare float64
	BudgetAdherence   float64
	BudgetsMet        int
	BudgetsTotal      int
}

// GoalsSummary aggregates the user's goals for the overview.
type GoalsSummary struct {
	DueSoon            []model.Goal
	ActiveTargetTotal  decimal.Decimal
	ActiveCurrentTotal decimal.Decimal
	ActiveProgressPct  float64
	ActiveCount        int
	CompletedCount     int
}

// Overview is the single read-model every screen renders from. It combines
// the cached snapshot, the reconciled action list, and live store data.
type Overview struct {
	GeneratedAt     time.Time
	Snapshot        *AnalysisSnapshot
	Period          model.PeriodKey
	Recommendations []string
	Actions         []model.ActionItem
	Budgets         []model.BudgetWithSpend
	FinancialHealth FinancialHealth
	Structure       Structure
	Goals           GoalsSummary
	ActionStats     ActionStats
	HealthScore     HealthScore
	Degraded        bool
}

// Aggregator composes the overview read-model. All screens for the same
// month observe the same cached snapshot, so a recompute triggered on one
// screen is visible on the others at their next load.
type Aggregator struct {
	client  *Client
	sync    *Synchronizer
	storage service.Storage
	cache   SnapshotCache
	states  *stateTracker
}

// NewAggregator creates an overview aggregator.
func NewAggregator(client *Client, sync *Synchronizer, storage service.Storage, cache SnapshotCache) *Aggregator {
	return &Aggregator{
		client:  client,
		sync:    sync,
		storage: storage,
		cache:   cache,
		states:  newStateTracker(),
	}
}

// State returns the observable load state for one (user, month) key.
func (a *Aggregator) State(userID string, month model.PeriodKey) LoadState {
	return a.states.get(stateKey(userID, month))
}

// Load builds the overview for a month. Analysis failures degrade to the
// last-known cached snapshot (or none) instead of failing the whole load, so
// previously rendered data stays on screen.
func (a *Aggregator) Load(ctx context.Context, userID string, month model.PeriodKey) (*Overview, error) {
	key := stateKey(userID, month)
	prev := a.states.get(key)
	a.states.set(key, PhaseLoading, nil)

	overview, err := a.load(ctx, userID, month)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// An abandoned load must not publish results.
			a.states.revert(key, prev)
			return nil, err
		}
		a.states.set(key, PhaseError, err)
		return nil, err
	}

	if ctx.Err() != nil {
		a.states.revert(key, prev)
		return nil, ctx.Err()
	}

	switch {
	case overview.Snapshot == nil:
		a.states.set(key, PhaseError, common.ErrAnalysisUnavailable)
	case overview.Degraded || a.cache.IsStale(overview.Snapshot, time.Now()):
		a.states.set(key, PhaseStale, nil)
	default:
		a.states.set(key, PhaseReady, nil)
	}

	return overview, nil
}

func (a *Aggregator) load(ctx context.Context, userID string, month model.PeriodKey) (*Overview, error) {
	snapshot, err := a.client.Analyze(ctx, userID, month, AnalyzeOptions{UseCache: true})
	degraded := false
	if err != nil {
		if !errors.Is(err, common.ErrAnalysisUnavailable) {
			return nil, err
		}
		// Analysis is down: fall back to whatever snapshot we last cached,
		// stale included, and keep rendering.
		degraded = true
		cached, ok, cacheErr := a.cache.Get(ctx, userID, month)
		if cacheErr == nil && ok {
			snapshot = cached
		}
		slog.Warn("overview degraded, analysis unavailable",
			"user_id", userID,
			"month", month,
			"have_cached", snapshot != nil)
	}

	// A sync conflict means another merge won the race for an insert, so a
	// retry reads the winner's rows and succeeds.
	var actions []model.ActionItem
	err = common.WithRetry(ctx, func() error {
		var mergeErr error
		if snapshot != nil {
			actions, mergeErr = a.sync.Merge(ctx, userID, month, snapshot)
		} else {
			actions, mergeErr = a.storage.GetActionItems(ctx, userID, month)
		}
		if mergeErr != nil && !common.IsRetryable(mergeErr) {
			return &common.RetryableError{Err: mergeErr, Retryable: false}
		}
		return mergeErr
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 50 * time.Millisecond})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile actions: %w", err)
	}

	health, budgets, err := a.financialHealth(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	structure, err := a.structure(ctx, userID, month, health.TotalSpent, budgets)
	if err != nil {
		return nil, err
	}
	goals, allGoals, err := a.goalsSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Period:          month,
		GeneratedAt:     time.Now(),
		Snapshot:        snapshot,
		Degraded:        degraded,
		Actions:         actions,
		ActionStats:     ComputeActionStats(actions),
		Budgets:         budgets,
		FinancialHealth: health,
		Structure:       structure,
		Goals:           goals,
	}

	overview.Recommendations = buildRecommendations(snapshot, health, structure, goals)

	// Prefer the snapshot's score; recompute locally when the remote
	// omitted it or the load is running without a snapshot.
	anomalies := 0
	if snapshot != nil {
		anomalies = len(snapshot.Anomalies)
	}
	if snapshot != nil && snapshot.HealthScore.Score > 0 {
		overview.HealthScore = snapshot.HealthScore
	} else {
		overview.HealthScore = ComputeHealthScore(health.SavingsRate, health.NetBalance, budgets, allGoals, anomalies)
	}

	return overview, nil
}

func (a *Aggregator) financialHealth(ctx context.Context, userID string, month model.PeriodKey) (FinancialHealth, []model.BudgetWithSpend, error) {
	var fh FinancialHealth

	totalSpent, err := a.storage.GetTotalSpend(ctx, userID, month)
	if err != nil {
		return fh, nil, fmt.Errorf("failed to load total spend: %w", err)
	}
	totalIncome, err := a.storage.GetTotalIncome(ctx, userID, month)
	if err != nil {
		return fh, nil, fmt.Errorf("failed to load income: %w", err)
	}
	txCount, err := a.storage.CountTransactions(ctx, userID, month)
	if err != nil {
		return fh, nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	fh.TotalSpent = totalSpent
	fh.TotalIncome = totalIncome
	fh.NetBalance = totalIncome.Sub(totalSpent)
	fh.TransactionCount = txCount

	if totalIncome.GreaterThan(decimal.Zero) {
		rate, _ := fh.NetBalance.Div(totalIncome).Mul(decimal.NewFromInt(100)).Float64()
		fh.SavingsRate = rate
	}

	now := time.Now()
	daysInMonth := month.DaysInMonth()
	elapsed := daysInMonth
	if month.IsCurrent(now) {
		elapsed = now.Day()
	}
	if elapsed < 1 {
		elapsed = 1
	}
	if daysInMonth > 0 {
		fh.DailyBurn = totalSpent.Div(decimal.NewFromInt(int64(elapsed))).Round(2)
		fh.ProjectedMonthEnd = fh.DailyBurn.Mul(decimal.NewFromInt(int64(daysInMonth))).Round(2)
	}

	// Budgets with actual spend, for adherence and the health score.
	budgetRows, err := a.storage.GetBudgets(ctx, userID)
	if err != nil {
		return fh, nil, fmt.Errorf("failed to load budgets: %w", err)
	}
	spendByCategory, err := a.storage.GetSpendByCategory(ctx, userID, month)
	if err != nil {
		return fh, nil, fmt.Errorf("failed to load category spend: %w", err)
	}
	spent := make(map[string]decimal.Decimal, len(spendByCategory))
	for _, ct := range spendByCategory {
		spent[normalizeCategory(ct.Name)] = ct.Total
	}

	budgets := make([]model.BudgetWithSpend, 0, len(budgetRows))
	for _, b := range budgetRows {
		budgets = append(budgets, model.BudgetWithSpend{
			Budget: b,
			Spent:  spent[normalizeCategory(b.Category)],
		})
	}

	return fh, budgets, nil
}

func (a *Aggregator) structure(ctx context.Context, userID string, month model.PeriodKey, totalSpent decimal.Decimal, budgets []model.BudgetWithSpend) (Structure, error) {
	var st Structure

	subs, err := a.storage.GetSubscriptions(ctx, userID)
	if err != nil {
		return st, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, sub := range subs {
		st.SubscriptionTotal = st.SubscriptionTotal.Add(sub.Amount)
	}

	fixedTotal, err := a.storage.GetFixedExpenseTotal(ctx, userID)
	if err != nil {
		return st, fmt.Errorf("failed to load fixed expenses: %w", err)
	}
	st.FixedExpenseTotal = fixedTotal

	if totalSpent.GreaterThan(decimal.Zero) {
		st.SubscriptionShare = sharePct(st.SubscriptionTotal, totalSpent)
		st.FixedExpenseShare = sharePct(fixedTotal, totalSpent)
	}

	st.BudgetsTotal = len(budgets)
	for _, b := range budgets {
		if b.Met() {
			st.BudgetsMet++
		}
	}
	if st.BudgetsTotal > 0 {
		st.BudgetAdherence = float64(st.BudgetsMet) / float64(st.BudgetsTotal) * 100
	}

	topCategories, err := a.storage.GetSpendByCategory(ctx, userID, month)
	if err != nil {
		return st, fmt.Errorf("failed to load top categories: %w", err)
	}
	if len(topCategories) > 4 {
		topCategories = topCategories[:4]
	}
	st.TopCategories = topCategories

	return st, nil
}

func (a *Aggregator) goalsSummary(ctx context.Context, userID string) (GoalsSummary, []model.Goal, error) {
	var gs GoalsSummary

	goals, err := a.storage.GetGoals(ctx, userID)
	if err != nil {
		return gs, nil, fmt.Errorf("failed to load goals: %w", err)
	}

	for _, g := range goals {
		switch g.Status {
		case model.GoalActive:
			gs.ActiveCount++
			gs.ActiveTargetTotal = gs.ActiveTargetTotal.Add(g.TargetAmount)
			gs.ActiveCurrentTotal = gs.ActiveCurrentTotal.Add(g.CurrentAmount)
		case model.GoalCompleted:
			gs.CompletedCount++
		}
	}
	if gs.ActiveTargetTotal.GreaterThan(decimal.Zero) {
		gs.ActiveProgressPct = sharePct(gs.ActiveCurrentTotal, gs.ActiveTargetTotal)
	}

	dueSoon, err := a.storage.GetGoalsDueWithin(ctx, userID, goalDueSoonWindow)
	if err != nil {
		return gs, nil, fmt.Errorf("failed to load due-soon goals: %w", err)
	}
	gs.DueSoon = dueSoon

	return gs, goals, nil
}

// buildRecommendations re-derives the recommendation list on every call.
// Snapshot insights come first; rule-based heuristics over the live data
// fill the remaining slots.
func buildRecommendations(snapshot *AnalysisSnapshot, health FinancialHealth, structure Structure, goals GoalsSummary) []string {
	var recs []string

	if snapshot != nil {
		for _, insight := range snapshot.Insights {
			if len(recs) >= maxRecommendations {
				break
			}
			if insight.Priority == model.PriorityHigh || insight.Priority == model.PriorityMedium {
				recs = append(recs, insight.Text)
			}
		}
	}

	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		seen[r] = struct{}{}
	}
	add := func(text string) {
		if len(recs) >= maxRecommendations {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		recs = append(recs, text)
	}

	if health.TotalIncome.GreaterThan(decimal.Zero) && health.SavingsRate < 10 {
		add("Apply a micro-limit to your highest-spend category to push the savings rate above 10%.")
	}
	if structure.BudgetsTotal > 0 && structure.BudgetAdherence < 70 {
		add("Most budget targets were exceeded; update the monthly limits and set an alert on the critical category.")
	}
	if structure.SubscriptionShare > 20 {
		add("Subscriptions take a large share of total spending; cancel the ones you no longer use.")
	}
	if structure.FixedExpenseShare > 60 {
		add("Fixed expenses dominate your spending; renegotiate the items that can be repriced.")
	}
	if goals.ActiveCount == 0 {
		add("Add at least one active financial goal to personalize the analysis.")
	}

	return recs
}

func sharePct(part, whole decimal.Decimal) float64 {
	if whole.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	pct, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

func normalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
