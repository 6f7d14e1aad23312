package insights

import (
	"fmt"
	"strings"

	"github.com/eakarsu/parapilot/internal/model"
)

// Formatter renders overviews, snapshots, and scenarios for the terminal.
type Formatter struct {
	styles *Styles
}

// NewFormatter creates a formatter with default styles.
func NewFormatter() *Formatter {
	return &Formatter{styles: NewStyles()}
}

// FormatOverview renders the full monthly read-model.
func (f *Formatter) FormatOverview(o *Overview) string {
	if o == nil {
		return f.styles.Error.Render("No overview available")
	}

	var sections []string

	title := fmt.Sprintf("Overview - %s", o.Period)
	if o.Degraded {
		title += " " + f.styles.Warning.Render("(analysis unavailable, showing last known data)")
	}
	sections = append(sections, f.styles.Title.Render(title))

	sections = append(sections, f.formatHealth(o))
	sections = append(sections, f.formatStructure(o.Structure))
	sections = append(sections, f.formatGoals(o.Goals))

	if o.Snapshot != nil {
		sections = append(sections, f.formatCoach(o.Snapshot))
	}
	if len(o.Actions) > 0 {
		sections = append(sections, f.FormatActions(o.Actions, o.ActionStats))
	}
	if len(o.Recommendations) > 0 {
		sections = append(sections, f.formatRecommendations(o.Recommendations))
	}

	return strings.Join(sections, "\n\n")
}

func (f *Formatter) formatHealth(o *Overview) string {
	fh := o.FinancialHealth
	lines := []string{
		f.styles.Subtitle.Render("Financial Health"),
		fmt.Sprintf("Score: %s (%s)",
			f.styles.Score.Render(fmt.Sprintf("%d/100", o.HealthScore.Score)),
			o.HealthScore.Label),
		fmt.Sprintf("Income %s · Spent %s · Net %s",
			fh.TotalIncome.StringFixed(2),
			fh.TotalSpent.StringFixed(2),
			fh.NetBalance.StringFixed(2)),
		fmt.Sprintf("Savings rate %.1f%% · Daily burn %s · Projected month-end %s",
			fh.SavingsRate,
			fh.DailyBurn.StringFixed(2),
			fh.ProjectedMonthEnd.StringFixed(2)),
	}
	return f.styles.Box.Render(strings.Join(lines, "\n"))
}

func (f *Formatter) formatStructure(st Structure) string {
	lines := []string{
		f.styles.Subtitle.Render("Spending Structure"),
		fmt.Sprintf("Subscriptions %s (%.1f%%) · Fixed %s (%.1f%%)",
			st.SubscriptionTotal.StringFixed(2), st.SubscriptionShare,
			st.FixedExpenseTotal.StringFixed(2), st.FixedExpenseShare),
		fmt.Sprintf("Budgets met %d/%d (%.0f%% adherence)",
			st.BudgetsMet, st.BudgetsTotal, st.BudgetAdherence),
	}
	for _, ct := range st.TopCategories {
		lines = append(lines, fmt.Sprintf("  %-20s %s", ct.Name, ct.Total.StringFixed(2)))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatGoals(gs GoalsSummary) string {
	lines := []string{
		f.styles.Subtitle.Render("Goals"),
		fmt.Sprintf("%d active, %d completed · progress %.0f%%",
			gs.ActiveCount, gs.CompletedCount, gs.ActiveProgressPct),
	}
	for _, g := range gs.DueSoon {
		due := ""
		if g.TargetDate != nil {
			due = g.TargetDate.Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("  %s - due %s (%d%%)",
			g.Title, due, g.ProgressPct()))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatCoach(s *AnalysisSnapshot) string {
	lines := []string{
		f.styles.Subtitle.Render("Coach"),
		f.styles.Normal.Render(s.Coach.Headline),
	}
	if s.Coach.Summary != "" {
		lines = append(lines, f.styles.Subtle.Render(s.Coach.Summary))
	}
	lines = append(lines, fmt.Sprintf("Forecast: %s next month (%s, confidence %d%%)",
		s.Forecast.NextMonthEstimate.StringFixed(2),
		s.Forecast.Trend,
		s.Forecast.ConfidenceScore))
	return f.styles.Box.Render(strings.Join(lines, "\n"))
}

// FormatActions renders the reconciled action list with its stats.
func (f *Formatter) FormatActions(actions []model.ActionItem, stats ActionStats) string {
	lines := []string{
		f.styles.Subtitle.Render(fmt.Sprintf("Actions (%d pending, %d done)",
			stats.Pending, stats.Done)),
	}
	for _, a := range actions {
		marker := f.styles.Pending.Render("[ ]")
		title := a.Title
		if a.Status == model.ActionDone {
			marker = f.styles.Success.Render("[x]")
			title = f.styles.Done.Render(title)
		}
		prio := f.styles.priorityStyle(a.Priority.Order()).Render(string(a.Priority))
		line := fmt.Sprintf("%s %s %s", marker, prio, title)
		if a.DueDate != nil {
			line += f.styles.Subtle.Render(" · due " + a.DueDate.Format("2006-01-02"))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatRecommendations(recs []string) string {
	lines := []string{f.styles.Subtitle.Render("Recommendations")}
	for i, r := range recs {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, r))
	}
	return strings.Join(lines, "\n")
}

// FormatSnapshot renders a single analysis snapshot.
func (f *Formatter) FormatSnapshot(s *AnalysisSnapshot) string {
	if s == nil {
		return f.styles.Error.Render("No snapshot available")
	}

	title := fmt.Sprintf("Analysis - %s", s.PeriodKey)
	if s.Meta.CacheHit {
		title += " " + f.styles.Subtle.Render("(cached)")
	}
	if s.Meta.InsufficientData {
		title += " " + f.styles.Warning.Render("(insufficient data)")
	}
	sections := []string{f.styles.Title.Render(title), f.formatCoach(s)}

	if len(s.Insights) > 0 {
		lines := []string{f.styles.Subtitle.Render("Insights")}
		for _, ins := range s.Insights {
			prio := f.styles.priorityStyle(ins.Priority.Order()).Render(string(ins.Priority))
			lines = append(lines, fmt.Sprintf("%s %s", prio, ins.Text))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(s.Anomalies) > 0 {
		lines := []string{f.styles.Subtitle.Render("Anomalies")}
		for _, an := range s.Anomalies {
			lines = append(lines, fmt.Sprintf("%s %s (%s): %s",
				f.styles.Warning.Render("!"), an.Merchant,
				an.Amount.StringFixed(2), an.Reason))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(s.NextActions) > 0 {
		lines := []string{f.styles.Subtitle.Render("Suggested Actions")}
		for _, na := range s.NextActions {
			prio := f.styles.priorityStyle(na.Priority.Order()).Render(string(na.Priority))
			lines = append(lines, fmt.Sprintf("%s %s (within %d days)", prio, na.Title, na.DueInDays))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if s.HealthScore.Score > 0 {
		sections = append(sections, fmt.Sprintf("Health: %s (%s)",
			f.styles.Score.Render(fmt.Sprintf("%d/100", s.HealthScore.Score)),
			s.HealthScore.Label))
	}

	return strings.Join(sections, "\n\n")
}

// FormatScenario renders a what-if projection.
func (f *Formatter) FormatScenario(r *ScenarioResult) string {
	if r == nil {
		return f.styles.Error.Render("No scenario available")
	}
	if r.NoData {
		return f.styles.Warning.Render(
			fmt.Sprintf("No spending data for %s, nothing to simulate.", r.Month))
	}

	lines := []string{
		f.styles.Title.Render(fmt.Sprintf("What if: cut %q by %d%% (%s)",
			r.Category, r.CutPercent, r.Month)),
		fmt.Sprintf("Category spend %s → estimated saving %s",
			r.CategoryTotal.StringFixed(2), r.EstimatedSaving.StringFixed(2)),
		fmt.Sprintf("Total spend %s → %s",
			r.CurrentTotalSpent.StringFixed(2), r.ProjectedTotalSpent.StringFixed(2)),
	}
	if r.NoIncomeData {
		lines = append(lines, f.styles.Warning.Render("No income data, savings rate unavailable."))
	} else {
		lines = append(lines, fmt.Sprintf("Savings rate %d%% → %d%%",
			r.CurrentSavingsRate, r.ProjectedSavingsRate))
	}
	if len(r.AvailableCategories) > 0 {
		var names []string
		for _, ct := range r.AvailableCategories {
			names = append(names, ct.Name)
		}
		lines = append(lines, f.styles.Subtle.Render("Categories: "+strings.Join(names, ", ")))
	}

	return strings.Join(lines, "\n")
}
