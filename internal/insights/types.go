package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/model"
)

// CurrentSnapshotVersion is the schema version new snapshots are stamped
// with. Cached snapshots with an older version are considered stale.
const CurrentSnapshotVersion = 8

// SnapshotTTL is how long a cached snapshot stays fresh.
const SnapshotTTL = 24 * time.Hour

// Trend describes the direction of forecast spending.
type Trend string

const (
	// TrendUp indicates spending is expected to increase.
	TrendUp Trend = "up"
	// TrendDown indicates spending is expected to decrease.
	TrendDown Trend = "down"
	// TrendStable indicates no significant change expected.
	TrendStable Trend = "stable"
)

// Coach holds the conversational summary of a snapshot.
type Coach struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
}

// Forecast is the projected spending for the following month.
type Forecast struct {
	NextMonthEstimate decimal.Decimal `json:"next_month_estimate"`
	Trend             Trend           `json:"trend"`
	ConfidenceScore   int             `json:"confidence_score"`
}

// Anomaly flags a transaction that deviates from the user's habits.
type Anomaly struct {
	Merchant string          `json:"merchant"`
	Reason   string          `json:"reason"`
	Amount   decimal.Decimal `json:"amount"`
}

// Insight is one card of analysis text shown to the user.
type Insight struct {
	Text     string         `json:"text"`
	Priority model.Priority `json:"priority"`
}

// NextAction is a recommended action produced by the analysis. It is the
// input to the action synchronizer, which turns it into a persisted,
// user-editable ActionItem.
type NextAction struct {
	Title     string         `json:"title"`
	Priority  model.Priority `json:"priority"`
	DueInDays int            `json:"due_in_days"`
}

// SourceHash returns the de-duplication fingerprint for this action.
func (a NextAction) SourceHash() string {
	return model.ActionSourceHash(a.Title, a.Priority, a.DueInDays)
}

// ScoreBreakdown itemizes the health score by component.
type ScoreBreakdown struct {
	Savings         int `json:"savings"`
	BudgetAdherence int `json:"budget_adherence"`
	Trend           int `json:"trend"`
	GoalProgress    int `json:"goal_progress"`
	AnomalyFreedom  int `json:"anomaly_freedom"`
}

// HealthScore is the 0-100 composite financial health rating.
type HealthScore struct {
	Label     string         `json:"label"`
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Meta carries provenance information about a snapshot.
type Meta struct {
	GeneratedAt      time.Time `json:"generated_at"`
	ModelVersion     string    `json:"model_version"`
	CacheHit         bool      `json:"cache_hit"`
	InsufficientData bool      `json:"insufficient_data"`
}

// AnalysisSnapshot is one immutable AI analysis result for a user and month.
// Snapshots are created only by a recompute, never mutated, and superseded
// (not deleted) by a later snapshot for the same period.
type AnalysisSnapshot struct {
	ComputedAt  time.Time        `json:"computed_at"`
	PeriodKey   model.PeriodKey  `json:"period_key"`
	Coach       Coach            `json:"coach"`
	Anomalies   []Anomaly        `json:"anomalies"`
	Insights    []Insight        `json:"insights"`
	NextActions []NextAction     `json:"next_actions"`
	Forecast    Forecast         `json:"forecast"`
	HealthScore HealthScore      `json:"health_score"`
	Meta        Meta             `json:"meta"`
	Version     int              `json:"version"`
}

// Validate ensures the snapshot is well-formed.
func (s *AnalysisSnapshot) Validate() error {
	if s.PeriodKey == "" {
		return fmt.Errorf("snapshot period key is required")
	}
	if s.ComputedAt.IsZero() {
		return fmt.Errorf("snapshot computed-at timestamp is required")
	}
	if s.Version <= 0 {
		return fmt.Errorf("snapshot version must be positive")
	}
	if len(s.Coach.Summary) > 450 {
		return fmt.Errorf("coach summary exceeds 450 characters")
	}
	if s.Forecast.ConfidenceScore < 0 || s.Forecast.ConfidenceScore > 100 {
		return fmt.Errorf("forecast confidence must be between 0 and 100")
	}
	if s.HealthScore.Score < 0 || s.HealthScore.Score > 100 {
		return fmt.Errorf("health score must be between 0 and 100")
	}
	switch s.Forecast.Trend {
	case TrendUp, TrendDown, TrendStable:
	default:
		return fmt.Errorf("invalid forecast trend: %s", s.Forecast.Trend)
	}
	return nil
}

// SortInsights orders insight cards HIGH > MEDIUM > LOW, preserving the
// original order within a priority band.
func (s *AnalysisSnapshot) SortInsights() {
	sort.SliceStable(s.Insights, func(i, j int) bool {
		return s.Insights[i].Priority.Order() < s.Insights[j].Priority.Order()
	})
}

// AnalyzeOptions controls the cache policy of a single analyze call.
type AnalyzeOptions struct {
	// UseCache permits returning a non-stale cached snapshot without a
	// remote call.
	UseCache bool
	// ForceRecompute always invokes the remote analysis function and
	// overwrites the cache, regardless of staleness.
	ForceRecompute bool
}

// RemoteRequest is the payload handed to the remote analysis function.
type RemoteRequest struct {
	UserID         string
	PeriodKey      model.PeriodKey
	ForceRecompute bool
}

// insufficientDataSnapshot builds the canned snapshot returned for a month
// that has no transactions to analyze. It is cached like any other snapshot
// so repeated loads of an empty month stay cheap.
func insufficientDataSnapshot(period model.PeriodKey, now time.Time) *AnalysisSnapshot {
	return &AnalysisSnapshot{
		PeriodKey:  period,
		ComputedAt: now,
		Version:    CurrentSnapshotVersion,
		Coach: Coach{
			Headline: "Not enough data to analyze yet.",
			Summary:  "No spending records were found for this month. Add a few expenses to unlock forecasts, anomaly detection, and coaching.",
		},
		Insights: []Insight{
			{Text: "Record at least a few expenses this month for more accurate forecasts and recommendations.", Priority: model.PriorityMedium},
		},
		Forecast: Forecast{
			NextMonthEstimate: decimal.Zero,
			Trend:             TrendStable,
			ConfidenceScore:   0,
		},
		NextActions: []NextAction{
			{Title: "Enter at least 3 expenses into the system this month", Priority: model.PriorityMedium, DueInDays: 7},
		},
		HealthScore: HealthScore{Label: "Unknown", Score: 0},
		Meta: Meta{
			GeneratedAt:      now,
			InsufficientData: true,
		},
	}
}
