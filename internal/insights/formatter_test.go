package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eakarsu/parapilot/internal/model"
)

func TestFormatOverviewHeading(t *testing.T) {
	f := NewFormatter()
	due := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	out := f.FormatOverview(&Overview{
		Period:   "2026-08",
		Snapshot: testSnapshot("2026-08"),
		Goals: GoalsSummary{
			ActiveCount: 1,
			DueSoon: []model.Goal{
				{Title: "Emergency fund", TargetDate: &due},
			},
		},
	})

	assert.Contains(t, out, "Overview - 2026-08")
	assert.Contains(t, out, "Emergency fund - due 2026-08-28")
}

func TestFormatScenarioNoData(t *testing.T) {
	f := NewFormatter()

	out := f.FormatScenario(&ScenarioResult{Month: "2026-08", NoData: true})

	assert.Contains(t, out, "No spending data for 2026-08")
	assert.Contains(t, out, "nothing to simulate")
}

func TestFormatterAvoidsTypographicDashes(t *testing.T) {
	f := NewFormatter()
	due := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	outputs := []string{
		f.FormatOverview(&Overview{
			Period:   "2026-08",
			Snapshot: testSnapshot("2026-08"),
			Goals: GoalsSummary{
				DueSoon: []model.Goal{{Title: "Emergency fund", TargetDate: &due}},
			},
		}),
		f.FormatSnapshot(testSnapshot("2026-08")),
		f.FormatScenario(&ScenarioResult{Month: "2026-08", NoData: true}),
		f.FormatScenario(&ScenarioResult{
			Month:        "2026-08",
			Category:     "dining",
			CutPercent:   20,
			NoIncomeData: true,
		}),
	}

	for _, out := range outputs {
		require.NotEmpty(t, out)
		assert.False(t, strings.ContainsRune(out, '—'),
			"terminal output should use plain ASCII punctuation")
	}
}
