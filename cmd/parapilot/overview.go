package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eakarsu/parapilot/internal/config"
	"github.com/eakarsu/parapilot/internal/insights"
)

func overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview [period]",
		Short: "Show the full monthly overview",
		Long: `Build the monthly read-model: financial health, spending structure,
goals, the coach summary, your action checklist, and recommendations.

If the analysis service is unreachable, the overview degrades to the
last cached snapshot instead of failing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOverview,
	}
}

func runOverview(cmd *cobra.Command, args []string) error {
	period, err := resolvePeriod(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, store, err := initService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	userID := config.UserID()
	overview, err := svc.Overview.Load(ctx, userID, period)
	if err != nil {
		return err
	}

	fmt.Println(insights.NewFormatter().FormatOverview(overview))

	if state := svc.Overview.State(userID, period); state.Phase == insights.PhaseStale {
		fmt.Println()
		fmt.Println("Data may be out of date. Run `parapilot analyze --force` to refresh.")
	}
	return nil
}
