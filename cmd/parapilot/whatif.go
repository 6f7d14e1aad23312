package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eakarsu/parapilot/internal/config"
	"github.com/eakarsu/parapilot/internal/insights"
)

func whatifCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif [period]",
		Short: "Simulate cutting a spending category",
		Long: `Project this month's totals if one category's spend were reduced.

With no --category, the highest-spend category is simulated. The cut must
be between 5 and 40 percent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWhatif,
	}

	cmd.Flags().String("category", "", "Category to cut (default: highest spend)")
	cmd.Flags().Int("cut", 10, "Percentage to cut (5-40)")

	return cmd
}

func runWhatif(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	cut, _ := cmd.Flags().GetInt("cut")

	period, err := resolvePeriod(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine := insights.NewScenarioEngine(store)
	result, err := engine.Simulate(ctx, config.UserID(), period, category, cut)
	if err != nil {
		return err
	}

	fmt.Println(insights.NewFormatter().FormatScenario(result))
	return nil
}
