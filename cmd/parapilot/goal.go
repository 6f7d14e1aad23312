package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/eakarsu/parapilot/internal/config"
	"github.com/eakarsu/parapilot/internal/model"
)

func goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage financial goals",
	}

	cmd.AddCommand(goalAddCmd())
	cmd.AddCommand(goalListCmd())

	return cmd
}

func goalAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title> <target-amount>",
		Short: "Create a financial goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid target %q: %w", args[1], err)
			}
			metric, _ := cmd.Flags().GetString("metric")
			dueRaw, _ := cmd.Flags().GetString("due")

			goal := &model.Goal{
				ID:           uuid.New().String(),
				UserID:       config.UserID(),
				Title:        args[0],
				TargetAmount: target,
				MetricType:   model.GoalMetric(metric),
				Status:       model.GoalActive,
				CreatedAt:    time.Now(),
			}
			if dueRaw != "" {
				due, err := time.Parse("2006-01-02", dueRaw)
				if err != nil {
					return fmt.Errorf("invalid due date %q (want YYYY-MM-DD): %w", dueRaw, err)
				}
				goal.TargetDate = &due
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveGoal(ctx, goal); err != nil {
				return err
			}
			fmt.Printf("Goal %q created with target %s\n", goal.Title, target.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().String("metric", string(model.GoalMetricSavings), "Goal metric (savings, expense_reduction, income_growth)")
	cmd.Flags().String("due", "", "Target date (YYYY-MM-DD)")

	return cmd
}

func goalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your goals with progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goals, err := store.GetGoals(ctx, config.UserID())
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				fmt.Println("No goals yet. Use `parapilot goal add <title> <target>`.")
				return nil
			}
			for _, g := range goals {
				due := ""
				if g.TargetDate != nil {
					due = " · due " + g.TargetDate.Format("2006-01-02")
				}
				fmt.Printf("[%s] %-30s %s / %s (%d%%)%s\n",
					g.Status, g.Title,
					g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2),
					g.ProgressPct(), due)
			}
			return nil
		},
	}
}
