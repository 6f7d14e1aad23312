package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/eakarsu/parapilot/internal/config"
	"github.com/eakarsu/parapilot/internal/insights"
	"github.com/eakarsu/parapilot/internal/model"
)

func actionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Manage your monthly action checklist",
	}

	cmd.AddCommand(actionsListCmd())
	cmd.AddCommand(actionsToggleCmd())
	cmd.AddCommand(actionsDeleteCmd())
	cmd.AddCommand(actionsApplyCmd())

	return cmd
}

func actionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [period]",
		Short: "List action items for a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			items, err := store.GetActionItems(ctx, config.UserID(), period)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Printf("No actions for %s. Run `parapilot analyze --sync` to generate some.\n", period)
				return nil
			}

			formatter := insights.NewFormatter()
			fmt.Println(formatter.FormatActions(items, insights.ComputeActionStats(items)))
			for _, item := range items {
				fmt.Printf("  %s  %s\n", item.ID, item.Title)
			}
			return nil
		},
	}
}

func actionsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <action-id>",
		Short: "Toggle an action between pending and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, store, err := initService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			item, err := svc.Synchronizer.ToggleStatus(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", item.Title, item.Status)
			return nil
		},
	}
}

func actionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <action-id>",
		Short: "Delete an action item",
		Long: `Delete an action item. A deleted item will not reappear when the same
analysis snapshot is synced again; the next recompute may suggest it anew.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, store, err := initService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := svc.Synchronizer.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Action deleted.")
			return nil
		},
	}
}

func actionsApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <action-id>",
		Short: "Apply an action's side effect and mark it done",
		Long: `Perform the change an action suggests, then mark it done:

  --type set_budget           requires --category and --amount
  --type create_goal          requires --goal-title and --target
  --type cancel_subscription  requires --subscription`,
		Args: cobra.ExactArgs(1),
		RunE: runActionsApply,
	}

	cmd.Flags().String("type", "", "Side effect type (set_budget, create_goal, cancel_subscription)")
	cmd.Flags().String("category", "", "Budget category name")
	cmd.Flags().String("amount", "", "Budget amount")
	cmd.Flags().String("goal-title", "", "Goal title")
	cmd.Flags().String("target", "", "Goal target amount")
	cmd.Flags().String("metric", string(model.GoalMetricSavings), "Goal metric (savings, expense_reduction, income_growth)")
	cmd.Flags().String("subscription", "", "Subscription name to cancel")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runActionsApply(cmd *cobra.Command, args []string) error {
	applyType, _ := cmd.Flags().GetString("type")
	category, _ := cmd.Flags().GetString("category")
	amountStr, _ := cmd.Flags().GetString("amount")
	goalTitle, _ := cmd.Flags().GetString("goal-title")
	targetStr, _ := cmd.Flags().GetString("target")
	metric, _ := cmd.Flags().GetString("metric")
	subscription, _ := cmd.Flags().GetString("subscription")

	req := insights.ApplyRequest{
		Type:             insights.ApplyType(applyType),
		CategoryName:     category,
		SubscriptionName: subscription,
		GoalTitle:        goalTitle,
		MetricType:       model.GoalMetric(metric),
	}

	var err error
	if amountStr != "" {
		if req.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return fmt.Errorf("invalid amount %q: %w", amountStr, err)
		}
	}
	if targetStr != "" {
		if req.TargetAmount, err = decimal.NewFromString(targetStr); err != nil {
			return fmt.Errorf("invalid target %q: %w", targetStr, err)
		}
	}

	ctx := cmd.Context()
	svc, store, err := initService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := svc.Synchronizer.ApplyAction(ctx, args[0], req); err != nil {
		return err
	}
	fmt.Println("Action applied and marked done.")
	return nil
}
