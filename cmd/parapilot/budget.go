package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/eakarsu/parapilot/internal/config"
	"github.com/eakarsu/parapilot/internal/model"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage per-category budgets",
	}

	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetListCmd())

	return cmd
}

func budgetSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Create or update a category budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budget := &model.Budget{
				ID:       uuid.New().String(),
				UserID:   config.UserID(),
				Category: args[0],
				Amount:   amount,
			}
			if err := store.UpsertBudget(ctx, budget); err != nil {
				return err
			}
			fmt.Printf("Budget for %s set to %s\n", budget.Category, amount.StringFixed(2))
			return nil
		},
	}
}

func budgetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your category budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budgets, err := store.GetBudgets(ctx, config.UserID())
			if err != nil {
				return err
			}
			if len(budgets) == 0 {
				fmt.Println("No budgets set. Use `parapilot budget set <category> <amount>`.")
				return nil
			}
			for _, b := range budgets {
				fmt.Printf("%-20s %s\n", b.Category, b.Amount.StringFixed(2))
			}
			return nil
		},
	}
}
