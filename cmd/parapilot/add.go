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

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record expenses, income, subscriptions, and fixed costs",
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(addIncomeCmd())
	cmd.AddCommand(addSubscriptionCmd())
	cmd.AddCommand(addFixedCmd())

	return cmd
}

func parseDateFlag(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", raw, err)
	}
	return t, nil
}

func addExpenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense <merchant> <category> <amount>",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn := &model.Transaction{
				ID:       uuid.New().String(),
				UserID:   config.UserID(),
				Merchant: args[0],
				Category: args[1],
				Amount:   amount,
				Date:     date,
			}
			if err := store.SaveTransaction(ctx, txn); err != nil {
				return err
			}
			fmt.Printf("Recorded %s at %s (%s)\n", amount.StringFixed(2), txn.Merchant, txn.Category)
			return nil
		},
	}
	cmd.Flags().String("date", "", "Transaction date (YYYY-MM-DD, default: today)")
	return cmd
}

func addIncomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income <source> <amount>",
		Short: "Record income",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			income := &model.Income{
				ID:     uuid.New().String(),
				UserID: config.UserID(),
				Source: args[0],
				Amount: amount,
				Date:   date,
			}
			if err := store.SaveIncome(ctx, income); err != nil {
				return err
			}
			fmt.Printf("Recorded %s income from %s\n", amount.StringFixed(2), income.Source)
			return nil
		},
	}
	cmd.Flags().String("date", "", "Income date (YYYY-MM-DD, default: today)")
	return cmd
}

func addSubscriptionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscription <name> <monthly-amount>",
		Short: "Track a recurring subscription",
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

			sub := &model.Subscription{
				ID:     uuid.New().String(),
				UserID: config.UserID(),
				Name:   args[0],
				Amount: amount,
			}
			if err := store.SaveSubscription(ctx, sub); err != nil {
				return err
			}
			fmt.Printf("Tracking subscription %s at %s/month\n", sub.Name, amount.StringFixed(2))
			return nil
		},
	}
}

func addFixedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixed <name> <monthly-amount>",
		Short: "Track a fixed monthly expense (rent, utilities, ...)",
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

			fe := &model.FixedExpense{
				ID:       uuid.New().String(),
				UserID:   config.UserID(),
				Name:     args[0],
				Amount:   amount,
				IsActive: true,
			}
			if err := store.SaveFixedExpense(ctx, fe); err != nil {
				return err
			}
			fmt.Printf("Tracking fixed expense %s at %s/month\n", fe.Name, amount.StringFixed(2))
			return nil
		},
	}
}
