package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eakarsu/parapilot/internal/config"
	"github.com/eakarsu/parapilot/internal/insights"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [period]",
		Short: "Run (or fetch) the monthly AI analysis",
		Long: `Fetch the analysis snapshot for a month (YYYY-MM, default: current).

By default a fresh cached snapshot is returned without contacting the
analysis service. Use --force to recompute unconditionally, or --no-cache
to recompute whenever the cached snapshot is stale.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().Bool("force", false, "Always recompute, even if the cache is fresh")
	cmd.Flags().Bool("no-cache", false, "Skip the cache freshness check")
	cmd.Flags().Bool("sync", false, "Merge the snapshot's suggested actions into your checklist")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	doSync, _ := cmd.Flags().GetBool("sync")

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
	snapshot, err := svc.Client.Analyze(ctx, userID, period, insights.AnalyzeOptions{
		UseCache:       !noCache,
		ForceRecompute: force,
	})
	if err != nil {
		return err
	}

	formatter := insights.NewFormatter()
	fmt.Println(formatter.FormatSnapshot(snapshot))

	if doSync {
		actions, err := svc.Synchronizer.Merge(ctx, userID, period, snapshot)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(formatter.FormatActions(actions, insights.ComputeActionStats(actions)))
	}

	return nil
}
