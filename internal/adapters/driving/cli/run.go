package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run [date]",
	Short: "Reconcile one calendar date against the last baseline",
	Long: `Fetches the currently open requests for the given date (default
today), detects requests that closed since the previous run, refetches
their final state and writes the verified daily snapshot. The
open-identifier baseline only advances after the written file passes
verification.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	day := time.Now().UTC()
	if len(args) > 0 {
		parsed, err := domain.ParseDate(args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", args[0], err)
		}
		day = parsed
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.Printf("Reconciling %s...\n", domain.FormatDate(day))

	report, err := reconciler.Run(ctx, day)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	printReport(cmd, report)

	if historyKeep > 0 {
		if err := runHistory.Prune(ctx, historyKeep); err != nil {
			logger.Warn("pruning run history: %v", err)
		}
	}

	return nil
}

func printReport(cmd *cobra.Command, report *domain.RunReport) {
	cmd.Printf("Open requests:   %d\n", report.OpenCount)
	cmd.Printf("Newly closed:    %d\n", report.ClosedCount)

	for _, f := range report.CategoryFailures {
		cmd.Printf("Category %q failed: %v\n", f.Template, f.Err)
	}
	for _, f := range report.RefetchFailures {
		cmd.Printf("Refetch of request %s failed: %v\n", f.RequestID, f.Err)
	}

	if !report.Verified {
		cmd.Println("WARNING: write verification failed; baseline not advanced. " +
			"The next run will recompute transitions against the previous baseline.")
		return
	}

	if report.BaselineAdvanced {
		cmd.Println("Snapshot verified, baseline advanced.")
	} else {
		cmd.Println("Snapshot verified.")
	}
}
