package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the outcome of recent reconciliation runs",
	RunE:  runHistoryCmd,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := runHistory.List(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("listing run history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSTARTED\tOPEN\tCLOSED\tFAILURES\tVERIFIED\tADVANCED\tERROR")
	for _, rec := range records {
		errMsg := rec.Error
		if errMsg == "" {
			errMsg = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%v\t%v\t%s\n",
			rec.Date, rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.OpenCount, rec.ClosedCount, rec.FailureCount,
			rec.Verified, rec.BaselineAdvanced, errMsg)
	}
	return w.Flush()
}
