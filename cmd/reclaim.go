package cmd

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vcaputo/jio/internal/journal"
	"github.com/vcaputo/jio/internal/report"
)

var reclaimCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Reclaim wasted space in journal files",
}

var reclaimTailWasteCmd = &cobra.Command{
	Use:   "tail-waste",
	Short: "Truncate archived journals to their tail object's end",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkBind(); err != nil {
			return err
		}
		return runReclaimTailWaste(cmd.Context())
	},
}

func init() {
	reclaimCmd.AddCommand(reclaimTailWasteCmd)
}

func runReclaimTailWaste(ctx context.Context) error {
	var mu sync.Mutex
	var infos []report.TailInfo
	err := withEachJournalPath(ctx, func(ctx context.Context, j *journal.Journal, h journal.Header, path string) error {
		info, err := report.ComputeTailWaste(ctx, j, path, h)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		infos = append(infos, info)
		return nil
	})
	if err != nil {
		return err
	}

	// All reads against every journal have completed by this point (the
	// ForEachJournal pass above ran to completion), so it's safe to
	// truncate now (spec §5: reclaim completes all reads before issuing
	// any truncate).
	reclaimed, ignored, reclaimedFiles, ignoredFiles, err := report.Reclaim(infos)
	if err != nil {
		return err
	}

	return report.WriteReclaimSummary(rootCmd.OutOrStdout(), reclaimed, ignored, reclaimedFiles, ignoredFiles)
}
