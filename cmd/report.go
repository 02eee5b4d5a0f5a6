package cmd

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vcaputo/jio/internal/journal"
	"github.com/vcaputo/jio/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyze journal files without modifying them",
}

var reportLayoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Write a per-object layout dump for each journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkBind(); err != nil {
			return err
		}
		return withEachJournal(cmd.Context(), func(ctx context.Context, j *journal.Journal, h journal.Header) error {
			return report.Layout(ctx, j, h, ".")
		})
	},
}

var reportUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Print per-object-type counts and byte totals for each journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkBind(); err != nil {
			return err
		}
		var mu sync.Mutex
		return withEachJournal(cmd.Context(), func(ctx context.Context, j *journal.Journal, h journal.Header) error {
			u, err := report.ComputeUsage(ctx, j, h)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return report.WriteUsage(rootCmd.OutOrStdout(), u)
		})
	},
}

var reportTailWasteCmd = &cobra.Command{
	Use:   "tail-waste",
	Short: "List reclaimable space past each journal's tail object",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkBind(); err != nil {
			return err
		}
		var mu sync.Mutex
		var infos []report.TailInfo
		err := withEachJournalPath(cmd.Context(), func(ctx context.Context, j *journal.Journal, h journal.Header, path string) error {
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
		return report.WriteTailWaste(rootCmd.OutOrStdout(), infos)
	},
}

var reportEntryArraysCmd = &cobra.Command{
	Use:   "entry-arrays",
	Short: "Report entry-array duplication and utilization statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkBind(); err != nil {
			return err
		}
		var mu sync.Mutex
		return withEachJournal(cmd.Context(), func(ctx context.Context, j *journal.Journal, h journal.Header) error {
			s, err := report.ComputeEntryArrayStats(ctx, j, h)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return report.WriteEntryArrayStats(rootCmd.OutOrStdout(), s)
		})
	},
}

var reportVerifyHashedObjectsCmd = &cobra.Command{
	Use:   "verify-hashed-objects",
	Short: "Recompute and verify every hashed Data/Field object's content hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkBind(); err != nil {
			return err
		}
		var mu sync.Mutex
		return withEachJournal(cmd.Context(), func(ctx context.Context, j *journal.Journal, h journal.Header) error {
			mismatches, err := report.VerifyHashedObjects(ctx, j, h)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return report.WriteMismatches(rootCmd.OutOrStdout(), mismatches, config.Color)
		})
	},
}

func init() {
	reportCmd.AddCommand(
		reportLayoutCmd,
		reportUsageCmd,
		reportTailWasteCmd,
		reportEntryArraysCmd,
		reportVerifyHashedObjectsCmd,
	)
}

// withEachJournal opens the local host's journal set and runs visit
// once per successfully-opened journal with its decoded header, each
// journal an independent chain (spec §5: siblings complete normally
// even if one fails).
func withEachJournal(ctx context.Context, visit func(context.Context, *journal.Journal, journal.Header) error) error {
	return withEachJournalPath(ctx, func(ctx context.Context, j *journal.Journal, h journal.Header, _ string) error {
		return visit(ctx, j, h)
	})
}

// withEachJournalPath is withEachJournal plus each journal's on-disk
// path, needed by commands (reclaim, tail-waste) that stat or truncate
// the file by path. visit is invoked concurrently across
// journals via journal.ForEachJournal; callers touching shared state
// (an accumulator slice, the command's output writer) must synchronize
// their own critical section.
func withEachJournalPath(ctx context.Context, visit func(context.Context, *journal.Journal, journal.Header, string) error) error {
	eng := newEngine()
	hostDir, err := resolveHostDir(ctx, eng)
	if err != nil {
		return err
	}

	set, err := journal.OpenJournalSet(ctx, eng, config.JournalDir, hostDir)
	if err != nil {
		return err
	}
	defer set.Close()

	if set.Opened < set.Attempted {
		warnf("opened %d of %d journals under %s, skipping the rest", set.Opened, set.Attempted, hostDir)
	}

	return journal.ForEachJournal(ctx, set, func(j *journal.Journal) error {
		h, err := journal.GetHeader(ctx, j)
		if err != nil {
			return err
		}
		path := filepath.Join(config.JournalDir, hostDir, j.Name)
		return visit(ctx, j, h, path)
	})
}
