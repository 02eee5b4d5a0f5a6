// Package cmd is jio's cobra command tree: help, license, version,
// reclaim tail-waste, and report {entry-arrays,layout,tail-waste,usage,
// verify-hashed-objects} (spec §6.2). Every command here is a thin consumer of
// internal/journal's exported contract and internal/report's writers;
// neither package here knows anything about the on-disk byte layout.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vcaputo/jio/cfg"
	"github.com/vcaputo/jio/internal/identity"
	"github.com/vcaputo/jio/internal/ioq"
)

var (
	config  cfg.Config
	viperV  = viper.New()
	bindErr error
)

// rootCmd is jio's top-level command (spec §6.2): a missing subcommand
// prints usage and exits 0; an unknown subcommand prints usage, reports
// the unknown name as an error, and exits 1.
var rootCmd = &cobra.Command{
	Use:           "jio",
	Short:         "Read, analyze, and repair systemd-journal files",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmd.Help(); err != nil {
			return err
		}
		if len(args) > 0 {
			return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
		}
		return nil
	},
}

// Execute runs the command tree, matching spec §6.2's exit code
// contract: 0 on success, 1 on any engine error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags(), viperV)
	cobra.OnInitialize(func() {
		if bindErr != nil {
			return
		}
		config, bindErr = cfg.Decode(viperV)
	})

	rootCmd.AddCommand(licenseCmd, versionCmd, reclaimCmd, reportCmd)
}

func checkBind() error {
	if bindErr != nil {
		return bindErr
	}
	return nil
}

// resolveHostDir returns the per-host journal directory under
// config.JournalDir: the local machine-id, fetched through
// internal/identity (spec §4.3, §4.6).
func resolveHostDir(ctx context.Context, eng *ioq.Engine) (string, error) {
	id, err := identity.MachineID(ctx, eng)
	if err != nil {
		return "", fmt.Errorf("resolving host journal directory: %w", err)
	}
	return id, nil
}

func newEngine() *ioq.Engine {
	return ioq.New(config.QueueDepth)
}

func warnf(format string, args ...any) {
	logrus.Warnf(format, args...)
}
