// Package cfg binds the handful of tunables the engine actually
// exposes to pflag + viper, the way gcsfuse's own cfg package binds its
// (much larger) mount-option surface.
package cfg

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ByteSize is a flag value parsed with a KiB/MiB-suffixed string (e.g.
// "8KiB", "4MiB"), the way gcsfuse's cfg package gives its own
// domain-specific flag types (Octal, LogSeverity, Protocol) a named
// type and a DecodeHook case rather than plumbing strings around.
type ByteSize uint64

// Config holds every tunable jio's commands read. JournalDir overrides
// the default /var/log/journal root for tests and non-standard hosts;
// QueueDepth sets the async I/O engine's in-flight operation bound
// (spec §4.1); PageSize is validated against the read cache's
// compiled-in page size (spec §6.1 fixes it at 8 KiB, so a mismatching
// value is rejected rather than silently ignored); Color controls ANSI
// output in report commands.
type Config struct {
	JournalDir string   `mapstructure:"journal-dir"`
	PageSize   ByteSize `mapstructure:"page-size"`
	QueueDepth int      `mapstructure:"queue-depth"`
	Color      bool     `mapstructure:"color"`
}

const (
	DefaultJournalDir = "/var/log/journal"
	DefaultPageSize   = ByteSize(8192)
	DefaultQueueDepth = 8
)

// BindFlags registers every Config flag on fs and binds it into v,
// mirroring gcsfuse's cmd/flags.go + cmd/root.go split between flag
// declaration and viper binding.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("journal-dir", DefaultJournalDir, "root directory containing per-host journal subdirectories")
	fs.String("page-size", "8KiB", "read-cache page size; must match the compiled-in 8KiB")
	fs.Int("queue-depth", DefaultQueueDepth, "maximum concurrently in-flight read/open operations")
	fs.Bool("color", false, "colorize report output")

	return v.BindPFlags(fs)
}

// Decode unmarshals v into a Config, applying the ByteSize decode hook
// the same way gcsfuse's cfg.DecodeHook composes its own type-specific
// hooks with mapstructure's defaults.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		byteSizeHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(&c, viper.DecodeHook(decodeHook)); err != nil {
		return Config{}, err
	}
	if c.PageSize != DefaultPageSize {
		return Config{}, fmt.Errorf("page-size %d: read cache is fixed at %d bytes per page", c.PageSize, DefaultPageSize)
	}
	return c, nil
}
