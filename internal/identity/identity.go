// Package identity fetches the two host identifiers that parameterize
// journal access: the machine-id, which names the per-host journal
// directory, and the boot-id, which tags currently-running entries.
// Both are modeled by spec §1 as "opaque identifier fetches" external
// to the engine; this package is the thin shim around readfile that
// supplies them.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/vcaputo/jio/internal/ioq"
	"github.com/vcaputo/jio/internal/readfile"
)

const (
	machineIDPath = "/etc/machine-id"
	bootIDPath    = "/proc/sys/kernel/random/boot_id"

	// idBufSize comfortably covers either a 32-hex-digit machine-id or a
	// 36-character hyphenated boot-id plus trailing newline.
	idBufSize = 64
)

// MachineID returns the local host's machine-id, a 32 hex digit string
// that names /var/log/journal/<machine-id>.
func MachineID(ctx context.Context, eng *ioq.Engine) (string, error) {
	buf := make([]byte, idBufSize)
	id, err := readfile.Read(ctx, eng, machineIDPath, buf)
	if err != nil {
		return "", fmt.Errorf("reading machine-id: %w", err)
	}
	return id, nil
}

// BootID returns the current boot-id with hyphens stripped, matching
// the 32 hex digit form journal entries store it in.
func BootID(ctx context.Context, eng *ioq.Engine) (string, error) {
	buf := make([]byte, idBufSize)
	id, err := readfile.Read(ctx, eng, bootIDPath, buf)
	if err != nil {
		return "", fmt.Errorf("reading boot-id: %w", err)
	}
	return strings.ReplaceAll(id, "-", ""), nil
}
