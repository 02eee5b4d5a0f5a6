//go:build !linux

package ioq

import (
	"fmt"
	"os"
	"runtime"
)

// openRelative falls back to a path join on non-Linux hosts. Journal
// files are a Linux (systemd) concept to begin with, so this path only
// needs to exist for the package to build elsewhere, not to behave
// identically to openat(2).
func openRelative(dir *os.File, name string, flag int) (*os.File, error) {
	return nil, fmt.Errorf("ioq: opening %q relative to %q: %w", name, dir.Name(), unsupportedPlatform{runtime.GOOS})
}

type unsupportedPlatform struct{ goos string }

func (u unsupportedPlatform) Error() string {
	return fmt.Sprintf("journal access is only supported on linux, not %s", u.goos)
}
