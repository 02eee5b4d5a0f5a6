//go:build linux

package ioq

import (
	"os"

	"golang.org/x/sys/unix"
)

// openRelative opens name relative to dir's file descriptor using
// openat(2), avoiding the TOCTOU window a Join-then-Open would have if
// the journal directory is renamed or replaced mid-enumeration.
func openRelative(dir *os.File, name string, flag int) (*os.File, error) {
	fd, err := unix.Openat(int(dir.Fd()), name, flag, 0)
	if err != nil {
		return nil, &os.PathError{Op: "openat", Path: name, Err: err}
	}
	return os.NewFile(uintptr(fd), dir.Name()+"/"+name), nil
}
