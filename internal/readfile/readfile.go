// Package readfile provides the one-shot "open, read a small
// pseudo-file, close" primitive the engine uses for the two host
// identifiers: the machine-id and the current boot-id (spec §4.6).
package readfile

import (
	"bytes"
	"context"
	"os"

	"github.com/vcaputo/jio/internal/ioq"
)

// Read opens path read-only, reads up to len(buf) bytes at offset 0,
// closes it, and returns the trimmed (trailing-newline-stripped)
// contents. It never retains the file descriptor past this call, same
// as the synchronous open/read/close chain the source composed from
// three continuations.
func Read(ctx context.Context, eng *ioq.Engine, path string, buf []byte) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	n, err := eng.ReadFile(ctx, f, buf, 0)
	if err != nil {
		return "", err
	}

	return string(bytes.TrimRight(buf[:n], "\n")), nil
}
