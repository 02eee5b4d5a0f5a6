// Package jioerr holds the small set of sentinel/typed errors the
// engine's error taxonomy (spec §7) distinguishes: Format, Permission,
// and Resource. Transport errors are not given a type here — they're
// propagated as whatever the kernel/stdlib already returned, since
// there's nothing the engine can usefully add to them.
package jioerr

import (
	"errors"
	"fmt"
)

// ErrFormat means the journal's on-disk bytes violate an invariant the
// decoder relies on: a short read, an unknown object type, or a
// zero-sized object. During sequential/hash-chain iteration this marks
// only the remainder of one file unreachable; on a direct decode call
// it is returned to the caller.
var ErrFormat = errors.New("journal: invalid format")

// ErrPermission means an open failed with EACCES/EPERM. The file is
// skipped, not fatal to the set it belongs to.
var ErrPermission = errors.New("journal: permission denied")

// ErrResource means an allocation failed (maps to -ENOMEM in the
// source design).
var ErrResource = errors.New("journal: resource exhausted")

// Format builds an ErrFormat-classified error carrying the journal name
// and a printf-style detail message.
func Format(journal, msg string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", journal, fmt.Sprintf(msg, args...), ErrFormat)
}
