package journal

import (
	"context"
	"os"

	"github.com/vcaputo/jio/internal/ioq"
)

// Journal is one open file (spec §3 "Journal"): its name, its handle
// (nil for a permission-denied file that was skipped rather than
// fatal), its stable registration index, and its own read cache. Fixed
// after the open phase except for one possible tail truncation.
type Journal struct {
	Name  string
	Index int

	file  *os.File
	eng   *ioq.Engine
	cache *ReadCache
}

// Skipped reports whether this journal's open failed with a permission
// error and was therefore excluded from iteration rather than treated
// as fatal to its JournalSet (spec §4.3 step 7).
func (j *Journal) Skipped() bool { return j.file == nil }

// File exposes the underlying handle for operations the engine itself
// doesn't wrap, such as the reclaim command's Truncate call (spec §6.3
// "reclaim tail-waste").
func (j *Journal) File() *os.File { return j.file }

// readAt is every decode call's single path down to bytes: cache-backed
// for requests of PageSize bytes or smaller, direct otherwise (spec
// §4.4). It is unexported because everything outside this package only
// ever needs offset-addressed objects, never raw bytes.
func (j *Journal) readAt(ctx context.Context, buf []byte, offset int64) (int, error) {
	read := func(ctx context.Context, buf []byte, offset int64) (int, error) {
		return j.eng.ReadAt(ctx, j.file, buf, offset)
	}
	return j.cache.Read(ctx, j.Name, read, buf, offset)
}
