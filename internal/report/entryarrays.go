package report

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"

	"github.com/vcaputo/jio/internal/journal"
	"github.com/vcaputo/jio/internal/sizefmt"
)

// EntryArrayBucket tallies entry arrays whose item count falls in
// [2^n, 2^(n+1)) (spec design note: "split the doubly-assigned union
// into two distinct fields" — UniqueCount/UniqueBytes and
// TotalCount/TotalBytes are tracked separately here rather than sharing
// storage).
type EntryArrayBucket struct {
	Log2Size int

	TotalCount  uint64
	TotalBytes  uint64
	UniqueCount uint64
	UniqueBytes uint64
}

// EntryArrayStats is one journal's entry-array duplication and
// utilization report (supplementing spec.md's command surface from
// original_source's report-entry-arrays.c).
type EntryArrayStats struct {
	Journal string
	Buckets map[int]*EntryArrayBucket

	TotalBytes    uint64
	UtilizedBytes uint64
}

// ComputeEntryArrayStats walks every EntryArray object in j, digesting
// each one's item list with SHA-1 to detect payload duplication (the
// same item sequence reappearing within this journal) and
// bucketing by log2(item count).
func ComputeEntryArrayStats(ctx context.Context, j *journal.Journal, h journal.Header) (EntryArrayStats, error) {
	stats := EntryArrayStats{
		Journal: j.Name,
		Buckets: make(map[int]*EntryArrayBucket),
	}
	seen := make(map[[sha1.Size]byte]bool)

	err := journal.IterObjects(ctx, j, h, func(offset uint64, oh journal.ObjectHeader) error {
		if oh.Type != journal.TypeEntryArray {
			return nil
		}

		obj, err := journal.GetObject(ctx, j, offset, oh)
		if err != nil {
			return err
		}

		n := len(obj.EntryArray.Items)
		log2 := 0
		if n > 0 {
			log2 = bits.Len(uint(n)) - 1
		}

		b, ok := stats.Buckets[log2]
		if !ok {
			b = &EntryArrayBucket{Log2Size: log2}
			stats.Buckets[log2] = b
		}

		digest := digestItems(obj.EntryArray.Items)
		b.TotalCount++
		b.TotalBytes += oh.Size
		stats.TotalBytes += oh.Size

		if !seen[digest] {
			seen[digest] = true
			b.UniqueCount++
			b.UniqueBytes += oh.Size
			stats.UtilizedBytes += oh.Size
		}

		return nil
	})
	return stats, err
}

func digestItems(items []uint64) [sha1.Size]byte {
	buf := make([]byte, 8*len(items))
	for i, it := range items {
		binary.LittleEndian.PutUint64(buf[i*8:], it)
	}
	return sha1.Sum(buf)
}

// WriteEntryArrayStats prints a per-bucket duplication/utilization
// breakdown followed by the journal's aggregate utilized/total bytes.
func WriteEntryArrayStats(w io.Writer, s EntryArrayStats) error {
	if _, err := fmt.Fprintf(w, "%s:\n", s.Journal); err != nil {
		return err
	}
	for log2 := 0; log2 <= 63; log2++ {
		b, ok := s.Buckets[log2]
		if !ok {
			continue
		}
		lo := 1 << uint(log2)
		if _, err := fmt.Fprintf(w, "  [%d,%d): %d/%d unique, %s/%s\n",
			lo, lo*2, b.UniqueCount, b.TotalCount, sizefmt.Bytes(b.UniqueBytes), sizefmt.Bytes(b.TotalBytes)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  utilized %s of %s\n", sizefmt.Bytes(s.UtilizedBytes), sizefmt.Bytes(s.TotalBytes))
	return err
}
