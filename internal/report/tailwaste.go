package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vcaputo/jio/internal/journal"
	"github.com/vcaputo/jio/internal/sizefmt"
)

// TailInfo is one journal's tail-waste measurement (GLOSSARY "Tail
// waste": bytes between the end of the tail object, 8-byte aligned,
// and the file's physical end).
type TailInfo struct {
	Journal    string
	Path       string
	Archived   bool
	TailOffset uint64
	TailSize   uint64
	FileSize   uint64
}

// ReclaimableTo is the file length reclaim would truncate this journal
// to: the tail object's end, 8-byte aligned (spec §6.3 "reclaim tail-
// waste").
func (t TailInfo) ReclaimableTo() uint64 {
	return t.TailOffset + alignUp8(t.TailSize)
}

// Waste is the number of bytes between ReclaimableTo and the file's
// current physical length.
func (t TailInfo) Waste() uint64 {
	want := t.ReclaimableTo()
	if t.FileSize <= want {
		return 0
	}
	return t.FileSize - want
}

func alignUp8(n uint64) uint64 { return (n + 7) &^ 7 }

// ComputeTailWaste reads j's tail object and stats its backing file to
// measure how much space a reclaim would recover.
func ComputeTailWaste(ctx context.Context, j *journal.Journal, path string, h journal.Header) (TailInfo, error) {
	tailHdr, err := journal.GetObjectHeader(ctx, j, h.TailObjectOffset)
	if err != nil {
		return TailInfo{}, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return TailInfo{}, err
	}

	return TailInfo{
		Journal:    j.Name,
		Path:       path,
		Archived:   h.State == journal.StateArchived,
		TailOffset: h.TailObjectOffset,
		TailSize:   tailHdr.Size,
		FileSize:   uint64(fi.Size()),
	}, nil
}

// WriteTailWaste prints one line per journal with nonzero waste (spec
// §8 "one archived journal, one offline journal, both with 512 B of
// tail waste": report tail-waste lists both regardless of state).
func WriteTailWaste(w io.Writer, infos []TailInfo) error {
	for _, info := range infos {
		if info.Waste() == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s tail waste (%s)\n", info.Journal, sizefmt.Bytes(info.Waste()), stateLabel(info.Archived)); err != nil {
			return err
		}
	}
	return nil
}

func stateLabel(archived bool) string {
	if archived {
		return "archived"
	}
	return "not archived, not reclaimable"
}

// Reclaim truncates every archived journal in infos to ReclaimableTo
// and leaves non-archived ones untouched, returning a summary matching
// spec §8's "Reclaimed ... from N journal files" / "Ignored ... N
// unarchived journal files totalling ..." scenario text.
func Reclaim(infos []TailInfo) (reclaimed, ignored uint64, reclaimedFiles, ignoredFiles int, err error) {
	for _, info := range infos {
		waste := info.Waste()
		if waste == 0 {
			continue
		}
		if !info.Archived {
			ignored += waste
			ignoredFiles++
			continue
		}
		if truncErr := os.Truncate(info.Path, int64(info.ReclaimableTo())); truncErr != nil {
			return reclaimed, ignored, reclaimedFiles, ignoredFiles, truncErr
		}
		reclaimed += waste
		reclaimedFiles++
	}
	return reclaimed, ignored, reclaimedFiles, ignoredFiles, nil
}

// WriteReclaimSummary renders the two summary lines the reclaim command
// prints after Reclaim runs.
func WriteReclaimSummary(w io.Writer, reclaimed, ignored uint64, reclaimedFiles, ignoredFiles int) error {
	if _, err := fmt.Fprintf(w, "Reclaimed %s from %d journal files\n", sizefmt.Bytes(reclaimed), reclaimedFiles); err != nil {
		return err
	}
	if ignoredFiles == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Ignored %d unarchived journal files totalling %s\n", ignoredFiles, sizefmt.Bytes(ignored))
	return err
}
