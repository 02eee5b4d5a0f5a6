// Package report holds the per-command writers that sit on top of the
// journal engine: layout dump, usage breakdown, tail-waste
// listing/reclaim, entry-array duplication stats, and hashed-object
// verification. Each is specified only by the engine-facing contract it
// uses (internal/journal's exported functions) — none of them know
// anything about the on-disk byte layout directly.
package report

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/vcaputo/jio/internal/journal"
)

// layoutPageSize is the page size layout reports bucket offsets by
// (spec §6.1: "Page size for layout reports: 4096"), distinct from the
// read cache's 8 KiB page size.
const layoutPageSize = 4096

var typeCode = map[journal.ObjectType]byte{
	journal.TypeUnused:         '?',
	journal.TypeData:           'd',
	journal.TypeField:          'f',
	journal.TypeEntry:          'e',
	journal.TypeDataHashTable:  'D',
	journal.TypeFieldHashTable: 'F',
	journal.TypeEntryArray:     'A',
	journal.TypeTag:            'T',
}

const layoutLegend = "# legend: [| ]type size[+pad], '| ' = page start, |N| = spans N page boundaries, +N = alignment padding\n"

// Layout writes journalName + ".layout" (spec §6.3): a legend line
// followed by a single space-separated token per object, in sequential
// offset order. Idempotent on an unchanged file (spec §8 testable
// property 6) since it derives every token purely from each object's
// offset and size.
func Layout(ctx context.Context, j *journal.Journal, h journal.Header, outDir string) error {
	path := outDir + "/" + j.Name + ".layout"
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "# %s file-id %s\n", j.Name, uuid.UUID(h.FileID)); err != nil {
		return err
	}
	if _, err := w.WriteString(layoutLegend); err != nil {
		return err
	}

	first := true
	err = journal.IterObjects(ctx, j, h, func(offset uint64, oh journal.ObjectHeader) error {
		if !first {
			if _, err := w.WriteString(" "); err != nil {
				return err
			}
		}
		first = false
		_, err := w.WriteString(layoutToken(offset, oh))
		return err
	})
	if err != nil {
		return err
	}
	if _, err := w.WriteString("\n"); err != nil {
		return err
	}
	return w.Flush()
}

func layoutToken(offset uint64, oh journal.ObjectHeader) string {
	var b strings.Builder

	if offset%layoutPageSize == 0 {
		b.WriteString("| ")
	}

	code, ok := typeCode[oh.Type]
	if !ok {
		code = '?'
	}
	b.WriteByte(code)

	end := offset + oh.Size
	if oh.Size > 0 {
		crossed := end/layoutPageSize - offset/layoutPageSize
		if end%layoutPageSize == 0 {
			crossed--
		}
		switch {
		case crossed == 1:
			b.WriteString("|")
		case crossed > 1:
			fmt.Fprintf(&b, "|%d|", crossed)
		}
	}

	fmt.Fprintf(&b, " %d", oh.Size)

	if pad := alignedPadding(oh.Size); pad > 0 {
		fmt.Fprintf(&b, "+%d", pad)
	}

	return b.String()
}

func alignedPadding(size uint64) uint64 {
	return ((size + 7) &^ 7) - size
}
