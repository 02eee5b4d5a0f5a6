package report

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/vcaputo/jio/internal/journal"
	"github.com/vcaputo/jio/internal/sizefmt"
)

// TypeUsage is one object type's aggregate footprint across a journal.
type TypeUsage struct {
	Count uint64
	Bytes uint64
}

// Usage is a single journal's per-type object counts and byte totals,
// accumulated by walking every object once (spec §2 component 5,
// "object-aware iterators").
type Usage struct {
	Journal string
	FileID  uuid.UUID
	ByType  map[journal.ObjectType]*TypeUsage
	Total   TypeUsage
}

// ComputeUsage walks j sequentially and tallies count/size per object
// type.
func ComputeUsage(ctx context.Context, j *journal.Journal, h journal.Header) (Usage, error) {
	u := Usage{
		Journal: j.Name,
		FileID:  uuid.UUID(h.FileID),
		ByType:  make(map[journal.ObjectType]*TypeUsage),
	}

	err := journal.IterObjects(ctx, j, h, func(offset uint64, oh journal.ObjectHeader) error {
		tu, ok := u.ByType[oh.Type]
		if !ok {
			tu = &TypeUsage{}
			u.ByType[oh.Type] = tu
		}
		tu.Count++
		tu.Bytes += oh.Size
		u.Total.Count++
		u.Total.Bytes += oh.Size
		return nil
	})
	return u, err
}

var usageTypeOrder = []journal.ObjectType{
	journal.TypeData,
	journal.TypeField,
	journal.TypeEntry,
	journal.TypeDataHashTable,
	journal.TypeFieldHashTable,
	journal.TypeEntryArray,
	journal.TypeTag,
	journal.TypeUnused,
}

// WriteUsage prints a human-readable usage breakdown for u to w.
func WriteUsage(w io.Writer, u Usage) error {
	if _, err := fmt.Fprintf(w, "%s (file-id %s):\n", u.Journal, u.FileID); err != nil {
		return err
	}
	for _, t := range usageTypeOrder {
		tu, ok := u.ByType[t]
		if !ok || tu.Count == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %-16s %8d objects  %s\n", t, tu.Count, sizefmt.Bytes(tu.Bytes)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-16s %8d objects  %s\n", "total", u.Total.Count, sizefmt.Bytes(u.Total.Bytes))
	return err
}
