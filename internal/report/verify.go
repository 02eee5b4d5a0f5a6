package report

import (
	"context"
	"fmt"
	"io"

	"github.com/vcaputo/jio/internal/journal"
)

// HashMismatch names one object whose recomputed content hash
// disagreed with its stored one (spec §8 "Verify hashed objects").
type HashMismatch struct {
	Journal  string
	Offset   uint64
	Type     journal.ObjectType
	Expected uint64
	Stored   uint64
}

// VerifyHashedObjects walks both the data and field hash-table chains
// of j, recomputing each hashed object's content hash (decompressing
// its payload first when compressed) and comparing it against the
// stored Hash field. It does not stop at the first mismatch — every
// object in both chains is checked, mirroring the source's willingness
// to report all defects in one pass (spec §7: Format errors during
// iteration don't abort the set).
func VerifyHashedObjects(ctx context.Context, j *journal.Journal, h journal.Header) ([]HashMismatch, error) {
	var mismatches []HashMismatch

	dataTable, err := journal.ReadHashTable(ctx, j, h.DataHashTableOffset, h.DataHashTableSize)
	if err != nil {
		return nil, err
	}
	if err := journal.WalkHashChain(ctx, j, dataTable, dataObjectSize, func(offset uint64, obj journal.Object) error {
		if obj.Data == nil {
			return nil
		}
		payload, err := journal.Decompress(obj.Header.Flags, obj.Data.Payload)
		if err != nil {
			return err
		}
		got := journal.ContentHash(h, payload)
		if got != obj.Data.Hash {
			mismatches = append(mismatches, HashMismatch{
				Journal: j.Name, Offset: offset, Type: journal.TypeData,
				Expected: got, Stored: obj.Data.Hash,
			})
		}
		return nil
	}); err != nil {
		return mismatches, err
	}

	fieldTable, err := journal.ReadHashTable(ctx, j, h.FieldHashTableOffset, h.FieldHashTableSize)
	if err != nil {
		return mismatches, err
	}
	if err := journal.WalkHashChain(ctx, j, fieldTable, fieldObjectSize, func(offset uint64, obj journal.Object) error {
		if obj.Field == nil {
			return nil
		}
		got := journal.ContentHash(h, obj.Field.Payload)
		if got != obj.Field.Hash {
			mismatches = append(mismatches, HashMismatch{
				Journal: j.Name, Offset: offset, Type: journal.TypeField,
				Expected: got, Stored: obj.Field.Hash,
			})
		}
		return nil
	}); err != nil {
		return mismatches, err
	}

	return mismatches, nil
}

// dataObjectSize/fieldObjectSize are the fixed Data/Field object sizes
// (object header plus fixed fields) passed to WalkHashChain as its
// minimum per-object read size; WalkHashChain widens each read to the
// object's own size, so payloads are always decoded in full (spec §4.5,
// §9 "Hash table coverage heuristic" — the table kind is an explicit
// argument here rather than inferred from the read size).
const (
	dataObjectSize  = 64
	fieldObjectSize = 40
)

// WriteMismatches prints one line per hash mismatch found, colorizing
// the "hash mismatch" marker red when color is set.
func WriteMismatches(w io.Writer, mismatches []HashMismatch, color bool) error {
	for _, m := range mismatches {
		marker := colorize(color, ansiRed, "hash mismatch")
		if _, err := fmt.Fprintf(w, "%s: %s object at offset %d: %s (stored %016x, computed %016x)\n",
			m.Journal, m.Type, m.Offset, marker, m.Stored, m.Expected); err != nil {
			return err
		}
	}
	return nil
}
