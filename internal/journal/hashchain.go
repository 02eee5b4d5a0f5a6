package journal

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/vcaputo/jio/internal/jioerr"
)

// HashChainIterState is the consumer-owned struct threaded through
// repeated HashChainNext calls (spec §3 "IterState", hash-chain case).
type HashChainIterState struct {
	Bucket int
	Offset uint64
	Header ObjectHeader

	// nextHashOffset is the previously decoded object's next-in-chain
	// offset (Data.NextHashOffset or Field.NextHashOffset); hash-chain
	// traversal only needs this one field of the prior decode, not the
	// whole Object.
	nextHashOffset uint64

	warned bool
}

func (state *HashChainIterState) warnOnce(j *Journal, offset uint64, format string, args ...any) {
	if state.warned {
		return
	}
	logrus.WithFields(logrus.Fields{"journal": j.Name, "offset": offset}).Warnf(format, args...)
	state.warned = true
}

// nextNonEmptyBucket scans table starting at from (inclusive) for a
// bucket whose HeadOffset is non-zero, returning ok=false if none
// remain (spec §4.5 "advance bucket to the next bucket whose
// head_offset != 0").
func nextNonEmptyBucket(table []HashItem, from int) (int, bool) {
	for b := from; b < len(table); b++ {
		if table[b].HeadOffset != 0 {
			return b, true
		}
	}
	return 0, false
}

// HashChainNext walks one step of a Data or Field hash-table's bucket
// chains (spec §4.5 "hash_chain_next"). objSize is the minimum number
// of bytes read at each step — sizeof(DataObject) when walking a data
// hash table, sizeof(FieldObject) when walking a field hash table (spec
// §8 testable property 2). The read is widened to the object's own
// size when that is larger, so every reached object is decoded whole.
func HashChainNext(ctx context.Context, j *Journal, table []HashItem, state *HashChainIterState, objSize uint64) (Object, bool, error) {
	nbuckets := len(table)
	if state.Bucket >= nbuckets && state.Offset != 0 {
		return Object{}, false, jioerr.Format(j.Name, "hash chain bucket %d out of range (nbuckets=%d)", state.Bucket, nbuckets)
	}

	switch {
	case state.Offset == 0:
		b, ok := nextNonEmptyBucket(table, 0)
		if !ok {
			return Object{}, false, nil
		}
		state.Bucket = b
		state.Offset = table[b].HeadOffset
	case state.Offset != table[state.Bucket].TailOffset:
		state.Offset = state.nextHashOffset
	default:
		b, ok := nextNonEmptyBucket(table, state.Bucket+1)
		if !ok {
			state.Offset = 0
			state.Header = ObjectHeader{}
			return Object{}, false, nil
		}
		state.Bucket = b
		state.Offset = table[b].HeadOffset
	}

	oh, err := GetObjectHeader(ctx, j, state.Offset)
	if err != nil {
		if errors.Is(err, jioerr.ErrFormat) {
			state.warnOnce(j, state.Offset, "corrupt object header in hash chain at offset %d, ending walk: %v", state.Offset, err)
			state.Offset = 0
			state.Header = ObjectHeader{}
			return Object{}, false, nil
		}
		return Object{}, false, err
	}
	if oh.Type != TypeData && oh.Type != TypeField {
		state.warnOnce(j, state.Offset, "non-hashed object type %s in hash chain at offset %d, ending walk", oh.Type, state.Offset)
		state.Offset = 0
		state.Header = ObjectHeader{}
		return Object{}, false, nil
	}

	readSize := objSize
	if readSize < oh.Size {
		readSize = oh.Size
	}
	obj, err := GetObject(ctx, j, state.Offset, ObjectHeader{Type: oh.Type, Flags: oh.Flags, Size: readSize})
	if err != nil {
		if errors.Is(err, jioerr.ErrFormat) {
			state.warnOnce(j, state.Offset, "corrupt object at offset %d in hash chain, ending walk: %v", state.Offset, err)
			state.Offset = 0
			state.Header = ObjectHeader{}
			return Object{}, false, nil
		}
		return Object{}, false, err
	}

	switch {
	case obj.Data != nil:
		state.nextHashOffset = obj.Data.NextHashOffset
	case obj.Field != nil:
		state.nextHashOffset = obj.Field.NextHashOffset
	}
	state.Header = oh
	return obj, true, nil
}

// WalkHashChain drives HashChainNext to completion over table, invoking
// visit for every hashed object reached (spec §8 testable property 2).
func WalkHashChain(ctx context.Context, j *Journal, table []HashItem, objSize uint64, visit func(offset uint64, obj Object) error) error {
	var state HashChainIterState
	for {
		obj, more, err := HashChainNext(ctx, j, table, &state, objSize)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if err := visit(state.Offset, obj); err != nil {
			return err
		}
	}
}
