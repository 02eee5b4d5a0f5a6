package journal

import (
	"context"
	"encoding/binary"

	"github.com/vcaputo/jio/internal/jioerr"
)

// ReadHashTable reads the raw bucket array the header points at
// directly (spec §6.1: "The HashItem table type is { head_offset:
// u64le, tail_offset: u64le }"). Unlike every other decoded structure
// this region isn't itself an ObjectHeader-prefixed object; the header
// names its offset and byte size outright.
func ReadHashTable(ctx context.Context, j *Journal, offset, size uint64) ([]HashItem, error) {
	if size%hashItemSize != 0 {
		return nil, jioerr.Format(j.Name, "hash table size %d is not a multiple of %d", size, hashItemSize)
	}

	buf := make([]byte, size)
	n, err := j.readAt(ctx, buf, int64(offset))
	if err != nil {
		return nil, err
	}
	if uint64(n) < size {
		return nil, jioerr.Format(j.Name, "short hash table read at offset %d (%d of %d bytes)", offset, n, size)
	}

	le := binary.LittleEndian
	table := make([]HashItem, size/hashItemSize)
	for i := range table {
		off := i * hashItemSize
		table[i] = HashItem{
			HeadOffset: le.Uint64(buf[off : off+8]),
			TailOffset: le.Uint64(buf[off+8 : off+16]),
		}
	}
	return table, nil
}
