// Package journal is the journal access engine: file-handle registry,
// per-file read cache, header/object decoder, and the sequential and
// hash-chain iterators built on top of it (spec §4.3–§4.6). It is the
// one package allowed to know the on-disk layout described in spec §3
// and §6.1; everything above it (internal/report, cmd) only calls its
// exported contract.
package journal

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/vcaputo/jio/internal/jioerr"
)

// Signature is the fixed 8-byte magic every journal file begins with.
var Signature = [8]byte{'L', 'P', 'K', 'S', 'H', 'H', 'R', 'H'}

// State is the journal's lifecycle state, stored as a single byte in
// the header.
type State uint8

const (
	StateOffline State = iota
	StateOnline
	StateArchived
)

func (s State) String() string {
	switch s {
	case StateOffline:
		return "OFFLINE"
	case StateOnline:
		return "ONLINE"
	case StateArchived:
		return "ARCHIVED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

// Incompatible feature flag bits (header.IncompatibleFlags).
const (
	IncompatibleCompressedXZ   uint32 = 1 << 0
	IncompatibleCompressedLZ4  uint32 = 1 << 1
	IncompatibleKeyedHash      uint32 = 1 << 2
	IncompatibleCompressedZstd uint32 = 1 << 3
	IncompatibleCompact        uint32 = 1 << 4
)

// Header is the decoded file header (spec §3 "Header"). Field order
// matches the on-disk layout exactly; encoding/binary.Read walks fields
// in declared order regardless of Go's own in-memory alignment, so this
// struct need not mirror C struct packing beyond its blank-identifier
// padding fields, which encoding/binary treats as skip-on-read bytes.
type Header struct {
	Signature         [8]byte
	CompatibleFlags   uint32
	IncompatibleFlags uint32
	State             State
	_                 [7]byte // reserved

	FileID          [16]byte
	MachineID       [16]byte
	TailEntryBootID [16]byte
	SeqnumID        [16]byte

	HeaderSize uint64
	ArenaSize  uint64

	DataHashTableOffset  uint64
	DataHashTableSize    uint64
	FieldHashTableOffset uint64
	FieldHashTableSize   uint64

	TailObjectOffset uint64

	NObjects uint64
	NEntries uint64

	TailEntrySeqnum uint64
	HeadEntrySeqnum uint64

	EntryArrayOffset uint64

	HeadEntryRealtime  uint64
	TailEntryRealtime  uint64
	TailEntryMonotonic uint64

	// The remaining counters were added to the format well after the
	// fields above; every journal file this tool is likely to encounter
	// carries them, since they predate this tool by many years (spec §3
	// lists them as ordinary Header attributes, not optional ones).
	NData    uint64
	NFields  uint64
	NTags    uint64
	NEntryArrays uint64

	DataHashChainDepth  uint64
	FieldHashChainDepth uint64
}

// headerSize is the number of on-disk bytes GetHeader reads — spec
// §4.5 calls this "0..sizeof(Header)".
const headerSize = 256

// GetHeader reads and normalizes the file header (spec §4.5
// "get_header"). It always reads exactly headerSize bytes starting at
// offset 0, matching the source's fixed read rather than sizing the
// read off the file's own (self-referential) header_size field.
func GetHeader(ctx context.Context, j *Journal) (Header, error) {
	buf := make([]byte, headerSize)
	n, err := j.readAt(ctx, buf, 0)
	if err != nil {
		return Header{}, err
	}
	if n < headerSize {
		return Header{}, jioerr.Format(j.Name, "short header read (%d of %d bytes)", n, headerSize)
	}

	var h Header
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &h); err != nil {
		return Header{}, jioerr.Format(j.Name, "decoding header: %v", err)
	}
	if h.Signature != Signature {
		return Header{}, jioerr.Format(j.Name, "bad signature %x", h.Signature)
	}

	return h, nil
}
