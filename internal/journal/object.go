package journal

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/vcaputo/jio/internal/jioerr"
)

// ObjectType tags the variant an ObjectHeader introduces (spec §3
// "ObjectHeader").
type ObjectType uint8

const (
	TypeUnused ObjectType = iota
	TypeData
	TypeField
	TypeEntry
	TypeDataHashTable
	TypeFieldHashTable
	TypeEntryArray
	TypeTag
	typeMax
)

func (t ObjectType) String() string {
	switch t {
	case TypeUnused:
		return "unused"
	case TypeData:
		return "data"
	case TypeField:
		return "field"
	case TypeEntry:
		return "entry"
	case TypeDataHashTable:
		return "data-hash-table"
	case TypeFieldHashTable:
		return "field-hash-table"
	case TypeEntryArray:
		return "entry-array"
	case TypeTag:
		return "tag"
	default:
		return "invalid"
	}
}

// Compression bits live in ObjectHeader.Flags, distinct from the
// header's IncompatibleFlags bit positions (spec §6.1).
const (
	CompressedXZ   uint8 = 1 << 0
	CompressedLZ4  uint8 = 1 << 1
	CompressedZstd uint8 = 1 << 2
)

// objectHeaderSize is sizeof(ObjectHeader): type, flags, 6 bytes of
// padding, then the 8-byte size field.
const objectHeaderSize = 16

// ObjectHeader is the 16-byte prefix every object begins with (spec §3
// "ObjectHeader").
type ObjectHeader struct {
	Type  ObjectType
	Flags uint8
	_     [6]byte // reserved
	Size  uint64
}

// HashItem is one bucket slot of a Data/Field hash table: {head, tail}
// offsets of that bucket's chain (spec §6.1).
type HashItem struct {
	HeadOffset uint64
	TailOffset uint64
}

// EntryItem is one (data-offset, hash) pair referenced from an Entry
// object (spec §3 "Entry").
type EntryItem struct {
	ObjectOffset uint64
	Hash         uint64
}

// HashedObjectHeader is the common prefix Data and Field objects share:
// object header, hash, next-in-chain offset (spec §3 "Invariant: hashed
// objects... share a common header prefix").
type HashedObjectHeader struct {
	Header         ObjectHeader
	Hash           uint64
	NextHashOffset uint64
}

// hashedObjectHeaderSize is sizeof(HashedObjectHeader): the 16-byte
// ObjectHeader plus two uint64 fields.
const hashedObjectHeaderSize = objectHeaderSize + 16

// DataObject is the Data variant: a hashed payload representing one
// key=value field occurrence (spec §3).
type DataObject struct {
	Hash             uint64
	NextHashOffset   uint64
	NextFieldOffset  uint64
	EntryOffset      uint64
	EntryArrayOffset uint64
	NEntries         uint64
	Payload          []byte
}

// FieldObject is the Field variant: a hashed payload representing a
// field name (spec §3).
type FieldObject struct {
	Hash           uint64
	NextHashOffset uint64
	HeadDataOffset uint64
	Payload        []byte
}

// EntryObject is one logged record (spec §3 "Entry").
type EntryObject struct {
	Seqnum    uint64
	Realtime  uint64
	Monotonic uint64
	BootID    [16]byte
	XorHash   uint64
	Items     []EntryItem
}

// HashTableObject is a Data or Field hash table: an array of bucket
// (head, tail) pairs (spec §3 "HashTable").
type HashTableObject struct {
	Buckets []HashItem
}

// EntryArrayObject holds a chunk of an entry's exponentially-growing
// offset chain (spec §3 "EntryArray", GLOSSARY "Entry array").
type EntryArrayObject struct {
	NextEntryArrayOffset uint64
	Items                []uint64
}

// TagObject is a sealing checkpoint (spec §3 "Tag").
type TagObject struct {
	Seqnum uint64
	Epoch  uint64
}

// Object is the decoded tagged union §3 calls "Object variants". Exactly
// one of the variant pointers is non-nil, selected by Header.Type.
type Object struct {
	Header ObjectHeader

	Data       *DataObject
	Field      *FieldObject
	Entry      *EntryObject
	HashTable  *HashTableObject
	EntryArray *EntryArrayObject
	Tag        *TagObject
}

// GetObjectHeader reads sizeof(ObjectHeader) at offset and normalizes it
// (spec §4.5 "get_object_header").
func GetObjectHeader(ctx context.Context, j *Journal, offset uint64) (ObjectHeader, error) {
	buf := make([]byte, objectHeaderSize)
	n, err := j.readAt(ctx, buf, int64(offset))
	if err != nil {
		return ObjectHeader{}, err
	}
	if n < objectHeaderSize {
		return ObjectHeader{}, jioerr.Format(j.Name, "short object header read at offset %d (%d of %d bytes)", offset, n, objectHeaderSize)
	}

	var oh ObjectHeader
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &oh); err != nil {
		return ObjectHeader{}, jioerr.Format(j.Name, "decoding object header at offset %d: %v", offset, err)
	}
	if oh.Size < objectHeaderSize && oh.Size != 0 {
		return ObjectHeader{}, jioerr.Format(j.Name, "object at offset %d has impossible size %d", offset, oh.Size)
	}
	return oh, nil
}

// GetObject reads oh.Size bytes at offset and decodes the variant named
// by oh.Type, normalizing every relevant field per spec §4.5's per-
// variant list. An unknown type is rejected with ErrFormat, mirroring
// the source's -EINVAL.
func GetObject(ctx context.Context, j *Journal, offset uint64, oh ObjectHeader) (Object, error) {
	buf := make([]byte, oh.Size)
	n, err := j.readAt(ctx, buf, int64(offset))
	if err != nil {
		return Object{}, err
	}
	if uint64(n) < oh.Size {
		return Object{}, jioerr.Format(j.Name, "short object read at offset %d (%d of %d bytes)", offset, n, oh.Size)
	}
	return decodeObject(j.Name, offset, oh, buf)
}

// GetObjectFull is the two-phase read: header first, then the complete
// object of exactly hdr.Size (spec §4.5 "get_object_full").
func GetObjectFull(ctx context.Context, j *Journal, offset uint64) (Object, error) {
	oh, err := GetObjectHeader(ctx, j, offset)
	if err != nil {
		return Object{}, err
	}
	return GetObject(ctx, j, offset, oh)
}

func decodeObject(name string, offset uint64, oh ObjectHeader, buf []byte) (Object, error) {
	obj := Object{Header: oh}
	body := buf[objectHeaderSize:]

	switch oh.Type {
	case TypeData:
		d, err := decodeData(body)
		if err != nil {
			return Object{}, jioerr.Format(name, "decoding data object at offset %d: %v", offset, err)
		}
		obj.Data = d
	case TypeField:
		f, err := decodeField(body)
		if err != nil {
			return Object{}, jioerr.Format(name, "decoding field object at offset %d: %v", offset, err)
		}
		obj.Field = f
	case TypeEntry:
		e, err := decodeEntry(body)
		if err != nil {
			return Object{}, jioerr.Format(name, "decoding entry object at offset %d: %v", offset, err)
		}
		obj.Entry = e
	case TypeDataHashTable, TypeFieldHashTable:
		ht, err := decodeHashTable(body)
		if err != nil {
			return Object{}, jioerr.Format(name, "decoding hash table object at offset %d: %v", offset, err)
		}
		obj.HashTable = ht
	case TypeEntryArray:
		ea, err := decodeEntryArray(body)
		if err != nil {
			return Object{}, jioerr.Format(name, "decoding entry array object at offset %d: %v", offset, err)
		}
		obj.EntryArray = ea
	case TypeTag:
		t, err := decodeTag(body)
		if err != nil {
			return Object{}, jioerr.Format(name, "decoding tag object at offset %d: %v", offset, err)
		}
		obj.Tag = t
	case TypeUnused:
		// carries no further normalized fields; its payload (if any) is opaque.
	default:
		return Object{}, jioerr.Format(name, "unknown object type %d at offset %d", uint8(oh.Type), offset)
	}

	return obj, nil
}

const (
	dataFixedSize  = 48 // hash, next-hash, next-field, entry, entry-array, n_entries
	fieldFixedSize = 24 // hash, next-hash, head-data
	entryFixedSize = 48 // seqnum, realtime, monotonic, boot-id[16], xor-hash
	entryItemSize  = 16
	tagFixedSize   = 16
	hashItemSize   = 16
)

func decodeData(body []byte) (*DataObject, error) {
	if len(body) < dataFixedSize {
		return nil, jioerr.ErrFormat
	}
	le := binary.LittleEndian
	d := &DataObject{
		Hash:             le.Uint64(body[0:8]),
		NextHashOffset:   le.Uint64(body[8:16]),
		NextFieldOffset:  le.Uint64(body[16:24]),
		EntryOffset:      le.Uint64(body[24:32]),
		EntryArrayOffset: le.Uint64(body[32:40]),
		NEntries:         le.Uint64(body[40:48]),
	}
	d.Payload = body[dataFixedSize:]
	return d, nil
}

func decodeField(body []byte) (*FieldObject, error) {
	if len(body) < fieldFixedSize {
		return nil, jioerr.ErrFormat
	}
	le := binary.LittleEndian
	f := &FieldObject{
		Hash:           le.Uint64(body[0:8]),
		NextHashOffset: le.Uint64(body[8:16]),
		HeadDataOffset: le.Uint64(body[16:24]),
	}
	f.Payload = body[fieldFixedSize:]
	return f, nil
}

func decodeEntry(body []byte) (*EntryObject, error) {
	if len(body) < entryFixedSize {
		return nil, jioerr.ErrFormat
	}
	le := binary.LittleEndian
	e := &EntryObject{
		Seqnum:    le.Uint64(body[0:8]),
		Realtime:  le.Uint64(body[8:16]),
		Monotonic: le.Uint64(body[16:24]),
		XorHash:   le.Uint64(body[40:48]),
	}
	copy(e.BootID[:], body[24:40])

	rest := body[entryFixedSize:]
	if len(rest)%entryItemSize != 0 {
		return nil, jioerr.ErrFormat
	}
	e.Items = make([]EntryItem, len(rest)/entryItemSize)
	for i := range e.Items {
		off := i * entryItemSize
		e.Items[i] = EntryItem{
			ObjectOffset: le.Uint64(rest[off : off+8]),
			Hash:         le.Uint64(rest[off+8 : off+16]),
		}
	}
	return e, nil
}

func decodeHashTable(body []byte) (*HashTableObject, error) {
	if len(body)%hashItemSize != 0 {
		return nil, jioerr.ErrFormat
	}
	le := binary.LittleEndian
	ht := &HashTableObject{Buckets: make([]HashItem, len(body)/hashItemSize)}
	for i := range ht.Buckets {
		off := i * hashItemSize
		ht.Buckets[i] = HashItem{
			HeadOffset: le.Uint64(body[off : off+8]),
			TailOffset: le.Uint64(body[off+8 : off+16]),
		}
	}
	return ht, nil
}

func decodeEntryArray(body []byte) (*EntryArrayObject, error) {
	if len(body) < 8 {
		return nil, jioerr.ErrFormat
	}
	le := binary.LittleEndian
	ea := &EntryArrayObject{NextEntryArrayOffset: le.Uint64(body[0:8])}
	rest := body[8:]
	if len(rest)%8 != 0 {
		return nil, jioerr.ErrFormat
	}
	ea.Items = make([]uint64, len(rest)/8)
	for i := range ea.Items {
		ea.Items[i] = le.Uint64(rest[i*8 : i*8+8])
	}
	return ea, nil
}

func decodeTag(body []byte) (*TagObject, error) {
	if len(body) < tagFixedSize {
		return nil, jioerr.ErrFormat
	}
	le := binary.LittleEndian
	return &TagObject{
		Seqnum: le.Uint64(body[0:8]),
		Epoch:  le.Uint64(body[8:16]),
	}, nil
}

// alignUp8 rounds n up to the next multiple of 8, matching the format's
// object alignment requirement (spec §3, §4.5 "align_up_8").
func alignUp8(n uint64) uint64 {
	return (n + 7) &^ 7
}
