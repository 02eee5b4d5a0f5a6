package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetObjectHeaderAndGetObjectData(t *testing.T) {
	b := newTestBuilder()
	payload := []byte("MESSAGE=hello world")
	body := append([]byte{}, le64(1111)...)    // hash
	body = append(body, le64(0)...)            // next hash
	body = append(body, le64(0)...)            // next field
	body = append(body, le64(0)...)            // entry offset
	body = append(body, le64(0)...)            // entry array offset
	body = append(body, le64(1)...)            // n entries
	body = append(body, payload...)
	offset := b.appendObject(TypeData, 0, body)

	h := testHeader()
	h.TailObjectOffset = offset
	b.setHeader(h)

	path := filepath.Join(t.TempDir(), "system.journal")
	b.writeTo(t, path)
	j := openTestJournal(t, path)

	oh, err := GetObjectHeader(ctx(), j, offset)
	require.NoError(t, err)
	require.Equal(t, TypeData, oh.Type)
	require.EqualValues(t, objectHeaderSize+len(body), oh.Size)

	full, err := GetObjectFull(ctx(), j, offset)
	require.NoError(t, err)
	require.NotNil(t, full.Data)
	require.EqualValues(t, 1111, full.Data.Hash)
	require.EqualValues(t, 1, full.Data.NEntries)
	require.Equal(t, payload, full.Data.Payload)

	viaGetObject, err := GetObject(ctx(), j, offset, oh)
	require.NoError(t, err)
	require.Equal(t, full, viaGetObject)
}

func TestGetObjectUnknownTypeRejected(t *testing.T) {
	b := newTestBuilder()
	offset := b.appendObject(ObjectType(99), 0, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	h := testHeader()
	h.TailObjectOffset = offset
	b.setHeader(h)

	path := filepath.Join(t.TempDir(), "system.journal")
	b.writeTo(t, path)
	j := openTestJournal(t, path)

	oh, err := GetObjectHeader(ctx(), j, offset)
	require.NoError(t, err)

	_, err = GetObject(ctx(), j, offset, oh)
	require.Error(t, err)
}

func TestGetObjectEntryArrayAndHashTable(t *testing.T) {
	b := newTestBuilder()

	eaBody := append([]byte{}, le64(0)...) // next entry array offset
	eaBody = append(eaBody, le64(256)...)
	eaBody = append(eaBody, le64(512)...)
	eaOffset := b.appendObject(TypeEntryArray, 0, eaBody)

	htBody := append([]byte{}, le64(100)...) // bucket 0 head
	htBody = append(htBody, le64(200)...)     // bucket 0 tail
	htBody = append(htBody, le64(0)...)       // bucket 1 head
	htBody = append(htBody, le64(0)...)       // bucket 1 tail
	htOffset := b.appendObject(TypeDataHashTable, 0, htBody)

	h := testHeader()
	h.TailObjectOffset = htOffset
	b.setHeader(h)

	path := filepath.Join(t.TempDir(), "system.journal")
	b.writeTo(t, path)
	j := openTestJournal(t, path)

	ea, err := GetObjectFull(ctx(), j, eaOffset)
	require.NoError(t, err)
	require.NotNil(t, ea.EntryArray)
	require.Equal(t, []uint64{256, 512}, ea.EntryArray.Items)

	ht, err := GetObjectFull(ctx(), j, htOffset)
	require.NoError(t, err)
	require.NotNil(t, ht.HashTable)
	require.Len(t, ht.HashTable.Buckets, 2)
	require.Equal(t, HashItem{HeadOffset: 100, TailOffset: 200}, ht.HashTable.Buckets[0])
	require.Equal(t, HashItem{HeadOffset: 0, TailOffset: 0}, ht.HashTable.Buckets[1])
}

func TestAlignUp8(t *testing.T) {
	require.EqualValues(t, 0, alignUp8(0))
	require.EqualValues(t, 8, alignUp8(1))
	require.EqualValues(t, 8, alignUp8(8))
	require.EqualValues(t, 16, alignUp8(9))
}
