package report

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcaputo/jio/internal/ioq"
	"github.com/vcaputo/jio/internal/journal"
)

// journalFixture assembles a synthetic journal file from outside the
// journal package, using only its exported types, the way a real
// consumer (this package) would have to.
type journalFixture struct {
	buf bytes.Buffer
}

func newFixture() *journalFixture {
	f := &journalFixture{}
	f.buf.Write(make([]byte, 256)) // journal.Header is always read as a fixed 256-byte block
	return f
}

func (f *journalFixture) setHeader(h journal.Header) {
	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, h); err != nil {
		panic(err)
	}
	copy(f.buf.Bytes(), out.Bytes())
}

func (f *journalFixture) appendObject(typ journal.ObjectType, flags uint8, body []byte) uint64 {
	for f.buf.Len()%8 != 0 {
		f.buf.WriteByte(0)
	}
	offset := uint64(f.buf.Len())
	oh := journal.ObjectHeader{Type: typ, Flags: flags, Size: uint64(16 + len(body))}
	if err := binary.Write(&f.buf, binary.LittleEndian, oh); err != nil {
		panic(err)
	}
	f.buf.Write(body)
	return offset
}

func (f *journalFixture) writeAndOpen(t *testing.T, name string) (*journal.Journal, string) {
	root := t.TempDir()
	hostDir := filepath.Join(root, "hostid")
	require.NoError(t, os.Mkdir(hostDir, 0o755))
	path := filepath.Join(hostDir, name)
	require.NoError(t, os.WriteFile(path, f.buf.Bytes(), 0o644))

	eng := ioq.New(2)
	set, err := journal.OpenJournalSet(context.Background(), eng, root, "hostid")
	require.NoError(t, err)
	t.Cleanup(func() { set.Close() })
	require.Len(t, set.Journals, 1)

	return set.Journals[0], path
}

func testHeader() journal.Header {
	var h journal.Header
	h.Signature = journal.Signature
	h.State = journal.StateArchived
	h.HeaderSize = 256
	h.TailObjectOffset = 256
	return h
}

func le64(n uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, n)
	return buf
}
