package journal

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcaputo/jio/internal/ioq"
)

// testBuilder assembles a synthetic journal file byte-for-byte, used
// across this package's tests in place of checked-in binary fixtures.
type testBuilder struct {
	buf bytes.Buffer
}

func newTestBuilder() *testBuilder {
	b := &testBuilder{}
	b.buf.Write(make([]byte, headerSize))
	return b
}

func (b *testBuilder) setHeader(h Header) {
	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, h); err != nil {
		panic(err)
	}
	copy(b.buf.Bytes(), out.Bytes())
}

// appendObject writes an 8-byte-aligned object at the buffer's current
// end and returns its offset.
func (b *testBuilder) appendObject(typ ObjectType, flags uint8, body []byte) uint64 {
	for b.buf.Len()%8 != 0 {
		b.buf.WriteByte(0)
	}
	offset := uint64(b.buf.Len())

	size := uint64(objectHeaderSize + len(body))
	oh := ObjectHeader{Type: typ, Flags: flags, Size: size}
	if err := binary.Write(&b.buf, binary.LittleEndian, oh); err != nil {
		panic(err)
	}
	b.buf.Write(body)
	return offset
}

func (b *testBuilder) writeTo(t *testing.T, path string) {
	require.NoError(t, os.WriteFile(path, b.buf.Bytes(), 0o644))
}

// openTestJournal opens a file at path through a real ioq.Engine and
// ReadCache, the same path production code uses.
func openTestJournal(t *testing.T, path string) *Journal {
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	return &Journal{
		Name:  filepath.Base(path),
		file:  f,
		eng:   ioq.New(4),
		cache: NewReadCache(),
	}
}

// writeObjectHeaderRaw writes just an ObjectHeader with no body,
// letting tests construct a degenerate (e.g. zero-sized) object that
// appendObject's non-zero-size invariant can't express.
func writeObjectHeaderRaw(buf *bytes.Buffer, oh ObjectHeader) error {
	for buf.Len()%8 != 0 {
		buf.WriteByte(0)
	}
	return binary.Write(buf, binary.LittleEndian, oh)
}

func le64(n uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, n)
	return buf
}

func ctx() context.Context { return context.Background() }
