package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcaputo/jio/internal/journal"
)

func TestComputeUsageTalliesPerType(t *testing.T) {
	f := newFixture()
	f.appendObject(journal.TypeTag, 0, append(le64(1), le64(2)...))
	o2 := f.appendObject(journal.TypeTag, 0, append(le64(3), le64(4)...))
	f.appendObject(journal.TypeEntryArray, 0, append(le64(0), le64(100)...))

	h := testHeader()
	h.TailObjectOffset = o2
	f.setHeader(h)
	j, _ := f.writeAndOpen(t, "system.journal")

	gotHeader, err := journal.GetHeader(context.Background(), j)
	require.NoError(t, err)

	u, err := ComputeUsage(context.Background(), j, gotHeader)
	require.NoError(t, err)
	require.EqualValues(t, 2, u.ByType[journal.TypeTag].Count)
	require.EqualValues(t, 2, u.Total.Count)

	var out bytes.Buffer
	require.NoError(t, WriteUsage(&out, u))
	require.Contains(t, out.String(), "total")
}
