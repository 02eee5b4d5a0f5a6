package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcaputo/jio/internal/journal"
)

func entryArrayBody(items ...uint64) []byte {
	body := le64(0) // next entry array offset
	for _, it := range items {
		body = append(body, le64(it)...)
	}
	return body
}

func TestComputeEntryArrayStatsDedupsIdenticalItemLists(t *testing.T) {
	f := newFixture()
	f.appendObject(journal.TypeEntryArray, 0, entryArrayBody(10, 20))
	o2 := f.appendObject(journal.TypeEntryArray, 0, entryArrayBody(10, 20)) // duplicate content
	o3 := f.appendObject(journal.TypeEntryArray, 0, entryArrayBody(30, 40, 50, 60))

	h := testHeader()
	h.TailObjectOffset = o3
	f.setHeader(h)
	j, _ := f.writeAndOpen(t, "system.journal")
	_ = o2

	gotHeader, err := journal.GetHeader(context.Background(), j)
	require.NoError(t, err)

	stats, err := ComputeEntryArrayStats(context.Background(), j, gotHeader)
	require.NoError(t, err)

	b2 := stats.Buckets[1] // log2(2 items) == 1
	require.NotNil(t, b2)
	require.EqualValues(t, 2, b2.TotalCount)
	require.EqualValues(t, 1, b2.UniqueCount)

	b4 := stats.Buckets[2] // log2(4 items) == 2
	require.NotNil(t, b4)
	require.EqualValues(t, 1, b4.TotalCount)
	require.EqualValues(t, 1, b4.UniqueCount)

	var out bytes.Buffer
	require.NoError(t, WriteEntryArrayStats(&out, stats))
	require.Contains(t, out.String(), "unique")
}
