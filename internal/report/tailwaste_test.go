package report

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcaputo/jio/internal/journal"
)

func TestComputeTailWasteAndReclaimArchivedOnly(t *testing.T) {
	f := newFixture()
	o1 := f.appendObject(journal.TypeTag, 0, append(le64(1), le64(2)...))

	h := testHeader()
	h.State = journal.StateArchived
	h.TailObjectOffset = o1
	f.setHeader(h)
	j, path := f.writeAndOpen(t, "archived.journal")

	// Pad the file with trailing waste bytes beyond the tail object.
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = fh.Write(make([]byte, 512))
	require.NoError(t, fh.Close())
	require.NoError(t, err)

	gotHeader, err := journal.GetHeader(context.Background(), j)
	require.NoError(t, err)

	info, err := ComputeTailWaste(context.Background(), j, path, gotHeader)
	require.NoError(t, err)
	require.EqualValues(t, 512, info.Waste())
	require.True(t, info.Archived)

	reclaimed, ignored, reclaimedFiles, ignoredFiles, err := Reclaim([]TailInfo{info})
	require.NoError(t, err)
	require.EqualValues(t, 512, reclaimed)
	require.EqualValues(t, 0, ignored)
	require.Equal(t, 1, reclaimedFiles)
	require.Equal(t, 0, ignoredFiles)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, info.ReclaimableTo(), fi.Size())

	var out bytes.Buffer
	require.NoError(t, WriteReclaimSummary(&out, reclaimed, ignored, reclaimedFiles, ignoredFiles))
	require.Contains(t, out.String(), "Reclaimed 512.00 B from 1 journal files")
}

func TestReclaimIgnoresNonArchivedFiles(t *testing.T) {
	f := newFixture()
	o1 := f.appendObject(journal.TypeTag, 0, append(le64(1), le64(2)...))

	h := testHeader()
	h.State = journal.StateOnline
	h.TailObjectOffset = o1
	f.setHeader(h)
	j, path := f.writeAndOpen(t, "online.journal")

	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = fh.Write(make([]byte, 512))
	require.NoError(t, fh.Close())
	require.NoError(t, err)

	gotHeader, err := journal.GetHeader(context.Background(), j)
	require.NoError(t, err)
	info, err := ComputeTailWaste(context.Background(), j, path, gotHeader)
	require.NoError(t, err)
	require.False(t, info.Archived)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	reclaimed, ignored, reclaimedFiles, ignoredFiles, err := Reclaim([]TailInfo{info})
	require.NoError(t, err)
	require.EqualValues(t, 0, reclaimed)
	require.EqualValues(t, 512, ignored)
	require.Equal(t, 0, reclaimedFiles)
	require.Equal(t, 1, ignoredFiles)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}
