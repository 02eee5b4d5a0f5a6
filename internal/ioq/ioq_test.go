package ioq

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineReadAtShortReadAtEOF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	eng := New(4)
	buf := make([]byte, 16)
	n, err := eng.ReadAt(context.Background(), f, buf, 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(buf[:n]))
}

func TestEngineBoundsConcurrency(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	eng := New(2)
	var inFlight, maxInFlight int64

	tasks := make([]func(context.Context) error, 8)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			if err := eng.acquire(ctx); err != nil {
				return err
			}
			defer eng.release()

			cur := atomic.AddInt64(&inFlight, 1)
			for {
				m := atomic.LoadInt64(&maxInFlight)
				if cur <= m || atomic.CompareAndSwapInt64(&maxInFlight, m, cur) {
					break
				}
			}
			buf := make([]byte, 128)
			_, err := f.ReadAt(buf, 0)
			atomic.AddInt64(&inFlight, -1)
			return err
		}
	}

	require.NoError(t, Run(context.Background(), tasks...))
	require.LessOrEqual(t, atomic.LoadInt64(&maxInFlight), int64(2))
}

func TestRunSurfacesFirstError(t *testing.T) {
	boom := context.Canceled
	err := Run(context.Background(),
		func(context.Context) error { return nil },
		func(context.Context) error { return boom },
	)
	require.ErrorIs(t, err, boom)
}

func TestResizeOnlyGrows(t *testing.T) {
	eng := New(4)
	eng.Resize(2)
	require.Equal(t, 4, cap(eng.sem))
	eng.Resize(8)
	require.Equal(t, 8, cap(eng.sem))
}
