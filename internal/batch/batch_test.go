package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		items   int
		want    int
	}{
		{"default", 0, 100, DefaultWorkers},
		{"default capped by items", 0, 5, 5},
		{"serial", -1, 100, 1},
		{"fixed", 4, 100, 4},
		{"no items", 4, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewProcessor(WithWorkers(tt.workers))
			assert.Equal(t, tt.want, p.Workers(tt.items))
		})
	}
}

func TestRunCollectsFailures(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{-1, 3} {
		var calls, progress atomic.Int64
		p := NewProcessor(WithWorkers(workers), WithProgress(func(done, total int) {
			progress.Add(1)
			assert.LessOrEqual(t, done, total)
		}))
		items := []int{1, 2, 3, 4, 5, 6, 7}
		failed, err := Run(context.Background(), p, items, func(_ context.Context, item int) error {
			calls.Add(1)
			if item%3 == 0 {
				return errors.New("boom")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, failed, 2)
		assert.Equal(t, int64(len(items)), calls.Load())
		assert.Equal(t, int64(len(items)), progress.Load())
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{-1, 2} {
		var calls atomic.Int64
		_, err := Run(ctx, NewProcessor(WithWorkers(workers)), []int{1, 2, 3}, func(context.Context, int) error {
			calls.Add(1)
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls.Load())
	}
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink := NewFileSink(dir)
	assert.True(t, sink.ShouldProcess("config/system.ltx"))

	w, err := sink.Writer("config/system.ltx")
	require.NoError(t, err)
	_, err = w.Write([]byte("[section]"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "config", "system.ltx"))
	require.True(t, os.IsNotExist(err))
	require.NoError(t, w.Commit())

	data, err := os.ReadFile(filepath.Join(dir, "config", "system.ltx"))
	require.NoError(t, err)
	assert.Equal(t, "[section]", string(data))
	assert.False(t, sink.ShouldProcess("config/system.ltx"))
	assert.True(t, NewFileSink(dir, WithOverwrite(true)).ShouldProcess("config/system.ltx"))

	w, err = sink.Writer("config/discarded.ltx")
	require.NoError(t, err)
	require.NoError(t, w.Discard())
	entries, err := os.ReadDir(filepath.Join(dir, "config"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out.bin")
	require.NoError(t, WriteFile(path, []byte{1, 2, 3}))
	require.NoError(t, WriteFile(path, []byte{4}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, data)
}
