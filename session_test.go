package xrf_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	var s xrf.Session[string]
	_, ok := s.Current()
	assert.False(t, ok)

	prev, had := s.Open("all.spawn")
	assert.False(t, had)
	assert.Empty(t, prev)

	prev, had = s.Open("other.spawn")
	assert.True(t, had)
	assert.Equal(t, "all.spawn", prev)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "other.spawn", cur)

	closed, had := s.Close()
	assert.True(t, had)
	assert.Equal(t, "other.spawn", closed)
	_, ok = s.Current()
	assert.False(t, ok)

	_, had = s.Close()
	assert.False(t, had)
}

func TestSessionWith(t *testing.T) {
	t.Parallel()

	var s xrf.Session[*int]
	err := s.With(func(*int) error { return nil })
	require.ErrorIs(t, err, xrf.ErrNotOpen)

	s.Open(new(int))
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.With(func(n *int) error { //nolint:errcheck // fn never fails
				*n++
				return nil
			})
		}()
	}
	wg.Wait()

	n, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 64, *n)

	boom := errors.New("boom")
	require.ErrorIs(t, s.With(func(*int) error { return boom }), boom)
}
