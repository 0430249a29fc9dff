package chunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/chunk"
)

type point struct {
	Index uint16
	Name  string
}

func (p *point) Read(r *chunk.Reader) error {
	var err error
	if p.Index, err = r.ReadU16(); err != nil {
		return err
	}
	p.Name, err = r.ReadString()
	return err
}

func (p *point) Write(w *chunk.Writer) error {
	if err := w.WriteU16(p.Index); err != nil {
		return err
	}
	return w.WriteString(p.Name)
}

func TestListRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []point
		size  int
	}{
		{"empty list keeps its count", []point{}, 4},
		{"two items", []point{{1, "a"}, {2, "bc"}}, 4 + 4 + 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := chunk.NewWriter(le)
			require.NoError(t, chunk.WriteList(w, tt.items))
			assert.Equal(t, tt.size, w.BytesWritten())

			r := chunk.NewReader(w.FlushRawIntoBuffer(), le)
			got, err := chunk.ReadList[point](r)
			require.NoError(t, err)
			assert.Equal(t, tt.items, got)
			assert.True(t, r.IsEnded())
		})
	}
}

func TestListCountBeyondData(t *testing.T) {
	t.Parallel()

	_, err := chunk.ReadList[point](chunk.NewReader([]byte{3, 0, 0, 0, 1, 0, 'a', 0}, le))
	require.ErrorIs(t, err, chunk.ErrIO)
}

func TestOptionalRoundTrip(t *testing.T) {
	t.Parallel()

	w := chunk.NewWriter(le)
	require.NoError(t, chunk.WriteOptional(w, &point{Index: 7, Name: "x"}))
	require.NoError(t, chunk.WriteOptional[point](w, nil))
	assert.Equal(t, 1+2+2+1, w.BytesWritten())

	r := chunk.NewReader(w.FlushRawIntoBuffer(), le)
	some, err := chunk.ReadOptional[point](r)
	require.NoError(t, err)
	require.NotNil(t, some)
	assert.Equal(t, point{Index: 7, Name: "x"}, *some)

	none, err := chunk.ReadOptional[point](r)
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.True(t, r.IsEnded())
}

func TestU16Vector(t *testing.T) {
	t.Parallel()

	w := chunk.NewWriter(le)
	require.NoError(t, w.WriteU16Vector([]uint16{1, 65535}))
	require.NoError(t, w.WriteU16Vector(nil))

	r := chunk.NewReader(w.FlushRawIntoBuffer(), le)
	first, err := r.ReadU16Vector()
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 65535}, first)
	second, err := r.ReadU16Vector()
	require.NoError(t, err)
	assert.Empty(t, second)

	_, err = chunk.NewReader([]byte{9, 0, 0, 0, 1, 0}, le).ReadU16Vector()
	require.ErrorIs(t, err, chunk.ErrParse)
}

func TestStringList(t *testing.T) {
	t.Parallel()

	w := chunk.NewWriter(le)
	require.NoError(t, w.WriteStrings([]string{"a", "бб"}))
	got, err := chunk.NewReader(w.FlushRawIntoBuffer(), le).ReadStrings()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "бб"}, got)
}
