package chunk_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/testutil"
)

var le = binary.LittleEndian

func TestReadChildrenStopsAtGap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		want  []uint32
	}{
		{
			name: "contiguous",
			input: testutil.Concat(
				[]byte{0, 0, 0, 0, 4, 0, 0, 0, 1, 2, 3, 4},
				[]byte{1, 0, 0, 0, 2, 0, 0, 0, 5, 6},
			),
			want: []uint32{0, 1},
		},
		{
			name: "gap",
			input: testutil.Concat(
				[]byte{0, 0, 0, 0, 4, 0, 0, 0, 1, 2, 3, 4},
				[]byte{2, 0, 0, 0, 2, 0, 0, 0, 5, 6},
			),
			want: []uint32{0},
		},
		{
			name:  "first id not zero",
			input: []byte{1, 0, 0, 0, 0, 0, 0, 0},
			want:  nil,
		},
		{
			name:  "trailing garbage shorter than header",
			input: testutil.Concat(testutil.Chunk(le, 0, []byte{9}), []byte{1, 2, 3}),
			want:  []uint32{0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			children, err := chunk.NewReader(tt.input, le).ReadChildren()
			require.NoError(t, err)

			var ids []uint32
			for _, c := range children {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestReadAllChildrenIgnoresIDs(t *testing.T) {
	t.Parallel()

	data := testutil.Concat(
		testutil.Chunk(le, 1, []byte{1}),
		testutil.Chunk(le, 3, []byte{3, 3}),
		testutil.Chunk(le, 4, nil),
	)
	children, err := chunk.NewReader(data, le).ReadAllChildren()
	require.NoError(t, err)
	require.Len(t, children, 3)

	assert.Equal(t, uint32(3), children[1].ID)
	assert.Equal(t, uint64(2), children[1].Size)
	assert.Equal(t, uint64(8+1+8), children[1].Position)
	assert.Equal(t, []byte{3, 3}, children[1].Bytes())
	assert.Equal(t, uint64(0), children[2].Size)
}

func TestReadChildOverrunsParent(t *testing.T) {
	t.Parallel()

	data := []byte{0, 0, 0, 0, 10, 0, 0, 0, 1, 2}
	_, err := chunk.NewReader(data, le).ReadAllChildren()
	require.ErrorIs(t, err, chunk.ErrIO)
}

func TestNestedPositionsAreAbsolute(t *testing.T) {
	t.Parallel()

	inner := testutil.Chunk(le, 0, []byte{7, 7})
	data := testutil.Concat(testutil.Chunk(le, 5, nil), testutil.Chunk(le, 6, inner))

	root, err := chunk.NewReader(data, le).ReadAllChildren()
	require.NoError(t, err)
	outer, err := chunk.FindRequired(root, 6)
	require.NoError(t, err)

	children, err := outer.Reader().ReadChildren()
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, uint64(8+8+8), children[0].Position)
	assert.Equal(t, data[24:26], children[0].Bytes())
}

func TestReadChildByIndex(t *testing.T) {
	t.Parallel()

	data := testutil.Concat(
		testutil.Chunk(le, 7, testutil.CString("name")),
		testutil.Chunk(le, 9, testutil.U32(le, 42)),
	)
	r := chunk.NewReader(data, le)

	second, err := r.ReadChildByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), second.ID)
	assert.True(t, r.IsEnded())

	first, err := r.ReadChildByIndex(0)
	require.NoError(t, err)
	name, err := first.Reader().ReadStringChunk()
	require.NoError(t, err)
	assert.Equal(t, "name", name)
	assert.True(t, r.IsEnded(), "cursor never moves backwards")

	_, err = r.ReadChildByIndex(2)
	require.ErrorIs(t, err, chunk.ErrNotFound)
}

func TestReadSizePacked(t *testing.T) {
	t.Parallel()

	data := testutil.Concat(
		testutil.U32(le, 4+3), []byte{1, 2, 3},
		testutil.U32(le, 4), // empty record
		testutil.U32(le, 4+1), []byte{9},
	)
	records, err := chunk.NewReader(data, le).ReadSizePacked()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []uint32{0, 1, 2}, []uint32{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(t, []byte{1, 2, 3}, records[0].Bytes())
	assert.Empty(t, records[1].Bytes())
	assert.Equal(t, uint64(15), records[2].Position)

	_, err = chunk.NewReader(testutil.U32(le, 2), le).ReadSizePacked()
	require.ErrorIs(t, err, chunk.ErrParse)
}

func TestExactFitHelpers(t *testing.T) {
	t.Parallel()

	t.Run("u32 with trailing bytes", func(t *testing.T) {
		t.Parallel()

		_, err := chunk.NewReader([]byte{1, 0, 0, 0, 0xAA, 0xBB}, le).ReadU32Chunk()
		var notEnded *chunk.NotEndedError
		require.ErrorAs(t, err, &notEnded)
		assert.Equal(t, int64(2), notEnded.Remaining)
		assert.ErrorIs(t, err, chunk.ErrChunkNotEnded)
	})

	t.Run("u16 too short", func(t *testing.T) {
		t.Parallel()

		_, err := chunk.NewReader([]byte{1}, le).ReadU16Chunk()
		var notEnded *chunk.NotEndedError
		require.ErrorAs(t, err, &notEnded)
		assert.Equal(t, int64(-1), notEnded.Remaining)
	})

	t.Run("exact values", func(t *testing.T) {
		t.Parallel()

		v32, err := chunk.NewReader(testutil.U32(le, 77), le).ReadU32Chunk()
		require.NoError(t, err)
		assert.Equal(t, uint32(77), v32)

		f, err := chunk.NewReader(testutil.F32(le, 1.5), le).ReadF32Chunk()
		require.NoError(t, err)
		assert.InDelta(t, 1.5, f, 0)

		vec, err := chunk.NewReader(testutil.Concat(
			testutil.F32(le, 1), testutil.F32(le, 2), testutil.F32(le, 3),
		), le).ReadF32VectorChunk()
		require.NoError(t, err)
		assert.Equal(t, [3]float32{1, 2, 3}, vec)
	})
}

func TestPrimitiveByteOrders(t *testing.T) {
	t.Parallel()

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			t.Parallel()

			guid := [16]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}
			w := chunk.NewWriter(order)
			require.NoError(t, w.WriteU8(0xFE))
			require.NoError(t, w.WriteU16(0xBEEF))
			require.NoError(t, w.WriteU24(0x123456))
			require.NoError(t, w.WriteU32(0xDEADBEEF))
			require.NoError(t, w.WriteI32(-5))
			require.NoError(t, w.WriteU64(1<<40+3))
			require.NoError(t, w.WriteF32(-2.25))
			require.NoError(t, w.WriteU128(guid))
			require.NoError(t, w.WriteString("абв"))
			assert.Equal(t, 1+2+3+4+4+8+4+16+4, w.BytesWritten())

			r := chunk.NewReader(w.FlushRawIntoBuffer(), order)
			u8, _ := r.ReadU8()
			u16, _ := r.ReadU16()
			u24, _ := r.ReadU24()
			u32, _ := r.ReadU32()
			i32, _ := r.ReadI32()
			u64, _ := r.ReadU64()
			f32, _ := r.ReadF32()
			u128, _ := r.ReadU128()
			s, err := r.ReadString()
			require.NoError(t, err)

			assert.Equal(t, uint8(0xFE), u8)
			assert.Equal(t, uint16(0xBEEF), u16)
			assert.Equal(t, uint32(0x123456), u24)
			assert.Equal(t, uint32(0xDEADBEEF), u32)
			assert.Equal(t, int32(-5), i32)
			assert.Equal(t, uint64(1<<40+3), u64)
			assert.InDelta(t, -2.25, f32, 0)
			assert.Equal(t, guid, u128)
			assert.Equal(t, "абв", s)
			assert.True(t, r.IsEnded())
		})
	}
}

func TestU128LittleEndianLayout(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 16)
	raw[0] = 0x01 // least significant byte first
	v, err := chunk.NewReader(raw, le).ReadU128()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), v[15])
}

func TestShortReadIsIOError(t *testing.T) {
	t.Parallel()

	_, err := chunk.NewReader([]byte{1, 2}, le).ReadU32()
	require.ErrorIs(t, err, chunk.ErrIO)
}

func TestStrings(t *testing.T) {
	t.Parallel()

	t.Run("writer appends one terminator", func(t *testing.T) {
		t.Parallel()

		w := chunk.NewWriter(le)
		require.NoError(t, w.WriteString(""))
		require.NoError(t, w.WriteString("ab"))
		assert.Equal(t, []byte{0, 'a', 'b', 0}, w.Bytes())
	})

	t.Run("cursor lands past terminator", func(t *testing.T) {
		t.Parallel()

		r := chunk.NewReader([]byte{'x', 0, 'y', 0}, le)
		first, err := r.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "x", first)
		assert.Equal(t, 2, r.Pos())
	})

	t.Run("windows-1251 bytes", func(t *testing.T) {
		t.Parallel()

		w := chunk.NewWriter(le)
		require.NoError(t, w.WriteString("Зона"))
		assert.Equal(t, []byte{0xC7, 0xEE, 0xED, 0xE0, 0}, w.Bytes())
	})

	t.Run("unterminated", func(t *testing.T) {
		t.Parallel()

		_, err := chunk.NewReader([]byte("abc"), le).ReadString()
		require.ErrorIs(t, err, chunk.ErrParse)
	})

	t.Run("unencodable", func(t *testing.T) {
		t.Parallel()

		err := chunk.NewWriter(le).WriteString("日本")
		require.ErrorIs(t, err, chunk.ErrEncoding)
	})

	t.Run("embedded zero byte", func(t *testing.T) {
		t.Parallel()

		w := chunk.NewWriter(le)
		err := w.WriteString("a\x00b")
		require.ErrorIs(t, err, chunk.ErrEncoding)
		assert.Zero(t, w.BytesWritten())

		require.NoError(t, w.WriteString("ab"))
		require.NoError(t, w.WriteU32(7))
		r := chunk.NewReader(w.Bytes(), le)
		s, err := r.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "ab", s)
		v, err := r.ReadU32()
		require.NoError(t, err)
		assert.Equal(t, uint32(7), v)
	})

	t.Run("line breaks in lines", func(t *testing.T) {
		t.Parallel()

		for _, line := range []string{"a\r\nb", "a\rb", "a\nb"} {
			w := chunk.NewWriter(le)
			require.ErrorIs(t, w.WriteStringLine(line), chunk.ErrEncoding, line)
			assert.Zero(t, w.BytesWritten(), line)
		}
	})

	t.Run("lines", func(t *testing.T) {
		t.Parallel()

		w := chunk.NewWriter(le)
		require.NoError(t, w.WriteStringLine("mark"))
		r := chunk.NewReader(w.FlushRawIntoBuffer(), le)
		line, err := r.ReadStringLine()
		require.NoError(t, err)
		assert.Equal(t, "mark", line)
		assert.True(t, r.IsEnded())
	})
}

func TestWriterFlush(t *testing.T) {
	t.Parallel()

	w := chunk.NewWriter(le)
	require.NoError(t, w.WriteU32(5))

	framed, err := w.FlushChunkIntoBuffer(3)
	require.NoError(t, err)
	assert.Equal(t, testutil.Chunk(le, 3, testutil.U32(le, 5)), framed)
	assert.Zero(t, w.BytesWritten(), "flush consumes the payload")

	require.NoError(t, w.WriteU16(1))
	var dst bytes.Buffer
	n, err := w.FlushChunkInto(&dst, 9)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, testutil.Chunk(le, 9, testutil.U16(le, 1)), dst.Bytes())
}

func TestLookups(t *testing.T) {
	t.Parallel()

	data := testutil.Concat(
		testutil.Chunk(le, 1, nil),
		testutil.Chunk(le, 19, []byte{1}),
	)
	children, err := chunk.NewReader(data, le).ReadAllChildren()
	require.NoError(t, err)

	_, err = chunk.FindRequired(children, 2)
	var notFound *chunk.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []uint32{2}, notFound.IDs)

	_, ok := chunk.FindOptional(children, 2)
	assert.False(t, ok)

	id, c, err := chunk.FindOneOfRequired(children, 24, 19)
	require.NoError(t, err)
	assert.Equal(t, uint32(19), id)
	assert.Equal(t, []byte{1}, c.Bytes())

	_, _, err = chunk.FindOneOfRequired(children, 24, 25)
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []uint32{24, 25}, notFound.IDs)

	err = chunk.RequireIDs("root", children, 1, 19, 20)
	require.ErrorIs(t, err, chunk.ErrNotFound)
	err = chunk.RequireIDs("root", children, 1)
	require.ErrorIs(t, err, chunk.ErrParse)
	require.NoError(t, chunk.RequireIDs("root", children, 1, 19))
}

func TestErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	err := chunk.Expect("count", 5, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, chunk.ErrParse))
	assert.Contains(t, err.Error(), "expected 5, got 4")
	assert.NoError(t, chunk.Expect("count", 1, 1))
}
