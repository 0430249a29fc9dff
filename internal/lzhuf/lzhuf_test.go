package lzhuf

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	noise := make([]byte, 40_000)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range noise {
		noise[i] = byte(rng.IntN(256))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"single byte", []byte{'x'}},
		{"header ltx", []byte("[header]\r\nauto_load = true\r\nlevel_name = single\r\nentry_point = $fs_root$\\gamedata\\\r\n")},
		{"long run", bytes.Repeat([]byte{'a'}, 5000)},
		{"repeated phrase", bytes.Repeat([]byte("meshes\\dynamics\\weapons\\wpn_ak74\\"), 400)},
		{"noise", noise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encoded := Encode(tt.data)
			got, err := Decode(encoded, len(tt.data))
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), len(got))
			assert.True(t, bytes.Equal(tt.data, got))
		})
	}
}

func TestEncodeCompressesRepetition(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("section_"), 1000)
	assert.Less(t, len(Encode(data)), len(data)/10)
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	_, err := Decode(nil, 100)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeRejectsImpossibleSize(t *testing.T) {
	t.Parallel()

	encoded := Encode([]byte("[header]\r\n"))
	tests := []struct {
		name string
		size int
	}{
		{"negative", -1},
		{"u32 max", 0xFFFFFFFF},
		{"beyond expansion", (len(encoded)+overrunLimit)*maxExpansion + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(encoded, tt.size)
			require.ErrorIs(t, err, ErrCorrupt)
			assert.Nil(t, got)
		})
	}

	data := bytes.Repeat([]byte{'a'}, 5000)
	got, err := Decode(Encode(data), len(data))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestPositionTables(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint8(0x00), positionCodes[0])
	assert.Equal(t, uint8(0x20), positionCodes[1])
	assert.Equal(t, uint8(0xff), positionCodes[63])
	assert.Equal(t, uint8(63), decodeUpper[0xff])
	assert.Equal(t, uint8(3), decodeLength[0x1f])
}
