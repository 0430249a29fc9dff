package testutil

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncoders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		order binary.ByteOrder
		u16   []byte
		u32   []byte
		f32   []byte
		chunk []byte
	}{
		{
			name:  "little endian",
			order: binary.LittleEndian,
			u16:   []byte{0x34, 0x12},
			u32:   []byte{0x78, 0x56, 0x34, 0x12},
			f32:   []byte{0x00, 0x00, 0x80, 0x3F},
			chunk: []byte{7, 0, 0, 0, 3, 0, 0, 0, 'a', 'b', 0},
		},
		{
			name:  "big endian",
			order: binary.BigEndian,
			u16:   []byte{0x12, 0x34},
			u32:   []byte{0x12, 0x34, 0x56, 0x78},
			f32:   []byte{0x3F, 0x80, 0x00, 0x00},
			chunk: []byte{0, 0, 0, 7, 0, 0, 0, 3, 'a', 'b', 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.u16, U16(tt.order, 0x1234))
			assert.Equal(t, tt.u32, U32(tt.order, 0x12345678))
			assert.Equal(t, tt.f32, F32(tt.order, 1))
			assert.Equal(t, tt.chunk, Chunk(tt.order, 7, []byte("a"), CString("b")))
		})
	}
}
