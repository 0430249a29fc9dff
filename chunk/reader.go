package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// EngineOrder is the byte order of every engine asset format.
var EngineOrder binary.ByteOrder = binary.LittleEndian

// headerSize is the length of the id and size preamble of a chunk.
const headerSize = 8

// Reader is a bounded cursor over one chunk payload, or over a whole
// file treated as the root chunk.
//
// A Reader is not safe for concurrent use. Child readers share the
// backing bytes but own their cursor.
type Reader struct {
	data  []byte
	pos   int
	base  uint64
	order binary.ByteOrder
}

// NewReader returns a root reader spanning data.
func NewReader(data []byte, order binary.ByteOrder) *Reader {
	return &Reader{data: data, order: order}
}

// Open reads the file at path and returns a root reader over its bytes.
func Open(path string, order binary.ByteOrder) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return NewReader(data, order), nil
}

// Order returns the byte order used by r.
func (r *Reader) Order() binary.ByteOrder {
	return r.order
}

// Pos returns the cursor offset relative to the start of the payload.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the payload size.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// IsEnded reports whether the cursor reached the end of the payload.
func (r *Reader) IsEnded() bool {
	return r.pos == len(r.data)
}

// HasData reports whether unread bytes remain.
func (r *Reader) HasData() bool {
	return r.pos < len(r.data)
}

// EnsureEnded returns a *NotEndedError naming kind when bytes remain.
func (r *Reader) EnsureEnded(kind string) error {
	if !r.IsEnded() {
		return &NotEndedError{Kind: kind, Remaining: int64(r.Remaining())}
	}
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, fmt.Errorf("%w: read %d bytes at offset %d of %d: %w",
			ErrIO, n, r.pos, len(r.data), io.ErrUnexpectedEOF)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads an unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// ReadU24 reads an unsigned 24-bit integer into the low bits of a uint32.
func (r *Reader) ReadU24() (uint32, error) {
	b, err := r.take(3)
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	if isLittle(r.order) {
		copy(buf[:3], b)
	} else {
		copy(buf[1:], b)
	}
	return r.order.Uint32(buf[:]), nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err //nolint:gosec // two's complement reinterpretation
}

// ReadI16 reads a signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err //nolint:gosec // two's complement reinterpretation
}

// ReadU64 reads an unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// ReadF32 reads an IEEE 754 single precision float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadU128 reads a 128-bit value and returns its big-endian bytes, so the
// result can be used directly as a UUID regardless of the stream order.
func (r *Reader) ReadU128() ([16]byte, error) {
	var out [16]byte
	b, err := r.take(16)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	if isLittle(r.order) {
		reverse(out[:])
	}
	return out, nil
}

// ReadBytes reads n bytes into a new slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// ReadRemaining reads every unread byte into a new slice.
func (r *Reader) ReadRemaining() []byte {
	b, _ := r.take(r.Remaining()) //nolint:errcheck // remaining bytes always fit
	return append([]byte{}, b...)
}

// ReadU16Vector reads a u32 count followed by that many u16 values.
func (r *Reader) ReadU16Vector() ([]uint16, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int64(count)*2 > int64(r.Remaining()) {
		return nil, &MismatchError{What: "u16 vector length", Expected: r.Remaining() / 2, Actual: count}
	}
	out := make([]uint16, count)
	for i := range out {
		if out[i], err = r.ReadU16(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadU16Chunk reads a u16 that must fill the rest of the payload.
func (r *Reader) ReadU16Chunk() (uint16, error) {
	v, err := r.ReadU16()
	if err != nil {
		return 0, r.shortChunk("u16", 2)
	}
	return v, r.EnsureEnded("u16")
}

// ReadU32Chunk reads a u32 that must fill the rest of the payload.
func (r *Reader) ReadU32Chunk() (uint32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, r.shortChunk("u32", 4)
	}
	return v, r.EnsureEnded("u32")
}

// ReadF32Chunk reads an f32 that must fill the rest of the payload.
func (r *Reader) ReadF32Chunk() (float32, error) {
	v, err := r.ReadF32()
	if err != nil {
		return 0, r.shortChunk("f32", 4)
	}
	return v, r.EnsureEnded("f32")
}

// ReadF32VectorChunk reads three f32 values that must fill the rest of the
// payload.
func (r *Reader) ReadF32VectorChunk() ([3]float32, error) {
	var out [3]float32
	if r.Remaining() < 12 {
		return out, r.shortChunk("f32 vector", 12)
	}
	for i := range out {
		out[i], _ = r.ReadF32() //nolint:errcheck // length checked above
	}
	return out, r.EnsureEnded("f32 vector")
}

// ReadTillEndChunk reads every remaining byte of the payload.
func (r *Reader) ReadTillEndChunk() []byte {
	return r.ReadRemaining()
}

// ReadStringChunk reads a null-terminated string that must fill the rest
// of the payload.
func (r *Reader) ReadStringChunk() (string, error) {
	s, err := r.ReadString()
	if err != nil {
		return "", err
	}
	return s, r.EnsureEnded("string")
}

func (r *Reader) shortChunk(kind string, need int) error {
	return &NotEndedError{Kind: kind, Remaining: int64(r.Remaining() - need)}
}

// Sub returns a reader over the next n bytes and advances past them.
func (r *Reader) Sub(n int) (*Reader, error) {
	start := r.pos
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return &Reader{data: b, base: r.base + uint64(start), order: r.order}, nil //nolint:gosec // start is non-negative
}

func isLittle(order binary.ByteOrder) bool {
	return order.Uint16([]byte{1, 0}) == 1
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
