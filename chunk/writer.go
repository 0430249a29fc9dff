package chunk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer accumulates the payload of one record. Flushing hands the
// accumulated bytes out and resets the writer, so each payload is
// consumed exactly once.
type Writer struct {
	buf   bytes.Buffer
	order binary.ByteOrder
	tmp   [16]byte
}

// NewWriter returns an empty writer using order for every value and for
// the chunk preamble.
func NewWriter(order binary.ByteOrder) *Writer {
	return &Writer{order: order}
}

// Order returns the byte order used by w.
func (w *Writer) Order() binary.ByteOrder {
	return w.order
}

// Write appends raw bytes. It never fails.
func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// BytesWritten returns the length of the accumulated payload.
func (w *Writer) BytesWritten() int {
	return w.buf.Len()
}

// Bytes returns the accumulated payload without consuming it.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteU8 appends one byte.
func (w *Writer) WriteU8(v uint8) error {
	return w.buf.WriteByte(v)
}

// WriteU16 appends an unsigned 16-bit integer.
func (w *Writer) WriteU16(v uint16) error {
	w.order.PutUint16(w.tmp[:2], v)
	_, err := w.buf.Write(w.tmp[:2])
	return err
}

// WriteI16 appends a signed 16-bit integer.
func (w *Writer) WriteI16(v int16) error {
	return w.WriteU16(uint16(v)) //nolint:gosec // two's complement reinterpretation
}

// WriteU24 appends the low 24 bits of v.
func (w *Writer) WriteU24(v uint32) error {
	if v > 0xFFFFFF {
		return Errorf(ErrParse, "value %d does not fit 24 bits", v)
	}
	w.order.PutUint32(w.tmp[:4], v)
	if isLittle(w.order) {
		_, err := w.buf.Write(w.tmp[:3])
		return err
	}
	_, err := w.buf.Write(w.tmp[1:4])
	return err
}

// WriteU32 appends an unsigned 32-bit integer.
func (w *Writer) WriteU32(v uint32) error {
	w.order.PutUint32(w.tmp[:4], v)
	_, err := w.buf.Write(w.tmp[:4])
	return err
}

// WriteI32 appends a signed 32-bit integer.
func (w *Writer) WriteI32(v int32) error {
	return w.WriteU32(uint32(v)) //nolint:gosec // two's complement reinterpretation
}

// WriteU64 appends an unsigned 64-bit integer.
func (w *Writer) WriteU64(v uint64) error {
	w.order.PutUint64(w.tmp[:8], v)
	_, err := w.buf.Write(w.tmp[:8])
	return err
}

// WriteF32 appends an IEEE 754 single precision float.
func (w *Writer) WriteF32(v float32) error {
	return w.WriteU32(math.Float32bits(v))
}

// WriteU128 appends a 128-bit value given as big-endian bytes, the
// inverse of [Reader.ReadU128].
func (w *Writer) WriteU128(v [16]byte) error {
	if isLittle(w.order) {
		reverse(v[:])
	}
	_, err := w.buf.Write(v[:])
	return err
}

// WriteU16Vector appends a u32 count followed by the values.
func (w *Writer) WriteU16Vector(values []uint16) error {
	if err := w.WriteU32(uint32(len(values))); err != nil { //nolint:gosec // list sizes fit u32
		return err
	}
	for _, v := range values {
		if err := w.WriteU16(v); err != nil {
			return err
		}
	}
	return nil
}

// WriteChunk appends a complete id-tagged record holding payload.
func (w *Writer) WriteChunk(id uint32, payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return Errorf(ErrParse, "chunk %d payload of %d bytes exceeds u32 size", id, len(payload))
	}
	if err := w.WriteU32(id); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(payload))); err != nil {
		return err
	}
	_, err := w.buf.Write(payload)
	return err
}

// FlushChunkIntoBuffer returns the payload framed as chunk id and resets
// the writer.
func (w *Writer) FlushChunkIntoBuffer(id uint32) ([]byte, error) {
	framed := NewWriter(w.order)
	if err := framed.WriteChunk(id, w.buf.Bytes()); err != nil {
		return nil, err
	}
	w.buf.Reset()
	return framed.buf.Bytes(), nil
}

// FlushChunkInto writes the payload framed as chunk id to dst and resets
// the writer. It returns the number of bytes written including the
// preamble.
func (w *Writer) FlushChunkInto(dst io.Writer, id uint32) (int, error) {
	framed, err := w.FlushChunkIntoBuffer(id)
	if err != nil {
		return 0, err
	}
	n, err := dst.Write(framed)
	if err != nil {
		return n, fmt.Errorf("%w: flush chunk %d: %w", ErrIO, id, err)
	}
	return n, nil
}

// FlushRawIntoBuffer returns the payload without a preamble and resets
// the writer.
func (w *Writer) FlushRawIntoBuffer() []byte {
	out := append([]byte(nil), w.buf.Bytes()...)
	w.buf.Reset()
	return out
}

// WriteChild appends a record with id whose payload is produced by fn on
// a fresh writer of the same order.
func (w *Writer) WriteChild(id uint32, fn func(w *Writer) error) error {
	child := NewWriter(w.order)
	if err := fn(child); err != nil {
		return err
	}
	return w.WriteChunk(id, child.buf.Bytes())
}
