package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Chunk is one record located inside a parent payload.
type Chunk struct {
	ID uint32
	// Size is the payload length in bytes.
	Size uint64
	// Position is the absolute offset of the payload in the root source.
	Position uint64

	data  []byte
	order binary.ByteOrder
}

// NewChunk returns a chunk over payload, used for building records in
// memory.
func NewChunk(id uint32, payload []byte, order binary.ByteOrder) Chunk {
	return Chunk{ID: id, Size: uint64(len(payload)), data: payload, order: order}
}

// Reader returns a fresh reader bounded to the chunk payload.
func (c Chunk) Reader() *Reader {
	return &Reader{data: c.data, base: c.Position, order: c.order}
}

// Bytes returns the payload. The slice aliases the backing source.
func (c Chunk) Bytes() []byte {
	return c.data
}

// next reads one id-tagged record at the cursor.
func (r *Reader) next() (Chunk, error) {
	start := r.pos
	id := r.order.Uint32(r.data[start:])
	size := r.order.Uint32(r.data[start+4:])
	if int64(size) > int64(r.Remaining()-headerSize) {
		return Chunk{}, fmt.Errorf("%w: chunk %d at offset %d declares %d bytes, %d available: %w",
			ErrIO, id, start, size, r.Remaining()-headerSize, io.ErrUnexpectedEOF)
	}
	payload := start + headerSize
	r.pos = payload + int(size)
	return Chunk{
		ID:       id,
		Size:     uint64(size),
		Position: r.base + uint64(payload), //nolint:gosec // payload is non-negative
		data:     r.data[payload:r.pos],
		order:    r.order,
	}, nil
}

// ReadChildren walks id-tagged children starting at the cursor and
// returns them while each id equals its running index 0, 1, 2 and so on.
// Iteration stops without error at the first record whose id does not
// match, leaving the cursor at that record. Trailing bytes shorter than
// a chunk header are ignored.
func (r *Reader) ReadChildren() ([]Chunk, error) {
	var out []Chunk
	for index := uint32(0); r.Remaining() >= headerSize; index++ {
		if r.order.Uint32(r.data[r.pos:]) != index {
			break
		}
		c, err := r.next()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ReadAllChildren walks every id-tagged record from the cursor to the end
// of the payload, whatever its id.
func (r *Reader) ReadAllChildren() ([]Chunk, error) {
	var out []Chunk
	for r.Remaining() >= headerSize {
		c, err := r.next()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ReadChildByIndex returns the i-th id-tagged record of the payload,
// counting from the start of the payload and ignoring ids. The cursor is
// moved past the returned record if it is not already further.
func (r *Reader) ReadChildByIndex(i int) (Chunk, error) {
	scan := &Reader{data: r.data, base: r.base, order: r.order}
	for index := 0; scan.Remaining() >= headerSize; index++ {
		c, err := scan.next()
		if err != nil {
			return Chunk{}, err
		}
		if index == i {
			r.pos = max(r.pos, scan.pos)
			return c, nil
		}
	}
	return Chunk{}, &NotFoundError{What: fmt.Sprintf("child chunk at index %d", i)}
}

// ReadSizePacked walks size-packed records (size:u32 payload:[size-4]byte)
// until the end of the payload. Records get ids by position.
func (r *Reader) ReadSizePacked() ([]Chunk, error) {
	var out []Chunk
	for index := uint32(0); r.HasData(); index++ {
		start := r.pos
		size, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if size < 4 {
			return nil, Errorf(ErrParse, "size-packed record %d at offset %d declares size %d", index, start, size)
		}
		sub, err := r.Sub(int(size - 4))
		if err != nil {
			return nil, err
		}
		out = append(out, Chunk{
			ID:       index,
			Size:     uint64(size - 4),
			Position: sub.base,
			data:     sub.data,
			order:    r.order,
		})
	}
	return out, nil
}
