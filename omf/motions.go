package omf

import (
	"fmt"

	"github.com/meigma/xrf/chunk"
)

// Motion is one animation clip. Keyframe data depends on the bone
// layout of the model and is kept undecoded in Data.
type Motion struct {
	Name   string
	Length uint32
	Data   []byte
}

func (m *Motion) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&m.Name)
	f.U32(&m.Length)
	if err := f.Err(); err != nil {
		return err
	}
	m.Data = r.ReadTillEndChunk()
	return nil
}

func (m *Motion) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(m.Name)
	f.U32(m.Length)
	f.Do(func(w *chunk.Writer) error {
		_, err := w.Write(m.Data)
		return err
	})
	return f.Err()
}

// readMotions decodes chunk 14: child 0 holds the motion count and
// children 1 to count hold one motion each.
func readMotions(r *chunk.Reader) ([]Motion, error) {
	children, err := r.ReadChildren()
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, &chunk.NotFoundError{What: "omf motions count chunk", IDs: []uint32{0}}
	}
	count, err := children[0].Reader().ReadU32Chunk()
	if err != nil {
		return nil, fmt.Errorf("motions count: %w", err)
	}
	if err := chunk.Expect("omf motion chunks", int(count), len(children)-1); err != nil {
		return nil, err
	}
	motions := make([]Motion, count)
	for i := range motions {
		if err := motions[i].Read(children[i+1].Reader()); err != nil {
			return nil, fmt.Errorf("motion %d: %w", i, err)
		}
	}
	return motions, nil
}

func writeMotions(w *chunk.Writer, motions []Motion) error {
	err := w.WriteChild(0, func(w *chunk.Writer) error {
		return w.WriteU32(uint32(len(motions))) //nolint:gosec // motion counts fit u32
	})
	if err != nil {
		return err
	}
	for i := range motions {
		if err := w.WriteChild(uint32(i+1), motions[i].Write); err != nil { //nolint:gosec // motion counts fit u32
			return fmt.Errorf("motion %d: %w", i, err)
		}
	}
	return nil
}
