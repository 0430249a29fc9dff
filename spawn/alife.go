package spawn

import (
	"strconv"

	"github.com/meigma/xrf/alife"
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

const (
	alifeCountChunkID   = 0
	alifeObjectsChunkID = 1
	alifeVertexChunkID  = 2

	objectIndexChunkID = 0
	objectDataChunkID  = 1
)

// ALifeSpawns is chunk 1: the objects placed on every level.
type ALifeSpawns struct {
	Objects []alife.Object
}

// Read decodes the count, objects and vertex children. Objects are
// walked while their ids run 0, 1, 2 and each object repeats its id in
// an index record.
func (a *ALifeSpawns) Read(r *chunk.Reader) error {
	countChunk, err := r.ReadChildByIndex(alifeCountChunkID)
	if err != nil {
		return err
	}
	objectsChunk, err := r.ReadChildByIndex(alifeObjectsChunkID)
	if err != nil {
		return err
	}
	vertexChunk, err := r.ReadChildByIndex(alifeVertexChunkID)
	if err != nil {
		return err
	}

	count, err := countChunk.Reader().ReadU32Chunk()
	if err != nil {
		return err
	}

	objects := objectsChunk.Reader()
	children, err := objects.ReadChildren()
	if err != nil {
		return err
	}
	a.Objects = make([]alife.Object, 0, len(children))
	for _, c := range children {
		object, err := readObject(c)
		if err != nil {
			return err
		}
		a.Objects = append(a.Objects, object)
	}

	if err := chunk.Expect("alife objects count", int(count), len(a.Objects)); err != nil {
		return err
	}
	if err := objects.EnsureEnded("alife objects"); err != nil {
		return err
	}
	if vertexChunk.Size != 0 {
		return chunk.Errorf(chunk.ErrNotImplemented, "alife spawns vertex chunk of %d bytes", vertexChunk.Size)
	}
	return r.EnsureEnded("alife spawns")
}

func readObject(c chunk.Chunk) (alife.Object, error) {
	var object alife.Object
	r := c.Reader()
	indexChunk, err := r.ReadChildByIndex(objectIndexChunkID)
	if err != nil {
		return object, err
	}
	index, err := indexChunk.Reader().ReadU16Chunk()
	if err != nil {
		return object, err
	}
	if err := chunk.Expect("alife object index", c.ID, uint32(index)); err != nil {
		return object, err
	}
	dataChunk, err := r.ReadChildByIndex(objectDataChunkID)
	if err != nil {
		return object, err
	}
	if err := object.Read(dataChunk.Reader()); err != nil {
		return object, err
	}
	return object, r.EnsureEnded("alife object")
}

// Write encodes the objects with fresh sequential indexes and an empty
// vertex child.
func (a *ALifeSpawns) Write(w *chunk.Writer) error {
	if len(a.Objects) > 0xFFFF {
		return chunk.Errorf(chunk.ErrInvalidFormat, "%d alife objects exceed u16 indexes", len(a.Objects))
	}
	err := w.WriteChild(alifeCountChunkID, func(w *chunk.Writer) error {
		return w.WriteU32(uint32(len(a.Objects)))
	})
	if err != nil {
		return err
	}
	err = w.WriteChild(alifeObjectsChunkID, func(w *chunk.Writer) error {
		for i := range a.Objects {
			object := &a.Objects[i]
			err := w.WriteChild(uint32(i), func(w *chunk.Writer) error {
				err := w.WriteChild(objectIndexChunkID, func(w *chunk.Writer) error {
					return w.WriteU16(uint16(i))
				})
				if err != nil {
					return err
				}
				return w.WriteChild(objectDataChunkID, object.Write)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.WriteChunk(alifeVertexChunkID, nil)
}

// Import reads one object per section, in file order.
func (a *ALifeSpawns) Import(l *ltx.Ltx) error {
	sections := l.Sections()
	a.Objects = make([]alife.Object, len(sections))
	for i, s := range sections {
		if err := a.Objects[i].Import(s); err != nil {
			return err
		}
	}
	return nil
}

// Export stores each object in a section named by its index.
func (a *ALifeSpawns) Export(l *ltx.Ltx) {
	for i := range a.Objects {
		a.Objects[i].Export(l.WithSection(strconv.Itoa(i)))
	}
}
