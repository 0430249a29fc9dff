package spawn

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

// Header is the spawn file header, chunk 0.
type Header struct {
	Version      uint32
	GUID         uuid.UUID
	GraphGUID    uuid.UUID
	ObjectsCount uint32
	LevelsCount  uint32
}

// Read decodes the header. The chunk must hold exactly the header.
func (h *Header) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.U32(&h.Version)
	f.Do(readUUID(&h.GUID))
	f.Do(readUUID(&h.GraphGUID))
	f.U32(&h.ObjectsCount)
	f.U32(&h.LevelsCount)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("spawn header")
}

func (h *Header) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U32(h.Version)
	f.Do(writeUUID(h.GUID))
	f.Do(writeUUID(h.GraphGUID))
	f.U32(h.ObjectsCount)
	f.U32(h.LevelsCount)
	return f.Err()
}

// Import reads the [header] section.
func (h *Header) Import(l *ltx.Ltx) error {
	s, err := l.RequireSection("header")
	if err != nil {
		return err
	}
	f := s.Fields()
	f.U32("version", &h.Version)
	f.Do(importUUID("guid", &h.GUID))
	f.Do(importUUID("graph_guid", &h.GraphGUID))
	f.U32("objects", &h.ObjectsCount)
	f.U32("level_count", &h.LevelsCount)
	return f.Err()
}

func (h *Header) Export(l *ltx.Ltx) {
	l.WithSection("header").
		SetUint("version", uint64(h.Version)).
		Set("guid", h.GUID.String()).
		Set("graph_guid", h.GraphGUID.String()).
		SetUint("objects", uint64(h.ObjectsCount)).
		SetUint("level_count", uint64(h.LevelsCount))
}

func readUUID(p *uuid.UUID) func(*chunk.Reader) error {
	return func(r *chunk.Reader) error {
		b, err := r.ReadU128()
		*p = uuid.UUID(b)
		return err
	}
}

func writeUUID(v uuid.UUID) func(*chunk.Writer) error {
	return func(w *chunk.Writer) error {
		return w.WriteU128(v)
	}
}

func importUUID(key string, p *uuid.UUID) func(*ltx.Section) error {
	return func(s *ltx.Section) error {
		text, err := s.String(key)
		if err != nil {
			return err
		}
		if *p, err = uuid.Parse(text); err != nil {
			return chunk.Errorf(chunk.ErrParse, "ltx section [%s]: key %q: %v", s.Name, key, err)
		}
		return nil
	}
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("spawn: %s: %w", what, err)
}
