package particles

import (
	"strconv"
	"strings"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

// Sprite names the shader and texture an effect renders with.
type Sprite struct {
	Shader  string
	Texture string
}

func (s *Sprite) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&s.Shader)
	f.String(&s.Texture)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("particle sprite")
}

func (s *Sprite) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(s.Shader)
	f.String(s.Texture)
	return f.Err()
}

func (s *Sprite) Import(sec *ltx.Section) error {
	if err := checkMeta(sec, metaSprite); err != nil {
		return err
	}
	f := sec.Fields()
	f.String("shader_name", &s.Shader)
	f.String("texture_name", &s.Texture)
	return f.Err()
}

func (s *Sprite) Export(sec *ltx.Section) {
	sec.Set(metaTypeKey, metaSprite).
		Set("shader_name", s.Shader).
		Set("texture_name", s.Texture)
}

// Frame describes a sprite sheet animation.
type Frame struct {
	TextureSize     [2]float32
	Reserved        [2]float32
	FrameDimensionX int32
	FrameCount      int32
	Speed           float32
}

func (fr *Frame) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.F32(&fr.TextureSize[0])
	f.F32(&fr.TextureSize[1])
	f.F32(&fr.Reserved[0])
	f.F32(&fr.Reserved[1])
	f.I32(&fr.FrameDimensionX)
	f.I32(&fr.FrameCount)
	f.F32(&fr.Speed)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("particle frame")
}

func (fr *Frame) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.F32(fr.TextureSize[0])
	f.F32(fr.TextureSize[1])
	f.F32(fr.Reserved[0])
	f.F32(fr.Reserved[1])
	f.I32(fr.FrameDimensionX)
	f.I32(fr.FrameCount)
	f.F32(fr.Speed)
	return f.Err()
}

func (fr *Frame) Import(s *ltx.Section) error {
	if err := checkMeta(s, metaFrame); err != nil {
		return err
	}
	f := s.Fields()
	f.Do(importPair("texture_size", &fr.TextureSize))
	f.Do(importPair("reserved", &fr.Reserved))
	f.I32("frame_dimension_x", &fr.FrameDimensionX)
	f.I32("frame_count", &fr.FrameCount)
	f.F32("speed", &fr.Speed)
	return f.Err()
}

func (fr *Frame) Export(s *ltx.Section) {
	s.Set(metaTypeKey, metaFrame).
		Set("texture_size", formatPair(fr.TextureSize)).
		Set("reserved", formatPair(fr.Reserved)).
		SetInt("frame_dimension_x", int64(fr.FrameDimensionX)).
		SetInt("frame_count", int64(fr.FrameCount)).
		SetF32("speed", fr.Speed)
}

// Collision holds the collision response of an effect.
type Collision struct {
	OneMinusFriction float32
	Resilience       float32
	SqrCutoff        float32
}

func (c *Collision) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.F32(&c.OneMinusFriction)
	f.F32(&c.Resilience)
	f.F32(&c.SqrCutoff)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("particle collision")
}

func (c *Collision) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.F32(c.OneMinusFriction)
	f.F32(c.Resilience)
	f.F32(c.SqrCutoff)
	return f.Err()
}

func (c *Collision) Import(s *ltx.Section) error {
	if err := checkMeta(s, metaCollision); err != nil {
		return err
	}
	f := s.Fields()
	f.F32("collide_one_minus_friction", &c.OneMinusFriction)
	f.F32("collide_resilience", &c.Resilience)
	f.F32("collide_sqr_cutoff", &c.SqrCutoff)
	return f.Err()
}

func (c *Collision) Export(s *ltx.Section) {
	s.Set(metaTypeKey, metaCollision).
		SetF32("collide_one_minus_friction", c.OneMinusFriction).
		SetF32("collide_resilience", c.Resilience).
		SetF32("collide_sqr_cutoff", c.SqrCutoff)
}

// Description records who created and last edited an effect or group.
type Description struct {
	Creator     string
	Editor      string
	CreatedTime uint32
	EditTime    uint32
}

func (d *Description) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&d.Creator)
	f.String(&d.Editor)
	f.U32(&d.CreatedTime)
	f.U32(&d.EditTime)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("particle description")
}

func (d *Description) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(d.Creator)
	f.String(d.Editor)
	f.U32(d.CreatedTime)
	f.U32(d.EditTime)
	return f.Err()
}

func (d *Description) Import(s *ltx.Section) error {
	if err := checkMeta(s, metaDescription); err != nil {
		return err
	}
	f := s.Fields()
	f.String("creator", &d.Creator)
	f.String("editor", &d.Editor)
	f.U32("created_time", &d.CreatedTime)
	f.U32("edit_time", &d.EditTime)
	return f.Err()
}

func (d *Description) Export(s *ltx.Section) {
	s.Set(metaTypeKey, metaDescription).
		Set("creator", d.Creator).
		Set("editor", d.Editor).
		SetUint("created_time", uint64(d.CreatedTime)).
		SetUint("edit_time", uint64(d.EditTime))
}

// EditorData is an opaque blob kept by the particle editor.
type EditorData struct {
	Value []byte
}

func (e *EditorData) Read(r *chunk.Reader) error {
	e.Value = r.ReadTillEndChunk()
	return nil
}

func (e *EditorData) Write(w *chunk.Writer) error {
	_, err := w.Write(e.Value)
	return err
}

func (e *EditorData) Import(s *ltx.Section) error {
	if err := checkMeta(s, metaEditorData); err != nil {
		return err
	}
	f := s.Fields()
	f.Base64("value", &e.Value)
	return f.Err()
}

func (e *EditorData) Export(s *ltx.Section) {
	s.Set(metaTypeKey, metaEditorData).SetBase64("value", e.Value)
}

func formatPair(p [2]float32) string {
	return ltx.FormatF32(p[0]) + "," + ltx.FormatF32(p[1])
}

func importPair(key string, p *[2]float32) func(*ltx.Section) error {
	return func(s *ltx.Section) error {
		text, err := s.String(key)
		if err != nil {
			return err
		}
		parts := strings.Split(text, ",")
		if len(parts) != 2 {
			return chunk.Errorf(chunk.ErrParse, "ltx field [%s] %s: expected 2 values", s.Name, key)
		}
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
			if err != nil {
				return chunk.Errorf(chunk.ErrParse, "ltx field [%s] %s: %v", s.Name, key, err)
			}
			p[i] = float32(v)
		}
		return nil
	}
}
