package alife

import (
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

// skeletonSavedData marks skeleton records that carry saved bone state.
const skeletonSavedData = 4

// Abstract is the root of every server object record.
type Abstract struct {
	GameVertexID  uint16
	Distance      float32
	DirectControl uint32
	LevelVertexID uint32
	Flags         uint32
	CustomData    string
	StoryID       uint32
	SpawnStoryID  uint32
}

// Read implements Data.
func (a *Abstract) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.U16(&a.GameVertexID)
	f.F32(&a.Distance)
	f.U32(&a.DirectControl)
	f.U32(&a.LevelVertexID)
	f.U32(&a.Flags)
	f.String(&a.CustomData)
	f.U32(&a.StoryID)
	f.U32(&a.SpawnStoryID)
	return f.Err()
}

// Write implements Data.
func (a *Abstract) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U16(a.GameVertexID)
	f.F32(a.Distance)
	f.U32(a.DirectControl)
	f.U32(a.LevelVertexID)
	f.U32(a.Flags)
	f.String(a.CustomData)
	f.U32(a.StoryID)
	f.U32(a.SpawnStoryID)
	return f.Err()
}

// Import reads the record. custom_data is stored base64 encoded since it
// is itself multi-line LTX text.
func (a *Abstract) Import(s *ltx.Section) error {
	var custom []byte
	f := s.Fields()
	f.U16("game_vertex_id", &a.GameVertexID)
	f.F32("distance", &a.Distance)
	f.U32("direct_control", &a.DirectControl)
	f.U32("level_vertex_id", &a.LevelVertexID)
	f.U32("object_flags", &a.Flags)
	f.Base64("custom_data", &custom)
	f.U32("story_id", &a.StoryID)
	f.U32("spawn_story_id", &a.SpawnStoryID)
	a.CustomData = string(custom)
	return f.Err()
}

// Export implements Data.
func (a *Abstract) Export(s *ltx.Section) {
	s.SetUint("game_vertex_id", uint64(a.GameVertexID)).
		SetF32("distance", a.Distance).
		SetUint("direct_control", uint64(a.DirectControl)).
		SetUint("level_vertex_id", uint64(a.LevelVertexID)).
		SetUint("object_flags", uint64(a.Flags)).
		SetBase64("custom_data", []byte(a.CustomData)).
		SetUint("story_id", uint64(a.StoryID)).
		SetUint("spawn_story_id", uint64(a.SpawnStoryID))
}

// Dynamic is an abstract object that can move between levels.
type Dynamic struct {
	Abstract
}

// Visual carries a model reference. It is a mixin and has no base.
type Visual struct {
	VisualName  string
	VisualFlags uint8
}

// Read implements Data.
func (v *Visual) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&v.VisualName)
	f.U8(&v.VisualFlags)
	return f.Err()
}

// Write implements Data.
func (v *Visual) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(v.VisualName)
	f.U8(v.VisualFlags)
	return f.Err()
}

// Import implements Data.
func (v *Visual) Import(s *ltx.Section) error {
	f := s.Fields()
	f.String("visual.visual_name", &v.VisualName)
	f.U8("visual.visual_flags", &v.VisualFlags)
	return f.Err()
}

// Export implements Data.
func (v *Visual) Export(s *ltx.Section) {
	s.Set("visual.visual_name", v.VisualName).
		SetUint("visual.visual_flags", uint64(v.VisualFlags))
}

// DynamicVisual is a dynamic object with a model.
type DynamicVisual struct {
	Abstract
	Visual
}

// Read implements Data.
func (d *DynamicVisual) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&d.Abstract)
	f.Value(&d.Visual)
	return f.Err()
}

// Write implements Data.
func (d *DynamicVisual) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&d.Abstract)
	f.Value(&d.Visual)
	return f.Err()
}

// Import implements Data.
func (d *DynamicVisual) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(d.Abstract.Import)
	f.Do(d.Visual.Import)
	return f.Err()
}

// Export implements Data.
func (d *DynamicVisual) Export(s *ltx.Section) {
	d.Abstract.Export(s)
	d.Visual.Export(s)
}

// Motion is a mixin naming an animation.
type Motion struct {
	MotionName string
}

// Read implements Data.
func (m *Motion) Read(r *chunk.Reader) error {
	var err error
	m.MotionName, err = r.ReadString()
	return err
}

// Write implements Data.
func (m *Motion) Write(w *chunk.Writer) error {
	return w.WriteString(m.MotionName)
}

// Import implements Data.
func (m *Motion) Import(s *ltx.Section) error {
	var err error
	m.MotionName, err = s.String("motion.motion_name")
	return err
}

// Export implements Data.
func (m *Motion) Export(s *ltx.Section) {
	s.Set("motion.motion_name", m.MotionName)
}

// Skeleton is a mixin for objects driven by a physics skeleton.
type Skeleton struct {
	Name     string
	Flags    uint8
	SourceID uint16
}

// Read implements Data.
func (k *Skeleton) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&k.Name)
	f.U8(&k.Flags)
	f.U16(&k.SourceID)
	if err := f.Err(); err != nil {
		return err
	}
	if k.Flags&skeletonSavedData != 0 {
		return chunk.Errorf(chunk.ErrNotImplemented, "skeleton %q: saved bone data", k.Name)
	}
	return nil
}

// Write implements Data.
func (k *Skeleton) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(k.Name)
	f.U8(k.Flags)
	f.U16(k.SourceID)
	return f.Err()
}

// Import implements Data.
func (k *Skeleton) Import(s *ltx.Section) error {
	f := s.Fields()
	f.String("skeleton.name", &k.Name)
	f.U8("skeleton.flags", &k.Flags)
	f.U16("skeleton.source_id", &k.SourceID)
	return f.Err()
}

// Export implements Data.
func (k *Skeleton) Export(s *ltx.Section) {
	s.Set("skeleton.name", k.Name).
		SetUint("skeleton.flags", uint64(k.Flags)).
		SetUint("skeleton.source_id", uint64(k.SourceID))
}

// Shape is an abstract object with a list of collision shapes.
type Shape struct {
	Abstract
	Shapes []geom.Shape
}

// Read implements Data.
func (o *Shape) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.Abstract)
	f.Do(func(r *chunk.Reader) (err error) {
		o.Shapes, err = geom.ReadShapes(r)
		return err
	})
	return f.Err()
}

// Write implements Data.
func (o *Shape) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.Abstract)
	f.Do(func(w *chunk.Writer) error { return geom.WriteShapes(w, o.Shapes) })
	return f.Err()
}

// Import implements Data.
func (o *Shape) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.Abstract.Import)
	f.Do(func(s *ltx.Section) (err error) {
		o.Shapes, err = geom.ImportShapes(s)
		return err
	})
	return f.Err()
}

// Export implements Data.
func (o *Shape) Export(s *ltx.Section) {
	o.Abstract.Export(s)
	geom.ExportShapes(s, o.Shapes)
}

// SpaceRestrictor is a shape that limits where objects may move.
type SpaceRestrictor struct {
	Shape
	RestrictorType uint8
}

// Read implements Data.
func (o *SpaceRestrictor) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.Shape)
	f.U8(&o.RestrictorType)
	return f.Err()
}

// Write implements Data.
func (o *SpaceRestrictor) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.Shape)
	f.U8(o.RestrictorType)
	return f.Err()
}

// Import implements Data.
func (o *SpaceRestrictor) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.Shape.Import)
	f.U8("restrictor_type", &o.RestrictorType)
	return f.Err()
}

// Export implements Data.
func (o *SpaceRestrictor) Export(s *ltx.Section) {
	o.Shape.Export(s)
	s.SetUint("restrictor_type", uint64(o.RestrictorType))
}

// SmartZone is the base of script-managed restrictors.
type SmartZone struct {
	SpaceRestrictor
}
