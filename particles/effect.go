package particles

import (
	"fmt"
	"strconv"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

// Effect sub-chunk ids.
const (
	effectVersionID       = 1
	effectNameID          = 2
	effectMaxParticlesID  = 3
	effectActionsID       = 4
	effectFlagsID         = 5
	effectFrameID         = 6
	effectSpriteID        = 7
	effectTimeLimitID     = 8
	effectCollisionID     = 33
	effectVelocityScaleID = 34
	effectDescriptionID   = 35
	effectEditorDataID    = 36
	effectRotationID      = 37
)

// maxActions bounds the action sections read for one effect on import.
const maxActions = 10_000

// Effect is a single particle system: an emitter program of actions plus
// its rendering settings. Pointer fields are optional sub-chunks.
type Effect struct {
	Version       uint16
	Name          string
	MaxParticles  uint32
	Actions       []Action
	Flags         uint32
	Sprite        Sprite
	Frame         *Frame
	TimeLimit     *float32
	Collision     *Collision
	VelocityScale *geom.Vector3d
	Description   *Description
	EditorData    *EditorData
	Rotation      *geom.Vector3d
}

// Read decodes the sub-chunks of one effect, in any order.
func (e *Effect) Read(r *chunk.Reader) error {
	children, err := r.ReadAllChildren()
	if err != nil {
		return err
	}
	var out Effect
	required := []struct {
		id   uint32
		read func(r *chunk.Reader) error
	}{
		{effectVersionID, func(r *chunk.Reader) (err error) { out.Version, err = r.ReadU16Chunk(); return }},
		{effectNameID, func(r *chunk.Reader) (err error) { out.Name, err = r.ReadStringChunk(); return }},
		{effectMaxParticlesID, func(r *chunk.Reader) (err error) { out.MaxParticles, err = r.ReadU32Chunk(); return }},
		{effectActionsID, (*actionList)(&out.Actions).Read},
		{effectFlagsID, func(r *chunk.Reader) (err error) { out.Flags, err = r.ReadU32Chunk(); return }},
		{effectSpriteID, out.Sprite.Read},
	}
	for _, part := range required {
		c, err := chunk.FindRequired(children, part.id)
		if err != nil {
			return fmt.Errorf("particle effect: %w", err)
		}
		if err := part.read(c.Reader()); err != nil {
			return fmt.Errorf("particle effect %q: chunk %d: %w", out.Name, part.id, err)
		}
	}

	if out.Frame, err = readOptional[Frame](children, effectFrameID); err != nil {
		return fmt.Errorf("particle effect %q: frame: %w", out.Name, err)
	}
	if c, ok := chunk.FindOptional(children, effectTimeLimitID); ok {
		v, err := c.Reader().ReadF32Chunk()
		if err != nil {
			return fmt.Errorf("particle effect %q: time limit: %w", out.Name, err)
		}
		out.TimeLimit = &v
	}
	if out.Collision, err = readOptional[Collision](children, effectCollisionID); err != nil {
		return fmt.Errorf("particle effect %q: collision: %w", out.Name, err)
	}
	if out.VelocityScale, err = readVectorChunk(children, effectVelocityScaleID); err != nil {
		return fmt.Errorf("particle effect %q: velocity scale: %w", out.Name, err)
	}
	if out.Description, err = readOptional[Description](children, effectDescriptionID); err != nil {
		return fmt.Errorf("particle effect %q: description: %w", out.Name, err)
	}
	if out.EditorData, err = readOptional[EditorData](children, effectEditorDataID); err != nil {
		return fmt.Errorf("particle effect %q: editor data: %w", out.Name, err)
	}
	if out.Rotation, err = readVectorChunk(children, effectRotationID); err != nil {
		return fmt.Errorf("particle effect %q: rotation: %w", out.Name, err)
	}
	*e = out
	return nil
}

// Write emits the sub-chunks in the order the engine writes them.
func (e *Effect) Write(w *chunk.Writer) error {
	children := []child{
		{effectVersionID, func(w *chunk.Writer) error { return w.WriteU16(e.Version) }},
		{effectNameID, func(w *chunk.Writer) error { return w.WriteString(e.Name) }},
		{effectMaxParticlesID, func(w *chunk.Writer) error { return w.WriteU32(e.MaxParticles) }},
		{effectActionsID, (*actionList)(&e.Actions).Write},
		{effectFlagsID, func(w *chunk.Writer) error { return w.WriteU32(e.Flags) }},
	}
	if e.Frame != nil {
		children = append(children, child{effectFrameID, e.Frame.Write})
	}
	children = append(children, child{effectSpriteID, e.Sprite.Write})
	if e.TimeLimit != nil {
		children = append(children, child{effectTimeLimitID, func(w *chunk.Writer) error { return w.WriteF32(*e.TimeLimit) }})
	}
	if e.Collision != nil {
		children = append(children, child{effectCollisionID, e.Collision.Write})
	}
	if e.VelocityScale != nil {
		children = append(children, child{effectVelocityScaleID, e.VelocityScale.Write})
	}
	if e.Description != nil {
		children = append(children, child{effectDescriptionID, e.Description.Write})
	}
	if e.Rotation != nil {
		children = append(children, child{effectRotationID, e.Rotation.Write})
	}
	if e.EditorData != nil {
		children = append(children, child{effectEditorDataID, e.EditorData.Write})
	}
	return writeChildren(w, children)
}

// Import reads the effect section and its ".sprite", ".frame",
// ".collision", ".description", ".editor_data" and ".action.N"
// subsections.
func (e *Effect) Import(l *ltx.Ltx, section string) error {
	s, err := l.RequireSection(section)
	if err != nil {
		return err
	}
	if err := checkMeta(s, metaEffect); err != nil {
		return err
	}
	var out Effect
	var actionsCount uint32
	f := s.Fields()
	f.U16("version", &out.Version)
	f.String("name", &out.Name)
	f.U32("actions_count", &actionsCount)
	f.U32("max_particles", &out.MaxParticles)
	f.U32("flags", &out.Flags)
	f.Do(optionalF32("time_limit", &out.TimeLimit))
	f.Do(optionalVector("rotation", &out.Rotation))
	f.Do(optionalVector("velocity_scale", &out.VelocityScale))
	if err := f.Err(); err != nil {
		return err
	}

	for i := 0; ; i++ {
		if i >= maxActions {
			return chunk.Errorf(chunk.ErrParse, "particle effect [%s]: more than %d actions", section, maxActions)
		}
		as, ok := l.Section(actionSection(section, i))
		if !ok {
			break
		}
		var a Action
		if err := a.Import(as); err != nil {
			return err
		}
		out.Actions = append(out.Actions, a)
	}
	if err := chunk.Expect("particle effect ["+section+"] actions count", actionsCount, uint32(len(out.Actions))); err != nil {
		return err
	}

	sprite, err := l.RequireSection(section + ".sprite")
	if err != nil {
		return err
	}
	if err := out.Sprite.Import(sprite); err != nil {
		return err
	}
	if out.Frame, err = importOptional[Frame](l, section+".frame"); err != nil {
		return err
	}
	if out.Collision, err = importOptional[Collision](l, section+".collision"); err != nil {
		return err
	}
	if out.Description, err = importOptional[Description](l, section+".description"); err != nil {
		return err
	}
	if out.EditorData, err = importOptional[EditorData](l, section+".editor_data"); err != nil {
		return err
	}
	*e = out
	return nil
}

// Export writes the effect under section plus its subsections.
func (e *Effect) Export(l *ltx.Ltx, section string) {
	s := l.WithSection(section).
		Set(metaTypeKey, metaEffect).
		SetUint("version", uint64(e.Version)).
		Set("name", e.Name).
		SetUint("actions_count", uint64(len(e.Actions))).
		SetUint("max_particles", uint64(e.MaxParticles)).
		SetUint("flags", uint64(e.Flags))
	if e.TimeLimit != nil {
		s.SetF32("time_limit", *e.TimeLimit)
	}
	if e.Rotation != nil {
		s.Set("rotation", e.Rotation.String())
	}
	if e.VelocityScale != nil {
		s.Set("velocity_scale", e.VelocityScale.String())
	}

	e.Sprite.Export(l.WithSection(section + ".sprite"))
	for i := range e.Actions {
		e.Actions[i].Export(l.WithSection(actionSection(section, i)))
	}
	if e.Frame != nil {
		e.Frame.Export(l.WithSection(section + ".frame"))
	}
	if e.Collision != nil {
		e.Collision.Export(l.WithSection(section + ".collision"))
	}
	if e.Description != nil {
		e.Description.Export(l.WithSection(section + ".description"))
	}
	if e.EditorData != nil {
		e.EditorData.Export(l.WithSection(section + ".editor_data"))
	}
}

func actionSection(section string, i int) string {
	return section + ".action." + strconv.Itoa(i)
}

func readVectorChunk(children []chunk.Chunk, id uint32) (*geom.Vector3d, error) {
	c, ok := chunk.FindOptional(children, id)
	if !ok {
		return nil, nil
	}
	v, err := c.Reader().ReadF32VectorChunk()
	if err != nil {
		return nil, err
	}
	return &geom.Vector3d{X: v[0], Y: v[1], Z: v[2]}, nil
}

func optionalF32(key string, p **float32) func(*ltx.Section) error {
	return func(s *ltx.Section) error {
		if _, ok := s.Get(key); !ok {
			return nil
		}
		v, err := s.F32(key)
		if err != nil {
			return err
		}
		*p = &v
		return nil
	}
}

func optionalVector(key string, p **geom.Vector3d) func(*ltx.Section) error {
	return func(s *ltx.Section) error {
		if _, ok := s.Get(key); !ok {
			return nil
		}
		v, err := geom.ReadVector(s, key)
		if err != nil {
			return err
		}
		*p = &v
		return nil
	}
}
