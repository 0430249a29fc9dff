package particles

import (
	"fmt"
	"strconv"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

// Group sub-chunk ids.
const (
	groupVersionID     = 1
	groupNameID        = 2
	groupFlagsID       = 3
	groupEffectsID     = 4
	groupTimeLimitID   = 5
	groupDescriptionID = 6
	groupEffectsOldID  = 7
)

// GroupVersion is the only group layout this package reads.
const GroupVersion = 3

// GroupEffect schedules one effect inside a group and names the effects
// spawned on its particles' play, birth and death.
type GroupEffect struct {
	Name      string
	OnPlay    string
	OnBirth   string
	OnDead    string
	TimeStart float32
	TimeEnd   float32
	Flags     uint32
}

func (g *GroupEffect) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&g.Name)
	f.String(&g.OnPlay)
	f.String(&g.OnBirth)
	f.String(&g.OnDead)
	f.F32(&g.TimeStart)
	f.F32(&g.TimeEnd)
	f.U32(&g.Flags)
	return f.Err()
}

func (g *GroupEffect) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(g.Name)
	f.String(g.OnPlay)
	f.String(g.OnBirth)
	f.String(g.OnDead)
	f.F32(g.TimeStart)
	f.F32(g.TimeEnd)
	f.U32(g.Flags)
	return f.Err()
}

func (g *GroupEffect) Import(s *ltx.Section) error {
	if err := checkMeta(s, metaGroupEffect); err != nil {
		return err
	}
	f := s.Fields()
	f.String("name", &g.Name)
	f.String("on_play_child_name", &g.OnPlay)
	f.String("on_birth_child_name", &g.OnBirth)
	f.String("on_dead_child_name", &g.OnDead)
	f.F32("time_0", &g.TimeStart)
	f.F32("time_1", &g.TimeEnd)
	f.U32("flags", &g.Flags)
	return f.Err()
}

func (g *GroupEffect) Export(s *ltx.Section) {
	s.Set(metaTypeKey, metaGroupEffect).
		Set("name", g.Name).
		Set("on_play_child_name", g.OnPlay).
		Set("on_birth_child_name", g.OnBirth).
		Set("on_dead_child_name", g.OnDead).
		SetF32("time_0", g.TimeStart).
		SetF32("time_1", g.TimeEnd).
		SetUint("flags", uint64(g.Flags))
}

// GroupEffectOld is the pre-release layout of GroupEffect, kept by some
// files next to the current list.
type GroupEffectOld struct {
	Name      string
	OnPlay    string
	TimeStart float32
	TimeEnd   float32
	Flags     uint32
}

func (g *GroupEffectOld) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&g.Name)
	f.String(&g.OnPlay)
	f.F32(&g.TimeStart)
	f.F32(&g.TimeEnd)
	f.U32(&g.Flags)
	return f.Err()
}

func (g *GroupEffectOld) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(g.Name)
	f.String(g.OnPlay)
	f.F32(g.TimeStart)
	f.F32(g.TimeEnd)
	f.U32(g.Flags)
	return f.Err()
}

func (g *GroupEffectOld) Import(s *ltx.Section) error {
	if err := checkMeta(s, metaGroupEffectOld); err != nil {
		return err
	}
	f := s.Fields()
	f.String("name", &g.Name)
	f.String("on_play_child_name", &g.OnPlay)
	f.F32("time_0", &g.TimeStart)
	f.F32("time_1", &g.TimeEnd)
	f.U32("flags", &g.Flags)
	return f.Err()
}

func (g *GroupEffectOld) Export(s *ltx.Section) {
	s.Set(metaTypeKey, metaGroupEffectOld).
		Set("name", g.Name).
		Set("on_play_child_name", g.OnPlay).
		SetF32("time_0", g.TimeStart).
		SetF32("time_1", g.TimeEnd).
		SetUint("flags", uint64(g.Flags))
}

// Group plays several effects together on a shared timeline.
type Group struct {
	Version     uint16
	Name        string
	Flags       uint32
	TimeLimit   float32
	Effects     []GroupEffect
	Description *Description
	EffectsOld  []GroupEffectOld
}

func (g *Group) Read(r *chunk.Reader) error {
	children, err := r.ReadAllChildren()
	if err != nil {
		return err
	}
	var out Group
	required := []struct {
		id   uint32
		read func(r *chunk.Reader) error
	}{
		{groupVersionID, func(r *chunk.Reader) (err error) { out.Version, err = r.ReadU16Chunk(); return }},
		{groupNameID, func(r *chunk.Reader) (err error) { out.Name, err = r.ReadStringChunk(); return }},
		{groupFlagsID, func(r *chunk.Reader) (err error) { out.Flags, err = r.ReadU32Chunk(); return }},
		{groupEffectsID, listReader(&out.Effects)},
		{groupTimeLimitID, func(r *chunk.Reader) (err error) { out.TimeLimit, err = r.ReadF32Chunk(); return }},
	}
	for _, part := range required {
		c, err := chunk.FindRequired(children, part.id)
		if err != nil {
			return fmt.Errorf("particle group: %w", err)
		}
		if err := part.read(c.Reader()); err != nil {
			return fmt.Errorf("particle group %q: chunk %d: %w", out.Name, part.id, err)
		}
	}
	if out.Version != GroupVersion {
		return chunk.Errorf(chunk.ErrNotImplemented, "particle group %q: version %d, only %d is supported",
			out.Name, out.Version, GroupVersion)
	}
	if out.Description, err = readOptional[Description](children, groupDescriptionID); err != nil {
		return fmt.Errorf("particle group %q: description: %w", out.Name, err)
	}
	if c, ok := chunk.FindOptional(children, groupEffectsOldID); ok {
		if err := listReader(&out.EffectsOld)(c.Reader()); err != nil {
			return fmt.Errorf("particle group %q: old effects: %w", out.Name, err)
		}
	}
	*g = out
	return nil
}

func (g *Group) Write(w *chunk.Writer) error {
	children := []child{
		{groupVersionID, func(w *chunk.Writer) error { return w.WriteU16(g.Version) }},
		{groupNameID, func(w *chunk.Writer) error { return w.WriteString(g.Name) }},
		{groupFlagsID, func(w *chunk.Writer) error { return w.WriteU32(g.Flags) }},
		{groupEffectsID, func(w *chunk.Writer) error { return chunk.WriteList(w, g.Effects) }},
		{groupTimeLimitID, func(w *chunk.Writer) error { return w.WriteF32(g.TimeLimit) }},
	}
	if g.Description != nil {
		children = append(children, child{groupDescriptionID, g.Description.Write})
	}
	if len(g.EffectsOld) > 0 {
		children = append(children, child{groupEffectsOldID, func(w *chunk.Writer) error {
			return chunk.WriteList(w, g.EffectsOld)
		}})
	}
	return writeChildren(w, children)
}

// Import reads the group section with its ".effect.N", ".effect_old.N"
// and ".description" subsections.
func (g *Group) Import(l *ltx.Ltx, section string) error {
	s, err := l.RequireSection(section)
	if err != nil {
		return err
	}
	if err := checkMeta(s, metaGroup); err != nil {
		return err
	}
	var out Group
	f := s.Fields()
	f.U16("version", &out.Version)
	f.String("name", &out.Name)
	f.U32("flags", &out.Flags)
	f.F32("time_limit", &out.TimeLimit)
	if err := f.Err(); err != nil {
		return err
	}
	if out.Effects, err = importIndexed[GroupEffect](l, section+".effect."); err != nil {
		return err
	}
	if out.EffectsOld, err = importIndexed[GroupEffectOld](l, section+".effect_old."); err != nil {
		return err
	}
	if out.Description, err = importOptional[Description](l, section+".description"); err != nil {
		return err
	}
	*g = out
	return nil
}

func (g *Group) Export(l *ltx.Ltx, section string) {
	l.WithSection(section).
		Set(metaTypeKey, metaGroup).
		SetUint("version", uint64(g.Version)).
		Set("name", g.Name).
		SetUint("flags", uint64(g.Flags)).
		SetF32("time_limit", g.TimeLimit)
	for i := range g.Effects {
		g.Effects[i].Export(l.WithSection(section + ".effect." + strconv.Itoa(i)))
	}
	for i := range g.EffectsOld {
		g.EffectsOld[i].Export(l.WithSection(section + ".effect_old." + strconv.Itoa(i)))
	}
	if g.Description != nil {
		g.Description.Export(l.WithSection(section + ".description"))
	}
}

// listReader decodes a u32-counted list that must fill the chunk.
func listReader[T any, P record[T]](p *[]T) func(r *chunk.Reader) error {
	return func(r *chunk.Reader) error {
		items, err := chunk.ReadList[T, P](r)
		if err != nil {
			return err
		}
		*p = items
		return r.EnsureEnded("list")
	}
}

// importIndexed reads prefix+"0", prefix+"1" and so on until a section is
// missing.
func importIndexed[T any, P importer[T]](l *ltx.Ltx, prefix string) ([]T, error) {
	var out []T
	for i := 0; ; i++ {
		if i >= maxActions {
			return nil, chunk.Errorf(chunk.ErrParse, "ltx sections %s*: more than %d entries", prefix, maxActions)
		}
		s, ok := l.Section(prefix + strconv.Itoa(i))
		if !ok {
			return out, nil
		}
		var v T
		if err := P(&v).Import(s); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}
