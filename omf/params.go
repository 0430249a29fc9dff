package omf

import (
	"github.com/meigma/xrf/chunk"
)

// PartBone is one bone assigned to a partition.
type PartBone struct {
	Name string
	ID   uint32
}

// Part is a named bone partition, such as the torso or the legs.
type Part struct {
	Name  string
	Bones []PartBone
}

func (p *Part) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&p.Name)
	f.Do(func(r *chunk.Reader) error {
		count, err := r.ReadU16()
		if err != nil {
			return err
		}
		p.Bones = make([]PartBone, count)
		for i := range p.Bones {
			bf := r.Fields()
			bf.String(&p.Bones[i].Name)
			bf.U32(&p.Bones[i].ID)
			if err := bf.Err(); err != nil {
				return err
			}
		}
		return nil
	})
	return f.Err()
}

func (p *Part) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(p.Name)
	f.U16(uint16(len(p.Bones))) //nolint:gosec // bone counts fit u16
	for _, b := range p.Bones {
		f.String(b.Name)
		f.U32(b.ID)
	}
	return f.Err()
}

// Interval is a time span of a motion mark.
type Interval struct {
	Start, End float32
}

// Mark is a named set of intervals on a motion, used by the engine to
// time footsteps and similar events. Marks exist from version 4.
type Mark struct {
	Name      string
	Intervals []Interval
}

func (m *Mark) Read(r *chunk.Reader) error {
	name, err := r.ReadStringLine()
	if err != nil {
		return err
	}
	m.Name = name
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Intervals = make([]Interval, 0, min(int(count), r.Remaining()/8))
	for range count {
		var iv Interval
		f := r.Fields()
		f.F32(&iv.Start)
		f.F32(&iv.End)
		if err := f.Err(); err != nil {
			return err
		}
		m.Intervals = append(m.Intervals, iv)
	}
	return nil
}

func (m *Mark) Write(w *chunk.Writer) error {
	if err := w.WriteStringLine(m.Name); err != nil {
		return err
	}
	f := w.Fields()
	f.U32(uint32(len(m.Intervals))) //nolint:gosec // interval counts fit u32
	for _, iv := range m.Intervals {
		f.F32(iv.Start)
		f.F32(iv.End)
	}
	return f.Err()
}

// MotionDef describes how the engine plays one motion.
type MotionDef struct {
	Name       string
	Flags      uint32
	BoneOrPart uint16
	MotionID   uint16
	Speed      float32
	Power      float32
	Accrue     float32
	Falloff    float32
	// Marks is nil for version 3 files.
	Marks []Mark
}

func (d *MotionDef) read(r *chunk.Reader, version uint16) error {
	f := r.Fields()
	f.String(&d.Name)
	f.U32(&d.Flags)
	f.U16(&d.BoneOrPart)
	f.U16(&d.MotionID)
	f.F32(&d.Speed)
	f.F32(&d.Power)
	f.F32(&d.Accrue)
	f.F32(&d.Falloff)
	if version == MarksVersion {
		f.Do(func(r *chunk.Reader) error {
			var err error
			d.Marks, err = chunk.ReadList[Mark](r)
			return err
		})
	}
	return f.Err()
}

func (d *MotionDef) write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(d.Name)
	f.U32(d.Flags)
	f.U16(d.BoneOrPart)
	f.U16(d.MotionID)
	f.F32(d.Speed)
	f.F32(d.Power)
	f.F32(d.Accrue)
	f.F32(d.Falloff)
	f.Do(func(w *chunk.Writer) error {
		return chunk.WriteList(w, d.Marks)
	})
	return f.Err()
}

// Parameters is chunk 15: bone partitions and motion definitions.
type Parameters struct {
	Version uint16
	Parts   []Part
	Motions []MotionDef
}

func (p *Parameters) Read(r *chunk.Reader) error {
	version, err := r.ReadU16()
	if err != nil {
		return err
	}
	if version != LegacyVersion && version != MarksVersion {
		return chunk.Errorf(chunk.ErrNotImplemented, "omf parameters version %d, supported %d and %d",
			version, LegacyVersion, MarksVersion)
	}
	p.Version = version

	parts, err := r.ReadU16()
	if err != nil {
		return err
	}
	p.Parts = make([]Part, parts)
	for i := range p.Parts {
		if err := p.Parts[i].Read(r); err != nil {
			return err
		}
	}

	motions, err := r.ReadU16()
	if err != nil {
		return err
	}
	p.Motions = make([]MotionDef, motions)
	for i := range p.Motions {
		if err := p.Motions[i].read(r, version); err != nil {
			return err
		}
	}
	return r.EnsureEnded("omf parameters")
}

func (p *Parameters) Write(w *chunk.Writer) error {
	if p.Version != MarksVersion {
		return chunk.Errorf(chunk.ErrNotImplemented, "write omf parameters version %d, only %d is supported",
			p.Version, MarksVersion)
	}
	f := w.Fields()
	f.U16(p.Version)
	f.U16(uint16(len(p.Parts))) //nolint:gosec // partition counts fit u16
	for i := range p.Parts {
		f.Value(&p.Parts[i])
	}
	f.U16(uint16(len(p.Motions))) //nolint:gosec // motion counts fit u16
	for i := range p.Motions {
		f.Do(p.Motions[i].write)
	}
	return f.Err()
}
