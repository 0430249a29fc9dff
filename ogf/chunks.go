package ogf

import (
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
)

// Box is an axis aligned bounding box.
type Box struct {
	Min, Max geom.Vector3d
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center geom.Vector3d
	Radius float32
}

// Header is chunk 1, present in every model.
type Header struct {
	FormatVersion  uint8
	ModelType      uint8
	ShaderID       uint16
	BoundingBox    Box
	BoundingSphere Sphere
}

func (h *Header) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.U8(&h.FormatVersion)
	f.U8(&h.ModelType)
	f.U16(&h.ShaderID)
	f.Value(&h.BoundingBox.Min)
	f.Value(&h.BoundingBox.Max)
	f.Value(&h.BoundingSphere.Center)
	f.F32(&h.BoundingSphere.Radius)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("ogf header")
}

func (h *Header) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U8(h.FormatVersion)
	f.U8(h.ModelType)
	f.U16(h.ShaderID)
	f.Value(&h.BoundingBox.Min)
	f.Value(&h.BoundingBox.Max)
	f.Value(&h.BoundingSphere.Center)
	f.F32(h.BoundingSphere.Radius)
	return f.Err()
}

// Texture is chunk 2.
type Texture struct {
	Name   string
	Shader string
}

func (t *Texture) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&t.Name)
	f.String(&t.Shader)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("ogf texture")
}

func (t *Texture) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(t.Name)
	f.String(t.Shader)
	return f.Err()
}

// Description is chunk 18, the export provenance of the model.
type Description struct {
	Source     string
	ExportTool string
	ExportTime uint32
	Creator    string
	CreateTime uint32
	Editor     string
	EditTime   uint32
}

func (d *Description) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&d.Source)
	f.String(&d.ExportTool)
	f.U32(&d.ExportTime)
	f.String(&d.Creator)
	f.U32(&d.CreateTime)
	f.String(&d.Editor)
	f.U32(&d.EditTime)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("ogf description")
}

func (d *Description) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(d.Source)
	f.String(d.ExportTool)
	f.U32(d.ExportTime)
	f.String(d.Creator)
	f.U32(d.CreateTime)
	f.String(d.Editor)
	f.U32(d.EditTime)
	return f.Err()
}

// OrientedBox is the collision box stored with a bone.
type OrientedBox struct {
	Rotation    [3]geom.Vector3d
	Translation geom.Vector3d
	HalfSize    geom.Vector3d
}

func (b *OrientedBox) Read(r *chunk.Reader) error {
	f := r.Fields()
	for i := range b.Rotation {
		f.Value(&b.Rotation[i])
	}
	f.Value(&b.Translation)
	f.Value(&b.HalfSize)
	return f.Err()
}

func (b *OrientedBox) Write(w *chunk.Writer) error {
	f := w.Fields()
	for i := range b.Rotation {
		f.Value(&b.Rotation[i])
	}
	f.Value(&b.Translation)
	f.Value(&b.HalfSize)
	return f.Err()
}

// Bone is one skeleton entry of chunk 13.
type Bone struct {
	Name   string
	Parent string
	Box    OrientedBox
}

func (b *Bone) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&b.Name)
	f.String(&b.Parent)
	f.Value(&b.Box)
	return f.Err()
}

func (b *Bone) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(b.Name)
	f.String(b.Parent)
	f.Value(&b.Box)
	return f.Err()
}

// Bones is chunk 13.
type Bones []Bone

func (b *Bones) Read(r *chunk.Reader) error {
	bones, err := chunk.ReadList[Bone](r)
	if err != nil {
		return err
	}
	*b = bones
	return r.EnsureEnded("ogf bones")
}

func (b *Bones) Write(w *chunk.Writer) error {
	return chunk.WriteList(w, []Bone(*b))
}

// Kinematics lists the motion files a skeletal model plays. Chunk 24
// holds a counted list; the older chunk 19 holds exactly one reference.
type Kinematics struct {
	SourceChunkID uint32
	MotionRefs    []string
}

func (k *Kinematics) Read(r *chunk.Reader) error {
	if k.SourceChunkID == KinematicsChunkID {
		refs, err := r.ReadStrings()
		if err != nil {
			return err
		}
		k.MotionRefs = refs
	} else {
		ref, err := r.ReadString()
		if err != nil {
			return err
		}
		k.MotionRefs = []string{ref}
	}
	return r.EnsureEnded("ogf motion refs")
}

func (k *Kinematics) Write(w *chunk.Writer) error {
	if k.SourceChunkID == KinematicsChunkID {
		return w.WriteStrings(k.MotionRefs)
	}
	if len(k.MotionRefs) != 1 {
		return chunk.Errorf(chunk.ErrNotImplemented,
			"ogf motion refs chunk %d holds one reference, got %d", KinematicsOldChunkID, len(k.MotionRefs))
	}
	return w.WriteString(k.MotionRefs[0])
}
