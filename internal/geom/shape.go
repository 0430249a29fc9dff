package geom

import (
	"fmt"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

const (
	shapeSphere uint8 = 0
	shapeBox    uint8 = 1
)

// Shape is either a sphere or a box.
type Shape struct {
	// Box selects the box form; otherwise Center and Radius describe a
	// sphere.
	Box bool

	Center Vector3d
	Radius float32

	A, B, C, D Vector3d
}

// Sphere returns a sphere shape.
func Sphere(center Vector3d, radius float32) Shape {
	return Shape{Center: center, Radius: radius}
}

// BoxShape returns a box shape from its four axis vectors.
func BoxShape(a, b, c, d Vector3d) Shape {
	return Shape{Box: true, A: a, B: b, C: c, D: d}
}

// Read decodes a type byte followed by the shape body.
func (s *Shape) Read(r *chunk.Reader) error {
	kind, err := r.ReadU8()
	if err != nil {
		return err
	}
	switch kind {
	case shapeSphere:
		*s = Shape{}
		if err := s.Center.Read(r); err != nil {
			return err
		}
		s.Radius, err = r.ReadF32()
		return err
	case shapeBox:
		*s = Shape{Box: true}
		for _, v := range []*Vector3d{&s.A, &s.B, &s.C, &s.D} {
			if err := v.Read(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return chunk.Errorf(chunk.ErrParse, "unexpected shape type %d", kind)
	}
}

// Write encodes the type byte and body.
func (s *Shape) Write(w *chunk.Writer) error {
	if !s.Box {
		if err := w.WriteU8(shapeSphere); err != nil {
			return err
		}
		if err := s.Center.Write(w); err != nil {
			return err
		}
		return w.WriteF32(s.Radius)
	}
	if err := w.WriteU8(shapeBox); err != nil {
		return err
	}
	for _, v := range []*Vector3d{&s.A, &s.B, &s.C, &s.D} {
		if err := v.Write(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadShapes decodes a u8 count followed by that many shapes.
func ReadShapes(r *chunk.Reader) ([]Shape, error) {
	count, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	shapes := make([]Shape, count)
	for i := range shapes {
		if err := shapes[i].Read(r); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
	}
	return shapes, nil
}

// WriteShapes encodes a u8 count followed by the shapes.
func WriteShapes(w *chunk.Writer, shapes []Shape) error {
	if len(shapes) > 0xFF {
		return chunk.Errorf(chunk.ErrParse, "too many shapes: %d", len(shapes))
	}
	if err := w.WriteU8(uint8(len(shapes))); err != nil {
		return err
	}
	for i := range shapes {
		if err := shapes[i].Write(w); err != nil {
			return err
		}
	}
	return nil
}

// ImportShapes reads shapes_count and the shape.N.* keys of s.
func ImportShapes(s *ltx.Section) ([]Shape, error) {
	count, err := s.U8("shapes_count")
	if err != nil {
		return nil, err
	}
	shapes := make([]Shape, count)
	for i := range shapes {
		prefix := fmt.Sprintf("shape.%d", i)
		kind, err := s.String(prefix + ".type")
		if err != nil {
			return nil, err
		}
		switch kind {
		case "sphere":
			center, err := ReadVector(s, prefix+".center")
			if err != nil {
				return nil, err
			}
			radius, err := s.F32(prefix + ".radius")
			if err != nil {
				return nil, err
			}
			shapes[i] = Sphere(center, radius)
		case "box":
			var axes [4]Vector3d
			for j, key := range []string{".a", ".b", ".c", ".d"} {
				if axes[j], err = ReadVector(s, prefix+key); err != nil {
					return nil, err
				}
			}
			shapes[i] = BoxShape(axes[0], axes[1], axes[2], axes[3])
		default:
			return nil, chunk.Errorf(chunk.ErrParse, "ltx section [%s]: unknown shape type %q", s.Name, kind)
		}
	}
	return shapes, nil
}

// ExportShapes writes shapes into s.
func ExportShapes(s *ltx.Section, shapes []Shape) {
	s.SetUint("shapes_count", uint64(len(shapes)))
	for i, shape := range shapes {
		prefix := fmt.Sprintf("shape.%d", i)
		if !shape.Box {
			s.Set(prefix+".type", "sphere").
				Set(prefix+".center", shape.Center.String()).
				SetF32(prefix+".radius", shape.Radius)
			continue
		}
		s.Set(prefix+".type", "box").
			Set(prefix+".a", shape.A.String()).
			Set(prefix+".b", shape.B.String()).
			Set(prefix+".c", shape.C.String()).
			Set(prefix+".d", shape.D.String())
	}
}
