// Package geom holds the small geometric and time values shared by
// spawn, particle and model records.
package geom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

// Vector3d is a three component float vector.
type Vector3d struct {
	X, Y, Z float32
}

// Read decodes 12 bytes.
func (v *Vector3d) Read(r *chunk.Reader) error {
	var err error
	if v.X, err = r.ReadF32(); err != nil {
		return err
	}
	if v.Y, err = r.ReadF32(); err != nil {
		return err
	}
	v.Z, err = r.ReadF32()
	return err
}

// Write encodes 12 bytes.
func (v *Vector3d) Write(w *chunk.Writer) error {
	if err := w.WriteF32(v.X); err != nil {
		return err
	}
	if err := w.WriteF32(v.Y); err != nil {
		return err
	}
	return w.WriteF32(v.Z)
}

// String renders "x,y,z".
func (v Vector3d) String() string {
	return ltx.FormatF32(v.X) + "," + ltx.FormatF32(v.Y) + "," + ltx.FormatF32(v.Z)
}

// ParseVector3d parses the "x,y,z" form.
func ParseVector3d(s string) (Vector3d, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Vector3d{}, chunk.Errorf(chunk.ErrParse, "vector %q: expected 3 components", s)
	}
	var out [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Vector3d{}, chunk.Errorf(chunk.ErrParse, "vector %q: %v", s, err)
		}
		out[i] = float32(f)
	}
	return Vector3d{X: out[0], Y: out[1], Z: out[2]}, nil
}

// ReadVector parses a required vector field of s.
func ReadVector(s *ltx.Section, key string) (Vector3d, error) {
	v, err := s.String(key)
	if err != nil {
		return Vector3d{}, err
	}
	out, err := ParseVector3d(v)
	if err != nil {
		return Vector3d{}, fmt.Errorf("ltx field [%s] %s: %w", s.Name, key, err)
	}
	return out, nil
}

// ImportVector reads a vector field through f.
func ImportVector(f *ltx.FieldReader, key string, p *Vector3d) {
	f.Do(func(s *ltx.Section) error {
		v, err := ReadVector(s, key)
		*p = v
		return err
	})
}
