package particles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

// domainFields is the number of comma separated values in the text form.
const domainFields = 17

// Domain is a region of space used by actions to pick or test positions.
// Type selects the shape (point, line, sphere and so on); the meaning of
// the vectors and radii depends on it.
type Domain struct {
	Type        uint32
	Coordinates [2]geom.Vector3d
	Basis       [2]geom.Vector3d
	Radius1     float32
	Radius2     float32
	Radius1Sqr  float32
	Radius2Sqr  float32
}

func (d *Domain) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.U32(&d.Type)
	f.Value(&d.Coordinates[0])
	f.Value(&d.Coordinates[1])
	f.Value(&d.Basis[0])
	f.Value(&d.Basis[1])
	f.F32(&d.Radius1)
	f.F32(&d.Radius2)
	f.F32(&d.Radius1Sqr)
	f.F32(&d.Radius2Sqr)
	return f.Err()
}

func (d *Domain) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U32(d.Type)
	f.Value(&d.Coordinates[0])
	f.Value(&d.Coordinates[1])
	f.Value(&d.Basis[0])
	f.Value(&d.Basis[1])
	f.F32(d.Radius1)
	f.F32(d.Radius2)
	f.F32(d.Radius1Sqr)
	f.F32(d.Radius2Sqr)
	return f.Err()
}

// String renders the type followed by the 16 float components.
func (d Domain) String() string {
	parts := make([]string, 0, domainFields)
	parts = append(parts, strconv.FormatUint(uint64(d.Type), 10))
	for _, v := range []geom.Vector3d{d.Coordinates[0], d.Coordinates[1], d.Basis[0], d.Basis[1]} {
		parts = append(parts, ltx.FormatF32(v.X), ltx.FormatF32(v.Y), ltx.FormatF32(v.Z))
	}
	for _, v := range []float32{d.Radius1, d.Radius2, d.Radius1Sqr, d.Radius2Sqr} {
		parts = append(parts, ltx.FormatF32(v))
	}
	return strings.Join(parts, ",")
}

// ParseDomain parses the form produced by String.
func ParseDomain(s string) (Domain, error) {
	parts := strings.Split(s, ",")
	if len(parts) != domainFields {
		return Domain{}, chunk.Errorf(chunk.ErrParse, "domain %q: expected %d values, got %d", s, domainFields, len(parts))
	}
	kind, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return Domain{}, chunk.Errorf(chunk.ErrParse, "domain %q: type: %v", s, err)
	}
	var values [domainFields - 1]float32
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Domain{}, chunk.Errorf(chunk.ErrParse, "domain %q: value %d: %v", s, i+1, err)
		}
		values[i] = float32(v)
	}
	vec := func(i int) geom.Vector3d {
		return geom.Vector3d{X: values[i], Y: values[i+1], Z: values[i+2]}
	}
	return Domain{
		Type:        uint32(kind),
		Coordinates: [2]geom.Vector3d{vec(0), vec(3)},
		Basis:       [2]geom.Vector3d{vec(6), vec(9)},
		Radius1:     values[12],
		Radius2:     values[13],
		Radius1Sqr:  values[14],
		Radius2Sqr:  values[15],
	}, nil
}

func importDomain(f *ltx.FieldReader, key string, p *Domain) {
	f.Do(func(s *ltx.Section) error {
		text, err := s.String(key)
		if err != nil {
			return err
		}
		if *p, err = ParseDomain(text); err != nil {
			return fmt.Errorf("ltx field [%s] %s: %w", s.Name, key, err)
		}
		return nil
	})
}
