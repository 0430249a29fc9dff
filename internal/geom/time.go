package geom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

// Nil is the text stored for an absent optional value.
const Nil = "nil"

// Time is a game calendar timestamp.
type Time struct {
	Year, Month, Day     uint8
	Hour, Minute, Second uint8
	Millis               uint16
}

// Read decodes six bytes and a u16 millisecond count.
func (t *Time) Read(r *chunk.Reader) error {
	for _, p := range []*uint8{&t.Year, &t.Month, &t.Day, &t.Hour, &t.Minute, &t.Second} {
		v, err := r.ReadU8()
		if err != nil {
			return err
		}
		*p = v
	}
	var err error
	t.Millis, err = r.ReadU16()
	return err
}

// Write encodes the timestamp.
func (t *Time) Write(w *chunk.Writer) error {
	for _, v := range []uint8{t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second} {
		if err := w.WriteU8(v); err != nil {
			return err
		}
	}
	return w.WriteU16(t.Millis)
}

// String renders "y,m,d,h,mi,s,ms".
func (t Time) String() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d,%d", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, t.Millis)
}

// FormatOptionalTime renders t, or Nil when t is nil.
func FormatOptionalTime(t *Time) string {
	if t == nil {
		return Nil
	}
	return t.String()
}

// ParseTime parses the comma separated form produced by String.
func ParseTime(s string) (Time, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 7 {
		return Time{}, chunk.Errorf(chunk.ErrParse, "time %q: expected 7 components", s)
	}
	var vals [7]uint64
	for i, p := range parts {
		bits := 8
		if i == 6 {
			bits = 16
		}
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, bits)
		if err != nil {
			return Time{}, chunk.Errorf(chunk.ErrParse, "time %q: %v", s, err)
		}
		vals[i] = v
	}
	return Time{
		Year: uint8(vals[0]), Month: uint8(vals[1]), Day: uint8(vals[2]),
		Hour: uint8(vals[3]), Minute: uint8(vals[4]), Second: uint8(vals[5]),
		Millis: uint16(vals[6]),
	}, nil
}

// ParseOptionalTime parses s, returning nil for Nil.
func ParseOptionalTime(s string) (*Time, error) {
	if strings.TrimSpace(s) == Nil {
		return nil, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ImportOptionalTime reads an optional time field through f.
func ImportOptionalTime(f *ltx.FieldReader, key string, p **Time) {
	f.Do(func(s *ltx.Section) error {
		v, err := s.String(key)
		if err != nil {
			return err
		}
		*p, err = ParseOptionalTime(v)
		return err
	})
}
