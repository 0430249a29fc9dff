package ltx

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/meigma/xrf/chunk"
)

// String returns the value of a required key.
func (s *Section) String(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", &chunk.NotFoundError{What: fmt.Sprintf("ltx field [%s] %s", s.Name, key)}
	}
	return v, nil
}

func (s *Section) parseUint(key string, bits int) (uint64, error) {
	v, err := s.String(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		return 0, chunk.Errorf(chunk.ErrParse, "ltx field [%s] %s: %v", s.Name, key, err)
	}
	return n, nil
}

// U8 parses a required unsigned 8-bit field.
func (s *Section) U8(key string) (uint8, error) {
	n, err := s.parseUint(key, 8)
	return uint8(n), err
}

// U16 parses a required unsigned 16-bit field.
func (s *Section) U16(key string) (uint16, error) {
	n, err := s.parseUint(key, 16)
	return uint16(n), err
}

// U32 parses a required unsigned 32-bit field.
func (s *Section) U32(key string) (uint32, error) {
	n, err := s.parseUint(key, 32)
	return uint32(n), err
}

// U64 parses a required unsigned 64-bit field.
func (s *Section) U64(key string) (uint64, error) {
	return s.parseUint(key, 64)
}

// I32 parses a required signed 32-bit field.
func (s *Section) I32(key string) (int32, error) {
	v, err := s.String(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, chunk.Errorf(chunk.ErrParse, "ltx field [%s] %s: %v", s.Name, key, err)
	}
	return int32(n), nil
}

// F32 parses a required float field.
func (s *Section) F32(key string) (float32, error) {
	v, err := s.String(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, chunk.Errorf(chunk.ErrParse, "ltx field [%s] %s: %v", s.Name, key, err)
	}
	return float32(f), nil
}

// SetUint stores an unsigned integer.
func (s *Section) SetUint(key string, v uint64) *Section {
	return s.Set(key, strconv.FormatUint(v, 10))
}

// SetInt stores a signed integer.
func (s *Section) SetInt(key string, v int64) *Section {
	return s.Set(key, strconv.FormatInt(v, 10))
}

// SetF32 stores a float using the shortest text that parses back to the
// same value.
func (s *Section) SetF32(key string, v float32) *Section {
	return s.Set(key, FormatF32(v))
}

// FormatF32 formats v so that strconv.ParseFloat(.., 32) restores it.
func FormatF32(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// FieldReader reads typed fields of one section and keeps the first
// error, mirroring chunk.FieldReader for the text form.
type FieldReader struct {
	s   *Section
	err error
}

// Fields returns a FieldReader over s.
func (s *Section) Fields() *FieldReader {
	return &FieldReader{s: s}
}

// Err returns the first error encountered.
func (f *FieldReader) Err() error {
	return f.err
}

// Section returns the section being read.
func (f *FieldReader) Section() *Section {
	return f.s
}

func (f *FieldReader) U8(key string, p *uint8) {
	if f.err == nil {
		*p, f.err = f.s.U8(key)
	}
}

func (f *FieldReader) U16(key string, p *uint16) {
	if f.err == nil {
		*p, f.err = f.s.U16(key)
	}
}

func (f *FieldReader) U32(key string, p *uint32) {
	if f.err == nil {
		*p, f.err = f.s.U32(key)
	}
}

func (f *FieldReader) I32(key string, p *int32) {
	if f.err == nil {
		*p, f.err = f.s.I32(key)
	}
}

func (f *FieldReader) U64(key string, p *uint64) {
	if f.err == nil {
		*p, f.err = f.s.U64(key)
	}
}

func (f *FieldReader) F32(key string, p *float32) {
	if f.err == nil {
		*p, f.err = f.s.F32(key)
	}
}

func (f *FieldReader) String(key string, p *string) {
	if f.err == nil {
		*p, f.err = f.s.String(key)
	}
}

// U16List reads a comma separated list of u16 values.
func (f *FieldReader) U16List(key string, p *[]uint16) {
	if f.err == nil {
		*p, f.err = f.s.U16List(key)
	}
}

// Base64 reads a base64 encoded byte field.
func (f *FieldReader) Base64(key string, p *[]byte) {
	if f.err == nil {
		*p, f.err = f.s.Base64(key)
	}
}

// Do runs fn unless an earlier field failed.
func (f *FieldReader) Do(fn func(s *Section) error) {
	if f.err == nil {
		f.err = fn(f.s)
	}
}

// U16List parses a required comma separated list of u16 values. An empty
// value is an empty list.
func (s *Section) U16List(key string) ([]uint16, error) {
	v, err := s.String(key)
	if err != nil {
		return nil, err
	}
	out := []uint16{}
	if strings.TrimSpace(v) == "" {
		return out, nil
	}
	for part := range strings.SplitSeq(v, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 16)
		if err != nil {
			return nil, chunk.Errorf(chunk.ErrParse, "ltx field [%s] %s: %v", s.Name, key, err)
		}
		out = append(out, uint16(n))
	}
	return out, nil
}

// SetU16List stores values as a comma separated list.
func (s *Section) SetU16List(key string, values []uint16) *Section {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return s.Set(key, strings.Join(parts, ","))
}

// Base64 decodes a required base64 field.
func (s *Section) Base64(key string) ([]byte, error) {
	v, err := s.String(key)
	if err != nil {
		return nil, err
	}
	out, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, chunk.Errorf(chunk.ErrParse, "ltx field [%s] %s: %v", s.Name, key, err)
	}
	return out, nil
}

// SetBase64 stores data base64 encoded.
func (s *Section) SetBase64(key string, data []byte) *Section {
	return s.Set(key, base64.StdEncoding.EncodeToString(data))
}
