package chunk

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeString converts Windows-1251 bytes to a UTF-8 string.
func DecodeString(b []byte) (string, error) {
	out, err := charmap.Windows1251.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: decode windows-1251: %w", ErrEncoding, err)
	}
	return string(out), nil
}

// EncodeString converts a UTF-8 string to Windows-1251 bytes.
func EncodeString(s string) ([]byte, error) {
	out, err := charmap.Windows1251.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: encode %q as windows-1251: %w", ErrEncoding, s, err)
	}
	return out, nil
}

// ReadString reads a null-terminated Windows-1251 string and leaves the
// cursor just past the terminator.
func (r *Reader) ReadString() (string, error) {
	end := bytes.IndexByte(r.data[r.pos:], 0)
	if end < 0 {
		return "", Errorf(ErrParse, "unterminated string at offset %d", r.pos)
	}
	raw := r.data[r.pos : r.pos+end]
	r.pos += end + 1
	return DecodeString(raw)
}

// ReadStringLine reads a Windows-1251 string terminated by CRLF.
func (r *Reader) ReadStringLine() (string, error) {
	end := bytes.Index(r.data[r.pos:], []byte("\r\n"))
	if end < 0 {
		return "", Errorf(ErrParse, "unterminated line at offset %d", r.pos)
	}
	raw := r.data[r.pos : r.pos+end]
	r.pos += end + 2
	return DecodeString(raw)
}

// ReadStrings reads a u32 count followed by that many strings.
func (r *Reader) ReadStrings() ([]string, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, min(int(count), r.Remaining()))
	for range count {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteString writes s in Windows-1251 followed by exactly one zero byte.
// A string holding a zero byte cannot be read back and is rejected.
func (w *Writer) WriteString(s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return Errorf(ErrEncoding, "string %q has a zero byte at %d", s, i)
	}
	b, err := EncodeString(s)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	w.buf.WriteByte(0)
	return nil
}

// WriteStringLine writes s in Windows-1251 followed by CRLF. s must not
// contain CR or LF.
func (w *Writer) WriteStringLine(s string) error {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return Errorf(ErrEncoding, "line %q has a line break at %d", s, i)
	}
	b, err := EncodeString(s)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	w.buf.WriteString("\r\n")
	return nil
}

// WriteStrings writes a u32 count followed by the strings.
func (w *Writer) WriteStrings(values []string) error {
	if err := w.WriteU32(uint32(len(values))); err != nil { //nolint:gosec // list sizes fit u32
		return err
	}
	for _, s := range values {
		if err := w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}
