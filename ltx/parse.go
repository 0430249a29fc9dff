package ltx

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/meigma/xrf/chunk"
)

// RootSection names the implicit section holding keys declared before the
// first header.
const RootSection = ""

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads LTX text. Includes and parents are recorded, not applied.
func Parse(r io.Reader) (*Ltx, error) {
	l := New()
	var current *Section
	headingDone := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}

		if strings.HasPrefix(text, "#") {
			if headingDone {
				return nil, chunk.Errorf(chunk.ErrParse, "ltx line %d: #include after section data", line)
			}
			target, err := parseInclude(text)
			if err != nil {
				return nil, fmt.Errorf("ltx line %d: %w", line, err)
			}
			for _, existing := range l.Includes {
				if existing == target {
					return nil, chunk.Errorf(chunk.ErrParse, "ltx line %d: %q included more than once", line, target)
				}
			}
			l.Includes = append(l.Includes, target)
			continue
		}
		headingDone = true

		if strings.HasPrefix(text, "[") {
			s, err := parseHeader(stripComment(text))
			if err != nil {
				return nil, fmt.Errorf("ltx line %d: %w", line, err)
			}
			if err := l.add(s); err != nil {
				return nil, fmt.Errorf("ltx line %d: %w", line, err)
			}
			current = s
			continue
		}

		if current == nil {
			current = l.WithSection(RootSection)
		}
		key, value, _ := strings.Cut(stripComment(text), "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, chunk.Errorf(chunk.ErrParse, "ltx line %d: empty key", line)
		}
		current.Set(key, strings.TrimSpace(value))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	return l, nil
}

// ParseBytes decodes raw file bytes and parses them. Files carrying a
// UTF-8 BOM are read as UTF-8, everything else as Windows-1251.
func ParseBytes(data []byte) (*Ltx, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	return Parse(strings.NewReader(text))
}

// ParseFile reads the file at path without resolving it.
func ParseFile(path string) (*Ltx, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	l, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("ltx %s: %w", path, err)
	}
	return l, nil
}

// LoadFile reads the file at path and applies its includes and
// inheritance.
func LoadFile(path string) (*Ltx, error) {
	l, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return l.Resolve(path)
}

func decodeText(data []byte) (string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		rest := data[len(utf8BOM):]
		if !utf8.Valid(rest) {
			return "", chunk.Errorf(chunk.ErrEncoding, "ltx: invalid utf-8 after byte order mark")
		}
		return string(rest), nil
	}
	out, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", chunk.ErrEncoding, err)
	}
	return string(out), nil
}

func parseInclude(text string) (string, error) {
	rest, ok := strings.CutPrefix(text, "#include")
	if !ok {
		return "", chunk.Errorf(chunk.ErrParse, "unexpected directive %q", text)
	}
	rest = strings.TrimSpace(stripComment(rest))
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", chunk.Errorf(chunk.ErrParse, "malformed include %q", text)
	}
	target := rest[1 : len(rest)-1]
	if target == "" {
		return "", chunk.Errorf(chunk.ErrParse, "empty include %q", text)
	}
	return target, nil
}

func parseHeader(text string) (*Section, error) {
	end := strings.IndexByte(text, ']')
	if end < 0 {
		return nil, chunk.Errorf(chunk.ErrParse, "unterminated section header %q", text)
	}
	name := strings.TrimSpace(text[1:end])
	if name == "" {
		return nil, chunk.Errorf(chunk.ErrParse, "empty section name")
	}
	s := newSection(name)
	tail := strings.TrimSpace(text[end+1:])
	if tail == "" {
		return s, nil
	}
	parents, ok := strings.CutPrefix(tail, ":")
	if !ok {
		return nil, chunk.Errorf(chunk.ErrParse, "unexpected text after section [%s]: %q", name, tail)
	}
	for p := range strings.SplitSeq(parents, ",") {
		if p = strings.TrimSpace(p); p != "" {
			s.Parents = append(s.Parents, p)
		}
	}
	return s, nil
}

func stripComment(text string) string {
	if i := strings.IndexByte(text, ';'); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return text
}
