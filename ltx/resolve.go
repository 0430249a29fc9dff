package ltx

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/meigma/xrf/chunk"
)

// IncludePath converts an include target, which uses backslashes, into a
// path relative to dir.
func IncludePath(dir, target string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(target, `\`, "/")))
}

// Resolve returns a new document with includes merged in and section
// inheritance flattened. path locates the document on disk; includes are
// resolved relative to its directory.
func (l *Ltx) Resolve(path string) (*Ltx, error) {
	included, err := l.include(path, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return included.inherit()
}

func (l *Ltx) include(path string, visiting map[string]bool) (*Ltx, error) {
	if len(l.Includes) == 0 {
		return l, nil
	}
	abs, _ := filepath.Abs(path) //nolint:errcheck // falls back to the raw path
	if abs == "" {
		abs = path
	}
	if visiting[abs] {
		return nil, chunk.Errorf(chunk.ErrParse, "ltx %s: include cycle", path)
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	out := New()
	dir := filepath.Dir(path)
	for _, target := range l.Includes {
		child := IncludePath(dir, target)
		nested, err := ParseFile(child)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &chunk.NotFoundError{What: fmt.Sprintf("ltx include %q in %s", target, path)}
			}
			return nil, err
		}
		if nested, err = nested.include(child, visiting); err != nil {
			return nil, err
		}
		if err := out.merge(nested); err != nil {
			return nil, fmt.Errorf("ltx %s: %w", child, err)
		}
	}
	if err := out.merge(l); err != nil {
		return nil, fmt.Errorf("ltx %s: %w", path, err)
	}
	return out, nil
}

// merge appends the sections of other. Root sections are combined, any
// other duplicate is an error.
func (l *Ltx) merge(other *Ltx) error {
	for _, s := range other.sections {
		if existing, ok := l.index[s.Name]; ok {
			if s.Name != RootSection {
				return chunk.Errorf(chunk.ErrParse, "duplicate ltx section [%s]", s.Name)
			}
			for _, k := range s.keys {
				existing.Set(k, s.values[k])
			}
			continue
		}
		if err := l.add(s.clone()); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ltx) inherit() (*Ltx, error) {
	out := New()
	done := make(map[string]*Section, len(l.sections))
	for _, s := range l.sections {
		flat, err := l.flatten(s.Name, done, map[string]bool{})
		if err != nil {
			return nil, err
		}
		if err := out.add(flat.clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (l *Ltx) flatten(name string, done map[string]*Section, visiting map[string]bool) (*Section, error) {
	if s, ok := done[name]; ok {
		return s, nil
	}
	s, ok := l.index[name]
	if !ok {
		return nil, &chunk.NotFoundError{What: "ltx parent section [" + name + "]"}
	}
	if visiting[name] {
		return nil, chunk.Errorf(chunk.ErrParse, "ltx section [%s] inherits itself", name)
	}
	visiting[name] = true

	flat := newSection(name)
	for _, parent := range s.Parents {
		p, err := l.flatten(parent, done, visiting)
		if err != nil {
			return nil, fmt.Errorf("ltx section [%s]: %w", name, err)
		}
		for _, k := range p.keys {
			flat.Set(k, p.values[k])
		}
	}
	for _, k := range s.keys {
		flat.Set(k, s.values[k])
	}
	done[name] = flat
	return flat, nil
}

func (s *Section) clone() *Section {
	c := newSection(s.Name)
	c.Parents = append([]string(nil), s.Parents...)
	for _, k := range s.keys {
		c.Set(k, s.values[k])
	}
	return c
}
