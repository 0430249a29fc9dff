// Package ltx is a small store for the engine's INI-like configuration
// format.
//
// A document holds ordered sections of ordered key/value pairs. Section
// headers may name parents ([child]:base,other) whose keys the child
// inherits, and documents may pull in other files with #include
// directives. Parse keeps both as written; [Ltx.Resolve] applies them.
package ltx

import (
	"github.com/meigma/xrf/chunk"
)

// Ltx is an ordered set of sections.
type Ltx struct {
	// Includes lists #include targets in the order they appear.
	Includes []string

	sections []*Section
	index    map[string]*Section
}

// Section is a named, ordered set of key/value pairs.
type Section struct {
	Name string
	// Parents lists inherited sections in declaration order.
	Parents []string

	keys   []string
	values map[string]string
}

// New returns an empty document.
func New() *Ltx {
	return &Ltx{index: make(map[string]*Section)}
}

// Len returns the number of sections.
func (l *Ltx) Len() int {
	return len(l.sections)
}

// Has reports whether a section exists.
func (l *Ltx) Has(name string) bool {
	_, ok := l.index[name]
	return ok
}

// Section returns the named section.
func (l *Ltx) Section(name string) (*Section, bool) {
	s, ok := l.index[name]
	return s, ok
}

// RequireSection returns the named section or a *chunk.NotFoundError.
func (l *Ltx) RequireSection(name string) (*Section, error) {
	s, ok := l.index[name]
	if !ok {
		return nil, &chunk.NotFoundError{What: "ltx section [" + name + "]"}
	}
	return s, nil
}

// WithSection returns the named section, creating it at the end of the
// document when missing.
func (l *Ltx) WithSection(name string) *Section {
	if s, ok := l.index[name]; ok {
		return s
	}
	s := newSection(name)
	l.sections = append(l.sections, s)
	l.index[name] = s
	return s
}

// Sections returns sections in document order.
func (l *Ltx) Sections() []*Section {
	return l.sections
}

// Names returns section names in document order.
func (l *Ltx) Names() []string {
	names := make([]string, len(l.sections))
	for i, s := range l.sections {
		names[i] = s.Name
	}
	return names
}

func (l *Ltx) add(s *Section) error {
	if _, ok := l.index[s.Name]; ok {
		return chunk.Errorf(chunk.ErrParse, "duplicate ltx section [%s]", s.Name)
	}
	l.sections = append(l.sections, s)
	l.index[s.Name] = s
	return nil
}

func newSection(name string) *Section {
	return &Section{Name: name, values: make(map[string]string)}
}

// Get returns the value of key.
func (s *Section) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, keeping the position of an existing key.
func (s *Section) Set(key, value string) *Section {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return s
}

// Keys returns keys in insertion order.
func (s *Section) Keys() []string {
	return s.keys
}

// Len returns the number of keys.
func (s *Section) Len() int {
	return len(s.keys)
}
