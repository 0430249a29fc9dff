// Package particles reads and writes particles.xr, the database of
// particle effects and effect groups.
//
// The binary file holds a header, a chunk of effects and a chunk of
// groups. Effects and groups are kept sorted by name. ExportDir unpacks a
// file into header.ltx, effects.ltx and groups.ltx; every section carries
// a "$type" key naming the record it holds.
package particles

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/batch"
	"github.com/meigma/xrf/ltx"
)

// Root chunk ids.
const (
	HeaderChunkID   = 1
	FirstgenChunkID = 2
	EffectsChunkID  = 3
	GroupsChunkID   = 4
)

// Names of the files written by ExportDir.
const (
	HeaderFile  = "header.ltx"
	EffectsFile = "effects.ltx"
	GroupsFile  = "groups.ltx"
)

// HeaderVersion is the only header version this package reads.
const HeaderVersion = 1

const (
	metaTypeKey        = "$type"
	metaHeader         = "particles_header"
	metaEffect         = "particle_effect"
	metaGroup          = "particle_group"
	metaAction         = "particle_action"
	metaSprite         = "particle_effect_sprite"
	metaFrame          = "particle_effect_frame"
	metaCollision      = "particle_effect_collision"
	metaDescription    = "particle_description"
	metaEditorData     = "editor_data"
	metaGroupEffect    = "particle_group_effect"
	metaGroupEffectOld = "particle_group_effect_old"
)

// Header is root chunk 1.
type Header struct {
	Version uint16
}

func (h *Header) Read(r *chunk.Reader) error {
	v, err := r.ReadU16Chunk()
	if err != nil {
		return err
	}
	if v != HeaderVersion {
		return chunk.Errorf(chunk.ErrNotImplemented, "particles header version %d, only %d is supported", v, HeaderVersion)
	}
	h.Version = v
	return nil
}

func (h *Header) Write(w *chunk.Writer) error {
	return w.WriteU16(h.Version)
}

func (h *Header) Import(l *ltx.Ltx) error {
	s, err := l.RequireSection("header")
	if err != nil {
		return err
	}
	if err := checkMeta(s, metaHeader); err != nil {
		return err
	}
	v, err := s.U16("version")
	if err != nil {
		return err
	}
	if v != HeaderVersion {
		return chunk.Errorf(chunk.ErrNotImplemented, "particles header version %d, only %d is supported", v, HeaderVersion)
	}
	h.Version = v
	return nil
}

func (h *Header) Export(l *ltx.Ltx) {
	l.WithSection("header").
		Set(metaTypeKey, metaHeader).
		SetUint("version", uint64(h.Version))
}

// File is a decoded particles database.
type File struct {
	Header  Header
	Effects []Effect
	Groups  []Group
}

type config struct {
	order  binary.ByteOrder
	logger *slog.Logger
}

// Option configures reading and writing.
type Option func(*config)

// WithByteOrder sets the byte order of the binary file. The default is
// [chunk.EngineOrder].
func WithByteOrder(order binary.ByteOrder) Option {
	return func(c *config) {
		c.order = order
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option) *config {
	c := &config{order: chunk.EngineOrder, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadFile reads and decodes the particles file at path.
func ReadFile(path string, opts ...Option) (*File, error) {
	c := newConfig(opts)
	r, err := chunk.Open(path, c.order)
	if err != nil {
		return nil, fmt.Errorf("particles: %w", err)
	}
	c.logger.Info("reading particles file", slog.String("path", path), slog.Int("bytes", r.Len()))
	return read(r, c)
}

// Read decodes a particles file held in memory.
func Read(data []byte, opts ...Option) (*File, error) {
	c := newConfig(opts)
	return read(chunk.NewReader(data, c.order), c)
}

func read(r *chunk.Reader, c *config) (*File, error) {
	children, err := r.ReadAllChildren()
	if err != nil {
		return nil, fmt.Errorf("particles: %w", err)
	}
	if _, ok := chunk.FindOptional(children, FirstgenChunkID); ok {
		return nil, chunk.Errorf(chunk.ErrUnsupported, "particles: first generation chunk %d", FirstgenChunkID)
	}
	if err := chunk.RequireIDs("particles root", children, HeaderChunkID, EffectsChunkID, GroupsChunkID); err != nil {
		return nil, fmt.Errorf("particles: %w", err)
	}

	f := &File{}
	header, _ := chunk.FindOptional(children, HeaderChunkID)
	if err := f.Header.Read(header.Reader()); err != nil {
		return nil, wrap("read header", err)
	}
	effects, _ := chunk.FindOptional(children, EffectsChunkID)
	c.logger.Debug("reading particle effects", slog.Uint64("bytes", effects.Size))
	if f.Effects, err = readRecords[Effect](effects.Reader()); err != nil {
		return nil, wrap("read effects", err)
	}
	groups, _ := chunk.FindOptional(children, GroupsChunkID)
	c.logger.Debug("reading particle groups", slog.Uint64("bytes", groups.Size))
	if f.Groups, err = readRecords[Group](groups.Reader()); err != nil {
		return nil, wrap("read groups", err)
	}
	f.sort()

	c.logger.Info("read particles file",
		slog.Int("effects", len(f.Effects)),
		slog.Int("groups", len(f.Groups)))
	return f, nil
}

// readRecords decodes every child chunk of r as one T, ignoring ids.
func readRecords[T any, P record[T]](r *chunk.Reader) ([]T, error) {
	children, err := r.ReadAllChildren()
	if err != nil {
		return nil, err
	}
	out := make([]T, len(children))
	for i, c := range children {
		if err := P(&out[i]).Read(c.Reader()); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return out, nil
}

// writeRecords writes items as child chunks with ids 0, 1, 2 and so on.
func writeRecords[T any, P record[T]](w *chunk.Writer, items []T) error {
	for i := range items {
		if err := w.WriteChild(uint32(i), P(&items[i]).Write); err != nil { //nolint:gosec // record counts fit u32
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func (f *File) sort() {
	slices.SortStableFunc(f.Effects, func(a, b Effect) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortStableFunc(f.Groups, func(a, b Group) int { return cmp.Compare(a.Name, b.Name) })
}

// Write encodes the file to w. Effects and groups are written in their
// current order.
func (f *File) Write(w io.Writer, opts ...Option) error {
	c := newConfig(opts)
	root := chunk.NewWriter(c.order)
	if err := root.WriteChild(HeaderChunkID, f.Header.Write); err != nil {
		return wrap("write header", err)
	}
	err := root.WriteChild(EffectsChunkID, func(w *chunk.Writer) error {
		return writeRecords(w, f.Effects)
	})
	if err != nil {
		return wrap("write effects", err)
	}
	err = root.WriteChild(GroupsChunkID, func(w *chunk.Writer) error {
		return writeRecords(w, f.Groups)
	})
	if err != nil {
		return wrap("write groups", err)
	}
	if _, err := w.Write(root.FlushRawIntoBuffer()); err != nil {
		return fmt.Errorf("particles: %w: %w", chunk.ErrIO, err)
	}
	c.logger.Info("wrote particles file", slog.Int("effects", len(f.Effects)), slog.Int("groups", len(f.Groups)))
	return nil
}

// Bytes returns the encoded file.
func (f *File) Bytes(opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the file and replaces path atomically.
func (f *File) WriteFile(path string, opts ...Option) error {
	data, err := f.Bytes(opts...)
	if err != nil {
		return err
	}
	if err := batch.WriteFile(path, data); err != nil {
		return fmt.Errorf("particles: %w: %w", chunk.ErrIO, err)
	}
	return nil
}

// ExportDir unpacks the file into header.ltx, effects.ltx and groups.ltx
// under dir. Each effect and group section is named after the record.
func (f *File) ExportDir(dir string, opts ...Option) error {
	c := newConfig(opts)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("particles: %w: %w", chunk.ErrIO, err)
	}
	header := ltx.New()
	f.Header.Export(header)
	effects := ltx.New()
	for i := range f.Effects {
		f.Effects[i].Export(effects, f.Effects[i].Name)
	}
	groups := ltx.New()
	for i := range f.Groups {
		f.Groups[i].Export(groups, f.Groups[i].Name)
	}
	for name, doc := range map[string]*ltx.Ltx{HeaderFile: header, EffectsFile: effects, GroupsFile: groups} {
		if err := doc.WriteFile(filepath.Join(dir, name)); err != nil {
			return wrap("export "+name, err)
		}
	}
	c.logger.Info("exported particles file", slog.String("dir", dir),
		slog.Int("effects", len(f.Effects)), slog.Int("groups", len(f.Groups)))
	return nil
}

// ImportDir packs a directory written by ExportDir back into a File.
// Only sections whose "$type" names an effect or a group start a record;
// the subsections they own are read through them.
func ImportDir(dir string, opts ...Option) (*File, error) {
	c := newConfig(opts)
	docs := make(map[string]*ltx.Ltx, 3)
	for _, name := range []string{HeaderFile, EffectsFile, GroupsFile} {
		l, err := ltx.LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, wrap("import "+name, err)
		}
		docs[name] = l
	}

	f := &File{}
	if err := f.Header.Import(docs[HeaderFile]); err != nil {
		return nil, wrap("import header", err)
	}
	for _, s := range docs[EffectsFile].Sections() {
		if meta, _ := s.Get(metaTypeKey); meta != metaEffect {
			continue
		}
		var e Effect
		if err := e.Import(docs[EffectsFile], s.Name); err != nil {
			return nil, wrap("import effects", err)
		}
		f.Effects = append(f.Effects, e)
	}
	for _, s := range docs[GroupsFile].Sections() {
		if meta, _ := s.Get(metaTypeKey); meta != metaGroup {
			continue
		}
		var g Group
		if err := g.Import(docs[GroupsFile], s.Name); err != nil {
			return nil, wrap("import groups", err)
		}
		f.Groups = append(f.Groups, g)
	}
	f.sort()
	c.logger.Info("imported particles file", slog.String("dir", dir),
		slog.Int("effects", len(f.Effects)), slog.Int("groups", len(f.Groups)))
	return f, nil
}

// record constrains P to a pointer to T with a binary form.
type record[T any] interface {
	*T
	chunk.Codec
}

// importer constrains P to a pointer to T read from one LTX section.
type importer[T any] interface {
	*T
	Import(s *ltx.Section) error
}

type child struct {
	id    uint32
	write func(w *chunk.Writer) error
}

func writeChildren(w *chunk.Writer, children []child) error {
	for _, c := range children {
		if err := w.WriteChild(c.id, c.write); err != nil {
			return fmt.Errorf("chunk %d: %w", c.id, err)
		}
	}
	return nil
}

func readOptional[T any, P record[T]](children []chunk.Chunk, id uint32) (*T, error) {
	c, ok := chunk.FindOptional(children, id)
	if !ok {
		return nil, nil
	}
	v := new(T)
	if err := P(v).Read(c.Reader()); err != nil {
		return nil, err
	}
	return v, nil
}

func importOptional[T any, P importer[T]](l *ltx.Ltx, section string) (*T, error) {
	s, ok := l.Section(section)
	if !ok {
		return nil, nil
	}
	v := new(T)
	if err := P(v).Import(s); err != nil {
		return nil, err
	}
	return v, nil
}

func checkMeta(s *ltx.Section, want string) error {
	got, err := s.String(metaTypeKey)
	if err != nil {
		return err
	}
	return chunk.Expect("ltx section ["+s.Name+"] "+metaTypeKey, want, got)
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("particles: %s: %w", what, err)
}
