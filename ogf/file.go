// Package ogf reads and writes OGF model files.
//
// Only the descriptive chunks are decoded: the header, texture, nested
// child models, bone names, export description and motion references.
// Geometry and every other chunk is carried as raw bytes so a model
// survives a read and write unchanged.
package ogf

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/batch"
)

// Chunk ids of the decoded parts.
const (
	HeaderChunkID        = 1
	TextureChunkID       = 2
	ChildrenChunkID      = 9
	BonesChunkID         = 13
	DescriptionChunkID   = 18
	KinematicsOldChunkID = 19
	KinematicsChunkID    = 24
)

// Raw is a chunk kept as opaque bytes.
type Raw struct {
	ID   uint32
	Data []byte
}

// File is a decoded model. Nil pointers and nil slices mark absent
// chunks.
type File struct {
	Header      Header
	Texture     *Texture
	Children    []File
	Bones       Bones
	Description *Description
	Kinematics  *Kinematics
	// Other holds the undecoded chunks in file order.
	Other []Raw
}

type config struct {
	order  binary.ByteOrder
	logger *slog.Logger
}

// Option configures reading and writing.
type Option func(*config)

// WithByteOrder sets the byte order. The default is [chunk.EngineOrder].
func WithByteOrder(order binary.ByteOrder) Option {
	return func(c *config) {
		c.order = order
	}
}

// WithLogger sets the logger used for chunk listings.
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

// ReadFile reads the model at path.
func ReadFile(path string, opts ...Option) (*File, error) {
	c := newConfig(opts)
	r, err := chunk.Open(path, c.order)
	if err != nil {
		return nil, fmt.Errorf("ogf: %w", err)
	}
	c.logger.Info("reading ogf file", slog.String("path", path), slog.Int("bytes", r.Len()))
	f, err := read(r, c)
	if err != nil {
		return nil, fmt.Errorf("ogf: %w", err)
	}
	return f, nil
}

// Read decodes a model held in memory.
func Read(data []byte, opts ...Option) (*File, error) {
	c := newConfig(opts)
	f, err := read(chunk.NewReader(data, c.order), c)
	if err != nil {
		return nil, fmt.Errorf("ogf: %w", err)
	}
	return f, nil
}

func read(r *chunk.Reader, c *config) (*File, error) {
	children, err := r.ReadAllChildren()
	if err != nil {
		return nil, err
	}
	for _, ch := range children {
		c.logger.Debug("ogf chunk", slog.Uint64("id", uint64(ch.ID)), slog.Uint64("bytes", ch.Size))
	}

	f := &File{}
	header, err := chunk.FindRequired(children, HeaderChunkID)
	if err != nil {
		return nil, err
	}
	if err := f.Header.Read(header.Reader()); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if f.Texture, err = readOptional[Texture](children, TextureChunkID); err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	if f.Description, err = readOptional[Description](children, DescriptionChunkID); err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	if bones, ok := chunk.FindOptional(children, BonesChunkID); ok {
		if err := f.Bones.Read(bones.Reader()); err != nil {
			return nil, fmt.Errorf("bones: %w", err)
		}
	}
	if id, kin, ok := chunk.FindOneOfOptional(children, KinematicsChunkID, KinematicsOldChunkID); ok {
		f.Kinematics = &Kinematics{SourceChunkID: id}
		if err := f.Kinematics.Read(kin.Reader()); err != nil {
			return nil, fmt.Errorf("motion refs: %w", err)
		}
	}
	if nested, ok := chunk.FindOptional(children, ChildrenChunkID); ok {
		if f.Children, err = readChildren(nested.Reader(), c); err != nil {
			return nil, err
		}
	}

	for _, ch := range children {
		if !decoded(ch.ID, f) {
			f.Other = append(f.Other, Raw{ID: ch.ID, Data: slices.Clone(ch.Bytes())})
		}
	}
	return f, nil
}

func readChildren(r *chunk.Reader, c *config) ([]File, error) {
	nested, err := r.ReadChildren()
	if err != nil {
		return nil, fmt.Errorf("children: %w", err)
	}
	out := make([]File, len(nested))
	for i, ch := range nested {
		child, err := read(ch.Reader(), c)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		out[i] = *child
	}
	return out, nil
}

// decoded reports whether id was consumed into a typed field of f.
func decoded(id uint32, f *File) bool {
	switch id {
	case HeaderChunkID, TextureChunkID, ChildrenChunkID, BonesChunkID, DescriptionChunkID:
		return true
	case KinematicsChunkID, KinematicsOldChunkID:
		return f.Kinematics != nil && f.Kinematics.SourceChunkID == id
	}
	return false
}

func readOptional[T any, P interface {
	*T
	chunk.Codec
}](children []chunk.Chunk, id uint32) (*T, error) {
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

// ReadMotionRefs reads only the motion references of the model at path.
func ReadMotionRefs(path string, opts ...Option) ([]string, error) {
	c := newConfig(opts)
	r, err := chunk.Open(path, c.order)
	if err != nil {
		return nil, fmt.Errorf("ogf: %w", err)
	}
	children, err := r.ReadAllChildren()
	if err != nil {
		return nil, fmt.Errorf("ogf: %w", err)
	}
	id, kin, err := chunk.FindOneOfRequired(children, KinematicsChunkID, KinematicsOldChunkID)
	if err != nil {
		return nil, fmt.Errorf("ogf: %w", err)
	}
	k := Kinematics{SourceChunkID: id}
	if err := k.Read(kin.Reader()); err != nil {
		return nil, fmt.Errorf("ogf: motion refs: %w", err)
	}
	return k.MotionRefs, nil
}

// MotionRefs returns the motion files referenced by the model, or nil
// when it has no kinematics chunk.
func (f *File) MotionRefs() []string {
	if f.Kinematics == nil {
		return nil
	}
	return f.Kinematics.MotionRefs
}

// Write encodes the model to w. Chunks are written in ascending id order.
func (f *File) Write(w io.Writer, opts ...Option) error {
	c := newConfig(opts)
	root := chunk.NewWriter(c.order)
	if err := f.write(root); err != nil {
		return fmt.Errorf("ogf: %w", err)
	}
	if _, err := w.Write(root.FlushRawIntoBuffer()); err != nil {
		return fmt.Errorf("ogf: %w: %w", chunk.ErrIO, err)
	}
	return nil
}

type part struct {
	id    uint32
	write func(w *chunk.Writer) error
}

func (f *File) write(w *chunk.Writer) error {
	parts := []part{{HeaderChunkID, f.Header.Write}}
	if f.Texture != nil {
		parts = append(parts, part{TextureChunkID, f.Texture.Write})
	}
	if f.Children != nil {
		parts = append(parts, part{ChildrenChunkID, f.writeChildren})
	}
	if f.Bones != nil {
		parts = append(parts, part{BonesChunkID, f.Bones.Write})
	}
	if f.Description != nil {
		parts = append(parts, part{DescriptionChunkID, f.Description.Write})
	}
	if f.Kinematics != nil {
		parts = append(parts, part{f.Kinematics.SourceChunkID, f.Kinematics.Write})
	}
	for _, raw := range f.Other {
		parts = append(parts, part{raw.ID, func(w *chunk.Writer) error {
			_, err := w.Write(raw.Data)
			return err
		}})
	}
	slices.SortStableFunc(parts, func(a, b part) int { return cmp.Compare(a.id, b.id) })

	for _, p := range parts {
		if err := w.WriteChild(p.id, p.write); err != nil {
			return fmt.Errorf("chunk %d: %w", p.id, err)
		}
	}
	return nil
}

func (f *File) writeChildren(w *chunk.Writer) error {
	for i := range f.Children {
		if err := w.WriteChild(uint32(i), f.Children[i].write); err != nil { //nolint:gosec // child counts fit u32
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

// Bytes returns the encoded model.
func (f *File) Bytes(opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the model and replaces path atomically.
func (f *File) WriteFile(path string, opts ...Option) error {
	data, err := f.Bytes(opts...)
	if err != nil {
		return err
	}
	if err := batch.WriteFile(path, data); err != nil {
		return fmt.Errorf("ogf: %w: %w", chunk.ErrIO, err)
	}
	return nil
}
