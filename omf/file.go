// Package omf reads and writes OMF motion files: the animation clips of
// a skeletal model together with their playback parameters.
package omf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/batch"
)

// Root chunk ids.
const (
	MotionsChunkID    = 14
	ParametersChunkID = 15
)

// Parameter versions. Motion marks appear in MarksVersion.
const (
	LegacyVersion = 3
	MarksVersion  = 4
)

// File is a decoded motion file. Motions and Parameters.Motions are
// parallel lists of the same length.
type File struct {
	Motions    []Motion
	Parameters Parameters
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

// ReadFile reads the motion file at path.
func ReadFile(path string, opts ...Option) (*File, error) {
	c := newConfig(opts)
	r, err := chunk.Open(path, c.order)
	if err != nil {
		return nil, fmt.Errorf("omf: %w", err)
	}
	c.logger.Info("reading omf file", slog.String("path", path), slog.Int("bytes", r.Len()))
	return read(r, c)
}

// Read decodes a motion file held in memory.
func Read(data []byte, opts ...Option) (*File, error) {
	c := newConfig(opts)
	return read(chunk.NewReader(data, c.order), c)
}

func read(r *chunk.Reader, c *config) (*File, error) {
	children, err := r.ReadAllChildren()
	if err != nil {
		return nil, fmt.Errorf("omf: %w", err)
	}
	for _, ch := range children {
		c.logger.Debug("omf chunk", slog.Uint64("id", uint64(ch.ID)), slog.Uint64("bytes", ch.Size))
	}
	if err := chunk.RequireIDs("omf root", children, MotionsChunkID, ParametersChunkID); err != nil {
		return nil, fmt.Errorf("omf: %w", err)
	}

	f := &File{}
	params, _ := chunk.FindOptional(children, ParametersChunkID)
	if err := f.Parameters.Read(params.Reader()); err != nil {
		return nil, wrap("read parameters", err)
	}
	motions, _ := chunk.FindOptional(children, MotionsChunkID)
	if f.Motions, err = readMotions(motions.Reader()); err != nil {
		return nil, wrap("read motions", err)
	}
	if err := chunk.Expect("omf motion definitions", len(f.Motions), len(f.Parameters.Motions)); err != nil {
		return nil, wrap("read", err)
	}

	c.logger.Info("read omf file",
		slog.Int("motions", len(f.Motions)),
		slog.Int("parts", len(f.Parameters.Parts)),
		slog.Uint64("version", uint64(f.Parameters.Version)))
	return f, nil
}

// ReadMotionNames reads only the motion names of the file at path.
func ReadMotionNames(path string, opts ...Option) ([]string, error) {
	c := newConfig(opts)
	r, err := chunk.Open(path, c.order)
	if err != nil {
		return nil, fmt.Errorf("omf: %w", err)
	}
	children, err := r.ReadAllChildren()
	if err != nil {
		return nil, fmt.Errorf("omf: %w", err)
	}
	ch, err := chunk.FindRequired(children, MotionsChunkID)
	if err != nil {
		return nil, fmt.Errorf("omf: %w", err)
	}
	motions, err := readMotions(ch.Reader())
	if err != nil {
		return nil, wrap("read motions", err)
	}
	names := make([]string, len(motions))
	for i := range motions {
		names[i] = motions[i].Name
	}
	return names, nil
}

// Bones returns the bone names of every partition in partition order.
func (f *File) Bones() []string {
	var names []string
	for _, p := range f.Parameters.Parts {
		for _, b := range p.Bones {
			names = append(names, b.Name)
		}
	}
	return names
}

// BonesCount returns the number of bones across all partitions.
func (f *File) BonesCount() int {
	n := 0
	for _, p := range f.Parameters.Parts {
		n += len(p.Bones)
	}
	return n
}

// Write encodes the file to w. Only version 4 parameters can be written.
func (f *File) Write(w io.Writer, opts ...Option) error {
	c := newConfig(opts)
	if err := chunk.Expect("omf motion definitions", len(f.Motions), len(f.Parameters.Motions)); err != nil {
		return wrap("write", err)
	}
	root := chunk.NewWriter(c.order)
	err := root.WriteChild(MotionsChunkID, func(w *chunk.Writer) error {
		return writeMotions(w, f.Motions)
	})
	if err != nil {
		return wrap("write motions", err)
	}
	if err := root.WriteChild(ParametersChunkID, f.Parameters.Write); err != nil {
		return wrap("write parameters", err)
	}
	if _, err := w.Write(root.FlushRawIntoBuffer()); err != nil {
		return fmt.Errorf("omf: %w: %w", chunk.ErrIO, err)
	}
	c.logger.Info("wrote omf file", slog.Int("motions", len(f.Motions)))
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
		return fmt.Errorf("omf: %w: %w", chunk.ErrIO, err)
	}
	return nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("omf: %s: %w", what, err)
}
