// Package spawn reads and writes all.spawn files: the header, the ALife
// objects placed on every level, artefact spawn points, patrol paths and
// the game graph.
//
// A spawn file is a root container of exactly five chunks laid out in id
// order. Files can be unpacked into a directory of LTX documents with
// [File.ExportDir] and packed back with [ImportDir].
package spawn

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/batch"
	"github.com/meigma/xrf/ltx"
)

// Root chunk ids.
const (
	HeaderChunkID         = 0
	ALifeSpawnsChunkID    = 1
	ArtefactSpawnsChunkID = 2
	PatrolsChunkID        = 3
	GraphsChunkID         = 4
)

// Names of the files written by ExportDir.
const (
	HeaderFile           = "header.ltx"
	ALifeSpawnsFile      = "alife_spawns.ltx"
	ArtefactSpawnsFile   = "artefact_spawns.ltx"
	PatrolsFile          = "patrols.ltx"
	PatrolPointsFile     = "patrol_points.ltx"
	PatrolLinksFile      = "patrol_links.ltx"
	GraphsHeaderFile     = "graphs_header.ltx"
	GraphsLevelsFile     = "graphs_levels.ltx"
	GraphsVerticesFile   = "graphs_vertices.ltx"
	GraphsEdgesFile      = "graphs_edges.ltx"
	GraphsPointsFile     = "graphs_points.ltx"
	GraphsCrossTableFile = "graphs_cross_tables.gct"
)

// File is a decoded spawn file.
type File struct {
	Header         Header
	ALifeSpawns    ALifeSpawns
	ArtefactSpawns ArtefactSpawns
	Patrols        Patrols
	Graphs         Graphs
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

// ReadFile reads and decodes the spawn file at path.
func ReadFile(path string, opts ...Option) (*File, error) {
	c := newConfig(opts)
	r, err := chunk.Open(path, c.order)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	c.logger.Info("reading spawn file", slog.String("path", path), slog.Int("bytes", r.Len()))
	return read(r, c)
}

// Read decodes a spawn file held in memory.
func Read(data []byte, opts ...Option) (*File, error) {
	c := newConfig(opts)
	return read(chunk.NewReader(data, c.order), c)
}

func read(r *chunk.Reader, c *config) (*File, error) {
	children, err := r.ReadChildren()
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	err = chunk.RequireIDs("spawn root", children,
		HeaderChunkID, ALifeSpawnsChunkID, ArtefactSpawnsChunkID, PatrolsChunkID, GraphsChunkID)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}

	f := &File{}
	for _, part := range f.parts() {
		ch, err := chunk.FindRequired(children, part.id)
		if err != nil {
			return nil, wrap("read "+part.name, err)
		}
		c.logger.Debug("reading spawn chunk", slog.String("chunk", part.name), slog.Uint64("bytes", ch.Size))
		if err := part.codec.Read(ch.Reader()); err != nil {
			return nil, wrap("read "+part.name, err)
		}
	}

	if err := f.checkCounts(); err != nil {
		return nil, err
	}
	c.logger.Info("read spawn file",
		slog.Int("objects", len(f.ALifeSpawns.Objects)),
		slog.Int("patrols", len(f.Patrols.Patrols)),
		slog.Int("levels", len(f.Graphs.Levels)))
	return f, nil
}

type part struct {
	name  string
	id    uint32
	codec chunk.Codec
}

// parts lists the root chunks in file order.
func (f *File) parts() []part {
	return []part{
		{"header", HeaderChunkID, &f.Header},
		{"alife spawns", ALifeSpawnsChunkID, &f.ALifeSpawns},
		{"artefact spawns", ArtefactSpawnsChunkID, &f.ArtefactSpawns},
		{"patrols", PatrolsChunkID, &f.Patrols},
		{"graphs", GraphsChunkID, &f.Graphs},
	}
}

func (f *File) checkCounts() error {
	err := chunk.Expect("header objects count", f.Header.ObjectsCount, uint32(len(f.ALifeSpawns.Objects)))
	if err != nil {
		return wrap("check", err)
	}
	return wrap("check", chunk.Expect("header levels count", f.Header.LevelsCount, uint32(f.Graphs.Header.LevelsCount)))
}

// Write encodes the file to w.
func (f *File) Write(w io.Writer, opts ...Option) error {
	c := newConfig(opts)
	if err := f.checkCounts(); err != nil {
		return err
	}
	root := chunk.NewWriter(c.order)
	for _, part := range f.parts() {
		if err := root.WriteChild(part.id, part.codec.Write); err != nil {
			return wrap("write "+part.name, err)
		}
	}
	if _, err := w.Write(root.FlushRawIntoBuffer()); err != nil {
		return fmt.Errorf("spawn: %w: %w", chunk.ErrIO, err)
	}
	c.logger.Info("wrote spawn file", slog.Int("objects", len(f.ALifeSpawns.Objects)))
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
		return fmt.Errorf("spawn: %w: %w", chunk.ErrIO, err)
	}
	return nil
}

// ExportDir unpacks the file into LTX documents under dir. Cross tables
// are written as raw size-packed records.
func (f *File) ExportDir(dir string, opts ...Option) error {
	c := newConfig(opts)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("spawn: %w: %w", chunk.ErrIO, err)
	}

	header := ltx.New()
	f.Header.Export(header)
	objects := ltx.New()
	f.ALifeSpawns.Export(objects)
	artefacts := ltx.New()
	f.ArtefactSpawns.Export(artefacts)
	patrols := f.Patrols.Export()
	crossTables := chunk.NewWriter(c.order)
	graphs, err := f.Graphs.Export(crossTables)
	if err != nil {
		return wrap("export graphs", err)
	}

	docs := []struct {
		name string
		doc  *ltx.Ltx
	}{
		{HeaderFile, header},
		{ALifeSpawnsFile, objects},
		{ArtefactSpawnsFile, artefacts},
		{PatrolsFile, patrols.Patrols},
		{PatrolPointsFile, patrols.Points},
		{PatrolLinksFile, patrols.Links},
		{GraphsHeaderFile, graphs.Header},
		{GraphsLevelsFile, graphs.Levels},
		{GraphsVerticesFile, graphs.Vertices},
		{GraphsEdgesFile, graphs.Edges},
		{GraphsPointsFile, graphs.Points},
	}
	for _, d := range docs {
		if err := d.doc.WriteFile(filepath.Join(dir, d.name)); err != nil {
			return wrap("export", err)
		}
	}
	if err := batch.WriteFile(filepath.Join(dir, GraphsCrossTableFile), crossTables.FlushRawIntoBuffer()); err != nil {
		return fmt.Errorf("spawn: export cross tables: %w: %w", chunk.ErrIO, err)
	}
	c.logger.Info("exported spawn file", slog.String("dir", dir), slog.Int("files", len(docs)+1))
	return nil
}

// ImportDir packs a directory written by ExportDir back into a File.
func ImportDir(dir string, opts ...Option) (*File, error) {
	c := newConfig(opts)
	load := func(name string) (*ltx.Ltx, error) {
		l, err := ltx.LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, wrap("import "+name, err)
		}
		return l, nil
	}
	names := []string{
		HeaderFile, ALifeSpawnsFile, ArtefactSpawnsFile,
		PatrolsFile, PatrolPointsFile, PatrolLinksFile,
		GraphsHeaderFile, GraphsLevelsFile, GraphsVerticesFile, GraphsEdgesFile, GraphsPointsFile,
	}
	docs := make(map[string]*ltx.Ltx, len(names))
	for _, name := range names {
		l, err := load(name)
		if err != nil {
			return nil, err
		}
		docs[name] = l
	}
	crossTables, err := chunk.Open(filepath.Join(dir, GraphsCrossTableFile), c.order)
	if err != nil {
		return nil, wrap("import cross tables", err)
	}

	f := &File{}
	if err := f.Header.Import(docs[HeaderFile]); err != nil {
		return nil, wrap("import header", err)
	}
	if err := f.ALifeSpawns.Import(docs[ALifeSpawnsFile]); err != nil {
		return nil, wrap("import alife spawns", err)
	}
	if err := f.ArtefactSpawns.Import(docs[ArtefactSpawnsFile]); err != nil {
		return nil, wrap("import artefact spawns", err)
	}
	err = f.Patrols.Import(PatrolFiles{
		Patrols: docs[PatrolsFile],
		Points:  docs[PatrolPointsFile],
		Links:   docs[PatrolLinksFile],
	})
	if err != nil {
		return nil, wrap("import patrols", err)
	}
	err = f.Graphs.Import(GraphFiles{
		Header:   docs[GraphsHeaderFile],
		Levels:   docs[GraphsLevelsFile],
		Vertices: docs[GraphsVerticesFile],
		Edges:    docs[GraphsEdgesFile],
		Points:   docs[GraphsPointsFile],
	}, crossTables)
	if err != nil {
		return nil, wrap("import graphs", err)
	}
	if err := f.checkCounts(); err != nil {
		return nil, err
	}
	c.logger.Info("imported spawn file", slog.String("dir", dir), slog.Int("objects", len(f.ALifeSpawns.Objects)))
	return f, nil
}
