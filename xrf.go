// Package xrf reads, writes and converts the asset formats of the X-Ray
// engine.
//
// The format codecs live in their own packages:
//   - [spawn]: all.spawn, the level spawn and graph database
//   - [particles]: particles.xr, particle effects and groups
//   - [ogf] and [omf]: models and their motion libraries
//   - [archive]: .db game archives
//   - [ltx]: the INI-like text format used for configuration and exports
//
// Every binary format is a tree of chunks, decoded with the [chunk]
// package. This package adds the glue an application holding opened files
// needs: one set of options shared by every format and [Session], a slot
// for the currently open file of one kind.
//
// # Quick Start
//
// Open a spawn file and export it:
//
//	f, err := xrf.OpenSpawn("all.spawn", xrf.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	err = f.ExportDir("unpacked")
//
// Keep an archive project open between requests:
//
//	var archives xrf.Session[*archive.Project]
//	p, err := xrf.OpenArchive("gamedata", xrf.WithWorkers(8))
//	if err != nil {
//	    return err
//	}
//	archives.Open(p)
//	err = archives.With(func(p *archive.Project) error {
//	    _, err := p.UnpackParallel(ctx, "unpacked")
//	    return err
//	})
package xrf

import (
	"encoding/binary"
	"log/slog"

	"github.com/meigma/xrf/archive"
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ogf"
	"github.com/meigma/xrf/omf"
	"github.com/meigma/xrf/particles"
	"github.com/meigma/xrf/spawn"
)

type config struct {
	logger       *slog.Logger
	order        binary.ByteOrder
	workers      int
	skipExisting bool
}

// Option configures the Open functions.
type Option func(*config)

// WithLogger sets the logger passed to the format packages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithByteOrder sets the byte order of binary files. The default is
// [chunk.EngineOrder]. Archives are always little endian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(c *config) {
		c.order = order
	}
}

// WithWorkers sets the number of files an archive project extracts at
// once. Values < 0 force serial extraction. Zero uses the default.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithSkipExisting makes archive unpacking keep files that already exist
// at the destination.
func WithSkipExisting(skip bool) Option {
	return func(c *config) {
		c.skipExisting = skip
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: slog.New(slog.DiscardHandler), order: chunk.EngineOrder}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenSpawn reads the spawn file at path.
func OpenSpawn(path string, opts ...Option) (*spawn.File, error) {
	c := newConfig(opts)
	return spawn.ReadFile(path, spawn.WithLogger(c.logger), spawn.WithByteOrder(c.order))
}

// OpenParticles reads the particles file at path.
func OpenParticles(path string, opts ...Option) (*particles.File, error) {
	c := newConfig(opts)
	return particles.ReadFile(path, particles.WithLogger(c.logger), particles.WithByteOrder(c.order))
}

// OpenModel reads the OGF model at path.
func OpenModel(path string, opts ...Option) (*ogf.File, error) {
	c := newConfig(opts)
	return ogf.ReadFile(path, ogf.WithLogger(c.logger), ogf.WithByteOrder(c.order))
}

// OpenMotions reads the OMF motion library at path.
func OpenMotions(path string, opts ...Option) (*omf.File, error) {
	c := newConfig(opts)
	return omf.ReadFile(path, omf.WithLogger(c.logger), omf.WithByteOrder(c.order))
}

// OpenArchive opens an archive file, or every archive found under a
// directory, as one project.
func OpenArchive(path string, opts ...Option) (*archive.Project, error) {
	c := newConfig(opts)
	return archive.NewProject(path,
		archive.WithLogger(c.logger),
		archive.WithWorkers(c.workers),
		archive.WithSkipExisting(c.skipExisting))
}
