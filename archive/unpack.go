package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	lzo "github.com/rasky/go-lzo"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/batch"
)

// UnpackResult reports an extraction run.
type UnpackResult struct {
	Archives    []string
	Destination string
	// Duration covers the whole run; it is PrepareDuration, spent
	// creating directories, plus UnpackDuration, spent extracting.
	Duration        time.Duration
	PrepareDuration time.Duration
	UnpackDuration  time.Duration
	Files           int
	// Skipped counts files left untouched because they already existed.
	Skipped int
	Size    uint64
	// Failed holds one error per file that could not be extracted.
	Failed []error
}

// Err joins the per-file failures, or returns nil when every file was
// extracted.
func (r *UnpackResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("archive: %d of %d files failed: %w", len(r.Failed), r.Files, errors.Join(r.Failed...))
}

// Unpack extracts every file into dest one at a time.
func (p *Project) Unpack(ctx context.Context, dest string) (*UnpackResult, error) {
	return p.unpack(ctx, dest, -1)
}

// UnpackParallel extracts every file into dest using the configured
// number of workers. A file that fails is recorded in the result and does
// not stop the others. Cancelling ctx stops extraction early and returns
// the partial result with the context error.
func (p *Project) UnpackParallel(ctx context.Context, dest string) (*UnpackResult, error) {
	return p.unpack(ctx, dest, p.config.workers)
}

func (p *Project) unpack(ctx context.Context, dest string, workers int) (*UnpackResult, error) {
	logger := p.config.logger
	start := time.Now()
	result := &UnpackResult{Destination: dest, Files: len(p.Files), Size: p.RealSize()}
	for _, a := range p.Archives {
		result.Archives = append(result.Archives, a.Path)
	}

	files := make([]ProjectFile, 0, len(p.Files))
	var rejected []error
	for _, name := range slices.Sorted(maps.Keys(p.Files)) {
		f := p.Files[name]
		if !fs.ValidPath(f.Destination()) {
			rejected = append(rejected, fmt.Errorf("archive: %s: %w: unsafe unpack path", f.Name, chunk.ErrInvalidFormat))
			continue
		}
		files = append(files, f)
	}
	if err := prepareDirs(dest, files); err != nil {
		return nil, err
	}
	result.PrepareDuration = time.Since(start)

	sources := make(map[string]*os.File, len(p.Archives))
	defer func() {
		for _, f := range sources {
			_ = f.Close() //nolint:errcheck // read-only handles
		}
	}()
	for _, a := range p.Archives {
		f, err := os.Open(a.Path)
		if err != nil {
			return nil, fmt.Errorf("archive: %w: %w", chunk.ErrIO, err)
		}
		sources[a.Path] = f
	}

	step := max(len(files)/100*5, 5)
	proc := batch.NewProcessor(batch.WithWorkers(workers), batch.WithProgress(func(done, total int) {
		if done%step == 0 || done == total {
			logger.Info("unpacked files", slog.Int("done", done), slog.Int("total", total))
		}
	}))
	sink := batch.NewFileSink(dest, batch.WithOverwrite(!p.config.skipExisting))
	logger.Info("unpacking archives",
		slog.String("dest", dest),
		slog.Int("files", len(files)),
		slog.Int("workers", proc.Workers(len(files))))

	var skipped atomic.Int64
	failed, err := batch.Run(ctx, proc, files, func(ctx context.Context, f ProjectFile) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !sink.ShouldProcess(f.Destination()) {
			skipped.Add(1)
			return nil
		}
		if err := unpackFile(sources[f.Source], sink, &f); err != nil {
			return fmt.Errorf("archive: %s: %w", f.Name, err)
		}
		return nil
	})
	result.Failed = append(rejected, failed...)
	result.Skipped = int(skipped.Load())

	total := time.Since(start)
	result.Duration = total
	result.UnpackDuration = total - result.PrepareDuration
	if err != nil {
		return result, fmt.Errorf("archive: unpack %s: %w", dest, err)
	}
	logger.Info("unpacked archives",
		slog.Int("files", result.Files),
		slog.Int("failed", len(result.Failed)),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// prepareDirs creates the parent directory of every file.
func prepareDirs(dest string, files []ProjectFile) error {
	dirs := make(map[string]struct{})
	for i := range files {
		dirs[path.Dir(files[i].Destination())] = struct{}{}
	}
	for dir := range dirs {
		if err := os.MkdirAll(filepath.Join(dest, filepath.FromSlash(dir)), 0o750); err != nil {
			return fmt.Errorf("archive: %w: %w", chunk.ErrIO, err)
		}
	}
	return nil
}

// unpackFile copies one file out of src. Compressed files are LZO1X
// decompressed and checked against their CRC32.
func unpackFile(src io.ReaderAt, sink *batch.FileSink, f *ProjectFile) error {
	w, err := sink.Writer(f.Destination())
	if err != nil {
		return fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}

	if err := extract(src, w, f); err != nil {
		_ = w.Discard() //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := w.Commit(); err != nil {
		return fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	return nil
}

func extract(src io.ReaderAt, w io.Writer, f *ProjectFile) error {
	if !f.Compressed() {
		n, err := io.Copy(w, io.NewSectionReader(src, int64(f.Offset), int64(f.SizeReal)))
		if err != nil {
			return fmt.Errorf("%w: %w", chunk.ErrIO, err)
		}
		if n != int64(f.SizeReal) {
			return chunk.Errorf(chunk.ErrIO, "stored file is %d bytes, expected %d", n, f.SizeReal)
		}
		return nil
	}

	packed := make([]byte, f.SizeCompressed)
	if _, err := src.ReadAt(packed, int64(f.Offset)); err != nil {
		return fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	data, err := lzo.Decompress1X(bytes.NewReader(packed), len(packed), int(f.SizeReal))
	if err != nil {
		return fmt.Errorf("%w: lzo: %w", chunk.ErrParse, err)
	}
	if len(data) != int(f.SizeReal) {
		return chunk.Errorf(chunk.ErrParse, "lzo: decoded %d bytes, expected %d", len(data), f.SizeReal)
	}
	if sum := crc32.ChecksumIEEE(data); sum != f.CRC {
		return chunk.Errorf(chunk.ErrVerify, "crc32 %08x, expected %08x", sum, f.CRC)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	return nil
}
