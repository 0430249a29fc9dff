package archive

import (
	"cmp"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/meigma/xrf/chunk"
)

// MaxReadSize is the largest file ReadFileAsString serves.
const MaxReadSize = 16 << 20

// readableExtensions lists the text formats ReadFileAsString serves.
var readableExtensions = []string{".ltx", ".xml", ".script", ".txt", ".json", ".ini", ".csv"}

type config struct {
	logger       *slog.Logger
	workers      int
	skipExisting bool
}

// Option configures reading and unpacking.
type Option func(*config)

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithWorkers sets the number of files UnpackParallel extracts at once.
// Zero selects the default of 32 and values < 0 extract serially.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithSkipExisting keeps files already present under the unpack
// destination instead of extracting them again.
func WithSkipExisting(skip bool) Option {
	return func(c *config) {
		c.skipExisting = skip
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProjectFile is a file visible in a project, with the archive it is
// served from.
type ProjectFile struct {
	FileDescriptor
	// Source is the path of the archive holding the file.
	Source string
	// Root is the unpack directory declared by that archive.
	Root string
}

// Destination returns the slash separated path the file unpacks to.
func (f *ProjectFile) Destination() string {
	name := strings.ReplaceAll(f.Name, `\`, "/")
	if f.Root == "" {
		return name
	}
	return strings.TrimSuffix(strings.ReplaceAll(f.Root, `\`, "/"), "/") + "/" + name
}

// Project merges one or more archives into a single file table. When two
// archives store the same name the later one wins.
type Project struct {
	Archives []*Archive
	Files    map[string]ProjectFile

	config *config
}

// NewProject opens path, which is either one archive or a directory
// searched recursively for archives. Archives under a "patches"
// directory are applied after all others.
func NewProject(path string, opts ...Option) (*Project, error) {
	c := newConfig(opts)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("archive: %w: %w", chunk.ErrIO, err)
	}

	var paths []string
	if info.IsDir() {
		c.logger.Info("reading archive folder", slog.String("path", path))
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsArchivePath(p) {
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("archive: %w: %w", chunk.ErrIO, err)
		}
	} else {
		paths = []string{path}
	}
	if len(paths) == 0 {
		return nil, &chunk.NotFoundError{What: "archives in " + path}
	}
	sortArchives(paths)

	p := &Project{Files: make(map[string]ProjectFile), config: c}
	for _, ap := range paths {
		a, err := ReadArchive(ap, opts...)
		if err != nil {
			return nil, err
		}
		p.Archives = append(p.Archives, a)
		for name, d := range a.Files {
			p.Files[name] = ProjectFile{FileDescriptor: d, Source: a.Path, Root: a.Root}
		}
	}
	c.logger.Info("opened archive project", slog.Int("archives", len(p.Archives)), slog.Int("files", len(p.Files)))
	return p, nil
}

// IsArchivePath reports whether path has a .db* or .xdb* extension, such
// as gamedata.db0 or patch.xdb1.
func IsArchivePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return strings.HasPrefix(ext, ".db") || strings.HasPrefix(ext, ".xdb")
}

func isPatch(path string) bool {
	return strings.Contains(filepath.ToSlash(path), "patches")
}

// sortArchives orders paths by name with patches last.
func sortArchives(paths []string) {
	slices.SortFunc(paths, func(a, b string) int {
		if pa, pb := isPatch(a), isPatch(b); pa != pb {
			if pa {
				return 1
			}
			return -1
		}
		return cmp.Compare(a, b)
	})
}

// RealSize returns the unpacked size of every file.
func (p *Project) RealSize() uint64 {
	var total uint64
	for _, f := range p.Files {
		total += uint64(f.SizeReal)
	}
	return total
}

// CompressedSize returns the stored size of every file.
func (p *Project) CompressedSize() uint64 {
	var total uint64
	for _, f := range p.Files {
		total += uint64(f.SizeCompressed)
	}
	return total
}

// CanReadFile reports whether name has a text extension served by
// ReadFileAsString.
func (p *Project) CanReadFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(strings.ReplaceAll(name, `\`, "/")))
	return slices.Contains(readableExtensions, ext)
}

// ReadResult is a file read by ReadFileAsString.
type ReadResult struct {
	Name    string
	Content string
	Size    uint32
	// Raw holds the stored bytes before decoding.
	Raw []byte
}

// ReadFileAsString reads a stored, uncompressed text file of at most
// MaxReadSize bytes and decodes it from Windows-1251.
func (p *Project) ReadFileAsString(name string) (*ReadResult, error) {
	p.config.logger.Debug("reading file from archive", slog.String("name", name))
	if !p.CanReadFile(name) {
		return nil, chunk.Errorf(chunk.ErrInvalidFormat, "archive: %q cannot be read, extension is not allowed", name)
	}
	f, ok := p.Files[name]
	if !ok {
		return nil, &chunk.NotFoundError{What: fmt.Sprintf("archive file %q", name)}
	}
	if f.SizeReal > MaxReadSize {
		return nil, chunk.Errorf(chunk.ErrInvalidFormat, "archive: %q is %d bytes, %d is the maximum", name, f.SizeReal, MaxReadSize)
	}
	if f.Compressed() {
		return nil, chunk.Errorf(chunk.ErrInvalidFormat, "archive: %q is compressed", name)
	}

	src, err := os.Open(f.Source)
	if err != nil {
		return nil, fmt.Errorf("archive: %w: %w", chunk.ErrIO, err)
	}
	defer src.Close()
	buf := make([]byte, f.SizeReal)
	if _, err := src.ReadAt(buf, int64(f.Offset)); err != nil {
		return nil, fmt.Errorf("archive: %w: read %q: %w", chunk.ErrIO, name, err)
	}
	content, err := chunk.DecodeString(buf)
	if err != nil {
		return nil, fmt.Errorf("archive: %q: %w", name, err)
	}
	return &ReadResult{Name: name, Content: content, Size: f.SizeReal, Raw: buf}, nil
}
