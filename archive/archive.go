// Package archive reads .db game archives and extracts their files.
//
// An archive is a sequence of raw chunks. The file list chunk describes
// every stored file with its offset, sizes and checksum; an optional
// header chunk names the directory the files unpack into. Both may be
// LZHUF compressed. File contents are stored raw or LZO1X compressed.
package archive

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/lzhuf"
	"github.com/meigma/xrf/ltx"
)

// Chunk ids recognized in an archive. Other chunks hold file data and
// are skipped when reading the header.
const (
	FileListChunkID    = 0x1
	FileListAltChunkID = 0x86
	HeaderChunkID      = 666
	HeaderAltChunkID   = 1337
)

const (
	compressedMask = 0x80000000
	chunkIDMask    = ^uint32(compressedMask)
	maxNameSize    = 520
	descriptorSize = 16
)

// FileDescriptor locates one stored file.
type FileDescriptor struct {
	// Name is the path inside the archive, with backslash separators.
	Name           string
	Offset         uint32
	SizeReal       uint32
	SizeCompressed uint32
	CRC            uint32
}

// Compressed reports whether the file is stored LZO compressed.
func (d *FileDescriptor) Compressed() bool {
	return d.SizeReal != d.SizeCompressed
}

func (d *FileDescriptor) Read(r *chunk.Reader) error {
	headerSize, err := r.ReadU16()
	if err != nil {
		return err
	}
	if headerSize < descriptorSize || int(headerSize)-descriptorSize >= maxNameSize {
		return chunk.Errorf(chunk.ErrParse, "archive file descriptor header size %d", headerSize)
	}
	f := r.Fields()
	f.U32(&d.SizeReal)
	f.U32(&d.SizeCompressed)
	f.U32(&d.CRC)
	f.Do(func(r *chunk.Reader) error {
		raw, err := r.ReadBytes(int(headerSize) - descriptorSize)
		if err != nil {
			return err
		}
		d.Name, err = chunk.DecodeString(raw)
		return err
	})
	f.U32(&d.Offset)
	return f.Err()
}

func (d *FileDescriptor) Write(w *chunk.Writer) error {
	name, err := chunk.EncodeString(d.Name)
	if err != nil {
		return err
	}
	if len(name) >= maxNameSize {
		return chunk.Errorf(chunk.ErrInvalidFormat, "archive file name %q is %d bytes", d.Name, len(name))
	}
	f := w.Fields()
	f.U16(uint16(len(name) + descriptorSize)) //nolint:gosec // bounded by maxNameSize
	f.U32(d.SizeReal)
	f.U32(d.SizeCompressed)
	f.U32(d.CRC)
	f.Do(func(w *chunk.Writer) error {
		_, err := w.Write(name)
		return err
	})
	f.U32(d.Offset)
	return f.Err()
}

// Archive is the parsed header of one .db file.
type Archive struct {
	Path string
	// Root is the directory declared by the header chunk entry point,
	// with its "$alias$\" prefix removed. It is empty without a header.
	Root  string
	Files map[string]FileDescriptor
}

// ReadArchive parses the header of the archive at path.
func ReadArchive(path string, opts ...Option) (*Archive, error) {
	c := newConfig(opts)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive: %w: %w", chunk.ErrIO, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("archive: %w: %w", chunk.ErrIO, err)
	}

	a, err := readArchive(f, info.Size(), c)
	if err != nil {
		return nil, fmt.Errorf("archive: %s: %w", path, err)
	}
	a.Path = path
	c.logger.Info("read archive", slog.String("path", path), slog.Int("files", len(a.Files)), slog.String("root", a.Root))
	return a, nil
}

func readArchive(r io.ReadSeeker, size int64, c *config) (*Archive, error) {
	a := &Archive{}
	var pos int64
	var preamble [8]byte
	for {
		if _, err := io.ReadFull(r, preamble[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: chunk at offset %d: %w", chunk.ErrIO, pos, err)
		}
		raw := chunk.EngineOrder.Uint32(preamble[:4])
		length := int64(chunk.EngineOrder.Uint32(preamble[4:]))
		pos += int64(len(preamble))
		if pos+length > size {
			return nil, fmt.Errorf("%w: chunk %#x at offset %d declares %d bytes, %d available: %w",
				chunk.ErrIO, raw, pos-8, length, size-pos, io.ErrUnexpectedEOF)
		}
		id, compressed := raw&chunkIDMask, raw&compressedMask != 0

		switch id {
		case FileListChunkID, FileListAltChunkID:
			data, err := readChunk(r, length, compressed)
			if err != nil {
				return nil, fmt.Errorf("file list: %w", err)
			}
			if a.Files, err = readFileList(data); err != nil {
				return nil, fmt.Errorf("file list: %w", err)
			}
		case HeaderChunkID, HeaderAltChunkID:
			data, err := readChunk(r, length, compressed)
			if err != nil {
				return nil, fmt.Errorf("header: %w", err)
			}
			if a.Root, err = readRoot(data); err != nil {
				return nil, fmt.Errorf("header: %w", err)
			}
		default:
			c.logger.Debug("skipping archive chunk", slog.Uint64("id", uint64(id)), slog.Int64("bytes", length))
			if _, err := r.Seek(length, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("%w: %w", chunk.ErrIO, err)
			}
		}
		pos += length
	}
	if a.Files == nil {
		return nil, &chunk.NotFoundError{What: "archive file list chunk", IDs: []uint32{FileListChunkID, FileListAltChunkID}}
	}
	return a, nil
}

// readChunk reads a payload of length bytes. Compressed payloads start
// with their u32 decoded length.
func readChunk(r io.Reader, length int64, compressed bool) ([]byte, error) {
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	if !compressed {
		return data, nil
	}
	if len(data) < 4 {
		return nil, chunk.Errorf(chunk.ErrIO, "compressed chunk of %d bytes has no length prefix", len(data))
	}
	decoded, err := lzhuf.Decode(data[4:], int(chunk.EngineOrder.Uint32(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", chunk.ErrParse, err)
	}
	return decoded, nil
}

func readFileList(data []byte) (map[string]FileDescriptor, error) {
	r := chunk.NewReader(data, chunk.EngineOrder)
	files := make(map[string]FileDescriptor)
	for r.HasData() {
		var d FileDescriptor
		if err := d.Read(r); err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", len(files), err)
		}
		files[d.Name] = d
	}
	return files, nil
}

// readRoot returns the entry point of the [header] section.
func readRoot(data []byte) (string, error) {
	l, err := ltx.ParseBytes(data)
	if err != nil {
		return "", err
	}
	s, err := l.RequireSection("header")
	if err != nil {
		return "", err
	}
	entry, err := s.String("entry_point")
	if err != nil {
		return "", err
	}
	return stripAlias(entry), nil
}

// stripAlias removes a leading "$alias$\" path alias.
func stripAlias(path string) string {
	if !strings.HasPrefix(path, "$") {
		return path
	}
	end := strings.Index(path[1:], "$\\")
	if end < 1 {
		return path
	}
	for _, r := range path[1 : end+1] {
		if r != '_' && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9') {
			return path
		}
	}
	return path[end+3:]
}
