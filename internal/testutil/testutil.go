// Package testutil builds binary fixtures for tests in memory.
package testutil

import (
	"encoding/binary"
	"hash/crc32"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// Chunk frames payload parts as one id-tagged record.
func Chunk(order binary.ByteOrder, id uint32, parts ...[]byte) []byte {
	payload := Concat(parts...)
	out := make([]byte, 8, 8+len(payload))
	order.PutUint32(out[0:], id)
	order.PutUint32(out[4:], uint32(len(payload))) //nolint:gosec // fixtures are small
	return append(out, payload...)
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	return slices.Concat(parts...)
}

// U16 encodes v with order.
func U16(order binary.ByteOrder, v uint16) []byte {
	out := make([]byte, 2)
	order.PutUint16(out, v)
	return out
}

// U32 encodes v with order.
func U32(order binary.ByteOrder, v uint32) []byte {
	out := make([]byte, 4)
	order.PutUint32(out, v)
	return out
}

// F32 encodes v with order.
func F32(order binary.ByteOrder, v float32) []byte {
	return U32(order, math.Float32bits(v))
}

// CString returns s followed by a zero byte. s must be ASCII.
func CString(s string) []byte {
	return append([]byte(s), 0)
}

// WriteFile writes data to dir/name, creating parents, and returns the
// full path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		tb.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write fixture: %v", err)
	}
	return path
}

// ArchiveFile is one uncompressed entry of a fixture archive.
type ArchiveFile struct {
	Name    string
	Content []byte
}

// BuildArchive returns a little-endian .db archive holding files stored
// without compression, followed by an uncompressed file list chunk and,
// when entryPoint is set, a header chunk declaring it.
func BuildArchive(tb testing.TB, entryPoint string, files []ArchiveFile) []byte {
	tb.Helper()

	order := binary.LittleEndian
	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b ArchiveFile) int {
		return strings.Compare(a.Name, b.Name)
	})

	var data []byte
	offsets := make([]uint32, len(sorted))
	for i, f := range sorted {
		offsets[i] = uint32(len(data)) //nolint:gosec // fixtures are small
		data = append(data, f.Content...)
	}

	var out []byte
	if entryPoint != "" {
		header := "[header]\r\nentry_point = $fs_root$\\" + entryPoint + "\r\n"
		out = append(out, Chunk(order, 666, []byte(header))...)
	}
	out = append(out, Chunk(order, 0, data)...)
	// Payload of the data chunk starts after its own preamble.
	base := uint32(len(out) - len(data)) //nolint:gosec // fixtures are small

	var list []byte
	for i, f := range sorted {
		size := uint32(len(f.Content)) //nolint:gosec // fixtures are small
		list = append(list, U16(order, uint16(16+len(f.Name)))...) //nolint:gosec // fixtures are small
		list = append(list, U32(order, size)...)
		list = append(list, U32(order, size)...)
		list = append(list, U32(order, crc32.ChecksumIEEE(f.Content))...)
		list = append(list, f.Name...)
		list = append(list, U32(order, base+offsets[i])...)
	}
	return append(out, Chunk(order, 1, list)...)
}
