package archive_test

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	lzo "github.com/rasky/go-lzo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/archive"
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/lzhuf"
	"github.com/meigma/xrf/internal/testutil"
)

var le = binary.LittleEndian

var gamedata = []testutil.ArchiveFile{
	{Name: `config\system.ltx`, Content: []byte("[section]\r\nkey = value\r\n")},
	{Name: `scripts\_g.script`, Content: []byte("function main() end\r\n")},
	{Name: `textures\act\act_face.dds`, Content: []byte{0xDD, 0x53, 0x20, 0x00, 1, 2, 3}},
	{Name: `config\empty.ltx`, Content: []byte{}},
}

// compressedArchive stores every file LZO compressed and packs both the
// file list and the header with LZHUF.
func compressedArchive(t *testing.T, root string, files []testutil.ArchiveFile, mutate ...func(d *archive.FileDescriptor)) []byte {
	t.Helper()

	var data []byte
	descriptors := make([]archive.FileDescriptor, len(files))
	for i, f := range files {
		packed := lzo.Compress1X(f.Content)
		descriptors[i] = archive.FileDescriptor{
			Name:           f.Name,
			Offset:         uint32(8 + len(data)),
			SizeReal:       uint32(len(f.Content)),
			SizeCompressed: uint32(len(packed)),
			CRC:            crc32.ChecksumIEEE(f.Content),
		}
		for _, fn := range mutate {
			fn(&descriptors[i])
		}
		data = append(data, packed...)
	}

	w := chunk.NewWriter(le)
	for i := range descriptors {
		require.NoError(t, descriptors[i].Write(w))
	}
	list := w.FlushRawIntoBuffer()
	header := []byte("[header]\r\nentry_point = $game_data$\\" + root + "\r\n")

	packed := func(id uint32, raw []byte) []byte {
		return testutil.Chunk(le, id|0x80000000, testutil.U32(le, uint32(len(raw))), lzhuf.Encode(raw)) //nolint:gosec // fixtures are small
	}
	return testutil.Concat(
		testutil.Chunk(le, 0, data),
		packed(archive.FileListAltChunkID, list),
		packed(archive.HeaderAltChunkID, header),
	)
}

func TestReadArchive(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, t.TempDir(), "gamedata.db0", testutil.BuildArchive(t, "gamedata", gamedata))
	a, err := archive.ReadArchive(path)
	require.NoError(t, err)
	assert.Equal(t, path, a.Path)
	assert.Equal(t, "gamedata", a.Root)
	require.Len(t, a.Files, len(gamedata))

	d := a.Files[`scripts\_g.script`]
	assert.Equal(t, uint32(21), d.SizeReal)
	assert.False(t, d.Compressed())
	assert.Equal(t, crc32.ChecksumIEEE(gamedata[1].Content), d.CRC)
}

func TestReadCompressedArchive(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, t.TempDir(), "resources.xdb0", compressedArchive(t, "gamedata", gamedata[:3]))
	a, err := archive.ReadArchive(path)
	require.NoError(t, err)
	assert.Equal(t, "gamedata", a.Root)
	require.Len(t, a.Files, 3)
	assert.Equal(t, uint32(len(gamedata[0].Content)), a.Files[`config\system.ltx`].SizeReal)
}

func TestReadArchiveErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := testutil.BuildArchive(t, "", gamedata)
	longName := testutil.Chunk(le, archive.FileListChunkID, testutil.U16(le, 16+520), make([]byte, 12))

	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"no file list", testutil.Chunk(le, 0, []byte{1, 2, 3}), chunk.ErrNotFound},
		{"truncated", good[:len(good)-3], chunk.ErrIO},
		{"short preamble", append(good, 1, 2, 3), chunk.ErrIO},
		{"name too long", longName, chunk.ErrParse},
		{"header without entry point", testutil.Concat(good, testutil.Chunk(le, archive.HeaderChunkID, []byte("[header]\r\n"))), chunk.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := testutil.WriteFile(t, dir, tt.name+".db", tt.data)
			_, err := archive.ReadArchive(path)
			require.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestIsArchivePath(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		"gamedata.db0":          true,
		"patches/xpatch_02.db":  true,
		"resources/config.xdb1": true,
		"GAMEDATA.DBA":          true,
		"fsgame.ltx":            false,
		"readme.txt":            false,
	} {
		assert.Equal(t, want, archive.IsArchivePath(path), path)
	}
}
