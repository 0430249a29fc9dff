package spawn_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/alife"
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/spawn"
)

func sampleFile() *spawn.File {
	levelGUID := uuid.MustParse("78e55023-10b1-426f-9247-bb680e5fe0b7")
	return &spawn.File{
		Header: spawn.Header{
			Version:      10,
			GUID:         uuid.MustParse("2f7c6a1e-8d4b-4c3a-9e21-0b5d7f9a1c33"),
			GraphGUID:    uuid.MustParse("5a9d3c2b-1e4f-4a6b-8c7d-9e0f1a2b3c4d"),
			ObjectsCount: 1,
			LevelsCount:  1,
		},
		ALifeSpawns: spawn.ALifeSpawns{Objects: []alife.Object{{
			NetAction:   alife.NetActionSpawn,
			Section:     "space_restrictor",
			Name:        "jup_restrictor",
			Position:    geom.Vector3d{X: 10.5, Y: 1, Z: -3},
			ParentID:    65535,
			PhantomID:   65535,
			ScriptFlags: alife.FlagSpawnVersion,
			Version:     128,
			Data: &alife.SpaceRestrictor{
				Shape: alife.Shape{
					Abstract: alife.Abstract{GameVertexID: 3, StoryID: 65535, SpawnStoryID: 65535},
					Shapes:   []geom.Shape{geom.Sphere(geom.Vector3d{}, 2.5)},
				},
				RestrictorType: 1,
			},
			UpdateData: []byte{0xAB},
		}}},
		ArtefactSpawns: spawn.ArtefactSpawns{Nodes: []spawn.ArtefactSpawnPoint{
			{Position: geom.Vector3d{X: 1, Y: 2, Z: 3}, LevelVertexID: 1000, Distance: 0.75},
		}},
		Patrols: spawn.Patrols{Patrols: []spawn.Patrol{{
			Name: "jup_b1_walk",
			Points: []spawn.PatrolPoint{
				{Name: "wp00", Position: geom.Vector3d{X: 1}, Flags: 1, LevelVertexID: 7, GameVertexID: 2},
				{Name: "wp01", Position: geom.Vector3d{Z: 4}, LevelVertexID: 9, GameVertexID: 2},
			},
			Links: []spawn.PatrolLink{
				{Index: 0, Links: []spawn.LinkTarget{{To: 1, Weight: 1}}},
			},
		}}},
		Graphs: spawn.Graphs{
			Header: spawn.GraphHeader{
				Version:       8,
				VerticesCount: 2,
				EdgesCount:    1,
				PointsCount:   1,
				GUID:          levelGUID,
				LevelsCount:   1,
			},
			Levels: []spawn.GraphLevel{
				{Name: "jupiter", Offset: geom.Vector3d{X: 100}, ID: 0, Section: "jupiter", GUID: levelGUID},
			},
			Vertices: []spawn.GraphVertex{
				{LevelPoint: geom.Vector3d{X: 1}, GamePoint: geom.Vector3d{X: 101}, LevelVertexID: 0xABCDEF,
					VertexType: [4]uint8{1, 2, 3, 4}, EdgeCount: 1, LevelPointCount: 1},
				{LevelPoint: geom.Vector3d{Y: 1}, GamePoint: geom.Vector3d{Y: 101}, LevelVertexID: 12,
					EdgeOffset: 6, LevelPointOffset: 20},
			},
			Edges:  []spawn.GraphEdge{{GameVertexID: 1, Distance: 12.5}},
			Points: []spawn.GraphLevelPoint{{Position: geom.Vector3d{Z: 2}, LevelVertexID: 5, Distance: 0.5}},
			CrossTables: []spawn.GraphCrossTable{
				{Version: 16, NodesCount: 3, VerticesCount: 2, LevelGUID: levelGUID, GameGUID: levelGUID,
					Data: []byte{0, 1, 2, 3, 4, 5}},
			},
		},
	}
}

func TestFileBinaryRoundTrip(t *testing.T) {
	t.Parallel()

	want := sampleFile()
	data, err := want.Bytes()
	require.NoError(t, err)

	got, err := spawn.Read(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	again, err := got.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, again), "re-encoded bytes differ")
}

func TestFileWriteAndReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "all.spawn")
	require.NoError(t, sampleFile().WriteFile(path))

	got, err := spawn.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleFile(), got)
}

func TestFileDirRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := sampleFile()
	require.NoError(t, want.ExportDir(dir))

	for _, name := range []string{spawn.HeaderFile, spawn.PatrolLinksFile, spawn.GraphsCrossTableFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	got, err := spawn.ImportDir(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	good, err := sampleFile().Bytes()
	require.NoError(t, err)

	header := chunk.NewWriter(chunk.EngineOrder)
	h := sampleFile().Header
	require.NoError(t, header.WriteChild(spawn.HeaderChunkID, h.Write))

	wrongCount := bytes.Clone(good)
	// Preamble, version and two guids precede objects_count.
	wrongCount[8+4+16+16] = 7

	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"missing chunks", header.FlushRawIntoBuffer(), chunk.ErrNotFound},
		{"objects count mismatch", wrongCount, chunk.ErrParse},
		{"truncated", good[:len(good)-3], chunk.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := spawn.Read(tt.data)
			require.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestWriteRejectsInconsistentHeader(t *testing.T) {
	t.Parallel()

	f := sampleFile()
	f.Header.LevelsCount = 2
	_, err := f.Bytes()
	require.ErrorIs(t, err, chunk.ErrParse)
}
