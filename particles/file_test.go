package particles_test

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/internal/testutil"
	"github.com/meigma/xrf/particles"
)

var le = binary.LittleEndian

func ptr[T any](v T) *T {
	return &v
}

func sphere(radius float32) particles.Domain {
	return particles.Domain{
		Type:        3,
		Coordinates: [2]geom.Vector3d{{X: 1, Y: 2, Z: 3}, {}},
		Basis:       [2]geom.Vector3d{{X: 1}, {Y: 1}},
		Radius1:     radius,
		Radius1Sqr:  radius * radius,
	}
}

func sampleFile() *particles.File {
	return &particles.File{
		Header: particles.Header{Version: particles.HeaderVersion},
		Effects: []particles.Effect{
			{
				Version:      1,
				Name:         `anomaly2\electra_blast`,
				MaxParticles: 64,
				Flags:        0x401,
				Sprite:       particles.Sprite{Shader: "particles\\add", Texture: "pfx\\pfx_electra"},
				Actions: []particles.Action{
					{Type: particles.ActionSource, Flags: 1, Payload: &particles.Source{
						Position:     sphere(0.5),
						Velocity:     sphere(2),
						Alpha:        1,
						ParticleRate: 120,
						AgeSigma:     0.25,
						ParentVel:    geom.Vector3d{Y: 1},
					}},
					{Type: particles.ActionMove, Payload: &particles.Move{}},
					{Type: particles.ActionFollow, Payload: &particles.Follow{
						Attraction: particles.Attraction{Magnitude: 2, Epsilon: 0.001, MaxRadius: 5},
					}},
					{Type: particles.ActionTargetRotateD, Payload: &particles.TargetRotate{
						Rotation: geom.Vector3d{Z: 3.5}, Scale: 0.5,
					}},
					{Type: particles.ActionTurbulence, Payload: &particles.Turbulence{
						Frequency: 1.5, Octaves: -2, Magnitude: 0.1, Offset: geom.Vector3d{X: 1},
					}},
				},
				Frame: &particles.Frame{
					TextureSize:     [2]float32{0.25, 0.5},
					FrameDimensionX: 4,
					FrameCount:      8,
					Speed:           24,
				},
				TimeLimit:     ptr(float32(2.5)),
				Collision:     &particles.Collision{OneMinusFriction: 1, Resilience: 0.3, SqrCutoff: 0.01},
				VelocityScale: &geom.Vector3d{X: 1, Y: 1, Z: 1},
				Description:   &particles.Description{Creator: "gsc", Editor: "modder", CreatedTime: 1100000000, EditTime: 1200000000},
				EditorData:    &particles.EditorData{Value: []byte{1, 2, 3, 0, 4}},
				Rotation:      &geom.Vector3d{Y: 0.75},
			},
			{
				Version:      1,
				Name:         `explosions\smoke`,
				MaxParticles: 16,
				Sprite:       particles.Sprite{Shader: "particles\\blend", Texture: "pfx\\pfx_smoke"},
				Actions: []particles.Action{
					{Type: particles.ActionKillOld, Payload: &particles.KillOld{AgeLimit: 3, KillLessThan: 0}},
				},
			},
		},
		Groups: []particles.Group{
			{
				Version:   particles.GroupVersion,
				Name:      `anomaly2\electra_group`,
				Flags:     1,
				TimeLimit: 4,
				Effects: []particles.GroupEffect{
					{Name: `anomaly2\electra_blast`, OnDead: `explosions\smoke`, TimeEnd: 1.5, Flags: 3},
				},
				Description: &particles.Description{Creator: "gsc"},
				EffectsOld: []particles.GroupEffectOld{
					{Name: `explosions\smoke`, TimeStart: 0.5, TimeEnd: 2},
				},
			},
			{
				Version: particles.GroupVersion,
				Name:    `explosions\smoke_group`,
				Effects: []particles.GroupEffect{{Name: `explosions\smoke`}},
			},
		},
	}
}

func TestFileBinaryRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := sampleFile().Bytes()
	require.NoError(t, err)

	got, err := particles.Read(data)
	require.NoError(t, err)
	assert.Equal(t, sampleFile(), got)

	again, err := got.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestReadSortsByName(t *testing.T) {
	t.Parallel()

	f := sampleFile()
	f.Effects[0], f.Effects[1] = f.Effects[1], f.Effects[0]
	f.Groups[0], f.Groups[1] = f.Groups[1], f.Groups[0]
	data, err := f.Bytes()
	require.NoError(t, err)

	got, err := particles.Read(data)
	require.NoError(t, err)
	assert.Equal(t, `anomaly2\electra_blast`, got.Effects[0].Name)
	assert.Equal(t, `explosions\smoke`, got.Effects[1].Name)
	assert.Equal(t, `anomaly2\electra_group`, got.Groups[0].Name)
}

func TestFileWriteAndReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "particles.xr")
	require.NoError(t, sampleFile().WriteFile(path))

	got, err := particles.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleFile(), got)
}

func TestFileDirRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, sampleFile().ExportDir(dir))
	assert.FileExists(t, filepath.Join(dir, particles.HeaderFile))
	assert.FileExists(t, filepath.Join(dir, particles.EffectsFile))
	assert.FileExists(t, filepath.Join(dir, particles.GroupsFile))

	got, err := particles.ImportDir(dir)
	require.NoError(t, err)
	assert.Equal(t, sampleFile(), got)
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	header := testutil.Chunk(le, particles.HeaderChunkID, testutil.U16(le, 1))
	effects := testutil.Chunk(le, particles.EffectsChunkID)
	groups := testutil.Chunk(le, particles.GroupsChunkID)

	oldGroup := sampleFile()
	oldGroup.Groups[1].Version = 2
	oldGroupData, err := oldGroup.Bytes()
	require.NoError(t, err)

	good, err := sampleFile().Bytes()
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"first generation chunk", testutil.Concat(header, testutil.Chunk(le, particles.FirstgenChunkID), effects, groups), chunk.ErrUnsupported},
		{"missing groups", testutil.Concat(header, effects), chunk.ErrNotFound},
		{"extra chunk", testutil.Concat(header, effects, groups, testutil.Chunk(le, 9)), chunk.ErrParse},
		{"header version", testutil.Concat(testutil.Chunk(le, particles.HeaderChunkID, testutil.U16(le, 2)), effects, groups), chunk.ErrNotImplemented},
		{"group version", oldGroupData, chunk.ErrNotImplemented},
		{"truncated", good[:len(good)-3], chunk.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := particles.Read(tt.data)
			require.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestEmptyFile(t *testing.T) {
	t.Parallel()

	f := &particles.File{Header: particles.Header{Version: particles.HeaderVersion}}
	data, err := f.Bytes()
	require.NoError(t, err)
	assert.Equal(t, testutil.Concat(
		testutil.Chunk(le, particles.HeaderChunkID, testutil.U16(le, 1)),
		testutil.Chunk(le, particles.EffectsChunkID),
		testutil.Chunk(le, particles.GroupsChunkID),
	), data)

	got, err := particles.Read(data)
	require.NoError(t, err)
	assert.Empty(t, got.Effects)
	assert.Empty(t, got.Groups)
}

func TestImportDirRejectsWrongMeta(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, sampleFile().ExportDir(dir))
	testutil.WriteFile(t, dir, particles.HeaderFile, []byte("[header]\r\n$type = particle_effect\r\nversion = 1\r\n"))

	_, err := particles.ImportDir(dir)
	require.ErrorIs(t, err, chunk.ErrParse)
	assert.Contains(t, err.Error(), "$type")
}
