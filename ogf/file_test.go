package ogf_test

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/internal/testutil"
	"github.com/meigma/xrf/ogf"
)

var le = binary.LittleEndian

func header(modelType uint8) ogf.Header {
	return ogf.Header{
		FormatVersion:  4,
		ModelType:      modelType,
		ShaderID:       2,
		BoundingBox:    ogf.Box{Min: geom.Vector3d{X: -1, Y: 0, Z: -1}, Max: geom.Vector3d{X: 1, Y: 2, Z: 1}},
		BoundingSphere: ogf.Sphere{Center: geom.Vector3d{Y: 1}, Radius: 1.5},
	}
}

func sampleModel() *ogf.File {
	return &ogf.File{
		Header:  header(3),
		Texture: &ogf.Texture{Name: `act\act_stalker_neutral_1`, Shader: `models\model`},
		Children: []ogf.File{
			{
				Header:  header(1),
				Texture: &ogf.Texture{Name: `act\act_head`, Shader: `models\model`},
				Other:   []ogf.Raw{{ID: 3, Data: []byte{1, 2, 3, 4}}},
			},
			{Header: header(1)},
		},
		Bones: ogf.Bones{
			{Name: "root_stalker", Parent: ""},
			{Name: "bip01", Parent: "root_stalker", Box: ogf.OrientedBox{
				Rotation: [3]geom.Vector3d{{X: 1}, {Y: 1}, {Z: 1}},
				HalfSize: geom.Vector3d{X: 0.5, Y: 0.5, Z: 0.5},
			}},
		},
		Description: &ogf.Description{
			Source:     `actors\stalker_neutral.object`,
			ExportTool: "ActorEditor",
			ExportTime: 1200000000,
			Creator:    "gsc",
			CreateTime: 1100000000,
			Editor:     "gsc",
			EditTime:   1150000000,
		},
		Kinematics: &ogf.Kinematics{
			SourceChunkID: ogf.KinematicsChunkID,
			MotionRefs:    []string{`stalker_animation`, `stalker_animation_combat`},
		},
		Other: []ogf.Raw{{ID: 15, Data: []byte{9, 9}}},
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := sampleModel().Bytes()
	require.NoError(t, err)

	got, err := ogf.Read(data)
	require.NoError(t, err)
	assert.Equal(t, sampleModel(), got)

	again, err := got.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestMotionRefs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{`stalker_animation`, `stalker_animation_combat`}, sampleModel().MotionRefs())
	assert.Nil(t, (&ogf.File{Header: header(1)}).MotionRefs())

	path := filepath.Join(t.TempDir(), "stalker.ogf")
	require.NoError(t, sampleModel().WriteFile(path))

	refs, err := ogf.ReadMotionRefs(path)
	require.NoError(t, err)
	assert.Equal(t, sampleModel().MotionRefs(), refs)

	got, err := ogf.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleModel(), got)
}

func TestOldKinematics(t *testing.T) {
	t.Parallel()

	f := &ogf.File{
		Header:     header(3),
		Kinematics: &ogf.Kinematics{SourceChunkID: ogf.KinematicsOldChunkID, MotionRefs: []string{"legacy"}},
	}
	data, err := f.Bytes()
	require.NoError(t, err)
	got, err := ogf.Read(data)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	f.Kinematics.MotionRefs = []string{"a", "b"}
	_, err = f.Bytes()
	require.ErrorIs(t, err, chunk.ErrNotImplemented)
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	good, err := (&ogf.File{Header: header(1)}).Bytes()
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"missing header", testutil.Chunk(le, ogf.TextureChunkID, testutil.CString("a"), testutil.CString("b")), chunk.ErrNotFound},
		{"short header", testutil.Chunk(le, ogf.HeaderChunkID, []byte{4, 1}), chunk.ErrIO},
		{"long header", testutil.Chunk(le, ogf.HeaderChunkID, good[8:], []byte{0}), chunk.ErrChunkNotEnded},
		{"truncated", good[:len(good)-1], chunk.ErrIO},
		{"unterminated motion ref", testutil.Concat(good, testutil.Chunk(le, ogf.KinematicsOldChunkID, []byte("ref"))), chunk.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ogf.Read(tt.data)
			require.ErrorIs(t, err, tt.kind)
		})
	}
}
