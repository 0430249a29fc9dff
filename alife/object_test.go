package alife_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/alife"
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

var le = binary.LittleEndian

func restrictorObject() *alife.Object {
	return &alife.Object{
		NetAction:   alife.NetActionSpawn,
		Section:     "space_restrictor",
		Name:        "zat_restrictor_0001",
		Position:    geom.Vector3d{X: 1.5, Y: -2, Z: 3.25},
		Direction:   geom.Vector3d{Y: 1},
		ID:          12,
		ParentID:    65535,
		PhantomID:   65535,
		ScriptFlags: alife.FlagSpawnVersion,
		Version:     128,
		SpawnID:     12,
		Data: &alife.SpaceRestrictor{
			Shape: alife.Shape{
				Abstract: alife.Abstract{
					GameVertexID:  40,
					Distance:      0.5,
					LevelVertexID: 1000,
					Flags:         7,
					CustomData:    "[logic]\ncfg = scripts\\a.ltx\n",
					StoryID:       65535,
					SpawnStoryID:  65535,
				},
				Shapes: []geom.Shape{
					geom.Sphere(geom.Vector3d{X: 1}, 4),
					geom.BoxShape(geom.Vector3d{X: 1}, geom.Vector3d{Y: 1}, geom.Vector3d{Z: 1}, geom.Vector3d{}),
				},
			},
			RestrictorType: 3,
		},
		UpdateData: []byte{1, 2, 3},
	}
}

func encode(t *testing.T, o *alife.Object) []byte {
	t.Helper()

	w := chunk.NewWriter(le)
	require.NoError(t, o.Write(w))
	return w.FlushRawIntoBuffer()
}

func TestObjectBinaryRoundTrip(t *testing.T) {
	t.Parallel()

	want := restrictorObject()
	data := encode(t, want)

	got := &alife.Object{}
	r := chunk.NewReader(data, le)
	require.NoError(t, got.Read(r))
	assert.True(t, r.IsEnded())
	assert.Equal(t, want, got)
	assert.Equal(t, alife.ClassSpaceRestrictor, got.Class())
	assert.Equal(t, data, encode(t, got))
}

func TestObjectLtxRoundTrip(t *testing.T) {
	t.Parallel()

	want := restrictorObject()
	section := ltx.New().WithSection("0")
	want.Export(section)

	got := &alife.Object{}
	require.NoError(t, got.Import(section))
	assert.Equal(t, want, got)

	name, ok := section.Get("name")
	require.True(t, ok)
	assert.Equal(t, "zat_restrictor_0001", name)
}

func TestObjectReadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(o *alife.Object)
		kind   error
	}{
		{
			name:   "old packet version",
			mutate: func(o *alife.Object) { o.Version = alife.MinSpawnVersion },
			kind:   chunk.ErrUnsupported,
		},
		{
			name:   "packet without version",
			mutate: func(o *alife.Object) { o.ScriptFlags = 0 },
			kind:   chunk.ErrUnsupported,
		},
		{
			name:   "wrong net action",
			mutate: func(o *alife.Object) { o.NetAction = 2 },
			kind:   chunk.ErrParse,
		},
		{
			name:   "client data present",
			mutate: func(o *alife.Object) { o.ClientDataSize = 4 },
			kind:   chunk.ErrParse,
		},
		{
			name: "unknown class",
			mutate: func(o *alife.Object) {
				o.Section = "some_unknown_section"
			},
			kind: chunk.ErrNotImplemented,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o := restrictorObject()
			tt.mutate(o)
			err := (&alife.Object{}).Read(chunk.NewReader(encode(t, o), le))
			require.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestItemWithUpgradesIsUnsupported(t *testing.T) {
	t.Parallel()

	o := restrictorObject()
	o.Section = "medkit"
	o.Data = &alife.Item{Condition: 1, UpgradesCount: 2}

	err := (&alife.Object{}).Read(chunk.NewReader(encode(t, o), le))
	require.ErrorIs(t, err, chunk.ErrUnsupported)
}

func TestImportUnknownClass(t *testing.T) {
	t.Parallel()

	section := ltx.New().WithSection("0")
	restrictorObject().Export(section)
	section.Set("section", "no_such_thing")

	err := (&alife.Object{}).Import(section)
	require.ErrorIs(t, err, chunk.ErrNotImplemented)
}
