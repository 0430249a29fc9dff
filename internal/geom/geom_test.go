package geom_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

var le = binary.LittleEndian

func testShapes() []geom.Shape {
	return []geom.Shape{
		geom.Sphere(geom.Vector3d{X: 5.5, Y: 0.5, Z: 11.5}, 1),
		geom.BoxShape(
			geom.Vector3d{X: 5.5, Y: 12.5, Z: 73.1},
			geom.Vector3d{X: 5.1, Y: 13.2, Z: 2.3},
			geom.Vector3d{X: 1, Y: 12, Z: 6.4},
			geom.Vector3d{X: 9.2, Y: 13.3, Z: 3},
		),
		geom.Sphere(geom.Vector3d{X: -1.25}, 0.5),
	}
}

func TestShapesBinary(t *testing.T) {
	t.Parallel()

	shapes := testShapes()
	w := chunk.NewWriter(le)
	require.NoError(t, geom.WriteShapes(w, shapes))
	// count, two spheres and a box
	assert.Equal(t, 1+17+49+17, w.BytesWritten())

	r := chunk.NewReader(w.FlushRawIntoBuffer(), le)
	got, err := geom.ReadShapes(r)
	require.NoError(t, err)
	assert.True(t, r.IsEnded())
	assert.Equal(t, shapes, got)
}

func TestShapesBinaryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"unknown type", []byte{1, 2}, chunk.ErrParse},
		{"truncated sphere", []byte{1, 0, 0, 0}, chunk.ErrIO},
		{"missing count", nil, chunk.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := geom.ReadShapes(chunk.NewReader(tt.data, le))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTooManyShapes(t *testing.T) {
	t.Parallel()

	shapes := make([]geom.Shape, 256)
	err := geom.WriteShapes(chunk.NewWriter(le), shapes)
	require.ErrorIs(t, err, chunk.ErrParse)
}

func TestShapesLtx(t *testing.T) {
	t.Parallel()

	shapes := testShapes()
	s := ltx.New().WithSection("restrictor")
	geom.ExportShapes(s, shapes)

	v, _ := s.Get("shape.1.type")
	assert.Equal(t, "box", v)
	v, _ = s.Get("shape.0.center")
	assert.Equal(t, "5.5,0.5,11.5", v)

	got, err := geom.ImportShapes(s)
	require.NoError(t, err)
	assert.Equal(t, shapes, got)

	s.Set("shape.2.type", "cylinder")
	_, err = geom.ImportShapes(s)
	require.ErrorIs(t, err, chunk.ErrParse)

	s.Set("shape.2.type", "sphere").Set("shape.2.center", "1,2")
	_, err = geom.ImportShapes(s)
	require.ErrorIs(t, err, chunk.ErrParse)
}

func TestParseVector3d(t *testing.T) {
	t.Parallel()

	v, err := geom.ParseVector3d(" 1.5, -2,0.25 ")
	require.NoError(t, err)
	assert.Equal(t, geom.Vector3d{X: 1.5, Y: -2, Z: 0.25}, v)
	assert.Equal(t, "1.5,-2,0.25", v.String())

	for _, bad := range []string{"", "1,2", "1,2,3,4", "1,x,3"} {
		_, err := geom.ParseVector3d(bad)
		require.ErrorIs(t, err, chunk.ErrParse, bad)
	}
}

func TestTime(t *testing.T) {
	t.Parallel()

	want := geom.Time{Year: 12, Month: 6, Day: 1, Hour: 9, Minute: 30, Second: 15, Millis: 999}
	assert.Equal(t, "12,6,1,9,30,15,999", want.String())

	got, err := geom.ParseTime(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	w := chunk.NewWriter(le)
	require.NoError(t, want.Write(w))
	assert.Equal(t, 8, w.BytesWritten())
	var read geom.Time
	require.NoError(t, read.Read(chunk.NewReader(w.FlushRawIntoBuffer(), le)))
	assert.Equal(t, want, read)

	for _, bad := range []string{"", "1,2,3,4,5,6", "1,2,3,4,5,6,7,8", "256,1,1,1,1,1,1", "1,1,1,1,1,1,65536"} {
		_, err := geom.ParseTime(bad)
		require.ErrorIs(t, err, chunk.ErrParse, bad)
	}
}

func TestOptionalTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, geom.Nil, geom.FormatOptionalTime(nil))
	p, err := geom.ParseOptionalTime(" nil ")
	require.NoError(t, err)
	assert.Nil(t, p)

	want := &geom.Time{Year: 1, Month: 2, Day: 3}
	p, err = geom.ParseOptionalTime(geom.FormatOptionalTime(want))
	require.NoError(t, err)
	assert.Equal(t, want, p)

	s := ltx.New().WithSection("zone").Set("t", "")
	var got *geom.Time
	f := s.Fields()
	geom.ImportOptionalTime(f, "t", &got)
	require.ErrorIs(t, f.Err(), chunk.ErrParse, "empty text is not an absent time")

	f = s.Fields()
	geom.ImportOptionalTime(f, "missing", &got)
	var notFound *chunk.NotFoundError
	require.ErrorAs(t, f.Err(), &notFound)
}
