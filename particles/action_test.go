package particles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/internal/testutil"
	"github.com/meigma/xrf/ltx"
	"github.com/meigma/xrf/particles"
)

func TestActionTypeNames(t *testing.T) {
	t.Parallel()

	for kind := particles.ActionAvoid; kind <= particles.ActionScatter; kind++ {
		got, err := particles.ParseActionType(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	assert.Equal(t, "Unknown", particles.ActionUnknown.String())

	_, err := particles.ParseActionType("Teleport")
	require.ErrorIs(t, err, chunk.ErrParse)
}

func TestActionRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []particles.Action{
		{Type: particles.ActionAvoid, Flags: 1, Payload: &particles.Avoid{Position: sphere(1), LookAhead: 2, Magnitude: 3, Epsilon: 0.5}},
		{Type: particles.ActionBounce, Payload: &particles.Bounce{Position: sphere(4), OneMinusFriction: 0.9, Resilience: 0.1}},
		{Type: particles.ActionCopyVertex, Payload: &particles.CopyVertex{CopyPosition: 1}},
		{Type: particles.ActionDamping, Payload: &particles.Damping{Damping: geom.Vector3d{X: 0.5}, VHighSqr: 100}},
		{Type: particles.ActionExplosion, Payload: &particles.Explosion{Center: geom.Vector3d{Y: 1}, Velocity: 5, StDev: 0.2}},
		{Type: particles.ActionGravitate, Payload: &particles.Gravitate{Attraction: particles.Attraction{Magnitude: 1}}},
		{Type: particles.ActionGravity, Payload: &particles.Gravity{Direction: geom.Vector3d{Y: -9.8}}},
		{Type: particles.ActionJet, Payload: &particles.Jet{Center: geom.Vector3d{Z: 1}, Acc: sphere(0.1), MaxRadius: 2}},
		{Type: particles.ActionMatchVelocity, Payload: &particles.MatchVelocity{Attraction: particles.Attraction{Epsilon: 1}}},
		{Type: particles.ActionOrbitLine, Payload: &particles.OrbitLine{Orbit: particles.Orbit{Axis: geom.Vector3d{Y: 1}, Magnitude: 2}}},
		{Type: particles.ActionOrbitPoint, Payload: &particles.OrbitPoint{Centered: particles.Centered{Center: geom.Vector3d{X: 3}}}},
		{Type: particles.ActionRandomAccel, Payload: &particles.RandomAccel{Accel: sphere(2)}},
		{Type: particles.ActionRandomDisplace, Payload: &particles.RandomDisplace{Displace: sphere(3)}},
		{Type: particles.ActionRandomVelocity, Payload: &particles.RandomVelocity{Velocity: sphere(5)}},
		{Type: particles.ActionRestore, Payload: &particles.Restore{TimeLeft: 1.25}},
		{Type: particles.ActionSink, Payload: &particles.Sink{KillInside: 1, Position: sphere(6)}},
		{Type: particles.ActionSinkVelocity, Payload: &particles.SinkVelocity{Velocity: sphere(7)}},
		{Type: particles.ActionSpeedLimit, Payload: &particles.SpeedLimit{MinSpeed: 1, MaxSpeed: 10}},
		{Type: particles.ActionTargetColor, Payload: &particles.TargetColor{Color: geom.Vector3d{X: 1, Y: 0.5}, Alpha: 0.5, TimeTo: 1}},
		{Type: particles.ActionTargetSize, Payload: &particles.TargetSize{Size: geom.Vector3d{X: 2}, Scale: geom.Vector3d{Z: 1}}},
		{Type: particles.ActionTargetVelocityD, Payload: &particles.TargetVelocity{Velocity: geom.Vector3d{Y: 2}, Scale: 1}},
		{Type: particles.ActionVortex, Payload: &particles.Vortex{Orbit: particles.Orbit{Position: geom.Vector3d{X: 1}, Epsilon: 0.1}}},
		{Type: particles.ActionScatter, Payload: &particles.Scatter{Centered: particles.Centered{MaxRadius: 8}}},
	}
	for _, want := range tests {
		t.Run(want.Type.String(), func(t *testing.T) {
			t.Parallel()

			w := chunk.NewWriter(le)
			require.NoError(t, want.Write(w))

			var got particles.Action
			r := chunk.NewReader(w.FlushRawIntoBuffer(), le)
			require.NoError(t, got.Read(r))
			assert.True(t, r.IsEnded())
			assert.Equal(t, want, got)

			l := ltx.New()
			want.Export(l.WithSection("a"))
			var imported particles.Action
			require.NoError(t, imported.Import(l.WithSection("a")))
			assert.Equal(t, want, imported)
		})
	}
}

func TestActionReadErrors(t *testing.T) {
	t.Parallel()

	envelope := func(kind, flags, repeated uint32, payload ...[]byte) []byte {
		parts := append([][]byte{testutil.U32(le, kind), testutil.U32(le, flags), testutil.U32(le, repeated)}, payload...)
		return testutil.Concat(parts...)
	}

	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"repeated type differs", envelope(uint32(particles.ActionMove), 0, uint32(particles.ActionGravity)), chunk.ErrParse},
		{"call action list", envelope(uint32(particles.ActionCallActionList), 0, uint32(particles.ActionCallActionList)), chunk.ErrNotImplemented},
		{"unknown type", envelope(99, 0, 99), chunk.ErrParse},
		{"truncated payload", envelope(uint32(particles.ActionRestore), 0, uint32(particles.ActionRestore), []byte{0, 0}), chunk.ErrIO},
		{"truncated envelope", testutil.U32(le, 1), chunk.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var a particles.Action
			require.ErrorIs(t, a.Read(chunk.NewReader(tt.data, le)), tt.kind)
		})
	}
}

func TestActionWriteWithoutPayload(t *testing.T) {
	t.Parallel()

	a := particles.Action{Type: particles.ActionMove}
	require.ErrorIs(t, a.Write(chunk.NewWriter(le)), chunk.ErrInvalidFormat)
}

func TestDomainText(t *testing.T) {
	t.Parallel()

	d := sphere(1.5)
	d.Radius2 = 0.25
	got, err := particles.ParseDomain(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.Equal(t, "3,1,2,3,0,0,0,1,0,0,0,1,0,1.5,0.25,2.25,0", d.String())

	_, err = particles.ParseDomain("1,2,3")
	require.ErrorIs(t, err, chunk.ErrParse)
	_, err = particles.ParseDomain("x,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0")
	require.ErrorIs(t, err, chunk.ErrParse)
}
