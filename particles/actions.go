package particles

import "github.com/meigma/xrf/internal/geom"

// Avoid steers particles away from a domain.
type Avoid struct {
	Position  Domain
	LookAhead float32
	Magnitude float32
	Epsilon   float32
}

func (a *Avoid) fields() []field {
	return []field{
		{"position", &a.Position},
		{"look_ahead", &a.LookAhead},
		{"magnitude", &a.Magnitude},
		{"epsilon", &a.Epsilon},
	}
}

// Bounce reflects particles off a domain.
type Bounce struct {
	Position         Domain
	OneMinusFriction float32
	Resilience       float32
	CutoffSqr        float32
}

func (a *Bounce) fields() []field {
	return []field{
		{"position", &a.Position},
		{"one_minus_friction", &a.OneMinusFriction},
		{"resilience", &a.Resilience},
		{"cutoff_sqr", &a.CutoffSqr},
	}
}

type CopyVertex struct {
	CopyPosition uint32
}

func (a *CopyVertex) fields() []field {
	return []field{{"copy_position", &a.CopyPosition}}
}

type Damping struct {
	Damping  geom.Vector3d
	VLowSqr  float32
	VHighSqr float32
}

func (a *Damping) fields() []field {
	return []field{
		{"damping", &a.Damping},
		{"v_low_sqr", &a.VLowSqr},
		{"v_high_sqr", &a.VHighSqr},
	}
}

type Explosion struct {
	Center    geom.Vector3d
	Velocity  float32
	Magnitude float32
	StDev     float32
	Age       float32
	Epsilon   float32
}

func (a *Explosion) fields() []field {
	return []field{
		{"center", &a.Center},
		{"velocity", &a.Velocity},
		{"magnitude", &a.Magnitude},
		{"st_dev", &a.StDev},
		{"age", &a.Age},
		{"epsilon", &a.Epsilon},
	}
}

// Attraction is the shared layout of Follow, Gravitate and
// MatchVelocity.
type Attraction struct {
	Magnitude float32
	Epsilon   float32
	MaxRadius float32
}

func (a *Attraction) fields() []field {
	return []field{
		{"magnitude", &a.Magnitude},
		{"epsilon", &a.Epsilon},
		{"max_radius", &a.MaxRadius},
	}
}

type (
	Follow        struct{ Attraction }
	Gravitate     struct{ Attraction }
	MatchVelocity struct{ Attraction }
)

type Gravity struct {
	Direction geom.Vector3d
}

func (a *Gravity) fields() []field {
	return []field{{"direction", &a.Direction}}
}

type Jet struct {
	Center    geom.Vector3d
	Acc       Domain
	Magnitude float32
	Epsilon   float32
	MaxRadius float32
}

func (a *Jet) fields() []field {
	return []field{
		{"center", &a.Center},
		{"acc", &a.Acc},
		{"magnitude", &a.Magnitude},
		{"epsilon", &a.Epsilon},
		{"max_radius", &a.MaxRadius},
	}
}

type KillOld struct {
	AgeLimit     float32
	KillLessThan uint32
}

func (a *KillOld) fields() []field {
	return []field{
		{"age_limit", &a.AgeLimit},
		{"kill_less_than", &a.KillLessThan},
	}
}

// Move integrates positions; it has no parameters.
type Move struct{}

func (a *Move) fields() []field {
	return nil
}

// Orbit is the shared layout of OrbitLine and Vortex: a point and an
// axis followed by the attraction parameters.
type Orbit struct {
	Position  geom.Vector3d
	Axis      geom.Vector3d
	Magnitude float32
	Epsilon   float32
	MaxRadius float32
}

func (a *Orbit) fields() []field {
	return []field{
		{"position", &a.Position},
		{"axis", &a.Axis},
		{"magnitude", &a.Magnitude},
		{"epsilon", &a.Epsilon},
		{"max_radius", &a.MaxRadius},
	}
}

type (
	OrbitLine struct{ Orbit }
	Vortex    struct{ Orbit }
)

// Centered is the shared layout of OrbitPoint and Scatter.
type Centered struct {
	Center    geom.Vector3d
	Magnitude float32
	Epsilon   float32
	MaxRadius float32
}

func (a *Centered) fields() []field {
	return []field{
		{"center", &a.Center},
		{"magnitude", &a.Magnitude},
		{"epsilon", &a.Epsilon},
		{"max_radius", &a.MaxRadius},
	}
}

type (
	OrbitPoint struct{ Centered }
	Scatter    struct{ Centered }
)

type RandomAccel struct {
	Accel Domain
}

func (a *RandomAccel) fields() []field {
	return []field{{"gen_acc", &a.Accel}}
}

type RandomDisplace struct {
	Displace Domain
}

func (a *RandomDisplace) fields() []field {
	return []field{{"gen_disp", &a.Displace}}
}

type RandomVelocity struct {
	Velocity Domain
}

func (a *RandomVelocity) fields() []field {
	return []field{{"gen_vel", &a.Velocity}}
}

type Restore struct {
	TimeLeft float32
}

func (a *Restore) fields() []field {
	return []field{{"time_left", &a.TimeLeft}}
}

type Sink struct {
	KillInside uint32
	Position   Domain
}

func (a *Sink) fields() []field {
	return []field{
		{"kill_inside", &a.KillInside},
		{"position", &a.Position},
	}
}

type SinkVelocity struct {
	KillInside uint32
	Velocity   Domain
}

func (a *SinkVelocity) fields() []field {
	return []field{
		{"kill_inside", &a.KillInside},
		{"velocity", &a.Velocity},
	}
}

// Source emits new particles.
type Source struct {
	Position     Domain
	Velocity     Domain
	Rotation     Domain
	Size         Domain
	Color        Domain
	Alpha        float32
	ParticleRate float32
	Age          float32
	AgeSigma     float32
	ParentVel    geom.Vector3d
	ParentMotion float32
}

func (a *Source) fields() []field {
	return []field{
		{"position", &a.Position},
		{"velocity", &a.Velocity},
		{"rot", &a.Rotation},
		{"size", &a.Size},
		{"color", &a.Color},
		{"alpha", &a.Alpha},
		{"particle_rate", &a.ParticleRate},
		{"age", &a.Age},
		{"age_sigma", &a.AgeSigma},
		{"parent_vel", &a.ParentVel},
		{"parent_motion", &a.ParentMotion},
	}
}

type SpeedLimit struct {
	MinSpeed float32
	MaxSpeed float32
}

func (a *SpeedLimit) fields() []field {
	return []field{
		{"min_speed", &a.MinSpeed},
		{"max_speed", &a.MaxSpeed},
	}
}

type TargetColor struct {
	Color    geom.Vector3d
	Alpha    float32
	Scale    float32
	TimeFrom float32
	TimeTo   float32
}

func (a *TargetColor) fields() []field {
	return []field{
		{"color", &a.Color},
		{"alpha", &a.Alpha},
		{"scale", &a.Scale},
		{"time_from", &a.TimeFrom},
		{"time_to", &a.TimeTo},
	}
}

type TargetSize struct {
	Size  geom.Vector3d
	Scale geom.Vector3d
}

func (a *TargetSize) fields() []field {
	return []field{
		{"size", &a.Size},
		{"scale", &a.Scale},
	}
}

type TargetRotate struct {
	Rotation geom.Vector3d
	Scale    float32
}

func (a *TargetRotate) fields() []field {
	return []field{
		{"rot", &a.Rotation},
		{"scale", &a.Scale},
	}
}

type TargetVelocity struct {
	Velocity geom.Vector3d
	Scale    float32
}

func (a *TargetVelocity) fields() []field {
	return []field{
		{"velocity", &a.Velocity},
		{"scale", &a.Scale},
	}
}

type Turbulence struct {
	Frequency float32
	Octaves   int32
	Magnitude float32
	Epsilon   float32
	Offset    geom.Vector3d
}

func (a *Turbulence) fields() []field {
	return []field{
		{"frequency", &a.Frequency},
		{"octaves", &a.Octaves},
		{"magnitude", &a.Magnitude},
		{"epsilon", &a.Epsilon},
		{"offset", &a.Offset},
	}
}
