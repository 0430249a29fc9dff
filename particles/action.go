package particles

import (
	"fmt"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

// ActionType is the discriminant stored in front of every action payload.
type ActionType uint32

const (
	ActionAvoid ActionType = iota
	ActionBounce
	ActionCallActionList
	ActionCopyVertex
	ActionDamping
	ActionExplosion
	ActionFollow
	ActionGravitate
	ActionGravity
	ActionJet
	ActionKillOld
	ActionMatchVelocity
	ActionMove
	ActionOrbitLine
	ActionOrbitPoint
	ActionRandomAccel
	ActionRandomDisplace
	ActionRandomVelocity
	ActionRestore
	ActionSink
	ActionSinkVelocity
	ActionSource
	ActionSpeedLimit
	ActionTargetColor
	ActionTargetSize
	ActionTargetRotate
	ActionTargetRotateD
	ActionTargetVelocity
	ActionTargetVelocityD
	ActionVortex
	ActionTurbulence
	ActionScatter

	ActionUnknown ActionType = 0xFFFFFFFF
)

var actionNames = [...]string{
	ActionAvoid:           "Avoid",
	ActionBounce:          "Bounce",
	ActionCallActionList:  "CallActionList",
	ActionCopyVertex:      "CopyVertex",
	ActionDamping:         "Damping",
	ActionExplosion:       "Explosion",
	ActionFollow:          "Follow",
	ActionGravitate:       "Gravitate",
	ActionGravity:         "Gravity",
	ActionJet:             "Jet",
	ActionKillOld:         "KillOld",
	ActionMatchVelocity:   "MatchVelocity",
	ActionMove:            "Move",
	ActionOrbitLine:       "OrbitLine",
	ActionOrbitPoint:      "OrbitPoint",
	ActionRandomAccel:     "RandomAccel",
	ActionRandomDisplace:  "RandomDisplace",
	ActionRandomVelocity:  "RandomVelocity",
	ActionRestore:         "Restore",
	ActionSink:            "Sink",
	ActionSinkVelocity:    "SinkVelocity",
	ActionSource:          "Source",
	ActionSpeedLimit:      "SpeedLimit",
	ActionTargetColor:     "TargetColor",
	ActionTargetSize:      "TargetSize",
	ActionTargetRotate:    "TargetRotate",
	ActionTargetRotateD:   "TargetRotateD",
	ActionTargetVelocity:  "TargetVelocity",
	ActionTargetVelocityD: "TargetVelocityD",
	ActionVortex:          "Vortex",
	ActionTurbulence:      "Turbulence",
	ActionScatter:         "Scatter",
}

func (t ActionType) String() string {
	if int(t) < len(actionNames) {
		return actionNames[t]
	}
	return "Unknown"
}

// ParseActionType maps a name produced by String back to its type.
func ParseActionType(name string) (ActionType, error) {
	for i, n := range actionNames {
		if n == name {
			return ActionType(i), nil //nolint:gosec // index of a fixed table
		}
	}
	return ActionUnknown, chunk.Errorf(chunk.ErrParse, "unknown particle action type %q", name)
}

// Payload is the type-specific body of an action. The set of payloads is
// closed; see NewPayload.
type Payload interface {
	fields() []field
}

// NewPayload returns an empty payload for t. TargetRotateD and
// TargetVelocityD share the layout of their plain variants.
func NewPayload(t ActionType) (Payload, error) {
	switch t {
	case ActionAvoid:
		return &Avoid{}, nil
	case ActionBounce:
		return &Bounce{}, nil
	case ActionCallActionList:
		return nil, chunk.Errorf(chunk.ErrNotImplemented, "particle action %s", t)
	case ActionCopyVertex:
		return &CopyVertex{}, nil
	case ActionDamping:
		return &Damping{}, nil
	case ActionExplosion:
		return &Explosion{}, nil
	case ActionFollow:
		return &Follow{}, nil
	case ActionGravitate:
		return &Gravitate{}, nil
	case ActionGravity:
		return &Gravity{}, nil
	case ActionJet:
		return &Jet{}, nil
	case ActionKillOld:
		return &KillOld{}, nil
	case ActionMatchVelocity:
		return &MatchVelocity{}, nil
	case ActionMove:
		return &Move{}, nil
	case ActionOrbitLine:
		return &OrbitLine{}, nil
	case ActionOrbitPoint:
		return &OrbitPoint{}, nil
	case ActionRandomAccel:
		return &RandomAccel{}, nil
	case ActionRandomDisplace:
		return &RandomDisplace{}, nil
	case ActionRandomVelocity:
		return &RandomVelocity{}, nil
	case ActionRestore:
		return &Restore{}, nil
	case ActionSink:
		return &Sink{}, nil
	case ActionSinkVelocity:
		return &SinkVelocity{}, nil
	case ActionSource:
		return &Source{}, nil
	case ActionSpeedLimit:
		return &SpeedLimit{}, nil
	case ActionTargetColor:
		return &TargetColor{}, nil
	case ActionTargetSize:
		return &TargetSize{}, nil
	case ActionTargetRotate, ActionTargetRotateD:
		return &TargetRotate{}, nil
	case ActionTargetVelocity, ActionTargetVelocityD:
		return &TargetVelocity{}, nil
	case ActionVortex:
		return &Vortex{}, nil
	case ActionTurbulence:
		return &Turbulence{}, nil
	case ActionScatter:
		return &Scatter{}, nil
	default:
		return nil, chunk.Errorf(chunk.ErrParse, "unknown particle action type %d", uint32(t))
	}
}

// Action is one step of an effect's action list.
//
// On disk the type is stored twice: once in the envelope and once in
// front of the payload. Both copies must agree.
type Action struct {
	Type    ActionType
	Flags   uint32
	Payload Payload
}

func (a *Action) Read(r *chunk.Reader) error {
	var kind, flags, repeated uint32
	f := r.Fields()
	f.U32(&kind)
	f.U32(&flags)
	f.U32(&repeated)
	if err := f.Err(); err != nil {
		return err
	}
	if err := chunk.Expect("particle action type", kind, repeated); err != nil {
		return err
	}
	payload, err := NewPayload(ActionType(kind))
	if err != nil {
		return err
	}
	if err := readFields(r, payload.fields()); err != nil {
		return fmt.Errorf("particle action %s: %w", ActionType(kind), err)
	}
	a.Type, a.Flags, a.Payload = ActionType(kind), flags, payload
	return nil
}

func (a *Action) Write(w *chunk.Writer) error {
	if a.Payload == nil {
		return chunk.Errorf(chunk.ErrInvalidFormat, "particle action %s has no payload", a.Type)
	}
	f := w.Fields()
	f.U32(uint32(a.Type))
	f.U32(a.Flags)
	f.U32(uint32(a.Type))
	f.Do(func(w *chunk.Writer) error {
		return writeFields(w, a.Payload.fields())
	})
	return f.Err()
}

// Import reads the action_type and action_flags keys and then the
// payload fields of the same section.
func (a *Action) Import(s *ltx.Section) error {
	if err := checkMeta(s, metaAction); err != nil {
		return err
	}
	name, err := s.String("action_type")
	if err != nil {
		return err
	}
	kind, err := ParseActionType(name)
	if err != nil {
		return err
	}
	payload, err := NewPayload(kind)
	if err != nil {
		return err
	}
	flags, err := s.U32("action_flags")
	if err != nil {
		return err
	}
	if err := importFields(s, payload.fields()); err != nil {
		return err
	}
	a.Type, a.Flags, a.Payload = kind, flags, payload
	return nil
}

func (a *Action) Export(s *ltx.Section) {
	s.Set(metaTypeKey, metaAction).
		Set("action_type", a.Type.String()).
		SetUint("action_flags", uint64(a.Flags))
	if a.Payload != nil {
		exportFields(s, a.Payload.fields())
	}
}

// actionList is the u32-counted list stored in the effect actions chunk.
type actionList []Action

func (l *actionList) Read(r *chunk.Reader) error {
	actions, err := chunk.ReadList[Action](r)
	if err != nil {
		return err
	}
	*l = actions
	return r.EnsureEnded("particle actions")
}

func (l *actionList) Write(w *chunk.Writer) error {
	return chunk.WriteList(w, []Action(*l))
}

// field binds an LTX key to a payload member. Supported members are
// *float32, *uint32, *int32, *geom.Vector3d and *Domain.
type field struct {
	key string
	ptr any
}

func readFields(r *chunk.Reader, fields []field) error {
	f := r.Fields()
	for _, fd := range fields {
		switch p := fd.ptr.(type) {
		case *float32:
			f.F32(p)
		case *uint32:
			f.U32(p)
		case *int32:
			f.I32(p)
		case chunk.Codec:
			f.Value(p)
		default:
			panic(fmt.Sprintf("particles: unsupported field type %T", fd.ptr))
		}
	}
	return f.Err()
}

func writeFields(w *chunk.Writer, fields []field) error {
	f := w.Fields()
	for _, fd := range fields {
		switch p := fd.ptr.(type) {
		case *float32:
			f.F32(*p)
		case *uint32:
			f.U32(*p)
		case *int32:
			f.I32(*p)
		case chunk.Codec:
			f.Value(p)
		default:
			panic(fmt.Sprintf("particles: unsupported field type %T", fd.ptr))
		}
	}
	return f.Err()
}

func importFields(s *ltx.Section, fields []field) error {
	f := s.Fields()
	for _, fd := range fields {
		switch p := fd.ptr.(type) {
		case *float32:
			f.F32(fd.key, p)
		case *uint32:
			f.U32(fd.key, p)
		case *int32:
			f.I32(fd.key, p)
		case *geom.Vector3d:
			geom.ImportVector(f, fd.key, p)
		case *Domain:
			importDomain(f, fd.key, p)
		default:
			panic(fmt.Sprintf("particles: unsupported field type %T", fd.ptr))
		}
	}
	return f.Err()
}

func exportFields(s *ltx.Section, fields []field) {
	for _, fd := range fields {
		switch p := fd.ptr.(type) {
		case *float32:
			s.SetF32(fd.key, *p)
		case *uint32:
			s.SetUint(fd.key, uint64(*p))
		case *int32:
			s.SetInt(fd.key, int64(*p))
		case *geom.Vector3d:
			s.Set(fd.key, p.String())
		case *Domain:
			s.Set(fd.key, p.String())
		default:
			panic(fmt.Sprintf("particles: unsupported field type %T", fd.ptr))
		}
	}
}
