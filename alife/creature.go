package alife

import (
	"strconv"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

const actorSaveMarker = 1

// TraderAbstract is a mixin for characters that can trade.
type TraderAbstract struct {
	Money             uint32
	SpecificCharacter string
	TraderFlags       uint32
	CharacterProfile  string
	CommunityIndex    uint32
	Rank              uint32
	Reputation        uint32
	CharacterName     string
	DeadBodyCanTake   uint8
	DeadBodyClosed    uint8
}

// Read implements Data.
func (t *TraderAbstract) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.U32(&t.Money)
	f.String(&t.SpecificCharacter)
	f.U32(&t.TraderFlags)
	f.String(&t.CharacterProfile)
	f.U32(&t.CommunityIndex)
	f.U32(&t.Rank)
	f.U32(&t.Reputation)
	f.String(&t.CharacterName)
	f.U8(&t.DeadBodyCanTake)
	f.U8(&t.DeadBodyClosed)
	return f.Err()
}

// Write implements Data.
func (t *TraderAbstract) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U32(t.Money)
	f.String(t.SpecificCharacter)
	f.U32(t.TraderFlags)
	f.String(t.CharacterProfile)
	f.U32(t.CommunityIndex)
	f.U32(t.Rank)
	f.U32(t.Reputation)
	f.String(t.CharacterName)
	f.U8(t.DeadBodyCanTake)
	f.U8(t.DeadBodyClosed)
	return f.Err()
}

// Import implements Data.
func (t *TraderAbstract) Import(s *ltx.Section) error {
	f := s.Fields()
	f.U32("trader.money", &t.Money)
	f.String("trader.specific_character", &t.SpecificCharacter)
	f.U32("trader.trader_flags", &t.TraderFlags)
	f.String("trader.character_profile", &t.CharacterProfile)
	f.U32("trader.community_index", &t.CommunityIndex)
	f.U32("trader.rank", &t.Rank)
	f.U32("trader.reputation", &t.Reputation)
	f.String("trader.character_name", &t.CharacterName)
	f.U8("trader.dead_body_can_take", &t.DeadBodyCanTake)
	f.U8("trader.dead_body_closed", &t.DeadBodyClosed)
	return f.Err()
}

// Export implements Data.
func (t *TraderAbstract) Export(s *ltx.Section) {
	s.SetUint("trader.money", uint64(t.Money)).
		Set("trader.specific_character", t.SpecificCharacter).
		SetUint("trader.trader_flags", uint64(t.TraderFlags)).
		Set("trader.character_profile", t.CharacterProfile).
		SetUint("trader.community_index", uint64(t.CommunityIndex)).
		SetUint("trader.rank", uint64(t.Rank)).
		SetUint("trader.reputation", uint64(t.Reputation)).
		Set("trader.character_name", t.CharacterName).
		SetUint("trader.dead_body_can_take", uint64(t.DeadBodyCanTake)).
		SetUint("trader.dead_body_closed", uint64(t.DeadBodyClosed))
}

// Creature is a living, visual dynamic object.
type Creature struct {
	DynamicVisual
	Team                   uint8
	Squad                  uint8
	Group                  uint8
	Health                 float32
	DynamicOutRestrictions []uint16
	DynamicInRestrictions  []uint16
	KillerID               uint16
	GameDeathTime          uint64
}

// Read implements Data.
func (o *Creature) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.DynamicVisual)
	f.U8(&o.Team)
	f.U8(&o.Squad)
	f.U8(&o.Group)
	f.F32(&o.Health)
	f.U16Vector(&o.DynamicOutRestrictions)
	f.U16Vector(&o.DynamicInRestrictions)
	f.U16(&o.KillerID)
	f.U64(&o.GameDeathTime)
	return f.Err()
}

// Write implements Data.
func (o *Creature) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.DynamicVisual)
	f.U8(o.Team)
	f.U8(o.Squad)
	f.U8(o.Group)
	f.F32(o.Health)
	f.U16Vector(o.DynamicOutRestrictions)
	f.U16Vector(o.DynamicInRestrictions)
	f.U16(o.KillerID)
	f.U64(o.GameDeathTime)
	return f.Err()
}

// Import implements Data.
func (o *Creature) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.DynamicVisual.Import)
	f.U8("creature.team", &o.Team)
	f.U8("creature.squad", &o.Squad)
	f.U8("creature.group", &o.Group)
	f.F32("creature.health", &o.Health)
	f.U16List("creature.dynamic_out_restrictions", &o.DynamicOutRestrictions)
	f.U16List("creature.dynamic_in_restrictions", &o.DynamicInRestrictions)
	f.U16("creature.killer_id", &o.KillerID)
	f.U64("creature.game_death_time", &o.GameDeathTime)
	return f.Err()
}

// Export implements Data.
func (o *Creature) Export(s *ltx.Section) {
	o.DynamicVisual.Export(s)
	s.SetUint("creature.team", uint64(o.Team)).
		SetUint("creature.squad", uint64(o.Squad)).
		SetUint("creature.group", uint64(o.Group)).
		SetF32("creature.health", o.Health).
		SetU16List("creature.dynamic_out_restrictions", o.DynamicOutRestrictions).
		SetU16List("creature.dynamic_in_restrictions", o.DynamicInRestrictions).
		SetUint("creature.killer_id", uint64(o.KillerID)).
		SetUint("creature.game_death_time", o.GameDeathTime)
}

// ObjectActor is the engine side of the player character.
type ObjectActor struct {
	Creature
	TraderAbstract
	Skeleton
	HolderID uint16
}

// Read implements Data.
func (o *ObjectActor) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.Creature)
	f.Value(&o.TraderAbstract)
	f.Value(&o.Skeleton)
	f.U16(&o.HolderID)
	return f.Err()
}

// Write implements Data.
func (o *ObjectActor) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.Creature)
	f.Value(&o.TraderAbstract)
	f.Value(&o.Skeleton)
	f.U16(o.HolderID)
	return f.Err()
}

// Import implements Data.
func (o *ObjectActor) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.Creature.Import)
	f.Do(o.TraderAbstract.Import)
	f.Do(o.Skeleton.Import)
	f.U16("actor.holder_id", &o.HolderID)
	return f.Err()
}

// Export implements Data.
func (o *ObjectActor) Export(s *ltx.Section) {
	o.Creature.Export(s)
	o.TraderAbstract.Export(s)
	o.Skeleton.Export(s)
	s.SetUint("actor.holder_id", uint64(o.HolderID))
}

// Actor is the scripted player object.
type Actor struct {
	ObjectActor
	StartPositionFilled uint8
	SaveMarker          uint16
}

// Read implements Data.
func (o *Actor) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.ObjectActor)
	f.U8(&o.StartPositionFilled)
	f.U16(&o.SaveMarker)
	if err := f.Err(); err != nil {
		return err
	}
	return chunk.Expect[uint16]("actor save marker", actorSaveMarker, o.SaveMarker)
}

// Write implements Data.
func (o *Actor) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.ObjectActor)
	f.U8(o.StartPositionFilled)
	f.U16(o.SaveMarker)
	return f.Err()
}

// Import implements Data.
func (o *Actor) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.ObjectActor.Import)
	f.U8("actor.start_position_filled", &o.StartPositionFilled)
	f.U16("actor.save_marker", &o.SaveMarker)
	return f.Err()
}

// Export implements Data.
func (o *Actor) Export(s *ltx.Section) {
	o.ObjectActor.Export(s)
	s.SetUint("actor.start_position_filled", uint64(o.StartPositionFilled)).
		SetUint("actor.save_marker", uint64(o.SaveMarker))
}

// ObjectSmartCover is a cover position described by shapes.
type ObjectSmartCover struct {
	Dynamic
	Shapes                []geom.Shape
	Description           string
	HoldPositionTime      float32
	EnterMinEnemyDistance float32
	ExitMinEnemyDistance  float32
	IsCombatCover         uint8
	CanFire               uint8
}

// Read implements Data.
func (o *ObjectSmartCover) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.Dynamic)
	f.Do(func(r *chunk.Reader) (err error) {
		o.Shapes, err = geom.ReadShapes(r)
		return err
	})
	f.String(&o.Description)
	f.F32(&o.HoldPositionTime)
	f.F32(&o.EnterMinEnemyDistance)
	f.F32(&o.ExitMinEnemyDistance)
	f.U8(&o.IsCombatCover)
	f.U8(&o.CanFire)
	return f.Err()
}

// Write implements Data.
func (o *ObjectSmartCover) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.Dynamic)
	f.Do(func(w *chunk.Writer) error { return geom.WriteShapes(w, o.Shapes) })
	f.String(o.Description)
	f.F32(o.HoldPositionTime)
	f.F32(o.EnterMinEnemyDistance)
	f.F32(o.ExitMinEnemyDistance)
	f.U8(o.IsCombatCover)
	f.U8(o.CanFire)
	return f.Err()
}

// Import implements Data.
func (o *ObjectSmartCover) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.Dynamic.Import)
	f.Do(func(s *ltx.Section) (err error) {
		o.Shapes, err = geom.ImportShapes(s)
		return err
	})
	f.String("smart_cover.description", &o.Description)
	f.F32("smart_cover.hold_position_time", &o.HoldPositionTime)
	f.F32("smart_cover.enter_min_enemy_distance", &o.EnterMinEnemyDistance)
	f.F32("smart_cover.exit_min_enemy_distance", &o.ExitMinEnemyDistance)
	f.U8("smart_cover.is_combat_cover", &o.IsCombatCover)
	f.U8("smart_cover.can_fire", &o.CanFire)
	return f.Err()
}

// Export implements Data.
func (o *ObjectSmartCover) Export(s *ltx.Section) {
	o.Dynamic.Export(s)
	geom.ExportShapes(s, o.Shapes)
	s.Set("smart_cover.description", o.Description).
		SetF32("smart_cover.hold_position_time", o.HoldPositionTime).
		SetF32("smart_cover.enter_min_enemy_distance", o.EnterMinEnemyDistance).
		SetF32("smart_cover.exit_min_enemy_distance", o.ExitMinEnemyDistance).
		SetUint("smart_cover.is_combat_cover", uint64(o.IsCombatCover)).
		SetUint("smart_cover.can_fire", uint64(o.CanFire))
}

// Loophole is a firing position of a smart cover.
type Loophole struct {
	Name    string
	Enabled uint8
}

// SmartCover is the scripted smart cover with its loophole states.
type SmartCover struct {
	ObjectSmartCover
	LastDescription string
	Loopholes       []Loophole
}

// Read implements Data.
func (o *SmartCover) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.ObjectSmartCover)
	f.String(&o.LastDescription)
	var count uint8
	f.U8(&count)
	if f.Err() == nil {
		o.Loopholes = make([]Loophole, count)
	}
	for i := range o.Loopholes {
		f.String(&o.Loopholes[i].Name)
		f.U8(&o.Loopholes[i].Enabled)
	}
	return f.Err()
}

// Write implements Data.
func (o *SmartCover) Write(w *chunk.Writer) error {
	if len(o.Loopholes) > 0xFF {
		return chunk.Errorf(chunk.ErrParse, "too many loopholes: %d", len(o.Loopholes))
	}
	f := w.Fields()
	f.Value(&o.ObjectSmartCover)
	f.String(o.LastDescription)
	f.U8(uint8(len(o.Loopholes)))
	for _, l := range o.Loopholes {
		f.String(l.Name)
		f.U8(l.Enabled)
	}
	return f.Err()
}

// Import implements Data.
func (o *SmartCover) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.ObjectSmartCover.Import)
	f.String("smart_cover.last_description", &o.LastDescription)
	var count uint8
	f.U8("smart_cover.loopholes_count", &count)
	if f.Err() == nil {
		o.Loopholes = make([]Loophole, count)
	}
	for i := range o.Loopholes {
		prefix := "smart_cover.loophole." + strconv.Itoa(i)
		f.String(prefix+".name", &o.Loopholes[i].Name)
		f.U8(prefix+".enabled", &o.Loopholes[i].Enabled)
	}
	return f.Err()
}

// Export implements Data.
func (o *SmartCover) Export(s *ltx.Section) {
	o.ObjectSmartCover.Export(s)
	s.Set("smart_cover.last_description", o.LastDescription).
		SetUint("smart_cover.loopholes_count", uint64(len(o.Loopholes)))
	for i, l := range o.Loopholes {
		prefix := "smart_cover.loophole." + strconv.Itoa(i)
		s.Set(prefix+".name", l.Name).SetUint(prefix+".enabled", uint64(l.Enabled))
	}
}
