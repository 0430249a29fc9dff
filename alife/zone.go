package alife

import (
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

const (
	smartTerrainSaveMarker = 6
	levelChangerSaveMarker = 26
	lastSpawnTimeKey       = "last_spawn_time"
)

// CustomZone is a restrictor that periodically deals damage.
type CustomZone struct {
	SpaceRestrictor
	MaxPower       float32
	OwnerID        uint32
	EnabledTime    uint32
	DisabledTime   uint32
	StartTimeShift uint32
}

// Read implements Data.
func (o *CustomZone) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.SpaceRestrictor)
	f.F32(&o.MaxPower)
	f.U32(&o.OwnerID)
	f.U32(&o.EnabledTime)
	f.U32(&o.DisabledTime)
	f.U32(&o.StartTimeShift)
	return f.Err()
}

// Write implements Data.
func (o *CustomZone) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.SpaceRestrictor)
	f.F32(o.MaxPower)
	f.U32(o.OwnerID)
	f.U32(o.EnabledTime)
	f.U32(o.DisabledTime)
	f.U32(o.StartTimeShift)
	return f.Err()
}

// Import implements Data.
func (o *CustomZone) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.SpaceRestrictor.Import)
	f.F32("custom_zone.max_power", &o.MaxPower)
	f.U32("custom_zone.owner_id", &o.OwnerID)
	f.U32("custom_zone.enabled_time", &o.EnabledTime)
	f.U32("custom_zone.disabled_time", &o.DisabledTime)
	f.U32("custom_zone.start_time_shift", &o.StartTimeShift)
	return f.Err()
}

// Export implements Data.
func (o *CustomZone) Export(s *ltx.Section) {
	o.SpaceRestrictor.Export(s)
	s.SetF32("custom_zone.max_power", o.MaxPower).
		SetUint("custom_zone.owner_id", uint64(o.OwnerID)).
		SetUint("custom_zone.enabled_time", uint64(o.EnabledTime)).
		SetUint("custom_zone.disabled_time", uint64(o.DisabledTime)).
		SetUint("custom_zone.start_time_shift", uint64(o.StartTimeShift))
}

// AnomalyZone is a custom zone that spawns artefacts.
type AnomalyZone struct {
	CustomZone
	OfflineInteractiveRadius float32
	ArtefactSpawnCount       uint16
	ArtefactPositionOffset   uint32
}

// Read implements Data.
func (o *AnomalyZone) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.CustomZone)
	f.F32(&o.OfflineInteractiveRadius)
	f.U16(&o.ArtefactSpawnCount)
	f.U32(&o.ArtefactPositionOffset)
	return f.Err()
}

// Write implements Data.
func (o *AnomalyZone) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.CustomZone)
	f.F32(o.OfflineInteractiveRadius)
	f.U16(o.ArtefactSpawnCount)
	f.U32(o.ArtefactPositionOffset)
	return f.Err()
}

// Import implements Data.
func (o *AnomalyZone) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.CustomZone.Import)
	f.F32("anomaly_zone.offline_interactive_radius", &o.OfflineInteractiveRadius)
	f.U16("anomaly_zone.artefact_spawn_count", &o.ArtefactSpawnCount)
	f.U32("anomaly_zone.artefact_position_offset", &o.ArtefactPositionOffset)
	return f.Err()
}

// Export implements Data.
func (o *AnomalyZone) Export(s *ltx.Section) {
	o.CustomZone.Export(s)
	s.SetF32("anomaly_zone.offline_interactive_radius", o.OfflineInteractiveRadius).
		SetUint("anomaly_zone.artefact_spawn_count", uint64(o.ArtefactSpawnCount)).
		SetUint("anomaly_zone.artefact_position_offset", uint64(o.ArtefactPositionOffset))
}

func readOptionalTime(p **geom.Time) func(r *chunk.Reader) error {
	return func(r *chunk.Reader) (err error) {
		*p, err = chunk.ReadOptional[geom.Time](r)
		return err
	}
}

func writeOptionalTime(t *geom.Time) func(w *chunk.Writer) error {
	return func(w *chunk.Writer) error {
		return chunk.WriteOptional(w, t)
	}
}

// AnomalousZone is the scripted anomaly with its last artefact spawn time.
type AnomalousZone struct {
	AnomalyZone
	LastSpawnTime *geom.Time
}

// Read implements Data.
func (o *AnomalousZone) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.AnomalyZone)
	f.Do(readOptionalTime(&o.LastSpawnTime))
	return f.Err()
}

// Write implements Data.
func (o *AnomalousZone) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.AnomalyZone)
	f.Do(writeOptionalTime(o.LastSpawnTime))
	return f.Err()
}

// Import implements Data.
func (o *AnomalousZone) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.AnomalyZone.Import)
	geom.ImportOptionalTime(f, lastSpawnTimeKey, &o.LastSpawnTime)
	return f.Err()
}

// Export implements Data.
func (o *AnomalousZone) Export(s *ltx.Section) {
	o.AnomalyZone.Export(s)
	s.Set(lastSpawnTimeKey, geom.FormatOptionalTime(o.LastSpawnTime))
}

// ZoneVisual is an anomaly drawn with its own model and animations.
// The animation names are absent in older packets.
type ZoneVisual struct {
	AnomalyZone
	Visual
	IdleAnimation   string
	AttackAnimation string
	LastSpawnTime   *geom.Time
}

// Read implements Data.
func (o *ZoneVisual) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.AnomalyZone)
	f.Value(&o.Visual)
	f.Do(func(r *chunk.Reader) (err error) {
		if r.HasData() {
			o.IdleAnimation, err = r.ReadString()
		}
		return err
	})
	f.Do(func(r *chunk.Reader) (err error) {
		if r.HasData() {
			o.AttackAnimation, err = r.ReadString()
		}
		return err
	})
	f.Do(readOptionalTime(&o.LastSpawnTime))
	return f.Err()
}

// Write implements Data.
func (o *ZoneVisual) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.AnomalyZone)
	f.Value(&o.Visual)
	f.String(o.IdleAnimation)
	f.String(o.AttackAnimation)
	f.Do(writeOptionalTime(o.LastSpawnTime))
	return f.Err()
}

// Import implements Data.
func (o *ZoneVisual) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.AnomalyZone.Import)
	f.Do(o.Visual.Import)
	f.String("zone_visual.idle_animation", &o.IdleAnimation)
	f.String("zone_visual.attack_animation", &o.AttackAnimation)
	geom.ImportOptionalTime(f, lastSpawnTimeKey, &o.LastSpawnTime)
	return f.Err()
}

// Export implements Data.
func (o *ZoneVisual) Export(s *ltx.Section) {
	o.AnomalyZone.Export(s)
	o.Visual.Export(s)
	s.Set("zone_visual.idle_animation", o.IdleAnimation).
		Set("zone_visual.attack_animation", o.AttackAnimation).
		Set(lastSpawnTimeKey, geom.FormatOptionalTime(o.LastSpawnTime))
}

// TorridZone is a custom zone driven by an animation.
type TorridZone struct {
	CustomZone
	Motion
	LastSpawnTime *geom.Time
}

// Read implements Data.
func (o *TorridZone) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.CustomZone)
	f.Value(&o.Motion)
	f.Do(readOptionalTime(&o.LastSpawnTime))
	return f.Err()
}

// Write implements Data.
func (o *TorridZone) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.CustomZone)
	f.Value(&o.Motion)
	f.Do(writeOptionalTime(o.LastSpawnTime))
	return f.Err()
}

// Import implements Data.
func (o *TorridZone) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.CustomZone.Import)
	f.Do(o.Motion.Import)
	geom.ImportOptionalTime(f, lastSpawnTimeKey, &o.LastSpawnTime)
	return f.Err()
}

// Export implements Data.
func (o *TorridZone) Export(s *ltx.Section) {
	o.CustomZone.Export(s)
	o.Motion.Export(s)
	s.Set(lastSpawnTimeKey, geom.FormatOptionalTime(o.LastSpawnTime))
}

// SmartTerrain is a smart zone. Only freshly generated terrains, with no
// saved jobs or population, are supported.
type SmartTerrain struct {
	SmartZone
	ArrivingObjectsCount uint8
	ObjectJobDescriptors uint8
	DeadObjectsInfos     uint8
	SmartTerrainActor    uint8
	RespawnPoint         uint8
	StayingObjectsCount  uint8
	SaveMarker           uint16
}

// Read implements Data.
func (o *SmartTerrain) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.SmartZone)
	f.U8(&o.ArrivingObjectsCount)
	f.U8(&o.ObjectJobDescriptors)
	f.U8(&o.DeadObjectsInfos)
	f.U8(&o.SmartTerrainActor)
	f.U8(&o.RespawnPoint)
	f.U8(&o.StayingObjectsCount)
	f.U16(&o.SaveMarker)
	if err := f.Err(); err != nil {
		return err
	}
	for _, check := range []struct {
		what string
		v    uint8
	}{
		{"smart terrain arriving objects", o.ArrivingObjectsCount},
		{"smart terrain job descriptors", o.ObjectJobDescriptors},
		{"smart terrain dead object infos", o.DeadObjectsInfos},
		{"smart terrain actor control", o.SmartTerrainActor},
		{"smart terrain respawn point", o.RespawnPoint},
		{"smart terrain staying objects", o.StayingObjectsCount},
	} {
		if err := chunk.Expect(check.what, 0, check.v); err != nil {
			return err
		}
	}
	return chunk.Expect[uint16]("smart terrain save marker", smartTerrainSaveMarker, o.SaveMarker)
}

// Write implements Data.
func (o *SmartTerrain) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.SmartZone)
	f.U8(o.ArrivingObjectsCount)
	f.U8(o.ObjectJobDescriptors)
	f.U8(o.DeadObjectsInfos)
	f.U8(o.SmartTerrainActor)
	f.U8(o.RespawnPoint)
	f.U8(o.StayingObjectsCount)
	f.U16(o.SaveMarker)
	return f.Err()
}

// Import implements Data.
func (o *SmartTerrain) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.SmartZone.Import)
	f.U8("smart_terrain.arriving_objects_count", &o.ArrivingObjectsCount)
	f.U8("smart_terrain.object_job_descriptors", &o.ObjectJobDescriptors)
	f.U8("smart_terrain.dead_objects_infos", &o.DeadObjectsInfos)
	f.U8("smart_terrain.smart_terrain_actor_control", &o.SmartTerrainActor)
	f.U8("smart_terrain.respawn_point", &o.RespawnPoint)
	f.U8("smart_terrain.staying_objects_count", &o.StayingObjectsCount)
	f.U16("smart_terrain.save_marker", &o.SaveMarker)
	return f.Err()
}

// Export implements Data.
func (o *SmartTerrain) Export(s *ltx.Section) {
	o.SmartZone.Export(s)
	s.SetUint("smart_terrain.arriving_objects_count", uint64(o.ArrivingObjectsCount)).
		SetUint("smart_terrain.object_job_descriptors", uint64(o.ObjectJobDescriptors)).
		SetUint("smart_terrain.dead_objects_infos", uint64(o.DeadObjectsInfos)).
		SetUint("smart_terrain.smart_terrain_actor_control", uint64(o.SmartTerrainActor)).
		SetUint("smart_terrain.respawn_point", uint64(o.RespawnPoint)).
		SetUint("smart_terrain.staying_objects_count", uint64(o.StayingObjectsCount)).
		SetUint("smart_terrain.save_marker", uint64(o.SaveMarker))
}

// LevelChanger moves the actor to another level on contact.
type LevelChanger struct {
	SpaceRestrictor
	DestGameVertexID  uint16
	DestLevelVertexID uint32
	DestPosition      geom.Vector3d
	DestDirection     geom.Vector3d
	AngleY            float32
	DestLevelName     string
	DestGraphPoint    string
	SilentMode        uint8
	Enabled           uint8
	Hint              string
	SaveMarker        uint16
}

// Read implements Data.
func (o *LevelChanger) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.SpaceRestrictor)
	f.U16(&o.DestGameVertexID)
	f.U32(&o.DestLevelVertexID)
	f.Value(&o.DestPosition)
	f.Value(&o.DestDirection)
	f.F32(&o.AngleY)
	f.String(&o.DestLevelName)
	f.String(&o.DestGraphPoint)
	f.U8(&o.SilentMode)
	f.U8(&o.Enabled)
	f.String(&o.Hint)
	f.U16(&o.SaveMarker)
	if err := f.Err(); err != nil {
		return err
	}
	return chunk.Expect[uint16]("level changer save marker", levelChangerSaveMarker, o.SaveMarker)
}

// Write implements Data.
func (o *LevelChanger) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.SpaceRestrictor)
	f.U16(o.DestGameVertexID)
	f.U32(o.DestLevelVertexID)
	f.Value(&o.DestPosition)
	f.Value(&o.DestDirection)
	f.F32(o.AngleY)
	f.String(o.DestLevelName)
	f.String(o.DestGraphPoint)
	f.U8(o.SilentMode)
	f.U8(o.Enabled)
	f.String(o.Hint)
	f.U16(o.SaveMarker)
	return f.Err()
}

// Import implements Data.
func (o *LevelChanger) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.SpaceRestrictor.Import)
	f.U16("level_changer.dest_game_vertex_id", &o.DestGameVertexID)
	f.U32("level_changer.dest_level_vertex_id", &o.DestLevelVertexID)
	geom.ImportVector(f, "level_changer.dest_position", &o.DestPosition)
	geom.ImportVector(f, "level_changer.dest_direction", &o.DestDirection)
	f.F32("level_changer.angle_y", &o.AngleY)
	f.String("level_changer.dest_level_name", &o.DestLevelName)
	f.String("level_changer.dest_graph_point", &o.DestGraphPoint)
	f.U8("level_changer.silent_mode", &o.SilentMode)
	f.U8("level_changer.enabled", &o.Enabled)
	f.String("level_changer.hint", &o.Hint)
	f.U16("level_changer.save_marker", &o.SaveMarker)
	return f.Err()
}

// Export implements Data.
func (o *LevelChanger) Export(s *ltx.Section) {
	o.SpaceRestrictor.Export(s)
	s.SetUint("level_changer.dest_game_vertex_id", uint64(o.DestGameVertexID)).
		SetUint("level_changer.dest_level_vertex_id", uint64(o.DestLevelVertexID)).
		Set("level_changer.dest_position", o.DestPosition.String()).
		Set("level_changer.dest_direction", o.DestDirection.String()).
		SetF32("level_changer.angle_y", o.AngleY).
		Set("level_changer.dest_level_name", o.DestLevelName).
		Set("level_changer.dest_graph_point", o.DestGraphPoint).
		SetUint("level_changer.silent_mode", uint64(o.SilentMode)).
		SetUint("level_changer.enabled", uint64(o.Enabled)).
		Set("level_changer.hint", o.Hint).
		SetUint("level_changer.save_marker", uint64(o.SaveMarker))
}
