package alife

import (
	"strconv"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

// Physic is a dynamic object simulated by the physics engine.
type Physic struct {
	DynamicVisual
	Skeleton
	PhysicType uint32
	Mass       float32
	FixedBones string
}

// Read implements Data.
func (o *Physic) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.DynamicVisual)
	f.Value(&o.Skeleton)
	f.U32(&o.PhysicType)
	f.F32(&o.Mass)
	f.String(&o.FixedBones)
	return f.Err()
}

// Write implements Data.
func (o *Physic) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.DynamicVisual)
	f.Value(&o.Skeleton)
	f.U32(o.PhysicType)
	f.F32(o.Mass)
	f.String(o.FixedBones)
	return f.Err()
}

// Import implements Data.
func (o *Physic) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.DynamicVisual.Import)
	f.Do(o.Skeleton.Import)
	f.U32("physic.physic_type", &o.PhysicType)
	f.F32("physic.mass", &o.Mass)
	f.String("physic.fixed_bones", &o.FixedBones)
	return f.Err()
}

// Export implements Data.
func (o *Physic) Export(s *ltx.Section) {
	o.DynamicVisual.Export(s)
	o.Skeleton.Export(s)
	s.SetUint("physic.physic_type", uint64(o.PhysicType)).
		SetF32("physic.mass", o.Mass).
		Set("physic.fixed_bones", o.FixedBones)
}

// HangingLamp is a breakable light source.
type HangingLamp struct {
	DynamicVisual
	Skeleton
	MainColor           uint32
	MainBrightness      float32
	ColorAnimator       string
	MainRange           float32
	LightFlags          uint16
	StartupAnimation    string
	FixedBones          string
	Health              float32
	VirtualSize         float32
	AmbientRadius       float32
	AmbientPower        float32
	AmbientTexture      string
	LightTexture        string
	LightBone           string
	SpotConeAngle       float32
	GlowTexture         string
	GlowRadius          float32
	LightAmbientBone    string
	VolumetricQuality   float32
	VolumetricIntensity float32
	VolumetricDistance  float32
}

// Read implements Data.
func (o *HangingLamp) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.DynamicVisual)
	f.Value(&o.Skeleton)
	f.U32(&o.MainColor)
	f.F32(&o.MainBrightness)
	f.String(&o.ColorAnimator)
	f.F32(&o.MainRange)
	f.U16(&o.LightFlags)
	f.String(&o.StartupAnimation)
	f.String(&o.FixedBones)
	f.F32(&o.Health)
	f.F32(&o.VirtualSize)
	f.F32(&o.AmbientRadius)
	f.F32(&o.AmbientPower)
	f.String(&o.AmbientTexture)
	f.String(&o.LightTexture)
	f.String(&o.LightBone)
	f.F32(&o.SpotConeAngle)
	f.String(&o.GlowTexture)
	f.F32(&o.GlowRadius)
	f.String(&o.LightAmbientBone)
	f.F32(&o.VolumetricQuality)
	f.F32(&o.VolumetricIntensity)
	f.F32(&o.VolumetricDistance)
	return f.Err()
}

// Write implements Data.
func (o *HangingLamp) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.DynamicVisual)
	f.Value(&o.Skeleton)
	f.U32(o.MainColor)
	f.F32(o.MainBrightness)
	f.String(o.ColorAnimator)
	f.F32(o.MainRange)
	f.U16(o.LightFlags)
	f.String(o.StartupAnimation)
	f.String(o.FixedBones)
	f.F32(o.Health)
	f.F32(o.VirtualSize)
	f.F32(o.AmbientRadius)
	f.F32(o.AmbientPower)
	f.String(o.AmbientTexture)
	f.String(o.LightTexture)
	f.String(o.LightBone)
	f.F32(o.SpotConeAngle)
	f.String(o.GlowTexture)
	f.F32(o.GlowRadius)
	f.String(o.LightAmbientBone)
	f.F32(o.VolumetricQuality)
	f.F32(o.VolumetricIntensity)
	f.F32(o.VolumetricDistance)
	return f.Err()
}

// Import implements Data.
func (o *HangingLamp) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.DynamicVisual.Import)
	f.Do(o.Skeleton.Import)
	f.U32("hanging_lamp.main_color", &o.MainColor)
	f.F32("hanging_lamp.main_brightness", &o.MainBrightness)
	f.String("hanging_lamp.color_animator", &o.ColorAnimator)
	f.F32("hanging_lamp.main_range", &o.MainRange)
	f.U16("hanging_lamp.light_flags", &o.LightFlags)
	f.String("hanging_lamp.startup_animation", &o.StartupAnimation)
	f.String("hanging_lamp.fixed_bones", &o.FixedBones)
	f.F32("hanging_lamp.health", &o.Health)
	f.F32("hanging_lamp.virtual_size", &o.VirtualSize)
	f.F32("hanging_lamp.ambient_radius", &o.AmbientRadius)
	f.F32("hanging_lamp.ambient_power", &o.AmbientPower)
	f.String("hanging_lamp.ambient_texture", &o.AmbientTexture)
	f.String("hanging_lamp.light_texture", &o.LightTexture)
	f.String("hanging_lamp.light_bone", &o.LightBone)
	f.F32("hanging_lamp.spot_cone_angle", &o.SpotConeAngle)
	f.String("hanging_lamp.glow_texture", &o.GlowTexture)
	f.F32("hanging_lamp.glow_radius", &o.GlowRadius)
	f.String("hanging_lamp.light_ambient_bone", &o.LightAmbientBone)
	f.F32("hanging_lamp.volumetric_quality", &o.VolumetricQuality)
	f.F32("hanging_lamp.volumetric_intensity", &o.VolumetricIntensity)
	f.F32("hanging_lamp.volumetric_distance", &o.VolumetricDistance)
	return f.Err()
}

// Export implements Data.
func (o *HangingLamp) Export(s *ltx.Section) {
	o.DynamicVisual.Export(s)
	o.Skeleton.Export(s)
	s.SetUint("hanging_lamp.main_color", uint64(o.MainColor)).
		SetF32("hanging_lamp.main_brightness", o.MainBrightness).
		Set("hanging_lamp.color_animator", o.ColorAnimator).
		SetF32("hanging_lamp.main_range", o.MainRange).
		SetUint("hanging_lamp.light_flags", uint64(o.LightFlags)).
		Set("hanging_lamp.startup_animation", o.StartupAnimation).
		Set("hanging_lamp.fixed_bones", o.FixedBones).
		SetF32("hanging_lamp.health", o.Health).
		SetF32("hanging_lamp.virtual_size", o.VirtualSize).
		SetF32("hanging_lamp.ambient_radius", o.AmbientRadius).
		SetF32("hanging_lamp.ambient_power", o.AmbientPower).
		Set("hanging_lamp.ambient_texture", o.AmbientTexture).
		Set("hanging_lamp.light_texture", o.LightTexture).
		Set("hanging_lamp.light_bone", o.LightBone).
		SetF32("hanging_lamp.spot_cone_angle", o.SpotConeAngle).
		Set("hanging_lamp.glow_texture", o.GlowTexture).
		SetF32("hanging_lamp.glow_radius", o.GlowRadius).
		Set("hanging_lamp.light_ambient_bone", o.LightAmbientBone).
		SetF32("hanging_lamp.volumetric_quality", o.VolumetricQuality).
		SetF32("hanging_lamp.volumetric_intensity", o.VolumetricIntensity).
		SetF32("hanging_lamp.volumetric_distance", o.VolumetricDistance)
}

// Helicopter is a scripted flying vehicle.
type Helicopter struct {
	DynamicVisual
	Motion
	Skeleton
	StartupAnimation string
	EngineSound      string
}

// Read implements Data.
func (o *Helicopter) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.DynamicVisual)
	f.Value(&o.Motion)
	f.Value(&o.Skeleton)
	f.String(&o.StartupAnimation)
	f.String(&o.EngineSound)
	return f.Err()
}

// Write implements Data.
func (o *Helicopter) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.DynamicVisual)
	f.Value(&o.Motion)
	f.Value(&o.Skeleton)
	f.String(o.StartupAnimation)
	f.String(o.EngineSound)
	return f.Err()
}

// Import implements Data.
func (o *Helicopter) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.DynamicVisual.Import)
	f.Do(o.Motion.Import)
	f.Do(o.Skeleton.Import)
	f.String("helicopter.startup_animation", &o.StartupAnimation)
	f.String("helicopter.engine_sound", &o.EngineSound)
	return f.Err()
}

// Export implements Data.
func (o *Helicopter) Export(s *ltx.Section) {
	o.DynamicVisual.Export(s)
	o.Motion.Export(s)
	o.Skeleton.Export(s)
	s.Set("helicopter.startup_animation", o.StartupAnimation).
		Set("helicopter.engine_sound", o.EngineSound)
}

// InventoryBox is a stash that can hold items.
type InventoryBox struct {
	DynamicVisual
	CanTake  uint8
	IsClosed uint8
	Tip      string
}

// Read implements Data.
func (o *InventoryBox) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.DynamicVisual)
	f.U8(&o.CanTake)
	f.U8(&o.IsClosed)
	f.String(&o.Tip)
	return f.Err()
}

// Write implements Data.
func (o *InventoryBox) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.DynamicVisual)
	f.U8(o.CanTake)
	f.U8(o.IsClosed)
	f.String(o.Tip)
	return f.Err()
}

// Import implements Data.
func (o *InventoryBox) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.DynamicVisual.Import)
	f.U8("inventory_box.can_take", &o.CanTake)
	f.U8("inventory_box.is_closed", &o.IsClosed)
	f.String("inventory_box.tip", &o.Tip)
	return f.Err()
}

// Export implements Data.
func (o *InventoryBox) Export(s *ltx.Section) {
	o.DynamicVisual.Export(s)
	s.SetUint("inventory_box.can_take", uint64(o.CanTake)).
		SetUint("inventory_box.is_closed", uint64(o.IsClosed)).
		Set("inventory_box.tip", o.Tip)
}

// Breakable is a destructible static object.
type Breakable struct {
	DynamicVisual
	Health float32
}

// Read implements Data.
func (o *Breakable) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.DynamicVisual)
	f.F32(&o.Health)
	return f.Err()
}

// Write implements Data.
func (o *Breakable) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.DynamicVisual)
	f.F32(o.Health)
	return f.Err()
}

// Import implements Data.
func (o *Breakable) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.DynamicVisual.Import)
	f.F32("breakable.health", &o.Health)
	return f.Err()
}

// Export implements Data.
func (o *Breakable) Export(s *ltx.Section) {
	o.DynamicVisual.Export(s)
	s.SetF32("breakable.health", o.Health)
}

// Climable is a ladder-like shape.
type Climable struct {
	Shape
	GameMaterial string
}

// Read implements Data.
func (o *Climable) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.Shape)
	f.String(&o.GameMaterial)
	return f.Err()
}

// Write implements Data.
func (o *Climable) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.Shape)
	f.String(o.GameMaterial)
	return f.Err()
}

// Import implements Data.
func (o *Climable) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.Shape.Import)
	f.String("climable.game_material", &o.GameMaterial)
	return f.Err()
}

// Export implements Data.
func (o *Climable) Export(s *ltx.Section) {
	o.Shape.Export(s)
	s.Set("climable.game_material", o.GameMaterial)
}

// GraphPoint is a navigation graph node linking levels.
type GraphPoint struct {
	ConnectionPointName string
	ConnectionLevelName string
	Locations           [4]uint8
}

// Read implements Data.
func (o *GraphPoint) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&o.ConnectionPointName)
	f.String(&o.ConnectionLevelName)
	for i := range o.Locations {
		f.U8(&o.Locations[i])
	}
	return f.Err()
}

// Write implements Data.
func (o *GraphPoint) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(o.ConnectionPointName)
	f.String(o.ConnectionLevelName)
	for _, l := range o.Locations {
		f.U8(l)
	}
	return f.Err()
}

// Import implements Data.
func (o *GraphPoint) Import(s *ltx.Section) error {
	f := s.Fields()
	f.String("graph_point.connection_point_name", &o.ConnectionPointName)
	f.String("graph_point.connection_level_name", &o.ConnectionLevelName)
	for i := range o.Locations {
		f.U8(locationKey(i), &o.Locations[i])
	}
	return f.Err()
}

// Export implements Data.
func (o *GraphPoint) Export(s *ltx.Section) {
	s.Set("graph_point.connection_point_name", o.ConnectionPointName).
		Set("graph_point.connection_level_name", o.ConnectionLevelName)
	for i, l := range o.Locations {
		s.SetUint(locationKey(i), uint64(l))
	}
}

func locationKey(i int) string {
	return "graph_point.location" + strconv.Itoa(i)
}
