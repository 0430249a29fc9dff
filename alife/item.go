package alife

import (
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

// Item is an inventory item lying in the world.
type Item struct {
	DynamicVisual
	Condition     float32
	UpgradesCount uint32
}

// Read implements Data.
func (o *Item) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.DynamicVisual)
	f.F32(&o.Condition)
	f.U32(&o.UpgradesCount)
	if err := f.Err(); err != nil {
		return err
	}
	if o.UpgradesCount != 0 {
		return chunk.Errorf(chunk.ErrUnsupported, "item with %d upgrades", o.UpgradesCount)
	}
	return nil
}

// Write implements Data.
func (o *Item) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.DynamicVisual)
	f.F32(o.Condition)
	f.U32(o.UpgradesCount)
	return f.Err()
}

// Import implements Data.
func (o *Item) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.DynamicVisual.Import)
	f.F32("item.condition", &o.Condition)
	f.U32("item.upgrades_count", &o.UpgradesCount)
	return f.Err()
}

// Export implements Data.
func (o *Item) Export(s *ltx.Section) {
	o.DynamicVisual.Export(s)
	s.SetF32("item.condition", o.Condition).
		SetUint("item.upgrades_count", uint64(o.UpgradesCount))
}

type (
	ItemArtefact     struct{ Item }
	ItemDetector     struct{ Item }
	ItemExplosive    struct{ Item }
	ItemGrenade      struct{ Item }
	ItemHelmet       struct{ Item }
	ItemCustomOutfit struct{ Item }
)

// ItemAmmo is a box of cartridges.
type ItemAmmo struct {
	Item
	AmmoLeft uint16
}

// Read implements Data.
func (o *ItemAmmo) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.Item)
	f.U16(&o.AmmoLeft)
	return f.Err()
}

// Write implements Data.
func (o *ItemAmmo) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.Item)
	f.U16(o.AmmoLeft)
	return f.Err()
}

// Import implements Data.
func (o *ItemAmmo) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.Item.Import)
	f.U16("ammo_left", &o.AmmoLeft)
	return f.Err()
}

// Export implements Data.
func (o *ItemAmmo) Export(s *ltx.Section) {
	o.Item.Export(s)
	s.SetUint("ammo_left", uint64(o.AmmoLeft))
}

// ItemWeapon is a weapon with its loaded ammunition state.
type ItemWeapon struct {
	Item
	AmmoCurrent     uint16
	AmmoElapsed     uint16
	WeaponState     uint8
	AddonFlags      uint8
	AmmoType        uint8
	ElapsedGrenades uint8
}

// Read implements Data.
func (o *ItemWeapon) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.Item)
	f.U16(&o.AmmoCurrent)
	f.U16(&o.AmmoElapsed)
	f.U8(&o.WeaponState)
	f.U8(&o.AddonFlags)
	f.U8(&o.AmmoType)
	f.U8(&o.ElapsedGrenades)
	return f.Err()
}

// Write implements Data.
func (o *ItemWeapon) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.Item)
	f.U16(o.AmmoCurrent)
	f.U16(o.AmmoElapsed)
	f.U8(o.WeaponState)
	f.U8(o.AddonFlags)
	f.U8(o.AmmoType)
	f.U8(o.ElapsedGrenades)
	return f.Err()
}

// Import implements Data.
func (o *ItemWeapon) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.Item.Import)
	f.U16("item_weapon.ammo_current", &o.AmmoCurrent)
	f.U16("item_weapon.ammo_elapsed", &o.AmmoElapsed)
	f.U8("item_weapon.weapon_state", &o.WeaponState)
	f.U8("item_weapon.addon_flags", &o.AddonFlags)
	f.U8("item_weapon.ammo_type", &o.AmmoType)
	f.U8("item_weapon.elapsed_grenades", &o.ElapsedGrenades)
	return f.Err()
}

// Export implements Data.
func (o *ItemWeapon) Export(s *ltx.Section) {
	o.Item.Export(s)
	s.SetUint("item_weapon.ammo_current", uint64(o.AmmoCurrent)).
		SetUint("item_weapon.ammo_elapsed", uint64(o.AmmoElapsed)).
		SetUint("item_weapon.weapon_state", uint64(o.WeaponState)).
		SetUint("item_weapon.addon_flags", uint64(o.AddonFlags)).
		SetUint("item_weapon.ammo_type", uint64(o.AmmoType)).
		SetUint("item_weapon.elapsed_grenades", uint64(o.ElapsedGrenades))
}

type (
	ItemWeaponMagazined    struct{ ItemWeapon }
	ItemWeaponShotgun      struct{ ItemWeapon }
	ItemWeaponMagazinedWGL struct{ ItemWeapon }
)

// ItemPda is a personal device bound to a character.
type ItemPda struct {
	Item
	Owner       uint16
	Character   string
	InfoPortion string
}

// Read implements Data.
func (o *ItemPda) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&o.Item)
	f.U16(&o.Owner)
	f.String(&o.Character)
	f.String(&o.InfoPortion)
	return f.Err()
}

// Write implements Data.
func (o *ItemPda) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&o.Item)
	f.U16(o.Owner)
	f.String(o.Character)
	f.String(o.InfoPortion)
	return f.Err()
}

// Import implements Data.
func (o *ItemPda) Import(s *ltx.Section) error {
	f := s.Fields()
	f.Do(o.Item.Import)
	f.U16("pda.owner", &o.Owner)
	f.String("pda.character", &o.Character)
	f.String("pda.info_portion", &o.InfoPortion)
	return f.Err()
}

// Export implements Data.
func (o *ItemPda) Export(s *ltx.Section) {
	o.Item.Export(s)
	s.SetUint("pda.owner", uint64(o.Owner)).
		Set("pda.character", o.Character).
		Set("pda.info_portion", o.InfoPortion)
}
