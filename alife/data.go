// Package alife decodes the server-side object records stored in the
// ALife section of spawn files.
//
// Each object carries a spawn packet: a common header followed by class
// specific data. The class is derived from the object's section name and
// selects one of the composed record types in this package. Records are
// built by embedding their base record, the way the engine's server
// classes inherit from one another.
package alife

import (
	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/ltx"
)

// Data is the class specific tail of a spawn packet.
type Data interface {
	Read(r *chunk.Reader) error
	Write(w *chunk.Writer) error
	// Import reads the record from the fields of s.
	Import(s *ltx.Section) error
	// Export stores the record in s.
	Export(s *ltx.Section)
}

// Class names a server object class.
type Class string

const (
	ClassUnknown               Class = "Unknown"
	ClassActor                 Class = "SeActor"
	ClassAnomalousZone         Class = "CseAlifeAnomalousZone"
	ClassBreakable             Class = "CseAlifeObjectBreakable"
	ClassClimable              Class = "CseAlifeObjectClimable"
	ClassGraphPoint            Class = "CseAlifeGraphPoint"
	ClassHangingLamp           Class = "CseAlifeObjectHangingLamp"
	ClassHelicopter            Class = "CseAlifeHelicopter"
	ClassInventoryBox          Class = "CseAlifeInventoryBox"
	ClassItem                  Class = "CseAlifeItem"
	ClassItemAmmo              Class = "CseAlifeItemAmmo"
	ClassItemArtefact          Class = "CseAlifeItemArtefact"
	ClassItemCustomOutfit      Class = "CseAlifeItemCustomOutfit"
	ClassItemDetector          Class = "CseAlifeItemDetector"
	ClassItemExplosive         Class = "CseAlifeItemExplosive"
	ClassItemGrenade           Class = "CseAlifeItemGrenade"
	ClassItemHelmet            Class = "CseAlifeItemHelmet"
	ClassItemPda               Class = "CseAlifeItemPda"
	ClassItemTorch             Class = "CseAlifeItemTorch"
	ClassItemWeapon            Class = "CseAlifeItemWeapon"
	ClassItemWeaponMagazined   Class = "CseAlifeItemWeaponMagazined"
	ClassItemWeaponMagazinedWG Class = "CseAlifeItemWeaponMagazinedWGl"
	ClassItemWeaponShotgun     Class = "CseAlifeItemWeaponShotgun"
	ClassLevelChanger          Class = "SeLevelChanger"
	ClassMonster               Class = "SeMonster"
	ClassObjectPhysic          Class = "CseAlifeObjectPhysic"
	ClassSmartCover            Class = "SeSmartCover"
	ClassSmartTerrain          Class = "SeSmartTerrain"
	ClassSpaceRestrictor       Class = "CseAlifeSpaceRestrictor"
	ClassStalker               Class = "SeStalker"
	ClassZoneAnom              Class = "SeZoneAnom"
	ClassZoneTorrid            Class = "SeZoneTorrid"
	ClassZoneVisual            Class = "SeZoneVisual"
)

// NewData returns an empty record for class c.
func NewData(c Class) (Data, error) {
	switch c {
	case ClassActor:
		return &Actor{}, nil
	case ClassBreakable:
		return &Breakable{}, nil
	case ClassClimable:
		return &Climable{}, nil
	case ClassGraphPoint:
		return &GraphPoint{}, nil
	case ClassSpaceRestrictor:
		return &SpaceRestrictor{}, nil
	case ClassSmartCover:
		return &SmartCover{}, nil
	case ClassAnomalousZone:
		return &AnomalyZone{}, nil
	case ClassZoneAnom:
		return &AnomalousZone{}, nil
	case ClassZoneTorrid:
		return &TorridZone{}, nil
	case ClassSmartTerrain:
		return &SmartTerrain{}, nil
	case ClassLevelChanger:
		return &LevelChanger{}, nil
	case ClassZoneVisual:
		return &ZoneVisual{}, nil
	case ClassObjectPhysic:
		return &Physic{}, nil
	case ClassHelicopter:
		return &Helicopter{}, nil
	case ClassInventoryBox:
		return &InventoryBox{}, nil
	case ClassHangingLamp:
		return &HangingLamp{}, nil
	case ClassItem:
		return &Item{}, nil
	case ClassItemExplosive:
		return &ItemExplosive{}, nil
	case ClassItemPda:
		return &ItemPda{}, nil
	case ClassItemAmmo:
		return &ItemAmmo{}, nil
	case ClassItemGrenade:
		return &ItemGrenade{}, nil
	case ClassItemArtefact:
		return &ItemArtefact{}, nil
	case ClassItemWeapon:
		return &ItemWeapon{}, nil
	case ClassItemDetector:
		return &ItemDetector{}, nil
	case ClassItemHelmet:
		return &ItemHelmet{}, nil
	case ClassItemCustomOutfit:
		return &ItemCustomOutfit{}, nil
	case ClassItemWeaponShotgun:
		return &ItemWeaponShotgun{}, nil
	case ClassItemWeaponMagazined:
		return &ItemWeaponMagazined{}, nil
	case ClassItemWeaponMagazinedWG:
		return &ItemWeaponMagazinedWGL{}, nil
	default:
		return nil, chunk.Errorf(chunk.ErrNotImplemented, "not implemented parser for %s", c)
	}
}
