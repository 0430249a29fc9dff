package alife

import "strings"

// sectionClasses maps exact section names to classes.
var sectionClasses = map[string]Class{
	"actor":                     ClassActor,
	"level_changer":             ClassLevelChanger,
	"smart_terrain":             ClassSmartTerrain,
	"smart_cover":               ClassSmartCover,
	"space_restrictor":          ClassSpaceRestrictor,
	"script_zone":               ClassSpaceRestrictor,
	"graph_point":               ClassGraphPoint,
	"breakable_object":          ClassBreakable,
	"climable_object":           ClassClimable,
	"physic_object":             ClassObjectPhysic,
	"physic_destroyable_object": ClassObjectPhysic,
	"hanging_lamp":              ClassHangingLamp,
	"lights_hanging_lamp":       ClassHangingLamp,
	"helicopter":                ClassHelicopter,
	"inventory_box":             ClassInventoryBox,
	"device_pda":                ClassItemPda,
	"device_torch":              ClassItemTorch,
	"wpn_knife":                 ClassItemWeapon,
	"wpn_binoc":                 ClassItemWeaponMagazined,
	"zone_burning_fuzz":         ClassZoneVisual,
	"zone_burning_fuzz_weak":    ClassZoneVisual,
	"zone_burning_fuzz_average": ClassZoneVisual,
	"zone_burning_fuzz_strong":  ClassZoneVisual,
	"zone_mine_steam":           ClassZoneTorrid,
	"zone_mine_field":           ClassZoneAnom,
	"zone_teleport":             ClassZoneAnom,
	"torrid_zone":               ClassZoneTorrid,
	"campfire":                  ClassZoneTorrid,
}

type prefixRule struct {
	prefix string
	class  Class
}

// prefixClasses is consulted in order when no exact entry matches.
var prefixClasses = []prefixRule{
	{"wpn_bm16", ClassItemWeaponShotgun},
	{"wpn_toz34", ClassItemWeaponShotgun},
	{"wpn_wincheaster1300", ClassItemWeaponShotgun},
	{"wpn_spas12", ClassItemWeaponShotgun},
	{"wpn_protecta", ClassItemWeaponShotgun},
	{"wpn_ak74", ClassItemWeaponMagazinedWG},
	{"wpn_abakan", ClassItemWeaponMagazinedWG},
	{"wpn_groza", ClassItemWeaponMagazinedWG},
	{"wpn_lr300", ClassItemWeaponMagazinedWG},
	{"wpn_sig550", ClassItemWeaponMagazinedWG},
	{"wpn_fn2000", ClassItemWeaponMagazinedWG},
	{"wpn_l85", ClassItemWeaponMagazinedWG},
	{"wpn_", ClassItemWeaponMagazined},
	{"ammo_", ClassItemAmmo},
	{"grenade_", ClassItemGrenade},
	{"af_", ClassItemArtefact},
	{"detector_", ClassItemDetector},
	{"helm_", ClassItemHelmet},
	{"explosive_", ClassItemExplosive},
	{"zone_mine_", ClassZoneTorrid},
	{"zone_", ClassZoneAnom},
	{"fireball_", ClassZoneAnom},
	{"stalker", ClassStalker},
	{"sim_default_", ClassStalker},
	{"m_", ClassMonster},
}

// suffixClasses is consulted after prefixClasses.
var suffixClasses = []prefixRule{
	{"_outfit", ClassItemCustomOutfit},
	{"_helmet", ClassItemHelmet},
}

// plainItems are consumables and quest items stored as bare items.
var plainItems = []string{
	"medkit", "bandage", "antirad", "vodka", "bread", "kolbasa", "conserva",
	"energy_drink", "drug_", "mutant_part_", "device_flash", "hand_radio",
	"guitar_a", "harmonica_a", "jup_", "zat_", "pri_", "document",
}

// ClassOf returns the server class for an object section, or ClassUnknown.
func ClassOf(section string) Class {
	if c, ok := sectionClasses[section]; ok {
		return c
	}
	for _, rule := range prefixClasses {
		if strings.HasPrefix(section, rule.prefix) {
			return rule.class
		}
	}
	for _, rule := range suffixClasses {
		if strings.HasSuffix(section, rule.prefix) {
			return rule.class
		}
	}
	for _, p := range plainItems {
		if strings.HasPrefix(section, p) {
			return ClassItem
		}
	}
	return ClassUnknown
}
