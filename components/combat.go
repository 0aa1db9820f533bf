package components

import "github.com/pthm-cable/rtscore/fixed"

// DamageType classifies how a weapon's damage interacts with armor.
type DamageType uint8

const (
	DamageKinetic DamageType = iota
	DamageExplosive
	DamageEnergy
	DamageBioAcid
	DamageFire
)

// ArmorClass classifies how a target mitigates incoming damage. It is
// distinct from ArmorType: ArmorType is authored data on the entity,
// ArmorClass is what the damage tables are indexed by.
type ArmorClass uint8

const (
	ArmorLight ArmorClass = iota
	ArmorMedium
	ArmorHeavy
	ArmorAir
	ArmorBuilding
)

// ArmorType is the legacy/authored armor tag stored on CombatStats; it
// maps onto ArmorClass via ArmorClassFor.
type ArmorType uint8

const (
	ArmorTypeUnarmored ArmorType = iota
	ArmorTypeLight
	ArmorTypeHeavy
	ArmorTypeBuilding
)

// ArmorClassFor maps the authored ArmorType onto the ArmorClass the
// damage tables are indexed by.
func ArmorClassFor(t ArmorType) ArmorClass {
	switch t {
	case ArmorTypeUnarmored, ArmorTypeLight:
		return ArmorLight
	case ArmorTypeHeavy:
		return ArmorHeavy
	case ArmorTypeBuilding:
		return ArmorBuilding
	default:
		return ArmorLight
	}
}

// WeaponSize affects tracking effectiveness against different armor
// classes independently of raw damage-type effectiveness.
type WeaponSize uint8

const (
	WeaponLight WeaponSize = iota
	WeaponMedium
	WeaponHeavy
)

// CombatStats describes an attacker's weapon and an (optional) target's
// defensive profile. The same struct carries both roles: when an entity
// is attacking, Damage/Range/CooldownMax/... matter; when it is a
// target, ArmorType/ArmorValue (via the resistance lookup) matter.
type CombatStats struct {
	Damage            int32
	Range             fixed.Fixed
	CooldownMax       int32
	CooldownRemaining int32
	ProjectileSpeed   fixed.Fixed
	SplashRadius      fixed.Fixed
	DamageType        DamageType
	WeaponSize        WeaponSize
	ArmorPenetration  uint8 // percent, 0-100

	ArmorType       ArmorType
	Resistance      uint8 // base resistance, percent
	BonusResistance uint8 // additional resistance, percent
}

// UsesProjectiles reports whether this weapon fires a travelling
// projectile rather than landing a direct hit.
func (c *CombatStats) UsesProjectiles() bool {
	return c.ProjectileSpeed > 0
}

// Projectile is a travelling munition spawned by a ranged attack. It is
// its own entity so it can be simulated (position, collision against
// its target) independently each tick and despawned on impact.
type Projectile struct {
	Source           EntityId
	Target           EntityId
	Damage           int32
	DamageType       DamageType
	WeaponSize       WeaponSize
	ArmorPenetration uint8
	Speed            fixed.Fixed
	SplashRadius     fixed.Fixed
}
