package simulation

import (
	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

// MaxResistance is the hard cap on effective resistance, expressed as a
// percent. Changing this is a replay-breaking change.
const MaxResistance = 75

// MinDamage is the floor applied whenever a hit is not fully immune.
const MinDamage int32 = 1

// pct converts a percent constant (0-150) into a Fixed ratio.
func pct(p int64) fixed.Fixed {
	return fixed.FromInt(p).Div(fixed.FromInt(100))
}

// damageTypeTable[damageType][armorClass] is the type-effectiveness
// percent. These values and the table below are part of the wire spec:
// changing them breaks replay compatibility.
var damageTypeTable = [5][5]int64{
	// Light, Medium, Heavy, Air, Building
	{100, 75, 50, 75, 50},   // Kinetic
	{75, 100, 125, 50, 150}, // Explosive
	{100, 100, 100, 100, 75}, // Energy
	{125, 100, 75, 100, 0},  // BioAcid
	{125, 100, 75, 100, 125}, // Fire
}

// weaponSizeTable[weaponSize][armorClass] is the tracking-effectiveness
// percent.
var weaponSizeTable = [3][5]int64{
	// Light, Medium, Heavy, Air, Building
	{100, 75, 50, 100, 25},  // Light
	{75, 100, 100, 75, 75},  // Medium
	{25, 75, 100, 25, 150},  // Heavy
}

// armorClassCap is the per-armor-class ceiling on effective resistance
// before the global 75% cap is applied.
var armorClassCap = [5]int64{
	50, // Light
	65, // Medium
	75, // Heavy
	50, // Air
	75, // Building
}

// AttackerProfile is the subset of an attacker's CombatStats the damage
// formula needs.
type AttackerProfile struct {
	Damage           int32
	DamageType       components.DamageType
	WeaponSize       components.WeaponSize
	ArmorPenetration uint8
}

// DefenderProfile is the subset of a target's CombatStats the damage
// formula needs.
type DefenderProfile struct {
	ArmorClass      components.ArmorClass
	Resistance      uint8
	BonusResistance uint8
}

// CalculateDamage applies the resistance-based damage formula (spec
// §4.6a): type effectiveness, weapon-size tracking, then an
// armor-penetration-reduced, per-class-capped, globally-75%-capped
// resistance multiplier, floored at MinDamage whenever the hit is not
// fully immune.
func CalculateDamage(attacker AttackerProfile, defender DefenderProfile) int32 {
	typeMul := pct(damageTypeTable[attacker.DamageType][defender.ArmorClass])
	if typeMul == 0 {
		return 0
	}
	sizeMul := pct(weaponSizeTable[attacker.WeaponSize][defender.ArmorClass])

	rawResist := int64(defender.Resistance) + int64(defender.BonusResistance)
	cap := armorClassCap[defender.ArmorClass]
	if rawResist > cap {
		rawResist = cap
	}
	if rawResist > MaxResistance {
		rawResist = MaxResistance
	}

	penetrationFactor := pct(100 - int64(attacker.ArmorPenetration))
	effResist := pct(rawResist).Mul(penetrationFactor)
	maxResist := pct(MaxResistance)
	if effResist.Cmp(maxResist) > 0 {
		effResist = maxResist
	}

	retainedMul := fixed.One.Sub(effResist)
	final := fixed.FromInt(int64(attacker.Damage)).Mul(typeMul).Mul(sizeMul).Mul(retainedMul)
	damage := int32(final.ToInt())
	if damage <= 0 {
		damage = MinDamage
	}
	return damage
}

// DamageEvent records a single application of damage for a tick's
// event bundle.
type DamageEvent struct {
	Attacker components.EntityId
	Target   components.EntityId
	Damage   int32
}

// firePass runs the combat fire contract (spec §4.6) for every entity
// with CombatStats and an active AttackTarget, in ascending-ID order.
// It may spawn projectile entities (appended to the store) and returns
// the direct-hit damage events it produced.
func (s *Simulation) firePass(ids []components.EntityId) []DamageEvent {
	var events []DamageEvent

	for _, id := range ids {
		attacker := s.store.Get(id)
		if attacker == nil || attacker.CombatStats == nil || attacker.AttackTarget == nil {
			continue
		}
		stats := attacker.CombatStats
		if stats.CooldownRemaining > 0 {
			stats.CooldownRemaining--
		}

		if !attacker.AttackTarget.HasTarget() {
			s.tryAcquireAttackMoveTarget(id, attacker)
			if !attacker.AttackTarget.HasTarget() {
				continue
			}
		}
		target := s.store.Get(attacker.AttackTarget.Target)
		if target == nil {
			attacker.AttackTarget.Clear()
			continue
		}
		if attacker.Position == nil || target.Position == nil {
			continue
		}

		distSq := fixed.DistanceSquared(attacker.Position.Value, target.Position.Value)
		if distSq.Cmp(stats.Range.Mul(stats.Range)) > 0 {
			continue
		}
		if stats.CooldownRemaining > 0 {
			continue
		}

		if stats.UsesProjectiles() {
			proj := components.NewEntity(0)
			proj.Position = &components.Position{Value: attacker.Position.Value}
			proj.Projectile = &components.Projectile{
				Source:           id,
				Target:           attacker.AttackTarget.Target,
				Damage:           stats.Damage,
				DamageType:       stats.DamageType,
				WeaponSize:       stats.WeaponSize,
				ArmorPenetration: stats.ArmorPenetration,
				Speed:            stats.ProjectileSpeed,
				SplashRadius:     stats.SplashRadius,
			}
			projID := s.store.Insert(proj)
			s.spawned = append(s.spawned, projID)
			stats.CooldownRemaining = stats.CooldownMax
			continue
		}

		if target.CombatStats == nil || target.Health == nil {
			stats.CooldownRemaining = stats.CooldownMax
			continue
		}
		dmg := CalculateDamage(
			AttackerProfile{Damage: stats.Damage, DamageType: stats.DamageType, WeaponSize: stats.WeaponSize, ArmorPenetration: stats.ArmorPenetration},
			DefenderProfile{ArmorClass: components.ArmorClassFor(target.CombatStats.ArmorType), Resistance: target.CombatStats.Resistance, BonusResistance: target.CombatStats.BonusResistance},
		)
		target.Health.ApplyDamage(dmg)
		events = append(events, DamageEvent{Attacker: id, Target: attacker.AttackTarget.Target, Damage: dmg})
		if target.Health.IsDead() {
			attacker.AttackTarget.Clear()
		}
		stats.CooldownRemaining = stats.CooldownMax
	}

	return events
}

// tryAcquireAttackMoveTarget lets an AttackMove order interrupt
// movement to engage a nearby enemy (spec §4.4: "the combat pass is
// permitted to interrupt ... if an enemy is in range"). Candidates are
// scanned in ascending EntityId order and the first enemy within
// weapon range is taken, keeping acquisition deterministic without
// needing a full nearest-target search.
func (s *Simulation) tryAcquireAttackMoveTarget(id components.EntityId, attacker *components.Entity) {
	if attacker.CommandQueue == nil || attacker.CombatStats == nil || attacker.Position == nil {
		return
	}
	cmd, ok := attacker.CommandQueue.Current()
	if !ok || cmd.Kind != components.CommandAttackMove {
		return
	}
	var attackerFaction components.FactionId
	if attacker.FactionMember != nil {
		attackerFaction = attacker.FactionMember.Faction
	}
	rangeSq := attacker.CombatStats.Range.Mul(attacker.CombatStats.Range)

	for _, candidateID := range s.store.SortedIDs() {
		if candidateID == id {
			continue
		}
		candidate := s.store.Get(candidateID)
		if candidate == nil || candidate.Health == nil || candidate.Position == nil {
			continue
		}
		if candidate.FactionMember != nil && candidate.FactionMember.Faction == attackerFaction {
			continue
		}
		if fixed.DistanceSquared(attacker.Position.Value, candidate.Position.Value).Cmp(rangeSq) > 0 {
			continue
		}
		attacker.AttackTarget.Target = candidateID
		return
	}
}

// projectilePass advances every live projectile by one tick (spec
// §4.6b), applying impact and splash damage and despawning projectiles
// that land or whose target has vanished.
func (s *Simulation) projectilePass(ids []components.EntityId) []DamageEvent {
	var events []DamageEvent

	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.Projectile == nil || e.Position == nil {
			continue
		}
		proj := e.Projectile

		target := s.store.Get(proj.Target)
		if target == nil || target.Position == nil {
			s.store.Remove(id)
			continue
		}

		prePos := e.Position.Value
		dir := target.Position.Value.Sub(prePos).Normalize()
		step := dir.Scale(proj.Speed)
		e.Position.Value = e.Position.Value.Add(step)

		distSq := fixed.DistanceSquared(prePos, target.Position.Value)
		speedSq := proj.Speed.Mul(proj.Speed)
		if distSq.Cmp(speedSq) > 0 {
			continue // still travelling
		}

		impact := target.Position.Value
		if target.Health != nil && target.CombatStats != nil {
			dmg := CalculateDamage(
				AttackerProfile{Damage: proj.Damage, DamageType: proj.DamageType, WeaponSize: proj.WeaponSize, ArmorPenetration: proj.ArmorPenetration},
				DefenderProfile{ArmorClass: components.ArmorClassFor(target.CombatStats.ArmorType), Resistance: target.CombatStats.Resistance, BonusResistance: target.CombatStats.BonusResistance},
			)
			target.Health.ApplyDamage(dmg)
			events = append(events, DamageEvent{Attacker: proj.Source, Target: proj.Target, Damage: dmg})
		}

		if proj.SplashRadius > 0 {
			splashSq := proj.SplashRadius.Mul(proj.SplashRadius)
			for _, otherID := range s.store.SortedIDs() {
				if otherID == proj.Target {
					continue
				}
				other := s.store.Get(otherID)
				if other == nil || other.Health == nil || other.Position == nil || other.CombatStats == nil {
					continue
				}
				if fixed.DistanceSquared(other.Position.Value, impact).Cmp(splashSq) > 0 {
					continue
				}
				dmg := CalculateDamage(
					AttackerProfile{Damage: proj.Damage, DamageType: proj.DamageType, WeaponSize: proj.WeaponSize, ArmorPenetration: proj.ArmorPenetration},
					DefenderProfile{ArmorClass: components.ArmorClassFor(other.CombatStats.ArmorType), Resistance: other.CombatStats.Resistance, BonusResistance: other.CombatStats.BonusResistance},
				)
				other.Health.ApplyDamage(dmg)
				events = append(events, DamageEvent{Attacker: proj.Source, Target: otherID, Damage: dmg})
			}
		}

		s.store.Remove(id)
	}

	return events
}
