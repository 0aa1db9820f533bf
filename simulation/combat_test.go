package simulation

import (
	"testing"

	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

func TestCalculateDamageFloorsAtMinDamage(t *testing.T) {
	dmg := CalculateDamage(
		AttackerProfile{Damage: 1, DamageType: components.DamageKinetic, WeaponSize: components.WeaponHeavy, ArmorPenetration: 0},
		DefenderProfile{ArmorClass: components.ArmorBuilding, Resistance: 75, BonusResistance: 75},
	)
	if dmg < MinDamage {
		t.Errorf("damage %d below MinDamage floor %d", dmg, MinDamage)
	}
}

func TestCalculateDamageFullImmunityIsZero(t *testing.T) {
	// BioAcid vs Building has 0% type effectiveness: full immunity, no floor applied.
	dmg := CalculateDamage(
		AttackerProfile{Damage: 100, DamageType: components.DamageBioAcid, WeaponSize: components.WeaponMedium},
		DefenderProfile{ArmorClass: components.ArmorBuilding},
	)
	if dmg != 0 {
		t.Errorf("expected 0 damage for a fully-immune matchup, got %d", dmg)
	}
}

func TestCalculateDamageResistanceCappedAt75(t *testing.T) {
	// Resistance + bonus vastly exceeds 75; effective resistance must
	// never exceed the global cap regardless of armor class ceiling.
	// Kinetic vs Heavy is 50% type effectiveness and Medium vs Heavy
	// 100% tracking, so the floor is 1000 × 0.5 × 1.0 × 0.25 = 125.
	full := CalculateDamage(
		AttackerProfile{Damage: 1000, DamageType: components.DamageKinetic, WeaponSize: components.WeaponMedium},
		DefenderProfile{ArmorClass: components.ArmorHeavy, Resistance: 255, BonusResistance: 255},
	)
	minPossible := int32(1000 * 0.5 * (1 - MaxResistance/100.0))
	if float64(full) < float64(minPossible)*0.9 {
		t.Errorf("damage %d lower than expected floor from 75%% resistance cap (~%d)", full, minPossible)
	}
}

func meleeCombatStats(damage int32, dtype components.DamageType, rang int64) *components.CombatStats {
	return &components.CombatStats{
		Damage:      damage,
		Range:       fixed.FromInt(rang),
		CooldownMax: 1,
		DamageType:  dtype,
		WeaponSize:  components.WeaponMedium,
	}
}

func TestMeleeCombatAttrition(t *testing.T) {
	sim := New()
	a := sim.SpawnEntity(SpawnParams{
		Position:      &components.Position{Value: fixed.NewVec2(fixed.FromInt(0), fixed.FromInt(0))},
		Health:        &components.Health{Current: 100, Max: 100},
		CombatStats:   meleeCombatStats(10, components.DamageKinetic, 5),
		FactionMember: &components.FactionMember{Faction: 1},
	})
	b := sim.SpawnEntity(SpawnParams{
		Position:      &components.Position{Value: fixed.NewVec2(fixed.FromInt(1), fixed.FromInt(0))},
		Health:        &components.Health{Current: 100, Max: 100},
		CombatStats:   meleeCombatStats(10, components.DamageKinetic, 5),
		FactionMember: &components.FactionMember{Faction: 2},
	})
	if err := sim.SetAttackTarget(a, b); err != nil {
		t.Fatalf("SetAttackTarget a->b: %v", err)
	}
	if err := sim.SetAttackTarget(b, a); err != nil {
		t.Fatalf("SetAttackTarget b->a: %v", err)
	}

	for i := 0; i < 3; i++ {
		sim.Tick()
	}
	if eb := sim.GetEntity(b); eb == nil || eb.Health.Current == 100 {
		t.Error("expected b to have taken damage after a few ticks of melee")
	}
	if ea := sim.GetEntity(a); ea == nil || ea.Health.Current == 100 {
		t.Error("expected a to have taken damage after a few ticks of melee")
	}

	for i := 0; i < 25; i++ {
		sim.Tick()
	}
	// Symmetric combatants with identical stats are expected to reach
	// zero health on the same tick; both being gone is the correct
	// outcome here, not a bug.
	ea, eb := sim.GetEntity(a), sim.GetEntity(b)
	if ea != nil && ea.Health.Current > 0 && eb != nil && eb.Health.Current > 0 {
		t.Error("expected at least one combatant reduced to zero health after 25 total ticks of symmetric melee")
	}
}

func TestOutOfRangeAttackDoesNothing(t *testing.T) {
	sim := New()
	a := sim.SpawnEntity(SpawnParams{
		Position:      &components.Position{Value: fixed.ZeroVec},
		Health:        &components.Health{Current: 50, Max: 50},
		CombatStats:   meleeCombatStats(10, components.DamageKinetic, 1),
		FactionMember: &components.FactionMember{Faction: 1},
	})
	b := sim.SpawnEntity(SpawnParams{
		Position:      &components.Position{Value: fixed.NewVec2(fixed.FromInt(100), fixed.FromInt(100))},
		Health:        &components.Health{Current: 50, Max: 50},
		CombatStats:   meleeCombatStats(10, components.DamageKinetic, 1),
		FactionMember: &components.FactionMember{Faction: 2},
	})
	if err := sim.SetAttackTarget(a, b); err != nil {
		t.Fatalf("SetAttackTarget: %v", err)
	}

	sim.Tick()

	if sim.GetEntity(b).Health.Current != 50 {
		t.Errorf("expected no damage when target out of range, health = %d", sim.GetEntity(b).Health.Current)
	}
}

func TestProjectileTravelAndSplashDamage(t *testing.T) {
	sim := New()
	attacker := sim.SpawnEntity(SpawnParams{
		Position:    &components.Position{Value: fixed.ZeroVec},
		Health:      &components.Health{Current: 100, Max: 100},
		CombatStats: &components.CombatStats{
			Damage: 20, Range: fixed.FromInt(50), CooldownMax: 5,
			ProjectileSpeed: fixed.FromInt(10), SplashRadius: fixed.FromInt(3),
			DamageType: components.DamageExplosive, WeaponSize: components.WeaponMedium,
		},
		FactionMember: &components.FactionMember{Faction: 1},
	})
	primary := sim.SpawnEntity(SpawnParams{
		Position:      &components.Position{Value: fixed.NewVec2(fixed.FromInt(10), fixed.FromInt(0))},
		Health:        &components.Health{Current: 100, Max: 100},
		CombatStats:   meleeCombatStats(0, components.DamageKinetic, 0),
		FactionMember: &components.FactionMember{Faction: 2},
	})
	bystander := sim.SpawnEntity(SpawnParams{
		Position:      &components.Position{Value: fixed.NewVec2(fixed.FromInt(11), fixed.FromInt(0))},
		Health:        &components.Health{Current: 100, Max: 100},
		CombatStats:   meleeCombatStats(0, components.DamageKinetic, 0),
		FactionMember: &components.FactionMember{Faction: 2},
	})
	if err := sim.SetAttackTarget(attacker, primary); err != nil {
		t.Fatalf("SetAttackTarget: %v", err)
	}

	var sawPrimaryDamage, sawBystanderDamage bool
	for i := 0; i < 5; i++ {
		events := sim.Tick()
		for _, ev := range events.DamageEvents {
			if ev.Target == primary {
				sawPrimaryDamage = true
			}
			if ev.Target == bystander {
				sawBystanderDamage = true
			}
		}
		if sawPrimaryDamage && sawBystanderDamage {
			break
		}
	}

	if !sawPrimaryDamage {
		t.Error("expected the primary target to take direct impact damage")
	}
	if !sawBystanderDamage {
		t.Error("expected a nearby bystander to take splash damage")
	}
}

func TestAttackMoveInterruptsToAcquireTarget(t *testing.T) {
	sim := New()
	a := sim.SpawnEntity(SpawnParams{
		Position:         &components.Position{Value: fixed.ZeroVec},
		Velocity:         &components.Velocity{},
		Movement:         &components.Movement{Speed: fixed.FromInt(1)},
		Health:           &components.Health{Current: 50, Max: 50},
		CombatStats:      meleeCombatStats(5, components.DamageKinetic, 10),
		FactionMember:    &components.FactionMember{Faction: 1},
		WithCommandQueue: true,
		WithAttackTarget: true,
	})
	enemy := sim.SpawnEntity(SpawnParams{
		Position:      &components.Position{Value: fixed.NewVec2(fixed.FromInt(2), fixed.FromInt(0))},
		Health:        &components.Health{Current: 50, Max: 50},
		CombatStats:   meleeCombatStats(0, components.DamageKinetic, 0),
		FactionMember: &components.FactionMember{Faction: 2},
	})
	if err := sim.ApplyCommand(a, components.AttackMove(fixed.NewVec2(fixed.FromInt(100), fixed.FromInt(0)))); err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}

	sim.Tick()

	if sim.GetEntity(a).AttackTarget.Target != enemy {
		t.Errorf("expected AttackMove to acquire the in-range enemy, target = %d", sim.GetEntity(a).AttackTarget.Target)
	}
}
