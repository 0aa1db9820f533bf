package simulation

import (
	"testing"

	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

func TestTickIsDeterministicAcrossRebuilds(t *testing.T) {
	build := func() *Simulation {
		sim := New()
		sim.SpawnEntity(SpawnParams{
			Position:         &components.Position{Value: fixed.NewVec2(fixed.FromInt(0), fixed.FromInt(0))},
			Velocity:         &components.Velocity{},
			Health:           &components.Health{Current: 50, Max: 50},
			Movement:         &components.Movement{Speed: fixed.FromInt(2)},
			CombatStats:      meleeCombatStats(5, components.DamageKinetic, 10),
			FactionMember:    &components.FactionMember{Faction: 1},
			WithCommandQueue: true,
			WithAttackTarget: true,
		})
		sim.SpawnEntity(SpawnParams{
			Position:      &components.Position{Value: fixed.NewVec2(fixed.FromInt(3), fixed.FromInt(0))},
			Health:        &components.Health{Current: 50, Max: 50},
			CombatStats:   meleeCombatStats(5, components.DamageKinetic, 10),
			FactionMember: &components.FactionMember{Faction: 2},
		})
		return sim
	}

	a := build()
	b := build()

	for i := 0; i < 30; i++ {
		a.Tick()
		b.Tick()
		if a.StateHash() != b.StateHash() {
			t.Fatalf("state hash diverged at tick %d: %x vs %x", i, a.StateHash(), b.StateHash())
		}
	}
}

func TestStateHashStableAcrossRepeatedCalls(t *testing.T) {
	sim := New()
	sim.SpawnEntity(SpawnParams{
		Position: &components.Position{Value: fixed.NewVec2(fixed.FromInt(1), fixed.FromInt(2))},
		Health:   &components.Health{Current: 10, Max: 10},
	})
	h1 := sim.StateHash()
	h2 := sim.StateHash()
	if h1 != h2 {
		t.Errorf("StateHash not stable across repeated calls: %x vs %x", h1, h2)
	}
}

func TestStateHashExcludesCommandQueueContents(t *testing.T) {
	sim := New()
	id := sim.SpawnEntity(SpawnParams{
		Position:         &components.Position{Value: fixed.ZeroVec},
		WithCommandQueue: true,
	})
	before := sim.StateHash()
	if err := sim.QueueCommand(id, components.MoveTo(fixed.NewVec2(fixed.FromInt(99), fixed.FromInt(99)))); err != nil {
		t.Fatalf("QueueCommand: %v", err)
	}
	after := sim.StateHash()
	if before != after {
		t.Error("expected queuing a command not to change the state hash (CommandQueue contents are excluded)")
	}
}

func TestSerializeDeserializeRoundTripPreservesHash(t *testing.T) {
	sim := New()
	sim.SetSeed(777)
	sim.SpawnEntity(SpawnParams{
		Position:      &components.Position{Value: fixed.NewVec2(fixed.FromInt(10), fixed.FromInt(-5))},
		Velocity:      &components.Velocity{Value: fixed.NewVec2(fixed.FromInt(1), fixed.FromInt(0))},
		Health:        &components.Health{Current: 80, Max: 100},
		Movement:      &components.Movement{Speed: fixed.FromInt(3)},
		CombatStats:   meleeCombatStats(8, components.DamageEnergy, 12),
		FactionMember: &components.FactionMember{Faction: 3},
		VisionRange:   fixedPtr(fixed.FromInt(42)),
	})
	for i := 0; i < 5; i++ {
		sim.Tick()
	}

	wantHash := sim.StateHash()
	wantTick := sim.TickCount()

	data := sim.Serialize()
	restored, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if restored.TickCount() != wantTick {
		t.Errorf("restored tick = %d, want %d", restored.TickCount(), wantTick)
	}
	if restored.Seed() != 777 {
		t.Errorf("restored seed = %d, want 777", restored.Seed())
	}
	if got := restored.StateHash(); got != wantHash {
		t.Errorf("restored state hash = %x, want %x", got, wantHash)
	}
	if len(restored.Entities()) != len(sim.Entities()) {
		t.Errorf("restored entity count = %d, want %d", len(restored.Entities()), len(sim.Entities()))
	}
}

func TestDeserializeRejectsBadVersion(t *testing.T) {
	sim := New()
	data := sim.Serialize()
	// Corrupt the version field (first 4 bytes, little-endian).
	data[0] = 0xFF
	_, err := Deserialize(data)
	if err == nil {
		t.Fatal("expected an error deserializing a corrupted version header")
	}
}

func TestDeserializeRejectsTruncatedData(t *testing.T) {
	sim := New()
	sim.SpawnEntity(SpawnParams{Position: &components.Position{Value: fixed.ZeroVec}})
	data := sim.Serialize()
	truncated := data[:len(data)/2]
	_, err := Deserialize(truncated)
	if err == nil {
		t.Fatal("expected an error deserializing truncated data")
	}
}

func TestDespawnEntityRemovesFromStore(t *testing.T) {
	sim := New()
	id := sim.SpawnEntity(SpawnParams{Position: &components.Position{Value: fixed.ZeroVec}})
	if err := sim.DespawnEntity(id); err != nil {
		t.Fatalf("DespawnEntity: %v", err)
	}
	if sim.GetEntity(id) != nil {
		t.Error("expected entity to be gone after DespawnEntity")
	}
}

func TestDespawnEntityNotFound(t *testing.T) {
	sim := New()
	err := sim.DespawnEntity(components.EntityId(999))
	var notFound *EntityNotFound
	if err == nil {
		t.Fatal("expected EntityNotFound for a nonexistent ID")
	}
	if _, ok := err.(*EntityNotFound); !ok {
		t.Errorf("expected *EntityNotFound, got %T", err)
	}
	_ = notFound
}

func TestFindPathDelegatesToGrid(t *testing.T) {
	sim := New()
	start := fixed.NewVec2(fixed.FromInt(1), fixed.FromInt(1))
	goal := fixed.NewVec2(fixed.FromInt(1), fixed.FromInt(1))
	path, err := sim.FindPath(start, goal)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if len(path) != 1 {
		t.Errorf("expected a single-waypoint path for start==goal, got %d waypoints", len(path))
	}
}

func fixedPtr(f fixed.Fixed) *fixed.Fixed { return &f }
