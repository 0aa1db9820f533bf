package simulation

import (
	"testing"

	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

func TestMoveToArrivesAndStops(t *testing.T) {
	sim := New()
	start := fixed.NewVec2(fixed.FromInt(0), fixed.FromInt(0))
	dest := fixed.NewVec2(fixed.FromInt(5), fixed.FromInt(0))

	id := sim.SpawnEntity(SpawnParams{
		Position:         &components.Position{Value: start},
		Velocity:         &components.Velocity{},
		Movement:         &components.Movement{Speed: fixed.FromInt(1)},
		WithCommandQueue: true,
	})
	if err := sim.ApplyCommand(id, components.MoveTo(dest)); err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}

	for i := 0; i < 10; i++ {
		sim.Tick()
	}

	e := sim.GetEntity(id)
	if e.CommandQueue.Len() != 0 {
		t.Errorf("expected command popped on arrival, queue len = %d", e.CommandQueue.Len())
	}
	if !e.Velocity.Value.IsZero() {
		t.Errorf("expected zero velocity after arrival, got %+v", e.Velocity.Value)
	}
	gotDistSq := fixed.DistanceSquared(e.Position.Value, dest)
	if gotDistSq.Cmp(fixed.One) > 0 {
		t.Errorf("expected to have arrived near destination, distance_squared = %v", gotDistSq)
	}
}

func TestStopZeroesVelocityImmediately(t *testing.T) {
	sim := New()
	id := sim.SpawnEntity(SpawnParams{
		Position:         &components.Position{Value: fixed.ZeroVec},
		Velocity:         &components.Velocity{Value: fixed.NewVec2(fixed.FromInt(3), fixed.FromInt(4))},
		Movement:         &components.Movement{Speed: fixed.FromInt(5)},
		WithCommandQueue: true,
	})
	if err := sim.ApplyCommand(id, components.Stop()); err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}
	sim.Tick()

	e := sim.GetEntity(id)
	if !e.Velocity.Value.IsZero() {
		t.Errorf("expected zero velocity after Stop, got %+v", e.Velocity.Value)
	}
}

func TestPatrolAlternatesEndpoints(t *testing.T) {
	sim := New()
	origin := fixed.NewVec2(fixed.FromInt(0), fixed.FromInt(0))
	target := fixed.NewVec2(fixed.FromInt(3), fixed.FromInt(0))

	id := sim.SpawnEntity(SpawnParams{
		Position:         &components.Position{Value: origin},
		Velocity:         &components.Velocity{},
		Movement:         &components.Movement{Speed: fixed.FromInt(1)},
		WithCommandQueue: true,
	})
	if err := sim.ApplyCommand(id, components.Patrol(target)); err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}

	headingToTargetAtStart := true
	sawFlipToOrigin := false
	for i := 0; i < 20; i++ {
		sim.Tick()
		e := sim.GetEntity(id)
		if e.PatrolState == nil {
			t.Fatalf("expected PatrolState to exist mid-patrol, tick %d", i)
		}
		if headingToTargetAtStart && !e.PatrolState.HeadingToTarget {
			sawFlipToOrigin = true
		}
	}
	if !sawFlipToOrigin {
		t.Error("expected patrol to flip direction back toward origin at least once in 20 ticks")
	}
}

func TestPatrolStateClearedWhenCommandChanges(t *testing.T) {
	sim := New()
	id := sim.SpawnEntity(SpawnParams{
		Position:         &components.Position{Value: fixed.ZeroVec},
		Velocity:         &components.Velocity{},
		Movement:         &components.Movement{Speed: fixed.FromInt(1)},
		WithCommandQueue: true,
	})
	if err := sim.ApplyCommand(id, components.Patrol(fixed.NewVec2(fixed.FromInt(5), fixed.FromInt(0)))); err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}
	sim.Tick()
	if sim.GetEntity(id).PatrolState == nil {
		t.Fatal("expected PatrolState to be initialized after one tick of Patrol")
	}

	if err := sim.ApplyCommand(id, components.Stop()); err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}
	sim.Tick()
	if sim.GetEntity(id).PatrolState != nil {
		t.Error("expected PatrolState cleared once the active command is no longer Patrol")
	}
}
