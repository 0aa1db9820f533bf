package navgrid

import (
	"testing"

	"github.com/pthm-cable/rtscore/fixed"
)

func TestWorldToGridRoundTrip(t *testing.T) {
	g := NewGrid(10, 10, fixed.FromInt(4))
	x, y, ok := g.WorldToGrid(fixed.NewVec2(fixed.FromInt(9), fixed.FromInt(17)))
	if !ok {
		t.Fatal("expected point to be in bounds")
	}
	if x != 2 || y != 4 {
		t.Errorf("expected grid cell (2,4), got (%d,%d)", x, y)
	}
}

func TestWorldToGridRejectsNegative(t *testing.T) {
	g := NewGrid(10, 10, fixed.FromInt(4))
	_, _, ok := g.WorldToGrid(fixed.NewVec2(fixed.FromInt(-1), fixed.FromInt(0)))
	if ok {
		t.Error("expected negative coordinates to be rejected")
	}
}

func TestIsWalkableOutOfBounds(t *testing.T) {
	g := NewGrid(4, 4, fixed.FromInt(1))
	if g.IsWalkable(10, 10) {
		t.Error("expected out-of-bounds cell to be unwalkable")
	}
}

func TestSetCellAndGetCell(t *testing.T) {
	g := NewGrid(4, 4, fixed.FromInt(1))
	g.SetCell(2, 2, Blocked)
	c, ok := g.GetCell(2, 2)
	if !ok || c != Blocked {
		t.Errorf("expected Blocked at (2,2), got %v, ok=%v", c, ok)
	}
}

func TestMovementCostSlowTerrain(t *testing.T) {
	g := NewGrid(4, 4, fixed.FromInt(1))
	g.SetCell(1, 1, SlowTerrain)
	cost, ok := g.MovementCost(1, 1)
	if !ok {
		t.Fatal("expected slow terrain to be traversable")
	}
	if cost != fixed.FromInt(2) {
		t.Errorf("expected cost 2, got %v", cost)
	}
}

func TestMovementCostBlocked(t *testing.T) {
	g := NewGrid(4, 4, fixed.FromInt(1))
	g.SetCell(1, 1, Blocked)
	if _, ok := g.MovementCost(1, 1); ok {
		t.Error("expected blocked cell to report no movement cost")
	}
}
