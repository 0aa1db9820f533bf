package navgrid

import (
	"testing"

	"github.com/pthm-cable/rtscore/fixed"
)

func testGrid(w, h uint32) *Grid {
	return NewGrid(w, h, fixed.FromInt(1))
}

func center(g *Grid, x, y uint32) fixed.Vec2 {
	return g.GridToWorld(x, y)
}

func TestFindPathStartEqualsGoal(t *testing.T) {
	g := testGrid(8, 8)
	p := center(g, 3, 3)
	path, err := FindPath(g, p, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 1 {
		t.Fatalf("expected single-waypoint path, got %d", len(path))
	}
}

func TestFindPathBlockedStartErrors(t *testing.T) {
	g := testGrid(8, 8)
	g.SetCell(1, 1, Blocked)
	_, err := FindPath(g, center(g, 1, 1), center(g, 5, 5))
	if err == nil {
		t.Fatal("expected error for blocked start cell")
	}
}

func TestFindPathBlockedGoalErrors(t *testing.T) {
	g := testGrid(8, 8)
	g.SetCell(5, 5, Blocked)
	_, err := FindPath(g, center(g, 1, 1), center(g, 5, 5))
	if err == nil {
		t.Fatal("expected error for blocked goal cell")
	}
}

func TestFindPathOutOfBoundsErrors(t *testing.T) {
	g := testGrid(8, 8)
	_, err := FindPath(g, fixed.NewVec2(fixed.FromInt(-1), fixed.FromInt(0)), center(g, 5, 5))
	if err == nil {
		t.Fatal("expected error for out-of-bounds start")
	}
}

func TestFindPathPartitionedGridErrors(t *testing.T) {
	g := testGrid(8, 8)
	// Wall off column 4 entirely, splitting the grid into two halves.
	for y := uint32(0); y < g.Height; y++ {
		g.SetCell(4, y, Blocked)
	}
	_, err := FindPath(g, center(g, 1, 1), center(g, 6, 6))
	if err == nil {
		t.Fatal("expected no-path error across a fully partitioned grid")
	}
}

func TestFindPathRejectsCornerCutting(t *testing.T) {
	g := testGrid(5, 5)
	// Block the two cells flanking a diagonal shortcut from (1,1) to
	// (2,2) so the only way through is around, never across the
	// corner.
	g.SetCell(2, 1, Blocked)
	g.SetCell(1, 2, Blocked)

	path, err := FindPath(g, center(g, 1, 1), center(g, 2, 2))
	if err != nil {
		t.Fatalf("expected a path around the corner, got error: %v", err)
	}
	if len(path) < 3 {
		t.Fatalf("expected a multi-step detour, got %d waypoints", len(path))
	}
}

func TestFindPathDeterministicAcrossRuns(t *testing.T) {
	g := testGrid(16, 16)
	g.SetCell(4, 4, Blocked)
	g.SetCell(4, 5, Blocked)
	g.SetCell(5, 4, Blocked)

	start := center(g, 0, 0)
	goal := center(g, 10, 10)

	first, err := FindPath(g, start, goal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 100; i++ {
		again, err := FindPath(g, start, goal)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: path length changed: %d vs %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: waypoint %d differs: %v vs %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestFindPathAvoidsSlowTerrainWhenDetourIsCheaper(t *testing.T) {
	g := testGrid(5, 3)
	// A straight line along y=1 enters three SlowTerrain cells and
	// then the goal (2+2+2+1 = 7); going around via y=0 or y=2 is
	// four Walkable steps, diagonals included (cost 1 each = 4), so
	// the cheaper route must detour around the slow patch rather
	// than cut straight through.
	for x := uint32(1); x <= 3; x++ {
		g.SetCell(x, 1, SlowTerrain)
	}

	path, err := FindPath(g, center(g, 0, 1), center(g, 4, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	crossedSlow := false
	for _, p := range path {
		x, y, ok := g.WorldToGrid(p)
		if ok && y == 1 && x >= 1 && x <= 3 {
			crossedSlow = true
		}
	}
	if crossedSlow {
		t.Error("expected path to detour around the cheaper-to-avoid SlowTerrain patch")
	}
}

func TestFindPathCrossesSlowTerrainWhenNoDetourExists(t *testing.T) {
	g := testGrid(5, 1)
	g.SetCell(2, 0, SlowTerrain)

	path, err := FindPath(g, center(g, 0, 0), center(g, 4, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) == 0 {
		t.Fatal("expected a non-empty path")
	}
	if path[len(path)-1] != center(g, 4, 0) {
		t.Errorf("expected path to end at goal, got %v", path[len(path)-1])
	}
}

func TestFindPathStraightLineUnobstructed(t *testing.T) {
	g := testGrid(10, 10)
	path, err := FindPath(g, center(g, 0, 0), center(g, 9, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) == 0 {
		t.Fatal("expected a non-empty path")
	}
	if path[len(path)-1] != center(g, 9, 0) {
		t.Errorf("expected path to end at goal, got %v", path[len(path)-1])
	}
}
