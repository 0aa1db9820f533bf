// Package navgrid implements the walkability grid and deterministic A*
// pathfinder used by unit movement orders. Every comparison that could
// affect path choice is integer/Fixed-point; nothing here calls
// math.Sqrt or otherwise routes through a float.
package navgrid

import (
	"fmt"

	"github.com/pthm-cable/rtscore/fixed"
)

// CellType classifies a single grid cell's walkability.
type CellType uint8

const (
	Walkable CellType = iota
	Blocked
	SlowTerrain
)

// MovementCost returns the entry cost for a cell type, or false if the
// cell cannot be entered at all.
func (c CellType) MovementCost() (fixed.Fixed, bool) {
	switch c {
	case Walkable:
		return fixed.One, true
	case SlowTerrain:
		return fixed.FromInt(2), true
	default:
		return 0, false
	}
}

// IsWalkable reports whether a unit may ever stand on this cell.
func (c CellType) IsWalkable() bool {
	return c != Blocked
}

// Grid is a row-major walkability map used for pathfinding.
type Grid struct {
	Width    uint32
	Height   uint32
	CellSize fixed.Fixed
	cells    []CellType
}

// NewGrid returns a grid of the given size, fully Walkable. Width and
// height must both be positive and cellSize must be positive; callers
// constructing an invalid grid have a programmer bug, so this panics
// rather than returning an error.
func NewGrid(width, height uint32, cellSize fixed.Fixed) *Grid {
	if width == 0 || height == 0 {
		panic("navgrid: width and height must be positive")
	}
	if cellSize <= 0 {
		panic("navgrid: cellSize must be positive")
	}
	cells := make([]CellType, width*height)
	return &Grid{Width: width, Height: height, CellSize: cellSize, cells: cells}
}

// DefaultGrid returns the teacher-scale default: a 64x64 grid with a
// cell size of 32 Fixed units.
func DefaultGrid() *Grid {
	return NewGrid(64, 64, fixed.FromInt(32))
}

func (g *Grid) index(x, y uint32) int {
	return int(y*g.Width + x)
}

// InBounds reports whether (x, y) is within the grid's extent.
func (g *Grid) InBounds(x, y uint32) bool {
	return x < g.Width && y < g.Height
}

// GetCell returns the cell type at (x, y) and whether it was in bounds.
func (g *Grid) GetCell(x, y uint32) (CellType, bool) {
	if !g.InBounds(x, y) {
		return Blocked, false
	}
	return g.cells[g.index(x, y)], true
}

// SetCell assigns a cell type at (x, y); returns false if out of
// bounds.
func (g *Grid) SetCell(x, y uint32, t CellType) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[g.index(x, y)] = t
	return true
}

// IsWalkable reports whether (x, y) is both in bounds and not Blocked.
func (g *Grid) IsWalkable(x, y uint32) bool {
	c, ok := g.GetCell(x, y)
	return ok && c.IsWalkable()
}

// MovementCost returns the entry cost of (x, y), or false if the cell
// is out of bounds or Blocked.
func (g *Grid) MovementCost(x, y uint32) (fixed.Fixed, bool) {
	c, ok := g.GetCell(x, y)
	if !ok {
		return 0, false
	}
	return c.MovementCost()
}

// WorldToGrid converts a world-space point to grid coordinates,
// truncating toward negative infinity. Negative positions are treated
// as outside the grid and return false, matching the reference
// implementation's explicit rejection of negative coordinates.
func (g *Grid) WorldToGrid(p fixed.Vec2) (uint32, uint32, bool) {
	if p.X < 0 || p.Y < 0 {
		return 0, 0, false
	}
	gx := p.X.Div(g.CellSize).ToInt()
	gy := p.Y.Div(g.CellSize).ToInt()
	if gx < 0 || gy < 0 || gx >= int64(g.Width) || gy >= int64(g.Height) {
		return 0, 0, false
	}
	return uint32(gx), uint32(gy), true
}

// GridToWorld returns the world-space center of cell (x, y).
func (g *Grid) GridToWorld(x, y uint32) fixed.Vec2 {
	half := g.CellSize.Div(fixed.FromInt(2))
	wx := fixed.FromInt(int64(x)).Mul(g.CellSize).Add(half)
	wy := fixed.FromInt(int64(y)).Mul(g.CellSize).Add(half)
	return fixed.NewVec2(wx, wy)
}

// PathError reports why a pathfinding request could not be satisfied.
type PathError struct {
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("navgrid: %s", e.Reason)
}
