package navgrid

import (
	"container/heap"

	"github.com/pthm-cable/rtscore/fixed"
)

// tieBreaker produces a deterministic ordering key for cells that tie on
// f-score. Ordering by (y<<32)|x rather than insertion order keeps the
// search reproducible regardless of map iteration or heap push order.
func tieBreaker(x, y uint32) uint64 {
	return (uint64(y) << 32) | uint64(x)
}

// node is one entry in the open set's priority queue.
type node struct {
	x, y    uint32
	gScore  fixed.Fixed
	fScore  fixed.Fixed
	tie     uint64
	index   int
}

// openQueue is a container/heap.Interface min-heap ordered first by
// fScore, then by tie-breaker to make the ordering total and
// deterministic.
type openQueue []*node

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	if q[i].fScore != q[j].fScore {
		return q[i].fScore < q[j].fScore
	}
	return q[i].tie < q[j].tie
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// neighborOffsets lists the 8 surrounding cells. Indices 0-3 are
// cardinal, 4-7 are diagonal; diagonal entries are only traversable
// when both adjacent cardinal cells are walkable, so no path ever
// clips a blocked corner.
var neighborOffsets = [8][2]int32{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1}, // W, E, N, S
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1}, // NW, NE, SW, SE
}

// key packs grid coordinates into a single map key.
func key(x, y uint32) uint64 {
	return (uint64(y) << 32) | uint64(x)
}

// chebyshev returns max(|dx|, |dy|), the admissible heuristic for an
// 8-connected grid where every move (cardinal or diagonal) costs 1.
func chebyshev(ax, ay, bx, by int64) fixed.Fixed {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	m := dx
	if dy > m {
		m = dy
	}
	return fixed.FromInt(m)
}

// FindPath searches grid for an 8-connected route from start to goal,
// both given in world coordinates. A move's cost is the destination
// cell's CellType.MovementCost (1 for Walkable, 2 for SlowTerrain),
// independent of whether the move is cardinal or diagonal. The
// heuristic is Chebyshev distance, which stays admissible since no
// cell costs less than 1. Ties in f-score are broken deterministically
// by (y<<32)|x. Diagonal moves that would clip a blocked corner are
// rejected.
//
// Unlike a gameplay-convenience planner, this never substitutes a
// nearby open cell for a blocked start or goal: a blocked or
// out-of-bounds endpoint is an error, and so is an exhausted search
// with no route found.
func FindPath(grid *Grid, start, goal fixed.Vec2) ([]fixed.Vec2, error) {
	sx, sy, ok := grid.WorldToGrid(start)
	if !ok {
		return nil, &PathError{Reason: "start position out of bounds"}
	}
	gx, gy, ok := grid.WorldToGrid(goal)
	if !ok {
		return nil, &PathError{Reason: "goal position out of bounds"}
	}
	if !grid.IsWalkable(sx, sy) {
		return nil, &PathError{Reason: "start cell is blocked"}
	}
	if !grid.IsWalkable(gx, gy) {
		return nil, &PathError{Reason: "goal cell is blocked"}
	}

	if sx == gx && sy == gy {
		return []fixed.Vec2{grid.GridToWorld(sx, sy)}, nil
	}

	open := &openQueue{}
	heap.Init(open)

	gScore := map[uint64]fixed.Fixed{key(sx, sy): fixed.Zero}
	cameFrom := map[uint64]uint64{}
	closed := map[uint64]struct{}{}

	start0 := &node{
		x: sx, y: sy,
		gScore: fixed.Zero,
		fScore: chebyshev(int64(sx), int64(sy), int64(gx), int64(gy)),
		tie:    tieBreaker(sx, sy),
	}
	heap.Push(open, start0)

	maxIterations := int(grid.Width) * int(grid.Height) * 2
	iterations := 0

	for open.Len() > 0 {
		iterations++
		if iterations > maxIterations {
			return nil, &PathError{Reason: "search exceeded iteration budget"}
		}

		current := heap.Pop(open).(*node)
		ck := key(current.x, current.y)
		if _, done := closed[ck]; done {
			continue
		}
		closed[ck] = struct{}{}

		if current.x == gx && current.y == gy {
			return reconstructPath(grid, cameFrom, sx, sy, gx, gy), nil
		}

		for i, off := range neighborOffsets {
			nx := int64(current.x) + int64(off[0])
			ny := int64(current.y) + int64(off[1])
			if nx < 0 || ny < 0 || nx >= int64(grid.Width) || ny >= int64(grid.Height) {
				continue
			}
			ux, uy := uint32(nx), uint32(ny)
			if !grid.IsWalkable(ux, uy) {
				continue
			}
			if i >= 4 {
				// Diagonal: both flanking cardinal cells must be
				// walkable, or the move would cut a blocked corner.
				c1x, c1y := int64(current.x)+int64(off[0]), int64(current.y)
				c2x, c2y := int64(current.x), int64(current.y)+int64(off[1])
				if !grid.IsWalkable(uint32(c1x), uint32(c1y)) || !grid.IsWalkable(uint32(c2x), uint32(c2y)) {
					continue
				}
			}

			nk := key(ux, uy)
			if _, done := closed[nk]; done {
				continue
			}

			stepCost, ok := grid.MovementCost(ux, uy)
			if !ok {
				// IsWalkable above already excludes Blocked cells, so
				// this only guards against a future CellType that is
				// walkable but has no defined cost.
				continue
			}
			tentativeG := current.gScore.Add(stepCost)
			best, seen := gScore[nk]
			if seen && tentativeG.Cmp(best) >= 0 {
				continue
			}

			gScore[nk] = tentativeG
			cameFrom[nk] = key(current.x, current.y)
			f := tentativeG.Add(chebyshev(nx, ny, int64(gx), int64(gy)))
			heap.Push(open, &node{
				x: ux, y: uy,
				gScore: tentativeG,
				fScore: f,
				tie:    tieBreaker(ux, uy),
			})
		}
	}

	return nil, &PathError{Reason: "no path found"}
}

// reconstructPath walks cameFrom backward from goal to start, reverses
// it into start-to-goal order, converts to world coordinates, then
// applies greedy visibility smoothing.
func reconstructPath(grid *Grid, cameFrom map[uint64]uint64, sx, sy, gx, gy uint32) []fixed.Vec2 {
	type coord struct{ x, y uint32 }
	var cells []coord
	cur := key(gx, gy)
	startKey := key(sx, sy)
	for {
		cx := uint32(cur & 0xFFFFFFFF)
		cy := uint32(cur >> 32)
		cells = append(cells, coord{cx, cy})
		if cur == startKey {
			break
		}
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	waypoints := make([]fixed.Vec2, len(cells))
	for i, c := range cells {
		waypoints[i] = grid.GridToWorld(c.x, c.y)
	}
	return smoothPath(grid, waypoints)
}
