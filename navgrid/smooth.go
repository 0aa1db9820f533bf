package navgrid

import "github.com/pthm-cable/rtscore/fixed"

// smoothPath greedily drops intermediate waypoints when the unit could
// walk a straight line from an earlier waypoint directly to a later
// one without crossing a blocked cell. The result always keeps the
// first and last waypoint and never introduces a corner-cut that the
// search itself would have rejected.
func smoothPath(grid *Grid, waypoints []fixed.Vec2) []fixed.Vec2 {
	if len(waypoints) <= 2 {
		return waypoints
	}

	smoothed := []fixed.Vec2{waypoints[0]}
	anchor := 0
	for anchor < len(waypoints)-1 {
		next := anchor + 1
		for candidate := len(waypoints) - 1; candidate > anchor+1; candidate-- {
			if hasLineOfSight(grid, waypoints[anchor], waypoints[candidate]) {
				next = candidate
				break
			}
		}
		smoothed = append(smoothed, waypoints[next])
		anchor = next
	}
	return smoothed
}

// hasLineOfSight walks the straight line from a to b in cell-size
// sized steps, rejecting the shortcut if any sampled point falls on a
// blocked cell or if it would clip a blocked corner along a diagonal.
func hasLineOfSight(grid *Grid, a, b fixed.Vec2) bool {
	ax, ay, ok := grid.WorldToGrid(a)
	if !ok {
		return false
	}
	bx, by, ok := grid.WorldToGrid(b)
	if !ok {
		return false
	}
	if ax == bx && ay == by {
		return true
	}

	dx := int64(bx) - int64(ax)
	dy := int64(by) - int64(ay)
	steps := dx
	if dx < 0 {
		steps = -dx
	}
	if absI64(dy) > absI64(steps) {
		steps = absI64(dy)
	}
	if steps == 0 {
		return true
	}

	prevX, prevY := int64(ax), int64(ay)
	for i := int64(1); i <= steps; i++ {
		t := fixed.FromInt(i).Div(fixed.FromInt(steps))
		fx := int64(ax) + (t.Mul(fixed.FromInt(dx))).ToInt()
		fy := int64(ay) + (t.Mul(fixed.FromInt(dy))).ToInt()
		if fx < 0 || fy < 0 || fx >= int64(grid.Width) || fy >= int64(grid.Height) {
			return false
		}
		if !grid.IsWalkable(uint32(fx), uint32(fy)) {
			return false
		}
		// Reject diagonal steps that would clip a blocked corner, the
		// same rule the search itself enforces.
		if fx != prevX && fy != prevY {
			if !grid.IsWalkable(uint32(fx), uint32(prevY)) || !grid.IsWalkable(uint32(prevX), uint32(fy)) {
				return false
			}
		}
		prevX, prevY = fx, fy
	}
	return true
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
