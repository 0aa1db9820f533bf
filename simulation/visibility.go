package simulation

import (
	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

// VisibleEnemy is position/identity information about an enemy entity
// a faction is permitted to see.
type VisibleEnemy struct {
	ID       components.EntityId
	Position fixed.Vec2
	IsDepot  bool
}

// visionRangeFor resolves the precedence spec §9 settles: an explicit
// VisionRange, else 2×CombatStats.Range if that range is positive,
// else the simulation's configured default.
func (s *Simulation) visionRangeFor(e *components.Entity) fixed.Fixed {
	if e.VisionRange != nil {
		return *e.VisionRange
	}
	if e.CombatStats != nil && e.CombatStats.Range > 0 {
		return e.CombatStats.Range.Mul(s.attackRangeMultiplier)
	}
	return s.visibilityDefaultRange
}

// IsVisibleTo reports whether targetID is within vision range of any
// entity belonging to viewerFaction.
func (s *Simulation) IsVisibleTo(viewerFaction components.FactionId, targetID components.EntityId) bool {
	target := s.store.Get(targetID)
	if target == nil || target.Position == nil {
		return false
	}

	for _, id := range s.store.SortedIDs() {
		e := s.store.Get(id)
		if e.FactionMember == nil || e.FactionMember.Faction != viewerFaction || e.Position == nil {
			continue
		}
		visionRange := s.visionRangeFor(e)
		visionSq := visionRange.Mul(visionRange)
		if fixed.DistanceSquared(e.Position.Value, target.Position.Value).Cmp(visionSq) <= 0 {
			return true
		}
	}
	return false
}

// GetVisibleEnemiesFor returns every enemy of faction that is visible
// to it, in ascending-ID order.
func (s *Simulation) GetVisibleEnemiesFor(faction components.FactionId) []VisibleEnemy {
	var visible []VisibleEnemy
	for _, id := range s.store.SortedIDs() {
		e := s.store.Get(id)
		if e.FactionMember == nil || e.FactionMember.Faction == faction || e.Position == nil {
			continue
		}
		if !s.IsVisibleTo(faction, id) {
			continue
		}
		visible = append(visible, VisibleEnemy{ID: id, Position: e.Position.Value, IsDepot: e.Depot != nil})
	}
	return visible
}
