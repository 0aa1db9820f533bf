package telemetry

import "github.com/pthm-cable/rtscore/components"

// UnitLifetimeStats tracks per-unit statistics over its lifetime.
type UnitLifetimeStats struct {
	BirthTick uint64
	Faction   components.FactionId

	// Combat
	ShotsFired int
	HitsLanded int
	Kills      int
	DamageDone int64
	DamageTaken int64

	// Economy
	ResourceGathered int64

	// Production
	UnitsSpawned int

	DeathTick   uint64
	StillAlive  bool
}

// SurvivalTicks returns how long the unit survived, measured against
// currentTick if it is still alive.
func (s *UnitLifetimeStats) SurvivalTicks(currentTick uint64) uint64 {
	if s.StillAlive {
		return currentTick - s.BirthTick
	}
	return s.DeathTick - s.BirthTick
}

// LifetimeTracker manages per-unit lifetime statistics, keyed by entity ID.
type LifetimeTracker struct {
	stats map[components.EntityId]*UnitLifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[components.EntityId]*UnitLifetimeStats),
	}
}

// Register creates lifetime stats for a newly spawned unit.
func (lt *LifetimeTracker) Register(id components.EntityId, birthTick uint64, faction components.FactionId) {
	lt.stats[id] = &UnitLifetimeStats{
		BirthTick:  birthTick,
		Faction:    faction,
		StillAlive: true,
	}
}

// Get returns the lifetime stats for a unit, or nil if not tracked.
func (lt *LifetimeTracker) Get(id components.EntityId) *UnitLifetimeStats {
	return lt.stats[id]
}

// Remove removes a unit's stats and returns them, for snapshot/export
// after the entity leaves the store.
func (lt *LifetimeTracker) Remove(id components.EntityId) *UnitLifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordDeath marks a unit as dead at the given tick, keeping it in the
// tracker (for leaderboard export) rather than removing it outright.
func (lt *LifetimeTracker) RecordDeath(id components.EntityId, tick uint64) {
	if s := lt.stats[id]; s != nil {
		s.StillAlive = false
		s.DeathTick = tick
	}
}

// RecordShotFired increments a unit's fired-shot count.
func (lt *LifetimeTracker) RecordShotFired(id components.EntityId) {
	if s := lt.stats[id]; s != nil {
		s.ShotsFired++
	}
}

// RecordHit increments a unit's landed-hit count and accumulates damage dealt.
func (lt *LifetimeTracker) RecordHit(id components.EntityId, damage int32) {
	if s := lt.stats[id]; s != nil {
		s.HitsLanded++
		s.DamageDone += int64(damage)
	}
}

// RecordKill increments a unit's kill count.
func (lt *LifetimeTracker) RecordKill(id components.EntityId) {
	if s := lt.stats[id]; s != nil {
		s.Kills++
	}
}

// RecordDamageTaken accumulates damage a unit has absorbed.
func (lt *LifetimeTracker) RecordDamageTaken(id components.EntityId, damage int32) {
	if s := lt.stats[id]; s != nil {
		s.DamageTaken += int64(damage)
	}
}

// RecordResourceGathered accumulates resources a harvester has extracted.
func (lt *LifetimeTracker) RecordResourceGathered(id components.EntityId, amount int32) {
	if s := lt.stats[id]; s != nil {
		s.ResourceGathered += int64(amount)
	}
}

// RecordUnitSpawned credits a producing building with having spawned a unit.
func (lt *LifetimeTracker) RecordUnitSpawned(buildingID components.EntityId) {
	if s := lt.stats[buildingID]; s != nil {
		s.UnitsSpawned++
	}
}

// All returns all tracked stats, for snapshot export.
func (lt *LifetimeTracker) All() map[components.EntityId]*UnitLifetimeStats {
	return lt.stats
}

// Count returns the number of tracked entities, living or dead.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveFactionCount returns the number of distinct factions among
// still-living tracked units.
func (lt *LifetimeTracker) ActiveFactionCount() int {
	seen := make(map[components.FactionId]struct{})
	for _, s := range lt.stats {
		if s.StillAlive {
			seen[s.Faction] = struct{}{}
		}
	}
	return len(seen)
}
