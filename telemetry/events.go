// Package telemetry collects, aggregates, and exports match statistics
// for hosts that want more than the bare TickEvents a Simulation.Tick
// call returns: rolling windows, performance timing, match highlights,
// and a post-match leaderboard.
package telemetry

import "github.com/pthm-cable/rtscore/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventCommandIssued EventType = iota
	EventDamageDealt
	EventUnitKilled
	EventUnitSpawned
	EventResourceGathered
	EventResourceDeposited
	EventProductionComplete
	EventConstructionComplete
)

// Event represents a single telemetry event. Collector.DrainTick does
// not produce Event values; it folds a tick's TickEvents straight into
// its counters.
type Event struct {
	Type    EventType
	Tick    uint64
	Entity  components.EntityId
	Faction components.FactionId

	// Optional fields depending on event type.
	Target components.EntityId // for damage/kill events
	Amount int32               // damage dealt, resources moved, etc.
}
