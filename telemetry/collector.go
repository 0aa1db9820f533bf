package telemetry

import "github.com/pthm-cable/rtscore/simulation"

// Collector accumulates events within a tick window and produces a
// WindowStats snapshot when flushed.
type Collector struct {
	windowDurationTicks uint64

	windowStartTick uint64

	commandsIssued    int
	damageDealt       int64
	kills             int
	unitsLost         int
	unitsProduced     int
	buildingsBuilt    int
	resourceGathered  int64
	resourceDeposited int64
}

// NewCollector creates a new stats collector.
// windowDurationTicks: how many simulation ticks each window spans.
func NewCollector(windowDurationTicks uint64) *Collector {
	if windowDurationTicks < 1 {
		windowDurationTicks = 1
	}
	return &Collector{windowDurationTicks: windowDurationTicks}
}

// RecordCommand records a command being issued to a unit.
func (c *Collector) RecordCommand() {
	c.commandsIssued++
}

// RecordDamage records a single damage application.
func (c *Collector) RecordDamage(amount int32) {
	c.damageDealt += int64(amount)
}

// RecordKill records a unit death caused by combat.
func (c *Collector) RecordKill() {
	c.kills++
}

// RecordUnitLost records any unit death, combat or otherwise.
func (c *Collector) RecordUnitLost() {
	c.unitsLost++
}

// RecordUnitProduced records a production queue completing a unit.
func (c *Collector) RecordUnitProduced() {
	c.unitsProduced++
}

// RecordBuildingComplete records a building finishing construction.
func (c *Collector) RecordBuildingComplete() {
	c.buildingsBuilt++
}

// RecordResourceGathered records a harvester extracting from a node.
func (c *Collector) RecordResourceGathered(amount int32) {
	c.resourceGathered += int64(amount)
}

// RecordResourceDeposited records a harvester unloading at a depot.
func (c *Collector) RecordResourceDeposited(amount int32) {
	c.resourceDeposited += int64(amount)
}

// DrainTick folds a single Tick call's events into the running counters.
// It does not flush on its own; pair it with ShouldFlush/Flush.
func (c *Collector) DrainTick(events simulation.TickEvents) {
	for _, d := range events.DamageEvents {
		c.RecordDamage(d.Damage)
	}
	for range events.Deaths {
		c.RecordUnitLost()
	}
	for _, ev := range events.EconomyEvents {
		switch ev.Kind {
		case simulation.ResourceGathered:
			c.RecordResourceGathered(ev.Amount)
		case simulation.ResourceDeposited:
			c.RecordResourceDeposited(ev.Amount)
		}
	}
	for range events.ProductionComplete {
		c.RecordUnitProduced()
	}
	for range events.ConstructionDone {
		c.RecordBuildingComplete()
	}
}

// ShouldFlush returns true if a full window has elapsed since the last flush.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// LiveCounts are point-in-time counts the host supplies to Flush, since
// the collector has no reference to the simulation's entity store.
type LiveCounts struct {
	UnitsAlive       int
	BuildingsAlive   int
	ActiveFactions   int
	FeedstockAmounts []float64 // per-faction stored resource, for dispersion stats
}

// Flush produces a WindowStats for the window ending at currentTick and
// resets the running counters for the next window.
func (c *Collector) Flush(currentTick uint64, live LiveCounts) WindowStats {
	stats := computeWindowStats(windowInputs{
		WindowStartTick:   c.windowStartTick,
		WindowEndTick:     currentTick,
		CommandsIssued:    c.commandsIssued,
		DamageDealt:       c.damageDealt,
		Kills:             c.kills,
		UnitsLost:         c.unitsLost,
		UnitsProduced:     c.unitsProduced,
		BuildingsBuilt:    c.buildingsBuilt,
		ResourceGathered:  c.resourceGathered,
		ResourceDeposited: c.resourceDeposited,
		UnitsAlive:        live.UnitsAlive,
		BuildingsAlive:    live.BuildingsAlive,
		ActiveFactions:    live.ActiveFactions,
		FeedstockAmounts:  live.FeedstockAmounts,
	})

	c.windowStartTick = currentTick
	c.commandsIssued = 0
	c.damageDealt = 0
	c.kills = 0
	c.unitsLost = 0
	c.unitsProduced = 0
	c.buildingsBuilt = 0
	c.resourceGathered = 0
	c.resourceDeposited = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
