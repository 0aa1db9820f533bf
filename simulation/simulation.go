// Package simulation implements the deterministic tick loop: command
// processing, movement, combat, the harvester economy, production, and
// the state hash that lets two instances verify they agree.
package simulation

import (
	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/config"
	"github.com/pthm-cable/rtscore/fixed"
	"github.com/pthm-cable/rtscore/navgrid"
)

// Simulation is the authoritative, single-threaded world state. Call
// Tick() synchronously; never call it concurrently on the same
// instance from two goroutines.
type Simulation struct {
	tick  uint64
	store *components.Store
	grid  *navgrid.Grid

	economies  map[components.FactionId]*components.PlayerEconomy
	blueprints *BlueprintRegistry

	arrivalEpsilonSq        fixed.Fixed
	interactionDistanceSq   fixed.Fixed
	visibilityDefaultRange  fixed.Fixed
	attackRangeMultiplier   fixed.Fixed
	defaultStorageCapacity  int32

	seed uint64

	// spawned accumulates entities created mid-tick (projectiles from
	// the fire pass); reset every Tick(). Production completions create
	// no entity and are reported only as ProductionCompleteEvent.
	spawned []components.EntityId
}

// New returns a fresh simulation at tick 0 with no entities, using the
// embedded default tunables.
func New() *Simulation {
	return NewWithConfig(config.Default())
}

// NewWithConfig returns a fresh simulation using the given tunables.
func NewWithConfig(cfg *config.Config) *Simulation {
	return &Simulation{
		store:                  components.NewStore(),
		grid:                   navgrid.NewGrid(cfg.Grid.Width, cfg.Grid.Height, cfg.Derived.CellSize),
		economies:              map[components.FactionId]*components.PlayerEconomy{},
		blueprints:             NewBlueprintRegistry(),
		arrivalEpsilonSq:       cfg.Derived.ArrivalEpsilonSq,
		interactionDistanceSq:  cfg.Derived.InteractionDistanceSq,
		visibilityDefaultRange: cfg.Derived.DefaultVisibilityRange,
		attackRangeMultiplier:  cfg.Derived.AttackRangeMultiplier,
		defaultStorageCapacity: cfg.Economy.DefaultStorageCapacity,
	}
}

// TickCount returns the current tick counter (0 before the first
// Tick()).
func (s *Simulation) TickCount() uint64 { return s.tick }

// Blueprints returns the simulation's building-producibility registry.
// Hosts register each building type's producible unit types here
// before QueueProduction will accept orders against it.
func (s *Simulation) Blueprints() *BlueprintRegistry { return s.blueprints }

// SetSeed assigns the replay RNG seed carried alongside the simulation.
// The core itself never consumes it; it exists so a future stochastic
// subsystem has a single, explicit seed to draw from instead of a
// package-level RNG.
func (s *Simulation) SetSeed(seed uint64) { s.seed = seed }

// Seed returns the replay RNG seed.
func (s *Simulation) Seed() uint64 { return s.seed }

// Grid returns the simulation's NavGrid, for hosts that want to run
// FindPath themselves and feed the result back as a sequence of
// QueueCommand(MoveTo(...)) calls.
func (s *Simulation) Grid() *navgrid.Grid { return s.grid }

// FindPath is a convenience wrapper around navgrid.FindPath using the
// simulation's own grid.
func (s *Simulation) FindPath(start, goal fixed.Vec2) ([]fixed.Vec2, error) {
	return navgrid.FindPath(s.grid, start, goal)
}

// SpawnParams selects which components a newly spawned entity owns.
// Nil fields mean the entity does not participate in that subsystem.
type SpawnParams struct {
	Position      *components.Position
	Velocity      *components.Velocity
	Health        *components.Health
	Movement      *components.Movement
	CombatStats   *components.CombatStats
	Harvester     *components.Harvester
	Building      *components.Building
	FactionMember *components.FactionMember
	ResourceNode  *components.ResourceNode
	Depot         *components.Depot
	VisionRange   *fixed.Fixed
	WithCommandQueue bool
	WithAttackTarget bool
	WithProductionQueue bool
}

// SpawnEntity creates a new entity from params and returns its ID.
func (s *Simulation) SpawnEntity(params SpawnParams) components.EntityId {
	e := components.NewEntity(0)
	e.Position = params.Position
	e.Velocity = params.Velocity
	e.Health = params.Health
	e.Movement = params.Movement
	e.CombatStats = params.CombatStats
	e.Harvester = params.Harvester
	e.Building = params.Building
	e.FactionMember = params.FactionMember
	e.ResourceNode = params.ResourceNode
	e.Depot = params.Depot
	e.VisionRange = params.VisionRange
	if params.WithCommandQueue {
		e.CommandQueue = components.NewCommandQueue()
	}
	if params.WithAttackTarget {
		e.AttackTarget = &components.AttackTarget{}
	}
	if params.WithProductionQueue {
		e.ProductionQueue = components.NewProductionQueue()
	}
	return s.store.Insert(e)
}

// DespawnEntity removes an entity immediately, outside the normal
// reaper flow (used for scripted/host-driven removal).
func (s *Simulation) DespawnEntity(id components.EntityId) error {
	if !s.store.Contains(id) {
		return &EntityNotFound{ID: id}
	}
	s.store.Remove(id)
	return nil
}

// ApplyCommand replaces id's command queue with a single command.
func (s *Simulation) ApplyCommand(id components.EntityId, cmd components.Command) error {
	e := s.store.Get(id)
	if e == nil {
		return &EntityNotFound{ID: id}
	}
	if e.CommandQueue == nil {
		return &InvalidState{Msg: "entity has no CommandQueue component"}
	}
	e.CommandQueue.Set(cmd)
	return nil
}

// QueueCommand appends a command to id's queue.
func (s *Simulation) QueueCommand(id components.EntityId, cmd components.Command) error {
	e := s.store.Get(id)
	if e == nil {
		return &EntityNotFound{ID: id}
	}
	if e.CommandQueue == nil {
		return &InvalidState{Msg: "entity has no CommandQueue component"}
	}
	e.CommandQueue.Push(cmd)
	return nil
}

// SetAttackTarget assigns an explicit attack target independent of the
// command queue (used by host-side target-fire UI). An entity with
// CombatStats but no AttackTarget component is given one; an entity
// with neither gets InvalidState.
func (s *Simulation) SetAttackTarget(id, target components.EntityId) error {
	e := s.store.Get(id)
	if e == nil {
		return &EntityNotFound{ID: id}
	}
	if e.AttackTarget == nil {
		if e.CombatStats == nil {
			return &InvalidState{Msg: "entity has no AttackTarget component"}
		}
		e.AttackTarget = &components.AttackTarget{}
	}
	e.AttackTarget.Target = target
	return nil
}

// GetEntity returns the entity with the given ID, or nil.
func (s *Simulation) GetEntity(id components.EntityId) *components.Entity {
	return s.store.Get(id)
}

// Entities returns every live EntityId in ascending order.
func (s *Simulation) Entities() []components.EntityId {
	return s.store.SortedIDs()
}

// GetFactionEntities returns every live entity belonging to faction, in
// ascending-ID order.
func (s *Simulation) GetFactionEntities(faction components.FactionId) []components.EntityId {
	var out []components.EntityId
	for _, id := range s.store.SortedIDs() {
		e := s.store.Get(id)
		if e.FactionMember != nil && e.FactionMember.Faction == faction {
			out = append(out, id)
		}
	}
	return out
}

// TickEvents bundles everything a single Tick() produced, in the order
// its subsystems ran.
type TickEvents struct {
	DamageEvents       []DamageEvent
	Deaths             []components.EntityId
	EconomyEvents      []EconomyEvent
	ProductionStarted  []ProductionStartedEvent
	ProductionProgress []ProductionProgressEvent
	ProductionComplete []ProductionCompleteEvent
	ConstructionDone   []ConstructionCompleteEvent
	Spawned            []components.EntityId
}

// Tick executes the fixed 10-step subsystem order and returns the
// events it produced.
func (s *Simulation) Tick() TickEvents {
	s.spawned = nil

	ids := s.store.SortedIDs()

	s.commandPass(ids)
	s.patrolPass(ids)
	s.attackChasePass(ids)
	s.movementPass(ids)

	damageEvents := s.firePass(ids)

	// Projectiles may have spawned during firePass; re-snapshot before
	// the projectile-travel pass per §4.10's re-snapshot rule.
	postFireIDs := s.store.SortedIDs()
	damageEvents = append(damageEvents, s.projectilePass(postFireIDs)...)

	postProjectileIDs := s.store.SortedIDs()
	deaths := s.healthReaper(postProjectileIDs)

	postReaperIDs := s.store.SortedIDs()
	economyEvents := s.harvesterPass(postReaperIDs)
	production := s.productionPass(postReaperIDs)

	s.tick++

	return TickEvents{
		DamageEvents:       damageEvents,
		Deaths:             deaths,
		EconomyEvents:      economyEvents,
		ProductionStarted:  production.Started,
		ProductionProgress: production.Progressed,
		ProductionComplete: production.Completed,
		ConstructionDone:   production.Constructed,
		Spawned:            s.spawned,
	}
}
