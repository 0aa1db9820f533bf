package simulation

import (
	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

// defaultSpawnOffset is DEFAULT_OFFSET from spec §4.9: where a unit
// spawns when its building has no rally point set.
var defaultSpawnOffset = fixed.NewVec2(fixed.FromInt(2), fixed.FromInt(2))

// ProductionStartedEvent fires the tick a queued item's progress first
// advances from 0.
type ProductionStartedEvent struct {
	Building components.EntityId
	UnitType components.UnitTypeId
}

// ProductionProgressEvent fires every tick a constructed building's
// head item advances, regardless of whether it just started.
type ProductionProgressEvent struct {
	Building   components.EntityId
	UnitType   components.UnitTypeId
	Progress   uint32
	TotalTime  uint32
}

// ProductionCompleteEvent fires when the head item finishes.
type ProductionCompleteEvent struct {
	Building     components.EntityId
	UnitType     components.UnitTypeId
	SpawnPosition fixed.Vec2
}

// ConstructionCompleteEvent fires the tick a building's construction
// progress crosses its total and Constructed flips true.
type ConstructionCompleteEvent struct {
	Building components.EntityId
}

// productionResult bundles everything the production pass (spec §4.9,
// tick step 9) produces.
type productionResult struct {
	Started      []ProductionStartedEvent
	Progressed   []ProductionProgressEvent
	Completed    []ProductionCompleteEvent
	Constructed  []ConstructionCompleteEvent
}

// productionPass advances construction progress for unconstructed
// buildings and production queues for constructed ones, in
// ascending-ID order.
func (s *Simulation) productionPass(ids []components.EntityId) productionResult {
	var result productionResult

	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.Building == nil {
			continue
		}
		b := e.Building

		if !b.IsConstructed {
			if b.TickConstruction() {
				result.Constructed = append(result.Constructed, ConstructionCompleteEvent{Building: id})
			}
			continue
		}

		if e.ProductionQueue == nil || e.ProductionQueue.IsEmpty() {
			continue
		}
		cur := e.ProductionQueue.Current()
		unitType := cur.UnitType

		justStarted := e.ProductionQueue.Tick()
		cur = e.ProductionQueue.Current()
		if justStarted {
			result.Started = append(result.Started, ProductionStartedEvent{Building: id, UnitType: unitType})
		}
		result.Progressed = append(result.Progressed, ProductionProgressEvent{
			Building: id, UnitType: unitType, Progress: cur.Progress, TotalTime: cur.TotalTime,
		})

		if item, ok := e.ProductionQueue.Complete(); ok {
			spawnPos := defaultSpawnOffset
			if e.Position != nil {
				spawnPos = e.Position.Value.Add(defaultSpawnOffset)
			}
			if b.Rally != nil {
				spawnPos = *b.Rally
			}
			result.Completed = append(result.Completed, ProductionCompleteEvent{
				Building: id, UnitType: item.UnitType, SpawnPosition: spawnPos,
			})
		}
	}

	return result
}

// QueueProduction validates and enqueues a production order on a
// building, reserving (spending) its cost against the owning faction's
// economy. Nothing is mutated if validation fails.
//
// Validation order mirrors the original blueprint-checked queue: the
// building must be constructed, its blueprint must exist and list
// unitType among what it produces, the faction must be able to afford
// cost, and only then is the queue's capacity checked and the order
// added.
func (s *Simulation) QueueProduction(buildingID components.EntityId, unitType components.UnitTypeId, buildTime uint32, cost int32) error {
	e := s.store.Get(buildingID)
	if e == nil {
		return &EntityNotFound{ID: buildingID}
	}
	if e.Building == nil {
		return &InvalidState{Msg: "entity has no Building component"}
	}
	if !e.Building.IsConstructionComplete() {
		return &ProductionError{Kind: BuildingNotConstructed}
	}

	bp, ok := s.blueprints.Get(e.Building.TypeID)
	if !ok {
		return &ProductionError{Kind: BlueprintNotFound}
	}
	if !bp.CanProduce(unitType) {
		return &ProductionError{Kind: CannotProduceUnit}
	}

	var faction components.FactionId
	if e.FactionMember != nil {
		faction = e.FactionMember.Faction
	}
	econ := s.economyFor(faction)
	if !econ.CanAfford(cost) {
		return &ProductionError{Kind: InsufficientResources}
	}

	if e.ProductionQueue == nil {
		e.ProductionQueue = components.NewProductionQueue()
	}
	if e.ProductionQueue.IsFull() {
		return &ProductionError{Kind: QueueFull}
	}

	econ.Spend(cost)
	e.ProductionQueue.Add(unitType, buildTime)
	return nil
}

// CancelProduction cancels the item at index on buildingID's queue,
// refunding refundRate (0-1, applied to remaining-work-proportional
// cost) back to the owning faction's economy.
func (s *Simulation) CancelProduction(buildingID components.EntityId, index int, cost int32, refundRate fixed.Fixed) error {
	e := s.store.Get(buildingID)
	if e == nil {
		return &EntityNotFound{ID: buildingID}
	}
	if e.ProductionQueue == nil {
		return &InvalidState{Msg: "entity has no ProductionQueue component"}
	}
	item, ok := e.ProductionQueue.Cancel(index)
	if !ok {
		return &InvalidState{Msg: "no production item at that index"}
	}

	var faction components.FactionId
	if e.FactionMember != nil {
		faction = e.FactionMember.Faction
	}

	remaining := item.TotalTime - item.Progress
	var remainingFraction fixed.Fixed
	if item.TotalTime > 0 {
		remainingFraction = fixed.FromInt(int64(remaining)).Div(fixed.FromInt(int64(item.TotalTime)))
	}
	refund := fixed.FromInt(int64(cost)).Mul(remainingFraction).Mul(refundRate)
	s.economyFor(faction).Refund(int32(refund.ToInt()))
	return nil
}
