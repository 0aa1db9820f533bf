package simulation

import "github.com/pthm-cable/rtscore/components"

// BuildingBlueprint describes what a building type is permitted to
// produce. QueueProduction consults this before reserving any
// resources, so an unregistered or mismatched unit type never reaches
// the economy.
type BuildingBlueprint struct {
	TypeID   components.BuildingTypeId
	Produces []components.UnitTypeId
}

// CanProduce reports whether this blueprint's building type can queue
// unitType.
func (b BuildingBlueprint) CanProduce(unitType components.UnitTypeId) bool {
	for _, u := range b.Produces {
		if u == unitType {
			return true
		}
	}
	return false
}

// BlueprintRegistry is the producibility table: which building types
// can produce which unit types. A Simulation consults its own registry
// (Blueprints()) on every QueueProduction call; hosts populate it with
// RegisterBuilding before spawning buildings of that type.
type BlueprintRegistry struct {
	buildings map[components.BuildingTypeId]BuildingBlueprint
}

// NewBlueprintRegistry returns an empty registry. An unregistered
// building type can produce nothing until RegisterBuilding is called.
func NewBlueprintRegistry() *BlueprintRegistry {
	return &BlueprintRegistry{buildings: map[components.BuildingTypeId]BuildingBlueprint{}}
}

// RegisterBuilding adds or replaces typeID's producible unit list.
func (r *BlueprintRegistry) RegisterBuilding(typeID components.BuildingTypeId, produces ...components.UnitTypeId) {
	r.buildings[typeID] = BuildingBlueprint{TypeID: typeID, Produces: produces}
}

// Get returns typeID's blueprint, if registered.
func (r *BlueprintRegistry) Get(typeID components.BuildingTypeId) (BuildingBlueprint, bool) {
	bp, ok := r.buildings[typeID]
	return bp, ok
}

// CanProduce reports whether buildingType can produce unitType. A
// building type with no registered blueprint can produce nothing.
func (r *BlueprintRegistry) CanProduce(buildingType components.BuildingTypeId, unitType components.UnitTypeId) bool {
	bp, ok := r.buildings[buildingType]
	if !ok {
		return false
	}
	return bp.CanProduce(unitType)
}
