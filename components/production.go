package components

import "github.com/pthm-cable/rtscore/fixed"

// UnitTypeId identifies a producible unit blueprint.
type UnitTypeId uint32

// BuildingTypeId identifies a building blueprint.
type BuildingTypeId uint32

// DefaultMaxQueueSize is the default cap on a ProductionQueue's length.
const DefaultMaxQueueSize = 5

// ProductionItem is a single in-progress or queued production order.
type ProductionItem struct {
	UnitType  UnitTypeId
	Progress  uint32
	TotalTime uint32
}

// IsComplete reports whether the item has finished building.
func (p ProductionItem) IsComplete() bool {
	return p.Progress >= p.TotalTime
}

// Percentage returns construction progress as 0-100.
func (p ProductionItem) Percentage() uint32 {
	if p.TotalTime == 0 {
		return 100
	}
	return p.Progress * 100 / p.TotalTime
}

// tick advances progress by one, never past TotalTime.
func (p *ProductionItem) tick() {
	if p.Progress < p.TotalTime {
		p.Progress++
	}
}

// ProductionQueue holds a bounded, ordered list of production orders for
// a single building.
type ProductionQueue struct {
	items      []ProductionItem
	maxSize    int
}

// NewProductionQueue returns an empty queue with the default max size.
func NewProductionQueue() *ProductionQueue {
	return &ProductionQueue{maxSize: DefaultMaxQueueSize}
}

// NewProductionQueueWithMaxSize returns an empty queue with a custom cap.
func NewProductionQueueWithMaxSize(maxSize int) *ProductionQueue {
	return &ProductionQueue{maxSize: maxSize}
}

// IsFull reports whether the queue has reached its cap.
func (q *ProductionQueue) IsFull() bool {
	return len(q.items) >= q.maxSize
}

// IsEmpty reports whether the queue has no items.
func (q *ProductionQueue) IsEmpty() bool {
	return len(q.items) == 0
}

// Len returns the number of queued items.
func (q *ProductionQueue) Len() int {
	return len(q.items)
}

// Add appends a new item if there is room.
func (q *ProductionQueue) Add(unitType UnitTypeId, buildTime uint32) bool {
	if q.IsFull() {
		return false
	}
	q.items = append(q.items, ProductionItem{UnitType: unitType, TotalTime: buildTime})
	return true
}

// Cancel removes and returns the item at index, if valid.
func (q *ProductionQueue) Cancel(index int) (ProductionItem, bool) {
	if index < 0 || index >= len(q.items) {
		return ProductionItem{}, false
	}
	item := q.items[index]
	q.items = append(q.items[:index], q.items[index+1:]...)
	return item, true
}

// CancelUnitType removes the last queued item matching unitType.
func (q *ProductionQueue) CancelUnitType(unitType UnitTypeId) (ProductionItem, bool) {
	for i := len(q.items) - 1; i >= 0; i-- {
		if q.items[i].UnitType == unitType {
			return q.Cancel(i)
		}
	}
	return ProductionItem{}, false
}

// Current returns a pointer to the head item, or nil if empty.
func (q *ProductionQueue) Current() *ProductionItem {
	if len(q.items) == 0 {
		return nil
	}
	return &q.items[0]
}

// Tick advances the head item's progress by one and reports whether it
// just started (progress went from 0 to 1).
func (q *ProductionQueue) Tick() (justStarted bool) {
	cur := q.Current()
	if cur == nil {
		return false
	}
	wasZero := cur.Progress == 0
	cur.tick()
	return wasZero && cur.Progress == 1
}

// Complete pops the head item if it has finished, returning it.
func (q *ProductionQueue) Complete() (ProductionItem, bool) {
	cur := q.Current()
	if cur == nil || !cur.IsComplete() {
		return ProductionItem{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Clear empties the queue.
func (q *ProductionQueue) Clear() {
	q.items = nil
}

// Building marks an entity as a constructible/producing structure.
type Building struct {
	TypeID              BuildingTypeId
	IsConstructed       bool
	ConstructionProgress uint32
	ConstructionTotal    uint32
	Rally               *fixed.Vec2
}

// NewBuilding returns a building under construction.
func NewBuilding(typeID BuildingTypeId, total uint32) *Building {
	return &Building{TypeID: typeID, ConstructionTotal: total}
}

// NewConstructedBuilding returns a fully-built building.
func NewConstructedBuilding(typeID BuildingTypeId) *Building {
	return &Building{TypeID: typeID, IsConstructed: true}
}

// IsConstructionComplete reports whether the building either is already
// marked constructed, or has accumulated enough progress to be.
func (b *Building) IsConstructionComplete() bool {
	return b.IsConstructed || b.ConstructionProgress >= b.ConstructionTotal
}

// ConstructionPercentage returns progress as 0-100.
func (b *Building) ConstructionPercentage() uint32 {
	if b.ConstructionTotal == 0 {
		return 100
	}
	return b.ConstructionProgress * 100 / b.ConstructionTotal
}

// TickConstruction advances progress by one tick and returns true only
// on the tick construction crosses the threshold and IsConstructed
// flips to true.
func (b *Building) TickConstruction() bool {
	if b.IsConstructed {
		return false
	}
	b.ConstructionProgress++
	if b.ConstructionProgress >= b.ConstructionTotal {
		b.IsConstructed = true
		return true
	}
	return false
}

// SetRallyPoint assigns a spawn destination for units this building
// produces.
func (b *Building) SetRallyPoint(p fixed.Vec2) {
	b.Rally = &p
}

// ClearRallyPoint removes the rally point, falling back to the default
// spawn offset.
func (b *Building) ClearRallyPoint() {
	b.Rally = nil
}
