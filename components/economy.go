package components

// HarvesterStateKind tags the active phase of a Harvester's state
// machine.
type HarvesterStateKind uint8

const (
	HarvesterIdle HarvesterStateKind = iota
	HarvesterMovingToNode
	HarvesterGathering
	HarvesterReturning
	HarvesterDepositing
)

// HarvesterState is the tagged state of a Harvester. Ref is only
// meaningful for the MovingToNode/Gathering/Returning/Depositing
// variants.
type HarvesterState struct {
	Kind HarvesterStateKind
	Ref  EntityId // target node (MovingToNode, Gathering) or depot (Returning, Depositing)
}

// IdleState returns the Idle state.
func IdleState() HarvesterState { return HarvesterState{Kind: HarvesterIdle} }

// MovingToNodeState returns a MovingToNode state referencing n.
func MovingToNodeState(n EntityId) HarvesterState {
	return HarvesterState{Kind: HarvesterMovingToNode, Ref: n}
}

// GatheringState returns a Gathering state referencing n.
func GatheringState(n EntityId) HarvesterState {
	return HarvesterState{Kind: HarvesterGathering, Ref: n}
}

// ReturningState returns a Returning state referencing d.
func ReturningState(d EntityId) HarvesterState {
	return HarvesterState{Kind: HarvesterReturning, Ref: d}
}

// DepositingState returns a Depositing state referencing the depot d
// being unloaded into.
func DepositingState(d EntityId) HarvesterState {
	return HarvesterState{Kind: HarvesterDepositing, Ref: d}
}

// Harvester carries cargo between resource nodes and depots.
type Harvester struct {
	Capacity    int32
	CurrentLoad int32
	GatherRate  int32
	State       HarvesterState
}

// IsFull reports whether the harvester cannot hold any more cargo.
func (h *Harvester) IsFull() bool {
	return h.CurrentLoad >= h.Capacity
}

// IsEmpty reports whether the harvester is carrying nothing.
func (h *Harvester) IsEmpty() bool {
	return h.CurrentLoad <= 0
}

// AvailableCapacity returns how much more cargo the harvester can hold.
func (h *Harvester) AvailableCapacity() int32 {
	avail := h.Capacity - h.CurrentLoad
	if avail < 0 {
		return 0
	}
	return avail
}

// Load adds amount to the cargo, clamped to available capacity, and
// returns the amount actually loaded.
func (h *Harvester) Load(amount int32) int32 {
	avail := h.AvailableCapacity()
	loaded := amount
	if loaded > avail {
		loaded = avail
	}
	if loaded < 0 {
		loaded = 0
	}
	h.CurrentLoad += loaded
	return loaded
}

// Unload empties the cargo hold and returns what was carried.
func (h *Harvester) Unload() int32 {
	amount := h.CurrentLoad
	h.CurrentLoad = 0
	return amount
}

// Depot marks an entity as a valid deposit point for harvesters. It
// carries no fields of its own; its presence is the signal.
type Depot struct{}

// PlayerEconomy tracks one player's stockpile of the single economic
// resource, Feedstock.
type PlayerEconomy struct {
	Feedstock       int32
	StorageCapacity int32
	IncomeRate      int32
}

// AvailableStorage returns remaining headroom before the storage cap.
func (p *PlayerEconomy) AvailableStorage() int32 {
	avail := p.StorageCapacity - p.Feedstock
	if avail < 0 {
		return 0
	}
	return avail
}

// Deposit credits amount to the stockpile, clamped to available
// storage; excess is silently discarded. Returns the amount actually
// credited.
func (p *PlayerEconomy) Deposit(amount int32) int32 {
	avail := p.AvailableStorage()
	credited := amount
	if credited > avail {
		credited = avail
	}
	if credited < 0 {
		credited = 0
	}
	p.Feedstock += credited
	return credited
}

// CanAfford reports whether the stockpile covers cost.
func (p *PlayerEconomy) CanAfford(cost int32) bool {
	return p.Feedstock >= cost
}

// Spend deducts cost from the stockpile if affordable, returning
// whether the spend succeeded.
func (p *PlayerEconomy) Spend(cost int32) bool {
	if !p.CanAfford(cost) {
		return false
	}
	p.Feedstock -= cost
	return true
}

// Refund credits amount back to the stockpile without any storage cap:
// whatever a cancelled production order refunds is credited in full,
// however full storage has since become. The caller computes amount
// (CancelProduction scales the cost by the remaining work and the
// refund rate).
func (p *PlayerEconomy) Refund(amount int32) {
	p.Feedstock += amount
}
