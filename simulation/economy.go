package simulation

import (
	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

// EconomyEventKind tags the kind of economy notification emitted during the
// harvester pass.
type EconomyEventKind uint8

const (
	NodeDepleted EconomyEventKind = iota
	ResourceGathered
	ResourceDeposited
)

// EconomyEvent records a single harvester-pass notification.
type EconomyEvent struct {
	Kind      EconomyEventKind
	Harvester components.EntityId
	Node      components.EntityId
	Depot     components.EntityId
	Amount    int32
}

// sameFaction reports whether two optional FactionMembers belong to the
// same faction. An entity with no FactionMember is nobody's friend.
func sameFaction(a, b *components.FactionMember) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Faction == b.Faction
}

// nearestResourceNode returns the closest non-depleted resource node,
// whatever its faction (the faction argument is not consulted),
// breaking ties by the lowest EntityId via a first-strict-minimum scan
// over ascending-ID-ordered candidates.
func (s *Simulation) nearestResourceNode(from fixed.Vec2, faction *components.FactionMember, ids []components.EntityId) (components.EntityId, bool) {
	best := components.Unset
	var bestDist fixed.Fixed
	found := false
	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.ResourceNode == nil || e.Position == nil || e.ResourceNode.IsDepleted() {
			continue
		}
		d := fixed.DistanceSquared(from, e.Position.Value)
		if !found || d.Cmp(bestDist) < 0 {
			best = id
			bestDist = d
			found = true
		}
	}
	return best, found
}

// nearestFriendlyDepot returns the closest depot sharing faction,
// using the same first-strict-minimum ascending-ID scan.
func (s *Simulation) nearestFriendlyDepot(from fixed.Vec2, faction *components.FactionMember, ids []components.EntityId) (components.EntityId, bool) {
	best := components.Unset
	var bestDist fixed.Fixed
	found := false
	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.Depot == nil || e.Position == nil {
			continue
		}
		if !sameFaction(faction, e.FactionMember) {
			continue
		}
		d := fixed.DistanceSquared(from, e.Position.Value)
		if !found || d.Cmp(bestDist) < 0 {
			best = id
			bestDist = d
			found = true
		}
	}
	return best, found
}

// harvesterPass advances every Harvester's state machine by one tick
// (spec §4.8), in ascending-ID order, and returns the economy
// notifications it produced. It also recomputes each faction's
// income_rate as a snapshot of gather_rate summed over harvesters
// currently Gathering.
func (s *Simulation) harvesterPass(ids []components.EntityId) []EconomyEvent {
	var events []EconomyEvent
	income := map[components.FactionId]int32{}

	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.Harvester == nil || e.Position == nil {
			continue
		}
		h := e.Harvester

		switch h.State.Kind {
		case components.HarvesterIdle:
			if e.Velocity != nil {
				e.Velocity.Value = fixed.ZeroVec
			}
			if h.IsEmpty() {
				if node, ok := s.nearestResourceNode(e.Position.Value, e.FactionMember, ids); ok {
					h.State = components.MovingToNodeState(node)
				}
			} else if depot, ok := s.nearestFriendlyDepot(e.Position.Value, e.FactionMember, ids); ok {
				h.State = components.ReturningState(depot)
			}

		case components.HarvesterMovingToNode:
			node := s.store.Get(h.State.Ref)
			if node == nil || node.ResourceNode == nil {
				h.State = components.IdleState()
				continue
			}
			if fixed.DistanceSquared(e.Position.Value, node.Position.Value).Cmp(s.interactionDistanceSq) <= 0 {
				if e.Velocity != nil {
					e.Velocity.Value = fixed.ZeroVec
				}
				if node.ResourceNode.IsDepleted() {
					h.State = components.IdleState()
				} else {
					h.State = components.GatheringState(h.State.Ref)
				}
			} else {
				e.Velocity.Value = node.Position.Value.Sub(e.Position.Value).Normalize()
				if e.Movement != nil {
					e.Velocity.Value = e.Velocity.Value.Scale(e.Movement.Speed)
				}
			}

		case components.HarvesterGathering:
			if e.Velocity != nil {
				e.Velocity.Value = fixed.ZeroVec
			}
			node := s.store.Get(h.State.Ref)
			if node == nil || node.ResourceNode == nil || node.ResourceNode.IsDepleted() {
				nodeID := h.State.Ref
				h.State = components.IdleState()
				// A node that ran dry was already reported by the
				// extraction that emptied it; only a vanished node is
				// reported here.
				if node == nil || node.ResourceNode == nil {
					events = append(events, EconomyEvent{Kind: NodeDepleted, Harvester: id, Node: nodeID})
				}
				continue
			}
			if h.IsFull() {
				if depot, ok := s.nearestFriendlyDepot(e.Position.Value, e.FactionMember, ids); ok {
					h.State = components.ReturningState(depot)
				} else {
					h.State = components.IdleState()
				}
				continue
			}
			want := h.GatherRate
			if avail := h.AvailableCapacity(); want > avail {
				want = avail
			}
			extracted := node.ResourceNode.Extract(want)
			h.Load(extracted)
			if extracted > 0 {
				events = append(events, EconomyEvent{Kind: ResourceGathered, Harvester: id, Node: h.State.Ref, Amount: extracted})
			}
			if node.ResourceNode.IsDepleted() {
				events = append(events, EconomyEvent{Kind: NodeDepleted, Harvester: id, Node: h.State.Ref})
			}

		case components.HarvesterReturning:
			depot := s.store.Get(h.State.Ref)
			if depot == nil {
				h.State = components.IdleState()
				continue
			}
			if fixed.DistanceSquared(e.Position.Value, depot.Position.Value).Cmp(s.interactionDistanceSq) <= 0 {
				if e.Velocity != nil {
					e.Velocity.Value = fixed.ZeroVec
				}
				h.State = components.DepositingState(h.State.Ref)
			} else {
				e.Velocity.Value = depot.Position.Value.Sub(e.Position.Value).Normalize()
				if e.Movement != nil {
					e.Velocity.Value = e.Velocity.Value.Scale(e.Movement.Speed)
				}
			}

		case components.HarvesterDepositing:
			if e.Velocity != nil {
				e.Velocity.Value = fixed.ZeroVec
			}
			amount := h.Unload()
			if faction := e.FactionMember; faction != nil {
				econ := s.economyFor(faction.Faction)
				credited := econ.Deposit(amount)
				events = append(events, EconomyEvent{Kind: ResourceDeposited, Harvester: id, Depot: h.State.Ref, Amount: credited})
			}
			h.State = components.IdleState()
		}

		if h.State.Kind == components.HarvesterGathering {
			faction := components.FactionId(0)
			if e.FactionMember != nil {
				faction = e.FactionMember.Faction
			}
			income[faction] += h.GatherRate
		}
	}

	for faction, rate := range income {
		s.economyFor(faction).IncomeRate = rate
	}
	for faction, econ := range s.economies {
		if _, active := income[faction]; !active {
			econ.IncomeRate = 0
		}
	}

	return events
}

// economyFor returns (creating if necessary) the PlayerEconomy for a
// faction.
func (s *Simulation) economyFor(faction components.FactionId) *components.PlayerEconomy {
	econ, ok := s.economies[faction]
	if !ok {
		econ = &components.PlayerEconomy{StorageCapacity: s.defaultStorageCapacity}
		s.economies[faction] = econ
	}
	return econ
}
