package simulation

import "github.com/pthm-cable/rtscore/components"

// healthReaper collects every entity with zero health, in ascending ID
// order, removes it from the store, and returns the deaths for the
// tick's event bundle (spec §4.7).
func (s *Simulation) healthReaper(ids []components.EntityId) []components.EntityId {
	var deaths []components.EntityId
	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.Health == nil || !e.Health.IsDead() {
			continue
		}
		deaths = append(deaths, id)
	}
	for _, id := range deaths {
		s.store.Remove(id)
	}
	return deaths
}
