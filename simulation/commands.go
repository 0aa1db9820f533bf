package simulation

import (
	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

// desiredVelocity computes the velocity a MoveTo/AttackMove-style order
// implies this tick: full speed toward the point, or zero once within
// ArrivalEpsilonSq of it.
func desiredVelocity(position, point fixed.Vec2, speed fixed.Fixed, arrivalEpsilonSq fixed.Fixed) (fixed.Vec2, bool) {
	if fixed.DistanceSquared(position, point).Cmp(arrivalEpsilonSq) <= 0 {
		return fixed.ZeroVec, true
	}
	dir := point.Sub(position).Normalize()
	return dir.Scale(speed), false
}

// commandPass maps each commandable entity's head command to a desired
// velocity (spec §4.4), in ascending-ID order.
func (s *Simulation) commandPass(ids []components.EntityId) {
	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.CommandQueue == nil || e.Position == nil || e.Velocity == nil {
			continue
		}
		cmd, ok := e.CommandQueue.Current()
		if !ok {
			continue
		}

		speed := fixed.Zero
		if e.Movement != nil {
			speed = e.Movement.Speed
		}

		switch cmd.Kind {
		case components.CommandStop, components.CommandHoldPosition:
			e.Velocity.Value = fixed.ZeroVec

		case components.CommandMoveTo:
			vel, arrived := desiredVelocity(e.Position.Value, cmd.Point, speed, s.arrivalEpsilonSq)
			e.Velocity.Value = vel
			if arrived {
				e.CommandQueue.Pop()
			}

		case components.CommandAttackMove:
			vel, arrived := desiredVelocity(e.Position.Value, cmd.Point, speed, s.arrivalEpsilonSq)
			e.Velocity.Value = vel
			if arrived {
				e.CommandQueue.Pop()
			}

		case components.CommandPatrol, components.CommandAttack:
			// Handled by the patrol and attack-chase passes.
		}
	}
}

// patrolPass implements spec §4.4a.
func (s *Simulation) patrolPass(ids []components.EntityId) {
	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.CommandQueue == nil || e.Position == nil || e.Velocity == nil {
			continue
		}
		cmd, ok := e.CommandQueue.Current()
		if !ok || cmd.Kind != components.CommandPatrol {
			if e.PatrolState != nil {
				e.PatrolState = nil
			}
			continue
		}

		if e.PatrolState == nil {
			e.PatrolState = &components.PatrolState{
				Origin:          e.Position.Value,
				Target:          cmd.Point,
				HeadingToTarget: true,
			}
		}
		ps := e.PatrolState

		destination := ps.Target
		if !ps.HeadingToTarget {
			destination = ps.Origin
		}

		speed := fixed.Zero
		if e.Movement != nil {
			speed = e.Movement.Speed
		}

		if fixed.DistanceSquared(e.Position.Value, destination).Cmp(fixed.One) <= 0 {
			ps.HeadingToTarget = !ps.HeadingToTarget
			e.Velocity.Value = fixed.ZeroVec
			continue
		}

		dir := destination.Sub(e.Position.Value).Normalize()
		e.Velocity.Value = dir.Scale(speed)
	}
}

// attackChasePass implements spec §4.4b.
func (s *Simulation) attackChasePass(ids []components.EntityId) {
	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.CommandQueue == nil || e.Position == nil || e.Velocity == nil {
			continue
		}
		cmd, ok := e.CommandQueue.Current()
		if !ok || cmd.Kind != components.CommandAttack {
			continue
		}

		target := s.store.Get(cmd.Target)
		if target == nil || target.Position == nil {
			e.CommandQueue.Pop()
			e.Velocity.Value = fixed.ZeroVec
			continue
		}

		if e.AttackTarget != nil {
			e.AttackTarget.Target = cmd.Target
		}

		if fixed.DistanceSquared(e.Position.Value, target.Position.Value).Cmp(fixed.One) <= 0 {
			e.Velocity.Value = fixed.ZeroVec
			continue
		}

		speed := fixed.Zero
		if e.Movement != nil {
			speed = e.Movement.Speed
		}
		dir := target.Position.Value.Sub(e.Position.Value).Normalize()
		e.Velocity.Value = dir.Scale(speed)
	}
}

// movementPass integrates velocity into position (spec §4.5).
func (s *Simulation) movementPass(ids []components.EntityId) {
	for _, id := range ids {
		e := s.store.Get(id)
		if e == nil || e.Position == nil || e.Velocity == nil {
			continue
		}
		e.Position.Value = e.Position.Value.Add(e.Velocity.Value)
	}
}
