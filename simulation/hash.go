package simulation

import "encoding/binary"

// fnvOffsetBasis and fnvPrime are the standard FNV-1a 64-bit constants.
// The platform's built-in map/hash randomization is forbidden for state
// hashing because it is seeded per-process; FNV-1a is pinned instead so
// the hash is reproducible across processes and machines.
const (
	fnvOffsetBasis uint64 = 14695981039346656037
	fnvPrime       uint64 = 1099511628211
)

// hasher accumulates an FNV-1a hash over a sequence of byte writes.
type hasher struct {
	h uint64
}

func newHasher() *hasher {
	return &hasher{h: fnvOffsetBasis}
}

func (a *hasher) writeByte(b byte) {
	a.h ^= uint64(b)
	a.h *= fnvPrime
}

func (a *hasher) writeBytes(bs []byte) {
	for _, b := range bs {
		a.writeByte(b)
	}
}

func (a *hasher) writeUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	a.writeBytes(buf[:])
}

func (a *hasher) writeInt64(v int64) {
	a.writeUint64(uint64(v))
}

func (a *hasher) writeInt32(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	a.writeBytes(buf[:])
}

func (a *hasher) writeBool(v bool) {
	if v {
		a.writeByte(1)
	} else {
		a.writeByte(0)
	}
}

// StateHash computes the reproducible FNV-1a digest over the tick
// counter, entity count, and a fixed, documented subset of each
// entity's components (spec §4.11). CommandQueue contents, CombatStats,
// ProductionQueue, Building, Harvester, FactionMember, ResourceNode,
// and Movement.target never contribute: they are process inputs or
// authored data, not emergent state two synchronized simulations must
// agree on.
func (s *Simulation) StateHash() uint64 {
	h := newHasher()
	h.writeUint64(s.tick)

	ids := s.store.SortedIDs()
	h.writeUint64(uint64(len(ids)))

	for _, id := range ids {
		e := s.store.Get(id)
		h.writeUint64(uint64(id))

		if e.Position != nil {
			h.writeInt64(e.Position.Value.X.Bits())
			h.writeInt64(e.Position.Value.Y.Bits())
		}
		if e.Velocity != nil {
			h.writeInt64(e.Velocity.Value.X.Bits())
			h.writeInt64(e.Velocity.Value.Y.Bits())
		}
		if e.Health != nil {
			h.writeInt32(e.Health.Current)
			h.writeInt32(e.Health.Max)
		}
		if e.Projectile != nil {
			h.writeUint64(uint64(e.Projectile.Source))
			h.writeUint64(uint64(e.Projectile.Target))
			h.writeInt32(e.Projectile.Damage)
			h.writeByte(byte(e.Projectile.DamageType))
			h.writeInt64(e.Projectile.Speed.Bits())
		}
		if e.PatrolState != nil {
			h.writeInt64(e.PatrolState.Origin.X.Bits())
			h.writeInt64(e.PatrolState.Origin.Y.Bits())
			h.writeInt64(e.PatrolState.Target.X.Bits())
			h.writeInt64(e.PatrolState.Target.Y.Bits())
			h.writeBool(e.PatrolState.HeadingToTarget)
		}
	}

	return h.h
}
