package simulation

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

// FormatVersion is the current on-wire serialization version. Bumping
// it is a replay-breaking change.
const FormatVersion uint32 = 1

// Component presence bits, written as a single uint16 per entity ahead
// of its component payloads. Order here is the order components are
// written and read.
const (
	bitPosition = 1 << iota
	bitVelocity
	bitHealth
	bitMovement
	bitCommandQueue
	bitAttackTarget
	bitCombatStats
	bitProductionQueue
	bitBuilding
	bitHarvester
	bitPatrolState
	bitProjectile
	bitFactionMember
	bitResourceNode
	bitDepot
	bitVisionRange
)

type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *writer) u16(v uint16) { var b [2]byte; binary.LittleEndian.PutUint16(b[:], v); w.buf.Write(b[:]) }
func (w *writer) u32(v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); w.buf.Write(b[:]) }
func (w *writer) u64(v uint64) { var b [8]byte; binary.LittleEndian.PutUint64(b[:], v); w.buf.Write(b[:]) }
func (w *writer) i32(v int32)  { w.u32(uint32(v)) }
func (w *writer) i64(v int64)  { w.u64(uint64(v)) }
func (w *writer) fixedVal(f fixed.Fixed) { w.i64(f.Bits()) }
func (w *writer) vec2(v fixed.Vec2)      { w.fixedVal(v.X); w.fixedVal(v.Y) }
func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}
func (w *writer) bytesWithLen(b []byte) {
	w.u32(uint32(len(b)))
	w.buf.Write(b)
}

type reader struct {
	buf *bytes.Reader
}

func (r *reader) u8() (uint8, error)   { return r.buf.ReadByte() }
func (r *reader) u16() (uint16, error) {
	var b [2]byte
	if _, err := readFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}
func (r *reader) u32() (uint32, error) {
	var b [4]byte
	if _, err := readFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
func (r *reader) u64() (uint64, error) {
	var b [8]byte
	if _, err := readFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
func (r *reader) i32() (int32, error) { v, err := r.u32(); return int32(v), err }
func (r *reader) i64() (int64, error) { v, err := r.u64(); return int64(v), err }
func (r *reader) fixedVal() (fixed.Fixed, error) {
	v, err := r.i64()
	return fixed.FromBits(v), err
}
func (r *reader) vec2() (fixed.Vec2, error) {
	x, err := r.fixedVal()
	if err != nil {
		return fixed.ZeroVec, err
	}
	y, err := r.fixedVal()
	if err != nil {
		return fixed.ZeroVec, err
	}
	return fixed.NewVec2(x, y), nil
}
func (r *reader) boolean() (bool, error) {
	v, err := r.u8()
	return v != 0, err
}
func (r *reader) bytesWithLen() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := readFull(r.buf, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n, err := r.Read(b)
	if err == nil && n != len(b) {
		return n, fmt.Errorf("short read: got %d of %d bytes", n, len(b))
	}
	return n, err
}

// Serialize encodes the complete simulation state as a deterministic
// little-endian byte stream: format version, tick, allocator state
// (next entity ID), seed, entity count, every entity in ascending-ID
// order with a presence bitmask ahead of its component payloads, and
// finally the economy table in ascending faction order.
func (s *Simulation) Serialize() []byte {
	w := &writer{}
	w.u32(FormatVersion)
	w.u64(s.tick)
	w.u64(uint64(s.store.NextID()))
	w.u64(s.seed)

	ids := s.store.SortedIDs()
	w.u64(uint64(len(ids)))
	for _, id := range ids {
		e := s.store.Get(id)
		w.u64(uint64(id))
		w.u16(presenceBits(e))
		writeEntityComponents(w, e)
	}

	w.writeEconomies(s.economies)

	return w.buf.Bytes()
}

func presenceBits(e *components.Entity) uint16 {
	var bits uint16
	if e.Position != nil {
		bits |= bitPosition
	}
	if e.Velocity != nil {
		bits |= bitVelocity
	}
	if e.Health != nil {
		bits |= bitHealth
	}
	if e.Movement != nil {
		bits |= bitMovement
	}
	if e.CommandQueue != nil {
		bits |= bitCommandQueue
	}
	if e.AttackTarget != nil {
		bits |= bitAttackTarget
	}
	if e.CombatStats != nil {
		bits |= bitCombatStats
	}
	if e.ProductionQueue != nil {
		bits |= bitProductionQueue
	}
	if e.Building != nil {
		bits |= bitBuilding
	}
	if e.Harvester != nil {
		bits |= bitHarvester
	}
	if e.PatrolState != nil {
		bits |= bitPatrolState
	}
	if e.Projectile != nil {
		bits |= bitProjectile
	}
	if e.FactionMember != nil {
		bits |= bitFactionMember
	}
	if e.ResourceNode != nil {
		bits |= bitResourceNode
	}
	if e.Depot != nil {
		bits |= bitDepot
	}
	if e.VisionRange != nil {
		bits |= bitVisionRange
	}
	return bits
}

func writeEntityComponents(w *writer, e *components.Entity) {
	if e.Position != nil {
		w.vec2(e.Position.Value)
	}
	if e.Velocity != nil {
		w.vec2(e.Velocity.Value)
	}
	if e.Health != nil {
		w.i32(e.Health.Current)
		w.i32(e.Health.Max)
	}
	if e.Movement != nil {
		w.fixedVal(e.Movement.Speed)
		hasTarget := e.Movement.Target != nil
		w.boolean(hasTarget)
		if hasTarget {
			w.vec2(*e.Movement.Target)
		}
	}
	if e.CommandQueue != nil {
		writeCommandQueue(w, e.CommandQueue)
	}
	if e.AttackTarget != nil {
		w.u64(uint64(e.AttackTarget.Target))
	}
	if e.CombatStats != nil {
		writeCombatStats(w, e.CombatStats)
	}
	if e.ProductionQueue != nil {
		writeProductionQueue(w, e.ProductionQueue)
	}
	if e.Building != nil {
		writeBuilding(w, e.Building)
	}
	if e.Harvester != nil {
		w.i32(e.Harvester.Capacity)
		w.i32(e.Harvester.CurrentLoad)
		w.i32(e.Harvester.GatherRate)
		w.u8(uint8(e.Harvester.State.Kind))
		w.u64(uint64(e.Harvester.State.Ref))
	}
	if e.PatrolState != nil {
		w.vec2(e.PatrolState.Origin)
		w.vec2(e.PatrolState.Target)
		w.boolean(e.PatrolState.HeadingToTarget)
	}
	if e.Projectile != nil {
		p := e.Projectile
		w.u64(uint64(p.Source))
		w.u64(uint64(p.Target))
		w.i32(p.Damage)
		w.u8(uint8(p.DamageType))
		w.u8(uint8(p.WeaponSize))
		w.u8(p.ArmorPenetration)
		w.fixedVal(p.Speed)
		w.fixedVal(p.SplashRadius)
	}
	if e.FactionMember != nil {
		w.u32(uint32(e.FactionMember.Faction))
		w.u8(e.FactionMember.PlayerSlot)
	}
	if e.ResourceNode != nil {
		w.i32(e.ResourceNode.Remaining)
		w.i32(e.ResourceNode.GatherRate)
	}
	if e.VisionRange != nil {
		w.fixedVal(*e.VisionRange)
	}
}

func writeCommandQueue(w *writer, q *components.CommandQueue) {
	items := commandQueueItems(q)
	w.u32(uint32(len(items)))
	for _, c := range items {
		w.u8(uint8(c.Kind))
		w.vec2(c.Point)
		w.u64(uint64(c.Target))
	}
}

// commandQueueItems is the only place that peels a CommandQueue apart
// for persistence; it pops and rebuilds so the queue's internal slice
// need not be exported.
func commandQueueItems(q *components.CommandQueue) []components.Command {
	var items []components.Command
	for {
		c, ok := q.Current()
		if !ok {
			break
		}
		items = append(items, c)
		q.Pop()
	}
	for _, c := range items {
		q.Push(c)
	}
	return items
}

func writeCombatStats(w *writer, c *components.CombatStats) {
	w.i32(c.Damage)
	w.fixedVal(c.Range)
	w.i32(c.CooldownMax)
	w.i32(c.CooldownRemaining)
	w.fixedVal(c.ProjectileSpeed)
	w.fixedVal(c.SplashRadius)
	w.u8(uint8(c.DamageType))
	w.u8(uint8(c.WeaponSize))
	w.u8(c.ArmorPenetration)
	w.u8(uint8(c.ArmorType))
	w.u8(c.Resistance)
	w.u8(c.BonusResistance)
}

func writeProductionQueue(w *writer, q *components.ProductionQueue) {
	var items []components.ProductionItem
	for {
		item := q.Current()
		if item == nil {
			break
		}
		items = append(items, *item)
		q.Cancel(0)
	}
	w.u32(uint32(len(items)))
	for _, item := range items {
		w.u32(uint32(item.UnitType))
		w.u32(item.Progress)
		w.u32(item.TotalTime)
	}
	for _, item := range items {
		q.Add(item.UnitType, item.TotalTime)
		for i := uint32(0); i < item.Progress; i++ {
			q.Tick()
		}
	}
}

func writeBuilding(w *writer, b *components.Building) {
	w.u32(uint32(b.TypeID))
	w.boolean(b.IsConstructed)
	w.u32(b.ConstructionProgress)
	w.u32(b.ConstructionTotal)
	w.boolean(b.Rally != nil)
	if b.Rally != nil {
		w.vec2(*b.Rally)
	}
}

func (w *writer) writeEconomies(economies map[components.FactionId]*components.PlayerEconomy) {
	factions := make([]components.FactionId, 0, len(economies))
	for f := range economies {
		factions = append(factions, f)
	}
	sortFactions(factions)

	w.u32(uint32(len(factions)))
	for _, f := range factions {
		econ := economies[f]
		w.u32(uint32(f))
		w.i32(econ.Feedstock)
		w.i32(econ.StorageCapacity)
		w.i32(econ.IncomeRate)
	}
}

func sortFactions(factions []components.FactionId) {
	for i := 1; i < len(factions); i++ {
		for j := i; j > 0 && factions[j] < factions[j-1]; j-- {
			factions[j], factions[j-1] = factions[j-1], factions[j]
		}
	}
}

// Deserialize reconstructs a Simulation from bytes produced by
// Serialize. A version mismatch or truncated/corrupt stream returns
// SerializationFailed.
func Deserialize(data []byte) (*Simulation, error) {
	r := &reader{buf: bytes.NewReader(data)}

	version, err := r.u32()
	if err != nil {
		return nil, &SerializationFailed{Msg: fmt.Sprintf("reading version: %v", err)}
	}
	if version != FormatVersion {
		return nil, &SerializationFailed{Msg: fmt.Sprintf("unsupported format version %d", version)}
	}

	tick, err := r.u64()
	if err != nil {
		return nil, &SerializationFailed{Msg: fmt.Sprintf("reading tick: %v", err)}
	}
	nextID, err := r.u64()
	if err != nil {
		return nil, &SerializationFailed{Msg: fmt.Sprintf("reading allocator state: %v", err)}
	}
	seed, err := r.u64()
	if err != nil {
		return nil, &SerializationFailed{Msg: fmt.Sprintf("reading seed: %v", err)}
	}

	sim := New()
	sim.tick = tick
	sim.seed = seed

	count, err := r.u64()
	if err != nil {
		return nil, &SerializationFailed{Msg: fmt.Sprintf("reading entity count: %v", err)}
	}

	for i := uint64(0); i < count; i++ {
		id, err := r.u64()
		if err != nil {
			return nil, &SerializationFailed{Msg: fmt.Sprintf("reading entity id: %v", err)}
		}
		bits, err := r.u16()
		if err != nil {
			return nil, &SerializationFailed{Msg: fmt.Sprintf("reading presence bits: %v", err)}
		}
		e := components.NewEntity(components.EntityId(id))
		if err := readEntityComponents(r, e, bits); err != nil {
			return nil, &SerializationFailed{Msg: fmt.Sprintf("reading entity %d: %v", id, err)}
		}
		sim.store.InsertWithID(e)
	}
	sim.store.SetNextID(components.EntityId(nextID))

	if err := readEconomies(r, sim); err != nil {
		return nil, &SerializationFailed{Msg: fmt.Sprintf("reading economies: %v", err)}
	}

	return sim, nil
}

func readEntityComponents(r *reader, e *components.Entity, bits uint16) error {
	var err error
	if bits&bitPosition != 0 {
		v, e2 := r.vec2()
		if e2 != nil {
			return e2
		}
		e.Position = &components.Position{Value: v}
	}
	if bits&bitVelocity != 0 {
		v, e2 := r.vec2()
		if e2 != nil {
			return e2
		}
		e.Velocity = &components.Velocity{Value: v}
	}
	if bits&bitHealth != 0 {
		cur, e2 := r.i32()
		if e2 != nil {
			return e2
		}
		max, e2 := r.i32()
		if e2 != nil {
			return e2
		}
		e.Health = &components.Health{Current: cur, Max: max}
	}
	if bits&bitMovement != 0 {
		speed, e2 := r.fixedVal()
		if e2 != nil {
			return e2
		}
		hasTarget, e2 := r.boolean()
		if e2 != nil {
			return e2
		}
		mv := &components.Movement{Speed: speed}
		if hasTarget {
			t, e2 := r.vec2()
			if e2 != nil {
				return e2
			}
			mv.Target = &t
		}
		e.Movement = mv
	}
	if bits&bitCommandQueue != 0 {
		q, e2 := readCommandQueue(r)
		if e2 != nil {
			return e2
		}
		e.CommandQueue = q
	}
	if bits&bitAttackTarget != 0 {
		target, e2 := r.u64()
		if e2 != nil {
			return e2
		}
		e.AttackTarget = &components.AttackTarget{Target: components.EntityId(target)}
	}
	if bits&bitCombatStats != 0 {
		cs, e2 := readCombatStats(r)
		if e2 != nil {
			return e2
		}
		e.CombatStats = cs
	}
	if bits&bitProductionQueue != 0 {
		q, e2 := readProductionQueue(r)
		if e2 != nil {
			return e2
		}
		e.ProductionQueue = q
	}
	if bits&bitBuilding != 0 {
		b, e2 := readBuilding(r)
		if e2 != nil {
			return e2
		}
		e.Building = b
	}
	if bits&bitHarvester != 0 {
		cap, e2 := r.i32()
		if e2 != nil {
			return e2
		}
		load, e2 := r.i32()
		if e2 != nil {
			return e2
		}
		rate, e2 := r.i32()
		if e2 != nil {
			return e2
		}
		kind, e2 := r.u8()
		if e2 != nil {
			return e2
		}
		ref, e2 := r.u64()
		if e2 != nil {
			return e2
		}
		e.Harvester = &components.Harvester{
			Capacity: cap, CurrentLoad: load, GatherRate: rate,
			State: components.HarvesterState{Kind: components.HarvesterStateKind(kind), Ref: components.EntityId(ref)},
		}
	}
	if bits&bitPatrolState != 0 {
		origin, e2 := r.vec2()
		if e2 != nil {
			return e2
		}
		target, e2 := r.vec2()
		if e2 != nil {
			return e2
		}
		heading, e2 := r.boolean()
		if e2 != nil {
			return e2
		}
		e.PatrolState = &components.PatrolState{Origin: origin, Target: target, HeadingToTarget: heading}
	}
	if bits&bitProjectile != 0 {
		p, e2 := readProjectile(r)
		if e2 != nil {
			return e2
		}
		e.Projectile = p
	}
	if bits&bitFactionMember != 0 {
		faction, e2 := r.u32()
		if e2 != nil {
			return e2
		}
		slot, e2 := r.u8()
		if e2 != nil {
			return e2
		}
		e.FactionMember = &components.FactionMember{Faction: components.FactionId(faction), PlayerSlot: slot}
	}
	if bits&bitResourceNode != 0 {
		remaining, e2 := r.i32()
		if e2 != nil {
			return e2
		}
		rate, e2 := r.i32()
		if e2 != nil {
			return e2
		}
		e.ResourceNode = &components.ResourceNode{Remaining: remaining, GatherRate: rate}
	}
	if bits&bitDepot != 0 {
		e.Depot = &components.Depot{}
	}
	if bits&bitVisionRange != 0 {
		v, e2 := r.fixedVal()
		if e2 != nil {
			return e2
		}
		e.VisionRange = &v
	}
	return err
}

func readCommandQueue(r *reader) (*components.CommandQueue, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	q := components.NewCommandQueue()
	for i := uint32(0); i < n; i++ {
		kind, err := r.u8()
		if err != nil {
			return nil, err
		}
		point, err := r.vec2()
		if err != nil {
			return nil, err
		}
		target, err := r.u64()
		if err != nil {
			return nil, err
		}
		q.Push(components.Command{Kind: components.CommandKind(kind), Point: point, Target: components.EntityId(target)})
	}
	return q, nil
}

func readCombatStats(r *reader) (*components.CombatStats, error) {
	dmg, err := r.i32()
	if err != nil {
		return nil, err
	}
	rng, err := r.fixedVal()
	if err != nil {
		return nil, err
	}
	cdMax, err := r.i32()
	if err != nil {
		return nil, err
	}
	cdRem, err := r.i32()
	if err != nil {
		return nil, err
	}
	projSpeed, err := r.fixedVal()
	if err != nil {
		return nil, err
	}
	splash, err := r.fixedVal()
	if err != nil {
		return nil, err
	}
	dtype, err := r.u8()
	if err != nil {
		return nil, err
	}
	wsize, err := r.u8()
	if err != nil {
		return nil, err
	}
	pen, err := r.u8()
	if err != nil {
		return nil, err
	}
	atype, err := r.u8()
	if err != nil {
		return nil, err
	}
	resist, err := r.u8()
	if err != nil {
		return nil, err
	}
	bonus, err := r.u8()
	if err != nil {
		return nil, err
	}
	return &components.CombatStats{
		Damage: dmg, Range: rng, CooldownMax: cdMax, CooldownRemaining: cdRem,
		ProjectileSpeed: projSpeed, SplashRadius: splash,
		DamageType: components.DamageType(dtype), WeaponSize: components.WeaponSize(wsize),
		ArmorPenetration: pen, ArmorType: components.ArmorType(atype),
		Resistance: resist, BonusResistance: bonus,
	}, nil
}

func readProductionQueue(r *reader) (*components.ProductionQueue, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	q := components.NewProductionQueue()
	for i := uint32(0); i < n; i++ {
		unitType, err := r.u32()
		if err != nil {
			return nil, err
		}
		progress, err := r.u32()
		if err != nil {
			return nil, err
		}
		total, err := r.u32()
		if err != nil {
			return nil, err
		}
		q.Add(components.UnitTypeId(unitType), total)
		for p := uint32(0); p < progress; p++ {
			q.Tick()
		}
	}
	return q, nil
}

func readBuilding(r *reader) (*components.Building, error) {
	typeID, err := r.u32()
	if err != nil {
		return nil, err
	}
	constructed, err := r.boolean()
	if err != nil {
		return nil, err
	}
	progress, err := r.u32()
	if err != nil {
		return nil, err
	}
	total, err := r.u32()
	if err != nil {
		return nil, err
	}
	hasRally, err := r.boolean()
	if err != nil {
		return nil, err
	}
	b := &components.Building{TypeID: components.BuildingTypeId(typeID), IsConstructed: constructed, ConstructionProgress: progress, ConstructionTotal: total}
	if hasRally {
		p, err := r.vec2()
		if err != nil {
			return nil, err
		}
		b.Rally = &p
	}
	return b, nil
}

func readProjectile(r *reader) (*components.Projectile, error) {
	source, err := r.u64()
	if err != nil {
		return nil, err
	}
	target, err := r.u64()
	if err != nil {
		return nil, err
	}
	damage, err := r.i32()
	if err != nil {
		return nil, err
	}
	dtype, err := r.u8()
	if err != nil {
		return nil, err
	}
	wsize, err := r.u8()
	if err != nil {
		return nil, err
	}
	pen, err := r.u8()
	if err != nil {
		return nil, err
	}
	speed, err := r.fixedVal()
	if err != nil {
		return nil, err
	}
	splash, err := r.fixedVal()
	if err != nil {
		return nil, err
	}
	return &components.Projectile{
		Source: components.EntityId(source), Target: components.EntityId(target),
		Damage: damage, DamageType: components.DamageType(dtype), WeaponSize: components.WeaponSize(wsize),
		ArmorPenetration: pen, Speed: speed, SplashRadius: splash,
	}, nil
}

func readEconomies(r *reader, sim *Simulation) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		faction, err := r.u32()
		if err != nil {
			return err
		}
		feedstock, err := r.i32()
		if err != nil {
			return err
		}
		capacity, err := r.i32()
		if err != nil {
			return err
		}
		income, err := r.i32()
		if err != nil {
			return err
		}
		sim.economies[components.FactionId(faction)] = &components.PlayerEconomy{
			Feedstock: feedstock, StorageCapacity: capacity, IncomeRate: income,
		}
	}
	return nil
}
