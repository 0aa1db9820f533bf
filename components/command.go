package components

import "github.com/pthm-cable/rtscore/fixed"

// CommandKind tags the active variant of a Command.
type CommandKind uint8

const (
	CommandStop CommandKind = iota
	CommandHoldPosition
	CommandMoveTo
	CommandAttackMove
	CommandPatrol
	CommandAttack
)

// Command is a tagged union of the orders a unit can be given. Only the
// field matching Kind is meaningful.
type Command struct {
	Kind   CommandKind
	Point  fixed.Vec2 // MoveTo, AttackMove, Patrol
	Target EntityId   // Attack
}

// Stop returns a Stop command.
func Stop() Command { return Command{Kind: CommandStop} }

// HoldPosition returns a HoldPosition command.
func HoldPosition() Command { return Command{Kind: CommandHoldPosition} }

// MoveTo returns a MoveTo command.
func MoveTo(p fixed.Vec2) Command { return Command{Kind: CommandMoveTo, Point: p} }

// AttackMove returns an AttackMove command.
func AttackMove(p fixed.Vec2) Command { return Command{Kind: CommandAttackMove, Point: p} }

// Patrol returns a Patrol command.
func Patrol(p fixed.Vec2) Command { return Command{Kind: CommandPatrol, Point: p} }

// Attack returns an Attack command targeting the given entity.
func Attack(target EntityId) Command { return Command{Kind: CommandAttack, Target: target} }

// CommandQueue is a per-entity FIFO of orders; the front is the active
// command.
type CommandQueue struct {
	items []Command
}

// NewCommandQueue returns an empty queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Set replaces the entire queue with a single command.
func (q *CommandQueue) Set(c Command) {
	q.items = q.items[:0]
	q.items = append(q.items, c)
}

// Push appends a command to the back of the queue.
func (q *CommandQueue) Push(c Command) {
	q.items = append(q.items, c)
}

// Current returns the head command and whether one exists.
func (q *CommandQueue) Current() (Command, bool) {
	if len(q.items) == 0 {
		return Command{}, false
	}
	return q.items[0], true
}

// Pop removes the head command, if any.
func (q *CommandQueue) Pop() {
	if len(q.items) == 0 {
		return
	}
	q.items = q.items[1:]
}

// IsEmpty reports whether the queue has no commands.
func (q *CommandQueue) IsEmpty() bool {
	return len(q.items) == 0
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int {
	return len(q.items)
}

// PatrolState tracks the two endpoints of a patrol order and which one
// the unit is currently heading toward.
type PatrolState struct {
	Origin          fixed.Vec2
	Target          fixed.Vec2
	HeadingToTarget bool
}
