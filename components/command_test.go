package components

import "testing"

func TestCommandQueueSetReplaces(t *testing.T) {
	q := NewCommandQueue()
	q.Push(Stop())
	q.Push(HoldPosition())
	q.Set(Stop())

	if q.Len() != 1 {
		t.Fatalf("expected Set to replace queue contents, got len %d", q.Len())
	}
	cur, ok := q.Current()
	if !ok || cur.Kind != CommandStop {
		t.Errorf("expected Stop at head, got %+v", cur)
	}
}

func TestCommandQueuePushAppends(t *testing.T) {
	q := NewCommandQueue()
	q.Push(Stop())
	q.Push(HoldPosition())
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued commands, got %d", q.Len())
	}
	cur, _ := q.Current()
	if cur.Kind != CommandStop {
		t.Errorf("expected Stop still at head, got %+v", cur)
	}
}

func TestCommandQueuePop(t *testing.T) {
	q := NewCommandQueue()
	q.Push(Stop())
	q.Push(HoldPosition())
	q.Pop()
	cur, ok := q.Current()
	if !ok || cur.Kind != CommandHoldPosition {
		t.Errorf("expected HoldPosition after pop, got %+v", cur)
	}
}

func TestCommandQueueEmpty(t *testing.T) {
	q := NewCommandQueue()
	if !q.IsEmpty() {
		t.Error("expected new queue to be empty")
	}
	if _, ok := q.Current(); ok {
		t.Error("expected Current to report false on empty queue")
	}
	q.Pop() // must not panic on empty
}

func TestAttackTargetClear(t *testing.T) {
	at := &AttackTarget{Target: EntityId(5)}
	if !at.HasTarget() {
		t.Fatal("expected HasTarget true")
	}
	at.Clear()
	if at.HasTarget() {
		t.Error("expected HasTarget false after Clear")
	}
}
