package components

import "testing"

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	s := NewStore()
	a := s.Insert(NewEntity(0))
	b := s.Insert(NewEntity(0))
	c := s.Insert(NewEntity(0))

	if a != 1 || b != 2 || c != 3 {
		t.Errorf("expected IDs 1,2,3, got %d,%d,%d", a, b, c)
	}
}

func TestZeroNeverAssigned(t *testing.T) {
	s := NewStore()
	id := s.Insert(NewEntity(0))
	if id == Unset {
		t.Error("first assigned ID must not be the Unset sentinel")
	}
}

func TestRemoveAndContains(t *testing.T) {
	s := NewStore()
	id := s.Insert(NewEntity(0))
	if !s.Contains(id) {
		t.Fatal("expected store to contain freshly inserted entity")
	}
	s.Remove(id)
	if s.Contains(id) {
		t.Error("expected entity to be gone after Remove")
	}
	if s.Get(id) != nil {
		t.Error("expected Get to return nil after Remove")
	}
}

func TestIDsNeverReused(t *testing.T) {
	s := NewStore()
	first := s.Insert(NewEntity(0))
	s.Remove(first)
	second := s.Insert(NewEntity(0))
	if second == first {
		t.Errorf("expected a fresh ID after removal, got reused %d", first)
	}
}

func TestSortedIDsAscending(t *testing.T) {
	s := NewStore()
	for i := 0; i < 20; i++ {
		s.Insert(NewEntity(0))
	}
	// Remove a few out of order to ensure sorting isn't relying on
	// insertion order surviving deletions.
	s.Remove(5)
	s.Remove(12)
	s.Remove(3)

	ids := s.SortedIDs()
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("IDs not strictly ascending at index %d: %v", i, ids)
		}
	}
	if len(ids) != 17 {
		t.Errorf("expected 17 remaining entities, got %d", len(ids))
	}
}

func TestLenAndIsEmpty(t *testing.T) {
	s := NewStore()
	if !s.IsEmpty() {
		t.Error("expected new store to be empty")
	}
	s.Insert(NewEntity(0))
	if s.IsEmpty() || s.Len() != 1 {
		t.Errorf("expected len 1, got %d", s.Len())
	}
}

func TestNextIDRoundTrip(t *testing.T) {
	s := NewStore()
	s.Insert(NewEntity(0))
	s.Insert(NewEntity(0))
	next := s.NextID()

	restored := NewStore()
	restored.SetNextID(next)
	id := restored.Insert(NewEntity(0))
	if id != next {
		t.Errorf("expected restored allocator to continue from %d, got %d", next, id)
	}
}
