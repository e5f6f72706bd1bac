package object

import (
	"sync"
	"testing"

	"go.uber.org/zap"
)

type fakeSprite struct {
	id   ID
	name string
}

func (s *fakeSprite) ObjectID() ID { return s.id }
func (s *fakeSprite) SetObjectID(id ID) { s.id = id }

type fakeDoor struct {
	id ID
}

func (d *fakeDoor) ObjectID() ID { return d.id }
func (d *fakeDoor) SetObjectID(id ID) { d.id = id }

func TestAllocateIDSequence(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	for want := ID(1); want <= 5; want++ {
		s := &fakeSprite{}
		got := r.AllocateID(s)
		if got != want {
			t.Fatalf("expected id %d, got %d", want, got)
		}
		if s.ObjectID() != want {
			t.Fatalf("expected object to carry id %d, got %d", want, s.ObjectID())
		}
	}
}

func TestAllocateIDConcurrent(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	const n = 200
	var wg sync.WaitGroup
	ids := make(chan ID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- r.AllocateID(&fakeSprite{})
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[ID]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d allocated twice", id)
		}
		seen[id] = true
		if id < 1 || id > n {
			t.Fatalf("id %d outside expected range 1..%d", id, n)
		}
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
}

func TestAddRejectsUnallocatedIDs(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.AllocateID(&fakeSprite{}) // nextID is now 2

	cases := []struct {
		name string
		id   ID
	}{
		{"zero id", 0},
		{"negative id", -3},
		{"next unallocated", 2},
		{"far future", 99},
	}
	for _, tc := range cases {
		s := &fakeSprite{}
		s.id = tc.id
		if r.Add(s) {
			t.Errorf("%s: expected add to fail for id %d", tc.name, tc.id)
		}
		if r.Len() != 0 {
			t.Errorf("%s: registry mutated on failed add", tc.name)
		}
	}
}

func TestAddRejectsNilAndDuplicate(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	if r.Add(nil) {
		t.Fatalf("expected add of nil object to fail")
	}

	a := &fakeSprite{name: "a"}
	r.AllocateID(a)
	if !r.Add(a) {
		t.Fatalf("expected add to succeed")
	}
	// Re-adding the same object is harmless.
	if !r.Add(a) {
		t.Fatalf("expected re-add of same object to succeed")
	}

	b := &fakeSprite{name: "b"}
	b.id = a.id
	if r.Add(b) {
		t.Fatalf("expected add of different object under a taken id to fail")
	}
	got, _ := Get[*fakeSprite](r, a.id)
	if got != a {
		t.Fatalf("failed add replaced the stored object")
	}
}

func TestRemoveInvalidatesOnlyThatID(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	sprites := make([]*fakeSprite, 3)
	for i := range sprites {
		sprites[i] = &fakeSprite{}
		r.AllocateID(sprites[i])
		r.Add(sprites[i])
	}

	r.Remove(sprites[1].id)

	if _, ok := r.Lookup(sprites[1].id); ok {
		t.Fatalf("expected removed id to resolve to nothing")
	}
	if r.IsValid(sprites[1].id) {
		t.Fatalf("expected removed id to be invalid")
	}
	for _, i := range []int{0, 2} {
		if got, ok := Get[*fakeSprite](r, sprites[i].id); !ok || got != sprites[i] {
			t.Fatalf("unrelated id %d affected by removal", sprites[i].id)
		}
	}

	// Removing again is a logged no-op.
	r.Remove(sprites[1].id)
}

func TestGetWrongKind(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	s := &fakeSprite{}
	r.AllocateID(s)
	r.Add(s)

	if _, ok := Get[*fakeDoor](r, s.id); ok {
		t.Fatalf("expected lookup with mismatched kind to report not found")
	}
	if got, ok := Get[*fakeSprite](r, s.id); !ok || got != s {
		t.Fatalf("expected lookup with matching kind to succeed")
	}
}

func TestIsValidBounds(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	if r.IsValid(0) || r.IsValid(1) || r.IsValid(-1) {
		t.Fatalf("no id should be valid before any allocation")
	}
	s := &fakeSprite{}
	r.AllocateID(s)
	if r.IsValid(1) {
		t.Fatalf("allocated but unstored id must not be valid")
	}
	r.Add(s)
	if !r.IsValid(1) {
		t.Fatalf("expected id 1 to be valid once stored")
	}
	if r.IsValid(2) {
		t.Fatalf("next unallocated id must not be valid")
	}
}
