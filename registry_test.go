package eventbus

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func nopHandler() Handler {
	return HandlerFunc(func(ctx context.Context, event *Event) error {
		return nil
	})
}

func TestRegistry_AddRemove(t *testing.T) {
	r := newRegistry(10)

	sub := newSubscription(r, "doc.saved", nopHandler())
	if err := r.add(sub); err != nil {
		t.Fatalf("add() failed: %v", err)
	}

	if r.count() != 1 {
		t.Errorf("count() = %d, want 1", r.count())
	}
	if r.countByType("doc.saved") != 1 {
		t.Errorf("countByType() = %d, want 1", r.countByType("doc.saved"))
	}

	if !r.remove(sub.id) {
		t.Error("remove() = false for known subscription")
	}
	if r.count() != 0 {
		t.Errorf("count() = %d after remove, want 0", r.count())
	}
	if sub.IsActive() {
		t.Error("expected subscription to be inactive after removal")
	}

	// Second removal is a no-op.
	if r.remove(sub.id) {
		t.Error("remove() = true for already-removed subscription")
	}
}

func TestRegistry_MaxListeners(t *testing.T) {
	const limit = 3
	r := newRegistry(limit)

	for i := 0; i < limit; i++ {
		if err := r.add(newSubscription(r, "doc.saved", nopHandler())); err != nil {
			t.Fatalf("add() #%d failed: %v", i+1, err)
		}
	}

	err := r.add(newSubscription(r, "doc.saved", nopHandler()))
	if err == nil {
		t.Fatal("expected capacity error on subscription beyond the cap")
	}
	if !errors.Is(err, ErrMaxListeners) {
		t.Errorf("expected ErrMaxListeners, got %v", err)
	}

	// Other event types are unaffected by one type's full set.
	if err := r.add(newSubscription(r, "doc.opened", nopHandler())); err != nil {
		t.Errorf("add() for different type failed: %v", err)
	}
}

func TestRegistry_Matching(t *testing.T) {
	r := newRegistry(10)

	for i := 0; i < 3; i++ {
		if err := r.add(newSubscription(r, "doc.saved", nopHandler())); err != nil {
			t.Fatalf("add() failed: %v", err)
		}
	}
	if err := r.add(newSubscription(r, "doc.opened", nopHandler())); err != nil {
		t.Fatalf("add() failed: %v", err)
	}

	matched := r.matching("doc.saved")
	if len(matched) != 3 {
		t.Errorf("matching() returned %d subscriptions, want 3", len(matched))
	}
	if r.matching("doc.closed") != nil {
		t.Error("matching() for unknown type should return nil")
	}
}

func TestRegistry_MatchingReturnsCopy(t *testing.T) {
	r := newRegistry(10)
	sub := newSubscription(r, "doc.saved", nopHandler())
	if err := r.add(sub); err != nil {
		t.Fatalf("add() failed: %v", err)
	}

	matched := r.matching("doc.saved")
	matched[0] = nil

	if got := r.matching("doc.saved"); got[0] == nil {
		t.Error("mutating the matched slice corrupted registry state")
	}
}

func TestRegistry_RemoveLastDeletesTypeEntry(t *testing.T) {
	r := newRegistry(10)
	sub := newSubscription(r, "doc.saved", nopHandler())
	if err := r.add(sub); err != nil {
		t.Fatalf("add() failed: %v", err)
	}

	r.remove(sub.id)

	r.mu.RLock()
	_, exists := r.subs["doc.saved"]
	r.mu.RUnlock()
	if exists {
		t.Error("expected empty type entry to be deleted")
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := newRegistry(10)

	var subs []*subscription
	for i := 0; i < 5; i++ {
		sub := newSubscription(r, fmt.Sprintf("type.%d", i), nopHandler())
		if err := r.add(sub); err != nil {
			t.Fatalf("add() failed: %v", err)
		}
		subs = append(subs, sub)
	}

	r.clear()

	if r.count() != 0 {
		t.Errorf("count() = %d after clear, want 0", r.count())
	}
	for _, sub := range subs {
		if sub.IsActive() {
			t.Errorf("subscription %s still active after clear", sub.id)
		}
	}
}
