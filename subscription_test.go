package eventbus

import (
	"sync"
	"testing"
	"time"
)

func TestSubscribeOptions(t *testing.T) {
	r := newRegistry(10)

	sub := newSubscription(r, "doc.saved", nopHandler(),
		WithOnce(),
		WithTimeout(50*time.Millisecond),
	)

	if !sub.config.Once {
		t.Error("expected Once to be set")
	}
	if sub.config.Timeout != 50*time.Millisecond {
		t.Errorf("Timeout = %v, want 50ms", sub.config.Timeout)
	}
}

func TestWithTimeout_IgnoresNonPositive(t *testing.T) {
	r := newRegistry(10)
	sub := newSubscription(r, "doc.saved", nopHandler(), WithTimeout(-time.Second))

	if sub.config.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", sub.config.Timeout)
	}
}

func TestSubscription_ShouldDeliver(t *testing.T) {
	r := newRegistry(10)
	evt := NewEvent("doc.saved", "test", nil)

	t.Run("active subscription delivers", func(t *testing.T) {
		sub := newSubscription(r, "doc.saved", nopHandler())
		if !sub.shouldDeliver(evt) {
			t.Error("expected delivery to active subscription")
		}
	})

	t.Run("cancelled subscription does not deliver", func(t *testing.T) {
		sub := newSubscription(r, "doc.saved", nopHandler())
		sub.cancel()
		if sub.shouldDeliver(evt) {
			t.Error("expected no delivery to cancelled subscription")
		}
	})

	t.Run("filter gates delivery", func(t *testing.T) {
		sub := newSubscription(r, "doc.saved", nopHandler(), WithFilter(func(e *Event) bool {
			return e.Source == "trusted"
		}))
		if sub.shouldDeliver(evt) {
			t.Error("expected filter to reject event")
		}
		if !sub.shouldDeliver(NewEvent("doc.saved", "trusted", nil)) {
			t.Error("expected filter to accept matching event")
		}
	})
}

func TestSubscription_OnceClaimsSingleDelivery(t *testing.T) {
	r := newRegistry(10)
	sub := newSubscription(r, "doc.saved", nopHandler(), WithOnce())
	evt := NewEvent("doc.saved", "test", nil)

	// Many goroutines race for the single delivery slot; exactly one wins.
	const racers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sub.shouldDeliver(evt) {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	if won != 1 {
		t.Errorf("once subscription delivered %d times, want 1", won)
	}
}

func TestSubscription_Unsubscribe(t *testing.T) {
	r := newRegistry(10)
	sub := newSubscription(r, "doc.saved", nopHandler())
	if err := r.add(sub); err != nil {
		t.Fatalf("add() failed: %v", err)
	}

	if sub.EventType() != "doc.saved" {
		t.Errorf("EventType() = %q", sub.EventType())
	}
	if sub.ID() == "" {
		t.Error("expected non-empty subscription ID")
	}

	sub.Unsubscribe()
	if sub.IsActive() {
		t.Error("expected subscription to be inactive after Unsubscribe")
	}
	if r.count() != 0 {
		t.Errorf("count() = %d, want 0", r.count())
	}

	// Idempotent.
	sub.Unsubscribe()
	if r.count() != 0 {
		t.Errorf("count() = %d after second Unsubscribe, want 0", r.count())
	}
}
