package eventbus

import "sync"

// registry manages subscriptions organized by event type.
// It is thread-safe for concurrent access and enforces the per-type
// handler cap atomically with insertion.
type registry struct {
	mu           sync.RWMutex
	subs         map[string][]*subscription
	byID         map[string]*subscription
	maxListeners int
}

// newRegistry creates a new subscription registry with the given
// per-event-type handler cap.
func newRegistry(maxListeners int) *registry {
	return &registry{
		subs:         make(map[string][]*subscription),
		byID:         make(map[string]*subscription),
		maxListeners: maxListeners,
	}
}

// add inserts a subscription, failing with MaxListenersError when the
// handler set for its event type is already at capacity.
func (r *registry) add(sub *subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxListeners > 0 && len(r.subs[sub.eventType]) >= r.maxListeners {
		return &MaxListenersError{EventType: sub.eventType, Limit: r.maxListeners}
	}

	r.subs[sub.eventType] = append(r.subs[sub.eventType], sub)
	r.byID[sub.id] = sub
	return nil
}

// remove deletes a subscription by ID. The last removal for an event type
// deletes the type entry entirely. Returns false if the ID is unknown,
// which makes repeated removal a no-op.
func (r *registry) remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.byID[subID]
	if !exists {
		return false
	}

	subs := r.subs[sub.eventType]
	for i, s := range subs {
		if s.id == subID {
			r.subs[sub.eventType] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[sub.eventType]) == 0 {
		delete(r.subs, sub.eventType)
	}

	delete(r.byID, subID)
	sub.cancel()
	return true
}

// matching returns a copy of the subscriptions for an event type, so the
// caller can iterate without holding the lock.
func (r *registry) matching(eventType string) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.subs[eventType]
	if len(subs) == 0 {
		return nil
	}

	result := make([]*subscription, len(subs))
	copy(result, subs)
	return result
}

// count returns the total number of live subscriptions across all types.
func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// countByType returns the number of subscriptions for one event type.
func (r *registry) countByType(eventType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subs[eventType])
}

// clear removes all subscriptions, cancelling each so outstanding
// Subscription handles report inactive.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.byID {
		sub.cancel()
	}
	r.subs = make(map[string][]*subscription)
	r.byID = make(map[string]*subscription)
}
