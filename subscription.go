package eventbus

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Subscription represents one active handler registration.
// It is a revocation capability handed to the subscriber; the registry
// owns the actual handler storage.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// EventType returns the subscribed event type.
	EventType() string

	// IsActive returns true if the subscription can still receive events.
	IsActive() bool

	// Unsubscribe removes the subscription from the bus.
	// It is safe to call more than once; repeat calls are no-ops.
	Unsubscribe()
}

// SubscribeConfig contains configuration for a subscription.
type SubscribeConfig struct {
	// Once indicates the subscription auto-unsubscribes after its first delivery.
	Once bool

	// Timeout bounds a single handler invocation. Zero means no timeout.
	Timeout time.Duration

	// Filter is an optional predicate; events are only delivered when it
	// returns true.
	Filter FilterFunc
}

// SubscribeOption is a function that configures a subscription.
type SubscribeOption func(*SubscribeConfig)

// WithOnce sets the subscription to auto-unsubscribe after the first delivery.
func WithOnce() SubscribeOption {
	return func(c *SubscribeConfig) {
		c.Once = true
	}
}

// WithTimeout bounds each handler invocation for this subscription.
// If the handler does not finish within d, its result for that emission
// is a HandlerTimeoutError and the bus stops waiting for it.
func WithTimeout(d time.Duration) SubscribeOption {
	return func(c *SubscribeConfig) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// WithFilter sets a delivery predicate for this subscription.
func WithFilter(f FilterFunc) SubscribeOption {
	return func(c *SubscribeConfig) {
		c.Filter = f
	}
}

// subscription is the internal implementation of Subscription.
type subscription struct {
	id        string
	eventType string
	handler   Handler
	config    SubscribeConfig

	// fired gates once-subscriptions: at most one delivery wins the CAS.
	fired atomic.Bool

	// cancelled is set when the subscription is removed from the registry.
	cancelled atomic.Bool

	registry *registry
}

// newSubscription creates a subscription bound to the given registry.
func newSubscription(r *registry, eventType string, h Handler, opts ...SubscribeOption) *subscription {
	var config SubscribeConfig
	for _, opt := range opts {
		opt(&config)
	}

	return &subscription{
		id:        uuid.NewString(),
		eventType: eventType,
		handler:   h,
		config:    config,
		registry:  r,
	}
}

// ID returns the subscription ID.
func (s *subscription) ID() string {
	return s.id
}

// EventType returns the subscribed event type.
func (s *subscription) EventType() string {
	return s.eventType
}

// IsActive returns true if the subscription has not been removed.
func (s *subscription) IsActive() bool {
	return !s.cancelled.Load()
}

// Unsubscribe removes the subscription from the registry. Idempotent.
func (s *subscription) Unsubscribe() {
	s.registry.remove(s.id)
}

// cancel marks the subscription as removed.
func (s *subscription) cancel() {
	s.cancelled.Store(true)
}

// shouldDeliver returns true if an event should be delivered to this
// subscription. For once-subscriptions it also claims the single delivery
// slot, so concurrent emissions can never both invoke the handler.
func (s *subscription) shouldDeliver(event *Event) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(event) {
		return false
	}
	if s.config.Once && !s.fired.CompareAndSwap(false, true) {
		return false
	}
	return true
}
