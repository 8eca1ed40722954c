package eventbus

import (
	"sync"
	"time"
)

// Stats is a point-in-time snapshot of bus statistics. It is a deep copy;
// mutating it never affects live bus state.
type Stats struct {
	// TotalEventsEmitted is the number of successful emissions.
	TotalEventsEmitted uint64

	// ActiveSubscriptions is the current number of live subscriptions.
	ActiveSubscriptions int

	// MiddlewareCount is the number of installed middlewares.
	MiddlewareCount int

	// EventTypes lists every event type seen so far, in first-seen order.
	EventTypes []string

	// Errors is the append-only record of every error raised during emit.
	Errors []ErrorRecord
}

// ErrorRecord is one entry in the bus error log.
type ErrorRecord struct {
	// Timestamp is when the error was recorded.
	Timestamp time.Time

	// EventType is the type of the event involved, if known.
	EventType string

	// Err is the recorded error.
	Err error
}

// statsCollector accumulates counters mutated only by the bus.
type statsCollector struct {
	mu           sync.Mutex
	totalEmitted uint64
	eventTypes   []string
	typesSeen    map[string]struct{}
	errors       []ErrorRecord
}

// newStatsCollector creates an empty collector.
func newStatsCollector() *statsCollector {
	return &statsCollector{
		typesSeen: make(map[string]struct{}),
	}
}

// recordEmit counts one successful emission and tracks first-seen types.
func (c *statsCollector) recordEmit(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalEmitted++
	if _, seen := c.typesSeen[eventType]; !seen {
		c.typesSeen[eventType] = struct{}{}
		c.eventTypes = append(c.eventTypes, eventType)
	}
}

// recordError appends one error to the log.
func (c *statsCollector) recordError(eventType string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = append(c.errors, ErrorRecord{
		Timestamp: time.Now(),
		EventType: eventType,
		Err:       err,
	})
}

// snapshot returns a deep copy of the counters combined with the live
// subscription and middleware counts supplied by the bus.
func (c *statsCollector) snapshot(activeSubscriptions, middlewareCount int) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	types := make([]string, len(c.eventTypes))
	copy(types, c.eventTypes)

	errs := make([]ErrorRecord, len(c.errors))
	copy(errs, c.errors)

	return Stats{
		TotalEventsEmitted:  c.totalEmitted,
		ActiveSubscriptions: activeSubscriptions,
		MiddlewareCount:     middlewareCount,
		EventTypes:          types,
		Errors:              errs,
	}
}

// reset zeroes all counters and logs.
func (c *statsCollector) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalEmitted = 0
	c.eventTypes = nil
	c.typesSeen = make(map[string]struct{})
	c.errors = nil
}
