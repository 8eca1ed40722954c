package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/eventbus"
)

// rateLimitWindow is the span of the sliding window.
const rateLimitWindow = time.Second

// rateLimiter tracks emission timestamps inside a sliding one-second
// window. State is private to one middleware value; two bus instances
// installing separate RateLimit middlewares never share a window.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	stamps []time.Time
	now    func() time.Time
}

// Process implements eventbus.Middleware.
func (l *rateLimiter) Process(ctx context.Context, event *eventbus.Event, next eventbus.Next) error {
	if err := l.take(); err != nil {
		return err
	}
	return next(ctx, event)
}

// take admits one emission or fails with a RateLimitError. Entries exactly
// one window old are evicted: the window is inclusive at its lower edge
// and exclusive at the upper edge.
func (l *rateLimiter) take() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-rateLimitWindow)

	kept := l.stamps[:0]
	for _, ts := range l.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.stamps = kept

	if len(l.stamps) >= l.limit {
		return &eventbus.RateLimitError{Limit: l.limit}
	}

	l.stamps = append(l.stamps, now)
	return nil
}

// RateLimit returns a middleware that admits at most maxEventsPerSecond
// events through a sliding one-second window, failing the chain with a
// RateLimitError once the window is full.
func RateLimit(maxEventsPerSecond int) eventbus.Middleware {
	if maxEventsPerSecond < 1 {
		maxEventsPerSecond = 1
	}
	return &rateLimiter{
		limit: maxEventsPerSecond,
		now:   time.Now,
	}
}
