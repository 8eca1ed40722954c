package eventbus

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Next continues the middleware chain with the given event. The event passed
// to Next is the event downstream middleware and handlers receive, so a
// middleware may substitute a transformed copy.
type Next func(ctx context.Context, event *Event) error

// Middleware intercepts an event on its way to the handlers. It may perform
// work before and after next, replace the event passed downstream, translate
// errors, or omit the next call entirely to stop propagation (which is not
// an error).
type Middleware interface {
	// Process handles one event. Calling next more than once is a misuse;
	// the chain ignores every call after the first.
	Process(ctx context.Context, event *Event, next Next) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx context.Context, event *Event, next Next) error

// Process implements the Middleware interface.
func (f MiddlewareFunc) Process(ctx context.Context, event *Event, next Next) error {
	return f(ctx, event, next)
}

// MiddlewareRegistration is the removal capability returned by Use.
// Function values are not identity-comparable in Go, so removal goes
// through the registration token instead of the middleware itself,
// mirroring how Subscription revokes a handler.
type MiddlewareRegistration struct {
	id string
	mw Middleware
}

// chain is the ordered middleware pipeline. Installation order is onion
// order: the first-installed middleware runs first and wraps everything
// after it.
type chain struct {
	mu      sync.RWMutex
	entries []*MiddlewareRegistration
}

// newChain creates an empty middleware chain.
func newChain() *chain {
	return &chain{}
}

// use appends a middleware to the end of the chain.
func (c *chain) use(m Middleware) *MiddlewareRegistration {
	reg := &MiddlewareRegistration{
		id: uuid.NewString(),
		mw: m,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, reg)
	return reg
}

// remove deletes a registration from the chain. Returns false if the
// registration is unknown (already removed or foreign).
func (c *chain) remove(reg *MiddlewareRegistration) bool {
	if reg == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, entry := range c.entries {
		if entry.id == reg.id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// len returns the number of installed middlewares.
func (c *chain) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// run threads an event through the chain and finally through terminal,
// the stage below the chain (handler fan-out). The chain is walked by
// index; each level's continuation fires at most once, so a middleware
// calling next twice re-enters nothing.
//
// A middleware that never calls its continuation stops propagation
// silently: run returns nil and terminal never executes.
func (c *chain) run(ctx context.Context, event *Event, terminal Next) error {
	c.mu.RLock()
	entries := make([]*MiddlewareRegistration, len(c.entries))
	copy(entries, c.entries)
	c.mu.RUnlock()

	var step func(i int, ctx context.Context, event *Event) error
	step = func(i int, ctx context.Context, event *Event) error {
		if i == len(entries) {
			return terminal(ctx, event)
		}

		var called atomic.Bool
		next := func(ctx context.Context, event *Event) error {
			if !called.CompareAndSwap(false, true) {
				return nil
			}
			return step(i+1, ctx, event)
		}
		return entries[i].mw.Process(ctx, event, next)
	}

	return step(0, ctx, event)
}
