package middleware

import (
	"context"

	"github.com/dshills/eventbus"
)

// Validation returns a middleware that performs the same structural check
// the bus applies when built-in validation is enabled. It exists so the
// check can be composed into a chain independently of the bus
// configuration. Invalid events fail the chain with a ValidationError
// carrying every problem found.
func Validation() eventbus.Middleware {
	return eventbus.MiddlewareFunc(func(ctx context.Context, event *eventbus.Event, next eventbus.Next) error {
		if problems := event.Validate(); len(problems) > 0 {
			return &eventbus.ValidationError{EventType: event.Type, Problems: problems}
		}
		return next(ctx, event)
	})
}
