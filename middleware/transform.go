package middleware

import (
	"context"

	"github.com/dshills/eventbus"
)

// TransformFunc produces a new event value from an existing one.
// Implementations must not mutate the input; derive copies via
// Event.Clone or Event.WithMeta.
type TransformFunc func(event *eventbus.Event) *eventbus.Event

// Transform returns a middleware that applies fn and passes the
// transformed event down the chain. The transformed event, not the
// original, is what later middleware and the handlers receive. A nil
// result from fn keeps the original event.
func Transform(fn TransformFunc) eventbus.Middleware {
	return eventbus.MiddlewareFunc(func(ctx context.Context, event *eventbus.Event, next eventbus.Next) error {
		transformed := fn(event)
		if transformed == nil {
			transformed = event
		}
		return next(ctx, transformed)
	})
}
