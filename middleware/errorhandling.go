package middleware

import (
	"context"

	"github.com/dshills/eventbus"
)

// ErrorHandling returns a middleware that normalizes downstream failures:
// errors already belonging to the bus taxonomy pass through unchanged,
// anything else is wrapped as a MiddlewareError with the original cause
// and event type preserved.
func ErrorHandling() eventbus.Middleware {
	return eventbus.MiddlewareFunc(func(ctx context.Context, event *eventbus.Event, next eventbus.Next) error {
		err := next(ctx, event)
		if err == nil {
			return nil
		}
		if eventbus.IsBusError(err) {
			return err
		}
		return &eventbus.MiddlewareError{EventType: event.Type, Err: err}
	})
}
