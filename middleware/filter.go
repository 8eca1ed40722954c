package middleware

import (
	"context"

	"github.com/dshills/eventbus"
)

// Filter returns a middleware that calls next only when pred returns true.
// Otherwise the event is silently dropped from this point in the chain:
// no handlers run, no error is reported, and the emission still counts as
// a success.
func Filter(pred eventbus.FilterFunc) eventbus.Middleware {
	return eventbus.MiddlewareFunc(func(ctx context.Context, event *eventbus.Event, next eventbus.Next) error {
		if !pred(event) {
			return nil
		}
		return next(ctx, event)
	})
}
