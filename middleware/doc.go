// Package middleware provides the built-in middleware for the event bus.
//
// Each factory returns an eventbus.Middleware; all are independently usable
// and composable, applied in the order they are installed:
//
//	bus := eventbus.NewBus(eventbus.WithMiddleware(
//	    middleware.Logging(logger),
//	    middleware.ErrorHandling(),
//	    middleware.RateLimit(100),
//	))
//
// Logging, Performance, and Batch only observe: they never fail an event.
// Validation, RateLimit, and Filter gate the chain: validation and rate
// limiting fail it with typed errors, while Filter drops events silently
// (dropping is not an error). Transform replaces the event passed
// downstream; the transformed event, not the original, is what later
// middleware and the handlers receive.
package middleware
