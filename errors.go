package eventbus

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the event bus.
var (
	// ErrInvalidEvent is returned when an event is malformed or missing required fields.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrMaxListeners is returned when a subscription would exceed the per-type handler cap.
	ErrMaxListeners = errors.New("max listeners exceeded")

	// ErrHandlerTimeout is returned when a handler exceeds its subscription timeout.
	ErrHandlerTimeout = errors.New("handler timeout exceeded")

	// ErrHandlerPanic is returned when a handler panics.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrRateLimited is returned by the rate-limiting middleware when the window is full.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrNilMiddleware is returned when a nil middleware is installed.
	ErrNilMiddleware = errors.New("middleware cannot be nil")

	// ErrInvalidSubscription is returned when a nil or foreign subscription is passed.
	ErrInvalidSubscription = errors.New("invalid subscription")
)

// ValidationError reports a structural or custom-validator rejection.
// It is raised before any middleware or handler runs.
type ValidationError struct {
	// EventType is the type of the rejected event.
	EventType string

	// Problems is the ordered list of validation failures.
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for event %q: %s", e.EventType, strings.Join(e.Problems, "; "))
}

// Is allows errors.Is to match ValidationError with ErrInvalidEvent.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidEvent
}

// MaxListenersError reports a subscribe-time capacity violation.
type MaxListenersError struct {
	// EventType is the type whose handler set is full.
	EventType string

	// Limit is the configured per-type handler cap.
	Limit int
}

// Error implements the error interface.
func (e *MaxListenersError) Error() string {
	return fmt.Sprintf("cannot subscribe to %q: max listeners (%d) reached", e.EventType, e.Limit)
}

// Is allows errors.Is to match MaxListenersError with ErrMaxListeners.
func (e *MaxListenersError) Is(target error) bool {
	return target == ErrMaxListeners
}

// MiddlewareError wraps a non-bus failure raised inside the middleware chain.
// The original cause is preserved and reachable via Unwrap.
type MiddlewareError struct {
	// EventType is the type of the event being processed.
	EventType string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *MiddlewareError) Error() string {
	return fmt.Sprintf("middleware failed for event %q: %v", e.EventType, e.Err)
}

// Unwrap returns the underlying error.
func (e *MiddlewareError) Unwrap() error {
	return e.Err
}

// HandlerError wraps a handler's failure with subscription context.
type HandlerError struct {
	// SubscriptionID is the ID of the subscription whose handler failed.
	SubscriptionID string

	// EventType is the type the handler was subscribed to.
	EventType string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler error for subscription %s on %q: %v", e.SubscriptionID, e.EventType, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// HandlerTimeoutError reports that a handler exceeded its subscription timeout.
type HandlerTimeoutError struct {
	// SubscriptionID is the ID of the subscription whose handler timed out.
	SubscriptionID string

	// EventType is the type the handler was subscribed to.
	EventType string

	// Timeout is the configured timeout that elapsed.
	Timeout time.Duration
}

// Error implements the error interface.
func (e *HandlerTimeoutError) Error() string {
	return fmt.Sprintf("handler for subscription %s on %q timed out after %s", e.SubscriptionID, e.EventType, e.Timeout)
}

// Is allows errors.Is to match HandlerTimeoutError with ErrHandlerTimeout.
func (e *HandlerTimeoutError) Is(target error) bool {
	return target == ErrHandlerTimeout
}

// PanicError wraps a panic recovered from a handler.
type PanicError struct {
	// SubscriptionID is the ID of the subscription whose handler panicked.
	SubscriptionID string

	// EventType is the type the handler was subscribed to.
	EventType string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for subscription %s on %q: %v", e.SubscriptionID, e.EventType, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

// RateLimitError reports that the rate-limiting middleware rejected an event.
type RateLimitError struct {
	// Limit is the configured events-per-second cap.
	Limit int
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit of %d events/sec exceeded", e.Limit)
}

// Is allows errors.Is to match RateLimitError with ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// EmitError is the umbrella error returned by Emit for any failure during
// the emit pipeline. The original cause is always reachable via Unwrap,
// errors.Is, and errors.As.
type EmitError struct {
	// EventType is the type of the event whose emission failed.
	EventType string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *EmitError) Error() string {
	return fmt.Sprintf("emit failed for event %q: %v", e.EventType, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EmitError) Unwrap() error {
	return e.Err
}

// IsBusError reports whether err belongs to the bus error taxonomy,
// either directly or anywhere in its wrap chain.
func IsBusError(err error) bool {
	if err == nil {
		return false
	}
	var (
		validationErr *ValidationError
		maxListeners  *MaxListenersError
		middlewareErr *MiddlewareError
		handlerErr    *HandlerError
		timeoutErr    *HandlerTimeoutError
		panicErr      *PanicError
		rateLimitErr  *RateLimitError
		emitErr       *EmitError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &maxListeners),
		errors.As(err, &middlewareErr),
		errors.As(err, &handlerErr),
		errors.As(err, &timeoutErr),
		errors.As(err, &panicErr),
		errors.As(err, &rateLimitErr),
		errors.As(err, &emitErr):
		return true
	}
	return errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrMaxListeners) ||
		errors.Is(err, ErrHandlerTimeout) ||
		errors.Is(err, ErrHandlerPanic) ||
		errors.Is(err, ErrRateLimited)
}

// fanoutError marks an aggregate of handler failures whose individual
// errors have already been recorded in stats during fan-out.
type fanoutError struct {
	err error
}

// Error implements the error interface.
func (e *fanoutError) Error() string {
	return e.err.Error()
}

// Unwrap returns the aggregated handler errors.
func (e *fanoutError) Unwrap() error {
	return e.err
}
