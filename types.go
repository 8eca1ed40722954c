package eventbus

import "context"

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event. It may block; the bus waits for all
	// handlers of an emission to finish before Emit returns.
	Handle(ctx context.Context, event *Event) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event, false to filter it out.
type FilterFunc func(event *Event) bool

// ValidationResult is the outcome of a custom validator.
type ValidationResult struct {
	// Valid is true when the event passed validation.
	Valid bool

	// Errors is the ordered list of validation failures.
	Errors []string
}

// Validator validates events of a single type before dispatch.
type Validator interface {
	// Validate checks an event and reports the result.
	Validate(event *Event) ValidationResult
}

// ValidatorFunc is a function adapter for Validator.
type ValidatorFunc func(event *Event) ValidationResult

// Validate implements the Validator interface.
func (f ValidatorFunc) Validate(event *Event) ValidationResult {
	return f(event)
}
