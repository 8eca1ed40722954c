package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Bus is the central coordination point for validation, middleware,
// handler dispatch, and statistics. All methods are safe for concurrent
// use. Construct isolated instances with NewBus; Default provides the
// process-wide shared handle.
type Bus struct {
	config     busConfig
	registry   *registry
	validators *validatorRegistry
	middleware *chain
	stats      *statsCollector
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...Option) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b := &Bus{
		config:     config,
		registry:   newRegistry(config.maxListeners),
		validators: newValidatorRegistry(),
		middleware: newChain(),
		stats:      newStatsCollector(),
	}

	for _, m := range config.defaultMiddleware {
		if m != nil {
			b.middleware.use(m)
		}
	}

	return b
}

var (
	defaultBus  *Bus
	defaultOnce sync.Once
)

// Default returns the process-wide bus, constructing it with opts on the
// first call. Options passed on later calls are ignored: the first
// configuration wins. Code that needs isolation (tests in particular)
// should construct its own instance with NewBus instead.
func Default(opts ...Option) *Bus {
	defaultOnce.Do(func() {
		defaultBus = NewBus(opts...)
	})
	return defaultBus
}

// Emit sends an event through the pipeline: built-in validation, custom
// validation, the middleware chain, and finally concurrent fan-out to every
// handler registered for the event's type. It blocks until all handlers
// finish.
//
// Emitting a type nobody subscribes to succeeds with zero handlers invoked.
// Every failure is recorded in the stats error log and returned as an
// EmitError wrapping the original cause.
func (b *Bus) Emit(ctx context.Context, event *Event) error {
	if event == nil {
		err := fmt.Errorf("%w: nil event", ErrInvalidEvent)
		b.stats.recordError("", err)
		return &EmitError{Err: err}
	}

	if b.config.validation {
		if problems := event.Validate(); len(problems) > 0 {
			return b.emitFailed(event.Type, &ValidationError{EventType: event.Type, Problems: problems})
		}
	}

	if v, ok := b.validators.get(event.Type); ok {
		if result := v.Validate(event); !result.Valid {
			return b.emitFailed(event.Type, &ValidationError{EventType: event.Type, Problems: result.Errors})
		}
	}

	if b.config.logging {
		b.config.logger.Debug().
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Str("source", event.Source).
			Msg("emitting event")
	}

	start := time.Now()
	err := b.middleware.run(ctx, event, b.fanOut)
	if err != nil {
		var agg *fanoutError
		if errors.As(err, &agg) {
			// Individual handler errors were recorded during fan-out.
			return &EmitError{EventType: event.Type, Err: agg.Unwrap()}
		}
		if !IsBusError(err) {
			err = &MiddlewareError{EventType: event.Type, Err: err}
		}
		return b.emitFailed(event.Type, err)
	}

	b.stats.recordEmit(event.Type)

	if b.config.logging {
		b.config.logger.Debug().
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Dur("elapsed", time.Since(start)).
			Msg("event emitted")
	}

	return nil
}

// emitFailed records an error and wraps it for the caller.
func (b *Bus) emitFailed(eventType string, cause error) error {
	b.stats.recordError(eventType, cause)
	return &EmitError{EventType: eventType, Err: cause}
}

// fanOut is the terminal stage of the middleware chain. It starts every
// matching handler, waits for all of them (join semantics, no
// short-circuiting across siblings), and aggregates their failures.
func (b *Bus) fanOut(ctx context.Context, event *Event) error {
	subs := b.registry.matching(event.Type)
	if len(subs) == 0 {
		return nil
	}

	var g errgroup.Group
	if b.config.fanOutLimit > 0 {
		g.SetLimit(b.config.fanOutLimit)
	}

	failures := make([]error, len(subs))
	for i, sub := range subs {
		if !sub.shouldDeliver(event) {
			continue
		}

		g.Go(func() error {
			err := invoke(ctx, event, sub)

			// Once-subscriptions leave the registry no matter how the
			// single delivery went.
			if sub.config.Once {
				b.registry.remove(sub.id)
			}

			if err != nil {
				herr := wrapHandlerError(sub, err)
				failures[i] = herr
				b.stats.recordError(event.Type, herr)
				return herr
			}
			return nil
		})
	}

	// Wait's first-error result is not enough here; failures holds them all.
	_ = g.Wait()

	var errs []error
	for _, err := range failures {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &fanoutError{err: errors.Join(errs...)}
	}
	return nil
}

// wrapHandlerError normalizes a handler failure. Timeout and panic errors
// already carry subscription context; anything else is wrapped as a
// HandlerError.
func wrapHandlerError(sub *subscription, err error) error {
	var (
		timeoutErr *HandlerTimeoutError
		panicErr   *PanicError
	)
	if errors.As(err, &timeoutErr) || errors.As(err, &panicErr) {
		return err
	}
	return &HandlerError{
		SubscriptionID: sub.id,
		EventType:      sub.eventType,
		Err:            err,
	}
}

// Subscribe registers a handler for an event type. It fails with
// MaxListenersError when the type's handler set is already at the
// configured cap.
func (b *Bus) Subscribe(eventType string, handler Handler, opts ...SubscribeOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if eventType == "" {
		return nil, fmt.Errorf("%w: empty event type", ErrInvalidEvent)
	}

	sub := newSubscription(b.registry, eventType, handler, opts...)
	if err := b.registry.add(sub); err != nil {
		return nil, err
	}

	if b.config.logging {
		b.config.logger.Debug().
			Str("event_type", eventType).
			Str("subscription_id", sub.id).
			Msg("handler subscribed")
	}

	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *Bus) SubscribeFunc(eventType string, fn HandlerFunc, opts ...SubscribeOption) (Subscription, error) {
	return b.Subscribe(eventType, fn, opts...)
}

// Unsubscribe removes a subscription. It is idempotent: removing an
// already-removed (or nil) subscription is a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	if sub == nil {
		return
	}
	sub.Unsubscribe()
}

// Use appends a middleware to the end of the chain. Middleware runs in
// installation order: first installed, outermost. The returned
// registration is the removal capability for RemoveMiddleware.
func (b *Bus) Use(m Middleware) *MiddlewareRegistration {
	if m == nil {
		return nil
	}
	return b.middleware.use(m)
}

// RemoveMiddleware removes a previously installed middleware by its
// registration. It is a no-op if the registration is nil or unknown.
func (b *Bus) RemoveMiddleware(reg *MiddlewareRegistration) bool {
	return b.middleware.remove(reg)
}

// AddValidator registers a custom validator for an event type,
// replacing any previous one (last write wins).
func (b *Bus) AddValidator(eventType string, v Validator) {
	if v == nil {
		return
	}
	b.validators.set(eventType, v)
}

// AddValidatorFunc is a convenience method for registering a function validator.
func (b *Bus) AddValidatorFunc(eventType string, fn ValidatorFunc) {
	b.AddValidator(eventType, fn)
}

// RemoveValidator removes the custom validator for an event type, if any.
func (b *Bus) RemoveValidator(eventType string) {
	b.validators.unset(eventType)
}

// Stats returns a deep-copied snapshot of bus statistics.
func (b *Bus) Stats() Stats {
	return b.stats.snapshot(b.registry.count(), b.middleware.len())
}

// Clear removes all subscriptions and resets statistics. Installed
// middleware survives; MiddlewareCount keeps reflecting the chain.
func (b *Bus) Clear() {
	b.registry.clear()
	b.stats.reset()
}
