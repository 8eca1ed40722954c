// Package eventbus provides a typed, in-process publish/subscribe event bus
// with pluggable middleware, per-type validation, and subscription lifecycle
// management.
//
// # Architecture
//
// An emission flows through an ordered pipeline:
//
//	Emit(event)
//	   │
//	   ▼
//	┌──────────────────────────────────────────────┐
//	│ built-in validation (type/timestamp/source)  │
//	│ custom validator for the event type          │
//	│ middleware chain (onion, installation order) │
//	│ handler fan-out (concurrent, join semantics) │
//	│ statistics update                            │
//	└──────────────────────────────────────────────┘
//
// Middleware forms an onion around dispatch: the first-installed middleware
// runs first and wraps everything after it, so its pre-next code executes
// first and its post-next code executes last. A middleware may replace the
// event it passes downstream, translate errors, or drop the event by not
// calling next at all.
//
// Handler fan-out starts every matching handler together and waits for all
// of them. One handler's failure never prevents its siblings from running;
// all failures are aggregated into the single error Emit returns.
//
// # Basic Usage
//
//	bus := eventbus.NewBus(eventbus.WithMaxListeners(10))
//
//	sub, err := bus.SubscribeFunc("doc.saved", func(ctx context.Context, e *eventbus.Event) error {
//	    fmt.Println("saved:", e.Source)
//	    return nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sub.Unsubscribe()
//
//	evt := eventbus.NewEvent("doc.saved", "editor", nil)
//	if err := bus.Emit(context.Background(), evt); err != nil {
//	    log.Printf("emit failed: %v", err)
//	}
//
// # Subscription Options
//
//   - WithOnce: the handler fires at most once, then unsubscribes itself.
//   - WithTimeout: the handler races a deadline; on expiry that handler's
//     result is a HandlerTimeoutError while siblings are unaffected.
//   - WithFilter: a predicate gating delivery to this subscription only.
//
// # Error Taxonomy
//
// Every failing Emit returns an EmitError wrapping the original cause:
// ValidationError, MiddlewareError, HandlerError, HandlerTimeoutError,
// PanicError, or RateLimitError. Use errors.As or the sentinel errors
// (ErrInvalidEvent, ErrHandlerTimeout, ErrRateLimited, ...) to classify.
// Subscribe returns MaxListenersError when a type's handler set is full.
// Nothing is retried automatically; retry policy belongs to the caller.
//
// # Thread Safety
//
// The Bus and all public types are safe for concurrent use. Subscriptions
// can be added and removed while events are being emitted. Per-emission
// ordering is guaranteed (middleware in installation order, then fan-out);
// ordering across concurrent Emit calls is not.
//
// # Subpackages
//
//   - middleware: built-in logging, error-handling, validation, performance,
//     rate-limiting, transform, filter, and batch middleware
//   - config: koanf-based configuration loading (YAML file + environment)
//   - metrics: a Prometheus collector over bus statistics
package eventbus
