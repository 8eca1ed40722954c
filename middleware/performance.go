package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/eventbus"
)

// DefaultSlowThreshold is the elapsed-time threshold above which
// Performance logs a warning.
const DefaultSlowThreshold = time.Second

// Performance returns a middleware that measures the elapsed time of the
// downstream chain and logs a warning when it exceeds threshold. It only
// observes: slow events are never failed, and downstream errors pass
// through untouched. A threshold <= 0 falls back to DefaultSlowThreshold.
func Performance(logger zerolog.Logger, threshold time.Duration) eventbus.Middleware {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}

	return eventbus.MiddlewareFunc(func(ctx context.Context, event *eventbus.Event, next eventbus.Next) error {
		start := time.Now()
		err := next(ctx, event)
		elapsed := time.Since(start)

		if elapsed > threshold {
			logger.Warn().
				Str("event_type", event.Type).
				Str("event_id", event.ID).
				Dur("elapsed", elapsed).
				Dur("threshold", threshold).
				Msg("slow event processing")
		}

		return err
	})
}
