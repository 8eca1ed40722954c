package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/eventbus"
)

// Logging returns a middleware that records processing-start and
// processing-end debug traces with the elapsed wall-clock duration.
// Downstream failures are logged at error level and returned unchanged.
func Logging(logger zerolog.Logger) eventbus.Middleware {
	return eventbus.MiddlewareFunc(func(ctx context.Context, event *eventbus.Event, next eventbus.Next) error {
		logger.Debug().
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Str("source", event.Source).
			Msg("processing event")

		start := time.Now()
		err := next(ctx, event)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error().
				Err(err).
				Str("event_type", event.Type).
				Str("event_id", event.ID).
				Dur("elapsed", elapsed).
				Msg("event processing failed")
			return err
		}

		logger.Debug().
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Dur("elapsed", elapsed).
			Msg("event processed")
		return nil
	})
}
