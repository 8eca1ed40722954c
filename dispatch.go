package eventbus

import (
	"context"
	"runtime/debug"
	"time"
)

// invoke runs one subscription's handler with panic recovery, applying the
// subscription timeout when configured. On timeout the bus stops waiting:
// the handler goroutine keeps running with a cancelled context, and its
// eventual result is discarded.
func invoke(ctx context.Context, event *Event, sub *subscription) error {
	if sub.config.Timeout <= 0 {
		return safeHandle(ctx, event, sub)
	}

	ctx, cancel := context.WithTimeout(ctx, sub.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- safeHandle(ctx, event, sub)
	}()

	timer := time.NewTimer(sub.config.Timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return &HandlerTimeoutError{
			SubscriptionID: sub.id,
			EventType:      sub.eventType,
			Timeout:        sub.config.Timeout,
		}
	}
}

// safeHandle executes the handler, converting a panic into a PanicError so
// one misbehaving handler cannot take down its siblings or the emitter.
func safeHandle(ctx context.Context, event *Event, sub *subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				SubscriptionID: sub.id,
				EventType:      sub.eventType,
				Value:          r,
				Stack:          string(debug.Stack()),
			}
		}
	}()

	return sub.handler.Handle(ctx, event)
}
