package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/eventbus"
)

// FlushFunc receives a completed batch of events.
type FlushFunc func(events []*eventbus.Event)

// batcher accumulates events into a private buffer and flushes when the
// buffer reaches its size cap or when the timeout since the first buffered
// event elapses, whichever happens first. Batching is an observational
// side channel: every event still proceeds down the chain individually.
type batcher struct {
	mu      sync.Mutex
	size    int
	timeout time.Duration
	flush   FlushFunc
	buf     []*eventbus.Event
	timer   *time.Timer
}

// Process implements eventbus.Middleware.
func (b *batcher) Process(ctx context.Context, event *eventbus.Event, next eventbus.Next) error {
	b.add(event)
	return next(ctx, event)
}

func (b *batcher) add(event *eventbus.Event) {
	b.mu.Lock()

	b.buf = append(b.buf, event)
	if len(b.buf) == 1 {
		b.timer = time.AfterFunc(b.timeout, b.flushExpired)
	}

	if len(b.buf) >= b.size {
		batch := b.takeLocked()
		b.mu.Unlock()
		b.deliver(batch)
		return
	}

	b.mu.Unlock()
}

// flushExpired runs when the timeout since the first buffered event elapses.
func (b *batcher) flushExpired() {
	b.mu.Lock()
	batch := b.takeLocked()
	b.mu.Unlock()

	b.deliver(batch)
}

// takeLocked detaches the current buffer and stops the pending timer.
// Callers must hold b.mu.
func (b *batcher) takeLocked() []*eventbus.Event {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	batch := b.buf
	b.buf = nil
	return batch
}

// deliver hands a batch to the flush callback outside the lock.
func (b *batcher) deliver(batch []*eventbus.Event) {
	if len(batch) == 0 || b.flush == nil {
		return
	}
	b.flush(batch)
}

// Batch returns a middleware that groups events and hands each completed
// group to flush. A group completes when batchSize events have accumulated
// or batchTimeout has elapsed since the group's first event. Events are
// never delayed or gated by batching; next is always called immediately.
func Batch(batchSize int, batchTimeout time.Duration, flush FlushFunc) eventbus.Middleware {
	if batchSize < 1 {
		batchSize = 1
	}
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	return &batcher{
		size:    batchSize,
		timeout: batchTimeout,
		flush:   flush,
	}
}
