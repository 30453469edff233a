package people

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Batcher collects requests over a time window and executes them in batches.
// Overlapping requests ([a,b,c], [a,d], [b,e]) collapse into one fetch of [a,b,c,d,e].
type Batcher[V any] struct {
	name     string
	batchFn  func(ctx context.Context, keys []string) map[string]V
	window   time.Duration
	maxBatch int
	timeout  time.Duration

	mu       sync.Mutex
	pending  map[string][]*batchWaiter[V]
	timer    *time.Timer
	timerSet bool
}

type batchWaiter[V any] struct {
	keys   []string
	result chan map[string]V
}

// NewBatcher creates a batcher. maxBatch 0 means unlimited; timeout bounds each batch call.
func NewBatcher[V any](name string, batchFn func(ctx context.Context, keys []string) map[string]V, window time.Duration, maxBatch int, timeout time.Duration) *Batcher[V] {
	return &Batcher[V]{
		name:     name,
		batchFn:  batchFn,
		window:   window,
		maxBatch: maxBatch,
		timeout:  timeout,
		pending:  make(map[string][]*batchWaiter[V]),
	}
}

// GetMultiple fetches keys together with other concurrent requests.
// Returns early with ctx.Err() if the caller gives up before the batch lands.
func (b *Batcher[V]) GetMultiple(ctx context.Context, keys []string) (map[string]V, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	waiter := &batchWaiter[V]{
		keys:   keys,
		result: make(chan map[string]V, 1),
	}

	b.mu.Lock()
	for _, key := range keys {
		b.pending[key] = append(b.pending[key], waiter)
	}
	if !b.timerSet {
		b.timerSet = true
		b.timer = time.AfterFunc(b.window, b.executeBatch)
	}
	if b.maxBatch > 0 && len(b.pending) >= b.maxBatch {
		b.timer.Stop()
		b.mu.Unlock()
		go b.executeBatch()
	} else {
		b.mu.Unlock()
	}

	select {
	case result := <-waiter.result:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// executeBatch runs the batch function and distributes results to waiters.
func (b *Batcher[V]) executeBatch() {
	b.mu.Lock()
	keys := make([]string, 0, len(b.pending))
	waiterSet := make(map[*batchWaiter[V]]bool)
	for key, waiters := range b.pending {
		keys = append(keys, key)
		for _, w := range waiters {
			waiterSet[w] = true
		}
	}
	b.pending = make(map[string][]*batchWaiter[V])
	b.timerSet = false
	b.mu.Unlock()

	if len(keys) == 0 {
		return
	}

	slog.Debug("batcher: executing batch", "name", b.name, "keys", len(keys), "waiters", len(waiterSet))

	// The batch outlives any single waiter, so it runs on its own deadline
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	results := b.batchFn(ctx, keys)

	for waiter := range waiterSet {
		waiterResult := make(map[string]V, len(waiter.keys))
		for _, key := range waiter.keys {
			if val, ok := results[key]; ok {
				waiterResult[key] = val
			}
		}
		waiter.result <- waiterResult
	}
}

// Stats returns pending keys and waiters
func (b *Batcher[V]) Stats() (pendingKeys int, pendingWaiters int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	waiterSet := make(map[*batchWaiter[V]]bool)
	for _, waiters := range b.pending {
		for _, w := range waiters {
			waiterSet[w] = true
		}
	}
	return len(b.pending), len(waiterSet)
}
