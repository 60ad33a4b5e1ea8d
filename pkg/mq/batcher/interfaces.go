package batcher

import (
	"context"
	"time"
)

// Consumer is the interface that must be implemented by users of the Batcher.
// It is responsible for processing a batch of items.
type Consumer[T any] interface {
	// Consume processes a batch of items in push order.
	// A returned error is logged and the batch is dropped.
	Consume(ctx context.Context, batch []T) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc[T any] func(ctx context.Context, batch []T) error

func (f ConsumerFunc[T]) Consume(ctx context.Context, batch []T) error { return f(ctx, batch) }

// Config holds configuration for the Batcher.
type Config struct {
	// Size is the number of items that triggers a flush.
	Size int

	// Interval flushes a partial batch after this long.
	Interval time.Duration
}
