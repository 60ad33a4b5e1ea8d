package batcher

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultSize     = 64
	defaultInterval = 500 * time.Millisecond
)

// ErrClosed is returned by Push once Run has returned.
var ErrClosed = errors.New("batcher: closed")

// Batcher groups pushed items into batches and hands them to a Consumer from
// a single goroutine, so batches arrive in push order.
//
// Behavior:
//   - Push never blocks on the Consumer.
//   - A batch is flushed when it reaches Config.Size, when Config.Interval
//     elapses, or when Run's context is cancelled.
//   - Items pushed before Run returns are always handed to the Consumer.
type Batcher[T any] struct {
	cons   Consumer[T]
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	current []T
	full    [][]T
	closed  bool
	wake    chan struct{}
}

// New creates a Batcher for type T.
func New[T any](cons Consumer[T], cfg Config, logger *zap.Logger) *Batcher[T] {
	if cfg.Size <= 0 {
		cfg.Size = defaultSize
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Batcher[T]{
		cons:    cons,
		cfg:     cfg,
		logger:  logger,
		current: make([]T, 0, cfg.Size),
		wake:    make(chan struct{}, 1),
	}
}

// Push adds an item to the current batch.
func (b *Batcher[T]) Push(item T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.current = append(b.current, item)
	if len(b.current) >= b.cfg.Size {
		b.full = append(b.full, b.current)
		b.current = make([]T, 0, b.cfg.Size)

		select {
		case b.wake <- struct{}{}:
		default:
		}
	}
	return nil
}

// Run consumes batches until ctx is cancelled, then flushes what is left and returns.
func (b *Batcher[T]) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.wake:
			b.consume(ctx, b.take(false))
		case <-ticker.C:
			b.consume(ctx, b.take(true))
		case <-ctx.Done():
			b.mu.Lock()
			b.closed = true
			b.mu.Unlock()

			// ctx is already done; the final flush gets its own deadline.
			flushCtx, cancel := context.WithTimeout(context.Background(), b.cfg.Interval*4)
			b.consume(flushCtx, b.take(true))
			cancel()
			return nil
		}
	}
}

// take removes the full batches and, if partial is set, the current one.
func (b *Batcher[T]) take(partial bool) [][]T {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.full
	b.full = nil
	if partial && len(b.current) > 0 {
		out = append(out, b.current)
		b.current = make([]T, 0, b.cfg.Size)
	}
	return out
}

func (b *Batcher[T]) consume(ctx context.Context, batches [][]T) {
	for _, batch := range batches {
		if err := b.cons.Consume(ctx, batch); err != nil {
			b.logger.Warn("batch dropped", zap.Int("size", len(batch)), zap.Error(err))
		}
	}
}
