package events

import (
	"context"

	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
	"github.com/huynhanx03/token-dispenser/pkg/mq/batcher"
)

// Publisher batches dispenser events and hands them to a sink.
// Register it with dispenser.WithObserver and run it with Run.
type Publisher struct {
	batcher *batcher.Batcher[Message]
}

var _ dispenser.Observer = (*Publisher)(nil)

func NewPublisher(b *batcher.Batcher[Message]) *Publisher {
	return &Publisher{batcher: b}
}

// Observe implements dispenser.Observer.
func (p *Publisher) Observe(_ context.Context, ev dispenser.Event) error {
	return p.batcher.Push(FromEvent(ev))
}

// Run delivers batches until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	return p.batcher.Run(ctx)
}
