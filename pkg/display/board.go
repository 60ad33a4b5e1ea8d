package display

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/huynhanx03/token-dispenser/pkg/common/cache"
	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
)

const (
	KeyNowServing = "dispenser:now_serving"
	KeyWaiting    = "dispenser:waiting"
	ChannelBoard  = "dispenser:board"
)

// Board mirrors the now-serving token and the waiting list into a cache so
// external screens can render them. It is write-only: nothing is read back.
type Board struct {
	cache cache.CacheEngine

	mu      sync.Mutex
	lastSeq uint64
}

var _ dispenser.Observer = (*Board)(nil)

func NewBoard(c cache.CacheEngine) *Board {
	return &Board{cache: c}
}

// Reset clears whatever a previous process left on the board.
func (b *Board) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastSeq = 0
	return errors.Wrap(b.cache.Delete(ctx, KeyNowServing, KeyWaiting), "display: reset")
}

// Observe implements dispenser.Observer. Events older than the last one
// written are skipped so concurrent callers cannot roll the board back.
func (b *Board) Observe(ctx context.Context, ev dispenser.Event) error {
	if ev.Kind == dispenser.EventRejected {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if ev.Seq <= b.lastSeq {
		return nil
	}
	b.lastSeq = ev.Seq

	waiting := make([]string, len(ev.Waiting))
	for i, tok := range ev.Waiting {
		waiting[i] = tok.Label
	}
	if ev.Kind != dispenser.EventServed {
		return errors.Wrap(b.cache.Set(ctx, KeyWaiting, waiting, 0), "display: write waiting list")
	}

	values := map[string]any{
		KeyWaiting:    waiting,
		KeyNowServing: ev.Token.Label,
	}
	if err := b.cache.SetMulti(ctx, values, 0); err != nil {
		return errors.Wrap(err, "display: write board")
	}
	return errors.Wrap(b.cache.Publish(ctx, ChannelBoard, ev.Token.Label), "display: publish")
}
