package dispenser

import (
	"context"
	"time"
)

type EventKind string

const (
	EventIssued   EventKind = "issued"
	EventServed   EventKind = "served"
	EventRejected EventKind = "rejected"
)

// Event describes one issue or serve attempt.
// Seq grows by one per state change so observers can drop stale updates;
// rejections carry the Seq of the state they were rejected against.
type Event struct {
	Seq         uint64
	Kind        EventKind
	Token       Token  // zero for rejections
	Reason      error  // ErrQueueFull or ErrQueueEmpty for rejections
	Waiting     []Token
	TotalIssued uint64
	At          time.Time
}

// Observer receives events after the operation has completed, one at a time
// and in Seq order. A returned error is logged and never changes the
// operation's result. Observe must not call back into the Dispenser.
type Observer interface {
	Observe(ctx context.Context, ev Event) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event) error

func (f ObserverFunc) Observe(ctx context.Context, ev Event) error { return f(ctx, ev) }
