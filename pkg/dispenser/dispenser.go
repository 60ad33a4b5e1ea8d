package dispenser

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/huynhanx03/token-dispenser/pkg/datastructs/queue"
	"github.com/huynhanx03/token-dispenser/pkg/settings"
	"github.com/huynhanx03/token-dispenser/pkg/timer"
)

// Dispenser issues tokens into a bounded FIFO waiting list and serves them
// in arrival order. It is safe for concurrent use: every check-then-act
// sequence runs under one mutex.
type Dispenser struct {
	mu       sync.Mutex
	notifyMu sync.Mutex // taken before mu is released so events are delivered in Seq order

	queue   queue.Queue[Token]
	counter Counter
	serving Token
	served  atomic.Uint64
	seq     uint64

	clock     timer.Timer
	logger    *zap.Logger
	observers []Observer
}

// New creates a Dispenser. A non-positive capacity falls back to settings.DefaultCapacity.
func New(cfg settings.Dispenser, opts ...Option) *Dispenser {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = settings.DefaultCapacity
	}

	d := &Dispenser{
		queue:  queue.NewRing[Token](capacity),
		clock:  timer.SystemTimer{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IssueToken hands out the next token and appends it to the waiting list.
// At capacity it returns ErrQueueFull without consuming a label.
func (d *Dispenser) IssueToken(ctx context.Context) (Token, error) {
	d.mu.Lock()
	if d.queue.IsFull() {
		ev := d.rejectedLocked(ErrQueueFull)
		d.logger.Debug("issue rejected", zap.Int("waiting", len(ev.Waiting)))
		d.unlockAndNotify(ctx, ev)
		return Token{}, ErrQueueFull
	}

	n, label := d.counter.NextLabel()
	tok := Token{
		Label:    label,
		Number:   n,
		IssuedAt: d.clock.Now(),
	}
	if err := d.queue.Enqueue(tok); err != nil {
		// Unreachable while the capacity check above holds the same lock.
		d.mu.Unlock()
		return Token{}, errors.Wrap(ErrQueueFull, err.Error())
	}
	ev := d.eventLocked(EventIssued, tok)
	d.logger.Debug("token issued", zap.String("token", tok.Label), zap.Int("waiting", len(ev.Waiting)))
	d.unlockAndNotify(ctx, ev)
	return tok, nil
}

// ServeNext removes the oldest waiting token and marks it as now serving.
// With nobody waiting it returns ErrQueueEmpty and leaves the serving token as is.
func (d *Dispenser) ServeNext(ctx context.Context) (Token, error) {
	d.mu.Lock()
	if d.queue.IsEmpty() {
		ev := d.rejectedLocked(ErrQueueEmpty)
		d.logger.Debug("serve rejected")
		d.unlockAndNotify(ctx, ev)
		return Token{}, ErrQueueEmpty
	}

	tok, err := d.queue.Dequeue()
	if err != nil {
		d.mu.Unlock()
		return Token{}, errors.Wrap(ErrQueueEmpty, err.Error())
	}

	d.serving = tok
	d.served.Inc()
	ev := d.eventLocked(EventServed, tok)
	d.logger.Debug("token served", zap.String("token", tok.Label), zap.Int("waiting", len(ev.Waiting)))
	d.unlockAndNotify(ctx, ev)
	return tok, nil
}

// PeekNext returns the token that ServeNext would return.
func (d *Dispenser) PeekNext() (Token, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tok, err := d.queue.Peek()
	if err != nil {
		return Token{}, ErrQueueEmpty
	}
	return tok, nil
}

// WaitingCount returns the number of issued but unserved tokens.
func (d *Dispenser) WaitingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Size()
}

// Capacity returns the waiting list limit.
func (d *Dispenser) Capacity() int {
	return d.queue.Capacity()
}

// TotalIssued returns how many tokens were ever issued.
func (d *Dispenser) TotalIssued() uint64 {
	return d.counter.TotalIssued()
}

// TotalServed returns how many tokens were ever served.
func (d *Dispenser) TotalServed() uint64 {
	return d.served.Load()
}

// CurrentlyServing returns the last served token; false before the first serve.
func (d *Dispenser) CurrentlyServing() (Token, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.serving, d.serving.Label != ""
}

// SnapshotWaiting returns a copy of the waiting list, oldest first.
func (d *Dispenser) SnapshotWaiting() []Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Snapshot()
}

// Stats returns every counter and the head of the list in one consistent view.
func (d *Dispenser) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Stats{
		Waiting:     d.queue.Size(),
		Capacity:    d.queue.Capacity(),
		TotalIssued: d.counter.TotalIssued(),
		TotalServed: d.served.Load(),
	}
	if d.serving.Label != "" {
		serving := d.serving
		s.NowServing = &serving
	}
	if next, err := d.queue.Peek(); err == nil {
		s.Next = &next
	}
	return s
}

// Subscribe registers observers after construction, for observers that
// need the Dispenser itself, such as gauges sampling WaitingCount.
func (d *Dispenser) Subscribe(obs ...Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, obs...)
}

func (d *Dispenser) eventLocked(kind EventKind, tok Token) Event {
	d.seq++
	return Event{
		Seq:         d.seq,
		Kind:        kind,
		Token:       tok,
		Waiting:     d.queue.Snapshot(),
		TotalIssued: d.counter.TotalIssued(),
		At:          d.clock.Now(),
	}
}

func (d *Dispenser) rejectedLocked(reason error) Event {
	return Event{
		Seq:         d.seq,
		Kind:        EventRejected,
		Reason:      reason,
		Waiting:     d.queue.Snapshot(),
		TotalIssued: d.counter.TotalIssued(),
		At:          d.clock.Now(),
	}
}

// unlockAndNotify releases mu and delivers ev. notifyMu is acquired first,
// so the next operation cannot deliver its event before this one.
func (d *Dispenser) unlockAndNotify(ctx context.Context, ev Event) {
	observers := d.observers
	d.notifyMu.Lock()
	d.mu.Unlock()
	defer d.notifyMu.Unlock()

	for _, obs := range observers {
		if err := obs.Observe(ctx, ev); err != nil {
			d.logger.Warn("observer failed",
				zap.String("kind", string(ev.Kind)),
				zap.Uint64("seq", ev.Seq),
				zap.Error(err),
			)
		}
	}
}
