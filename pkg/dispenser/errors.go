package dispenser

import "github.com/pkg/errors"

var (
	// ErrQueueFull rejects an issuance while the waiting list is at capacity.
	ErrQueueFull = errors.New("queue is full")

	// ErrQueueEmpty rejects a serve or peek while nobody is waiting.
	ErrQueueEmpty = errors.New("queue is empty")
)
