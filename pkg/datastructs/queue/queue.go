package queue

import "github.com/pkg/errors"

var (
	// ErrCapacityExceeded is returned by Enqueue when the queue already holds Capacity items.
	ErrCapacityExceeded = errors.New("queue: capacity exceeded")

	// ErrEmpty is returned by Dequeue and Peek when the queue holds no items.
	ErrEmpty = errors.New("queue: empty")
)

// Queue is a generic interface for bounded FIFO queues.
type Queue[T any] interface {
	// Enqueue appends an item at the tail.
	// Returns ErrCapacityExceeded and leaves the queue untouched if it is full.
	Enqueue(item T) error

	// Dequeue removes and returns the head item.
	// Returns (zero, ErrEmpty) if the queue is empty.
	Dequeue() (T, error)

	// Peek returns the head item without removing it.
	Peek() (T, error)

	// Snapshot returns a copy of all items, head to tail.
	Snapshot() []T

	// Size returns the number of queued items.
	Size() int

	// Capacity returns the maximum number of items the queue accepts.
	Capacity() int

	// IsEmpty reports whether Size() == 0.
	IsEmpty() bool

	// IsFull reports whether Size() == Capacity().
	IsFull() bool
}
