package queue

import (
	"github.com/huynhanx03/token-dispenser/pkg/utils"
)

var _ Queue[int] = (*Ring[int])(nil)

const minRingCapacity = 1

// Ring is a bounded FIFO queue backed by a circular slice.
// The backing slice length is a power of two so positions wrap with a mask,
// while the logical limit stays at the exact capacity requested.
// It is NOT thread-safe.
type Ring[T any] struct {
	items    []T
	mask     int
	capacity int // logical limit
	head     int // next position to read from
	size     int
}

// NewRing creates a queue holding at most capacity items.
// Capacities below one are raised to one.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < minRingCapacity {
		capacity = minRingCapacity
	}
	n := utils.CeilToPowerOfTwo(capacity)
	return &Ring[T]{
		items:    make([]T, n),
		mask:     n - 1,
		capacity: capacity,
	}
}

func (r *Ring[T]) idx(pos int) int { return pos & r.mask }

// Enqueue appends item at the tail. Returns ErrCapacityExceeded if the queue is full.
func (r *Ring[T]) Enqueue(item T) error {
	if r.size >= r.capacity {
		return ErrCapacityExceeded
	}
	r.items[r.idx(r.head+r.size)] = item
	r.size++
	return nil
}

// Dequeue removes and returns the head item. Returns ErrEmpty if the queue is empty.
func (r *Ring[T]) Dequeue() (T, error) {
	var zero T
	if r.size == 0 {
		return zero, ErrEmpty
	}

	item := r.items[r.head]
	r.items[r.head] = zero
	r.head = r.idx(r.head + 1)
	r.size--
	if r.size == 0 {
		r.head = 0
	}
	return item, nil
}

// Peek returns the head item without removing it.
func (r *Ring[T]) Peek() (T, error) {
	if r.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return r.items[r.head], nil
}

// Snapshot returns a copy of the queued items, head to tail.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, r.size)
	// Simple case: no wrap-around
	if r.head+r.size <= len(r.items) {
		copy(out, r.items[r.head:r.head+r.size])
		return out
	}

	// Wrap-around case
	n := copy(out, r.items[r.head:])
	copy(out[n:], r.items[:r.size-n])
	return out
}

// Size returns the number of queued items.
func (r *Ring[T]) Size() int { return r.size }

// Capacity returns the logical limit of the queue.
func (r *Ring[T]) Capacity() int { return r.capacity }

// IsEmpty returns true if the queue holds no items.
func (r *Ring[T]) IsEmpty() bool { return r.size == 0 }

// IsFull returns true if the queue holds Capacity items.
func (r *Ring[T]) IsFull() bool { return r.size >= r.capacity }
