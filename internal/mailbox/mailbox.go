package mailbox

import (
	"context"
	"sync"
)

// Mailbox is a single-slot buffer. It is NOT a queue: it holds at most one
// pending item. By default Put overwrites any pending item; a merge
// function can combine them instead. Take blocks until an item is
// available or the context ends.
type Mailbox[T any] struct {
	mu     sync.Mutex
	job    *T
	merge  func(pending, incoming T) T
	signal chan struct{}
}

// New creates an empty latest-wins mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{signal: make(chan struct{}, 1)}
}

// NewMerging creates an empty mailbox that combines a pending item with
// an incoming one using merge.
func NewMerging[T any](merge func(pending, incoming T) T) *Mailbox[T] {
	m := New[T]()
	m.merge = merge
	return m
}

// Put stores a job in the mailbox. It never blocks.
func (m *Mailbox[T]) Put(j T) {
	m.mu.Lock()
	if m.job != nil && m.merge != nil {
		j = m.merge(*m.job, j)
	}
	m.job = &j
	m.mu.Unlock()

	// wake up the consumer if waiting
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// Take blocks until a job is available, then returns it and clears the slot.
// It reports false when ctx ends first.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	for {
		if j := m.TryTake(); j != nil {
			return *j, true
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, false
		case <-m.signal:
		}
	}
}

// TryTake returns the job if present, or nil if empty.
// It never blocks.
func (m *Mailbox[T]) TryTake() *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.job == nil {
		return nil
	}

	j := m.job
	m.job = nil
	return j
}

// HasJob reports whether a job is currently waiting.
func (m *Mailbox[T]) HasJob() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.job != nil
}
