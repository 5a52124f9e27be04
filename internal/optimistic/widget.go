// Package optimistic models the client-side state of interactive widgets that
// show a change before the server confirms it and roll it back on failure.
package optimistic

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned when a widget already has a mutation in flight.
var ErrPending = errors.New("optimistic: mutation already pending")

// Mutation sends the optimistic value to the server and returns the
// authoritative value it settled on.
type Mutation[T any] func(ctx context.Context, next T) (T, error)

// State is a snapshot of a widget.
type State[T any] struct {
	Committed T // last value confirmed by the server
	Display   T // what the widget shows right now
	Previous  T // value to restore if the pending mutation fails
	Pending   bool
}

// Widget holds one element's {committed, pending, previous} state. Each widget
// allows a single mutation in flight; separate widgets never block each other.
type Widget[T comparable] struct {
	mu        sync.Mutex
	committed T
	display   T
	previous  T
	pending   bool

	mutate  Mutation[T]
	refresh func(ctx context.Context)
}

// NewWidget starts Idle at the server value. refresh may be nil; it runs after
// every successful mutation so dependent views can reconcile.
func NewWidget[T comparable](server T, mutate Mutation[T], refresh func(ctx context.Context)) *Widget[T] {
	return &Widget[T]{committed: server, display: server, mutate: mutate, refresh: refresh}
}

func (w *Widget[T]) State() State[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State[T]{Committed: w.committed, Display: w.display, Previous: w.previous, Pending: w.pending}
}

// Value is what the widget currently displays.
func (w *Widget[T]) Value() T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.display
}

// Apply shows next immediately and runs the mutation. On success the widget
// settles on the returned value; on failure it restores the previous value and
// returns the error. Nothing is retried.
func (w *Widget[T]) Apply(ctx context.Context, next T) (T, error) {
	w.mu.Lock()
	if w.pending {
		cur := w.display
		w.mu.Unlock()
		return cur, ErrPending
	}
	w.previous = w.display
	w.display = next
	w.pending = true
	w.mu.Unlock()

	settled, err := w.mutate(ctx, next)

	w.mu.Lock()
	w.pending = false
	if err != nil {
		w.display = w.previous
		cur := w.display
		w.mu.Unlock()
		return cur, err
	}
	w.committed = settled
	w.display = settled
	w.mu.Unlock()

	if w.refresh != nil {
		w.refresh(ctx)
	}
	return settled, nil
}

// Reset replaces the server value after an external refresh. It is ignored
// while a mutation is pending.
func (w *Widget[T]) Reset(server T) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending {
		return false
	}
	w.committed = server
	w.display = server
	return true
}
