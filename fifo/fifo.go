// This file is part of Chessboard.
//
// Chessboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Chessboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Chessboard.  If not, see <https://www.gnu.org/licenses/>.

// Package fifo implements an unbounded first-in first-out queue. Pushing to the
// queue never blocks.
//
// The queue is designed for a single consumer goroutine. Any number of
// goroutines can push.
package fifo

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO queue. Must be created with New().
type Queue[T any] struct {
	crit  sync.Mutex
	items []T

	// wake has a buffer of one. a push makes sure there is a value in the
	// channel, so a consumer waiting on the channel will always see it
	wake chan struct{}
}

// New is the preferred method of initialisation for the Queue type.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		wake: make(chan struct{}, 1),
	}
}

// Push adds an item to the end of the queue.
func (q *Queue[T]) Push(item T) {
	q.crit.Lock()
	q.items = append(q.items, item)
	q.crit.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// TryPop removes and returns the item at the head of the queue. The boolean
// is false if the queue was empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.crit.Lock()
	defer q.crit.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	return item, true
}

// Pop removes and returns the item at the head of the queue, waiting for one
// to be pushed if necessary. Returns the context's error if it is cancelled
// before an item is available.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		if item, ok := q.TryPop(); ok {
			return item, nil
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.crit.Lock()
	defer q.crit.Unlock()
	return len(q.items)
}

// Empty is true if there are no items in the queue.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}
