// Package unrolled provides a thread-safe unrolled linked list: an ordered, index-addressable
// sequence of values stored in fixed-capacity segments chained together.
//
// Every traversal uses lock coupling (hand-over-hand locking): the lock of the next segment is
// acquired before the lock of the current one is released, always in chain order. The list
// itself owns an anchor lock that plays the role of the head's predecessor, so unlinking any
// segment, including the head, happens with both the predecessor and the segment locked.
package unrolled

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/a-peyrard/unrolled/option"
	"github.com/a-peyrard/unrolled/reflectutils"
	"github.com/rs/zerolog"
)

const (
	opAppend  = "append"
	opGet     = "get"
	opRemove  = "remove"
	opDestroy = "destroy"
)

// List is the handle of a segment chain. The zero value is not usable, use New.
type List[T any] struct {
	mu        sync.Mutex // anchor: guards head and destroyed, predecessor of the head segment
	head      *segment[T]
	destroyed bool

	capacity int
	size     atomic.Int64

	logger    *zerolog.Logger
	metrics   *Metrics
	ignoreNil bool
}

// position is the result of an index translation: the target segment and the offset
// inside it, with both the predecessor lock and the target lock held.
type position[T any] struct {
	prev     *segment[T] // nil when the predecessor is the anchor
	prevLock sync.Locker
	target   *segment[T]
	offset   int
}

// New creates a list whose segments hold up to capacity elements each.
func New[T any](capacity int, opts ...Option) (*List[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	options := option.Build(defaultOptions(), opts...)

	l := &List[T]{
		head:      newSegment[T](capacity),
		capacity:  capacity,
		logger:    options.logger,
		metrics:   options.metrics,
		ignoreNil: options.ignoreNil,
	}
	l.metrics.segmentAllocated()
	l.logger.Debug().Int("capacity", capacity).Msg("list created")

	return l, nil
}

// Capacity returns the number of slots of every segment.
func (l *List[T]) Capacity() int {
	if l == nil {
		return 0
	}
	return l.capacity
}

// Len returns the number of elements stored in the list.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return int(l.size.Load())
}

// Append adds the element at the end of the list, allocating a new tail segment if the
// current tail is full.
//
// Appending to a nil list, or appending a nil element when the list has been created with
// WithNilElementsIgnored, is a no-op. Appending to a destroyed list returns ErrDestroyed.
func (l *List[T]) Append(element T) error {
	if l == nil {
		return nil
	}
	if l.ignoreNil && reflectutils.IsNil(element) {
		return nil
	}

	l.mu.Lock()
	if l.destroyed {
		l.mu.Unlock()
		return ErrDestroyed
	}
	tail := l.head
	tail.mu.Lock()
	l.mu.Unlock()

	for tail.next != nil {
		next := tail.next
		next.mu.Lock()
		tail.mu.Unlock()
		tail = next
	}

	grown := tail.isFull()
	if grown {
		// fully initialized before being published through tail.next
		created := newSegment[T](l.capacity)
		created.push(element)
		tail.next = created
	} else {
		tail.push(element)
	}
	size := l.size.Add(1)
	tail.mu.Unlock()

	if grown {
		l.metrics.segmentAllocated()
		l.logger.Debug().Int64("size", size).Msg("tail segment allocated")
	}
	l.metrics.served(opAppend, 1)

	return nil
}

// Get returns the element at the given index. The boolean is false if the index is out of range.
func (l *List[T]) Get(i int) (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}

	pos, found := l.locate(i)
	if !found {
		l.metrics.missed(opGet)
		return zero, false
	}
	pos.prevLock.Unlock()

	element := pos.target.slots[pos.offset]
	pos.target.mu.Unlock()

	l.metrics.served(opGet, 0)
	return element, true
}

// Remove extracts the element at the given index, shifting every following element down by one.
// The boolean is false if the index is out of range.
//
// A segment emptied by the removal is unlinked from the chain, unless it is the only segment
// left, in which case it stays as the empty head of the list.
func (l *List[T]) Remove(i int) (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}

	pos, found := l.locate(i)
	if !found {
		l.metrics.missed(opRemove)
		return zero, false
	}

	target := pos.target
	element := target.removeAt(pos.offset)
	size := l.size.Add(-1)

	collapsed := false
	if target.count == 0 {
		switch {
		case pos.prev != nil:
			pos.prev.next = target.next
			collapsed = true
		case target.next != nil:
			// the predecessor is the anchor, the head moves forward
			l.head = target.next
			collapsed = true
		}
		if collapsed {
			target.release()
		}
	}

	target.mu.Unlock()
	pos.prevLock.Unlock()

	if collapsed {
		l.metrics.segmentReleased(1)
		l.logger.Debug().
			Int64("size", size).
			Bool("head", pos.prev == nil).
			Msg("empty segment released")
	}
	l.metrics.served(opRemove, -1)

	return element, true
}

// Destroy releases every segment of the list. The list must not be used afterward: Append
// returns ErrDestroyed, Get and Remove report every index as out of range.
// Destroying a nil or an already destroyed list is a no-op.
func (l *List[T]) Destroy() {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.destroyed {
		return
	}
	l.destroyed = true

	current := l.head
	l.head = nil
	released := 0
	if current != nil {
		current.mu.Lock()
	}
	for current != nil {
		next := current.next
		if next != nil {
			next.mu.Lock()
		}
		current.release()
		current.mu.Unlock()
		released++
		current = next
	}
	size := l.size.Swap(0)

	l.metrics.segmentReleased(released)
	l.metrics.served(opDestroy, -int(size))
	l.logger.Debug().
		Int("segments", released).
		Int64("size", size).
		Msg("list destroyed")
}

// locate translates a global index into a position. On success, the caller owns both the
// predecessor and the target locks and must release them, target first.
func (l *List[T]) locate(i int) (position[T], bool) {
	if i < 0 || int64(i) >= l.size.Load() {
		return position[T]{}, false
	}

	l.mu.Lock()
	if l.destroyed {
		l.mu.Unlock()
		return position[T]{}, false
	}

	var (
		prev     *segment[T]
		prevLock sync.Locker = &l.mu
		current              = l.head
	)
	current.mu.Lock()

	remaining := i
	for remaining >= current.count {
		remaining -= current.count
		next := current.next
		if next == nil {
			// the list shrank since the bound check
			current.mu.Unlock()
			prevLock.Unlock()
			return position[T]{}, false
		}
		next.mu.Lock()
		prevLock.Unlock()
		prev, prevLock, current = current, &current.mu, next
	}

	return position[T]{
		prev:     prev,
		prevLock: prevLock,
		target:   current,
		offset:   remaining,
	}, true
}

// walk visits every segment in chain order, with the visited segment locked.
// It returns false if the list has been destroyed.
func (l *List[T]) walk(visitor func(s *segment[T])) bool {
	l.mu.Lock()
	if l.destroyed {
		l.mu.Unlock()
		return false
	}
	current := l.head
	current.mu.Lock()
	l.mu.Unlock()

	for {
		visitor(current)
		next := current.next
		if next == nil {
			current.mu.Unlock()
			return true
		}
		next.mu.Lock()
		current.mu.Unlock()
		current = next
	}
}
