package unrolled

import "sync"

// segment is a fixed-capacity node of the chain.
// Occupied slots are always slots[0:count], the remaining slots hold the zero value of T.
type segment[T any] struct {
	mu    sync.Mutex
	slots []T
	count int
	next  *segment[T]
}

func newSegment[T any](capacity int) *segment[T] {
	return &segment[T]{
		slots: make([]T, capacity),
	}
}

func (s *segment[T]) isFull() bool {
	return s.count == len(s.slots)
}

// push writes the element in the first free slot, caller must check isFull first.
func (s *segment[T]) push(element T) {
	s.slots[s.count] = element
	s.count++
}

// removeAt extracts the element at the given offset and shifts the following
// occupied slots one position to the left, so the occupied prefix stays contiguous.
func (s *segment[T]) removeAt(offset int) T {
	var zero T

	removed := s.slots[offset]
	copy(s.slots[offset:s.count-1], s.slots[offset+1:s.count])
	s.count--
	s.slots[s.count] = zero

	return removed
}

// occupied returns a copy of the occupied prefix.
func (s *segment[T]) occupied() []T {
	result := make([]T, s.count)
	copy(result, s.slots[:s.count])
	return result
}

// release drops every reference held by the segment.
func (s *segment[T]) release() {
	clear(s.slots)
	s.count = 0
	s.next = nil
}
