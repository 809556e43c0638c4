package unrolled

import (
	"fmt"
	"io"
	"strings"
)

// SegmentCount returns the number of segments currently linked, 0 for a destroyed list.
func (l *List[T]) SegmentCount() int {
	if l == nil {
		return 0
	}
	count := 0
	l.walk(func(*segment[T]) {
		count++
	})
	return count
}

// Segments returns a copy of the occupied slots of every segment, in chain order.
// Each segment is copied atomically, the whole result is not a snapshot of the list.
func (l *List[T]) Segments() [][]T {
	if l == nil {
		return nil
	}
	var result [][]T
	l.walk(func(s *segment[T]) {
		result = append(result, s.occupied())
	})
	return result
}

// Dump writes a textual representation of the chain, one |element| per slot and -> after
// every segment, for example: |1||2||3||4|->|5|->
func (l *List[T]) Dump(w io.Writer) error {
	_, err := io.WriteString(w, l.String()+"\n")
	return err
}

func (l *List[T]) String() string {
	sb := strings.Builder{}
	for _, elements := range l.Segments() {
		for _, element := range elements {
			_, _ = fmt.Fprintf(&sb, "|%v|", element)
		}
		sb.WriteString("->")
	}
	return sb.String()
}
