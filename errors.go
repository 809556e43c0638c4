package unrolled

import "errors"

var (
	// ErrInvalidCapacity is returned by New when the segment capacity is not a positive integer.
	ErrInvalidCapacity = errors.New("unrolled: segment capacity must be positive")

	// ErrDestroyed is returned when appending to a list that has been destroyed.
	ErrDestroyed = errors.New("unrolled: list has been destroyed")
)
