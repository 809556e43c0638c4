package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type listOptions struct {
	capacity int
	name     string
}

func withCapacity(capacity int) Option[listOptions] {
	return func(opts *listOptions) {
		opts.capacity = capacity
	}
}

func withName(name string) Option[listOptions] {
	return func(opts *listOptions) {
		opts.name = name
	}
}

func TestBuild(t *testing.T) {
	t.Run("it should keep defaults without options", func(t *testing.T) {
		// GIVEN
		defaults := &listOptions{capacity: 4}

		// WHEN
		opts := Build(defaults)

		// THEN
		assert.Same(t, defaults, opts)
		assert.Equal(t, 4, opts.capacity)
	})

	t.Run("it should apply options in order", func(t *testing.T) {
		// WHEN
		opts := Build(&listOptions{}, withCapacity(2), withName("first"), withCapacity(8))

		// THEN
		assert.Equal(t, 8, opts.capacity)
		assert.Equal(t, "first", opts.name)
	})

	t.Run("it should skip nil options", func(t *testing.T) {
		// WHEN
		opts := Build(&listOptions{}, nil, withName("kept"))

		// THEN
		assert.Equal(t, "kept", opts.name)
	})
}
