// Package option contains the variadic options pattern shared by the list and the config loader.
package option

// Option represents a function that modifies options of type T.
type Option[T any] func(opts *T)

// Build applies the given options, in order, on top of the defaults and returns the defaults.
// Nil options are skipped.
func Build[T any](defaults *T, opts ...Option[T]) *T {
	for _, opt := range opts {
		if opt != nil {
			opt(defaults)
		}
	}
	return defaults
}
