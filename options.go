package unrolled

import (
	"github.com/a-peyrard/unrolled/option"
	"github.com/rs/zerolog"
)

type (
	// Option represents a function that modifies the options of a list.
	Option = option.Option[Options]

	// Options holds the optional collaborators of a list.
	Options struct {
		logger    *zerolog.Logger
		metrics   *Metrics
		ignoreNil bool
	}
)

func defaultOptions() *Options {
	nop := zerolog.Nop()
	return &Options{
		logger: &nop,
	}
}

// WithLogger sets the logger used to report structural changes of the chain (debug level).
func WithLogger(logger *zerolog.Logger) Option {
	return func(opts *Options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithMetrics plugs prometheus metrics, see NewMetrics.
func WithMetrics(metrics *Metrics) Option {
	return func(opts *Options) {
		opts.metrics = metrics
	}
}

// WithNilElementsIgnored makes Append silently skip nil elements
// (nil pointers, maps, slices, channels, functions and interfaces).
// By default a nil element is stored like any other value.
func WithNilElementsIgnored() Option {
	return func(opts *Options) {
		opts.ignoreNil = true
	}
}
