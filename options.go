package typedpatch

import (
	"github.com/rs/zerolog"

	"github.com/brunoga/typedpatch/convert"
	"github.com/brunoga/typedpatch/schema"
)

// Option configures an Engine.
type Option interface {
	apply(*Engine)
}

type optionFunc func(*Engine)

func (f optionFunc) apply(e *Engine) {
	f(e)
}

// WithRegistry sets the registry used to describe types. Defaults to
// schema.Default().
func WithRegistry(r *schema.Registry) Option {
	return optionFunc(func(e *Engine) {
		e.registry = r
	})
}

// WithConverter sets the converter used to coerce values to their declared
// types. Defaults to convert.Default.
func WithConverter(c convert.Converter) Option {
	return optionFunc(func(e *Engine) {
		e.converter = c
	})
}

// WithLogger sets the logger used for debug events. Defaults to a no-op
// logger.
func WithLogger(l zerolog.Logger) Option {
	return optionFunc(func(e *Engine) {
		e.log = l
	})
}
