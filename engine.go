package typedpatch

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/brunoga/typedpatch/convert"
	"github.com/brunoga/typedpatch/schema"
)

// Engine parses paths against type descriptors and applies mutations to live
// instances. An Engine holds no per-call state and can be shared.
type Engine struct {
	registry  *schema.Registry
	converter convert.Converter
	log       zerolog.Logger
}

// New returns an Engine configured with opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:  schema.Default(),
		converter: convert.Default,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt.apply(e)
	}
	return e
}

var defaultEngine = New()

// Default returns the Engine used by the package level functions.
func Default() *Engine {
	return defaultEngine
}

// Registry returns the registry the engine describes types with.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// Logger returns the engine logger.
func (e *Engine) Logger() zerolog.Logger {
	return e.log
}

// ParsePath parses path against root using the default engine.
func ParsePath(path string, root reflect.Type) (ParsedPath, error) {
	return defaultEngine.Parse(path, root)
}

// IsPathValid reports whether path parses against root.
func IsPathValid(root reflect.Type, path string) bool {
	return defaultEngine.IsPathValid(root, path)
}

// Parse parses path against T.
func Parse[T any](path string) (ParsedPath, error) {
	return defaultEngine.Parse(path, typeOf[T]())
}

// Valid reports whether path parses against T.
func Valid[T any](path string) bool {
	return defaultEngine.IsPathValid(typeOf[T](), path)
}

// ResolveValue returns the value addressed by path in instance.
func ResolveValue(instance any, path ParsedPath) (any, error) {
	return defaultEngine.ResolveValue(instance, path)
}

// Resolve parses path against the type of instance and returns the value it
// addresses.
func Resolve(instance any, path string) (any, error) {
	return defaultEngine.Resolve(instance, path)
}

// ApplyMutation applies a single mutation to instance, which must be a
// non-nil pointer.
func ApplyMutation(instance any, path string, value any, kind Kind) error {
	return defaultEngine.Apply(instance, path, value, kind)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
