package schema

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry caches descriptors per type. Descriptors are derived on first use
// unless one was installed with Register. A Registry is safe for concurrent
// use.
type Registry struct {
	cache sync.Map // map[reflect.Type]*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// Default returns the package level registry used by Describe.
func Default() *Registry {
	return defaultRegistry
}

// Describe returns the descriptor of typ from the default registry.
func Describe(typ reflect.Type) *Descriptor {
	return defaultRegistry.Describe(typ)
}

// Describe returns the descriptor of typ, deriving and caching it if needed.
// Descriptors are cached for non-pointer types only so a registration for T
// also applies to *T, **T, ...
func (r *Registry) Describe(typ reflect.Type) *Descriptor {
	if typ.Kind() == reflect.Pointer {
		bd := r.Describe(typ.Elem())
		return &Descriptor{typ: typ, base: bd.base, kind: bd.kind, fields: bd.fields}
	}

	if d, ok := r.cache.Load(typ); ok {
		return d.(*Descriptor)
	}

	d, _ := r.cache.LoadOrStore(typ, derive(typ))
	return d.(*Descriptor)
}

// Register installs a descriptor for the struct type typ (or pointer to
// struct) that only exposes the named properties, in the given order. Names
// are matched like path segments, so json aliases are accepted. Registering
// replaces any descriptor cached for typ.
func (r *Registry) Register(typ reflect.Type, names ...string) (*Descriptor, error) {
	derived := derive(typ)
	if derived.kind != Object {
		return nil, fmt.Errorf("cannot register properties for %v: not a struct", typ)
	}

	d := &Descriptor{typ: derived.base, base: derived.base, kind: Object}
	for _, name := range names {
		f, ok := derived.Property(name)
		if !ok {
			return nil, fmt.Errorf("field %q not found in struct %v", name, derived.base)
		}
		d.fields = append(d.fields, f)
	}

	r.cache.Store(derived.base, d)
	return d, nil
}
