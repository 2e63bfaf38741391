package typedpatch

import (
	"fmt"
	"reflect"
)

// ResolveValue walks path against instance and returns the addressed value.
// An absent object along the way (including instance itself) is reported as
// *NullTraversalError; reading an index that is not present is reported as
// *IndexError.
func (e *Engine) ResolveValue(instance any, path ParsedPath) (any, error) {
	v, err := walk(reflect.ValueOf(instance), path.components, path.String())
	if err != nil {
		return nil, err
	}
	if !v.CanInterface() {
		return nil, fmt.Errorf("value at %s is not accessible", path)
	}
	return v.Interface(), nil
}

// Resolve parses path against the type of instance and resolves it.
func (e *Engine) Resolve(instance any, path string) (any, error) {
	if instance == nil {
		return nil, &NullTraversalError{Path: path, Segment: path}
	}
	p, err := e.Parse(path, reflect.TypeOf(instance))
	if err != nil {
		return nil, err
	}
	return e.ResolveValue(instance, p)
}

// walk follows components starting at v. The returned value is the one
// addressed by the last component, not dereferenced.
func walk(v reflect.Value, components []Component, path string) (reflect.Value, error) {
	current := v
	for i, c := range components {
		var ok bool
		current, ok = deref(current)
		if !ok {
			return reflect.Value{}, &NullTraversalError{Path: path, Segment: c.Segment(), Component: i}
		}

		switch c := c.(type) {
		case PropertyComponent:
			if current.Kind() != reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%w: cannot read property %q from %v", ErrTypeMismatch, c.Name, current.Type())
			}
			f, err := current.FieldByIndexErr(c.field.Index)
			if err != nil {
				// Promoted through a nil embedded pointer.
				return reflect.Value{}, &NullTraversalError{Path: path, Segment: c.Name, Component: i}
			}
			current = f
		case IndexComponent:
			if current.Kind() != reflect.Slice && current.Kind() != reflect.Array {
				return reflect.Value{}, fmt.Errorf("%w: cannot index %v", ErrTypeMismatch, current.Type())
			}
			if current.Kind() == reflect.Slice && current.IsNil() {
				return reflect.Value{}, &NullTraversalError{Path: path, Segment: c.Segment(), Component: i}
			}
			if c.Index >= current.Len() {
				return reflect.Value{}, &IndexError{Path: path, Index: c.Index, Len: current.Len()}
			}
			current = current.Index(c.Index)
		}
	}
	return current, nil
}

// deref strips pointers and interfaces. It reports false if a nil is found.
func deref(v reflect.Value) (reflect.Value, bool) {
	if !v.IsValid() {
		return v, false
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, true
}

// isEmpty reports whether v holds no value: nil for nillable kinds and the
// zero value for everything else.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
