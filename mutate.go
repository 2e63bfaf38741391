package typedpatch

import (
	"errors"
	"fmt"
	"reflect"
)

// Kind is the kind of a single-location mutation.
type Kind uint8

const (
	Add Kind = iota + 1
	Remove
	Replace
)

func (k Kind) String() string {
	switch k {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Apply performs a single mutation of kind at path in instance, which must be
// a non-nil pointer. value is converted to the declared type of the target
// before it is stored and is ignored for Remove. Every check happens before
// the write, so a failed call leaves instance unchanged.
func (e *Engine) Apply(instance any, path string, value any, kind Kind) error {
	root := reflect.ValueOf(instance)
	if !root.IsValid() {
		return &NullParentError{Path: path}
	}
	if root.Kind() != reflect.Pointer {
		return fmt.Errorf("%w, got %v", ErrNotPointer, root.Type())
	}

	p, err := e.Parse(path, root.Type())
	if err != nil {
		return err
	}
	normalized := p.String()

	parent, err := walk(root, p.components[:p.Len()-1], normalized)
	if err != nil {
		var nullErr *NullTraversalError
		if errors.As(err, &nullErr) {
			return &NullParentError{Path: normalized, Err: err}
		}
		return err
	}

	parent, ok := deref(parent)
	if !ok || (parent.Kind() == reflect.Slice && parent.IsNil()) {
		return &NullParentError{Path: normalized}
	}

	switch c := p.Last().(type) {
	case PropertyComponent:
		err = e.mutateProperty(parent, c, normalized, value, kind)
	case IndexComponent:
		err = e.mutateIndex(parent, c, normalized, value, kind)
	}
	if err != nil {
		return err
	}

	e.log.Debug().Str("op", kind.String()).Str("path", normalized).Msg("mutation applied")
	return nil
}

func (e *Engine) mutateProperty(parent reflect.Value, c PropertyComponent, path string, value any, kind Kind) error {
	if parent.Kind() != reflect.Struct {
		return fmt.Errorf("%w: cannot set property %q on %v", ErrTypeMismatch, c.Name, parent.Type())
	}
	if c.field.ReadOnly {
		return &ReadOnlyError{Path: path, Property: c.field.Name}
	}

	field, err := parent.FieldByIndexErr(c.field.Index)
	if err != nil {
		return &NullParentError{Path: path, Err: err}
	}
	if !field.CanSet() {
		return fmt.Errorf("property %s at %s can not be set", c.field.Name, path)
	}

	switch kind {
	case Add:
		if !isEmpty(field) {
			return &DuplicateValueError{Path: path, Current: field.Interface()}
		}
		v, err := e.converter.Convert(value, field.Type())
		if err != nil {
			return err
		}
		field.Set(v)
	case Replace:
		v, err := e.converter.Convert(value, field.Type())
		if err != nil {
			return err
		}
		field.Set(v)
	case Remove:
		field.Set(reflect.Zero(field.Type()))
	default:
		return fmt.Errorf("invalid mutation kind: %v", kind)
	}
	return nil
}

func (e *Engine) mutateIndex(parent reflect.Value, c IndexComponent, path string, value any, kind Kind) error {
	switch parent.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return fmt.Errorf("%w: cannot index %v", ErrTypeMismatch, parent.Type())
	}
	if !parent.CanSet() {
		return fmt.Errorf("collection at %s can not be set", path)
	}

	n := parent.Len()
	idx := c.Index
	fixed := parent.Kind() == reflect.Array

	switch kind {
	case Add:
		if fixed {
			return &UnsupportedOperationError{Path: path, Op: kind, Len: n}
		}
		if idx > n {
			return &RangeError{Path: path, Op: kind, Index: idx, Len: n}
		}
		v, err := e.converter.Convert(value, parent.Type().Elem())
		if err != nil {
			return err
		}

		newSlice := reflect.MakeSlice(parent.Type(), n+1, n+1)
		reflect.Copy(newSlice, parent.Slice(0, idx))
		newSlice.Index(idx).Set(v)
		reflect.Copy(newSlice.Slice(idx+1, n+1), parent.Slice(idx, n))
		parent.Set(newSlice)
	case Replace:
		if idx >= n {
			return &RangeError{Path: path, Op: kind, Index: idx, Len: n}
		}
		v, err := e.converter.Convert(value, parent.Type().Elem())
		if err != nil {
			return err
		}
		parent.Index(idx).Set(v)
	case Remove:
		if fixed {
			return &UnsupportedOperationError{Path: path, Op: kind, Len: n}
		}
		if idx >= n {
			return &RangeError{Path: path, Op: kind, Index: idx, Len: n}
		}

		newSlice := reflect.MakeSlice(parent.Type(), n-1, n-1)
		reflect.Copy(newSlice, parent.Slice(0, idx))
		reflect.Copy(newSlice.Slice(idx, n-1), parent.Slice(idx+1, n))
		parent.Set(newSlice)
	default:
		return fmt.Errorf("invalid mutation kind: %v", kind)
	}
	return nil
}
