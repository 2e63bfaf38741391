// Package schema describes the patchable shape of Go types: the named
// properties of struct types and the element type of ordered collections,
// tagged as growable (slices) or fixed-size (arrays).
package schema

import (
	"fmt"
	"reflect"
)

// Kind classifies a type from the point of view of path traversal.
type Kind uint8

const (
	// Scalar is any type that can not be traversed further (numbers,
	// strings, maps, functions, ...).
	Scalar Kind = iota
	// Object is a struct type with named properties.
	Object
	// List is a growable ordered collection (slice).
	List
	// Array is a fixed-size ordered collection (array).
	Array
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Object:
		return "object"
	case List:
		return "list"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is a named property of an Object type.
type Field struct {
	// Name is the Go field name.
	Name string
	// Alias is the json tag name of the field, if any.
	Alias string
	// Index is the index sequence for reflect.Value.FieldByIndex.
	Index []int
	// Type is the declared type of the field.
	Type reflect.Type
	// ReadOnly fields can be resolved but not mutated.
	ReadOnly bool
}

// Matches reports whether the path segment name addresses this field.
func (f Field) Matches(name string) bool {
	return f.Name == name || (f.Alias != "" && f.Alias == name)
}

// Descriptor is the patchable shape of a single type. Pointer types are
// transparent: the descriptor of *T has the kind, properties and element type
// of T while Type still reports *T.
type Descriptor struct {
	typ    reflect.Type
	base   reflect.Type
	kind   Kind
	fields []Field
}

// Type returns the type the descriptor was built for.
func (d *Descriptor) Type() reflect.Type {
	return d.typ
}

// Base returns the type with all pointer indirections removed.
func (d *Descriptor) Base() reflect.Type {
	return d.base
}

func (d *Descriptor) Kind() Kind {
	return d.kind
}

// IsCollection reports whether index path segments may follow this type.
func (d *Descriptor) IsCollection() bool {
	return d.kind == List || d.kind == Array
}

// Growable reports whether the collection supports insertion and removal.
func (d *Descriptor) Growable() bool {
	return d.kind == List
}

// Elem returns the element type of a collection, or nil for other kinds.
func (d *Descriptor) Elem() reflect.Type {
	if !d.IsCollection() {
		return nil
	}
	return d.base.Elem()
}

// Fields returns the properties of an Object in declaration order.
func (d *Descriptor) Fields() []Field {
	res := make([]Field, len(d.fields))
	copy(res, d.fields)
	return res
}

// Property looks up the property addressed by name.
func (d *Descriptor) Property(name string) (Field, bool) {
	for _, f := range d.fields {
		if f.Matches(name) {
			return f, true
		}
	}
	return Field{}, false
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%v (%s)", d.typ, d.kind)
}

func derive(typ reflect.Type) *Descriptor {
	base := typ
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	d := &Descriptor{typ: typ, base: base}
	switch base.Kind() {
	case reflect.Struct:
		d.kind = Object
		d.fields = structFields(base)
	case reflect.Slice:
		d.kind = List
	case reflect.Array:
		d.kind = Array
	default:
		d.kind = Scalar
	}
	return d
}

func structFields(typ reflect.Type) []Field {
	var fields []Field
	for _, sf := range reflect.VisibleFields(typ) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tag := ParseTag(sf)
		if tag.Ignore {
			continue
		}
		fields = append(fields, Field{
			Name:     sf.Name,
			Alias:    jsonName(sf),
			Index:    sf.Index,
			Type:     sf.Type,
			ReadOnly: tag.ReadOnly,
		})
	}
	return fields
}
