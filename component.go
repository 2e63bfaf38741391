package typedpatch

import (
	"strconv"
	"strings"

	"github.com/brunoga/typedpatch/schema"
)

// Component is one resolved segment of a path. The only implementations are
// PropertyComponent and IndexComponent.
type Component interface {
	// Segment returns the path segment the component was parsed from.
	Segment() string
	// Descriptor returns the static type of the value the component
	// addresses.
	Descriptor() *schema.Descriptor

	isComponent()
}

// PropertyComponent addresses a named property of an object.
type PropertyComponent struct {
	Name  string
	Type  *schema.Descriptor
	field schema.Field
}

func (c PropertyComponent) Segment() string {
	return c.Name
}

func (c PropertyComponent) Descriptor() *schema.Descriptor {
	return c.Type
}

// Field returns the struct field backing the property.
func (c PropertyComponent) Field() schema.Field {
	return c.field
}

func (PropertyComponent) isComponent() {}

// IndexComponent addresses an element of an ordered collection.
type IndexComponent struct {
	Index int
	// Type is the element type of the collection.
	Type *schema.Descriptor
	// Fixed is true when the collection is a fixed-size array.
	Fixed bool
}

func (c IndexComponent) Segment() string {
	return strconv.Itoa(c.Index)
}

func (c IndexComponent) Descriptor() *schema.Descriptor {
	return c.Type
}

func (IndexComponent) isComponent() {}

// ParsedPath is an immutable, non-empty sequence of components.
type ParsedPath struct {
	components []Component
}

func (p ParsedPath) Len() int {
	return len(p.components)
}

// At returns the i-th component.
func (p ParsedPath) At(i int) Component {
	return p.components[i]
}

// Last returns the final component.
func (p ParsedPath) Last() Component {
	return p.components[len(p.components)-1]
}

// Components returns a copy of the component sequence.
func (p ParsedPath) Components() []Component {
	res := make([]Component, len(p.components))
	copy(res, p.components)
	return res
}

// String returns the normalized form of the path ("/A/0/B").
func (p ParsedPath) String() string {
	return joinSegments(p.components)
}

func joinSegments(components []Component) string {
	if len(components) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, c := range components {
		b.WriteByte('/')
		b.WriteString(c.Segment())
	}
	return b.String()
}
