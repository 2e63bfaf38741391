package typedpatch

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPath       = errors.New("path may not be empty")
	ErrEmptySegment    = errors.New("path segment may not be empty")
	ErrLeadingIndex    = errors.New("the first path segment may not be a collection index")
	ErrIndexNotAllowed = errors.New("collection index not allowed here")
	ErrInvalidIndex    = errors.New("invalid collection index")
	ErrUnknownProperty = errors.New("unknown property")
	ErrNotPointer      = errors.New("instance must be a pointer")
	ErrTypeMismatch    = errors.New("instance does not match the path type")
)

// PathParseError reports a path that does not resolve against a type.
type PathParseError struct {
	// Path is the path with leading and trailing separators removed.
	Path string
	// Segment is the offending segment.
	Segment string
	// Position is the byte offset of Segment in Path.
	Position int
	Err      error
}

func (e *PathParseError) Error() string {
	return fmt.Sprintf("the path %q is not valid at position %d (segment %q): %v", e.Path, e.Position, e.Segment, e.Err)
}

func (e *PathParseError) Unwrap() error {
	return e.Err
}

// NullTraversalError reports an absent object found while reading a path.
type NullTraversalError struct {
	Path string
	// Segment is the segment that could not be read from the absent object.
	Segment string
	// Component is the index of Segment among the path components.
	Component int
}

func (e *NullTraversalError) Error() string {
	if e.Component == 0 {
		return fmt.Sprintf("cannot read %q at %s: instance is nil", e.Segment, e.Path)
	}
	return fmt.Sprintf("cannot read %q at %s: parent is nil", e.Segment, e.Path)
}

// NullParentError reports that the container of the mutation target is absent.
type NullParentError struct {
	Path string
	// Err is the traversal error when the walk stopped before the parent.
	Err error
}

func (e *NullParentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parent of %s is nil: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parent of %s is nil", e.Path)
}

func (e *NullParentError) Unwrap() error {
	return e.Err
}

// DuplicateValueError reports an Add on a property that already has a value.
type DuplicateValueError struct {
	Path    string
	Current any
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("invalid add at %s: property already has a value", e.Path)
}

// IndexError reports a collection read outside of [0, Len).
type IndexError struct {
	Path  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of bounds [0:%d] at %s", e.Index, e.Len, e.Path)
}

// RangeError reports a collection write outside of the valid range for Op.
type RangeError struct {
	Path  string
	Op    Kind
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	upper := e.Len - 1
	if e.Op == Add {
		upper = e.Len
	}
	return fmt.Sprintf("invalid %s at %s: index %d out of range [0:%d]", e.Op, e.Path, e.Index, upper)
}

// UnsupportedOperationError reports an attempt to change the length of a
// fixed-size collection.
type UnsupportedOperationError struct {
	Path string
	Op   Kind
	Len  int
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("invalid %s at %s: fixed-size collection of length %d can not change length", e.Op, e.Path, e.Len)
}

// ReadOnlyError reports a mutation of a property tagged readonly.
type ReadOnlyError struct {
	Path     string
	Property string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("property %s is read-only (at %s)", e.Property, e.Path)
}
