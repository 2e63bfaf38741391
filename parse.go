package typedpatch

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/brunoga/typedpatch/schema"
)

// Parse converts path into components, validating every segment against the
// shape of root. Leading and trailing separators are ignored. Failures are
// reported as *PathParseError.
func (e *Engine) Parse(path string, root reflect.Type) (ParsedPath, error) {
	if strings.TrimSpace(path) == "" {
		return ParsedPath{}, &PathParseError{Path: path, Err: ErrEmptyPath}
	}
	if root == nil {
		return ParsedPath{}, &PathParseError{Path: path, Err: fmt.Errorf("%w: no root type", ErrUnknownProperty)}
	}

	// Positions are reported against the trimmed path.
	path = strings.Trim(path, "/")

	segments := strings.Split(path, "/")
	components := make([]Component, 0, len(segments))

	pos := 0
	current := e.registry.Describe(root)
	for _, segment := range segments {
		var previous Component
		if len(components) > 0 {
			previous = components[len(components)-1]
		}

		c, err := e.parseSegment(segment, current, previous)
		if err != nil {
			return ParsedPath{}, &PathParseError{Path: path, Segment: segment, Position: pos, Err: err}
		}

		components = append(components, c)
		current = c.Descriptor()
		pos += len(segment) + 1
	}

	return ParsedPath{components: components}, nil
}

// IsPathValid reports whether path parses against root.
func (e *Engine) IsPathValid(root reflect.Type, path string) bool {
	_, err := e.Parse(path, root)
	return err == nil
}

func (e *Engine) parseSegment(segment string, current *schema.Descriptor, previous Component) (Component, error) {
	if strings.TrimSpace(segment) == "" {
		return nil, ErrEmptySegment
	}

	if isIndex(segment) {
		if previous == nil {
			return nil, ErrLeadingIndex
		}
		if !current.IsCollection() {
			return nil, fmt.Errorf("%w: %q does not represent a collection type (%v)", ErrIndexNotAllowed, previous.Segment(), current.Type())
		}
		idx, err := strconv.Atoi(segment)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
		}
		return IndexComponent{
			Index: idx,
			Type:  e.registry.Describe(current.Elem()),
			Fixed: !current.Growable(),
		}, nil
	}

	field, ok := current.Property(segment)
	if !ok {
		return nil, fmt.Errorf("%w: there is no property named %q on type %v", ErrUnknownProperty, segment, current.Base())
	}

	return PropertyComponent{
		Name:  segment,
		Type:  e.registry.Describe(field.Type),
		field: field,
	}, nil
}

func isIndex(segment string) bool {
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return segment != ""
}
