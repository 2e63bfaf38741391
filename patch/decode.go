package patch

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/goccy/go-yaml"

	"github.com/brunoga/typedpatch/convert"
)

// Decode builds a Set from a JSON Patch (RFC 6902) document. Only the add,
// remove, replace and move operations are supported; every path is
// validated against T as if the operation had been added by hand.
func Decode[T any](doc []byte, opts ...Option) (*Set[T], error) {
	s := New[T](opts...)
	if err := s.decode(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeYAML is like Decode for a JSON Patch document written in YAML.
func DecodeYAML[T any](doc []byte, opts ...Option) (*Set[T], error) {
	bs, err := yaml.YAMLToJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("converting patch document to JSON: %w", err)
	}
	return Decode[T](bs, opts...)
}

func (s *Set[T]) decode(doc []byte) error {
	ops, err := jsonpatch.DecodePatch(doc)
	if err != nil {
		return fmt.Errorf("decoding patch document: %w", err)
	}

	// Build into a scratch set so a bad document leaves s untouched.
	scratch := &Set[T]{engine: s.engine, log: s.log}
	for i, op := range ops {
		if err := scratch.decodeOperation(op); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}

	s.ops = append(s.ops, scratch.ops...)
	return nil
}

func (s *Set[T]) decodeOperation(op jsonpatch.Operation) error {
	kind := OperationType(op.Kind())

	path, err := op.Path()
	if err != nil {
		return err
	}

	switch kind {
	case OperationTypeAdd, OperationTypeReplace:
		value, err := op.ValueInterface()
		if err != nil {
			return fmt.Errorf("%s %s: %w", kind, path, err)
		}
		// Decoded numbers are literals of a type private to the decoder.
		return s.appendValue(kind, path, convert.JSONNumbers(value))
	case OperationTypeRemove:
		return s.Remove(path)
	case OperationTypeMove:
		from, err := op.From()
		if err != nil {
			return err
		}
		return s.Move(from, path)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOperation, kind)
	}
}
