// Package patch accumulates ordered add, remove, replace and move operations
// against a typed entity and replays them in order.
package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/barkimedes/go-deepcopy"
	"github.com/mitchellh/copystructure"
	"github.com/rs/zerolog"

	"github.com/brunoga/typedpatch"
	"github.com/brunoga/typedpatch/convert"
	"github.com/brunoga/typedpatch/internal/metrics"
)

// Set is an ordered, append-only list of operations for entities of type T.
// Paths are validated against T when operations are added, so a Set only
// ever holds operations that parse.
type Set[T any] struct {
	engine *typedpatch.Engine
	log    zerolog.Logger
	ops    []Operation
}

// Option configures a Set.
type Option interface {
	apply(*config)
}

type config struct {
	engine *typedpatch.Engine
	log    *zerolog.Logger
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) {
	f(c)
}

// WithEngine sets the engine used to parse paths and apply mutations.
// Defaults to typedpatch.Default().
func WithEngine(e *typedpatch.Engine) Option {
	return optionFunc(func(c *config) {
		c.engine = e
	})
}

// WithLogger sets the logger for apply events. Defaults to the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return optionFunc(func(c *config) {
		c.log = &l
	})
}

// New creates a new empty Set.
func New[T any](opts ...Option) *Set[T] {
	c := config{engine: typedpatch.Default()}
	for _, opt := range opts {
		opt.apply(&c)
	}

	s := &Set[T]{engine: c.engine, log: c.engine.Logger()}
	if c.log != nil {
		s.log = *c.log
	}
	return s
}

// validatePath parses path against T and returns its normalized form.
func (s *Set[T]) validatePath(op OperationType, path string) (string, error) {
	p, err := s.engine.Parse(path, reflect.TypeOf((*T)(nil)))
	if err != nil {
		return "", &BuildError{Op: op, Path: path, Err: err}
	}
	return p.String(), nil
}

// Add appends an operation that adds value at path.
func (s *Set[T]) Add(path string, value any) error {
	return s.appendValue(OperationTypeAdd, path, value)
}

// Remove appends an operation that removes the value at path.
func (s *Set[T]) Remove(path string) error {
	return s.appendValue(OperationTypeRemove, path, nil)
}

// Replace appends an operation that replaces the value at path.
func (s *Set[T]) Replace(path string, value any) error {
	return s.appendValue(OperationTypeReplace, path, value)
}

func (s *Set[T]) appendValue(op OperationType, path string, value any) error {
	normalized, err := s.validatePath(op, path)
	if err != nil {
		return err
	}

	s.ops = append(s.ops, Operation{
		Op:    op,
		Path:  normalized,
		Value: value,
	})
	return nil
}

// Move appends an operation that moves the value at from to path. Both paths
// are validated independently; whether the value fits the destination is only
// known when the operation is applied.
func (s *Set[T]) Move(from, path string) error {
	normalizedFrom, err := s.validatePath(OperationTypeMove, from)
	if err != nil {
		return err
	}
	normalized, err := s.validatePath(OperationTypeMove, path)
	if err != nil {
		return err
	}

	s.ops = append(s.ops, Operation{
		Op:   OperationTypeMove,
		Path: normalized,
		From: normalizedFrom,
	})
	return nil
}

// Len returns the number of operations in the set.
func (s *Set[T]) Len() int {
	return len(s.ops)
}

// Operations returns a deep copy of the operations in the set.
func (s *Set[T]) Operations() []Operation {
	if len(s.ops) == 0 {
		return nil
	}

	cp, err := copystructure.Copy(s.ops)
	if err != nil {
		// Values copystructure can not walk are shared with the caller.
		return slices.Clone(s.ops)
	}
	return cp.([]Operation)
}

// ApplyTo applies the operations in the set to entity, in order. It stops at
// the first operation that fails and returns it wrapped in *ApplyError. The
// effects of the operations before it are kept.
func (s *Set[T]) ApplyTo(entity *T) error {
	start := time.Now()
	for i, op := range s.ops {
		if err := s.applyOperation(entity, op); err != nil {
			metrics.OperationsFailed.WithLabelValues(string(op.Op), errorType(err)).Inc()
			metrics.ApplyDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
			s.log.Debug().Err(err).Int("index", i).Str("op", string(op.Op)).Str("path", op.Path).Msg("operation failed")
			return &ApplyError{Index: i, Op: op, Err: err}
		}
		metrics.OperationsApplied.WithLabelValues(string(op.Op)).Inc()
		s.log.Debug().Int("index", i).Str("op", string(op.Op)).Str("path", op.Path).Msg("operation applied")
	}
	metrics.ApplyDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return nil
}

// Patched applies the set to a deep copy of entity and returns the copy. The
// original is never modified, even when an operation fails.
func (s *Set[T]) Patched(entity *T) (*T, error) {
	if entity == nil {
		return nil, &typedpatch.NullParentError{Path: "/"}
	}

	cp, err := deepcopy.Anything(entity)
	if err != nil {
		return nil, fmt.Errorf("copying entity: %w", err)
	}

	out := cp.(*T)
	if err := s.ApplyTo(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Set[T]) applyOperation(entity *T, op Operation) error {
	if kind, ok := op.Op.kind(); ok {
		return s.engine.Apply(entity, op.Path, op.Value, kind)
	}

	if op.Op != OperationTypeMove {
		return fmt.Errorf("%w: %q", ErrUnsupportedOperation, op.Op)
	}

	// The value is read when the operation runs, so earlier operations in the
	// set are visible to it.
	value, err := s.engine.Resolve(entity, op.From)
	if err != nil {
		return err
	}
	if err := s.engine.Apply(entity, op.From, nil, typedpatch.Remove); err != nil {
		return err
	}
	return s.engine.Apply(entity, op.Path, value, typedpatch.Add)
}

// MarshalJSON renders the set as a JSON Patch document.
func (s *Set[T]) MarshalJSON() ([]byte, error) {
	if s.ops == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ops)
}

// UnmarshalJSON appends the operations of a JSON Patch document to the set.
// The set is left unchanged if any operation is invalid.
func (s *Set[T]) UnmarshalJSON(doc []byte) error {
	if s.engine == nil {
		*s = *New[T]()
	}
	return s.decode(doc)
}

func errorType(err error) string {
	switch {
	case errors.As(err, new(*typedpatch.PathParseError)):
		return "path"
	case errors.As(err, new(*typedpatch.NullParentError)), errors.As(err, new(*typedpatch.NullTraversalError)):
		return "null"
	case errors.As(err, new(*typedpatch.DuplicateValueError)):
		return "duplicate"
	case errors.As(err, new(*typedpatch.IndexError)), errors.As(err, new(*typedpatch.RangeError)):
		return "range"
	case errors.As(err, new(*typedpatch.UnsupportedOperationError)):
		return "unsupported"
	case errors.As(err, new(*typedpatch.ReadOnlyError)):
		return "readonly"
	case errors.As(err, new(*convert.Error)):
		return "conversion"
	default:
		return "other"
	}
}
