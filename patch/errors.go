package patch

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOperation is returned when decoding an operation type this
// package does not implement ("copy", "test" or anything unknown).
var ErrUnsupportedOperation = errors.New("unsupported operation")

// BuildError reports an operation rejected while building a Set. Nothing is
// appended to the set when it is returned.
type BuildError struct {
	Op   OperationType
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("invalid %s operation at %q: %v", e.Op, e.Path, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ApplyError reports the first operation of a Set that failed to apply.
// Operations before Index were applied and stay applied.
type ApplyError struct {
	Index int
	Op    Operation
	Err   error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("operation %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
