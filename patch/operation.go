package patch

import (
	"encoding/json"
	"fmt"

	"github.com/brunoga/typedpatch"
)

// OperationType defines the allowed operation types.
type OperationType string

const (
	OperationTypeAdd     OperationType = "add"
	OperationTypeRemove  OperationType = "remove"
	OperationTypeReplace OperationType = "replace"
	OperationTypeMove    OperationType = "move"
)

// Operation represents a single operation in a Set.
type Operation struct {
	Op    OperationType `json:"op"`
	Path  string        `json:"path"`
	From  string        `json:"from,omitempty"` // Used for "move"
	Value any           `json:"value"`          // Used for "add", "replace"
}

type wireOperation struct {
	Op    OperationType `json:"op"`
	Path  string        `json:"path"`
	From  string        `json:"from,omitempty"`
	Value *any          `json:"value,omitempty"`
}

// MarshalJSON renders the operation as a JSON Patch operation. Add and
// replace always carry a value member, null included.
func (o Operation) MarshalJSON() ([]byte, error) {
	w := wireOperation{Op: o.Op, Path: o.Path, From: o.From}
	if o.Op == OperationTypeAdd || o.Op == OperationTypeReplace {
		w.Value = &o.Value
	}
	return json.Marshal(w)
}

func (o Operation) String() string {
	if o.Op == OperationTypeMove {
		return fmt.Sprintf("%s %s -> %s", o.Op, o.From, o.Path)
	}
	return fmt.Sprintf("%s %s", o.Op, o.Path)
}

// kind maps single location operation types to mutation kinds.
func (t OperationType) kind() (typedpatch.Kind, bool) {
	switch t {
	case OperationTypeAdd:
		return typedpatch.Add, true
	case OperationTypeRemove:
		return typedpatch.Remove, true
	case OperationTypeReplace:
		return typedpatch.Replace, true
	default:
		return 0, false
	}
}
