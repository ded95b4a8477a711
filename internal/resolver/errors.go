package resolver

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// EvalError wraps a failure raised by a node's evaluator during the
// topological walk. It carries the failing node's name and the exact input
// snapshot the evaluator received, so callers can distinguish a bad
// computation from the structural errors reported before evaluation starts.
type EvalError struct {
	// Node is the name of the node whose evaluator failed.
	Node string
	// Inputs is the input snapshot passed to the failing evaluator.
	Inputs map[string]cty.Value
	// Err is the evaluator's underlying error.
	Err error
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("resolution failed at node '%s': %v", e.Node, e.Err)
}

// Unwrap exposes the underlying evaluator error for errors.Is and errors.As.
func (e *EvalError) Unwrap() error {
	return e.Err
}
