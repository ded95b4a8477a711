package graph

import (
	"fmt"
	"sort"
	"strings"
)

// CycleError reports a dependency cycle. Path holds the closed loop in
// dependency order starting at its lexicographically smallest node; the
// first node is not repeated at the end.
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "dependency cycle detected"
	}
	loop := append(append([]string{}, e.Path...), e.Path[0])
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(loop, " -> "))
}

// MissingEvaluatorError reports every derived node that has no evaluator
// attached. The resolver raises it once with the complete list so callers
// can wire all gaps in a single pass.
type MissingEvaluatorError struct {
	Nodes []string
}

// Error implements the error interface.
func (e *MissingEvaluatorError) Error() string {
	return fmt.Sprintf("derived nodes missing an evaluator: %s", strings.Join(e.Nodes, ", "))
}

// MissingSeedError reports every seed node for which the caller supplied no
// value at resolve time.
type MissingSeedError struct {
	Nodes []string
}

// Error implements the error interface.
func (e *MissingSeedError) Error() string {
	return fmt.Sprintf("seed nodes missing a supplied value: %s", strings.Join(e.Nodes, ", "))
}

// UnknownInputError reports input names referenced by some node but absent
// from the graph. Inputs maps each unknown name to the nodes referencing it.
type UnknownInputError struct {
	Inputs map[string][]string
}

// Error implements the error interface.
func (e *UnknownInputError) Error() string {
	names := make([]string, 0, len(e.Inputs))
	for name := range e.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		refs := append([]string{}, e.Inputs[name]...)
		sort.Strings(refs)
		parts = append(parts, fmt.Sprintf("'%s' (referenced by %s)", name, strings.Join(refs, ", ")))
	}
	return fmt.Sprintf("inputs reference unknown nodes: %s", strings.Join(parts, "; "))
}

// KindConflictError reports an attempt to register a name under one kind
// when it is already registered under the other.
type KindConflictError struct {
	Name     string
	Existing Kind
}

// Error implements the error interface.
func (e *KindConflictError) Error() string {
	return fmt.Sprintf("node '%s' is already registered as a %s node", e.Name, e.Existing)
}
