package graph

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Kind distinguishes between externally supplied and computed nodes.
type Kind int

const (
	// KindSeed marks a value supplied from outside the graph at resolve time.
	KindSeed Kind = iota
	// KindDerived marks a value produced by an evaluator over named inputs.
	KindDerived
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSeed:
		return "seed"
	case KindDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// Evaluator is the compute capability attached to a derived node. It receives
// a snapshot of the node's resolved input values and returns the node's value.
// Implementations must be pure functions of their inputs: the resolver may
// invoke evaluators from multiple goroutines when running with a worker pool.
type Evaluator interface {
	// ID identifies the evaluator for provenance records,
	// e.g. "formula:pm.alpha_inverse" or "expr:pm.hcl:12".
	ID() string
	// Evaluate computes the node's value from its resolved inputs.
	Evaluate(ctx context.Context, inputs map[string]cty.Value) (cty.Value, error)
}

// EvaluatorFunc adapts a closure into an Evaluator with the given provenance ID.
func EvaluatorFunc(id string, fn func(ctx context.Context, inputs map[string]cty.Value) (cty.Value, error)) Evaluator {
	return &funcEvaluator{id: id, fn: fn}
}

type funcEvaluator struct {
	id string
	fn func(ctx context.Context, inputs map[string]cty.Value) (cty.Value, error)
}

func (e *funcEvaluator) ID() string { return e.id }

func (e *funcEvaluator) Evaluate(ctx context.Context, inputs map[string]cty.Value) (cty.Value, error) {
	return e.fn(ctx, inputs)
}

// Node is a single named slot in the graph: either a seed or a derived value.
type Node struct {
	// Name is the unique, dotted identifier for the node, e.g. "topology.b3".
	Name string
	// Kind distinguishes seed nodes from derived nodes.
	Kind Kind
	// Inputs lists the names this node depends on, in declaration order.
	// Always empty for seed nodes.
	Inputs []string
	// Evaluator computes the node's value. Nil is legal during construction
	// ("to be wired later") but every derived node must have one before
	// resolution; the resolver reports all gaps in a single batched error.
	Evaluator Evaluator
}

// clone returns a deep copy of the node. Evaluators are shared, not copied:
// they are required to be stateless.
func (n *Node) clone() *Node {
	c := &Node{
		Name:      n.Name,
		Kind:      n.Kind,
		Evaluator: n.Evaluator,
	}
	if len(n.Inputs) > 0 {
		c.Inputs = make([]string, len(n.Inputs))
		copy(c.Inputs, n.Inputs)
	}
	return c
}
