package resolver

import (
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Result is the artifact of a single resolve run. Each run owns its own
// Result; resolving the same snapshot again produces a fresh one.
type Result struct {
	// RunID uniquely identifies this resolve run for audit trails.
	RunID string
	// Values maps every node name to its resolved value, seeds included.
	Values map[string]cty.Value
	// Order is the topological evaluation order actually used.
	Order []string
	// Trace records per-node provenance, keyed by node name.
	Trace map[string]TraceEntry
}

// TraceEntry records how one node's value came to be: which evaluator ran,
// the exact input snapshot it received, and when. Seed nodes carry the
// pseudo-identifier "seed" and an empty input snapshot.
type TraceEntry struct {
	// Node is the name of the resolved node.
	Node string
	// EvaluatorID identifies the compute capability that produced the value.
	EvaluatorID string
	// Inputs is the input-value snapshot passed to the evaluator.
	Inputs map[string]cty.Value
	// ResolvedAt is the wall-clock time the value was recorded.
	ResolvedAt time.Time
}

// seedEvaluatorID is the provenance identifier recorded for seed nodes.
const seedEvaluatorID = "seed"
