package resolver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vk/constgrid/internal/ctxlog"
	"github.com/vk/constgrid/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// Resolver evaluates a graph snapshot. A Resolver holds no run state of its
// own: every Resolve call builds a fresh Result, so one Resolver may serve
// many runs, concurrently, with different seed maps.
type Resolver struct {
	snapshot *graph.Snapshot
	workers  int
	now      func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWorkers sets the number of concurrent evaluation workers. Values below
// two select the sequential walk.
func WithWorkers(n int) Option {
	return func(r *Resolver) { r.workers = n }
}

// withClock overrides the provenance timestamp source. Used by tests.
func withClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// New creates a Resolver for the given snapshot.
func New(snapshot *graph.Snapshot, opts ...Option) *Resolver {
	r := &Resolver{
		snapshot: snapshot,
		workers:  1,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve validates the snapshot against the supplied seed values and, if the
// structure is sound, evaluates every node in topological order. Structural
// errors abort the run before any evaluator is invoked; an evaluator failure
// aborts the remaining walk and surfaces as a *EvalError naming the node.
//
// An input referenced by some node but registered nowhere in the graph is
// legal as long as the seed map carries a value for it. Such external
// constants appear in Result.Values alongside the graph's own nodes, but not
// in Order or Trace: nothing was evaluated to produce them.
func (r *Resolver) Resolve(ctx context.Context, seeds map[string]cty.Value) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolve: validating snapshot structure.", "node_count", r.snapshot.Len())

	order, external, err := r.validate(seeds)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolve: validation passed.", "order_len", len(order), "external_inputs", len(external))

	result := &Result{
		RunID:  uuid.NewString(),
		Values: make(map[string]cty.Value, len(order)+len(external)),
		Order:  order,
		Trace:  make(map[string]TraceEntry, len(order)),
	}
	for name, value := range external {
		result.Values[name] = value
	}

	if r.workers > 1 {
		err = r.runParallel(ctx, seeds, external, result)
	} else {
		err = r.runSequential(ctx, seeds, result)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Resolve: run complete.", "run_id", result.RunID, "resolved", len(result.Values))
	return result, nil
}

// ResolveNumbers is a convenience wrapper accepting a flat map of numeric
// seed values, converting each to a cty number before resolving.
func (r *Resolver) ResolveNumbers(ctx context.Context, seeds map[string]float64) (*Result, error) {
	converted := make(map[string]cty.Value, len(seeds))
	for name, value := range seeds {
		converted[name] = cty.NumberFloatVal(value)
	}
	return r.Resolve(ctx, converted)
}

// validate performs the pre-flight structural checks, batched per failure
// family so callers can fix every gap of one kind in a single pass. It
// returns the deterministic evaluation order on success, plus the values of
// inputs that are absent from the graph but covered by the seed map. An input
// backed by neither the graph nor the seed map is an unresolved reference.
func (r *Resolver) validate(seeds map[string]cty.Value) ([]string, map[string]cty.Value, error) {
	order, err := r.snapshot.TopologicalOrder()
	if err != nil {
		return nil, nil, err
	}

	if missing := r.snapshot.MissingEvaluators(); len(missing) > 0 {
		return nil, nil, &graph.MissingEvaluatorError{Nodes: missing}
	}

	var external map[string]cty.Value
	if dangling := r.snapshot.DanglingInputs(); len(dangling) > 0 {
		unknown := make(map[string][]string)
		for input, referrers := range dangling {
			value, ok := seeds[input]
			if !ok {
				unknown[input] = referrers
				continue
			}
			if external == nil {
				external = make(map[string]cty.Value)
			}
			external[input] = value
		}
		if len(unknown) > 0 {
			return nil, nil, &graph.UnknownInputError{Inputs: unknown}
		}
	}

	var uncovered []string
	for _, name := range r.snapshot.SeedNames() {
		if _, ok := seeds[name]; !ok {
			uncovered = append(uncovered, name)
		}
	}
	if len(uncovered) > 0 {
		return nil, nil, &graph.MissingSeedError{Nodes: uncovered}
	}

	return order, external, nil
}

// runSequential walks the evaluation order in a single goroutine. Memoization
// is intrinsic: each node is visited exactly once and its value reused by
// every downstream consumer through the result map.
func (r *Resolver) runSequential(ctx context.Context, seeds map[string]cty.Value, result *Result) error {
	logger := ctxlog.FromContext(ctx)

	for _, name := range result.Order {
		if err := ctx.Err(); err != nil {
			return err
		}

		node, _ := r.snapshot.Node(name)
		value, entry, err := r.evaluateNode(ctx, &node, seeds, result.Values)
		if err != nil {
			logger.Error("Node evaluation failed.", "node", name, "error", err)
			return err
		}

		result.Values[name] = value
		result.Trace[name] = entry
	}
	return nil
}

// evaluateNode resolves a single node: seeds are copied from the seed map,
// derived nodes get an input snapshot built from already-resolved values and
// their evaluator invoked exactly once.
func (r *Resolver) evaluateNode(ctx context.Context, node *graph.Node, seeds, resolved map[string]cty.Value) (cty.Value, TraceEntry, error) {
	inputs := make(map[string]cty.Value, len(node.Inputs))
	for _, input := range node.Inputs {
		inputs[input] = resolved[input]
	}
	return r.evaluateResolved(ctx, node, seeds, inputs)
}
