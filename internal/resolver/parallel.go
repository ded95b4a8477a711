package resolver

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vk/constgrid/internal/ctxlog"
	"github.com/vk/constgrid/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// runNode is the per-run scheduling state for one node. It lives only for
// the duration of a single parallel resolve; the snapshot itself stays
// untouched.
type runNode struct {
	node       graph.Node
	dependents []string
	// depCount is the number of unmet dependencies, decremented as they resolve.
	depCount atomic.Int32
	// skipOnce ensures a node abandoned after an upstream failure is
	// accounted for exactly once.
	skipOnce sync.Once
}

// runState is the shared mutable state of one parallel resolve run.
type runState struct {
	mu     sync.Mutex
	values map[string]cty.Value
	trace  map[string]TraceEntry
	err    error
}

// fail records the first failure of the run.
func (st *runState) fail(err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err == nil {
		st.err = err
	}
}

// store records one node's resolved value and trace entry.
func (st *runState) store(name string, value cty.Value, entry TraceEntry) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.values[name] = value
	st.trace[name] = entry
}

// inputsOf snapshots the resolved values of the given input names.
func (st *runState) inputsOf(inputs []string) map[string]cty.Value {
	st.mu.Lock()
	defer st.mu.Unlock()
	snapshot := make(map[string]cty.Value, len(inputs))
	for _, input := range inputs {
		snapshot[input] = st.values[input]
	}
	return snapshot
}

// runParallel evaluates the graph with a pool of workers walking the ready
// frontier. Nodes whose dependencies are all resolved are pushed onto a ready
// channel; any worker may pick them up. The first evaluator failure cancels
// the run and recursively skips all downstream nodes. Because evaluators are
// pure, the resulting values are identical to the sequential walk.
func (r *Resolver) runParallel(ctx context.Context, seeds, external map[string]cty.Value, result *Result) error {
	logger := ctxlog.FromContext(ctx)

	nodes := make(map[string]*runNode, len(result.Order))
	for _, name := range result.Order {
		node, _ := r.snapshot.Node(name)
		nodes[name] = &runNode{node: node}
	}
	for name, rn := range nodes {
		// External inputs carry no scheduling state: their values are known
		// before the run starts, so they never gate readiness.
		pending := int32(0)
		for _, input := range rn.node.Inputs {
			upstream, ok := nodes[input]
			if !ok {
				continue
			}
			upstream.dependents = append(upstream.dependents, name)
			pending++
		}
		rn.depCount.Store(pending)
	}

	state := &runState{
		values: make(map[string]cty.Value, len(nodes)+len(external)),
		trace:  make(map[string]TraceEntry, len(nodes)),
	}
	for name, value := range external {
		state.values[name] = value
	}

	readyChan := make(chan *runNode, len(nodes))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootCount := 0
	for _, rn := range nodes {
		if rn.depCount.Load() == 0 {
			readyChan <- rn
			rootCount++
		}
	}
	logger.Debug("Parallel resolve: root nodes queued.", "count", rootCount, "workers", r.workers)

	var wg sync.WaitGroup
	wg.Add(len(nodes))

	for i := 0; i < r.workers; i++ {
		go r.worker(runCtx, readyChan, cancel, &wg, nodes, seeds, state)
	}

	wg.Wait()
	close(readyChan)

	if state.err != nil {
		return state.err
	}

	for name, value := range state.values {
		result.Values[name] = value
	}
	for name, entry := range state.trace {
		result.Trace[name] = entry
	}
	return nil
}

// worker is the core processing loop for a single concurrent worker.
func (r *Resolver) worker(ctx context.Context, readyChan chan *runNode, cancel context.CancelFunc, wg *sync.WaitGroup, nodes map[string]*runNode, seeds map[string]cty.Value, state *runState) {
	logger := ctxlog.FromContext(ctx)

	for rn := range readyChan {
		if ctx.Err() != nil {
			rn.skipOnce.Do(func() {
				state.fail(ctx.Err())
				skipDependents(rn, nodes, wg)
				wg.Done()
			})
			continue
		}

		inputs := state.inputsOf(rn.node.Inputs)
		value, entry, err := r.evaluateResolved(ctx, &rn.node, seeds, inputs)
		if err != nil {
			logger.Error("Node evaluation failed.", "node", rn.node.Name, "error", err)
			state.fail(err)
			cancel()
			skipDependents(rn, nodes, wg)
			wg.Done()
			continue
		}

		state.store(rn.node.Name, value, entry)

		for _, depName := range rn.dependents {
			dependent := nodes[depName]
			if dependent.depCount.Add(-1) == 0 {
				readyChan <- dependent
			}
		}
		wg.Done()
	}
}

// evaluateResolved mirrors evaluateNode but takes a pre-built input snapshot,
// since parallel workers must read shared values under the run-state lock.
func (r *Resolver) evaluateResolved(ctx context.Context, node *graph.Node, seeds, inputs map[string]cty.Value) (cty.Value, TraceEntry, error) {
	if node.Kind == graph.KindSeed {
		return seeds[node.Name], TraceEntry{
			Node:        node.Name,
			EvaluatorID: seedEvaluatorID,
			ResolvedAt:  r.now(),
		}, nil
	}

	value, err := node.Evaluator.Evaluate(ctx, inputs)
	if err != nil {
		return cty.NilVal, TraceEntry{}, &EvalError{Node: node.Name, Inputs: inputs, Err: err}
	}

	return value, TraceEntry{
		Node:        node.Name,
		EvaluatorID: node.Evaluator.ID(),
		Inputs:      inputs,
		ResolvedAt:  r.now(),
	}, nil
}

// skipDependents recursively marks all downstream nodes of a failed node as
// abandoned so the WaitGroup still reaches zero.
func skipDependents(rn *runNode, nodes map[string]*runNode, wg *sync.WaitGroup) {
	for _, depName := range rn.dependents {
		dependent := nodes[depName]
		dependent.skipOnce.Do(func() {
			wg.Done()
			skipDependents(dependent, nodes, wg)
		})
	}
}
