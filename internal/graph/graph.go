package graph

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Graph is the mutable builder for a dependency graph. All operations are
// concurrency-safe, though construction is typically single-threaded.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all registered nodes, keyed by their unique name.
	nodes map[string]*Node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddSeed registers name as a seed node: a value supplied externally at
// resolve time. Re-registering an existing seed is a no-op. Registering a
// name already held by a derived node returns a *KindConflictError.
func (g *Graph) AddSeed(name string) error {
	if name == "" {
		return fmt.Errorf("seed node name must not be empty")
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if existing, ok := g.nodes[name]; ok {
		if existing.Kind == KindDerived {
			return &KindConflictError{Name: name, Existing: KindDerived}
		}
		return nil
	}

	g.nodes[name] = &Node{Name: name, Kind: KindSeed}
	return nil
}

// AddDerived registers name as a derived node over the given ordered inputs.
// The evaluator may be nil to mean "to be wired later"; any gaps remaining at
// resolve time surface as a single batched *MissingEvaluatorError.
//
// Re-registering an existing derived name overwrites the previous definition
// with a warning, so the last registration wins deterministically. Registering
// a name already held by a seed node returns a *KindConflictError, and a node
// listing itself as a direct input is rejected outright.
func (g *Graph) AddDerived(name string, inputs []string, ev Evaluator) error {
	if name == "" {
		return fmt.Errorf("derived node name must not be empty")
	}
	for _, input := range inputs {
		if input == name {
			return fmt.Errorf("self-referential input not allowed: %s -> %s", name, name)
		}
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if existing, ok := g.nodes[name]; ok {
		if existing.Kind == KindSeed {
			return &KindConflictError{Name: name, Existing: KindSeed}
		}
		slog.Warn("Duplicate derived node definition found, it will be overwritten.", "name", name)
	}

	node := &Node{Name: name, Kind: KindDerived, Evaluator: ev}
	if len(inputs) > 0 {
		node.Inputs = make([]string, len(inputs))
		copy(node.Inputs, inputs)
	}
	g.nodes[name] = node
	return nil
}

// Len returns the number of registered nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Names returns the names of all registered nodes in sorted order.
func (g *Graph) Names() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Finalize produces an immutable Snapshot of the graph's current state.
// Later mutations of the Graph do not affect snapshots already taken, so a
// snapshot can be resolved concurrently with further construction.
func (g *Graph) Finalize() *Snapshot {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	nodes := make(map[string]*Node, len(g.nodes))
	for name, node := range g.nodes {
		nodes[name] = node.clone()
	}
	return &Snapshot{nodes: nodes}
}
