package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/constgrid/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// ComputeFunc is the signature of a registered formula. It receives the
// resolved input values of the node it is attached to and returns the node's
// value. Implementations must be pure functions of their inputs.
type ComputeFunc func(ctx context.Context, inputs map[string]cty.Value) (cty.Value, error)

// Registry holds all registered formulas for a single application instance.
type Registry struct {
	mutex    sync.RWMutex
	formulas map[string]ComputeFunc
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		formulas: make(map[string]ComputeFunc),
	}
}

// Register registers a compute function under the given name.
func (r *Registry) Register(name string, fn ComputeFunc) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.formulas[name]; exists {
		panic(fmt.Sprintf("formula with name '%s' already registered", name))
	}
	slog.Debug("Registering formula.", "name", name)
	r.formulas[name] = fn
}

// Lookup returns the compute function registered under name.
func (r *Registry) Lookup(name string) (ComputeFunc, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	fn, ok := r.formulas[name]
	return fn, ok
}

// Evaluator wraps the named formula as a graph.Evaluator whose provenance
// identifier is "formula:<name>". An unregistered name is an error.
func (r *Registry) Evaluator(name string) (graph.Evaluator, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown formula '%s'", name)
	}
	return graph.EvaluatorFunc("formula:"+name, fn), nil
}

// Names returns all registered formula names in sorted order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.formulas))
	for name := range r.formulas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
