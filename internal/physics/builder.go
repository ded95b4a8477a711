package physics

import (
	"context"
	"fmt"

	"github.com/vk/constgrid/internal/ctxlog"
	"github.com/vk/constgrid/internal/graph"
	"github.com/vk/constgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ModelName is the identifier the CLI uses to select the built-in model.
const ModelName = "pm"

// seedNames lists the model's seed topological integers.
var seedNames = []string{
	"topology.b2",
	"topology.b3",
	"topology.chi",
	"topology.nu",
}

// derivedNode pairs a node name with the formula that computes it and the
// inputs the formula reads.
type derivedNode struct {
	name    string
	formula string
	inputs  []string
}

// derivedNodes declares the model's derived constants. Order is irrelevant:
// the resolver works the evaluation order out topologically.
var derivedNodes = []derivedNode{
	{"geometry.volume_factor", "geometry.volume_factor", []string{"topology.b2", "topology.b3"}},
	{"geometry.curvature_index", "geometry.curvature_index", []string{"topology.chi", "topology.nu"}},
	{"pm.alpha_inverse", "pm.alpha_inverse", []string{"geometry.volume_factor", "geometry.curvature_index"}},
	{"pm.mass_ratio", "pm.mass_ratio", []string{"geometry.volume_factor", "topology.nu"}},
	{"pm.weak_angle", "pm.weak_angle", []string{"geometry.curvature_index"}},
}

// BuildGraph populates a new dependency graph with the pm model's nodes,
// wiring each derived node to its registered formula.
func BuildGraph(ctx context.Context, reg *registry.Registry) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := graph.New()

	for _, name := range seedNames {
		if err := g.AddSeed(name); err != nil {
			return nil, fmt.Errorf("failed to register seed '%s': %w", name, err)
		}
	}

	for _, d := range derivedNodes {
		ev, err := reg.Evaluator(d.formula)
		if err != nil {
			return nil, fmt.Errorf("failed to wire node '%s': %w", d.name, err)
		}
		if err := g.AddDerived(d.name, d.inputs, ev); err != nil {
			return nil, fmt.Errorf("failed to register node '%s': %w", d.name, err)
		}
	}

	logger.Debug("Built-in model graph constructed.", "model", ModelName, "node_count", g.Len())
	return g, nil
}

// SeedValues returns the model's default seed integers. Callers may overlay
// values from seed files or CLI assignments before resolving.
func SeedValues() map[string]cty.Value {
	return map[string]cty.Value{
		"topology.b2":  cty.NumberIntVal(21),
		"topology.b3":  cty.NumberIntVal(77),
		"topology.chi": cty.NumberIntVal(72),
		"topology.nu":  cty.NumberIntVal(24),
	}
}
