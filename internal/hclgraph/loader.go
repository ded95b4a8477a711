package hclgraph

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/constgrid/internal/ctxlog"
	"github.com/vk/constgrid/internal/fsutil"
	"github.com/vk/constgrid/internal/graph"
	"github.com/vk/constgrid/internal/registry"
)

// Loader translates HCL definition files into a dependency graph, resolving
// formula references through the provided registry.
type Loader struct {
	registry *registry.Registry
}

// NewLoader creates a Loader backed by the given formula registry.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{registry: reg}
}

// Load parses every .hcl file under path (a single file or a directory tree)
// and populates a new graph with the declared seed and derived nodes. Files
// are processed in sorted path order, so repeated loads of an unchanged tree
// build identical graphs.
func (l *Loader) Load(ctx context.Context, path string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loader: searching for definition files.", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to walk definitions path %s: %w", path, err)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl definition files found in path.", "path", path)
		return graph.New(), nil
	}
	logger.Debug("Loader: found definition files.", "count", len(filePaths))

	parser := hclparse.NewParser()
	g := graph.New()

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var file File
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode definition file %s: %w", filePath, diags)
		}

		if err := l.register(ctx, g, &file, filePath); err != nil {
			return nil, err
		}
		logger.Debug("Loader: definitions registered from file.", "file", filePath,
			"seeds", len(file.Seeds), "consts", len(file.Consts))
	}

	logger.Info("Definition files loaded.", "files", len(filePaths), "node_count", g.Len())
	return g, nil
}

// register adds one file's blocks to the graph.
func (l *Loader) register(ctx context.Context, g *graph.Graph, file *File, filePath string) error {
	for _, seed := range file.Seeds {
		if err := g.AddSeed(seed.Name); err != nil {
			return fmt.Errorf("in %s: %w", filePath, err)
		}
	}

	for _, c := range file.Consts {
		inputs, ev, err := l.deriveNode(c, filePath)
		if err != nil {
			return err
		}
		if err := g.AddDerived(c.Name, inputs, ev); err != nil {
			return fmt.Errorf("in %s: %w", filePath, err)
		}
	}
	return nil
}

// deriveNode works out a const block's dependency list and evaluator.
// Explicitly declared inputs come first, then implicit references discovered
// from the expression, duplicates removed.
func (l *Loader) deriveNode(c *Const, filePath string) ([]string, graph.Evaluator, error) {
	hasExpr := exprPresent(c.Expr)
	if hasExpr && c.Formula != "" {
		return nil, nil, fmt.Errorf("in %s: const '%s': expr and formula are mutually exclusive", filePath, c.Name)
	}

	inputs := append([]string{}, c.Inputs...)
	seen := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		seen[input] = struct{}{}
	}

	var ev graph.Evaluator
	switch {
	case hasExpr:
		for _, dep := range exprDeps(c.Expr) {
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			inputs = append(inputs, dep)
		}
		id := fmt.Sprintf("expr:%s:%d", filepath.Base(filePath), c.Expr.Range().Start.Line)
		ev = &exprEvaluator{id: id, expr: c.Expr}

	case c.Formula != "":
		formulaEv, err := l.registry.Evaluator(c.Formula)
		if err != nil {
			return nil, nil, fmt.Errorf("in %s: const '%s': %w", filePath, c.Name, err)
		}
		ev = formulaEv
	}

	return inputs, ev, nil
}
