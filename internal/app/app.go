package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/constgrid/internal/ctxlog"
	"github.com/vk/constgrid/internal/graph"
	"github.com/vk/constgrid/internal/hclgraph"
	"github.com/vk/constgrid/internal/physics"
	"github.com/vk/constgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	graph    *graph.Graph
	// defaults are the built-in model's seed values, overlaid by seed files
	// and CLI assignments at run time. Empty for HCL-defined graphs.
	defaults map[string]cty.Value
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry, a
// constructed (but not yet resolved) dependency graph, and the model's
// default seeds when a built-in model is selected.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	physics.RegisterFormulas(reg)
	logger.Debug("Formula registry populated.", "formulas", len(reg.Names()))

	var (
		g        *graph.Graph
		defaults map[string]cty.Value
		err      error
	)
	switch {
	case cfg.Model == physics.ModelName:
		g, err = physics.BuildGraph(ctx, reg)
		defaults = physics.SeedValues()
	case cfg.Model != "":
		return nil, fmt.Errorf("unknown built-in model '%s'", cfg.Model)
	default:
		loader := hclgraph.NewLoader(reg)
		g, err = loader.Load(ctx, cfg.DefsPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	logger.Debug("Dependency graph constructed.", "node_count", g.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		graph:    g,
		defaults: defaults,
	}, nil
}

// Graph returns the application's dependency graph. This is primarily for testing.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

// Registry returns the application's formula registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
