package app

import (
	"context"
	"fmt"

	"github.com/vk/constgrid/internal/ctxlog"
	"github.com/vk/constgrid/internal/report"
	"github.com/vk/constgrid/internal/resolver"
	"github.com/vk/constgrid/internal/seedfile"
	"github.com/zclconf/go-cty/cty"
)

// Run executes the main application logic: gather seeds, resolve the graph,
// write the constants report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	seeds, err := a.gatherSeeds()
	if err != nil {
		return err
	}
	a.logger.Debug("Seed values gathered.", "count", len(seeds))

	snapshot := a.graph.Finalize()
	if snapshot.Len() == 0 {
		a.logger.Warn("No nodes found in graph, nothing to resolve.")
		return nil
	}

	a.logger.Info("Starting resolution...", "node_count", snapshot.Len(), "workers", a.config.WorkerCount)
	res := resolver.New(snapshot, resolver.WithWorkers(a.config.WorkerCount))
	result, err := res.Resolve(ctx, seeds)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}
	a.logger.Info("Resolution finished.", "run_id", result.RunID, "resolved", len(result.Values))

	if a.config.OutPath != "" {
		if err := report.WriteFile(a.config.OutPath, result); err != nil {
			return err
		}
		a.logger.Info("Report written.", "path", a.config.OutPath)
		return nil
	}
	return report.Write(a.outW, result)
}

// gatherSeeds overlays seed sources in precedence order: built-in model
// defaults, then the seed file, then CLI assignments.
func (a *App) gatherSeeds() (map[string]cty.Value, error) {
	var fromFile map[string]cty.Value
	if a.config.SeedFile != "" {
		loaded, err := seedfile.LoadFile(a.config.SeedFile)
		if err != nil {
			return nil, err
		}
		fromFile = loaded
	}

	fromFlags, err := seedfile.ParseAssignments(a.config.SeedAssignments)
	if err != nil {
		return nil, err
	}

	return seedfile.Merge(a.defaults, fromFile, fromFlags), nil
}
