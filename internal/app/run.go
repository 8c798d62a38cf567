package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/dag"
)

// Run executes the requested tasks, or renders the help catalog when none
// were requested.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	targets := normalizeTargets(a.config.Tasks)
	if len(targets) == 0 {
		return a.renderHelp()
	}

	a.logger.Debug("Building dependency graph...", "targets", targets)
	graph, err := dag.Build(ctx, a.model, targets)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", len(graph.Nodes))

	exec := dag.NewExecutor(graph, a.registry, a.converter, a.config.Params, a.host, a.config.Workers)
	a.logger.Info("🚀 Starting pipeline run.", "tasks", len(graph.Nodes), "workers", a.config.Workers)
	if err := exec.Run(ctx); err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	a.logger.Info("🏁 Pipeline finished.")

	a.logger.Debug("App.Run method finished.")
	return nil
}

// normalizeTargets strips the pseudo-task "help", which renders the
// catalog rather than running anything. "help" alongside real task names
// still means help, matching the default-goal behavior.
func normalizeTargets(tasks []string) []string {
	if slices.Contains(tasks, "help") {
		return nil
	}
	return tasks
}
