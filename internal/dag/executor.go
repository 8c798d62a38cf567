package dag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/hostenv"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// Executor runs a built graph through a pool of workers. The worker count
// defaults to one, which makes a run strictly sequential in dependency
// order; pipelines whose tasks are independent can opt into more.
type Executor struct {
	graph      *Graph
	registry   *registry.Registry
	converter  config.Converter
	params     config.Params
	host       hostenv.Host
	numWorkers int
	wg         sync.WaitGroup
}

// NewExecutor creates an executor for the given graph.
func NewExecutor(graph *Graph, reg *registry.Registry, converter config.Converter, params config.Params, host hostenv.Host, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{
		graph:      graph,
		registry:   reg,
		converter:  converter,
		params:     params,
		host:       host,
		numWorkers: workers,
	}
}

// Run executes every node in the graph, aborting the run on the first
// failure. It respects cancellation from the provided context.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *Node, len(e.graph.Nodes))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootCount := 0
	for _, node := range e.graph.Nodes {
		if node.depCount.Load() == 0 {
			readyChan <- node
			rootCount++
		}
	}
	logger.Debug("Executor initialized.", "roots", rootCount, "workers", e.numWorkers)

	e.wg.Add(len(e.graph.Nodes))
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}

	e.wg.Wait()
	close(readyChan)

	var failedTasks []string
	var rootCause error
	for _, node := range e.graph.Nodes {
		if !node.Failed() {
			continue
		}
		logger.Error("Task failed.", "task", node.ID, "error", node.err)
		// A "skipped" error is a symptom, not a cause.
		if node.err != nil && !strings.HasPrefix(node.err.Error(), "skipped") && !errors.Is(node.err, context.Canceled) {
			failedTasks = append(failedTasks, node.ID)
			if rootCause == nil {
				rootCause = node.err
			}
		}
	}

	if rootCause != nil {
		return failureSummary(failedTasks, rootCause)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// failureSummary folds the failed task names and the first real failure
// into one error.
func failureSummary(failed []string, rootCause error) error {
	noun := "task"
	if len(failed) > 1 {
		noun = "tasks"
	}
	return fmt.Errorf("%s %s failed: %w", noun, strings.Join(failed, ", "), rootCause)
}

// skipDependents recursively marks all downstream nodes as failed.
func (e *Executor) skipDependents(ctx context.Context, node *Node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range node.Dependents {
		dependent.skipOnce.Do(func() {
			logger.Warn("Skipping task due to upstream failure.", "task", dependent.ID, "dependency", node.ID)
			dependent.state.Store(int32(stateFailed))
			dependent.err = fmt.Errorf("skipped due to upstream failure of '%s'", node.ID)
			e.wg.Done()
			e.skipDependents(ctx, dependent)
		})
	}
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *Node, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)

	for node := range readyChan {
		taskLogger := logger.With("workerID", workerID, "task", node.ID)

		if ctx.Err() != nil {
			node.skipOnce.Do(func() {
				taskLogger.Warn("Context canceled, skipping task.")
				node.state.Store(int32(stateFailed))
				node.err = ctx.Err()
				e.wg.Done()
				// This node will never decrement its dependents'
				// counters, so they must be skipped here or wg.Wait
				// never returns.
				e.skipDependents(ctx, node)
			})
			continue
		}

		node.state.Store(int32(stateRunning))
		err := e.runNode(ctx, node)
		if err != nil {
			taskLogger.Error("Task execution failed.", "error", err)
			node.state.Store(int32(stateFailed))
			node.err = err
			cancel()
			e.skipDependents(ctx, node)
			e.wg.Done()
			continue
		}

		node.state.Store(int32(stateDone))
		for _, dependent := range node.Dependents {
			if dependent.depCount.Add(-1) == 0 {
				readyChan <- dependent
			}
		}
		e.wg.Done()
	}
}
