package dag

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
)

// Build constructs the dependency graph for the requested target tasks and
// their transitive dependencies. Edges come from explicit depends_on lists
// and from implicit `task.<name>` references inside argument expressions.
func Build(ctx context.Context, model *config.Model, targets []string) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	full := newGraph()
	for _, task := range model.Tasks {
		full.addNode(task)
	}

	for _, task := range model.Tasks {
		for _, dep := range task.DependsOn {
			if err := full.addEdge(dep, task.Name); err != nil {
				return nil, fmt.Errorf("task '%s': %w", task.Name, err)
			}
		}
		for _, dep := range implicitDeps(task) {
			if err := full.addEdge(dep, task.Name); err != nil {
				return nil, fmt.Errorf("task '%s' references task.%s: %w", task.Name, dep, err)
			}
		}
	}

	if err := full.detectCycles(); err != nil {
		return nil, err
	}

	selected, err := full.selectTargets(model, targets)
	if err != nil {
		return nil, err
	}

	for _, node := range selected.Nodes {
		node.depCount.Store(int32(len(node.Deps)))
	}

	logger.Debug("Dependency graph built.", "targets", targets, "node_count", len(selected.Nodes))
	return selected, nil
}

// implicitDeps extracts the set of task names referenced by `task.<name>`
// traversals inside the task's argument expressions.
func implicitDeps(task *config.Task) []string {
	set := make(map[string]bool)
	for _, expr := range task.Arguments {
		for _, traversal := range expr.Variables() {
			if traversal.RootName() != "task" || len(traversal) < 2 {
				continue
			}
			if attr, ok := traversal[1].(hcl.TraverseAttr); ok {
				set[attr.Name] = true
			}
		}
	}
	deps := make([]string, 0, len(set))
	for name := range set {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps
}

// selectTargets returns the subgraph reachable upstream from the targets.
func (g *Graph) selectTargets(model *config.Model, targets []string) (*Graph, error) {
	keep := make(map[string]bool)
	var mark func(n *Node)
	mark = func(n *Node) {
		if keep[n.ID] {
			return
		}
		keep[n.ID] = true
		for _, dep := range n.Deps {
			mark(dep)
		}
	}

	for _, target := range targets {
		node, ok := g.Nodes[target]
		if !ok {
			return nil, fmt.Errorf("unknown task '%s' (available: %v)", target, taskNames(model))
		}
		mark(node)
	}

	sub := newGraph()
	for id, node := range g.Nodes {
		if keep[id] {
			sub.addNode(node.Task)
		}
	}
	for id, node := range g.Nodes {
		if !keep[id] {
			continue
		}
		for depID := range node.Deps {
			if err := sub.addEdge(depID, id); err != nil {
				return nil, err
			}
		}
	}
	return sub, nil
}

func taskNames(model *config.Model) []string {
	names := make([]string, 0, len(model.Tasks))
	for _, t := range model.Tasks {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
