package dag

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"

	"github.com/harel-coffee/tspipe-auto/internal/config"
)

// nodeState tracks a node through its lifecycle.
type nodeState int32

const (
	statePending nodeState = iota
	stateRunning
	stateDone
	stateFailed
)

// Node is a single task in the dependency graph.
type Node struct {
	ID   string
	Task *config.Task

	// Deps and Dependents are the incoming and outgoing edges.
	Deps       map[string]*Node
	Dependents map[string]*Node

	depCount atomic.Int32
	state    atomic.Int32
	skipOnce sync.Once

	// err and output are written by the worker that owns the node and
	// read only after the node reaches a terminal state.
	err    error
	output cty.Value
}

// Err returns the node's failure, nil if it succeeded or has not run.
func (n *Node) Err() error { return n.err }

// Output returns the node's evaluated output object.
func (n *Node) Output() cty.Value { return n.output }

// Failed reports whether the node finished in the failed state.
func (n *Node) Failed() bool { return nodeState(n.state.Load()) == stateFailed }

// Graph is a directed acyclic graph of task nodes.
type Graph struct {
	Nodes map[string]*Node
}

// newGraph returns an initialized, empty Graph.
func newGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// addNode adds a node for the task if one does not already exist.
func (g *Graph) addNode(task *config.Task) *Node {
	if n, ok := g.Nodes[task.Name]; ok {
		return n
	}
	n := &Node{
		ID:         task.Name,
		Task:       task,
		Deps:       make(map[string]*Node),
		Dependents: make(map[string]*Node),
	}
	g.Nodes[task.Name] = n
	return n
}

// addEdge records that toID depends on fromID.
func (g *Graph) addEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("task '%s' cannot depend on itself", fromID)
	}

	fromNode, ok := g.Nodes[fromID]
	if !ok {
		return fmt.Errorf("dependency '%s' is not a known task", fromID)
	}
	toNode, ok := g.Nodes[toID]
	if !ok {
		return fmt.Errorf("task '%s' is not a known task", toID)
	}

	if _, exists := toNode.Deps[fromID]; exists {
		return nil // explicit depends_on and an implicit reference may overlap
	}
	toNode.Deps[fromID] = fromNode
	fromNode.Dependents[toID] = toNode
	return nil
}

// detectCycles returns an error naming a node involved in a cycle, if any.
func (g *Graph) detectCycles() error {
	// Classic depth-first search with permanent and temporary marks.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if permanent[n.ID] {
			return nil
		}
		if temporary[n.ID] {
			return fmt.Errorf("dependency cycle detected involving task '%s'", n.ID)
		}

		temporary[n.ID] = true
		for _, dependent := range n.Dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, n.ID)
		permanent[n.ID] = true
		return nil
	}

	for _, n := range g.Nodes {
		if !permanent[n.ID] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}
