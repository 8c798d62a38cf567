// Package print provides the 'print' runner, a debugging aid that writes
// an argument map to the task runner's output in a stable order.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Out io.Writer
}

// Input defines the arguments for the 'arguments' block.
type Input struct {
	Value map[string]string `tspipe:"value"`
}

// OnRunPrint is the handler for the 'print' runner.
func (m *Module) OnRunPrint(ctx context.Context, input *Input) (any, error) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	if len(input.Value) == 0 {
		fmt.Fprintln(out, "      (empty)")
		return nil, nil
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(input.Value))
	for k := range input.Value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(out, "      %s = %q\n", k, input.Value[k])
	}

	return nil, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("print", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Inputs: map[string]*config.InputDefinition{
			"value": {Name: "value", Description: "Map of values to print."},
		},
		Fn: m.OnRunPrint,
	})
}
