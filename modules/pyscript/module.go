// Package pyscript provides the 'python_script' runner: a python script
// invoked with a fixed argument list, typically the data directory.
package pyscript

import (
	"context"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Exec execx.Runner

	// Params supplies the default interpreter.
	Params config.Params
}

// Input defines the arguments for the 'arguments' block.
type Input struct {
	Script string   `tspipe:"script"`
	Args   []string `tspipe:"args"`
	// Interpreter overrides the -python parameter for one task.
	Interpreter string `tspipe:"interpreter"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	ExitCode int    `cty:"exit_code"`
	Stdout   string `cty:"stdout"`
}

// OnRunPythonScript is the handler for the 'python_script' runner.
func (m *Module) OnRunPythonScript(ctx context.Context, input *Input) (any, error) {
	interpreter := input.Interpreter
	if interpreter == "" {
		interpreter = m.Params.Python
	}

	ctxlog.FromContext(ctx).Info("Running python script.", "interpreter", interpreter, "script", input.Script, "args", input.Args)

	res, err := m.Exec.Run(ctx, execx.Spec{
		Command: interpreter,
		Args:    append([]string{input.Script}, input.Args...),
	})
	if err != nil {
		return nil, err
	}
	return &Output{ExitCode: res.ExitCode, Stdout: res.Stdout}, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("python_script", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Inputs: map[string]*config.InputDefinition{
			"script":      {Name: "script", Description: "Path to the python script.", Required: true},
			"args":        {Name: "args", Description: "Arguments passed to the script."},
			"interpreter": {Name: "interpreter", Description: "Interpreter override for this task."},
		},
		Fn: m.OnRunPythonScript,
	})
}
