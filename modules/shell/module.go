// Package shell provides the 'shell' runner: one external command executed
// through the shared exec gateway.
package shell

import (
	"context"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Exec execx.Runner
}

// Input defines the arguments for the 'arguments' block.
type Input struct {
	Command string            `tspipe:"command"`
	Args    []string          `tspipe:"args"`
	Dir     string            `tspipe:"dir"`
	Env     map[string]string `tspipe:"env"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	ExitCode int    `cty:"exit_code"`
	Stdout   string `cty:"stdout"`
}

// OnRunShell is the handler for the 'shell' runner.
func (m *Module) OnRunShell(ctx context.Context, input *Input) (any, error) {
	res, err := m.Exec.Run(ctx, execx.Spec{
		Command: input.Command,
		Args:    input.Args,
		Dir:     input.Dir,
		Env:     input.Env,
	})
	if err != nil {
		return nil, err
	}
	return &Output{ExitCode: res.ExitCode, Stdout: res.Stdout}, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("shell", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Inputs: map[string]*config.InputDefinition{
			"command": {Name: "command", Description: "Executable to run.", Required: true},
			"args":    {Name: "args", Description: "Arguments passed to the command."},
			"dir":     {Name: "dir", Description: "Working directory."},
			"env":     {Name: "env", Description: "Extra environment variables."},
		},
		Fn: m.OnRunShell,
	})
}
