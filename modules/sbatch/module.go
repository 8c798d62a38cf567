// Package sbatch provides the 'sbatch' runner: fire-and-forget submission
// of a batch script to the cluster scheduler. The submitted job's lifecycle
// is fully delegated to the scheduler; only submission itself can fail here.
package sbatch

import (
	"context"
	"regexp"
	"strings"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Exec execx.Runner
}

// Input defines the arguments for the 'arguments' block.
type Input struct {
	Script string   `tspipe:"script"`
	Args   []string `tspipe:"args"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	// JobID is parsed from the scheduler's submission message when
	// present, empty otherwise.
	JobID  string `cty:"job_id"`
	Stdout string `cty:"stdout"`
}

// jobIDPattern matches the scheduler's "Submitted batch job <id>" line.
var jobIDPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

// OnRunSbatch is the handler for the 'sbatch' runner.
func (m *Module) OnRunSbatch(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx)

	res, err := m.Exec.Run(ctx, execx.Spec{
		Command: "sbatch",
		Args:    append([]string{input.Script}, input.Args...),
	})
	if err != nil {
		return nil, err
	}

	out := &Output{Stdout: strings.TrimSpace(res.Stdout)}
	if match := jobIDPattern.FindStringSubmatch(res.Stdout); match != nil {
		out.JobID = match[1]
	}
	logger.Info("Batch job submitted.", "script", input.Script, "jobID", out.JobID)

	return out, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("sbatch", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Inputs: map[string]*config.InputDefinition{
			"script": {Name: "script", Description: "Batch script handed to the scheduler.", Required: true},
			"args":   {Name: "args", Description: "Arguments passed to the batch script."},
		},
		Fn: m.OnRunSbatch,
	})
}
