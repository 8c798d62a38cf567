// Package execx is the single gateway for running external commands.
//
// Every runner module that shells out (pip, conda, python scripts, sbatch,
// aws) does so through the Runner interface, so module logic can be tested
// against a recording fake without touching the host.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
)

// Spec describes one external command invocation.
type Spec struct {
	// Command is the executable name or path, resolved via the search path.
	Command string
	Args    []string

	// Dir is the working directory. Empty means the process inherits ours.
	Dir string

	// Env holds extra environment variables layered over the host
	// environment.
	Env map[string]string
}

// Result is the captured outcome of a completed command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs external commands.
type Runner interface {
	// Run executes the command described by spec and waits for it.
	// A command that starts but exits non-zero returns both a populated
	// Result and a non-nil error, so callers can either abort (the
	// default) or inspect the exit code.
	Run(ctx context.Context, spec Spec) (*Result, error)
}

// System is the Runner backed by os/exec.
type System struct{}

// NewSystem returns a Runner that executes commands on the host.
func NewSystem() *System {
	return &System{}
}

// Run implements Runner.
func (s *System) Run(ctx context.Context, spec Spec) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running external command.", "command", spec.Command, "args", spec.Args, "dir", spec.Dir)

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = mergedEnv(spec.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			logger.Debug("Command exited non-zero.", "command", spec.Command, "exitCode", result.ExitCode)
			return result, fmt.Errorf("command %q exited with status %d: %s", spec.Command, result.ExitCode, firstLine(result.Stderr))
		}
		// The command never ran (not found, permission, canceled context).
		return nil, fmt.Errorf("failed to run command %q: %w", spec.Command, err)
	}

	logger.Debug("Command finished.", "command", spec.Command, "exitCode", 0)
	return result, nil
}

// mergedEnv layers extra variables over the host environment in a stable order.
func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil // nil lets os/exec inherit the parent environment
	}
	env := os.Environ()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
