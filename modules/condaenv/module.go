// Package condaenv provides the 'environment' runner, the environment
// dispatcher: it selects exactly one of two setup scripts based on whether
// conda is available on the host, and on the HPC branch installs a helper
// script for launching a notebook server inside the created virtualenv.
package condaenv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/hostenv"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Exec   execx.Runner
	Host   hostenv.Host
	Params config.Params
}

// Input defines the arguments for the 'arguments' block.
type Input struct {
	LocalScript string `tspipe:"local_script"`
	HPCScript   string `tspipe:"hpc_script"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	// Branch records which path was taken: "local" or "hpc".
	Branch string `cty:"branch"`
	// HelperPath is where the notebook helper was written, empty on the
	// local branch or when no virtualenv could be located afterwards.
	HelperPath string `cty:"helper_path"`
}

// OnRunEnvironment is the handler for the 'environment' runner. Failure in
// the invoked script aborts the task with that script's status; there is
// no retry and no partial-failure recovery.
func (m *Module) OnRunEnvironment(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx)

	script := input.HPCScript
	branch := "hpc"
	if m.Host.HasConda {
		script = input.LocalScript
		branch = "local"
	}
	logger.Info("Setting up python environment.", "branch", branch, "script", script)

	_, err := m.Exec.Run(ctx, execx.Spec{
		Command: "bash",
		Args:    []string{script},
		Env:     map[string]string{"PROJECT_NAME": m.Params.ProjectName},
	})
	if err != nil {
		return nil, fmt.Errorf("environment setup script failed: %w", err)
	}

	out := &Output{Branch: branch}
	if branch == "hpc" {
		if binDir := m.venvBinDir(); binDir != "" {
			helperPath, err := m.writeNotebookHelper(binDir)
			if err != nil {
				return nil, err
			}
			out.HelperPath = helperPath
			logger.Info("Installed notebook helper.", "path", helperPath)
		} else {
			logger.Warn("No virtualenv found, notebook helper not installed.")
		}
	}

	return out, nil
}

// venvBinDir locates the bin directory of the virtualenv the setup script
// just created under the user's home ($HOME/<project-name>). The startup
// $VIRTUAL_ENV, snapshotted before the script ran, is only a fallback.
// Empty when neither exists.
func (m *Module) venvBinDir() string {
	if m.Host.Home != "" && m.Params.ProjectName != "" {
		created := filepath.Join(m.Host.Home, m.Params.ProjectName, "bin")
		if info, err := os.Stat(created); err == nil && info.IsDir() {
			return created
		}
	}
	if m.Host.VirtualEnv != "" {
		return filepath.Join(m.Host.VirtualEnv, "bin")
	}
	return ""
}

// writeNotebookHelper generates an executable script inside the
// virtualenv's bin directory that starts a notebook server reachable from
// outside the cluster node: bound to the FQDN, browser auto-launch off.
func (m *Module) writeNotebookHelper(binDir string) (string, error) {
	path := filepath.Join(binDir, "notebook.sh")
	body := fmt.Sprintf("#!/bin/bash\nunset XDG_RUNTIME_DIR\njupyter notebook --no-browser --ip %s\n", m.Host.FQDN)

	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		return "", fmt.Errorf("failed to write notebook helper: %w", err)
	}
	return path, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("environment", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Inputs: map[string]*config.InputDefinition{
			"local_script": {Name: "local_script", Description: "Setup script for hosts with conda.", Required: true},
			"hpc_script":   {Name: "hpc_script", Description: "Setup script for module-based HPC hosts.", Required: true},
		},
		Fn: m.OnRunEnvironment,
	})
}
