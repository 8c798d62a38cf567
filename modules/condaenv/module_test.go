package condaenv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/hostenv"
)

func TestOnRunEnvironment(t *testing.T) {
	ctx := context.Background()
	input := &Input{
		LocalScript: "scripts/create_conda_env.sh",
		HPCScript:   "scripts/create_hpc_venv.sh",
	}

	t.Run("conda host runs the local script", func(t *testing.T) {
		rec := execx.NewRecorder()
		m := &Module{
			Exec:   rec,
			Host:   hostenv.Host{HasConda: true},
			Params: config.Params{ProjectName: "tspipe-auto"},
		}

		out, err := m.OnRunEnvironment(ctx, input)
		require.NoError(t, err)

		output := out.(*Output)
		assert.Equal(t, "local", output.Branch)
		assert.Empty(t, output.HelperPath)

		calls := rec.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "bash", calls[0].Command)
		assert.Equal(t, []string{"scripts/create_conda_env.sh"}, calls[0].Args)
		assert.Equal(t, map[string]string{"PROJECT_NAME": "tspipe-auto"}, calls[0].Env)
	})

	t.Run("hpc host runs the hpc script", func(t *testing.T) {
		rec := execx.NewRecorder()
		m := &Module{Exec: rec, Host: hostenv.Host{OnHPC: true}}

		out, err := m.OnRunEnvironment(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "hpc", out.(*Output).Branch)

		calls := rec.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"scripts/create_hpc_venv.sh"}, calls[0].Args)
	})

	t.Run("hpc host installs the helper into the venv the script created", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("executable bit semantics differ on windows")
		}

		// The setup script creates $HOME/<project-name>; no virtualenv
		// was active when the host was probed at startup.
		home := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(home, "tspipe-auto", "bin"), 0o755))

		rec := execx.NewRecorder()
		m := &Module{
			Exec:   rec,
			Host:   hostenv.Host{OnHPC: true, Home: home, FQDN: "node17.cluster.example.edu"},
			Params: config.Params{ProjectName: "tspipe-auto"},
		}

		out, err := m.OnRunEnvironment(ctx, input)
		require.NoError(t, err)

		output := out.(*Output)
		assert.Equal(t, filepath.Join(home, "tspipe-auto", "bin", "notebook.sh"), output.HelperPath)

		body, err := os.ReadFile(output.HelperPath)
		require.NoError(t, err)
		assert.Contains(t, string(body), "unset XDG_RUNTIME_DIR")
		assert.Contains(t, string(body), "jupyter notebook --no-browser --ip node17.cluster.example.edu")

		info, err := os.Stat(output.HelperPath)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0o111, "helper must be executable")
	})

	t.Run("hpc host falls back to the startup virtualenv", func(t *testing.T) {
		venv := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(venv, "bin"), 0o755))

		rec := execx.NewRecorder()
		m := &Module{
			Exec: rec,
			Host: hostenv.Host{OnHPC: true, VirtualEnv: venv, FQDN: "node17.cluster.example.edu"},
		}

		out, err := m.OnRunEnvironment(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(venv, "bin", "notebook.sh"), out.(*Output).HelperPath)
	})

	t.Run("hpc host without any virtualenv skips the helper", func(t *testing.T) {
		rec := execx.NewRecorder()
		m := &Module{
			Exec:   rec,
			Host:   hostenv.Host{OnHPC: true, Home: t.TempDir()},
			Params: config.Params{ProjectName: "tspipe-auto"},
		}

		out, err := m.OnRunEnvironment(ctx, input)
		require.NoError(t, err)
		assert.Empty(t, out.(*Output).HelperPath)
	})

	t.Run("setup script failure aborts the task", func(t *testing.T) {
		rec := execx.NewRecorder()
		rec.Stub("bash", execx.Result{ExitCode: 1}, errors.New("command \"bash\" exited with status 1"))
		m := &Module{Exec: rec, Host: hostenv.Host{HasConda: true}}

		_, err := m.OnRunEnvironment(ctx, input)
		assert.ErrorContains(t, err, "environment setup script failed")
	})
}
