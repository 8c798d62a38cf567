package execx

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests shell out to sh")
	}
}

func TestSystemRun_CapturesStdout(t *testing.T) {
	requireShell(t)

	res, err := NewSystem().Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "echo hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestSystemRun_NonZeroExit(t *testing.T) {
	requireShell(t)

	res, err := NewSystem().Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "echo oops >&2; exit 3"},
	})
	require.Error(t, err)
	require.NotNil(t, res, "a command that ran should still return its result")
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, err.Error(), "status 3")
	assert.Contains(t, err.Error(), "oops")
}

func TestSystemRun_CommandNotFound(t *testing.T) {
	res, err := NewSystem().Run(context.Background(), Spec{
		Command: "definitely-not-a-real-command-7f3a",
	})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "failed to run command")
}

func TestSystemRun_ExtraEnv(t *testing.T) {
	requireShell(t)

	res, err := NewSystem().Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "echo $PROJECT_NAME"},
		Env:     map[string]string{"PROJECT_NAME": "tspipe-auto"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tspipe-auto\n", res.Stdout)
}

func TestRecorder(t *testing.T) {
	t.Run("records calls in order", func(t *testing.T) {
		r := NewRecorder()
		_, err := r.Run(context.Background(), Spec{Command: "python3", Args: []string{"a.py"}})
		require.NoError(t, err)
		_, err = r.Run(context.Background(), Spec{Command: "aws"})
		require.NoError(t, err)

		assert.Equal(t, []string{"python3", "aws"}, r.Commands())
		require.Len(t, r.Calls(), 2)
		assert.Equal(t, []string{"a.py"}, r.Calls()[0].Args)
	})

	t.Run("stubbed command returns scripted result", func(t *testing.T) {
		r := NewRecorder()
		stubErr := errors.New("command \"pip\" exited with status 1")
		r.Stub("pip", Result{ExitCode: 1, Stderr: "no network"}, stubErr)

		res, err := r.Run(context.Background(), Spec{Command: "pip"})
		assert.ErrorIs(t, err, stubErr)
		assert.Equal(t, 1, res.ExitCode)
	})

	t.Run("canceled context refuses to run", func(t *testing.T) {
		r := NewRecorder()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Run(ctx, Spec{Command: "sbatch"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, r.Calls())
	})
}
