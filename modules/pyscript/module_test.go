package pyscript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
)

func TestOnRunPythonScript(t *testing.T) {
	ctx := context.Background()
	params := config.Params{Python: "python3"}

	t.Run("uses the configured interpreter by default", func(t *testing.T) {
		rec := execx.NewRecorder()
		m := &Module{Exec: rec, Params: params}

		_, err := m.OnRunPythonScript(ctx, &Input{
			Script: "src/data/make_dataset.py",
			Args:   []string{"data/"},
		})
		require.NoError(t, err)

		calls := rec.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "python3", calls[0].Command)
		assert.Equal(t, []string{"src/data/make_dataset.py", "data/"}, calls[0].Args)
	})

	t.Run("interpreter argument overrides the parameter", func(t *testing.T) {
		rec := execx.NewRecorder()
		m := &Module{Exec: rec, Params: params}

		_, err := m.OnRunPythonScript(ctx, &Input{
			Script:      "src/features/build_features.py",
			Interpreter: "python3.11",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"python3.11"}, rec.Commands())
	})

	t.Run("propagates script failure", func(t *testing.T) {
		rec := execx.NewRecorder()
		rec.Stub("python3", execx.Result{ExitCode: 2}, errors.New("command \"python3\" exited with status 2"))
		m := &Module{Exec: rec, Params: params}

		_, err := m.OnRunPythonScript(ctx, &Input{Script: "src/data/download_data.py"})
		assert.ErrorContains(t, err, "exited with status 2")
	})
}
