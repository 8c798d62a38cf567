package sbatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harel-coffee/tspipe-auto/internal/execx"
)

func TestOnRunSbatch(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the job id from the submission message", func(t *testing.T) {
		rec := execx.NewRecorder()
		rec.Stub("sbatch", execx.Result{Stdout: "Submitted batch job 48213\n"}, nil)
		m := &Module{Exec: rec}

		out, err := m.OnRunSbatch(ctx, &Input{Script: "scripts/train.sbatch", Args: []string{"data/"}})
		require.NoError(t, err)

		output := out.(*Output)
		assert.Equal(t, "48213", output.JobID)
		assert.Equal(t, "Submitted batch job 48213", output.Stdout)

		calls := rec.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "sbatch", calls[0].Command)
		assert.Equal(t, []string{"scripts/train.sbatch", "data/"}, calls[0].Args)
	})

	t.Run("missing job id leaves the field empty", func(t *testing.T) {
		rec := execx.NewRecorder()
		rec.Stub("sbatch", execx.Result{Stdout: "queued\n"}, nil)
		m := &Module{Exec: rec}

		out, err := m.OnRunSbatch(ctx, &Input{Script: "scripts/train.sbatch"})
		require.NoError(t, err)
		assert.Empty(t, out.(*Output).JobID)
	})

	t.Run("propagates submission failure", func(t *testing.T) {
		rec := execx.NewRecorder()
		rec.Stub("sbatch", execx.Result{ExitCode: 1}, errors.New("command \"sbatch\" exited with status 1"))
		m := &Module{Exec: rec}

		_, err := m.OnRunSbatch(ctx, &Input{Script: "scripts/train.sbatch"})
		assert.ErrorContains(t, err, "exited with status 1")
	})
}
