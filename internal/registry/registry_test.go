package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harel-coffee/tspipe-auto/internal/config"
)

type noopInput struct{}

func noopHandler(ctx context.Context, input *noopInput) (any, error) {
	return nil, nil
}

func noopRunner() *RegisteredRunner {
	return &RegisteredRunner{
		NewInput: func() any { return new(noopInput) },
		Fn:       noopHandler,
	}
}

func TestRegisterRunner(t *testing.T) {
	r := New()
	r.RegisterRunner("noop", noopRunner())

	h, ok := r.Runner("noop")
	require.True(t, ok)
	assert.NotNil(t, h)

	_, ok = r.Runner("dne")
	assert.False(t, ok)

	assert.Panics(t, func() { r.RegisterRunner("noop", noopRunner()) })
}

func TestTypes(t *testing.T) {
	r := New()
	r.RegisterRunner("shell", noopRunner())
	r.RegisterRunner("clean", noopRunner())

	assert.Equal(t, []string{"clean", "shell"}, r.Types())
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("tasks with registered runner types pass", func(t *testing.T) {
		r := New()
		r.RegisterRunner("noop", noopRunner())
		model := &config.Model{Tasks: []*config.Task{{RunnerType: "noop", Name: "a"}}}
		assert.NoError(t, r.Validate(ctx, model))
	})

	t.Run("unknown runner type fails", func(t *testing.T) {
		r := New()
		r.RegisterRunner("noop", noopRunner())
		model := &config.Model{Tasks: []*config.Task{{RunnerType: "dne", Name: "a"}}}
		err := r.Validate(ctx, model)
		assert.ErrorContains(t, err, "unknown runner type 'dne'")
	})

	t.Run("handler with wrong signature fails", func(t *testing.T) {
		r := New()
		r.RegisterRunner("bad", &RegisteredRunner{
			NewInput: func() any { return new(noopInput) },
			Fn:       func(input *noopInput) error { return nil },
		})
		err := r.Validate(ctx, &config.Model{})
		assert.ErrorContains(t, err, "must be func(context.Context, *Input) (any, error)")
	})

	t.Run("nil handler fails", func(t *testing.T) {
		r := New()
		r.RegisterRunner("nil", &RegisteredRunner{NewInput: func() any { return nil }})
		err := r.Validate(ctx, &config.Model{})
		assert.ErrorContains(t, err, "handler function is nil")
	})
}
