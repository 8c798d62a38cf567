package dag

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	hclfront "github.com/harel-coffee/tspipe-auto/internal/hcl"
	"github.com/harel-coffee/tspipe-auto/internal/hostenv"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// journal records the order tasks were started in.
type journal struct {
	mu    sync.Mutex
	order []string
	fail  map[string]error
}

type journalInput struct {
	Label string `tspipe:"label"`
}

type journalModule struct{ j *journal }

func (m *journalModule) OnRunNoop(ctx context.Context, input *journalInput) (any, error) {
	m.j.mu.Lock()
	defer m.j.mu.Unlock()
	m.j.order = append(m.j.order, input.Label)
	if err, ok := m.j.fail[input.Label]; ok {
		return nil, err
	}
	return map[string]string{"label": input.Label}, nil
}

func (m *journalModule) Register(r *registry.Registry) {
	r.RegisterRunner("noop", &registry.RegisteredRunner{
		NewInput: func() any { return new(journalInput) },
		Inputs: map[string]*config.InputDefinition{
			"label": {Name: "label", Required: true},
		},
		Fn: m.OnRunNoop,
	})
}

func journaledTask(t *testing.T, name string, deps ...string) *config.Task {
	task := testTask(name, deps...)
	task.Arguments = map[string]hcl.Expression{
		"label": expr(t, fmt.Sprintf("%q", name)),
	}
	return task
}

func runExecutor(t *testing.T, j *journal, model *config.Model, targets []string, workers int) error {
	t.Helper()

	reg := registry.New()
	(&journalModule{j: j}).Register(reg)
	require.NoError(t, reg.Validate(context.Background(), model))

	graph, err := Build(context.Background(), model, targets)
	require.NoError(t, err)

	exec := NewExecutor(graph, reg, hclfront.NewConverter(), config.Params{Python: "python3", Profile: "default"}, hostenv.Host{}, workers)
	return exec.Run(context.Background())
}

func TestExecutor_SequentialDependencyOrder(t *testing.T) {
	j := &journal{}
	model := &config.Model{Tasks: []*config.Task{
		journaledTask(t, "download"),
		journaledTask(t, "data", "download"),
		journaledTask(t, "features", "data"),
	}}

	require.NoError(t, runExecutor(t, j, model, []string{"features"}, 1))
	assert.Equal(t, []string{"download", "data", "features"}, j.order)
}

func TestExecutor_FailureSkipsDependents(t *testing.T) {
	bang := errors.New("disk full")
	j := &journal{fail: map[string]error{"download": bang}}
	model := &config.Model{Tasks: []*config.Task{
		journaledTask(t, "download"),
		journaledTask(t, "data", "download"),
		journaledTask(t, "features", "data"),
	}}

	err := runExecutor(t, j, model, []string{"features"}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, bang)
	assert.Contains(t, err.Error(), "download")
	assert.Equal(t, []string{"download"}, j.order, "dependents must not run after an upstream failure")
}

func TestExecutor_FailureAbortsIndependentChains(t *testing.T) {
	// A failing root cancels the run while an unrelated chain is still
	// queued. The canceled chain's head must skip its own dependents,
	// otherwise the run never finishes waiting for them.
	bang := errors.New("disk full")
	j := &journal{fail: map[string]error{"broken": bang}}
	model := &config.Model{Tasks: []*config.Task{
		journaledTask(t, "broken"),
		journaledTask(t, "download"),
		journaledTask(t, "data", "download"),
	}}

	reg := registry.New()
	(&journalModule{j: j}).Register(reg)
	require.NoError(t, reg.Validate(context.Background(), model))

	graph, err := Build(context.Background(), model, []string{"broken", "data"})
	require.NoError(t, err)

	exec := NewExecutor(graph, reg, hclfront.NewConverter(), config.Params{}, hostenv.Host{}, 1)

	done := make(chan error, 1)
	go func() { done <- exec.Run(context.Background()) }()

	select {
	case runErr := <-done:
		require.Error(t, runErr)
		assert.ErrorIs(t, runErr, bang)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after a task failure aborted the pipeline")
	}
}

func TestFailureSummary(t *testing.T) {
	bang := errors.New("boom")
	assert.EqualError(t, failureSummary([]string{"data"}, bang), "task data failed: boom")
	assert.EqualError(t, failureSummary([]string{"data", "features"}, bang), "tasks data, features failed: boom")
}

func TestExecutor_IndependentTasksAllRun(t *testing.T) {
	j := &journal{}
	model := &config.Model{Tasks: []*config.Task{
		journaledTask(t, "clean"),
		journaledTask(t, "test"),
	}}

	require.NoError(t, runExecutor(t, j, model, []string{"clean", "test"}, 2))
	assert.ElementsMatch(t, []string{"clean", "test"}, j.order)
}

func TestExecutor_DependencyOutputIsVisible(t *testing.T) {
	j := &journal{}
	upstream := journaledTask(t, "dataset")
	downstream := testTask("report", "dataset")
	downstream.Arguments = map[string]hcl.Expression{
		"label": expr(t, "task.dataset.label"),
	}
	model := &config.Model{Tasks: []*config.Task{upstream, downstream}}

	require.NoError(t, runExecutor(t, j, model, []string{"report"}, 1))
	assert.Equal(t, []string{"dataset", "dataset"}, j.order, "downstream label should resolve to the upstream output")
}
