// Package testutil provides a standardized harness for integration tests:
// it writes a taskfile into a temporary directory, runs the app against a
// recording exec fake and a fixed host probe, and captures log output.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harel-coffee/tspipe-auto/internal/app"
	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/hcl"
	"github.com/harel-coffee/tspipe-auto/internal/hostenv"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness configures one pipeline test run.
type Harness struct {
	// Taskfile is the HCL source written to Tasks.hcl in a temp dir.
	Taskfile string

	// Tasks are the requested task names. Empty renders help.
	Tasks []string

	// Params defaults to a python3 interpreter and default profile.
	Params *config.Params

	// Host defaults to a conda-less non-HPC workstation.
	Host hostenv.Host

	// Workers defaults to 1 (sequential).
	Workers int

	// Stubs, when set, is called with the exec recorder before the run so
	// tests can install command results.
	Stubs func(rec *execx.Recorder)
}

// Result holds the outcomes of a harness run.
type Result struct {
	Out       string
	LogOutput string
	Err       error
	App       *app.App
	Exec      *execx.Recorder
}

// Run executes the harness. Startup panics from app.NewApp are recovered
// into Result.Err so tests can assert on load failures.
func (h Harness) Run(t *testing.T) *Result {
	t.Helper()

	tmpDir := t.TempDir()
	taskfilePath := filepath.Join(tmpDir, "Tasks.hcl")
	require.NoError(t, os.WriteFile(taskfilePath, []byte(h.Taskfile), 0o644))

	params := config.Params{Profile: "default", ProjectName: "tspipe-auto", Python: "python3"}
	if h.Params != nil {
		params = *h.Params
	}
	workers := h.Workers
	if workers == 0 {
		workers = 1
	}

	cfg, err := app.NewConfig(app.Config{
		TaskfilePath: taskfilePath,
		Tasks:        h.Tasks,
		Params:       params,
		LogFormat:    "text",
		LogLevel:     "debug",
		Workers:      workers,
	})
	require.NoError(t, err)

	recorder := execx.NewRecorder()
	if h.Stubs != nil {
		h.Stubs(recorder)
	}
	out := &SafeBuffer{}
	logBuf := &SafeBuffer{}

	result := &Result{Exec: recorder}
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		result.App = app.NewApp(out, cfg, hcl.NewLoader(),
			app.WithLogWriter(logBuf),
			app.WithExec(recorder),
			app.WithHost(h.Host),
		)
	}()

	if result.Err == nil {
		result.Err = result.App.Run(context.Background())
	}

	result.Out = out.String()
	result.LogOutput = logBuf.String()
	return result
}
