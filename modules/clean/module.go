// Package clean provides the 'clean' runner: it deletes compiled python
// bytecode, bytecode cache directories, and scheduler output files beneath
// the project root, leaving everything else untouched.
package clean

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/fsutil"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' block.
type Input struct {
	Root string `tspipe:"root"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	Removed int `cty:"removed"`
}

// sweptDirs and sweptSuffixes define exactly what clean removes.
var (
	sweptDirs     = []string{"__pycache__"}
	sweptSuffixes = []string{".pyc", ".out"}
)

// OnRunClean is the handler for the 'clean' runner.
func (m *Module) OnRunClean(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx)

	removed, err := fsutil.Sweep(input.Root, sweptDirs, sweptSuffixes)
	if err != nil {
		return nil, fmt.Errorf("clean failed after removing %d entries: %w", removed, err)
	}

	logger.Info("Clean finished.", "root", input.Root, "removed", removed)
	return &Output{Removed: removed}, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	defaultRoot := cty.StringVal(".")
	r.RegisterRunner("clean", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Inputs: map[string]*config.InputDefinition{
			"root": {Name: "root", Description: "Directory to sweep.", Default: &defaultRoot},
		},
		Fn: m.OnRunClean,
	})
}
