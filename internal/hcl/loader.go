package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL taskfile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the taskfile at path, or every .hcl file beneath it when path
// is a directory, and translates the result into the agnostic model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)

	filePaths, err := l.resolveFiles(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Found taskfiles to load.", "files", filePaths)

	parser := hclparse.NewParser()
	model := &config.Model{}
	seen := make(map[string]string) // task name -> file it was declared in

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse taskfile %s: %w", filePath, diags)
		}

		var file taskfile
		// Descriptions and depends_on lists must be literals; argument
		// expressions are captured raw and evaluated later.
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode taskfile %s: %w", filePath, diags)
		}

		for _, block := range file.Tasks {
			if prev, dup := seen[block.Name]; dup {
				return nil, nil, fmt.Errorf("duplicate task name '%s' (declared in %s and %s)", block.Name, prev, filePath)
			}
			seen[block.Name] = filePath

			task, err := l.translateTask(block)
			if err != nil {
				return nil, nil, fmt.Errorf("task '%s' in %s: %w", block.Name, filePath, err)
			}
			model.Tasks = append(model.Tasks, task)
		}
		logger.Debug("Loaded taskfile.", "file", filePath, "tasks", len(file.Tasks))
	}

	logger.Info("Taskfiles loaded.", "files", len(filePaths), "tasks", len(model.Tasks))
	return model, NewConverter(), nil
}

// resolveFiles expands path into the list of taskfiles to parse.
func (l *Loader) resolveFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("taskfile path %q: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to scan taskfile directory %q: %w", path, err)
	}
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("no .hcl taskfiles found under %q", path)
	}
	return filePaths, nil
}

// translateTask converts the HCL-specific task schema into the agnostic model.
func (l *Loader) translateTask(block *taskBlock) (*config.Task, error) {
	task := &config.Task{
		RunnerType:  block.RunnerType,
		Name:        block.Name,
		Description: block.Description,
		DependsOn:   block.DependsOn,
		Arguments:   map[string]hcl.Expression{},
	}

	if block.Arguments != nil {
		attrs, diags := block.Arguments.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid arguments block: %w", diags)
		}
		for name, attr := range attrs {
			task.Arguments[name] = attr.Expr
		}
	}

	return task, nil
}
