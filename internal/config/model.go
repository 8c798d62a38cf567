package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of everything loaded from the
// taskfile: the ordered list of task definitions as written.
type Model struct {
	Tasks []*Task
}

// Task is the format-agnostic representation of a single `task` block.
type Task struct {
	// RunnerType names the built-in runner this task instantiates,
	// e.g. "shell" or "python_script".
	RunnerType string

	// Name is the unique task name users pass on the command line.
	Name string

	// Description is the one-line documentation shown by the help
	// catalog. Tasks with an empty description are omitted from it.
	Description string

	// DependsOn lists explicit upstream task names.
	DependsOn []string

	// Arguments holds the raw, unevaluated argument expressions keyed
	// by attribute name. They are evaluated at execution time against
	// the run's evaluation context.
	Arguments map[string]hcl.Expression
}

// TaskByName returns the task with the given name, or nil.
func (m *Model) TaskByName(name string) *Task {
	for _, t := range m.Tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// InputDefinition declares a single argument accepted by a runner.
type InputDefinition struct {
	Name        string
	Description string
	Required    bool
	// Default, when non-nil, is applied if the task omits the argument.
	Default *cty.Value
}

// Params are the pipeline parameters resolved once from the command line
// and exposed to argument expressions as the `param` object.
type Params struct {
	// Bucket is the S3 bucket used by the data sync tasks. Empty means
	// no bucket is configured and sync tasks must refuse to run.
	Bucket string

	// Profile is the AWS credential profile name.
	Profile string

	// ProjectName names the environment created by create_environment.
	ProjectName string

	// Python is the python interpreter used for script tasks.
	Python string
}
