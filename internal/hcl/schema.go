package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// taskArgs captures the raw body of an 'arguments' block so its attribute
// expressions can be kept unevaluated until run time.
type taskArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// taskBlock mirrors a `task "<runner_type>" "<name>"` block.
type taskBlock struct {
	RunnerType  string    `hcl:"runner_type,label"`
	Name        string    `hcl:"task_name,label"`
	Description string    `hcl:"description,optional"`
	DependsOn   []string  `hcl:"depends_on,optional"`
	Arguments   *taskArgs `hcl:"arguments,block"`
}

// taskfile mirrors the top-level structure of one taskfile.
type taskfile struct {
	Tasks []*taskBlock `hcl:"task,block"`
	Body  hcl.Body     `hcl:",remain"`
}
