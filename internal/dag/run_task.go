package dag

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
)

// runNode evaluates a node's arguments and invokes its runner handler.
func (e *Executor) runNode(ctx context.Context, node *Node) error {
	logger := ctxlog.FromContext(ctx).With("task", node.ID)
	logger.Info("▶️ Starting task")

	handler, ok := e.registry.Runner(node.Task.RunnerType)
	if !ok {
		return fmt.Errorf("unknown runner type '%s'", node.Task.RunnerType)
	}

	evalCtx := e.buildEvalContext(node)

	var inputStruct any
	if handler.NewInput != nil {
		inputStruct = handler.NewInput()
	}
	if inputStruct != nil {
		err := e.converter.DecodeBody(ctx, inputStruct, node.Task.Arguments, handler.Inputs, evalCtx)
		if err != nil {
			return fmt.Errorf("failed to decode arguments for task '%s': %w", node.ID, err)
		}
	}

	handlerFunc := reflect.ValueOf(handler.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx)}
	if inputStruct == nil {
		callArgs = append(callArgs, reflect.Zero(handlerFunc.Type().In(1)))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(inputStruct))
	}

	results := handlerFunc.Call(callArgs)
	nativeOutput, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return errResult.(error)
	}

	ctyOutput, err := e.converter.ToCtyValue(nativeOutput)
	if err != nil {
		return fmt.Errorf("failed to convert output of task '%s': %w", node.ID, err)
	}
	node.output = ctyOutput

	logger.Info("✅ Finished task")
	return nil
}

// buildEvalContext assembles the variables visible to a task's argument
// expressions: the pipeline parameters, the host probe, and the outputs of
// the task's completed dependencies.
func (e *Executor) buildEvalContext(node *Node) *hcl.EvalContext {
	taskOutputs := make(map[string]cty.Value, len(node.Deps))
	for id, dep := range node.Deps {
		out := dep.Output()
		if out == cty.NilVal {
			out = cty.EmptyObjectVal
		}
		taskOutputs[id] = out
	}

	vars := map[string]cty.Value{
		"param": cty.ObjectVal(map[string]cty.Value{
			"bucket":       cty.StringVal(e.params.Bucket),
			"profile":      cty.StringVal(e.params.Profile),
			"project_name": cty.StringVal(e.params.ProjectName),
			"python":       cty.StringVal(e.params.Python),
		}),
		"host": cty.ObjectVal(map[string]cty.Value{
			"has_conda":   cty.BoolVal(e.host.HasConda),
			"on_hpc":      cty.BoolVal(e.host.OnHPC),
			"virtual_env": cty.StringVal(e.host.VirtualEnv),
			"fqdn":        cty.StringVal(e.host.FQDN),
		}),
	}
	if len(taskOutputs) > 0 {
		vars["task"] = cty.ObjectVal(taskOutputs)
	}

	return &hcl.EvalContext{Variables: vars}
}
