package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific taskfile loader.
type Loader interface {
	// Load reads a taskfile (or a directory of taskfiles), translates it
	// into the format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, path string) (*Model, Converter, error)
}

// Converter is the interface for format-specific data binding. It bridges
// raw argument expressions and the Go input structs used by runners.
type Converter interface {
	// DecodeBody evaluates the task's argument expressions against
	// evalCtx and populates inputStruct, applying declared defaults and
	// rejecting missing required arguments.
	DecodeBody(
		ctx context.Context,
		inputStruct any,
		args map[string]hcl.Expression,
		defs map[string]*InputDefinition,
		evalCtx *hcl.EvalContext,
	) error

	// ToCtyValue converts a native Go value (typically a runner's output
	// struct) into its equivalent cty.Value for the evaluation context.
	ToCtyValue(v any) (cty.Value, error)
}
