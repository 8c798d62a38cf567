package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
)

// Module is the interface every built-in runner package implements to be
// registered with the engine.
type Module interface {
	Register(r *Registry)
}

// RegisteredRunner holds the compiled Go parts of one runner type.
type RegisteredRunner struct {
	// NewInput allocates the runner's input struct. Nil means the runner
	// takes no arguments.
	NewInput func() any

	// Inputs declares the accepted arguments, their defaults, and which
	// are required.
	Inputs map[string]*config.InputDefinition

	// Fn is the handler. Its signature must be
	// func(context.Context, *Input) (any, error).
	Fn any
}

// Registry maps runner type names to their registered handlers for a
// single application instance.
type Registry struct {
	runners map[string]*RegisteredRunner
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{runners: make(map[string]*RegisteredRunner)}
}

// RegisterRunner registers a runner type. Registering the same type twice
// is a programmer error and panics.
func (r *Registry) RegisterRunner(runnerType string, handler *RegisteredRunner) {
	if _, exists := r.runners[runnerType]; exists {
		panic(fmt.Sprintf("runner type '%s' already registered", runnerType))
	}
	r.runners[runnerType] = handler
}

// Runner returns the handler registered for the given runner type.
func (r *Registry) Runner(runnerType string) (*RegisteredRunner, bool) {
	h, ok := r.runners[runnerType]
	return h, ok
}

// Types returns all registered runner type names, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.runners))
	for t := range r.runners {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// Validate checks that every task in the model names a registered runner
// type and that every registered handler has the expected signature. A
// mismatch between code and taskfile is caught here, before execution.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	for runnerType, handler := range r.runners {
		if err := validateHandler(handler); err != nil {
			return fmt.Errorf("runner type '%s': %w", runnerType, err)
		}
	}

	for _, task := range model.Tasks {
		if _, ok := r.runners[task.RunnerType]; !ok {
			return fmt.Errorf("task '%s' uses unknown runner type '%s' (registered: %v)",
				task.Name, task.RunnerType, r.Types())
		}
	}

	logger.Debug("Registry validation passed.", "runner_types", len(r.runners), "tasks", len(model.Tasks))
	return nil
}

// validateHandler enforces the func(ctx, *Input) (any, error) contract.
func validateHandler(h *RegisteredRunner) error {
	if h.Fn == nil {
		return fmt.Errorf("handler function is nil")
	}
	fnType := reflect.TypeOf(h.Fn)
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("handler is %s, not a function", fnType.Kind())
	}
	if fnType.NumIn() != 2 || fnType.NumOut() != 2 {
		return fmt.Errorf("handler must be func(context.Context, *Input) (any, error)")
	}
	if !fnType.In(0).Implements(contextType) {
		return fmt.Errorf("handler's first parameter must be context.Context")
	}
	if !fnType.Out(1).Implements(errorType) {
		return fmt.Errorf("handler's second return value must be error")
	}
	return nil
}
