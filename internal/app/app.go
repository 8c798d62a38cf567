package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/hostenv"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	model     *config.Model
	converter config.Converter
	host      hostenv.Host
}

// Option customizes App construction, mainly for tests.
type Option func(*options)

type options struct {
	logW    io.Writer
	exec    execx.Runner
	host    *hostenv.Host
	modules []registry.Module
}

// WithLogWriter redirects the app's log output (default: the out writer).
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logW = w }
}

// WithExec substitutes the external command runner.
func WithExec(r execx.Runner) Option {
	return func(o *options) { o.exec = r }
}

// WithHost substitutes the host probe result.
func WithHost(h hostenv.Host) Option {
	return func(o *options) { o.host = &h }
}

// WithModules replaces the core runner modules.
func WithModules(modules ...registry.Module) Option {
	return func(o *options) { o.modules = modules }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry.
// Failures to load or validate configuration are fatal startup errors and
// panic; the caller recovers them into a clean exit.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	o := &options{logW: outW}
	for _, opt := range opts {
		opt(o)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, o.logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, converter, err := loader.Load(ctx, cfg.TaskfilePath)
	if err != nil {
		panic(fmt.Errorf("failed to load taskfile: %w", err))
	}
	logger.Debug("Taskfile loaded into unified model.", "tasks", len(model.Tasks))

	if o.exec == nil {
		o.exec = execx.NewSystem()
	}

	var host hostenv.Host
	if o.host != nil {
		host = *o.host
	} else {
		host = hostenv.NewProbe().Detect(ctx)
	}

	modules := o.modules
	if len(modules) == 0 {
		modules = coreModules(outW, o.exec, host, cfg.Params)
	}

	reg := registry.New()
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All runner modules registered.", "count", len(modules))

	if err := reg.Validate(ctx, model); err != nil {
		// Mismatch between code and taskfile is a startup error too.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		model:     model,
		converter: converter,
		host:      host,
	}
}

// Model returns the loaded task model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
