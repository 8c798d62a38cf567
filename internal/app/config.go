package app

import (
	"errors"

	"github.com/harel-coffee/tspipe-auto/internal/config"
)

// Config holds everything an App instance needs to run.
type Config struct {
	// TaskfilePath points at the taskfile, or a directory of taskfiles.
	TaskfilePath string

	// Tasks are the task names requested on the command line. Empty
	// means render the help catalog.
	Tasks []string

	// Params are the resolved pipeline parameters.
	Params config.Params

	LogFormat string
	LogLevel  string

	// Workers sizes the executor pool. 1 means sequential execution.
	Workers int

	// NoColor disables highlighted output even on capable terminals.
	NoColor bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TaskfilePath == "" {
		return nil, errors.New("TaskfilePath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("Workers must be at least 1")
	}
	return &cfg, nil
}
