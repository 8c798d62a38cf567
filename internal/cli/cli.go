package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/harel-coffee/tspipe-auto/internal/app"
	"github.com/harel-coffee/tspipe-auto/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating the program should exit cleanly, or an
// ExitError for invalid usage.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("tspipe", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
tspipe - task runner for the feature-engineering pipeline.

Usage:
  tspipe [options] [TASK ...]

Arguments:
  TASK
    One or more task names from the taskfile. With no task (or with
    'help'), prints the documented task catalog.

Options:
`)
		flagSet.PrintDefaults()
	}

	fileFlag := flagSet.String("f", "Tasks.hcl", "Path to the taskfile or a directory of taskfiles.")
	bucketFlag := flagSet.String("bucket", "", "S3 bucket for the data sync tasks. Empty disables syncing.")
	profileFlag := flagSet.String("profile", "default", "AWS credential profile for the data sync tasks.")
	projectFlag := flagSet.String("project-name", "tspipe-auto", "Name of the environment created by create_environment.")
	pythonFlag := flagSet.String("python", "python3", "Python interpreter used by script tasks.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 1, "Number of concurrent workers. 1 runs tasks strictly sequentially.")
	noColorFlag := flagSet.Bool("no-color", false, "Disable color in the help listing.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg, err := app.NewConfig(app.Config{
		TaskfilePath: *fileFlag,
		Tasks:        flagSet.Args(),
		Params: config.Params{
			Bucket:      *bucketFlag,
			Profile:     *profileFlag,
			ProjectName: *projectFlag,
			Python:      *pythonFlag,
		},
		LogFormat: logFormat,
		LogLevel:  logLevel,
		Workers:   *workersFlag,
		NoColor:   *noColorFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, false, nil
}
