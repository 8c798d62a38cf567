package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/harel-coffee/tspipe-auto/internal/app"
	"github.com/harel-coffee/tspipe-auto/internal/cli"
	"github.com/harel-coffee/tspipe-auto/internal/hcl"
)

// main is the entrypoint for the tspipe task runner.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors (unreadable or invalid
	// taskfile); recover them into a clean error for the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("a critical startup error occurred: %v", r)
		}
	}()

	loader := hcl.NewLoader()
	pipelineApp := app.NewApp(outW, appConfig, loader, app.WithLogWriter(os.Stderr))

	return pipelineApp.Run(context.Background())
}
