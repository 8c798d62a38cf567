// Package s3sync provides the 's3_sync' runner: it mirrors the data
// directory to or from an S3 bucket using the aws CLI. Credential handling
// stays entirely with the aws CLI and its profile mechanism.
package s3sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Exec execx.Runner

	// Params supplies the default bucket and profile.
	Params config.Params
}

// Input defines the arguments for the 'arguments' block.
type Input struct {
	// Direction is "up" (local to bucket) or "down" (bucket to local).
	Direction string `tspipe:"direction"`
	LocalPath string `tspipe:"local_path"`
	// Prefix is the key prefix inside the bucket.
	Prefix string `tspipe:"prefix"`
	// Bucket and Profile override the -bucket / -profile parameters.
	Bucket  string `tspipe:"bucket"`
	Profile string `tspipe:"profile"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	Remote string `cty:"remote"`
	Stdout string `cty:"stdout"`
}

// OnRunS3Sync is the handler for the 's3_sync' runner.
func (m *Module) OnRunS3Sync(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx)

	bucket := input.Bucket
	if bucket == "" {
		bucket = m.Params.Bucket
	}
	if bucket == "" {
		return nil, fmt.Errorf("no S3 bucket configured: pass -bucket or set the task's 'bucket' argument")
	}

	profile := input.Profile
	if profile == "" {
		profile = m.Params.Profile
	}

	remote := "s3://" + bucket
	if prefix := strings.Trim(input.Prefix, "/"); prefix != "" {
		remote += "/" + prefix
	}

	var args []string
	switch strings.ToLower(input.Direction) {
	case "up":
		args = []string{"s3", "sync", input.LocalPath, remote}
	case "down":
		args = []string{"s3", "sync", remote, input.LocalPath}
	default:
		return nil, fmt.Errorf("unknown s3 sync direction: '%s'", input.Direction)
	}
	if profile != "" && profile != "default" {
		args = append(args, "--profile", profile)
	}

	logger.Info("Syncing data with S3.", "direction", input.Direction, "remote", remote, "local", input.LocalPath)

	res, err := m.Exec.Run(ctx, execx.Spec{Command: "aws", Args: args})
	if err != nil {
		return nil, fmt.Errorf("s3 sync failed: %w", err)
	}

	return &Output{Remote: remote, Stdout: res.Stdout}, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	defaultLocal := cty.StringVal("data/")
	defaultPrefix := cty.StringVal("data")
	r.RegisterRunner("s3_sync", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Inputs: map[string]*config.InputDefinition{
			"direction":  {Name: "direction", Description: "'up' to upload, 'down' to download.", Required: true},
			"local_path": {Name: "local_path", Description: "Local directory to mirror.", Default: &defaultLocal},
			"prefix":     {Name: "prefix", Description: "Key prefix inside the bucket.", Default: &defaultPrefix},
			"bucket":     {Name: "bucket", Description: "Bucket override for this task."},
			"profile":    {Name: "profile", Description: "Credential profile override for this task."},
		},
		Fn: m.OnRunS3Sync,
	})
}
