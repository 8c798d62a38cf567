// Package app wires the application together: it owns the logger, loads
// the taskfile through a format-specific loader, registers the runner
// modules, validates the registry against the loaded model, and drives a
// run (or the help catalog) to completion.
package app
