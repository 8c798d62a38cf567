// Package registry provides the central "glue" for the runner system.
//
// The Registry stores mappings between the runner type names used in
// taskfiles (e.g. "python_script") and the compiled Go functions and input
// types that implement them. During application startup the registry is
// populated and then validated against the loaded taskfile, so a mismatch
// between code and configuration fails before anything executes.
package registry
