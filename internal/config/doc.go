// Package config defines the format-agnostic model of a loaded taskfile,
// along with the Loader and Converter interfaces that a format-specific
// frontend (currently HCL) must implement.
//
// Keeping the model free of parser types means the graph builder, the
// executor, and the help catalog never need to know what syntax the
// taskfile was written in, with one deliberate exception: argument values
// stay behind hcl.Expression so that they can be evaluated lazily against
// the run's evaluation context.
package config
