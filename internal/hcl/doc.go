// Package hcl is the HCL frontend for taskfiles. It parses `task` blocks
// into the format-agnostic config model and provides the Converter that
// binds argument expressions to runner input structs at execution time.
package hcl
