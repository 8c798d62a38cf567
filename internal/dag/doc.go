// Package dag builds and executes the task dependency graph.
//
// Build turns the loaded task model into a graph restricted to the
// requested targets and their transitive dependencies, wiring edges from
// explicit depends_on lists and from implicit `task.<name>` expression
// references, and rejecting cycles up front. The Executor then drains the
// graph through a worker pool, aborting the whole run and skipping all
// dependents as soon as any task fails.
package dag
