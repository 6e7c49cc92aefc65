// Package task defines the unit of work used by the remap pipeline: a node
// in a directed acyclic graph with declared inputs, a single file output,
// and an idempotence contract based on output existence. Graph construction
// is explicit and separate from execution; Execute is the entry point that
// runs a graph, owned by the caller.
package task

import "context"

// Task is a unit of work in the pipeline graph.
//
// A task declares its dependencies by identity via Inputs and produces
// exactly one artifact at Output. A task whose output already exists is
// considered done and is never re-run; content is not hashed, so a stale or
// corrupt artifact must be removed before re-execution. Targets are written
// atomically, which keeps the existence check safe under crashes.
type Task interface {
	// Name identifies the task in logs. By convention it is the base name
	// of the task's output artifact.
	Name() string

	// Inputs returns the tasks this task depends on. It must be stable
	// across calls and must not contain nil entries.
	Inputs() []Task

	// Output returns the task's single output location.
	Output() *Target

	// Run performs the work, writing the output via Output().Create.
	// It is only invoked when the output does not yet exist.
	Run(ctx context.Context) error
}

// Flatten returns t and every transitive dependency, dependencies first,
// each task exactly once. Discovery order is deterministic for a fixed
// graph shape (depth-first over Inputs in declaration order).
func Flatten(t Task) []Task {
	var out []Task
	seen := map[Task]bool{}
	var walk func(Task)
	walk = func(n Task) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, in := range n.Inputs() {
			walk(in)
		}
		out = append(out, n)
	}
	walk(t)
	return out
}
