package task

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"remap/internal/fingerprint"
)

// ExecuteOptions tunes graph execution. Zero values select defaults.
type ExecuteOptions struct {
	// Workers bounds how many tasks run concurrently. Default 4.
	Workers int

	// Quiet suppresses per-task progress logs.
	Quiet bool
}

// Execute runs the graph rooted at terminal in dependency order and returns
// when every task is done or any task has failed.
//
// Scheduling model: tasks are executed in waves. A task is ready when all of
// its inputs are done; ready tasks within a wave run concurrently, bounded
// by Workers. A task whose output already exists is skipped without
// recomputation (the idempotence contract). The first task error cancels the
// remaining work and is returned.
func Execute(ctx context.Context, terminal Task, opt ExecuteOptions) error {
	workers := opt.Workers
	if workers <= 0 {
		workers = 4
	}

	pending := Flatten(terminal)
	done := map[Task]bool{}

	for len(pending) > 0 {
		var wave, rest []Task
		for _, t := range pending {
			if ready(t, done) {
				wave = append(wave, t)
			} else {
				rest = append(rest, t)
			}
		}
		if len(wave) == 0 {
			// Only possible with a dependency cycle; chains built by the
			// orchestrator never produce one.
			return fmt.Errorf("task graph stalled with %d tasks unrunnable (dependency cycle?)", len(rest))
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, t := range wave {
			t := t
			g.Go(func() error { return runOne(gctx, t, opt.Quiet) })
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, t := range wave {
			done[t] = true
		}
		pending = rest
	}
	return nil
}

// ready reports whether every input of t is done.
func ready(t Task, done map[Task]bool) bool {
	for _, in := range t.Inputs() {
		if !done[in] {
			return false
		}
	}
	return true
}

// runOne executes a single task, honoring the skip-if-exists contract, and
// logs the fingerprint of the artifact it produced.
func runOne(ctx context.Context, t Task, quiet bool) error {
	out := t.Output()
	if out.Exists() {
		if !quiet {
			log.Printf("task %s: up to date", t.Name())
		}
		return nil
	}
	if err := t.Run(ctx); err != nil {
		return fmt.Errorf("task %s: %w", t.Name(), err)
	}
	if !out.Exists() {
		return fmt.Errorf("task %s: run completed but output %s is missing", t.Name(), out.Path())
	}
	if !quiet {
		sum, err := fingerprint.File(out.Path())
		if err != nil {
			return fmt.Errorf("task %s: %w", t.Name(), err)
		}
		log.Printf("task %s: wrote %s xxh3=%016x", t.Name(), out.Path(), sum)
	}
	return nil
}
