package remap

import (
	"context"
	"fmt"
	"os"

	"remap/internal/table"
	"remap/internal/task"
)

// TableSource adapts an existing table file into the task graph. Its output
// is the table itself, so a present table is always up to date and a missing
// one fails the run instead of being silently recreated.
type TableSource struct {
	ref table.Ref
	out *task.Target
}

// NewTableSource returns a source task for the referenced table.
func NewTableSource(ref table.Ref) *TableSource {
	return &TableSource{ref: ref, out: task.NewTarget(ref.Path)}
}

// Ref returns the underlying table reference.
func (s *TableSource) Ref() table.Ref { return s.ref }

func (s *TableSource) Name() string         { return s.ref.Name }
func (s *TableSource) Inputs() []task.Task  { return nil }
func (s *TableSource) Output() *task.Target { return s.out }

// Run only executes when the table file is absent, which is an input error;
// sources never produce their own output.
func (s *TableSource) Run(ctx context.Context) error {
	return fmt.Errorf("table %s at %s: %w", s.ref.Name, s.ref.Path, os.ErrNotExist)
}
