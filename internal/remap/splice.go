package remap

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"remap/internal/table"
	"remap/internal/task"
)

// ColumnSplicer merges a substituted column back into a full table: the
// target column's values are overwritten with the integer codes while every
// other column, and the column order, stay byte-identical to the base
// table. The base is consumed as a task so splices can chain, each one
// reading the previous splice's output as its base.
type ColumnSplicer struct {
	column      string
	base        task.Task
	replacement task.Task
	opt         table.Options
	name        string
	out         *task.Target
}

// NewColumnSplicer returns a splice task that overwrites column in the base
// task's output table with the values from replacement (normally a
// *ValueSubstituter). The artifact is written to saveDir/outName.
func NewColumnSplicer(base task.Task, column string, replacement task.Task, saveDir, outName string, opt table.Options) *ColumnSplicer {
	return &ColumnSplicer{
		column:      column,
		base:        base,
		replacement: replacement,
		opt:         opt,
		name:        outName,
		out:         task.NewTarget(filepath.Join(saveDir, outName)),
	}
}

func (s *ColumnSplicer) Name() string         { return s.name }
func (s *ColumnSplicer) Inputs() []task.Task  { return []task.Task{s.base, s.replacement} }
func (s *ColumnSplicer) Output() *task.Target { return s.out }

func (s *ColumnSplicer) Run(ctx context.Context) error {
	d, err := s.readBase()
	if err != nil {
		return err
	}
	ix := d.ColumnIndex(s.column)
	if ix < 0 {
		return fmt.Errorf("splice %s: column %q: %w", s.base.Name(), s.column, ErrColumnNotFound)
	}

	repl, err := s.readReplacement()
	if err != nil {
		return err
	}
	if len(repl) != len(d.Rows) {
		return fmt.Errorf("splice %s.%s: replacement has %d rows, table has %d",
			s.base.Name(), s.column, len(repl), len(d.Rows))
	}
	for i, v := range repl {
		d.Rows[i][ix] = v
	}

	return s.out.Create(func(w io.Writer) error {
		return d.WriteTo(w, s.opt)
	})
}

// readBase loads the base task's output as a full table.
func (s *ColumnSplicer) readBase() (*table.Data, error) {
	rc, err := s.base.Output().Open()
	if err != nil {
		return nil, fmt.Errorf("splice %s.%s: %w", s.base.Name(), s.column, err)
	}
	defer rc.Close()
	d, err := table.ReadFrom(rc, s.opt)
	if err != nil {
		return nil, fmt.Errorf("splice %s.%s: %w", s.base.Name(), s.column, err)
	}
	return d, nil
}

// readReplacement loads the substituted column and validates its shape: a
// header naming the target column and an index column that matches row
// positions exactly.
func (s *ColumnSplicer) readReplacement() ([]string, error) {
	rc, err := s.replacement.Output().Open()
	if err != nil {
		return nil, fmt.Errorf("splice %s.%s: %w", s.base.Name(), s.column, err)
	}
	defer rc.Close()
	d, err := table.ReadFrom(rc, s.opt)
	if err != nil {
		return nil, fmt.Errorf("splice %s.%s: %w", s.base.Name(), s.column, err)
	}
	if len(d.Header) != 2 || d.Header[0] != indexColumn || d.Header[1] != s.column {
		return nil, fmt.Errorf("splice %s.%s: unexpected replacement header %v",
			s.base.Name(), s.column, d.Header)
	}
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		n, err := strconv.Atoi(row[0])
		if err != nil || n != i {
			return nil, fmt.Errorf("splice %s.%s: row index %q out of order at position %d",
				s.base.Name(), s.column, row[0], i)
		}
		out[i] = row[1]
	}
	return out, nil
}
