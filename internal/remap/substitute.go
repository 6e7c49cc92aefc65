package remap

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"remap/internal/table"
	"remap/internal/task"
)

// indexColumn names the explicit row-index column carried by substituted
// outputs so the splice step can realign them with the full table.
const indexColumn = "index"

// ValueSubstituter replaces every value of one column with its id from a
// previously built id map. The map is consumed by reference: the builder
// task is wired in as a dependency and its artifact is read at run time.
//
// The output is a reduced table with two columns: the explicit row index and
// the integer-coded column, preserving the original row order. The id map
// must cover every value present in the column; an uncovered value is a hard
// failure and no output is written.
type ValueSubstituter struct {
	source *TableSource
	column string
	idmap  task.Task
	opt    table.Options
	name   string
	out    *task.Target
}

// NewValueSubstituter returns a substitution task for the given column.
// idmap is the task whose output holds the id map (normally an
// *IdMapBuilder). outName overrides the default "<table>-<column>-idsub";
// pass "" to keep the default.
func NewValueSubstituter(src *TableSource, column string, idmap task.Task, saveDir, outName string, opt table.Options) *ValueSubstituter {
	if outName == "" {
		outName = src.Ref().Name + "-" + column + "-idsub"
	}
	return &ValueSubstituter{
		source: src,
		column: column,
		idmap:  idmap,
		opt:    opt,
		name:   outName,
		out:    task.NewTarget(filepath.Join(saveDir, outName)),
	}
}

func (s *ValueSubstituter) Name() string         { return s.name }
func (s *ValueSubstituter) Inputs() []task.Task  { return []task.Task{s.source, s.idmap} }
func (s *ValueSubstituter) Output() *task.Target { return s.out }

func (s *ValueSubstituter) Run(ctx context.Context) error {
	byValue, _, err := LoadIdMap(s.idmap.Output(), s.opt)
	if err != nil {
		return err
	}
	d, err := s.source.Ref().Read(ctx, s.opt)
	if err != nil {
		return err
	}
	col, err := d.Column(s.column)
	if err != nil {
		return fmt.Errorf("table %s: column %q: %w", s.source.Ref().Name, s.column, ErrColumnNotFound)
	}

	// Substitute fully before touching the output so a coverage failure
	// leaves no artifact behind.
	rows := make([][]string, len(col))
	for i, v := range col {
		id, ok := byValue[v]
		if !ok {
			return fmt.Errorf("substitute %s.%s row %d: value %q: %w",
				s.source.Ref().Name, s.column, i, v, ErrUnmappedValue)
		}
		rows[i] = []string{strconv.Itoa(i), strconv.Itoa(id)}
	}

	return s.out.Create(func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if s.opt.Comma != 0 {
			cw.Comma = s.opt.Comma
		}
		if err := cw.Write([]string{indexColumn, s.column}); err != nil {
			return fmt.Errorf("write substituted column: %w", err)
		}
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("write substituted column: %w", err)
		}
		cw.Flush()
		return cw.Error()
	})
}
