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

// IdMapBuilder builds a contiguous integer id map for one column of a table:
// each distinct value, in first-occurrence order, is assigned its position
// as a zero-based id. An empty cell is the missing-value representation; it
// claims one id like any other distinct value, so inverting the map recovers
// the original column exactly.
//
// The map is persisted as two-column delimited text, id first, value second,
// no header, row order = id order. Re-running against an unchanged table
// yields a byte-identical artifact.
type IdMapBuilder struct {
	source *TableSource
	column string
	opt    table.Options
	name   string
	out    *task.Target
}

// NewIdMapBuilder returns a builder task for the given column. outName
// overrides the default artifact name "<table>-<column>-idmap"; pass "" to
// keep the default. The artifact is written under saveDir.
func NewIdMapBuilder(src *TableSource, column, saveDir, outName string, opt table.Options) *IdMapBuilder {
	if outName == "" {
		outName = src.Ref().Name + "-" + column + "-idmap"
	}
	return &IdMapBuilder{
		source: src,
		column: column,
		opt:    opt,
		name:   outName,
		out:    task.NewTarget(filepath.Join(saveDir, outName)),
	}
}

func (b *IdMapBuilder) Name() string         { return b.name }
func (b *IdMapBuilder) Inputs() []task.Task  { return []task.Task{b.source} }
func (b *IdMapBuilder) Output() *task.Target { return b.out }

func (b *IdMapBuilder) Run(ctx context.Context) error {
	d, err := b.source.Ref().Read(ctx, b.opt)
	if err != nil {
		return err
	}
	col, err := d.Column(b.column)
	if err != nil {
		return fmt.Errorf("table %s: column %q: %w", b.source.Ref().Name, b.column, ErrColumnNotFound)
	}

	seen := make(map[string]bool, len(col))
	var order []string
	for _, v := range col {
		if !seen[v] {
			seen[v] = true
			order = append(order, v)
		}
	}

	return b.out.Create(func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.Comma = b.opt.Comma
		if cw.Comma == 0 {
			cw.Comma = ','
		}
		for id, v := range order {
			if err := cw.Write([]string{strconv.Itoa(id), v}); err != nil {
				return fmt.Errorf("write id map: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// LoadIdMap reads a persisted id map back as a value-to-id lookup plus the
// id-ordered value list. It verifies that the stored ids are contiguous and
// zero-based.
func LoadIdMap(t *task.Target, opt table.Options) (map[string]int, []string, error) {
	rc, err := t.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("load id map: %w", err)
	}
	defer rc.Close()

	cr := csv.NewReader(rc)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	byValue := map[string]int{}
	var values []string
	for i := 0; ; i++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("load id map %s: %w", t.Path(), err)
		}
		if len(row) != 2 {
			return nil, nil, fmt.Errorf("load id map %s: row %d has %d fields, want 2", t.Path(), i, len(row))
		}
		id, err := strconv.Atoi(row[0])
		if err != nil || id != i {
			return nil, nil, fmt.Errorf("load id map %s: row %d: id %q not contiguous", t.Path(), i, row[0])
		}
		if _, dup := byValue[row[1]]; dup {
			return nil, nil, fmt.Errorf("load id map %s: value %q mapped twice", t.Path(), row[1])
		}
		byValue[row[1]] = id
		values = append(values, row[1])
	}
	return byValue, values, nil
}
