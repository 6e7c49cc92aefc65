package remap

import (
	"errors"
	"fmt"
	"strings"

	"remap/internal/table"
	"remap/internal/task"
)

// Options configures a Remapper. SaveDir is where all artifacts are written;
// CSV applies to every read and write; FinalName overrides the default name
// of the terminal artifact, "<table>-Map-<abbrev>".
type Options struct {
	SaveDir   string
	CSV       table.Options
	FinalName string
}

// Remapper builds the full task graph that integer-codes a set of
// categorical columns. Construction is synchronous and performs no I/O: one
// IdMapBuilder -> ValueSubstituter -> ColumnSplicer chain per column, with
// splices applied sequentially so each column's splice consumes the previous
// splice's output. Id maps and substitutions only depend on the source
// table, so across columns they may run concurrently; the splice stages are
// the only serialized part.
//
// The external executor (task.Execute) runs the graph; the Remapper itself
// never executes anything.
type Remapper struct {
	source   *TableSource
	builders []*IdMapBuilder
	subbers  []*ValueSubstituter
	splicers []*ColumnSplicer
}

// NewRemapper constructs the task graph for remapping columns of the
// referenced table. It fails, before any I/O, on an empty or duplicated
// column set and when the output-naming abbreviation is ambiguous.
func NewRemapper(ref table.Ref, columns []string, opt Options) (*Remapper, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("remap %s: %w", ref.Name, ErrNoColumns)
	}
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("remap %s: column %d is empty", ref.Name, i)
		}
		if seen[c] {
			return nil, fmt.Errorf("remap %s: column %q: %w", ref.Name, c, ErrDuplicateColumn)
		}
		seen[c] = true
	}

	// Resolve every splice name up front so naming failures surface at
	// construction time. Splice i covers columns[:i+1], so the last name
	// is "<table>-Map-<abbrev>" for the whole set.
	names := make([]string, len(columns))
	for i := range columns {
		abbrev, err := AbbrevColumns(columns[:i+1])
		if err != nil {
			return nil, fmt.Errorf("remap %s: %w", ref.Name, err)
		}
		names[i] = ref.Name + "-Map-" + abbrev
	}
	if opt.FinalName != "" {
		names[len(names)-1] = opt.FinalName
	}

	r := &Remapper{source: NewTableSource(ref)}
	var base task.Task = r.source
	for i, col := range columns {
		builder := NewIdMapBuilder(r.source, col, opt.SaveDir, "", opt.CSV)
		subber := NewValueSubstituter(r.source, col, builder, opt.SaveDir, "", opt.CSV)
		splicer := NewColumnSplicer(base, col, subber, opt.SaveDir, names[i], opt.CSV)

		r.builders = append(r.builders, builder)
		r.subbers = append(r.subbers, subber)
		r.splicers = append(r.splicers, splicer)
		base = splicer
	}
	return r, nil
}

// FinalResult returns the terminal task of the last chain; its output is the
// pipeline's final artifact once the graph has been executed.
func (r *Remapper) FinalResult() task.Task {
	return r.splicers[len(r.splicers)-1]
}

// AllTasks returns every generated task, for introspection and cleanup. The
// table source is not included; the input table is never a pipeline
// artifact.
func (r *Remapper) AllTasks() []task.Task {
	out := make([]task.Task, 0, len(r.builders)+len(r.subbers)+len(r.splicers))
	for _, t := range r.builders {
		out = append(out, t)
	}
	for _, t := range r.subbers {
		out = append(out, t)
	}
	for _, t := range r.splicers {
		out = append(out, t)
	}
	return out
}

// DeleteIntermediates removes every artifact except the final one. Missing
// files are tolerated, so cleanup can run after partial failures and can be
// repeated; any other filesystem error is collected and returned.
func (r *Remapper) DeleteIntermediates() error {
	final := r.FinalResult()
	var errs []error
	for _, t := range r.AllTasks() {
		if t == final {
			continue
		}
		if err := t.Output().Remove(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
