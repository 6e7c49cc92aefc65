package remap

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"remap/internal/table"
)

func TestValueSubstituter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ref := writeTable(t, dir, "students", "grade,name\nA,ann\nB,bob\nA,amy\nC,cal\n,dee\n")
	src := NewTableSource(ref)

	builder := NewIdMapBuilder(src, "grade", dir, "", table.Options{})
	if err := builder.Run(context.Background()); err != nil {
		t.Fatalf("build id map: %v", err)
	}

	sub := NewValueSubstituter(src, "grade", builder, dir, "", table.Options{})
	if got, want := sub.Name(), "students-grade-idsub"; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if err := sub.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Substituted column [0,1,0,2,3] with an explicit row index.
	want := "index,grade\n0,0\n1,1\n2,0\n3,2\n4,3\n"
	if got := readAll(t, sub.Output().Path()); got != want {
		t.Fatalf("substituted = %q, want %q", got, want)
	}
}

func TestValueSubstituterUnmappedValue(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Build the map from one table, substitute a different one holding a
	// value the map does not cover.
	mapRef := writeTable(t, dir, "small", "grade,name\nA,ann\nB,bob\n")
	fullRef := writeTable(t, dir, "full", "grade,name\nA,ann\nZ,zed\n")

	builder := NewIdMapBuilder(NewTableSource(mapRef), "grade", dir, "", table.Options{})
	if err := builder.Run(context.Background()); err != nil {
		t.Fatalf("build id map: %v", err)
	}

	sub := NewValueSubstituter(NewTableSource(fullRef), "grade", builder, dir, "", table.Options{})
	err := sub.Run(context.Background())
	if !errors.Is(err, ErrUnmappedValue) {
		t.Fatalf("Run error = %v, want ErrUnmappedValue", err)
	}
	if sub.Output().Exists() {
		t.Fatal("failed substitution left an output behind")
	}
}

func TestValueSubstituterColumnNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ref := writeTable(t, dir, "t", "grade,name\nA,ann\n")
	src := NewTableSource(ref)

	builder := NewIdMapBuilder(src, "grade", dir, "", table.Options{})
	if err := builder.Run(context.Background()); err != nil {
		t.Fatalf("build id map: %v", err)
	}

	sub := NewValueSubstituter(NewTableSource(writeTable(t, dir, "other", "x\n1\n")), "grade", builder, dir, "", table.Options{})
	if err := sub.Run(context.Background()); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("Run error = %v, want ErrColumnNotFound", err)
	}
}

// TestValueSubstituterCodesInRange checks the output guarantee: every coded
// value is an integer in [0, k) where k is the id map's cardinality.
func TestValueSubstituterCodesInRange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ref := writeTable(t, dir, "t", "c,row\nq,1\nw,2\ne,3\nq,4\nw,5\n")
	src := NewTableSource(ref)

	builder := NewIdMapBuilder(src, "c", dir, "", table.Options{})
	if err := builder.Run(context.Background()); err != nil {
		t.Fatalf("build id map: %v", err)
	}
	_, values, err := LoadIdMap(builder.Output(), table.Options{})
	if err != nil {
		t.Fatalf("LoadIdMap: %v", err)
	}

	sub := NewValueSubstituter(src, "c", builder, dir, "", table.Options{})
	if err := sub.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rc, err := sub.Output().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	d, err := table.ReadFrom(rc, table.Options{})
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	coded, err := d.Column("c")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	k := len(values)
	for i, v := range coded {
		id, err := strconv.Atoi(v)
		if err != nil || id < 0 || id >= k {
			t.Fatalf("row %d: code %q outside [0,%d)", i, v, k)
		}
	}
}
