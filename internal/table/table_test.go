package table

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestRefRead(t *testing.T) {
	t.Parallel()

	type tc struct {
		name      string
		contents  string
		opt       Options
		want      *Data
		wantErrIs error
	}

	cases := []tc{
		{
			name:     "basic",
			contents: "id,grade,gpa\n1,A,3.9\n2,B,3.1\n",
			want: &Data{
				Header: []string{"id", "grade", "gpa"},
				Rows:   [][]string{{"1", "A", "3.9"}, {"2", "B", "3.1"}},
			},
		},
		{
			name:     "bom_and_trim",
			contents: "\ufeffid, grade\n1, A \n",
			opt:      Options{TrimSpace: true},
			want: &Data{
				Header: []string{"id", "grade"},
				Rows:   [][]string{{"1", "A"}},
			},
		},
		{
			name:     "semicolon_delimiter",
			contents: "a;b\nx;y\n",
			opt:      Options{Comma: ';'},
			want: &Data{
				Header: []string{"a", "b"},
				Rows:   [][]string{{"x", "y"}},
			},
		},
		{
			name:     "empty_cells_preserved",
			contents: "a,b\n,v\n",
			want: &Data{
				Header: []string{"a", "b"},
				Rows:   [][]string{{"", "v"}},
			},
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			ref := Ref{Name: "t", Path: writeTemp(t, c.contents)}
			got, err := ref.Read(context.Background(), c.opt)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("Read = %#v, want %#v", got, c.want)
			}
		})
	}
}

func TestRefRead_MissingFile(t *testing.T) {
	t.Parallel()

	ref := Ref{Name: "gone", Path: filepath.Join(t.TempDir(), "missing.csv")}
	_, err := ref.Read(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("errors.Is(%v, os.ErrNotExist) = false", err)
	}
	if !strings.Contains(err.Error(), "read table gone") {
		t.Fatalf("error %q does not name the table", err)
	}
}

func TestRefRead_PreCanceledContext(t *testing.T) {
	t.Parallel()

	ref := Ref{Name: "t", Path: writeTemp(t, "a\n1\n")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ref.Read(ctx, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestDataColumn(t *testing.T) {
	t.Parallel()

	d := &Data{
		Header: []string{"grade", "gpa"},
		Rows:   [][]string{{"A", "3.9"}, {"B", "3.1"}, {"A", "2.8"}},
	}

	got, err := d.Column("grade")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if want := []string{"A", "B", "A"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Column = %v, want %v", got, want)
	}

	if _, err := d.Column("rank"); err == nil {
		t.Fatal("expected error for absent column")
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	t.Parallel()

	in := &Data{
		Header: []string{"a", "b"},
		Rows:   [][]string{{"1", ""}, {"2", "x,y"}},
	}
	var sb strings.Builder
	if err := in.WriteTo(&sb, Options{}); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out, err := ReadFrom(strings.NewReader(sb.String()), Options{})
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: wrote %#v, read %#v", in, out)
	}
}
