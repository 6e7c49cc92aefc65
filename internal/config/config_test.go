package config

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const samplePipeline = `{
  "job": "students-remap",
  "table": { "name": "students", "path": "data/students.csv" },
  "columns": ["grade", "gpa"],
  "save_dir": "out",
  "csv": { "comma": ";", "trim_space": true },
  "runtime": { "workers": 2 },
  "storage": { "kind": "sqlite", "db": { "dsn": "out/remap.db", "table": "students" } },
  "cleanup": true
}`

func TestPipelineDecode(t *testing.T) {
	t.Parallel()

	var p Pipeline
	if err := json.NewDecoder(strings.NewReader(samplePipeline)).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if p.Job != "students-remap" {
		t.Fatalf("Job = %q", p.Job)
	}
	if p.Table != (TableRef{Name: "students", Path: "data/students.csv"}) {
		t.Fatalf("Table = %+v", p.Table)
	}
	if want := []string{"grade", "gpa"}; !reflect.DeepEqual(p.Columns, want) {
		t.Fatalf("Columns = %v, want %v", p.Columns, want)
	}
	if p.CSV.Rune("comma", ',') != ';' {
		t.Fatalf("csv.comma = %q", p.CSV.String("comma", ""))
	}
	if !p.CSV.Bool("trim_space", false) {
		t.Fatal("csv.trim_space not decoded")
	}
	if p.Runtime.Workers != 2 {
		t.Fatalf("Runtime.Workers = %d", p.Runtime.Workers)
	}
	if p.Storage.Kind != "sqlite" || p.Storage.DB.Table != "students" {
		t.Fatalf("Storage = %+v", p.Storage)
	}
	if !p.Cleanup {
		t.Fatal("Cleanup not decoded")
	}
}

func TestOptionsDefaultsAndNull(t *testing.T) {
	t.Parallel()

	var p Pipeline
	if err := json.Unmarshal([]byte(`{"csv": null}`), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.CSV == nil {
		t.Fatal("null csv decoded to nil Options")
	}
	if got := p.CSV.String("comma", ","); got != "," {
		t.Fatalf("String default = %q", got)
	}
	if got := p.CSV.Int("workers", 4); got != 4 {
		t.Fatalf("Int default = %d", got)
	}
	if got := p.CSV.Rune("comma", ','); got != ',' {
		t.Fatalf("Rune default = %q", got)
	}
	if p.CSV.Bool("trim_space", true) != true {
		t.Fatal("Bool default lost")
	}
}

func TestOptionsTypeMismatchesFallBack(t *testing.T) {
	t.Parallel()

	o := Options{"comma": 5, "trim_space": "yes", "workers": "two"}
	if got := o.String("comma", ","); got != "," {
		t.Fatalf("String = %q", got)
	}
	if o.Bool("trim_space", false) {
		t.Fatal("Bool coerced a string")
	}
	if got := o.Int("workers", 3); got != 3 {
		t.Fatalf("Int = %d", got)
	}
}
