// Package config defines the canonical, JSON-serializable configuration
// model for the remap pipeline. It is intentionally small, explicit, and
// dependency-free so that pipeline specs can be loaded from disk and passed
// through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in pipeline
//     files.
//  3. Minimalism: No third-party config libraries; decoding is performed by
//     the standard library, with a light Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "job":      "students-remap",
//	  "table":    { "name": "students", "path": "data/students.csv" },
//	  "columns":  ["grade", "gpa"],
//	  "save_dir": "out",
//	  "csv":      { "comma": ",", "trim_space": true },
//	  "storage":  { "kind": "sqlite", "db": { "dsn": "out/remap.db", "table": "students" } }
//	}
package config

import "encoding/json"

// Pipeline describes a full remap run in JSON. It is the top-level object
// decoded from a pipeline file.
type Pipeline struct {
	// Job names the run; it is used in logs and artifact summaries.
	Job string `json:"job"`

	// Table identifies the input table: a stable name used for artifact
	// naming plus the path of the delimited file.
	Table TableRef `json:"table"`

	// Columns lists the categorical columns to integer-code, in order.
	Columns []string `json:"columns"`

	// SaveDir is the directory where all artifacts are written.
	SaveDir string `json:"save_dir"`

	// FinalName optionally overrides the terminal artifact's default name,
	// "<table>-Map-<abbrev>".
	FinalName string `json:"final_name,omitempty"`

	// CSV is a free-form options bag for delimited reading/writing.
	// Recognized keys: comma (string, first rune used), trim_space (bool).
	CSV Options `json:"csv"`

	// Runtime controls graph-execution concurrency.
	Runtime RuntimeConfig `json:"runtime"`

	// Storage optionally loads the final table into a database once the
	// pipeline completes. Leave Kind empty to skip loading.
	Storage Storage `json:"storage"`

	// Cleanup removes intermediate artifacts after a successful run.
	Cleanup bool `json:"cleanup"`
}

// TableRef names an input table and locates its data.
type TableRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// RuntimeConfig controls concurrency of graph execution.
type RuntimeConfig struct {
	// Workers bounds how many tasks run concurrently. 0 selects the
	// executor default.
	Workers int `json:"workers"`
}

// Storage selects the sink used to persist the final table.
type Storage struct {
	// Kind selects the storage backend ("sqlite", "postgres"). Empty
	// disables the load step.
	Kind string `json:"kind"`

	// DB configures the selected backend.
	DB DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the connection string (file path or URI for SQLite,
	// postgresql://... for Postgres).
	DSN string `json:"dsn"`

	// Table is the destination table name.
	Table string `json:"table"`

	// BatchSize bounds rows per insert batch; 0 selects the default.
	BatchSize int `json:"batch_size"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a
// key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character settings such as a
// CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// options object decodes to a non-nil, empty Options map. This simplifies
// call sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
