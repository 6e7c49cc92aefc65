// Package config provides configuration models and helpers for remap
// pipelines.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of
// issues (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "table.path", "columns[1]").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue
// values; callers decide whether to treat warnings as fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; runs will be harder to identify in logs",
		})
	}
	if strings.TrimSpace(p.Table.Name) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "table.name",
			Message:  "table.name must not be empty; it prefixes every artifact name",
		})
	}
	if strings.TrimSpace(p.Table.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "table.path",
			Message:  "table.path must not be empty",
		})
	}
	if strings.TrimSpace(p.SaveDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "save_dir",
			Message:  "save_dir must not be empty",
		})
	}

	issues = append(issues, validateColumns(p.Columns)...)
	issues = append(issues, validateStorage(p.Storage)...)

	if p.Runtime.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.workers",
			Message:  "workers must not be negative",
		})
	}
	if comma := p.CSV.String("comma", ","); len([]rune(comma)) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "csv.comma",
			Message:  fmt.Sprintf("comma %q is not a single character; only its first rune is used", comma),
		})
	}

	return issues
}

// validateColumns checks the remap column set: non-empty, no blanks, no
// duplicates. Abbreviation feasibility is left to graph construction, which
// fails before any I/O anyway.
func validateColumns(cols []string) []Issue {
	var issues []Issue

	if len(cols) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "columns",
			Message:  "at least one column to remap is required",
		})
		return issues
	}
	seen := map[string]int{}
	for i, c := range cols {
		path := fmt.Sprintf("columns[%d]", i)
		if strings.TrimSpace(c) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "column name must not be empty",
			})
			continue
		}
		if j, dup := seen[c]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("column %q already listed at columns[%d]", c, j),
			})
			continue
		}
		seen[c] = i
	}
	return issues
}

// validateStorage validates the optional sink configuration. An empty kind
// disables loading entirely and is not an error.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}

	known := map[string]struct{}{
		"sqlite":   {},
		"postgres": {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty when a storage kind is set",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty when a storage kind is set",
		})
	}
	if s.DB.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	return issues
}
