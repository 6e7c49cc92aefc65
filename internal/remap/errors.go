package remap

import "errors"

// Sentinel errors for the failure classes the pipeline distinguishes.
// Callers match them with errors.Is; messages carry the specifics.
var (
	// ErrColumnNotFound reports a requested column absent from a table.
	ErrColumnNotFound = errors.New("column not found")

	// ErrUnmappedValue reports a column value with no id-map entry at
	// substitution time. This is a hard failure: silently coercing or
	// dropping the value would corrupt downstream joins.
	ErrUnmappedValue = errors.New("value missing from id map")

	// ErrAmbiguousAbbrev reports that no prefix length yields pairwise
	// distinct abbreviations for a set of column names.
	ErrAmbiguousAbbrev = errors.New("column names cannot be abbreviated unambiguously")

	// ErrDuplicateColumn reports a column requested more than once.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrNoColumns reports an empty remap column set.
	ErrNoColumns = errors.New("no columns to remap")
)
