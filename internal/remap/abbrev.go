package remap

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AbbrevColumns derives a short, collision-free token from an ordered set of
// column names, used only for naming output artifacts.
//
// It finds the smallest prefix length L >= 1 such that the first L
// characters of every name, compared case-insensitively, are pairwise
// distinct, then title-cases each prefix and concatenates them in the given
// order. ("grade", "gpa", "rank") needs L=2 (L=1 collides on "g") and yields
// "GrGpRa".
//
// When no L up to the length of the shortest name separates the set, the
// abbreviation is ambiguous and an error wrapping ErrAmbiguousAbbrev is
// returned.
func AbbrevColumns(names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("abbreviate: %w", ErrNoColumns)
	}

	prefixes := make([][]rune, len(names))
	minLen := -1
	for i, n := range names {
		r := []rune(n)
		prefixes[i] = r
		if minLen < 0 || len(r) < minLen {
			minLen = len(r)
		}
	}
	if minLen == 0 {
		return "", fmt.Errorf("abbreviate: empty column name: %w", ErrAmbiguousAbbrev)
	}

	titler := cases.Title(language.Und)
	for l := 1; l <= minLen; l++ {
		seen := make(map[string]bool, len(names))
		distinct := true
		for _, r := range prefixes {
			p := strings.ToLower(string(r[:l]))
			if seen[p] {
				distinct = false
				break
			}
			seen[p] = true
		}
		if !distinct {
			continue
		}
		var sb strings.Builder
		for _, r := range prefixes {
			sb.WriteString(titler.String(string(r[:l])))
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("abbreviate %v: %w", names, ErrAmbiguousAbbrev)
}
