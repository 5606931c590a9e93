// Package strings holds small slice helpers shared by request validation.
package strings

import (
	"strings"
)

// DedupeAndTrimUpper canonicalises card identifiers from a batch request:
// whitespace is trimmed, letters upper-cased, blanks and repeats dropped.
//
//	DedupeAndTrimUpper([]string{" abc1 ", "ABC1", "def2"})
//	// []string{"ABC1", "DEF2"}
func DedupeAndTrimUpper(values []string) []string {
	return DedupeFunc(values, func(v string) string {
		return strings.ToUpper(strings.TrimSpace(v))
	})
}

// DedupeFunc normalises each element with canon, drops empties and duplicates
// of the normalised form, and preserves first-seen order.
func DedupeFunc(values []string, canon func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		c := canon(v)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}
