package strings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimUpper(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{
			name:     "mixed case collapses",
			input:    []string{"abc123", "ABC123", "Abc123"},
			expected: []string{"ABC123"},
		},
		{
			name:     "trims and drops blanks",
			input:    []string{" fc0001 ", "", "   ", "fc0002"},
			expected: []string{"FC0001", "FC0002"},
		},
		{
			name:     "keeps first-seen order",
			input:    []string{"zz9", "aa1", "ZZ9", "mm5"},
			expected: []string{"ZZ9", "AA1", "MM5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimUpper(tt.input))
		})
	}
}

func TestDedupeFunc_CustomCanon(t *testing.T) {
	got := DedupeFunc([]string{"Alice", "alice ", "BOB", "bob"}, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
	assert.Equal(t, []string{"alice", "bob"}, got)
}
