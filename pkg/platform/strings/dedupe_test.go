package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "single element",
			input:    []string{"42"},
			expected: []string{"42"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  42  ", "7 ", " 19"},
			expected: []string{"42", "7", "19"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"42", "7", "42", "19", "7"},
			expected: []string{"42", "7", "19"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"42", "", "  ", "7"},
			expected: []string{"42", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
