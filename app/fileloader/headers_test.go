package fileloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"unchanged", []string{"id", "text"}, []string{"id", "text"}},
		{"blank cells", []string{"", "text", "  "}, []string{"Column1", "text", "Column3"}},
		{"duplicates", []string{"a", "a", "a"}, []string{"a", "a_2", "a_3"}},
		{"suffix already taken", []string{"a", "a_2", "a"}, []string{"a", "a_2", "a_3"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeaders(tt.input))
		})
	}
}
