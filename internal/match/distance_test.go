package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shape-caster/internal/match"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"a", "ab", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"createdat", "updatedat", 3},
		{"Hello", "hello", 1},
		{"größe", "grösse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, match.Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, match.Distance(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, match.Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, match.Similarity("Email_Address", "EmailAddress"), 1e-9)
	assert.InDelta(t, 1.0, match.Similarity("CustomerID", "customer"), 1e-9)
	assert.InDelta(t, 0.9, match.Similarity("TotalCents", "TotalCent"), 1e-9)
	assert.Less(t, match.Similarity("Quantity", "Amount"), match.DefaultThreshold)
}
