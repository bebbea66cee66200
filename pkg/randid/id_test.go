package randid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Length(t *testing.T) {
	for _, n := range []int{1, 4, 8, 32} {
		assert.Len(t, Generate(n), n)
	}
}

func TestGenerate_NonPositiveLength(t *testing.T) {
	assert.Empty(t, Generate(0))
	assert.Empty(t, Generate(-3))
}

func TestGenerate_AlphabetOnly(t *testing.T) {
	for range 50 {
		id := Generate(12)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in %q", r, id)
		}
	}
}

func TestGenerate_MostlyDistinct(t *testing.T) {
	// 36^8 combinations make repeats across 200 draws vanishingly rare;
	// heavy duplication would point at a broken source.
	seen := make(map[string]struct{})
	for range 200 {
		seen[Generate(8)] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}
