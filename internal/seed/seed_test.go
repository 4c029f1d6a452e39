package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect_RespectsCountCap(t *testing.T) {
	words := Select(10)
	assert.LessOrEqual(t, len(words), 10)
	assert.NotEmpty(t, words)
}

func TestSelect_AtLeastTwoPerDomainWhenCountSmall(t *testing.T) {
	words := Select(4)
	// 4 domains * max(2, 4/4)=2 -> at least 8 candidates before truncation
	assert.LessOrEqual(t, len(words), 4)

	// 6/4=1 per domain would give only 4 candidates; the floor of 2 gives 8
	assert.Len(t, Select(6), 6)
}

func TestSelect_NoDuplicatesWithinOneDraw(t *testing.T) {
	words := Select(40)
	seen := make(map[string]bool)
	for _, w := range words {
		assert.False(t, seen[w], "seed %q drawn twice", w)
		seen[w] = true
	}
}
