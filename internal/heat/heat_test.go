package heat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_BoundedInRange(t *testing.T) {
	w := DefaultWeights()
	s := Score(w, 100, 5, 5, 1.0, 0, DefaultHalfLifeHours, true, true)
	assert.LessOrEqual(t, s, 100.0)
	assert.GreaterOrEqual(t, s, 0.0)
}

func TestScore_BurstAndBullishMultiply(t *testing.T) {
	w := DefaultWeights()
	base := Score(w, 5, 0, 1, 0.1, 1, DefaultHalfLifeHours, false, false)
	boosted := Score(w, 5, 0, 1, 0.1, 1, DefaultHalfLifeHours, true, true)
	assert.Greater(t, boosted, base)
}

func TestScore_ZeroInputsIsZero(t *testing.T) {
	w := DefaultWeights()
	s := Score(w, 0, 0, 0, 0, 0, DefaultHalfLifeHours, false, false)
	assert.Equal(t, 0.0, s)
}

func TestDirectionFor_MappingTable(t *testing.T) {
	cases := []struct {
		counts []int
		want   Direction
	}{
		{[]int{10, 16}, UpRight},
		{[]int{10, 30}, Up},
		{[]int{10, 10}, Flat},
		{[]int{20, 5}, Down},
		{[]int{}, Flat},
		{[]int{5}, Flat},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DirectionFor(c.counts), "counts=%v", c.counts)
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	assert.Equal(t, CategoryFinance, Classify("A股大涨"))
	assert.Equal(t, CategoryPolitics, Classify("国务院新政策"))
	assert.Equal(t, CategoryTech, Classify("人工智能芯片突破"))
	assert.Equal(t, CategoryInternational, Classify("联合国峰会"))
	assert.Equal(t, CategoryCurrentAffair, Classify("天气预报"))
}
