package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"trendradar/internal/models"
)

func TestIndex_FilterDropsExactDedupKeyCollisions(t *testing.T) {
	idx := NewIndex(DefaultThreshold)
	items := []models.RawContent{
		{Platform: models.PlatformWeibo, Title: "国务院召开常务会议部署经济工作安排"},
		{Platform: models.PlatformBaidu, Title: "国务院召开常务会议部署经济工作安排"},
	}

	out := idx.Filter(items)
	assert.Len(t, out, 1)
}

func TestIndex_FilterCatchesNearDuplicateTitles(t *testing.T) {
	idx := NewIndex(0.7)
	items := []models.RawContent{
		{Platform: models.PlatformWeibo, Title: "人工智能大模型迎来新突破引发广泛关注和讨论"},
		{Platform: models.PlatformZhihu, Title: "人工智能大模型迎来新突破引发广泛关注和讨论！"},
	}

	out := idx.Filter(items)
	assert.Len(t, out, 1, "near-identical titles differing only by trailing punctuation should dedup")
}

func TestIndex_FilterKeepsDistinctTitles(t *testing.T) {
	idx := NewIndex(DefaultThreshold)
	items := []models.RawContent{
		{Platform: models.PlatformBilibili, Title: "芯片突破国产替代加速推进"},
		{Platform: models.PlatformDouyin, Title: "高考志愿填报指南发布"},
	}

	out := idx.Filter(items)
	assert.Len(t, out, 2)
}

func TestMinHash_JaccardSimilarityIsOneForIdenticalText(t *testing.T) {
	mh := NewMinHash(DefaultNumHashes, DefaultShingleSize)
	a := mh.ComputeSignature("量子计算实现重大突破")
	b := mh.ComputeSignature("量子计算实现重大突破")
	assert.Equal(t, 1.0, mh.JaccardSimilarity(a, b))
}

func TestIndex_ClearResetsSize(t *testing.T) {
	idx := NewIndex(DefaultThreshold)
	idx.Add("k1", models.RawContent{Title: "测试标题"})
	assert.Equal(t, 1, idx.Size())
	idx.Clear()
	assert.Equal(t, 0, idx.Size())
}
