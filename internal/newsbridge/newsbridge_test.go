package newsbridge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendradar/internal/models"
)

func TestImport_MissingFileReturnsNoSupplements(t *testing.T) {
	items, err := Import(filepath.Join(t.TempDir(), "news.json"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestImport_SkipsDiscoveredTrendEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	doc := Document{
		Items: []NewsItem{
			{Title: "外部新闻标题", Source: "新华社"},
			{Title: "旧发现的热点", Source: DiscoveredSource, IsDiscoveredTrend: true},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	items, err := Import(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "外部新闻标题", items[0].Title)
}

func TestMerge_ReplacesPriorDiscoveredTrendsPreservesExternal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	initial := Document{
		Items: []NewsItem{
			{Title: "外部新闻标题", Source: "新华社"},
			{Title: "过期的热点", Source: DiscoveredSource, IsDiscoveredTrend: true},
		},
	}
	data, err := json.Marshal(initial)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	trends := []models.TrendTopic{
		{
			Keyword: "人工智能大模型", HeatScore: 87.5, Frequency: 12, Acceleration: 1.2,
			IsBurst: true, BurstZScore: 3.1, MACDSignal: models.MACDBullish,
			TrendDirection: models.DirectionUp, Platforms: []string{"weibo", "zhihu"},
			Sparkline: []int{1, 2, 3}, PeakTime: time.Now(),
		},
	}

	require.NoError(t, Merge(path, trends, time.Now()))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	var out Document
	require.NoError(t, json.Unmarshal(data, &out))

	require.Len(t, out.Items, 2)
	var sawExternal, sawDiscovered bool
	for _, item := range out.Items {
		if item.Source == "新华社" {
			sawExternal = true
		}
		if item.IsDiscoveredTrend {
			sawDiscovered = true
			assert.Equal(t, "人工智能大模型", item.Title)
			require.NotNil(t, item.TrendData)
			assert.Equal(t, 87.5, item.TrendData.HeatScore)
		}
	}
	assert.True(t, sawExternal, "external news item should survive merge")
	assert.True(t, sawDiscovered, "new discovered trend should be written")
}

func TestFromTrend_TruncatesSparklineToLast20(t *testing.T) {
	sparkline := make([]int, 30)
	for i := range sparkline {
		sparkline[i] = i
	}
	item := FromTrend(models.TrendTopic{Keyword: "测试关键词", Sparkline: sparkline})
	require.NotNil(t, item.TrendData)
	assert.Len(t, item.TrendData.Sparkline, SparklineWindow)
	assert.Equal(t, 10, item.TrendData.Sparkline[0])
}
