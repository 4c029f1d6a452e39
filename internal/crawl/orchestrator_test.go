package crawl

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendradar/internal/models"
	"trendradar/internal/platforms"
	"trendradar/internal/ratelimit"
)

type fakeCrawler struct {
	name    string
	host    string
	items   []models.RawContent
	blocked bool
}

func (f *fakeCrawler) Name() string { return f.name }
func (f *fakeCrawler) Host() string { return f.host }
func (f *fakeCrawler) CrawlAll(ctx context.Context, seeds []string) ([]models.RawContent, *platforms.Stats) {
	return f.items, &platforms.Stats{Platform: f.name, ItemsFound: len(f.items)}
}

func newTestOrchestrator(t *testing.T, crawlers []platforms.Crawler) (*Orchestrator, string) {
	t.Helper()
	dir := t.TempDir()
	client, err := ratelimit.New(ratelimit.DefaultOptions())
	require.NoError(t, err)
	return &Orchestrator{
		client:     client,
		crawlers:   crawlers,
		rawFeedDir: dir,
		log:        testLogger(),
	}, dir
}

func TestOrchestrator_CrawlAllDedupesAndPersists(t *testing.T) {
	crawlers := []platforms.Crawler{
		&fakeCrawler{name: "weibo", host: "weibo.com", items: []models.RawContent{
			{Platform: "weibo", Title: "人工智能大模型再创新高"},
		}},
		&fakeCrawler{name: "zhihu", host: "zhihu.com", items: []models.RawContent{
			{Platform: "zhihu", Title: "人工智能大模型再创新高"},
			{Platform: "zhihu", Title: "高考志愿填报指南发布"},
		}},
	}
	orch, dir := newTestOrchestrator(t, crawlers)

	result, err := orch.CrawlAll(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Len(t, result.Items, 2, "duplicate title across platforms should be dropped")
	assert.FileExists(t, result.RawPath)
	assert.True(t, filepath.Dir(result.RawPath) == dir)

	data, err := os.ReadFile(result.RawPath)
	require.NoError(t, err)
	var payload rawFeedFile
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, 2, payload.Total)
}

func TestOrchestrator_CrawlAllFoldsInSupplements(t *testing.T) {
	crawlers := []platforms.Crawler{
		&fakeCrawler{name: "weibo", host: "weibo.com", items: []models.RawContent{
			{Platform: "weibo", Title: "人工智能大模型再创新高"},
		}},
	}
	orch, _ := newTestOrchestrator(t, crawlers)

	supplements := []models.RawContent{
		{Platform: "news", Title: "春节档票房创新纪录"},
	}

	result, err := orch.CrawlAll(context.Background(), 10, supplements)
	require.NoError(t, err)
	assert.Len(t, result.Items, 2, "news.json supplements should be folded into the crawl pool")

	var titles []string
	for _, item := range result.Items {
		titles = append(titles, item.Title)
	}
	assert.Contains(t, titles, "春节档票房创新纪录")
}

func TestOrchestrator_SkipsBlockedHosts(t *testing.T) {
	blockedHost := "douyin.com"
	client, err := newBlockingTestClient(blockedHost)
	require.NoError(t, err)

	crawlers := []platforms.Crawler{
		&fakeCrawler{name: "douyin", host: blockedHost, items: []models.RawContent{
			{Platform: "douyin", Title: "should never be collected"},
		}},
	}

	orch := &Orchestrator{
		client:     client,
		crawlers:   crawlers,
		rawFeedDir: t.TempDir(),
		log:        testLogger(),
	}

	result, err := orch.CrawlAll(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	require.Len(t, result.Stats, 1)
	assert.True(t, result.Stats[0].Blocked)
}

func TestOrchestrator_PruneStaleFeedsRemovesOldFiles(t *testing.T) {
	orch, dir := newTestOrchestrator(t, nil)

	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-8 * 24 * time.Hour)
	fresh := now.Add(-1 * time.Hour)

	staleName := filepath.Join(dir, "raw_"+stale.Format(rawFeedTimeLayout)+".json")
	freshName := filepath.Join(dir, "raw_"+fresh.Format(rawFeedTimeLayout)+".json")
	require.NoError(t, os.WriteFile(staleName, []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(freshName, []byte(`{}`), 0o644))

	require.NoError(t, orch.pruneStaleFeeds(now))

	assert.NoFileExists(t, staleName)
	assert.FileExists(t, freshName)
}
