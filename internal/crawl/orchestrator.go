// Package crawl implements the orchestrator that drives the six
// platform crawlers each cycle: seed selection, ordered crawling with
// block-skip, within-cycle dedup by exact DedupKey, and persistence of
// the raw feed under data/raw_feeds/.
package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"trendradar/internal/models"
	"trendradar/internal/platforms"
	"trendradar/internal/ratelimit"
	"trendradar/internal/seed"
	"trendradar/pkg/logger"

	"trendradar/internal/platforms/baidu"
	"trendradar/internal/platforms/bilibili"
	"trendradar/internal/platforms/douyin"
	"trendradar/internal/platforms/weibo"
	"trendradar/internal/platforms/xiaohongshu"
	"trendradar/internal/platforms/zhihu"
)

// RawFeedMaxAge is how long a raw_feeds/raw_<ts>.json file survives
// before the orchestrator prunes it, keyed off its filename timestamp.
const RawFeedMaxAge = 7 * 24 * time.Hour

const rawFeedTimeLayout = "20060102_150405"

// Orchestrator owns the shared rate-limited client, the set of enabled
// platform crawlers (in the fixed spec order), and the raw-feed
// directory.
type Orchestrator struct {
	client     *ratelimit.Client
	crawlers   []platforms.Crawler
	rawFeedDir string
	log        *logger.Logger
}

// New builds an Orchestrator wired to client, enabling only the
// platforms named in enabledPlatforms (matching models.Platform*
// values); an empty slice enables all six, in the spec's fixed order.
func New(client *ratelimit.Client, enabledPlatforms []string, rawFeedDir string) *Orchestrator {
	all := []platforms.Crawler{
		douyin.New(client),
		xiaohongshu.New(client),
		weibo.New(client),
		bilibili.New(client),
		zhihu.New(client),
		baidu.New(client),
	}

	crawlers := all
	if len(enabledPlatforms) > 0 {
		want := make(map[string]bool, len(enabledPlatforms))
		for _, p := range enabledPlatforms {
			want[p] = true
		}
		crawlers = crawlers[:0]
		for _, c := range all {
			if want[c.Name()] {
				crawlers = append(crawlers, c)
			}
		}
	}

	return &Orchestrator{
		client:     client,
		crawlers:   crawlers,
		rawFeedDir: rawFeedDir,
		log:        logger.Get().WithField("component", "orchestrator"),
	}
}

// SelectSeeds delegates to internal/seed's domain-balanced draw.
func (o *Orchestrator) SelectSeeds(count int) []string {
	return seed.Select(count)
}

// CycleResult is what one crawl_all invocation produces: the
// deduplicated items and the per-platform stats, plus the path the
// raw feed was persisted to.
type CycleResult struct {
	CrawlTime time.Time
	Items     []models.RawContent
	Stats     []*platforms.Stats
	RawPath   string
}

type rawFeedFile struct {
	CrawlTime time.Time           `json:"crawl_time"`
	Total     int                 `json:"total"`
	Items     []models.RawContent `json:"items"`
}

// CrawlAll runs every enabled platform crawler in the fixed order,
// skipping any whose host is already blocked, folds in any supplements
// (e.g. news.json items converted by internal/newsbridge), dedupes the
// combined result by exact DedupKey (spec §4.3's only dedup
// mechanism), persists it under raw_feeds/, and prunes stale raw feed
// files older than RawFeedMaxAge.
func (o *Orchestrator) CrawlAll(ctx context.Context, seedCount int, supplements []models.RawContent) (*CycleResult, error) {
	seeds := o.SelectSeeds(seedCount)
	now := time.Now()

	all := make([]models.RawContent, 0, len(supplements))
	all = append(all, supplements...)
	stats := make([]*platforms.Stats, 0, len(o.crawlers))

	for _, c := range o.crawlers {
		if o.client.IsBlocked(c.Host()) {
			o.log.Warn().Str("platform", c.Name()).Str("host", c.Host()).Msg("skipping blocked host")
			stats = append(stats, &platforms.Stats{Platform: c.Name(), Blocked: true})
			continue
		}

		items, st := c.CrawlAll(ctx, seeds)
		stats = append(stats, st)
		all = append(all, items...)
		o.log.Info().Str("platform", c.Name()).Int("items", len(items)).Msg("platform crawl complete")
	}

	deduped := dedupByKey(all)

	rawPath, err := o.persistRawFeed(now, deduped)
	if err != nil {
		return nil, fmt.Errorf("persist raw feed: %w", err)
	}

	if err := o.pruneStaleFeeds(now); err != nil {
		o.log.Warn().Err(err).Msg("raw feed pruning failed")
	}

	return &CycleResult{CrawlTime: now, Items: deduped, Stats: stats, RawPath: rawPath}, nil
}

// dedupByKey drops items sharing a RawContent.DedupKey(), keeping the
// first occurrence in crawl order.
func dedupByKey(items []models.RawContent) []models.RawContent {
	seen := make(map[string]bool, len(items))
	out := make([]models.RawContent, 0, len(items))
	for _, item := range items {
		key := item.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func (o *Orchestrator) persistRawFeed(now time.Time, items []models.RawContent) (string, error) {
	if err := os.MkdirAll(o.rawFeedDir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("raw_%s.json", now.Format(rawFeedTimeLayout))
	path := filepath.Join(o.rawFeedDir, filename)

	payload := rawFeedFile{CrawlTime: now, Total: len(items), Items: items}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(o.rawFeedDir, ".raw-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", err
	}

	return path, nil
}

// pruneStaleFeeds deletes any raw_<YYYYmmdd_HHMMSS>.json file whose
// filename timestamp is older than RawFeedMaxAge relative to now.
func (o *Orchestrator) pruneStaleFeeds(now time.Time) error {
	entries, err := os.ReadDir(o.rawFeedDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "raw_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		ts := strings.TrimSuffix(strings.TrimPrefix(name, "raw_"), ".json")
		fileTime, err := time.Parse(rawFeedTimeLayout, ts)
		if err != nil {
			continue
		}

		if now.Sub(fileTime) > RawFeedMaxAge {
			if err := os.Remove(filepath.Join(o.rawFeedDir, name)); err != nil {
				o.log.Warn().Err(err).Str("file", name).Msg("failed to prune stale raw feed")
			}
		}
	}

	return nil
}

// PlatformNames returns the enabled crawler set's names, sorted, for
// status reporting.
func (o *Orchestrator) PlatformNames() []string {
	names := make([]string, len(o.crawlers))
	for i, c := range o.crawlers {
		names[i] = c.Name()
	}
	sort.Strings(names)
	return names
}
