// Package douyin crawls the short-video platform's public search and
// explore surfaces: SSR state-blob extraction with recursive field
// discovery into the aweme (video) item lists.
package douyin

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"trendradar/internal/models"
	"trendradar/internal/platforms"
	"trendradar/internal/ratelimit"
	"trendradar/pkg/logger"
)

const host = "www.douyin.com"

var awemeFieldNames = []string{"awemeList", "aweme_list"}

// Crawler implements platforms.Crawler for the short-video platform.
type Crawler struct {
	client *ratelimit.Client
	log    *logger.Logger
}

// New constructs a douyin Crawler sharing client for rate-limited requests.
func New(client *ratelimit.Client) *Crawler {
	return &Crawler{client: client, log: logger.Get().WithField("platform", models.PlatformDouyin)}
}

func (c *Crawler) Name() string { return models.PlatformDouyin }
func (c *Crawler) Host() string { return host }

// CrawlAll issues a search-explore request per seed, extracting the SSR
// state blob, bounded-recursively locating the aweme list, and
// converting each item to a RawContent. Partial failures for one seed
// do not abort the others.
func (c *Crawler) CrawlAll(ctx context.Context, seeds []string) ([]models.RawContent, *platforms.Stats) {
	stats := &platforms.Stats{Platform: c.Name()}

	if c.client.IsBlocked(host) {
		stats.Blocked = true
		return nil, stats
	}

	var items []models.RawContent

	for _, seed := range seeds {
		if c.client.IsBlocked(host) {
			stats.Blocked = true
			break
		}

		searchURL := fmt.Sprintf("https://%s/search/%s?type=video", host, url.QueryEscape(seed))
		stats.RequestsMade++

		html, err := platforms.FetchHTML(ctx, c.client, host, searchURL)
		if err != nil {
			c.log.WithError(err).Debug().Str("seed", seed).Msg("douyin search request failed")
			stats.Errors++
			continue
		}

		blob, err := platforms.ExtractWindowBlob(html)
		if err != nil {
			c.log.Debug().Str("seed", seed).Msg("douyin SSR blob not found, skipping seed")
			stats.Errors++
			continue
		}

		list, ok := platforms.FindFieldRecursive(blob, awemeFieldNames, 0)
		if !ok {
			continue
		}

		now := time.Now()
		for _, raw := range list {
			item, ok := toRawContent(raw, seed)
			if !ok {
				continue
			}
			item.CrawlTime = now
			items = append(items, item)
			stats.ItemsFound++
		}
	}

	return items, stats
}

func toRawContent(raw interface{}, seed string) (models.RawContent, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return models.RawContent{}, false
	}

	title, _ := m["desc"].(string)
	if title == "" {
		return models.RawContent{}, false
	}
	id, _ := m["aweme_id"].(string)

	stats, _ := m["statistics"].(map[string]interface{})
	likes := numericField(stats, "digg_count")
	comments := numericField(stats, "comment_count")
	shares := numericField(stats, "share_count")
	views := numericField(stats, "play_count")

	return models.RawContent{
		Platform:  models.PlatformDouyin,
		ContentID: id,
		Title:     title,
		Text:      title,
		Tags:      []string{seed},
		Type:      models.ContentVideo,
		Likes:     likes,
		Comments:  comments,
		Shares:    shares,
		Views:     views,
	}, true
}

func numericField(m map[string]interface{}, key string) int64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case string:
		return platforms.ParseHumanNumber(v)
	default:
		return 0
	}
}
