// Package xiaohongshu crawls the lifestyle-notes platform's search
// page, extracting its `<script id="__INITIAL_STATE__">` state blob
// (tolerant of the literal `undefined` token) and falling back to HTML
// anchor-title extraction when the page carries no state blob. A blob
// without a note list yields no items for that seed.
package xiaohongshu

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"trendradar/internal/models"
	"trendradar/internal/platforms"
	"trendradar/internal/ratelimit"
	"trendradar/pkg/logger"
)

const host = "www.xiaohongshu.com"

var (
	noteFieldNames  = []string{"notes", "noteList", "feeds"}
	initialStateRe  = regexp.MustCompile(`<script[^>]*id=["']__INITIAL_STATE__["'][^>]*>(.*?)</script>`)
)

// Crawler implements platforms.Crawler for the lifestyle-notes platform.
type Crawler struct {
	client *ratelimit.Client
	log    *logger.Logger
}

// New constructs a xiaohongshu Crawler sharing client for requests.
func New(client *ratelimit.Client) *Crawler {
	return &Crawler{client: client, log: logger.Get().WithField("platform", models.PlatformXiaohongshu)}
}

func (c *Crawler) Name() string { return models.PlatformXiaohongshu }
func (c *Crawler) Host() string { return host }

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

		searchURL := fmt.Sprintf("https://%s/search_result?keyword=%s", host, url.QueryEscape(seed))
		stats.RequestsMade++

		html, err := platforms.FetchHTML(ctx, c.client, host, searchURL)
		if err != nil {
			c.log.WithError(err).Debug().Str("seed", seed).Msg("xiaohongshu search request failed")
			stats.Errors++
			continue
		}

		blob, ok := extractInitialState(html)
		if !ok {
			c.log.Debug().Str("seed", seed).Msg("xiaohongshu SSR blob not found, using HTML fallback")
			stats.Errors++
			for _, title := range platforms.FallbackAnchorTitles(html, []string{"a.note-item", "a.cover"}) {
				items = append(items, fallbackItem(title, seed))
				stats.ItemsFound++
			}
			continue
		}

		list, ok := platforms.FindFieldRecursive(blob, noteFieldNames, 0)
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

func extractInitialState(html string) (map[string]interface{}, bool) {
	match := initialStateRe.FindStringSubmatch(html)
	if match == nil {
		return nil, false
	}
	blob, err := decodeTolerant(match[1])
	if err != nil {
		return nil, false
	}
	return blob, true
}

func decodeTolerant(raw string) (map[string]interface{}, error) {
	blob, err := platforms.ExtractWindowBlob("window.__INITIAL_STATE__ = " + raw + ";</script>")
	return blob, err
}

func toRawContent(raw interface{}, seed string) (models.RawContent, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return models.RawContent{}, false
	}

	noteCard, _ := m["noteCard"].(map[string]interface{})
	if noteCard == nil {
		noteCard = m
	}

	title, _ := noteCard["displayTitle"].(string)
	if title == "" {
		title, _ = noteCard["title"].(string)
	}
	if title == "" {
		return models.RawContent{}, false
	}

	id, _ := m["id"].(string)

	interact, _ := noteCard["interactInfo"].(map[string]interface{})
	likes := numericField(interact, "likedCount")
	comments := numericField(interact, "commentCount")
	shares := numericField(interact, "shareCount")

	return models.RawContent{
		Platform:  models.PlatformXiaohongshu,
		ContentID: id,
		Title:     title,
		Text:      title,
		Tags:      []string{seed},
		Type:      models.ContentNote,
		Likes:     likes,
		Comments:  comments,
		Shares:    shares,
	}, true
}

func fallbackItem(title, seed string) models.RawContent {
	return models.RawContent{
		Platform: models.PlatformXiaohongshu,
		Title:    title,
		Text:     title,
		Tags:     []string{seed},
		Type:     models.ContentNote,
	}
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
