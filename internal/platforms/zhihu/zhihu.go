// Package zhihu crawls the Q&A site's public hot-list JSON endpoint and
// its public search-suggest endpoint for seed expansion.
package zhihu

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

const host = "www.zhihu.com"

// Crawler implements platforms.Crawler for the Q&A site.
type Crawler struct {
	client *ratelimit.Client
	log    *logger.Logger
}

// New constructs a zhihu Crawler sharing client for requests.
func New(client *ratelimit.Client) *Crawler {
	return &Crawler{client: client, log: logger.Get().WithField("platform", models.PlatformZhihu)}
}

func (c *Crawler) Name() string { return models.PlatformZhihu }
func (c *Crawler) Host() string { return host }

type hotListResponse struct {
	Data []struct {
		Target struct {
			ID       int64  `json:"id"`
			Title    string `json:"title"`
			Excerpt  string `json:"excerpt"`
			AnswerCount int64 `json:"answer_count"`
			FollowerCount int64 `json:"follower_count"`
		} `json:"target"`
	} `json:"data"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (c *Crawler) CrawlAll(ctx context.Context, seeds []string) ([]models.RawContent, *platforms.Stats) {
	stats := &platforms.Stats{Platform: c.Name()}

	if c.client.IsBlocked(host) {
		stats.Blocked = true
		return nil, stats
	}

	var items []models.RawContent
	now := time.Now()

	hotURL := fmt.Sprintf("https://%s/api/v3/feed/topstory/hot-lists/total", host)
	stats.RequestsMade++

	var hot hotListResponse
	if err := platforms.FetchJSON(ctx, c.client, host, hotURL, &hot); err != nil {
		c.log.WithError(err).Debug().Msg("zhihu hot-list request failed")
		stats.Errors++
	} else {
		for _, h := range hot.Data {
			if h.Target.Title == "" {
				continue
			}
			items = append(items, models.RawContent{
				Platform:  models.PlatformZhihu,
				ContentID: fmt.Sprintf("%d", h.Target.ID),
				Title:     h.Target.Title,
				Text:      h.Target.Excerpt,
				Type:      models.ContentQuestion,
				Comments:  h.Target.AnswerCount,
				Likes:     h.Target.FollowerCount,
				CrawlTime: now,
			})
			stats.ItemsFound++
		}
	}

	for _, seed := range seeds {
		if c.client.IsBlocked(host) {
			stats.Blocked = true
			break
		}

		suggestURL := fmt.Sprintf("https://%s/api/v4/search/suggest?q=%s", host, url.QueryEscape(seed))
		stats.RequestsMade++

		var suggest suggestResponse
		if err := platforms.FetchJSON(ctx, c.client, host, suggestURL, &suggest); err != nil {
			c.log.WithError(err).Debug().Str("seed", seed).Msg("zhihu search-suggest request failed")
			stats.Errors++
			continue
		}

		for _, s := range suggest.Suggestions {
			if s == "" {
				continue
			}
			items = append(items, models.RawContent{
				Platform:  models.PlatformZhihu,
				Title:     s,
				Text:      s,
				Tags:      []string{seed},
				Type:      models.ContentTopic,
				CrawlTime: now,
			})
			stats.ItemsFound++
			stats.SeedsExpanded++
		}
	}

	return items, stats
}
