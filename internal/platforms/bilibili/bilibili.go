// Package bilibili crawls the video site's public popular-list JSON
// endpoint and its public search API, neither of which requires
// authentication.
package bilibili

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

const host = "api.bilibili.com"

// Crawler implements platforms.Crawler for the video site.
type Crawler struct {
	client *ratelimit.Client
	log    *logger.Logger
}

// New constructs a bilibili Crawler sharing client for requests.
func New(client *ratelimit.Client) *Crawler {
	return &Crawler{client: client, log: logger.Get().WithField("platform", models.PlatformBilibili)}
}

func (c *Crawler) Name() string { return models.PlatformBilibili }
func (c *Crawler) Host() string { return host }

type popularResponse struct {
	Data struct {
		List []struct {
			Aid   int64  `json:"aid"`
			Title string `json:"title"`
			Desc  string `json:"desc"`
			Stat  struct {
				View    int64 `json:"view"`
				Like    int64 `json:"like"`
				Reply   int64 `json:"reply"`
				Share   int64 `json:"share"`
				Favorite int64 `json:"favorite"`
			} `json:"stat"`
		} `json:"list"`
	} `json:"data"`
}

type searchResponse struct {
	Data struct {
		Result []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
			Play  int64  `json:"play"`
			Like  int64  `json:"like"`
		} `json:"result"`
	} `json:"data"`
}

func (c *Crawler) CrawlAll(ctx context.Context, seeds []string) ([]models.RawContent, *platforms.Stats) {
	stats := &platforms.Stats{Platform: c.Name()}

	if c.client.IsBlocked(host) {
		stats.Blocked = true
		return nil, stats
	}

	var items []models.RawContent
	now := time.Now()

	popularURL := fmt.Sprintf("https://%s/x/web-interface/popular?pn=1&ps=50", host)
	stats.RequestsMade++

	var popular popularResponse
	if err := platforms.FetchJSON(ctx, c.client, host, popularURL, &popular); err != nil {
		c.log.WithError(err).Debug().Msg("bilibili popular-list request failed")
		stats.Errors++
	} else {
		for _, v := range popular.Data.List {
			items = append(items, models.RawContent{
				Platform:  models.PlatformBilibili,
				ContentID: fmt.Sprintf("%d", v.Aid),
				Title:     v.Title,
				Text:      v.Desc,
				Type:      models.ContentVideo,
				Views:     v.Stat.View,
				Likes:     v.Stat.Like,
				Comments:  v.Stat.Reply,
				Shares:    v.Stat.Share,
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

		searchURL := fmt.Sprintf("https://%s/x/web-interface/search/type?search_type=video&keyword=%s", host, url.QueryEscape(seed))
		stats.RequestsMade++

		var resp searchResponse
		if err := platforms.FetchJSON(ctx, c.client, host, searchURL, &resp); err != nil {
			c.log.WithError(err).Debug().Str("seed", seed).Msg("bilibili search request failed")
			stats.Errors++
			continue
		}

		for _, v := range resp.Data.Result {
			if v.Title == "" {
				continue
			}
			items = append(items, models.RawContent{
				Platform:  models.PlatformBilibili,
				ContentID: fmt.Sprintf("%d", v.ID),
				Title:     v.Title,
				Text:      v.Title,
				Tags:      []string{seed},
				Type:      models.ContentVideo,
				Views:     v.Play,
				Likes:     v.Like,
				CrawlTime: now,
			})
			stats.ItemsFound++
		}
	}

	return items, stats
}
