// Package weibo crawls the micro-blog platform via its public
// search-suggest autosuggest endpoint (harvesting query expansions as
// secondary seeds) and its public search API for status content.
package weibo

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

const host = "s.weibo.com"

// Crawler implements platforms.Crawler for the micro-blog platform.
type Crawler struct {
	client *ratelimit.Client
	log    *logger.Logger
}

// New constructs a weibo Crawler sharing client for requests.
func New(client *ratelimit.Client) *Crawler {
	return &Crawler{client: client, log: logger.Get().WithField("platform", models.PlatformWeibo)}
}

func (c *Crawler) Name() string { return models.PlatformWeibo }
func (c *Crawler) Host() string { return host }

type suggestResponse struct {
	Data []struct {
		Word string `json:"word"`
	} `json:"data"`
}

type searchResponse struct {
	Data struct {
		Cards []struct {
			MBlog struct {
				ID           string `json:"id"`
				Text         string `json:"text"`
				AttitudesCount int  `json:"attitudes_count"`
				CommentsCount  int  `json:"comments_count"`
				RepostsCount   int  `json:"reposts_count"`
			} `json:"mblog"`
		} `json:"card_group"`
	} `json:"data"`
}

func (c *Crawler) CrawlAll(ctx context.Context, seeds []string) ([]models.RawContent, *platforms.Stats) {
	stats := &platforms.Stats{Platform: c.Name()}

	if c.client.IsBlocked(host) {
		stats.Blocked = true
		return nil, stats
	}

	var items []models.RawContent
	expandedSeeds := make([]string, 0, len(seeds)*2)

	for _, seed := range seeds {
		if c.client.IsBlocked(host) {
			stats.Blocked = true
			break
		}
		expandedSeeds = append(expandedSeeds, seed)

		suggestURL := fmt.Sprintf("https://%s/ajax/general/addwordsuggest?key=%s", host, url.QueryEscape(seed))
		stats.RequestsMade++

		var suggest suggestResponse
		if err := platforms.FetchJSON(ctx, c.client, host, suggestURL, &suggest); err != nil {
			c.log.WithError(err).Debug().Str("seed", seed).Msg("weibo search-suggest request failed")
			stats.Errors++
		} else {
			for _, d := range suggest.Data {
				if d.Word != "" {
					expandedSeeds = append(expandedSeeds, d.Word)
					stats.SeedsExpanded++
				}
			}
		}
	}

	now := time.Now()
	for _, seed := range expandedSeeds {
		if c.client.IsBlocked(host) {
			stats.Blocked = true
			break
		}

		searchURL := fmt.Sprintf("https://%s/weibo?q=%s&Refer=index", host, url.QueryEscape(seed))
		stats.RequestsMade++

		var resp searchResponse
		if err := platforms.FetchJSON(ctx, c.client, host, searchURL, &resp); err != nil {
			c.log.WithError(err).Debug().Str("seed", seed).Msg("weibo search request failed")
			stats.Errors++
			continue
		}

		for _, card := range resp.Data.Cards {
			if card.MBlog.Text == "" {
				continue
			}
			items = append(items, models.RawContent{
				Platform:  models.PlatformWeibo,
				ContentID: card.MBlog.ID,
				Title:     card.MBlog.Text,
				Text:      card.MBlog.Text,
				Tags:      []string{seed},
				Type:      models.ContentStatus,
				Likes:     int64(card.MBlog.AttitudesCount),
				Comments:  int64(card.MBlog.CommentsCount),
				Shares:    int64(card.MBlog.RepostsCount),
				CrawlTime: now,
			})
			stats.ItemsFound++
		}
	}

	return items, stats
}
