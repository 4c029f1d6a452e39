// Package baidu crawls the search engine's hot board via its public
// JSON endpoint, falling back to a goquery HTML parse of the rendered
// hot-search page when the JSON endpoint is unavailable.
package baidu

import (
	"context"
	"fmt"
	"time"

	"trendradar/internal/models"
	"trendradar/internal/platforms"
	"trendradar/internal/ratelimit"
	"trendradar/pkg/logger"
)

const host = "top.baidu.com"

// Crawler implements platforms.Crawler for the search engine's hot board.
type Crawler struct {
	client *ratelimit.Client
	log    *logger.Logger
}

// New constructs a baidu Crawler sharing client for requests.
func New(client *ratelimit.Client) *Crawler {
	return &Crawler{client: client, log: logger.Get().WithField("platform", models.PlatformBaidu)}
}

func (c *Crawler) Name() string { return models.PlatformBaidu }
func (c *Crawler) Host() string { return host }

type hotBoardResponse struct {
	Data struct {
		Cards []struct {
			Content []struct {
				Word     string `json:"word"`
				Desc     string `json:"desc"`
				HotScore string `json:"hotScore"`
			} `json:"content"`
		} `json:"cards"`
	} `json:"data"`
}

func (c *Crawler) CrawlAll(ctx context.Context, seeds []string) ([]models.RawContent, *platforms.Stats) {
	stats := &platforms.Stats{Platform: c.Name()}

	if c.client.IsBlocked(host) {
		stats.Blocked = true
		return nil, stats
	}

	now := time.Now()
	jsonURL := fmt.Sprintf("https://%s/api/board?platform=pc&tab=realtime", host)
	stats.RequestsMade++

	var resp hotBoardResponse
	if err := platforms.FetchJSON(ctx, c.client, host, jsonURL, &resp); err == nil {
		var items []models.RawContent
		for _, card := range resp.Data.Cards {
			for _, entry := range card.Content {
				if entry.Word == "" {
					continue
				}
				items = append(items, models.RawContent{
					Platform:  models.PlatformBaidu,
					Title:     entry.Word,
					Text:      entry.Desc,
					Type:      models.ContentSearch,
					Views:     platforms.ParseHumanNumber(entry.HotScore),
					CrawlTime: now,
				})
				stats.ItemsFound++
			}
		}
		return items, stats
	} else {
		c.log.WithError(err).Debug().Msg("baidu hot-board JSON endpoint failed, falling back to HTML")
		stats.Errors++
	}

	htmlURL := fmt.Sprintf("https://%s/board?tab=realtime", host)
	stats.RequestsMade++

	html, err := platforms.FetchHTML(ctx, c.client, host, htmlURL)
	if err != nil {
		c.log.WithError(err).Debug().Msg("baidu hot-board HTML fallback request failed")
		stats.Errors++
		return nil, stats
	}

	titles := platforms.FallbackAnchorTitles(html, []string{
		"div.category-wrap_iQLoo a.title_dIbKo",
		"a.item-title",
		".category-wrap a",
	})

	var items []models.RawContent
	for _, title := range titles {
		items = append(items, models.RawContent{
			Platform:  models.PlatformBaidu,
			Title:     title,
			Text:      title,
			Type:      models.ContentSearch,
			CrawlTime: now,
		})
		stats.ItemsFound++
	}

	return items, stats
}
