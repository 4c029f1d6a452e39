// Package platforms defines the shared crawler contract and helpers
// used by the six platform-specific packages (douyin, xiaohongshu,
// weibo, bilibili, zhihu, baidu): SSR-blob extraction, recursive field
// discovery, and human-readable number parsing.
package platforms

import (
	"context"

	"trendradar/internal/models"
)

// Crawler is the contract every platform package implements, mirroring
// the teacher's per-source *Crawler struct shape generalized across
// six platforms sharing one rate limiter.
type Crawler interface {
	// Name is the platform identifier, matching a models.Platform* constant.
	Name() string
	// Host is the primary domain the rate limiter tracks for this platform.
	Host() string
	// CrawlAll runs every configured strategy against seeds and returns
	// whatever RawContent it accumulated, even on partial failure.
	CrawlAll(ctx context.Context, seeds []string) ([]models.RawContent, *Stats)
}

// Stats is the per-run counters every crawler reports, mirroring the
// teacher's CrawlerStats shape.
type Stats struct {
	Platform      string
	ItemsFound    int
	RequestsMade  int
	Errors        int
	SeedsExpanded int
	Blocked       bool
}
