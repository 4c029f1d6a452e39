// Package models holds the value types shared across the trend pipeline:
// raw crawled content, the per-keyword time series, and the derived
// trend topics the engine emits each cycle.
package models

import (
	"strings"
	"time"
)

// ContentType enumerates the platform-agnostic shapes a RawContent can take.
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentNote     ContentType = "note"
	ContentArticle  ContentType = "article"
	ContentAnswer   ContentType = "answer"
	ContentQuestion ContentType = "question"
	ContentTopic    ContentType = "topic"
	ContentSearch   ContentType = "search"
	ContentStatus   ContentType = "status"
)

// RawContent is the uniform record every platform crawler converts its
// responses into. It is immutable once constructed.
type RawContent struct {
	Platform  string                 `json:"platform"`
	ContentID string                 `json:"content_id"`
	Title     string                 `json:"title"`
	Text      string                 `json:"text"`
	Author    string                 `json:"author"`
	Likes     int64                  `json:"likes"`
	Comments  int64                  `json:"comments"`
	Shares    int64                  `json:"shares"`
	Views     int64                  `json:"views"`
	Tags      []string               `json:"tags"`
	URL       string                 `json:"url"`
	PubTime   time.Time              `json:"pub_time"`
	CrawlTime time.Time              `json:"crawl_time"`
	Type      ContentType            `json:"content_type"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// EngagementScore weighs the raw interaction counts: shares carry the most
// signal, then comments, then likes, with passive views discounted heavily.
func (r RawContent) EngagementScore() float64 {
	return float64(r.Likes) + 3*float64(r.Comments) + 5*float64(r.Shares) + 0.01*float64(r.Views)
}

// DedupKey is the orchestrator's within-cycle dedup key: the lowercase
// first 30 characters of the title with whitespace removed. Deliberately
// lossy per the source this was distilled from (spec §9 open questions):
// two distinct items that collide on this key are dropped as duplicates.
func (r RawContent) DedupKey() string {
	return dedupKey(r.Title)
}

func dedupKey(title string) string {
	stripped := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, title)
	lowered := []rune(strings.ToLower(stripped))
	if len(lowered) > 30 {
		lowered = lowered[:30]
	}
	return string(lowered)
}
