// Package newsbridge implements the trend engine's side of the
// data/news.json contract: importing existing news items as RawContent
// supplements for a crawl cycle, and writing the engine's own trend
// discoveries back as synthetic news items carrying a trend_data
// sub-object, per spec §6.
package newsbridge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"trendradar/internal/models"
	pkgerrors "trendradar/pkg/errors"
)

// DiscoveredSource is the source value stamped on every trend the
// engine writes back into news.json.
const DiscoveredSource = "🔬 热点发现"

// SparklineWindow bounds how many of a trend's recent counts are
// carried into the synthetic news item.
const SparklineWindow = 20

// NewsItem is one entry of data/news.json, whether contributed by the
// external news aggregator or synthesized here from a discovered trend.
type NewsItem struct {
	Title             string     `json:"title"`
	Summary           string     `json:"summary,omitempty"`
	Source            string     `json:"source"`
	URL               string     `json:"url,omitempty"`
	PubTime           time.Time  `json:"pub_time"`
	IsDiscoveredTrend bool       `json:"is_discovered_trend"`
	TrendData         *TrendData `json:"trend_data,omitempty"`
}

// TrendData is the sub-object attached to a synthetic discovered-trend
// news item, per spec §6.
type TrendData struct {
	HeatScore    float64           `json:"heat_score"`
	Frequency    int               `json:"frequency"`
	Acceleration float64           `json:"acceleration"`
	IsBurst      bool              `json:"is_burst"`
	ZScore       float64           `json:"z_score"`
	MACDSignal   models.MACDSignal `json:"macd_signal"`
	Direction    models.Direction  `json:"direction"`
	Platforms    []string          `json:"platforms"`
	Sparkline    []int             `json:"sparkline"`
}

// Document is the data/news.json file shape.
type Document struct {
	LastUpdate time.Time  `json:"last_update"`
	Total      int        `json:"total"`
	Sources    []string   `json:"sources"`
	Items      []NewsItem `json:"items"`
}

// Import reads path (if present) and converts every non-discovered-trend
// item into a RawContent supplement for the crawl pool. A missing file
// is not an error: news.json is optional external input.
func Import(path string) ([]models.RawContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.TypeSystem, "read news.json")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.TypeParse, "parse news.json")
	}

	supplements := make([]models.RawContent, 0, len(doc.Items))
	for _, item := range doc.Items {
		if item.IsDiscoveredTrend {
			continue
		}
		supplements = append(supplements, models.RawContent{
			Platform:  "news",
			Title:     item.Title,
			Text:      item.Summary,
			URL:       item.URL,
			PubTime:   item.PubTime,
			CrawlTime: time.Now(),
			Type:      models.ContentArticle,
		})
	}

	return supplements, nil
}

// FromTrend builds the synthetic news item for a discovered trend.
func FromTrend(t models.TrendTopic) NewsItem {
	sparkline := t.Sparkline
	if len(sparkline) > SparklineWindow {
		sparkline = sparkline[len(sparkline)-SparklineWindow:]
	}

	return NewsItem{
		Title:             t.Keyword,
		Summary:           relatedTitlesSummary(t.RelatedTitles),
		Source:            DiscoveredSource,
		PubTime:           t.PeakTime,
		IsDiscoveredTrend: true,
		TrendData: &TrendData{
			HeatScore:    t.HeatScore,
			Frequency:    t.Frequency,
			Acceleration: t.Acceleration,
			IsBurst:      t.IsBurst,
			ZScore:       t.BurstZScore,
			MACDSignal:   t.MACDSignal,
			Direction:    t.TrendDirection,
			Platforms:    t.Platforms,
			Sparkline:    sparkline,
		},
	}
}

func relatedTitlesSummary(titles []string) string {
	if len(titles) == 0 {
		return ""
	}
	out := titles[0]
	for _, t := range titles[1:] {
		out += " / " + t
	}
	return out
}

// Merge reads the existing news.json (if any), replaces every prior
// discovered-trend entry with the current cycle's trends, and writes
// the file back atomically. Non-discovered entries from the external
// aggregator are preserved untouched.
func Merge(path string, trends []models.TrendTopic, now time.Time) error {
	var doc Document
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &doc); err != nil {
			return pkgerrors.Wrap(err, pkgerrors.TypeParse, "parse existing news.json")
		}
	} else if !os.IsNotExist(err) {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "read existing news.json")
	}

	kept := make([]NewsItem, 0, len(doc.Items))
	sourceSet := make(map[string]bool)
	for _, item := range doc.Items {
		if item.IsDiscoveredTrend {
			continue
		}
		kept = append(kept, item)
		sourceSet[item.Source] = true
	}

	for _, t := range trends {
		kept = append(kept, FromTrend(t))
	}
	sourceSet[DiscoveredSource] = true

	sources := make([]string, 0, len(sourceSet))
	for s := range sourceSet {
		sources = append(sources, s)
	}

	out := Document{LastUpdate: now, Total: len(kept), Sources: sources, Items: kept}
	return save(path, out)
}

func save(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "marshal news.json")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "create news.json directory")
	}

	tmp, err := os.CreateTemp(dir, ".news-*.tmp")
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "create temp news.json")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "write temp news.json")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "close temp news.json")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "rename news.json into place")
	}

	return nil
}
