// Package config loads the trend pipeline's configuration from an
// optional JSON file, applies environment-variable overrides, and fills
// in defaults for zero-valued fields — the same shape as the teacher's
// config package, generalized to this domain.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RateLimitConfig configures the per-domain HTTP rate limiter (spec §4.1).
type RateLimitConfig struct {
	BaseInterval time.Duration `json:"base_interval_ms"`
	Jitter       time.Duration `json:"jitter_ms"`
	MaxRetries   int           `json:"max_retries"`
	RequestTimeout time.Duration `json:"request_timeout_seconds"`
}

// TimeSeriesConfig configures the sliding-window store (spec §4.5).
type TimeSeriesConfig struct {
	WindowCount   int           `json:"window_count"`
	WindowSpan    time.Duration `json:"window_span_minutes"`
	MaxAgeHours   int           `json:"max_age_hours"`
	HistoryPath   string        `json:"history_path"`
}

// BurstConfig configures the burst detector's thresholds (spec §4.6).
// ZScoreThreshold and HalfLifeHours are passed to the heat engine; the
// MACD period fields are not read, and MACD always runs at 12/26/9.
type BurstConfig struct {
	ZScoreThreshold float64       `json:"z_score_threshold"`
	HalfLifeHours   float64       `json:"half_life_hours"`
	MACDShort       int           `json:"macd_short"`
	MACDLong        int           `json:"macd_long"`
	MACDSignal      int           `json:"macd_signal"`
}

// HeatConfig configures the heat scorer's weights (spec §4.7).
type HeatConfig struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
	Delta float64 `json:"delta"`
}

// StorageConfig configures where cycle artifacts are written (spec §6).
type StorageConfig struct {
	DataDir       string `json:"data_dir"`
	RawFeedsDir   string `json:"raw_feeds_dir"`
	TrendsPath    string `json:"trends_path"`
	NewsPath      string `json:"news_path"`
	RawFeedMaxAge int    `json:"raw_feed_max_age_days"`
}

// CrawlConfig configures seed selection and the enabled platform set.
type CrawlConfig struct {
	SeedCount       int      `json:"seed_count"`
	TopK            int      `json:"top_k"`
	EnabledPlatforms []string `json:"platforms"`
	ProxyURL        string   `json:"proxy_url"`
}

// Config is the top-level configuration object.
type Config struct {
	RateLimit  RateLimitConfig  `json:"rate_limit"`
	TimeSeries TimeSeriesConfig `json:"time_series"`
	Burst      BurstConfig      `json:"burst"`
	Heat       HeatConfig       `json:"heat"`
	Storage    StorageConfig    `json:"storage"`
	Crawl      CrawlConfig      `json:"crawl"`
	StatusAddr string           `json:"status_addr"`
}

// Default returns the spec's documented defaults.
func Default() *Config {
	return &Config{
		RateLimit: RateLimitConfig{
			BaseInterval:   2500 * time.Millisecond,
			Jitter:         2000 * time.Millisecond,
			MaxRetries:     3,
			RequestTimeout: 15 * time.Second,
		},
		TimeSeries: TimeSeriesConfig{
			WindowCount: 144,
			WindowSpan:  10 * time.Minute,
			MaxAgeHours: 48,
			HistoryPath: "data/keyword_history.json",
		},
		Burst: BurstConfig{
			ZScoreThreshold: 2.5,
			HalfLifeHours:   4.0,
			MACDShort:       12,
			MACDLong:        26,
			MACDSignal:      9,
		},
		Heat: HeatConfig{Alpha: 0.4, Beta: 0.3, Gamma: 0.2, Delta: 0.1},
		Storage: StorageConfig{
			DataDir:       "data",
			RawFeedsDir:   "data/raw_feeds",
			TrendsPath:    "data/trends.json",
			NewsPath:      "data/news.json",
			RawFeedMaxAge: 7,
		},
		Crawl: CrawlConfig{
			SeedCount:        10,
			TopK:             50,
			EnabledPlatforms: []string{"bilibili", "baidu", "xiaohongshu"},
		},
		StatusAddr: ":9300",
	}
}

// Load loads environment overrides (via .env if present) onto the
// defaults, optionally merging a JSON config file first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()
	cfg.fillDefaults()

	return cfg, nil
}

func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv("TRENDRADAR_DATA_DIR"); dir != "" {
		c.Storage.DataDir = dir
		c.Storage.RawFeedsDir = dir + "/raw_feeds"
		c.Storage.TrendsPath = dir + "/trends.json"
		c.Storage.NewsPath = dir + "/news.json"
		c.TimeSeries.HistoryPath = dir + "/keyword_history.json"
	}
	if proxy := os.Getenv("TRENDRADAR_PROXY"); proxy != "" {
		c.Crawl.ProxyURL = proxy
	}
	if platforms := os.Getenv("TRENDRADAR_PLATFORMS"); platforms != "" {
		c.Crawl.EnabledPlatforms = parseCommaSeparated(platforms)
	}
	if addr := os.Getenv("TRENDRADAR_STATUS_ADDR"); addr != "" {
		c.StatusAddr = addr
	}
	if n := os.Getenv("TRENDRADAR_TOPK"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			c.Crawl.TopK = v
		}
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.RateLimit.BaseInterval == 0 {
		c.RateLimit.BaseInterval = d.RateLimit.BaseInterval
	}
	if c.RateLimit.RequestTimeout == 0 {
		c.RateLimit.RequestTimeout = d.RateLimit.RequestTimeout
	}
	if c.RateLimit.MaxRetries == 0 {
		c.RateLimit.MaxRetries = d.RateLimit.MaxRetries
	}
	if c.TimeSeries.WindowCount == 0 {
		c.TimeSeries.WindowCount = d.TimeSeries.WindowCount
	}
	if c.TimeSeries.WindowSpan == 0 {
		c.TimeSeries.WindowSpan = d.TimeSeries.WindowSpan
	}
	if c.TimeSeries.MaxAgeHours == 0 {
		c.TimeSeries.MaxAgeHours = d.TimeSeries.MaxAgeHours
	}
	if c.TimeSeries.HistoryPath == "" {
		c.TimeSeries.HistoryPath = d.TimeSeries.HistoryPath
	}
	if c.Burst.ZScoreThreshold == 0 {
		c.Burst.ZScoreThreshold = d.Burst.ZScoreThreshold
	}
	if c.Burst.HalfLifeHours == 0 {
		c.Burst.HalfLifeHours = d.Burst.HalfLifeHours
	}
	if c.Burst.MACDShort == 0 {
		c.Burst.MACDShort, c.Burst.MACDLong, c.Burst.MACDSignal = d.Burst.MACDShort, d.Burst.MACDLong, d.Burst.MACDSignal
	}
	if c.Heat == (HeatConfig{}) {
		c.Heat = d.Heat
	}
	if c.Storage.DataDir == "" {
		c.Storage = d.Storage
	}
	if c.Crawl.SeedCount == 0 {
		c.Crawl.SeedCount = d.Crawl.SeedCount
	}
	if c.Crawl.TopK == 0 {
		c.Crawl.TopK = d.Crawl.TopK
	}
	if len(c.Crawl.EnabledPlatforms) == 0 {
		c.Crawl.EnabledPlatforms = d.Crawl.EnabledPlatforms
	}
	if c.StatusAddr == "" {
		c.StatusAddr = d.StatusAddr
	}
}

func parseCommaSeparated(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
