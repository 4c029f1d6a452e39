// Command discoverer runs the trend-discovery pipeline: crawl the six
// platforms for the current seed set, extract and score keywords, and
// persist the cycle's artifacts, optionally looping forever and
// serving a read-only status/metrics endpoint alongside it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"trendradar/internal/crawl"
	"trendradar/internal/heat"
	"trendradar/internal/models"
	"trendradar/internal/newsbridge"
	"trendradar/internal/nlp"
	"trendradar/internal/ratelimit"
	"trendradar/internal/status"
	"trendradar/internal/timeseries"
	"trendradar/pkg/config"
	"trendradar/pkg/logger"
	"trendradar/pkg/metrics"
)

var version = "0.1.0"

func main() {
	var (
		loopMinutes   int
		platformsFlag string
		keywordCount  int
		topK          int
		proxyURL      string
		withNews      bool
		verbose       bool
		configPath    string
	)

	rootCmd := &cobra.Command{
		Use:     "discoverer",
		Short:   "Chinese social/news trend-discovery pipeline",
		Version: version,
		Long: `discoverer crawls douyin, xiaohongshu, weibo, bilibili, zhihu, and
baidu for live keyword activity, extracts and scores keywords with a
Chinese NLP pipeline, detects bursts against each keyword's sliding
window history, and writes ranked trend topics to data/trends.json
once per cycle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if platformsFlag != "" {
				cfg.Crawl.EnabledPlatforms = splitCSV(platformsFlag)
			}
			if keywordCount > 0 {
				cfg.Crawl.SeedCount = keywordCount
			}
			if topK > 0 {
				cfg.Crawl.TopK = topK
			}
			if proxyURL != "" {
				cfg.Crawl.ProxyURL = proxyURL
			}

			logLevel := "info"
			if verbose {
				logLevel = "debug"
			}
			log, err := logger.New(logger.Config{Level: logLevel, Service: "discoverer", Version: version})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			app, err := newApplication(cfg, log)
			if err != nil {
				return fmt.Errorf("init application: %w", err)
			}
			defer app.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			go func() {
				if err := app.status.ListenAndServe(); err != nil {
					log.WithError(err).Warn().Msg("status server stopped")
				}
			}()

			if loopMinutes <= 0 {
				return app.runCycle(ctx, withNews)
			}

			ticker := time.NewTicker(time.Duration(loopMinutes) * time.Minute)
			defer ticker.Stop()

			for {
				if err := app.runCycle(ctx, withNews); err != nil {
					log.WithError(err).Error().Msg("cycle failed")
				}

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	rootCmd.Flags().IntVar(&loopMinutes, "loop", 0, "0 runs once; >0 runs indefinitely with that period in minutes")
	rootCmd.Flags().StringVar(&platformsFlag, "platforms", "", "comma-separated platform subset (bilibili,baidu,xiaohongshu,weibo,zhihu,douyin)")
	rootCmd.Flags().IntVar(&keywordCount, "keywords", 0, "seed keyword count for this cycle")
	rootCmd.Flags().IntVar(&topK, "topk", 0, "number of trend topics to keep per cycle")
	rootCmd.Flags().StringVar(&proxyURL, "proxy", "", "proxy URL applied to every platform HTTP client")
	rootCmd.Flags().BoolVar(&withNews, "with-news", false, "merge discovered trends into data/news.json after each cycle")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional JSON config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func splitCSV(s string) []string {
	var out []string
	var cur []rune
	for _, r := range s {
		if r == ',' {
			if len(cur) > 0 {
				out = append(out, string(cur))
			}
			cur = nil
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

// application bundles every long-lived component wired together for
// one process lifetime: the rate-limited HTTP client, the crawl
// orchestrator, the NLP pipeline, the time-series store, the heat
// engine, and the status/metrics server.
type application struct {
	cfg       *config.Config
	log       *logger.Logger
	client    *ratelimit.Client
	orch      *crawl.Orchestrator
	nlpPipe   *nlp.Pipeline
	store     *timeseries.Store
	engine    *heat.Engine
	status    *status.Server
	collector *metrics.Collector
}

func newApplication(cfg *config.Config, log *logger.Logger) (*application, error) {
	client, err := ratelimit.New(ratelimit.Options{
		BaseInterval:   cfg.RateLimit.BaseInterval,
		Jitter:         cfg.RateLimit.Jitter,
		MaxRetries:     cfg.RateLimit.MaxRetries,
		RequestTimeout: cfg.RateLimit.RequestTimeout,
		ProxyURL:       cfg.Crawl.ProxyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build rate-limited client: %w", err)
	}

	orch := crawl.New(client, cfg.Crawl.EnabledPlatforms, cfg.Storage.RawFeedsDir)

	nlpPipe := nlp.New()

	store := timeseries.New(cfg.TimeSeries.HistoryPath, cfg.TimeSeries.WindowCount)

	engineCfg := heat.DefaultConfig()
	engineCfg.Weights = heat.Weights{Alpha: cfg.Heat.Alpha, Beta: cfg.Heat.Beta, Gamma: cfg.Heat.Gamma, Delta: cfg.Heat.Delta}
	engineCfg.HalfLifeHours = cfg.Burst.HalfLifeHours
	engineCfg.ZScoreThreshold = cfg.Burst.ZScoreThreshold
	engineCfg.TopK = cfg.Crawl.TopK
	engine := heat.New(store, nlpPipe, engineCfg)

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)
	statusSrv := status.New(status.Config{Addr: cfg.StatusAddr, TrendsPath: cfg.Storage.TrendsPath}, store, reg)

	return &application{
		cfg: cfg, log: log, client: client, orch: orch, nlpPipe: nlpPipe,
		store: store, engine: engine, status: statusSrv, collector: collector,
	}, nil
}

func (a *application) Close() {
	a.nlpPipe.Close()
}

// runCycle executes exactly one crawl-extract-score-persist cycle, per
// spec §6's CLI contract. A cycle with zero raw items across all
// platforms still runs the time-series cleanup/save (existing history
// keeps aging out on schedule) but skips extraction, scoring, and the
// trends.json/news.json writes.
func (a *application) runCycle(ctx context.Context, withNews bool) error {
	start := time.Now()
	defer func() { a.collector.CycleDuration.Observe(time.Since(start).Seconds()) }()

	supplements, err := newsbridge.Import(a.cfg.Storage.NewsPath)
	if err != nil {
		a.log.WithError(err).Warn().Msg("failed to import news.json supplements")
	} else if len(supplements) > 0 {
		a.log.Info().Int("count", len(supplements)).Msg("imported news.json supplements")
	}

	result, err := a.orch.CrawlAll(ctx, a.cfg.Crawl.SeedCount, supplements)
	if err != nil {
		return fmt.Errorf("crawl cycle: %w", err)
	}

	for _, st := range result.Stats {
		a.collector.CrawlItemsTotal.WithLabelValues(st.Platform).Add(float64(st.ItemsFound))
		a.collector.CrawlErrorsTotal.WithLabelValues(st.Platform).Add(float64(st.Errors))
		a.collector.CrawlRequestsTotal.WithLabelValues(st.Platform).Add(float64(st.RequestsMade))
		if st.Blocked {
			a.collector.HostBlockedTotal.WithLabelValues(st.Platform).Inc()
		}
	}

	now := time.Now()
	var trends []models.TrendTopic
	burstCount := 0

	if len(result.Items) > 0 {
		texts := make([]string, 0, len(result.Items))
		for _, item := range result.Items {
			texts = append(texts, item.Title+" "+item.Text)
		}

		extractStart := time.Now()
		weighted := a.nlpPipe.BatchExtract(texts, a.cfg.Crawl.TopK*2)
		a.collector.NLPExtractDuration.Observe(time.Since(extractStart).Seconds())

		batchKeywords := make(map[string]bool, len(weighted))
		for _, w := range weighted {
			batchKeywords[w.Word] = true
		}

		trends = a.engine.RunCycle(result.Items, batchKeywords, now)

		a.collector.TrendsProduced.Set(float64(len(trends)))
		for _, t := range trends {
			if t.IsBurst {
				burstCount++
			}
		}
		a.collector.BurstCount.Set(float64(burstCount))
	} else {
		fmt.Fprintln(os.Stderr, "no raw items collected across any platform this cycle; consider seeding from data/news.json")
	}
	a.collector.KeywordsTracked.Set(float64(len(a.store.Keywords())))

	a.store.Cleanup(now, time.Duration(a.cfg.TimeSeries.MaxAgeHours)*time.Hour)
	if err := a.store.Save(); err != nil {
		a.log.WithError(err).Error().Msg("failed to save keyword history")
	}

	if len(result.Items) == 0 {
		return nil
	}

	doc := a.engine.BuildDocument(trends, now)
	if err := heat.Save(a.cfg.Storage.TrendsPath, doc, false); err != nil {
		return fmt.Errorf("save trends document: %w", err)
	}

	if withNews {
		if err := newsbridge.Merge(a.cfg.Storage.NewsPath, trends, now); err != nil {
			a.log.WithError(err).Warn().Msg("failed to merge discovered trends into news.json")
		}
	}

	a.log.Info().Int("trends", len(trends)).Int("bursts", burstCount).Dur("duration", time.Since(start)).Msg("cycle complete")
	return nil
}
