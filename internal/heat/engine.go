package heat

import (
	"sort"
	"time"

	"trendradar/internal/burst"
	"trendradar/internal/models"
	"trendradar/internal/timeseries"
	"trendradar/pkg/logger"
)

// Tokenizer is the subset of the NLP pipeline's contract the engine
// needs: tokenizing an item's text and recognizing stopwords, so this
// package does not import internal/nlp directly (internal/nlp in turn
// does not need to know about scoring).
type Tokenizer interface {
	Tokenize(text string, minLen int) []string
	IsStopword(word string) bool
}

// Config bundles the engine's tunable parameters, matching the spec's
// documented defaults.
type Config struct {
	Weights         Weights
	HalfLifeHours   float64
	ZScoreThreshold float64
	MinFrequency    int
	TopK            int
	SparklineLen    int
	RelatedTitlesN  int
}

// DefaultConfig mirrors the spec's §4.6/§4.7 defaults.
func DefaultConfig() Config {
	return Config{
		Weights:         DefaultWeights(),
		HalfLifeHours:   DefaultHalfLifeHours,
		ZScoreThreshold: 2.5,
		MinFrequency:    2,
		TopK:            50,
		SparklineLen:    20,
		RelatedTitlesN:  5,
	}
}

// Engine runs one full cycle: item tokenization, per-keyword
// aggregation, time-series recording, burst detection, and heat
// scoring, producing a ranked TrendTopic list.
type Engine struct {
	cfg   Config
	store *timeseries.Store
	tok   Tokenizer
	log   *logger.Logger
}

// New builds an Engine over store, using tok for tokenization/stopword
// checks and cfg for its scoring parameters.
func New(store *timeseries.Store, tok Tokenizer, cfg Config) *Engine {
	return &Engine{cfg: cfg, store: store, tok: tok, log: logger.Get().WithField("component", "heat")}
}

type keywordAccumulator struct {
	frequency  int
	platforms  map[string]bool
	engagement float64
	titles     []string
}

// RunCycle implements the spec's engine cycle: tokenize each item
// (title+text tokens plus tags at weight 2, filtered against the fused
// batch-keyword set or length>=3 non-stopwords), aggregate per-keyword
// stats, normalize engagement by the cycle max, record to the
// time-series store, run burst detection, score, rank, and keep the
// top-K.
func (e *Engine) RunCycle(items []models.RawContent, batchKeywords map[string]bool, now time.Time) []models.TrendTopic {
	accum := make(map[string]*keywordAccumulator)

	for _, item := range items {
		tokens := e.relevantTokens(item, batchKeywords)
		platform := item.Platform
		engagement := item.EngagementScore()

		for _, tok := range tokens {
			acc, ok := accum[tok]
			if !ok {
				acc = &keywordAccumulator{platforms: make(map[string]bool)}
				accum[tok] = acc
			}
			acc.frequency++
			acc.platforms[platform] = true
			acc.engagement += engagement
			if len(acc.titles) < e.cfg.RelatedTitlesN && item.Title != "" {
				acc.titles = append(acc.titles, item.Title)
			}
		}
	}

	maxEngagement := 0.0
	for _, acc := range accum {
		if acc.engagement > maxEngagement {
			maxEngagement = acc.engagement
		}
	}
	if maxEngagement == 0 {
		maxEngagement = 1
	}

	keywords := make([]string, 0, len(accum))
	for k, acc := range accum {
		if acc.frequency < e.cfg.MinFrequency {
			continue
		}
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	for _, k := range keywords {
		acc := accum[k]
		platformList := sortedKeys(acc.platforms)
		e.store.Record(k, acc.frequency, platformList, acc.engagement/maxEngagement, now)
	}

	trends := make([]models.TrendTopic, 0, len(keywords))
	for _, k := range keywords {
		acc := accum[k]
		trends = append(trends, e.scoreKeyword(k, acc, maxEngagement, now))
	}

	sort.Slice(trends, func(i, j int) bool {
		return trends[i].HeatScore > trends[j].HeatScore
	})
	if len(trends) > e.cfg.TopK {
		trends = trends[:e.cfg.TopK]
	}

	return trends
}

func (e *Engine) relevantTokens(item models.RawContent, batchKeywords map[string]bool) []string {
	var tokens []string

	text := item.Title + " " + item.Text
	for _, tok := range e.tok.Tokenize(text, 2) {
		if e.isRelevant(tok, batchKeywords) {
			tokens = append(tokens, tok)
		}
	}

	for _, tag := range item.Tags {
		if e.isRelevant(tag, batchKeywords) {
			tokens = append(tokens, tag, tag) // tag weight = 2
		}
	}

	return tokens
}

func (e *Engine) isRelevant(tok string, batchKeywords map[string]bool) bool {
	if batchKeywords[tok] {
		return true
	}
	if len([]rune(tok)) >= 3 && !e.tok.IsStopword(tok) {
		return true
	}
	return false
}

func (e *Engine) scoreKeyword(keyword string, acc *keywordAccumulator, maxEngagement float64, now time.Time) models.TrendTopic {
	counts := e.store.Counts(keyword)
	floatCounts := make([]float64, len(counts))
	for i, c := range counts {
		floatCounts[i] = float64(c)
	}

	z, _ := burst.ZScore(floatCounts)
	isBurst := z > e.cfg.ZScoreThreshold
	macdValue, macdSignal := burst.MACD(floatCounts)
	accel := burst.Acceleration(floatCounts)

	hist := e.store.History(keyword)
	hoursSincePeak := 0.0
	firstSeen, peakTime := now, now
	if hist != nil {
		hoursSincePeak = now.Sub(hist.PeakTime).Hours()
		firstSeen = hist.FirstSeen
		peakTime = hist.PeakTime
	}

	normalizedEngagement := acc.engagement / maxEngagement
	if normalizedEngagement > 1 {
		normalizedEngagement = 1
	}

	score := Score(e.cfg.Weights, acc.frequency, accel, len(acc.platforms), normalizedEngagement, hoursSincePeak, e.cfg.HalfLifeHours, isBurst, macdSignal == "bullish")

	sparkline := counts
	if len(sparkline) > e.cfg.SparklineLen {
		sparkline = sparkline[len(sparkline)-e.cfg.SparklineLen:]
	}

	return models.TrendTopic{
		Keyword:         keyword,
		HeatScore:       score,
		Frequency:       acc.frequency,
		Acceleration:    accel,
		SourceDiversity: len(acc.platforms),
		Engagement:      normalizedEngagement,
		IsBurst:         isBurst,
		BurstZScore:     z,
		MACDSignal:      models.MACDSignal(macdSignal),
		MACDValue:       macdValue,
		TrendDirection:  models.Direction(DirectionFor(counts)),
		Platforms:       sortedKeys(acc.platforms),
		RelatedTitles:   acc.titles,
		Category:        models.Category(Classify(keyword)),
		Sparkline:       sparkline,
		FirstSeen:       firstSeen,
		PeakTime:        peakTime,
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
