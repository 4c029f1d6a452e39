package models

import "time"

// KeywordWindow is one sampled bucket of a keyword's activity.
type KeywordWindow struct {
	Time       time.Time `json:"time"`
	Count      int       `json:"count"`
	Platforms  []string  `json:"platforms"`
	Engagement float64   `json:"engagement"`
}

// KeywordHistory is the per-keyword append-only window ring, capped at H
// entries (default 144, i.e. 24h at a 10-minute cadence).
type KeywordHistory struct {
	Windows   []KeywordWindow `json:"windows"`
	FirstSeen time.Time       `json:"first_seen"`
	PeakCount int             `json:"peak_count"`
	PeakTime  time.Time       `json:"peak_time"`
}

// Counts extracts the oldest-to-newest count series used by the burst
// detector and the heat scorer.
func (h KeywordHistory) Counts() []int {
	counts := make([]int, len(h.Windows))
	for i, w := range h.Windows {
		counts[i] = w.Count
	}
	return counts
}

// Sparkline returns the trailing count series capped at n samples, for
// inline visualization (spec default n=20).
func (h KeywordHistory) Sparkline(n int) []int {
	counts := h.Counts()
	if len(counts) <= n {
		return counts
	}
	return counts[len(counts)-n:]
}
