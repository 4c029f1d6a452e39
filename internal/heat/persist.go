package heat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"trendradar/internal/models"
	pkgerrors "trendradar/pkg/errors"
)

// AlgorithmParams records the cycle's scoring configuration into
// trends.json so the artifact is self-describing.
type AlgorithmParams struct {
	Alpha           float64 `json:"alpha"`
	Beta            float64 `json:"beta"`
	Gamma           float64 `json:"gamma"`
	Delta           float64 `json:"delta"`
	HalfLifeHours   float64 `json:"half_life"`
	ZScoreThreshold float64 `json:"z_threshold"`
	MACDShort       int     `json:"macd_short"`
	MACDLong        int     `json:"macd_long"`
	MACDSignal      int     `json:"macd_signal_period"`
}

// Document is the trends.json artifact shape described in spec §4.7/§6.
type Document struct {
	UpdateTime time.Time           `json:"update_time"`
	TotalTrends int                `json:"total_trends"`
	BurstCount  int                `json:"burst_count"`
	Algorithm   AlgorithmParams    `json:"algorithm"`
	Trends      []models.TrendTopic `json:"trends"`
}

// BuildDocument assembles the persistable document for a completed
// cycle's trend list.
func (e *Engine) BuildDocument(trends []models.TrendTopic, now time.Time) Document {
	burstCount := 0
	for _, t := range trends {
		if t.IsBurst {
			burstCount++
		}
	}

	return Document{
		UpdateTime:  now,
		TotalTrends: len(trends),
		BurstCount:  burstCount,
		Algorithm: AlgorithmParams{
			Alpha: e.cfg.Weights.Alpha, Beta: e.cfg.Weights.Beta,
			Gamma: e.cfg.Weights.Gamma, Delta: e.cfg.Weights.Delta,
			HalfLifeHours:   e.cfg.HalfLifeHours,
			ZScoreThreshold: e.cfg.ZScoreThreshold,
			MACDShort:       12, MACDLong: 26, MACDSignal: 9,
		},
		Trends: trends,
	}
}

// Save atomically writes doc to path as pretty-printed (indent 2) JSON.
// Per the spec's empty-cycle rule, an empty-trends document is not
// written unless forceEmpty is set.
func Save(path string, doc Document, forceEmpty bool) error {
	if doc.TotalTrends == 0 && !forceEmpty {
		return nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "marshal trends document")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "create trends directory")
	}

	tmp, err := os.CreateTemp(dir, ".trends-*.tmp")
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "create temp trends file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "write temp trends file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "close temp trends file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "rename trends file into place")
	}

	return nil
}
