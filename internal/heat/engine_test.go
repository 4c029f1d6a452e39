package heat

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trendradar/internal/models"
	"trendradar/internal/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenizer struct {
	stopwords map[string]bool
}

func (f *fakeTokenizer) Tokenize(text string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

func (f *fakeTokenizer) IsStopword(word string) bool {
	return f.stopwords[word]
}

func newTestEngine(t *testing.T) *Engine {
	store := timeseries.New(filepath.Join(t.TempDir(), "history.json"), 144)
	tok := &fakeTokenizer{stopwords: map[string]bool{"的": true, "了": true}}
	return New(store, tok, DefaultConfig())
}

func TestEngine_RunCycleDropsLowFrequencyKeywords(t *testing.T) {
	e := newTestEngine(t)
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	items := []models.RawContent{
		{Platform: models.PlatformBilibili, Title: "芯片突破", Likes: 10},
	}

	trends := e.RunCycle(items, map[string]bool{"芯片突破": true}, now)
	assert.Empty(t, trends, "a keyword seen once should be below the min-frequency threshold")
}

func TestEngine_RunCycleProducesRankedTrends(t *testing.T) {
	e := newTestEngine(t)
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	items := []models.RawContent{
		{Platform: models.PlatformBilibili, Title: "芯片突破 进展", Likes: 100, Comments: 10},
		{Platform: models.PlatformBaidu, Title: "芯片突破 讨论", Likes: 50, Comments: 5},
	}

	trends := e.RunCycle(items, map[string]bool{"芯片突破": true}, now)
	require.Len(t, trends, 1)
	assert.Equal(t, "芯片突破", trends[0].Keyword)
	assert.Equal(t, 2, trends[0].Frequency)
	assert.Equal(t, 2, trends[0].SourceDiversity)
	assert.GreaterOrEqual(t, trends[0].Engagement, 0.0)
	assert.LessOrEqual(t, trends[0].Engagement, 1.0)
	assert.GreaterOrEqual(t, trends[0].HeatScore, 0.0)
	assert.LessOrEqual(t, trends[0].HeatScore, 100.0)
}

func TestEngine_EmptyCycleProducesNoTrends(t *testing.T) {
	e := newTestEngine(t)
	trends := e.RunCycle(nil, map[string]bool{}, time.Now())
	assert.Empty(t, trends)
}
