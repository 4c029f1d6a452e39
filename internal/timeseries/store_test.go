package timeseries

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordTracksPeak(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "history.json"), 144)

	base := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	s.Record("热点", 5, []string{"bilibili"}, 0.2, base)
	s.Record("热点", 12, []string{"baidu"}, 0.5, base.Add(10*time.Minute))
	s.Record("热点", 3, []string{"bilibili"}, 0.1, base.Add(20*time.Minute))

	h := s.History("热点")
	require.NotNil(t, h)
	assert.Equal(t, 12, h.PeakCount)
	assert.True(t, h.PeakTime.Equal(base.Add(10 * time.Minute)))
	assert.True(t, h.FirstSeen.Equal(base))
	assert.Equal(t, []int{5, 12, 3}, h.Counts())
}

func TestStore_WindowCapEvictsOldest(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "history.json"), 3)
	base := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s.Record("k", i, nil, 0, base.Add(time.Duration(i)*10*time.Minute))
	}

	counts := s.Counts("k")
	assert.LessOrEqual(t, len(counts), 3)
	assert.Equal(t, []int{2, 3, 4}, counts)
}

func TestStore_CleanupRemovesStaleKeywords(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "history.json"), 144)
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	s.Record("fresh", 1, nil, 0, now.Add(-1*time.Hour))
	s.Record("stale", 1, nil, 0, now.Add(-72*time.Hour))

	removed := s.Cleanup(now, 48*time.Hour)
	assert.Equal(t, 1, removed)
	assert.NotNil(t, s.History("fresh"))
	assert.Nil(t, s.History("stale"))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s := New(path, 144)
	base := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	s.Record("k1", 7, []string{"weibo"}, 0.4, base)

	require.NoError(t, s.Save())

	reloaded := New(path, 144)
	h := reloaded.History("k1")
	require.NotNil(t, h)
	assert.Equal(t, 7, h.PeakCount)
	assert.Len(t, h.Windows, 1)
}

func TestStore_LoadCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := New(path, 144)
	assert.Empty(t, s.Keywords())
}
