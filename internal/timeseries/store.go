// Package timeseries implements the per-keyword sliding-window store:
// a fixed-size ring of windows per keyword (default 144 x 10min = 24h),
// with first-seen/peak tracking, age-based cleanup, and atomic
// persistence to a single JSON file.
package timeseries

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"trendradar/internal/models"
	pkgerrors "trendradar/pkg/errors"
	"trendradar/pkg/logger"
)

// Store is the in-memory, disk-backed keyword history table. The spec
// requires the engine to exclusively own it for the duration of a
// cycle; callers must not share a Store across concurrent cycles.
type Store struct {
	mu       sync.Mutex
	path     string
	capacity int
	history  map[string]*models.KeywordHistory
	log      *logger.Logger
}

// New constructs a Store, loading prior state from path if present. A
// decode failure is treated as empty state rather than a fatal error,
// per the spec's corruption-handling policy.
func New(path string, capacity int) *Store {
	s := &Store{
		path:     path,
		capacity: capacity,
		history:  make(map[string]*models.KeywordHistory),
		log:      logger.Get().WithField("component", "timeseries"),
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn().Msg("failed to read keyword history file, starting empty")
		}
		return
	}

	var decoded map[string]*models.KeywordHistory
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.log.WithError(err).Warn().Msg("keyword history file corrupt, starting empty")
		return
	}
	s.history = decoded
}

// Record appends a window for keyword, initializing first_seen if
// absent, updating peak_count/peak_time, and evicting the oldest
// window(s) if the capacity is exceeded.
func (s *Store) Record(keyword string, count int, platforms []string, engagement float64, windowTime time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.history[keyword]
	if !ok {
		h = &models.KeywordHistory{FirstSeen: windowTime}
		s.history[keyword] = h
	}

	h.Windows = append(h.Windows, models.KeywordWindow{
		Time:       windowTime,
		Count:      count,
		Platforms:  platforms,
		Engagement: engagement,
	})

	if count > h.PeakCount {
		h.PeakCount = count
		h.PeakTime = windowTime
	}

	if len(h.Windows) > s.capacity {
		excess := len(h.Windows) - s.capacity
		h.Windows = h.Windows[excess:]
	}
}

// Series returns a copy of keyword's windows, oldest first.
func (s *Store) Series(keyword string) []models.KeywordWindow {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.history[keyword]
	if !ok {
		return nil
	}
	out := make([]models.KeywordWindow, len(h.Windows))
	copy(out, h.Windows)
	return out
}

// Counts returns the count sequence for keyword, oldest first.
func (s *Store) Counts(keyword string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.history[keyword]
	if !ok {
		return nil
	}
	return h.Counts()
}

// History returns the full KeywordHistory record for keyword, or nil.
func (s *Store) History(keyword string) *models.KeywordHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[keyword]
}

// Keywords returns every tracked keyword, sorted for deterministic
// iteration.
func (s *Store) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.history))
	for k := range s.history {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Cleanup removes keywords whose newest window is older than
// maxAge, relative to now.
func (s *Store) Cleanup(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, h := range s.history {
		if len(h.Windows) == 0 {
			delete(s.history, k)
			removed++
			continue
		}
		newest := h.Windows[len(h.Windows)-1].Time
		if now.Sub(newest) > maxAge {
			delete(s.history, k)
			removed++
		}
	}
	return removed
}

// Save atomically rewrites the backing JSON file: write to a temp
// sibling, then rename into place, so a concurrent reader never sees a
// half-written artifact.
func (s *Store) Save() error {
	s.mu.Lock()
	snapshot := make(map[string]*models.KeywordHistory, len(s.history))
	for k, v := range s.history {
		snapshot[k] = v
	}
	s.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "marshal keyword history")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "create history directory")
	}

	tmp, err := os.CreateTemp(dir, ".keyword_history-*.tmp")
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "create temp history file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "write temp history file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "close temp history file")
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "rename history file into place")
	}

	return nil
}
