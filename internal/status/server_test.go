package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendradar/internal/timeseries"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	trendsPath := filepath.Join(dir, "trends.json")
	store := timeseries.New(filepath.Join(dir, "keyword_history.json"), 144)
	reg := prometheus.NewRegistry()
	return New(Config{Addr: ":0", TrendsPath: trendsPath}, store, reg), trendsPath
}

func TestServer_HealthReportsMissingTrendsFile(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "missing", body["trends_file"])
}

func TestServer_TrendsReturnsEmptyWhenFileAbsent(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total_trends":0,"trends":[]}`, rr.Body.String())
}

func TestServer_TrendsServesFileContents(t *testing.T) {
	srv, trendsPath := newTestServer(t)
	require.NoError(t, os.WriteFile(trendsPath, []byte(`{"total_trends":1,"trends":[{"keyword":"测试"}]}`), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "测试")
}

func TestServer_HistoryReturns404ForUnknownKeyword(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/不存在", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_HistoryReturnsTrackedKeyword(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.store.Record("人工智能", 5, []string{"weibo"}, 0.5, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/人工智能", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "peak_count")
}
