package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsCounterAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.CrawlItemsTotal.WithLabelValues("weibo").Add(3)
	c.TrendsProduced.Set(5)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler(reg).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "trendradar_crawl_items_total")
	assert.Contains(t, body, "trendradar_trends_produced 5")
	assert.True(t, strings.Contains(body, `platform="weibo"`))
}
