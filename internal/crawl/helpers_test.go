package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"trendradar/internal/ratelimit"
	"trendradar/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewDefault("trendradar-test")
}

// newBlockingTestClient builds a ratelimit.Client whose host is already
// latched into the permanently-blocked state, by driving one 401
// response through it against a throwaway local server.
func newBlockingTestClient(host string) (*ratelimit.Client, error) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := ratelimit.New(ratelimit.Options{
		BaseInterval: time.Millisecond, Jitter: 0, MaxRetries: 0, RequestTimeout: time.Second,
	})
	if err != nil {
		return nil, err
	}

	_, _ = client.Get(context.Background(), host, srv.URL, nil)
	return client, nil
}
