package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "trendradar/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_New401PermanentlyBlocksHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(Options{BaseInterval: time.Millisecond, Jitter: 0, MaxRetries: 0, RequestTimeout: time.Second})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), srv.Listener.Addr().String(), srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.TypePermanent, pkgerrors.GetType(err))
	assert.True(t, c.IsBlocked(srv.Listener.Addr().String()))

	_, err = c.Get(context.Background(), srv.Listener.Addr().String(), srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.TypePermanent, pkgerrors.GetType(err))
}

func TestClient_429IsRetryableRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := New(Options{BaseInterval: time.Millisecond, Jitter: 0, MaxRetries: 0, RequestTimeout: time.Second})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), srv.Listener.Addr().String(), srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.TypeRateLimit, pkgerrors.GetType(err))
	assert.False(t, c.IsBlocked(srv.Listener.Addr().String()))
}

func TestClient_403WithoutRetryAfterBlocksOnSecondFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := New(Options{BaseInterval: time.Millisecond, Jitter: 0, MaxRetries: 0, RequestTimeout: time.Second})
	require.NoError(t, err)

	host := srv.Listener.Addr().String()
	_, err = c.Get(context.Background(), host, srv.URL, nil)
	require.Error(t, err)
	assert.False(t, c.IsBlocked(host), "first 403 without Retry-After should retry, not block")

	_, err = c.Get(context.Background(), host, srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.TypePermanent, pkgerrors.GetType(err))
	assert.True(t, c.IsBlocked(host), "second 403 without Retry-After should block the host")
}

func TestClient_412EscalatesPenaltyByThree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	}))
	defer srv.Close()

	c, err := New(Options{BaseInterval: time.Millisecond, Jitter: 0, MaxRetries: 0, RequestTimeout: time.Second})
	require.NoError(t, err)

	host := srv.Listener.Addr().String()
	_, err = c.Get(context.Background(), host, srv.URL, nil)
	require.Error(t, err)

	st := c.stateFor(host)
	assert.Equal(t, 3.0, st.penalty)
}

func TestClient_SuccessDecaysPenaltyByHalf(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New(Options{BaseInterval: time.Millisecond, Jitter: 0, MaxRetries: 0, RequestTimeout: time.Second})
	require.NoError(t, err)

	host := srv.Listener.Addr().String()
	st := c.stateFor(host)
	st.penalty = 4.0

	body, err := c.Get(context.Background(), host, srv.URL, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 2.0, st.penalty, "success should decay penalty to max(1.0, old*0.5), not reset it")
}

func TestClient_UserAgentRotates(t *testing.T) {
	c, err := New(DefaultOptions())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[c.nextUserAgent()] = true
	}
	assert.Greater(t, len(seen), 1, "expected user agent rotation across requests")
}
