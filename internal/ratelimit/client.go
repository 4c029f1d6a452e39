// Package ratelimit implements the per-domain paced HTTP client every
// platform crawler shares: a token-bucket limiter per host, user-agent
// rotation, and the status-code-specific retry/block policy described
// in the spec's HTTP Client & Rate Limiter module.
package ratelimit

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	pkgerrors "trendradar/pkg/errors"
	"trendradar/pkg/logger"

	"golang.org/x/time/rate"
)

// userAgents is the rotation pool. Index advances by a random 1-5 step
// on every request so consecutive requests rarely share a UA.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 13; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36 Edg/118.0.2088.76",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Safari/605.1.15",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Windows NT 11.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPad; CPU OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Fedora; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_14_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.6 Safari/605.1.15",
	"Mozilla/5.0 (Linux; Android 13; SM-A536B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Windows NT 6.1; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; CrOS x86_64 15572.59.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

// hostState is the per-domain bookkeeping: its token bucket, its
// current penalty factor, and whether it has been permanently blocked.
type hostState struct {
	limiter    *rate.Limiter
	penalty    float64
	blocked    bool
	blockedAt  time.Time
	blockCause string
	// forbiddenFails and riskControlFails count 403-without-Retry-After
	// and 412 occurrences respectively; the second of either blocks the
	// host per the status-code policy table.
	forbiddenFails   int
	riskControlFails int
	// circuit tracks consecutive transient transport failures, layered
	// alongside the permanent block latch (spec: a blocked host never
	// recovers within the process; a tripped circuit can half-open).
	consecutiveFails int
	circuitOpenUntil time.Time
}

// Options configures Client.
type Options struct {
	BaseInterval   time.Duration
	Jitter         time.Duration
	MaxRetries     int
	RequestTimeout time.Duration
	ProxyURL       string
}

// DefaultOptions mirrors the spec's documented defaults.
func DefaultOptions() Options {
	return Options{
		BaseInterval:   2500 * time.Millisecond,
		Jitter:         2000 * time.Millisecond,
		MaxRetries:     3,
		RequestTimeout: 15 * time.Second,
	}
}

// Client is a shared HTTP client with per-host pacing, UA rotation, and
// the spec's status-code-specific retry/block policy.
type Client struct {
	http *http.Client
	opts Options
	log  *logger.Logger

	mu    sync.Mutex
	hosts map[string]*hostState
	uaIdx int
}

// New builds a Client. An empty proxyURL disables proxying.
func New(opts Options) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if opts.ProxyURL != "" {
		proxyFn, err := httpProxyFunc(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = proxyFn
	}

	return &Client{
		http: &http.Client{Transport: transport, Timeout: opts.RequestTimeout},
		opts: opts,
		log:  logger.Get().WithField("component", "ratelimit"),
		hosts: make(map[string]*hostState),
	}, nil
}

func (c *Client) stateFor(host string) *hostState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.hosts[host]
	if !ok {
		st = &hostState{
			limiter: rate.NewLimiter(rate.Every(c.opts.BaseInterval), 1),
			penalty: 1.0,
		}
		c.hosts[host] = st
	}
	return st
}

// IsBlocked reports whether host has been permanently latched off.
func (c *Client) IsBlocked(host string) bool {
	st := c.stateFor(host)
	c.mu.Lock()
	defer c.mu.Unlock()
	return st.blocked
}

func (c *Client) nextUserAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uaIdx = (c.uaIdx + 1 + rand.Intn(5)) % len(userAgents)
	return userAgents[c.uaIdx]
}

// Get performs a rate-limited, retried GET against url, whose host
// governs pacing, penalty, and permanent-block state.
func (c *Client) Get(ctx context.Context, host, url string, headers map[string]string) ([]byte, error) {
	st := c.stateFor(host)

	c.mu.Lock()
	blocked := st.blocked
	circuitOpen := !st.circuitOpenUntil.IsZero() && time.Now().Before(st.circuitOpenUntil)
	c.mu.Unlock()

	if blocked {
		return nil, pkgerrors.New(pkgerrors.TypePermanent, fmt.Sprintf("host %s permanently blocked: %s", host, st.blockCause))
	}
	if circuitOpen {
		return nil, pkgerrors.New(pkgerrors.TypeTransient, fmt.Sprintf("host %s circuit open", host))
	}

	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if err := c.wait(ctx, st); err != nil {
			return nil, err
		}

		body, retryAfter, err := c.doOnce(ctx, host, url, headers, st, attempt)
		if err == nil {
			c.onSuccess(st)
			return body, nil
		}
		lastErr = err

		if !pkgerrors.IsRetryable(err) {
			return nil, err
		}
		if attempt == c.opts.MaxRetries {
			break
		}

		delay := retryAfter
		if delay <= 0 {
			delay = c.backoffDelay(attempt, st)
		}
		c.log.Debug().Str("host", host).Int("attempt", attempt+1).Dur("delay", delay).Msg("retrying after transient failure")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

// wait enforces interval = base_interval * penalty_factor + uniform(0,
// jitter): the limiter's refill rate is retuned to the current penalty
// before each wait, then an extra uniform jitter sleep is added on top.
func (c *Client) wait(ctx context.Context, st *hostState) error {
	c.mu.Lock()
	interval := time.Duration(float64(c.opts.BaseInterval) * st.penalty)
	st.limiter.SetLimit(rate.Every(interval))
	jitter := time.Duration(rand.Int63n(int64(c.opts.Jitter) + 1))
	c.mu.Unlock()

	if err := st.limiter.Wait(ctx); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeSystem, "rate limiter wait failed")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
	}
	return nil
}

func (c *Client) doOnce(ctx context.Context, host, url string, headers map[string]string, st *hostState, attempt int) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, pkgerrors.TypeValidation, "build request")
	}
	req.Header.Set("User-Agent", c.nextUserAgent())
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.onTransportFailure(st)
		delay := time.Duration(1<<uint(attempt))*time.Second + time.Duration(rand.Int63n(int64(2*time.Second)))
		return nil, delay, pkgerrors.NewNetworkError(fmt.Sprintf("request to %s failed", host), err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, 0, pkgerrors.Wrap(readErr, pkgerrors.TypeNetwork, "read response body")
	}

	delay, err := c.applyStatusPolicy(host, resp, st, attempt)
	return body, delay, err
}

// applyStatusPolicy implements the spec's status-code policy table
// exactly, returning the mandated retry delay alongside the error:
//
//	2xx                          -> success, penalty decays to max(1, penalty*0.5)
//	401                          -> permanent block, "auth required"
//	403 w/ Retry-After           -> sleep min(Retry-After, 30s); retry
//	403 w/o Retry-After, 1st     -> sleep 2-4s; retry
//	403 w/o Retry-After, >=2nd   -> block, "forbidden"
//	412, 1st                     -> penalize x3; sleep 5-10s; retry
//	412, >=2nd                   -> block, "risk control"
//	429                          -> penalize x2; sleep 2^attempt+uniform(1,3)s; retry
//	other non-2xx                -> generic transient error
func (c *Client) applyStatusPolicy(host string, resp *http.Response, st *hostState, attempt int) (time.Duration, error) {
	status := resp.StatusCode
	if status >= 200 && status < 300 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch status {
	case http.StatusUnauthorized:
		st.blocked = true
		st.blockedAt = time.Now()
		st.blockCause = "auth required"
		return 0, pkgerrors.New(pkgerrors.TypePermanent, fmt.Sprintf("host %s returned 401, permanently blocked", host))

	case http.StatusForbidden:
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			wait := parseRetryAfter(ra)
			if wait > 30*time.Second {
				wait = 30 * time.Second
			}
			return wait, pkgerrors.New(pkgerrors.TypeTransient, fmt.Sprintf("host %s returned 403", host))
		}

		st.forbiddenFails++
		if st.forbiddenFails >= 2 {
			st.blocked = true
			st.blockedAt = time.Now()
			st.blockCause = "forbidden"
			return 0, pkgerrors.New(pkgerrors.TypePermanent, fmt.Sprintf("host %s returned 403 repeatedly, blocked", host))
		}
		wait := 2*time.Second + time.Duration(rand.Int63n(int64(2*time.Second)))
		return wait, pkgerrors.New(pkgerrors.TypeTransient, fmt.Sprintf("host %s returned 403", host))

	case http.StatusPreconditionFailed:
		st.penalty = minFloat(st.penalty*3.0, 5.0)
		st.riskControlFails++
		if st.riskControlFails >= 2 {
			st.blocked = true
			st.blockedAt = time.Now()
			st.blockCause = "risk control"
			return 0, pkgerrors.New(pkgerrors.TypePermanent, fmt.Sprintf("host %s returned 412 repeatedly, blocked", host))
		}
		wait := 5*time.Second + time.Duration(rand.Int63n(int64(5*time.Second)))
		return wait, pkgerrors.New(pkgerrors.TypeTransient, fmt.Sprintf("host %s returned 412", host))

	case http.StatusTooManyRequests:
		st.penalty = minFloat(st.penalty*2.0, 5.0)
		wait := time.Duration(1<<uint(attempt))*time.Second + time.Second + time.Duration(rand.Int63n(int64(2*time.Second)))
		return wait, pkgerrors.NewRateLimitError(fmt.Sprintf("host %s rate limited", host), wait)

	default:
		return 0, pkgerrors.New(pkgerrors.TypeTransient, fmt.Sprintf("host %s returned HTTP %d", host, status))
	}
}

func (c *Client) onSuccess(st *hostState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st.penalty = maxFloat(1.0, st.penalty*0.5)
	st.forbiddenFails = 0
	st.riskControlFails = 0
	st.consecutiveFails = 0
	st.circuitOpenUntil = time.Time{}
}

func (c *Client) onTransportFailure(st *hostState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st.consecutiveFails++
	if st.consecutiveFails >= 5 {
		st.circuitOpenUntil = time.Now().Add(60 * time.Second)
	}
}

func (c *Client) backoffDelay(attempt int, st *hostState) time.Duration {
	c.mu.Lock()
	penalty := st.penalty
	c.mu.Unlock()
	base := float64(time.Second) * penalty
	delay := time.Duration(base * float64(int(1)<<uint(attempt)))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	return delay
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 60 * time.Second
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 60 * time.Second
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
