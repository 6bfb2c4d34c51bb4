package breach

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://api.pwnedpasswords.com"
	DefaultUserAgent   = "securepass-go/1.0"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRetries  = 3
	DefaultConcurrency = 4
	DefaultRPS         = 10

	maxRangeBody = 4 << 20
)

var (
	ErrLookupFailed     = errors.New("breach lookup failed")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// Reason classifies why a lookup could not be completed.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonNetwork  Reason = "network"
	ReasonTimeout  Reason = "timeout"
	ReasonStatus   Reason = "http_status"
	ReasonCanceled Reason = "canceled"
)

// Result is the outcome of a breach check. When the lookup fails, Checked is
// false, Reason and Err describe the failure and Found/Count are zero.
type Result struct {
	Checked bool
	Found   bool
	Count   int
	Reason  Reason
	Err     error
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	MaxRetries  int
	Concurrency int
	RPS         float64
	HTTPClient  Doer
	Cache       RangeCache

	// Sleep waits between attempts; it must return early with ctx.Err() on cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client checks passwords against a k-anonymity range API. Only the first
// PrefixLength characters of the SHA-1 hash leave the process.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	maxRetries int
	http       Doer
	cache      RangeCache
	sleep      func(ctx context.Context, d time.Duration) error
	sem        *semaphore.Weighted
	limiter    *rate.Limiter
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		http:       opts.HTTPClient,
		cache:      opts.Cache,
		sleep:      opts.Sleep,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.cache == nil {
		c.cache = NopCache{}
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	c.sem = semaphore.NewWeighted(int64(concurrency))

	rps := opts.RPS
	if rps <= 0 {
		rps = DefaultRPS
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))

	return c
}

// Check looks password up in the breach corpus. An empty password is never
// sent anywhere and yields an unchecked, not-found Result.
func (c *Client) Check(ctx context.Context, password string) Result {
	if password == "" {
		return Result{}
	}

	prefix, suffix := SplitHash(SHA1Hex(password))
	entries, err := c.Range(ctx, prefix)
	if err != nil {
		return Result{
			Reason: reasonFor(err),
			Err:    fmt.Errorf("%w: %w", ErrLookupFailed, err),
		}
	}

	count, found := FindSuffix(entries, suffix)
	return Result{Checked: true, Found: found, Count: count}
}

// Range returns the entries for a hash prefix, consulting the cache first.
func (c *Client) Range(ctx context.Context, prefix string) ([]Entry, error) {
	body, ok, err := c.cache.Get(ctx, prefix)
	if err != nil {
		slog.Warn("range cache read failed", "prefix", prefix, "error", err)
	}
	if !ok {
		body, err = c.fetchWithRetry(ctx, prefix)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, prefix, body); err != nil {
			slog.Warn("range cache write failed", "prefix", prefix, "error", err)
		}
	}
	return ParseRange(bytes.NewReader(body))
}

func (c *Client) fetchWithRetry(ctx context.Context, prefix string) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, backoff(attempt-1)); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.fetch(ctx, prefix)
		if err == nil {
			return body, nil
		}
		lastErr = err
		slog.Debug("range request failed", "prefix", prefix, "attempt", attempt+1, "error", err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, prefix string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Add-Padding", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRangeBody))
}

// backoff returns the wait before retry n (0-based): 1s, 2s, 4s, ...
func backoff(n int) time.Duration {
	return time.Duration(1<<n) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func reasonFor(err error) Reason {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, ErrUnexpectedStatus):
		return ReasonStatus
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ReasonTimeout
	default:
		return ReasonNetwork
	}
}
