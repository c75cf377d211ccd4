// Package http provides the paced, retried HTTP implementation of
// takaichirag.Fetcher used against the source site.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jiangzhuo/takaichirag"
	"golang.org/x/time/rate"
)

// Defaults mirror the politeness settings the site is crawled with:
// one request per second, a 30s request timeout, and three retries with
// exponential backoff.
const (
	DefaultDelay        = 1 * time.Second
	DefaultFetchTimeout = 30 * time.Second
	DefaultRetries      = 3
	DefaultBackoff      = 1 * time.Second
)

// defaultHeaders are sent with every request. The site serves Japanese
// content; announce a browser-like client that accepts it.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "ja,en-US;q=0.9,en;q=0.8",
}

// Ensure Fetcher implements takaichirag.Fetcher at compile time.
var _ takaichirag.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML over HTTP with a hard pacing floor between
// consecutive requests. The floor applies before every attempt, retries
// included, regardless of the prior request's outcome.
type Fetcher struct {
	client  *http.Client
	pacer   *rate.Limiter
	timeout time.Duration
	retries int
	backoff time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (30s).
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithDelay sets the minimum delay between consecutive requests.
// Defaults to DefaultDelay (1s).
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.pacer = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithRetries sets the number of retries after the initial attempt.
// Defaults to DefaultRetries (3).
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithBackoff sets the base backoff delay; attempt n waits base<<n.
// Defaults to DefaultBackoff (1s).
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoff = d
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		pacer:   rate.NewLimiter(rate.Every(DefaultDelay), 1),
		timeout: DefaultFetchTimeout,
		retries: DefaultRetries,
		backoff: DefaultBackoff,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// retryable reports whether an HTTP status is worth retrying.
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Fetch retrieves the HTML content from the given URL. Transport errors,
// timeouts and retryable statuses (429, 500, 502, 503, 504) are retried
// with exponential backoff; any other non-2xx status is terminal for the
// URL. After exhausting retries the last error is returned with code
// EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(f.backoff << (attempt - 1)):
			}
		}

		// The pacing floor holds for every attempt, success or failure.
		if err := f.pacer.Wait(ctx); err != nil {
			return "", err
		}

		html, err, retry := f.fetchOnce(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}
	}

	return "", takaichirag.Errorf(takaichirag.EUNAVAILABLE,
		"fetch %s: retries exhausted: %s", url, errString(lastErr))
}

// fetchOnce performs a single paced request. The third result reports
// whether the failure is retryable.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", takaichirag.Errorf(takaichirag.EINVALID, "invalid URL %s: %v", url, err), false
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Connection errors and timeouts are retryable, but a canceled
		// parent context is not.
		if ctx.Err() != nil {
			return "", ctx.Err(), false
		}
		return "", takaichirag.Errorf(takaichirag.EUNAVAILABLE, "fetch %s: %v", url, err), true
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := takaichirag.Errorf(takaichirag.EUNAVAILABLE, "fetch %s: HTTP %d", url, resp.StatusCode)
		return "", err, retryable(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", takaichirag.Errorf(takaichirag.EUNAVAILABLE, "fetch %s: read body: %v", url, err), true
	}

	return string(body), nil, false
}

// Close releases resources. The underlying http.Client needs no explicit
// cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
