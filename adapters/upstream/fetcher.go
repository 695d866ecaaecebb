// Package upstream fetches fixtures from the configured sports data source.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/artpar/sportsgate/adapters/idgen"
	"github.com/artpar/sportsgate/domain/matches"
	"github.com/artpar/sportsgate/ports"
)

// Errors returned by Fetch.
var (
	// ErrNotConfigured means no upstream URL is set; callers skip upstream.
	ErrNotConfigured = ports.ErrUpstreamNotConfigured
	// ErrUnexpectedStatus wraps a non-2xx response.
	ErrUnexpectedStatus = errors.New("upstream status")
	// ErrTimeout means the upstream did not answer within the timeout.
	ErrTimeout = errors.New("upstream timeout")
	// ErrBodyTooLarge means the response exceeded MaxBodyBytes.
	ErrBodyTooLarge = errors.New("upstream body too large")
)

// Config contains configuration for the fetcher.
type Config struct {
	URL             string // empty disables upstream
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	MaxBodyBytes    int64
	IDs             ports.IDGenerator // X-Request-ID source
}

// Fetcher implements ports.Fetcher over HTTP.
type Fetcher struct {
	client  *http.Client
	baseURL *url.URL
	timeout time.Duration
	maxBody int64
	ids     ports.IDGenerator
}

// New creates a fetcher. An empty URL yields a fetcher that always returns
// ErrNotConfigured.
func New(cfg Config) (*Fetcher, error) {
	f := &Fetcher{
		timeout: cfg.Timeout,
		maxBody: cfg.MaxBodyBytes,
		ids:     cfg.IDs,
	}
	if f.timeout <= 0 {
		f.timeout = 4 * time.Second
	}
	if f.maxBody <= 0 {
		f.maxBody = 5 << 20
	}
	if f.ids == nil {
		f.ids = idgen.UUID{}
	}

	if cfg.URL != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse upstream URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return nil, fmt.Errorf("upstream URL must be absolute http(s): %q", cfg.URL)
		}
		f.baseURL = u
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 100
	}
	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = 90 * time.Second
	}

	f.client = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConns,
			IdleConnTimeout:     idleConnTimeout,
		},
	}
	return f, nil
}

// Configured reports whether an upstream URL is set.
func (f *Fetcher) Configured() bool {
	return f.baseURL != nil
}

// Timeout returns the per-fetch deadline.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch performs one GET <url>?sport=<sport> bounded by the timeout.
// The result has Source "upstream".
func (f *Fetcher) Fetch(ctx context.Context, sport string) (matches.Payload, error) {
	if f.baseURL == nil {
		return matches.Payload{}, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	target := *f.baseURL
	q := target.Query()
	q.Set("sport", sport)
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return matches.Payload{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", f.ids.New())

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return matches.Payload{}, fmt.Errorf("%w after %s", ErrTimeout, f.timeout)
		}
		return matches.Payload{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return matches.Payload{}, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return matches.Payload{}, fmt.Errorf("%w after %s", ErrTimeout, f.timeout)
		}
		return matches.Payload{}, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return matches.Payload{}, ErrBodyTooLarge
	}

	list, err := matches.Normalize(body)
	if err != nil {
		return matches.Payload{}, fmt.Errorf("decode response: %w", err)
	}

	return matches.Payload{
		Sport:   sport,
		Source:  matches.SourceUpstream,
		Matches: list,
	}, nil
}

// Ensure interface compliance.
var _ ports.Fetcher = (*Fetcher)(nil)
