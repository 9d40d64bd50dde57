// Package collyfetcher implements archive.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/lancehart/blogvault/internal/archive"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// Headers are added to every request in addition to the user agent.
	Headers http.Header
}

// DefaultHeaders returns the fixed request headers sent with every fetch.
func DefaultHeaders() http.Header {
	h := make(http.Header)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	return h
}

// Fetcher implements archive.Fetcher using the Colly collector. One request
// is in flight at a time; every call clones the base collector so per-call
// state never leaks between fetches.
type Fetcher struct {
	cfg           Config
	transport     http.RoundTripper
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	// colly v2.1.0's Async option sets Async=true regardless of its
	// argument; the zero-option default is already synchronous.
	c := colly.NewCollector()
	c.IgnoreRobotsTxt = true
	// Revisit dedup belongs to the checkpoint, not the collector; clones
	// share the visited store, so the guard must stay off.
	c.AllowURLRevisit = true

	// One pooled transport shared by every clone.
	transport := newHTTPTransport()
	c.WithTransport(transport)

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Fetcher{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET and returns the response body. Network
// errors, timeouts, and non-2xx statuses surface as *archive.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var (
		body     []byte
		status   int
		fetchErr error
	)

	collector := f.baseCollector.Clone()
	collector.WithTransport(f.transport)
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	collector.OnRequest(func(r *colly.Request) {
		// The collector pre-populates Accept with */*; configured values
		// must replace the defaults rather than trail them.
		for key, values := range f.cfg.Headers {
			r.Headers.Del(key)
			for _, v := range values {
				r.Headers.Add(key, v)
			}
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, &archive.FetchError{URL: url, Err: fmt.Errorf("fetch canceled: %w", ctx.Err())}
	case err := <-done:
		if err != nil {
			// Visit errors cover malformed URLs and duplicate-visit guards;
			// HTTP-level failures arrive via the OnError hook instead.
			if fetchErr == nil {
				fetchErr = err
			}
		}
		if fetchErr != nil {
			return nil, &archive.FetchError{URL: url, StatusCode: status, Err: fetchErr}
		}
		return body, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
