// Package http provides HTTP-based implementations of arcmirror.Fetcher
// and arcmirror.SitemapService for talking to ArcGIS REST endpoints.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/arcmirror/arcmirror"
)

// DefaultFetchTimeout is the default timeout for fetch requests.
const DefaultFetchTimeout = 30 * time.Second

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 64 << 20

// Ensure Fetcher implements arcmirror.Fetcher at compile time.
var _ arcmirror.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves JSON documents from ArcGIS REST endpoints. Every
// request carries the f=json format parameter; existing query parameters
// on the URL are preserved.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: arcmirror.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the document at the given URL with f=json applied.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := formatURL(rawURL, "json")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("response for %s exceeds %d bytes", target, MaxBodyBytes)
	}

	return body, nil
}

// formatURL returns rawURL with the ArcGIS f= format parameter applied,
// preserving any query parameters already present.
func formatURL(rawURL, format string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	q := u.Query()
	q.Set("f", format)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
