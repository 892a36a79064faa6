package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arcmirror/arcmirror"
	"github.com/beevik/etree"
)

// Ensure SitemapService implements arcmirror.SitemapService.
var _ arcmirror.SitemapService = (*SitemapService)(nil)

// SitemapService lists catalog services through the f=sitemap format.
// ArcGIS servers answer it with a flat sitemap of every service URL under
// the endpoint, which makes it a cheap way to enumerate a catalog without
// walking its folders.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithSitemapUserAgent sets the User-Agent header sent with every request.
func WithSitemapUserAgent(ua string) SitemapOption {
	return func(s *SitemapService) {
		s.userAgent = ua
	}
}

// NewSitemapService creates a new SitemapService with the given HTTP
// client. If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{
		client:    client,
		userAgent: arcmirror.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverServices returns every service URL listed by the catalog's
// sitemap, in document order. Returns an empty slice (not nil) if the
// sitemap lists nothing.
func (s *SitemapService) DiscoverServices(ctx context.Context, baseURL string) ([]string, error) {
	sitemapURL, err := formatURL(baseURL, "sitemap")
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	urls, err := s.collect(ctx, sitemapURL, visited)
	if err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

// collect fetches one sitemap document and gathers its service URLs.
// A urlset yields its entries directly; a sitemapindex recurses into each
// listed sub-sitemap. The visited set breaks reference cycles.
func (s *SitemapService) collect(ctx context.Context, sitemapURL string, visited map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if visited[sitemapURL] {
		return nil, nil
	}
	visited[sitemapURL] = true

	root, err := s.fetchXML(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	if root.Tag != "sitemapindex" {
		return locations(root, "url"), nil
	}

	var urls []string
	for _, sub := range locations(root, "sitemap") {
		nested, err := s.collect(ctx, sub, visited)
		if err != nil {
			return nil, err
		}
		urls = append(urls, nested...)
	}
	return urls, nil
}

// locations returns the trimmed, non-empty <loc> values of the root's
// children with the given tag, in document order.
func locations(root *etree.Element, tag string) []string {
	var locs []string
	for _, child := range root.SelectElements(tag) {
		loc := child.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			locs = append(locs, u)
		}
	}
	return locs
}

// fetchXML fetches a URL and parses the response body as XML, returning
// the document root.
func (s *SitemapService) fetchXML(ctx context.Context, targetURL string) (*etree.Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(io.LimitReader(resp.Body, MaxBodyBytes)); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}
	return root, nil
}
