package arcmirror

import "context"

// SitemapService discovers service URLs from a catalog's sitemap.
type SitemapService interface {
	// DiscoverServices returns every service URL listed by the catalog's
	// sitemap endpoint, in document order. ArcGIS servers expose the full
	// flat list of services this way without requiring a folder walk.
	DiscoverServices(ctx context.Context, baseURL string) ([]string, error)
}
