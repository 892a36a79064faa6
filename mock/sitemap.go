package mock

import (
	"context"

	"github.com/arcmirror/arcmirror"
)

var _ arcmirror.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of arcmirror.SitemapService.
type SitemapService struct {
	DiscoverServicesFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverServices(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverServicesFn(ctx, baseURL)
}
