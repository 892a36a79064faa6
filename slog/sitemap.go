package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/arcmirror/arcmirror"
)

// Ensure LoggingSitemapService implements arcmirror.SitemapService.
var _ arcmirror.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService and logs every discovery
// call with the number of service endpoints found.
type LoggingSitemapService struct {
	next   arcmirror.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next arcmirror.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverServices delegates to the wrapped service and logs the outcome.
func (s *LoggingSitemapService) DiscoverServices(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("discover services",
			"url", baseURL,
			"services", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverServices(ctx, baseURL)
}
