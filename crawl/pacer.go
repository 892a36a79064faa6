package crawl

import (
	"context"
	"time"

	"github.com/arcmirror/arcmirror"
	"golang.org/x/time/rate"
)

var _ arcmirror.Pacer = (*Pacer)(nil)

// Pacer enforces a minimum delay between consecutive requests using a
// token bucket with a burst of 1. The first request proceeds immediately;
// each subsequent one waits out whatever remains of the delay.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer with the given minimum delay between requests.
// A non-positive delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next request may be sent.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
