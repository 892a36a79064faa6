package arcmirror

import "time"

// Report aggregates catalog state for rendering.
type Report struct {
	GeneratedAt time.Time
	ServiceURL  string
	Summary     *CatalogSummary
	Datasets    []*Dataset
}
