package arcmirror

import (
	"context"
	"time"
)

// Dataset represents one mirrored service document in the catalog.
type Dataset struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Copyright   string    `json:"copyright"`
	ServiceURL  string    `json:"serviceUrl"`
	ServiceType string    `json:"serviceType"`
	MirrorPath  string    `json:"mirrorPath"`
	ContentHash string    `json:"contentHash"`
	Keywords    []string  `json:"keywords"`
	LayerCount  int       `json:"layerCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the dataset contains invalid fields.
func (d *Dataset) Validate() error {
	if d.Slug == "" {
		return Errorf(EINVALID, "dataset slug required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "dataset title required")
	}
	if d.MirrorPath == "" {
		return Errorf(EINVALID, "dataset mirror path required")
	}
	return nil
}

// Layer represents a single layer of a cataloged dataset.
type Layer struct {
	ID                string  `json:"id"`
	DatasetID         string  `json:"datasetId"`
	LayerID           int     `json:"layerId"`
	Name              string  `json:"name"`
	GeometryType      string  `json:"geometryType"`
	LayerType         string  `json:"layerType"`
	MinScale          float64 `json:"minScale"`
	MaxScale          float64 `json:"maxScale"`
	DefaultVisibility bool    `json:"defaultVisibility"`
}

// CatalogService manages datasets extracted from a mirror tree.
type CatalogService interface {
	// UpsertDataset creates the dataset or, if a dataset with the same
	// slug exists, replaces its fields and layers. The dataset's ID,
	// CreatedAt and UpdatedAt are filled in on return.
	UpsertDataset(ctx context.Context, dataset *Dataset, layers []*Layer) error

	// FindDatasetBySlug retrieves a dataset by its slug.
	// Returns ENOTFOUND if the dataset does not exist.
	FindDatasetBySlug(ctx context.Context, slug string) (*Dataset, error)

	// FindDatasets retrieves datasets matching the filter, ordered by slug.
	FindDatasets(ctx context.Context, filter DatasetFilter) ([]*Dataset, error)

	// FindLayersByDataset retrieves the layers of a dataset ordered by
	// their remote layer ID.
	FindLayersByDataset(ctx context.Context, datasetID string) ([]*Layer, error)

	// Summary reports aggregate catalog counts.
	Summary(ctx context.Context) (*CatalogSummary, error)
}

// DatasetFilter represents a filter for FindDatasets.
type DatasetFilter struct {
	Slug        *string `json:"slug"`
	ServiceType *string `json:"serviceType"`
	Keyword     *string `json:"keyword"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CatalogSummary holds aggregate counts over the catalog.
type CatalogSummary struct {
	Datasets      int            `json:"datasets"`
	Layers        int            `json:"layers"`
	Keywords      int            `json:"keywords"`
	ByServiceType map[string]int `json:"byServiceType"`
	LastUpdatedAt time.Time      `json:"lastUpdatedAt"`
}
