package mock

import (
	"context"

	"github.com/arcmirror/arcmirror"
)

var _ arcmirror.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of arcmirror.CatalogService.
type CatalogService struct {
	UpsertDatasetFn       func(ctx context.Context, dataset *arcmirror.Dataset, layers []*arcmirror.Layer) error
	FindDatasetBySlugFn   func(ctx context.Context, slug string) (*arcmirror.Dataset, error)
	FindDatasetsFn        func(ctx context.Context, filter arcmirror.DatasetFilter) ([]*arcmirror.Dataset, error)
	FindLayersByDatasetFn func(ctx context.Context, datasetID string) ([]*arcmirror.Layer, error)
	SummaryFn             func(ctx context.Context) (*arcmirror.CatalogSummary, error)
}

func (s *CatalogService) UpsertDataset(ctx context.Context, dataset *arcmirror.Dataset, layers []*arcmirror.Layer) error {
	return s.UpsertDatasetFn(ctx, dataset, layers)
}

func (s *CatalogService) FindDatasetBySlug(ctx context.Context, slug string) (*arcmirror.Dataset, error) {
	return s.FindDatasetBySlugFn(ctx, slug)
}

func (s *CatalogService) FindDatasets(ctx context.Context, filter arcmirror.DatasetFilter) ([]*arcmirror.Dataset, error) {
	return s.FindDatasetsFn(ctx, filter)
}

func (s *CatalogService) FindLayersByDataset(ctx context.Context, datasetID string) ([]*arcmirror.Layer, error) {
	return s.FindLayersByDatasetFn(ctx, datasetID)
}

func (s *CatalogService) Summary(ctx context.Context) (*arcmirror.CatalogSummary, error) {
	return s.SummaryFn(ctx)
}
