package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/arcmirror/arcmirror"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ arcmirror.CatalogService = (*CatalogService)(nil)

// CatalogService implements arcmirror.CatalogService using SQLite.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// UpsertDataset creates the dataset or, when a dataset with the same slug
// exists, replaces its fields along with its layers and keyword links.
func (s *CatalogService) UpsertDataset(ctx context.Context, dataset *arcmirror.Dataset, layers []*arcmirror.Layer) error {
	if err := dataset.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	var existingID, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM datasets WHERE slug = ?
	`, dataset.Slug).Scan(&existingID, &createdAt)

	switch {
	case err == sql.ErrNoRows:
		dataset.ID = uuid.New().String()
		dataset.CreatedAt = now
		dataset.UpdatedAt = now

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO datasets (id, slug, title, summary, copyright, service_url, service_type, mirror_path, content_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, dataset.ID, dataset.Slug, dataset.Title, dataset.Summary, dataset.Copyright,
			dataset.ServiceURL, dataset.ServiceType, dataset.MirrorPath, dataset.ContentHash,
			dataset.CreatedAt.Format(time.RFC3339), dataset.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		dataset.ID = existingID
		if dataset.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return err
		}
		dataset.UpdatedAt = now

		_, err = s.db.ExecContext(ctx, `
			UPDATE datasets
			SET title = ?, summary = ?, copyright = ?, service_url = ?, service_type = ?, mirror_path = ?, content_hash = ?, updated_at = ?
			WHERE id = ?
		`, dataset.Title, dataset.Summary, dataset.Copyright, dataset.ServiceURL, dataset.ServiceType,
			dataset.MirrorPath, dataset.ContentHash, dataset.UpdatedAt.Format(time.RFC3339), dataset.ID)
		if err != nil {
			return err
		}
	}

	if err := s.replaceLayers(ctx, dataset.ID, layers); err != nil {
		return err
	}
	dataset.LayerCount = len(layers)

	return s.replaceKeywords(ctx, dataset.ID, dataset.Keywords)
}

// FindDatasetBySlug retrieves a dataset by its slug.
func (s *CatalogService) FindDatasetBySlug(ctx context.Context, slug string) (*arcmirror.Dataset, error) {
	datasets, err := s.FindDatasets(ctx, arcmirror.DatasetFilter{Slug: &slug})
	if err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, arcmirror.Errorf(arcmirror.ENOTFOUND, "dataset %q not found", slug)
	}
	return datasets[0], nil
}

// FindDatasets retrieves datasets matching the filter, ordered by slug.
func (s *CatalogService) FindDatasets(ctx context.Context, filter arcmirror.DatasetFilter) ([]*arcmirror.Dataset, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, slug, title, summary, copyright, service_url, service_type, mirror_path, content_hash, created_at, updated_at,
		(SELECT COUNT(*) FROM layers WHERE layers.dataset_id = datasets.id) AS layer_count
		FROM datasets WHERE 1=1`)

	if filter.Slug != nil {
		query.WriteString(" AND slug = ?")
		args = append(args, *filter.Slug)
	}
	if filter.ServiceType != nil {
		query.WriteString(" AND service_type = ?")
		args = append(args, *filter.ServiceType)
	}
	if filter.Keyword != nil {
		query.WriteString(` AND id IN (
			SELECT dk.dataset_id FROM dataset_keywords dk
			JOIN keywords k ON k.id = dk.keyword_id
			WHERE k.word = ?)`)
		args = append(args, *filter.Keyword)
	}

	query.WriteString(" ORDER BY slug ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var datasets []*arcmirror.Dataset
	for rows.Next() {
		dataset, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Keyword lookups run after the dataset rows are drained because the
	// pool is limited to a single connection.
	for _, dataset := range datasets {
		if dataset.Keywords, err = s.findKeywords(ctx, dataset.ID); err != nil {
			return nil, err
		}
	}

	return datasets, nil
}

// FindLayersByDataset retrieves the layers of a dataset ordered by their
// remote layer ID.
func (s *CatalogService) FindLayersByDataset(ctx context.Context, datasetID string) ([]*arcmirror.Layer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dataset_id, layer_id, name, geometry_type, layer_type, min_scale, max_scale, default_visibility
		FROM layers
		WHERE dataset_id = ?
		ORDER BY layer_id ASC
	`, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var layers []*arcmirror.Layer
	for rows.Next() {
		var layer arcmirror.Layer
		if err := rows.Scan(&layer.ID, &layer.DatasetID, &layer.LayerID, &layer.Name, &layer.GeometryType,
			&layer.LayerType, &layer.MinScale, &layer.MaxScale, &layer.DefaultVisibility); err != nil {
			return nil, err
		}
		layers = append(layers, &layer)
	}

	return layers, rows.Err()
}

// Summary reports aggregate catalog counts.
func (s *CatalogService) Summary(ctx context.Context) (*arcmirror.CatalogSummary, error) {
	summary := &arcmirror.CatalogSummary{ByServiceType: map[string]int{}}

	var lastUpdated sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*), MAX(updated_at) FROM datasets").
		Scan(&summary.Datasets, &lastUpdated)
	if err != nil {
		return nil, err
	}
	if lastUpdated.Valid {
		if summary.LastUpdatedAt, err = parseRFC3339(lastUpdated.String, "updated_at"); err != nil {
			return nil, err
		}
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM layers").Scan(&summary.Layers); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM keywords").Scan(&summary.Keywords); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT service_type, COUNT(*) FROM datasets GROUP BY service_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var serviceType string
		var count int
		if err := rows.Scan(&serviceType, &count); err != nil {
			return nil, err
		}
		summary.ByServiceType[serviceType] = count
	}

	return summary, rows.Err()
}

// replaceLayers deletes the dataset's layers and inserts the given set.
func (s *CatalogService) replaceLayers(ctx context.Context, datasetID string, layers []*arcmirror.Layer) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM layers WHERE dataset_id = ?", datasetID); err != nil {
		return err
	}

	for _, layer := range layers {
		layer.ID = uuid.New().String()
		layer.DatasetID = datasetID

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO layers (id, dataset_id, layer_id, name, geometry_type, layer_type, min_scale, max_scale, default_visibility)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, layer.ID, layer.DatasetID, layer.LayerID, layer.Name, layer.GeometryType, layer.LayerType,
			layer.MinScale, layer.MaxScale, layer.DefaultVisibility)
		if err != nil {
			return err
		}
	}

	return nil
}

// replaceKeywords deletes the dataset's keyword links and relinks the
// given words, creating keyword rows as needed.
func (s *CatalogService) replaceKeywords(ctx context.Context, datasetID string, words []string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM dataset_keywords WHERE dataset_id = ?", datasetID); err != nil {
		return err
	}

	for _, word := range words {
		keywordID, err := s.ensureKeyword(ctx, word)
		if err != nil {
			return err
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO dataset_keywords (dataset_id, keyword_id) VALUES (?, ?)
		`, datasetID, keywordID)
		if err != nil {
			return err
		}
	}

	return nil
}

// ensureKeyword returns the id of the keyword row, creating it if needed.
func (s *CatalogService) ensureKeyword(ctx context.Context, word string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM keywords WHERE word = ?", word).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	id = uuid.New().String()
	if _, err := s.db.ExecContext(ctx, "INSERT INTO keywords (id, word) VALUES (?, ?)", id, word); err != nil {
		return "", err
	}
	return id, nil
}

// parseRFC3339 parses a stored timestamp column, naming the column on error.
func parseRFC3339(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses for positive values.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// scanDataset scans a dataset row in the column order used by FindDatasets.
func scanDataset(rows *sql.Rows) (*arcmirror.Dataset, error) {
	var dataset arcmirror.Dataset
	var createdAt, updatedAt string

	if err := rows.Scan(&dataset.ID, &dataset.Slug, &dataset.Title, &dataset.Summary, &dataset.Copyright,
		&dataset.ServiceURL, &dataset.ServiceType, &dataset.MirrorPath, &dataset.ContentHash,
		&createdAt, &updatedAt, &dataset.LayerCount); err != nil {
		return nil, err
	}

	var err error
	if dataset.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if dataset.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &dataset, nil
}
