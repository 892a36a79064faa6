// Package catalog builds the dataset catalog from a mirror tree. Every
// cached service document becomes one dataset row with its layers and
// keywords; index documents are skipped.
package catalog

import (
	"context"
	"path"
	"strings"

	"github.com/arcmirror/arcmirror"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent document parsing during a build.
const DefaultWorkers = 4

// Builder scans a mirror tree and upserts one dataset per service
// document into the catalog.
type Builder struct {
	Store     arcmirror.DocumentStore
	Catalog   arcmirror.CatalogService
	Converter arcmirror.Converter

	// ServiceURL is the remote catalog root used to reconstruct each
	// dataset's service URL from its mirror path.
	ServiceURL string

	// Workers bounds concurrent document parsing. Defaults to
	// DefaultWorkers when zero.
	Workers int
}

// Result holds the outcome of a catalog build.
type Result struct {
	Indexed int
	Skipped int
	Failed  int
}

// record carries one parsed service document from the parsing workers to
// the collecting goroutine.
type record struct {
	path    string
	dataset *arcmirror.Dataset
	layers  []*arcmirror.Layer
	err     error
}

// Build walks the mirror tree, parses every service document, and upserts
// the results. Documents are parsed concurrently; upserts run on the
// collecting goroutine because SQLite allows a single writer. A document
// that cannot be read or parsed is counted and skipped.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if b.Store == nil || b.Catalog == nil {
		return nil, arcmirror.Errorf(arcmirror.EINVALID, "builder requires a store and a catalog")
	}

	var paths []string
	err := b.Store.Walk(func(p string) error {
		if path.Base(p) == arcmirror.IndexFileName {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make(chan record, len(paths))

	var g errgroup.Group
	g.SetLimit(b.workers())

	go func() {
		for _, p := range paths {
			g.Go(func() error {
				records <- b.parse(p)
				return nil
			})
		}
		_ = g.Wait()
		close(records)
	}()

	result := &Result{}
	for rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if rec.err != nil {
			result.Failed++
			continue
		}
		if b.unchanged(ctx, rec.dataset) {
			result.Skipped++
			continue
		}
		if err := b.Catalog.UpsertDataset(ctx, rec.dataset, rec.layers); err != nil {
			result.Failed++
			continue
		}
		result.Indexed++
	}

	return result, nil
}

// parse reads one service document and maps it to a dataset with layers.
func (b *Builder) parse(p string) record {
	data, err := b.Store.ReadDocument(p)
	if err != nil {
		return record{path: p, err: err}
	}

	info, err := arcmirror.ParseServiceInfo(data)
	if err != nil {
		return record{path: p, err: err}
	}

	name, serviceType := serviceParts(p)

	title := info.Title()
	if title == "" {
		title = path.Base(name)
	}

	dataset := &arcmirror.Dataset{
		Slug:        Slug(p),
		Title:       title,
		Summary:     b.summary(info),
		Copyright:   info.CopyrightText,
		ServiceURL:  b.serviceURL(name, serviceType),
		ServiceType: serviceType,
		MirrorPath:  p,
		ContentHash: ContentHash(data),
		Keywords:    info.Keywords(),
	}

	layers := make([]*arcmirror.Layer, 0, len(info.Layers))
	for _, l := range info.Layers {
		layers = append(layers, &arcmirror.Layer{
			LayerID:           l.ID,
			Name:              l.Name,
			GeometryType:      l.GeometryType,
			LayerType:         l.Type,
			MinScale:          l.MinScale,
			MaxScale:          l.MaxScale,
			DefaultVisibility: l.DefaultVisibility,
		})
	}

	return record{path: p, dataset: dataset, layers: layers}
}

// summary returns the document's description, converted to Markdown when
// it embeds HTML markup and a converter is configured.
func (b *Builder) summary(info *arcmirror.ServiceInfo) string {
	raw := info.Summary()
	if b.Converter == nil || !strings.Contains(raw, "<") {
		return raw
	}

	md, err := b.Converter.Convert(raw)
	if err != nil {
		return raw
	}
	return strings.TrimSpace(md)
}

// unchanged reports whether the catalog already holds this dataset with an
// identical content hash.
func (b *Builder) unchanged(ctx context.Context, dataset *arcmirror.Dataset) bool {
	existing, err := b.Catalog.FindDatasetBySlug(ctx, dataset.Slug)
	if err != nil {
		return false
	}
	return existing.ContentHash != "" && existing.ContentHash == dataset.ContentHash
}

func (b *Builder) serviceURL(name, serviceType string) string {
	root := strings.TrimRight(b.ServiceURL, "/")
	if root == "" || name == "" || serviceType == "" {
		return ""
	}
	return root + "/" + name + "/" + serviceType
}

func (b *Builder) workers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return DefaultWorkers
}
