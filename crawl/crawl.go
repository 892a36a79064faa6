// Package crawl provides the mirror crawl orchestration. It walks the
// folder hierarchy of an ArcGIS REST catalog depth first, caching every
// index and service document it encounters as a file on disk.
package crawl

import (
	"context"
	"path"
	"strings"

	"github.com/arcmirror/arcmirror"
)

// Crawler mirrors a service catalog into a document store. Nodes are
// visited strictly sequentially in the order the remote returns them;
// there is no concurrent fetching.
type Crawler struct {
	Fetcher arcmirror.Fetcher
	Store   arcmirror.DocumentStore
	Pacer   arcmirror.Pacer

	// Force re-fetches every document even when a cache file exists.
	Force bool

	// MaxDepth bounds folder recursion. Defaults to
	// arcmirror.DefaultMaxDepth when zero.
	MaxDepth int
}

// Result holds the outcome of a crawl operation.
type Result struct {
	Downloaded int
	Cached     int
	Failed     int
	Bytes      int
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type  ProgressType
	URL   string
	Path  string
	Error error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressDownloaded ProgressType = iota
	ProgressCached
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl mirrors the catalog rooted at serviceURL into the store. The
// progress callback, if provided, receives an event per node.
//
// A failure at any single node is counted, reported through progress, and
// isolated to that node's subtree; the rest of the crawl continues. Crawl
// itself returns an error only for invalid arguments or when the context
// is canceled.
func (c *Crawler) Crawl(ctx context.Context, serviceURL string, progress ProgressFunc) (*Result, error) {
	if c.Fetcher == nil || c.Store == nil {
		return nil, arcmirror.Errorf(arcmirror.EINVALID, "crawler requires a fetcher and a store")
	}

	root := strings.TrimRight(serviceURL, "/")
	if root == "" {
		return nil, arcmirror.Errorf(arcmirror.EINVALID, "service URL required")
	}

	var result Result
	if err := c.crawlNode(ctx, root, root, "", 0, progress, &result); err != nil {
		return &result, err
	}

	notify(progress, ProgressEvent{Type: ProgressFinished})
	return &result, nil
}

// crawlNode processes one catalog node: its index document, then its
// folders depth first, then its services. Only context cancellation
// propagates as an error.
func (c *Crawler) crawlNode(ctx context.Context, rootURL, nodeURL, dir string, depth int, progress ProgressFunc, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth > c.maxDepth() {
		result.Failed++
		notify(progress, ProgressEvent{
			Type:  ProgressFailed,
			URL:   nodeURL,
			Path:  dir,
			Error: arcmirror.Errorf(arcmirror.EINTERNAL, "folder depth %d exceeds limit %d", depth, c.maxDepth()),
		})
		return nil
	}

	if err := c.Store.EnsureDir(dir); err != nil {
		result.Failed++
		notify(progress, ProgressEvent{Type: ProgressFailed, URL: nodeURL, Path: dir, Error: err})
		return nil
	}

	indexPath := path.Join(dir, arcmirror.IndexFileName)
	index, cached, size, err := c.loadIndex(ctx, nodeURL, indexPath)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result.Failed++
		notify(progress, ProgressEvent{Type: ProgressFailed, URL: nodeURL, Path: indexPath, Error: err})
		return nil
	}
	c.recordHit(progress, result, cached, size, nodeURL, indexPath)

	for _, folder := range index.Folders {
		if !safeRelPath(folder) {
			result.Failed++
			notify(progress, ProgressEvent{
				Type:  ProgressFailed,
				URL:   nodeURL,
				Path:  dir,
				Error: arcmirror.Errorf(arcmirror.EINVALID, "unsafe folder name %q", folder),
			})
			continue
		}
		if err := c.crawlNode(ctx, rootURL, nodeURL+"/"+folder, path.Join(dir, folder), depth+1, progress, result); err != nil {
			return err
		}
	}

	for _, svc := range index.Services {
		if err := ctx.Err(); err != nil {
			return err
		}

		svcURL := rootURL + "/" + svc.Name + "/" + svc.Type
		if err := svc.Validate(); err != nil {
			result.Failed++
			notify(progress, ProgressEvent{Type: ProgressFailed, URL: svcURL, Path: dir, Error: err})
			continue
		}
		fileName := svc.FileName()
		if !safeSegment(fileName) {
			result.Failed++
			notify(progress, ProgressEvent{
				Type:  ProgressFailed,
				URL:   svcURL,
				Path:  dir,
				Error: arcmirror.Errorf(arcmirror.EINVALID, "unsafe service file name %q", fileName),
			})
			continue
		}

		svcPath := path.Join(dir, fileName)
		cached, size, err := c.ensureService(ctx, svcURL, svcPath)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			result.Failed++
			notify(progress, ProgressEvent{Type: ProgressFailed, URL: svcURL, Path: svcPath, Error: err})
			continue
		}
		c.recordHit(progress, result, cached, size, svcURL, svcPath)
	}

	return nil
}

// loadIndex returns the node's parsed index, reading the cache file when
// present and fetching otherwise. A cache file that cannot be read or
// parsed is treated as a miss and refetched.
func (c *Crawler) loadIndex(ctx context.Context, nodeURL, indexPath string) (*arcmirror.Index, bool, int, error) {
	if !c.Force && c.Store.Has(indexPath) {
		if data, err := c.Store.ReadDocument(indexPath); err == nil {
			if index, err := arcmirror.ParseIndex(data); err == nil {
				return index, true, 0, nil
			}
		}
	}

	body, err := c.fetch(ctx, nodeURL)
	if err != nil {
		return nil, false, 0, err
	}

	index, err := arcmirror.ParseIndex(body)
	if err != nil {
		return nil, false, 0, err
	}

	if err := c.Store.WriteDocument(indexPath, body); err != nil {
		return nil, false, 0, err
	}

	return index, false, len(body), nil
}

// ensureService makes sure the service document is cached. Nothing is
// read or fetched when a cache file already exists and Force is off.
func (c *Crawler) ensureService(ctx context.Context, svcURL, svcPath string) (bool, int, error) {
	if !c.Force && c.Store.Has(svcPath) {
		return true, 0, nil
	}

	body, err := c.fetch(ctx, svcURL)
	if err != nil {
		return false, 0, err
	}

	if err := c.Store.WriteDocument(svcPath, body); err != nil {
		return false, 0, err
	}

	return false, len(body), nil
}

// fetch paces and performs one network request. Cache hits never reach
// this method, so a fully cached run issues no requests and never waits.
func (c *Crawler) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.Pacer != nil {
		if err := c.Pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return c.Fetcher.Fetch(ctx, url)
}

func (c *Crawler) recordHit(progress ProgressFunc, result *Result, cached bool, size int, url, p string) {
	if cached {
		result.Cached++
		notify(progress, ProgressEvent{Type: ProgressCached, URL: url, Path: p})
		return
	}
	result.Downloaded++
	result.Bytes += size
	notify(progress, ProgressEvent{Type: ProgressDownloaded, URL: url, Path: p})
}

func (c *Crawler) maxDepth() int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}
	return arcmirror.DefaultMaxDepth
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

// safeSegment reports whether name can be used as a single path segment
// under the mirror root.
func safeSegment(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// safeRelPath reports whether name stays inside the mirror root when used
// as a relative path. Folder names may span multiple segments.
func safeRelPath(name string) bool {
	if strings.Contains(name, `\`) {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
