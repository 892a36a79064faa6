package crawl_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arcmirror/arcmirror"
	"github.com/arcmirror/arcmirror/crawl"
	"github.com/arcmirror/arcmirror/fs"
	"github.com/arcmirror/arcmirror/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceRoot = "https://gis.example.com/arcx/rest/services"

// fakeCatalog serves canned documents keyed by URL and records every
// request in order.
type fakeCatalog struct {
	docs  map[string]string
	calls []string
}

func (f *fakeCatalog) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) ([]byte, error) {
			f.calls = append(f.calls, url)
			doc, ok := f.docs[url]
			if !ok {
				return nil, fmt.Errorf("HTTP 404 for %s", url)
			}
			return []byte(doc), nil
		},
	}
}

func twoLevelCatalog() map[string]string {
	return map[string]string{
		serviceRoot:                         `{"folders":["A"],"services":[]}`,
		serviceRoot + "/A":                  `{"folders":[],"services":[{"name":"A/Layer1","type":"MapServer"}]}`,
		serviceRoot + "/A/Layer1/MapServer": `{"currentVersion":10.91,"mapName":"Layer1","layers":[{"id":0,"name":"Sites","geometryType":"esriGeometryPoint","defaultVisibility":true}]}`,
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("mirrors folders and services depth first", func(t *testing.T) {
		t.Parallel()

		catalog := &fakeCatalog{docs: twoLevelCatalog()}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, 3, result.Downloaded)
		assert.Equal(t, 0, result.Cached)
		assert.Equal(t, 0, result.Failed)
		assert.Positive(t, result.Bytes)

		assert.True(t, store.Has("_index.json"))
		assert.True(t, store.Has("A/_index.json"))
		assert.True(t, store.Has("A/Layer1_MapServer.json"))

		assert.Equal(t, []string{
			serviceRoot,
			serviceRoot + "/A",
			serviceRoot + "/A/Layer1/MapServer",
		}, catalog.calls)
	})

	t.Run("written documents round-trip structurally", func(t *testing.T) {
		t.Parallel()

		catalog := &fakeCatalog{docs: twoLevelCatalog()}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		_, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		written, err := store.ReadDocument("A/Layer1_MapServer.json")
		require.NoError(t, err)

		var want, got any
		require.NoError(t, json.Unmarshal([]byte(catalog.docs[serviceRoot+"/A/Layer1/MapServer"]), &want))
		require.NoError(t, json.Unmarshal(written, &got))
		assert.Equal(t, want, got)
	})

	t.Run("second run issues no requests and leaves files untouched", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docs := twoLevelCatalog()

		first := &fakeCatalog{docs: docs}
		c := &crawl.Crawler{Fetcher: first.fetcher(), Store: fs.NewStore(dir)}
		_, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		before, err := os.ReadFile(filepath.Join(dir, "A", "Layer1_MapServer.json"))
		require.NoError(t, err)

		second := &fakeCatalog{docs: docs}
		c2 := &crawl.Crawler{Fetcher: second.fetcher(), Store: fs.NewStore(dir)}
		result, err := c2.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Empty(t, second.calls)
		assert.Equal(t, 0, result.Downloaded)
		assert.Equal(t, 3, result.Cached)
		assert.Equal(t, 0, result.Failed)

		after, err := os.ReadFile(filepath.Join(dir, "A", "Layer1_MapServer.json"))
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("force re-fetches and rewrites every node", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		first := &fakeCatalog{docs: twoLevelCatalog()}
		c := &crawl.Crawler{Fetcher: first.fetcher(), Store: fs.NewStore(dir)}
		_, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		// The remote changed between runs.
		changed := twoLevelCatalog()
		changed[serviceRoot+"/A/Layer1/MapServer"] = `{"currentVersion":11.2,"mapName":"Layer1"}`

		second := &fakeCatalog{docs: changed}
		c2 := &crawl.Crawler{Fetcher: second.fetcher(), Store: fs.NewStore(dir), Force: true}
		result, err := c2.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Len(t, second.calls, 3)
		assert.Equal(t, 3, result.Downloaded)
		assert.Equal(t, 0, result.Cached)

		written, err := os.ReadFile(filepath.Join(dir, "A", "Layer1_MapServer.json"))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(written, &got))
		assert.Equal(t, 11.2, got["currentVersion"])
	})

	t.Run("derives service file names from the final name segment", func(t *testing.T) {
		t.Parallel()

		catalog := &fakeCatalog{docs: map[string]string{
			serviceRoot:                              `{"folders":["Region1"],"services":[]}`,
			serviceRoot + "/Region1":                 `{"folders":[],"services":[{"name":"Region1/Fires","type":"MapServer"}]}`,
			serviceRoot + "/Region1/Fires/MapServer": `{"mapName":"Fires"}`,
		}}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Failed)
		assert.True(t, store.Has("Region1/Fires_MapServer.json"))
		assert.Contains(t, catalog.calls, serviceRoot+"/Region1/Fires/MapServer")
	})

	t.Run("failed folder index skips only that subtree", func(t *testing.T) {
		t.Parallel()

		// A is missing from the catalog, so its index fetch fails.
		catalog := &fakeCatalog{docs: map[string]string{
			serviceRoot:                    `{"folders":["A","B"],"services":[{"name":"Top","type":"MapServer"}]}`,
			serviceRoot + "/B":             `{"folders":[],"services":[]}`,
			serviceRoot + "/Top/MapServer": `{"mapName":"Top"}`,
		}}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 3, result.Downloaded)
		assert.False(t, store.Has("A/_index.json"))
		assert.True(t, store.Has("B/_index.json"))
		assert.True(t, store.Has("Top_MapServer.json"))
	})

	t.Run("failed service fetch does not stop later services", func(t *testing.T) {
		t.Parallel()

		catalog := &fakeCatalog{docs: map[string]string{
			serviceRoot:                     `{"folders":[],"services":[{"name":"Gone","type":"MapServer"},{"name":"Here","type":"MapServer"}]}`,
			serviceRoot + "/Here/MapServer": `{"mapName":"Here"}`,
		}}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.False(t, store.Has("Gone_MapServer.json"))
		assert.True(t, store.Has("Here_MapServer.json"))
	})

	t.Run("non-JSON body counts as failure and writes nothing", func(t *testing.T) {
		t.Parallel()

		catalog := &fakeCatalog{docs: map[string]string{
			serviceRoot: `<html>maintenance window</html>`,
		}}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 0, result.Downloaded)
		assert.False(t, store.Has("_index.json"))
	})

	t.Run("invalid service entries are counted failed", func(t *testing.T) {
		t.Parallel()

		catalog := &fakeCatalog{docs: map[string]string{
			serviceRoot:                   `{"folders":[],"services":[{"name":"NoType","type":""},{"name":"Weird","type":"Map/Server"},{"name":"OK","type":"MapServer"}]}`,
			serviceRoot + "/OK/MapServer": `{"mapName":"OK"}`,
		}}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Failed)
		assert.True(t, store.Has("OK_MapServer.json"))
	})

	t.Run("unsafe folder names are rejected", func(t *testing.T) {
		t.Parallel()

		catalog := &fakeCatalog{docs: map[string]string{
			serviceRoot:         `{"folders":["..","OK"],"services":[]}`,
			serviceRoot + "/OK": `{"folders":[],"services":[]}`,
		}}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.True(t, store.Has("OK/_index.json"))
	})

	t.Run("depth limit bounds recursion", func(t *testing.T) {
		t.Parallel()

		// Every node lists one subfolder, recursing forever without a bound.
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) ([]byte, error) {
				return []byte(`{"folders":["Deeper"],"services":[]}`), nil
			},
		}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: fetcher, Store: store, MaxDepth: 3}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, 4, result.Downloaded) // depths 0 through 3
		assert.Equal(t, 1, result.Failed)     // depth 4 refused
	})

	t.Run("corrupt cache file is refetched", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "_index.json"), []byte("not json"), 0644))

		catalog := &fakeCatalog{docs: map[string]string{
			serviceRoot: `{"folders":[],"services":[]}`,
		}}
		store := fs.NewStore(dir)
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		result, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{serviceRoot}, catalog.calls)
		assert.Equal(t, 1, result.Downloaded)

		data, err := store.ReadDocument("_index.json")
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
	})

	t.Run("consults the pacer once per request and never on cache hits", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		waits := 0
		pacer := &mock.Pacer{WaitFn: func(context.Context) error {
			waits++
			return nil
		}}

		first := &fakeCatalog{docs: twoLevelCatalog()}
		c := &crawl.Crawler{Fetcher: first.fetcher(), Store: fs.NewStore(dir), Pacer: pacer}
		_, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, waits)

		second := &fakeCatalog{docs: twoLevelCatalog()}
		c2 := &crawl.Crawler{Fetcher: second.fetcher(), Store: fs.NewStore(dir), Pacer: pacer}
		_, err = c2.Crawl(context.Background(), serviceRoot, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, waits, "cached run must not wait")
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		// A is missing from the catalog, so its index fetch fails.
		catalog := &fakeCatalog{docs: map[string]string{
			serviceRoot: `{"folders":["A"],"services":[]}`,
		}}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: catalog.fetcher(), Store: store}

		var events []crawl.ProgressEvent
		_, err := c.Crawl(context.Background(), serviceRoot, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})
		require.NoError(t, err)

		require.Len(t, events, 3)
		assert.Equal(t, crawl.ProgressDownloaded, events[0].Type)
		assert.Equal(t, "_index.json", events[0].Path)
		assert.Equal(t, crawl.ProgressFailed, events[1].Type)
		assert.Error(t, events[1].Error)
		assert.Equal(t, crawl.ProgressFinished, events[2].Type)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) ([]byte, error) {
				cancel() // cancel after the first request lands
				return []byte(`{"folders":["A"],"services":[]}`), nil
			},
		}
		store := fs.NewStore(t.TempDir())
		c := &crawl.Crawler{Fetcher: fetcher, Store: store}

		result, err := c.Crawl(ctx, serviceRoot, nil)
		require.Error(t, err)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, result.Downloaded)
	})

	t.Run("requires fetcher and store", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{}
		_, err := c.Crawl(context.Background(), serviceRoot, nil)
		require.Error(t, err)
		assert.Equal(t, arcmirror.EINVALID, arcmirror.ErrorCode(err))
	})

	t.Run("rejects empty service URL", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: &mock.Fetcher{}, Store: &mock.DocumentStore{}}
		_, err := c.Crawl(context.Background(), "", nil)
		require.Error(t, err)
		assert.Equal(t, arcmirror.EINVALID, arcmirror.ErrorCode(err))
	})
}
