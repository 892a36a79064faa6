package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arcmirror/arcmirror"
	"github.com/arcmirror/arcmirror/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkUpsertDataset simulates a catalog build: upserting many
// datasets with a handful of layers each into a file-backed database.
func BenchmarkUpsertDataset(b *testing.B) {
	tmpDir := b.TempDir()
	dbPath := filepath.Join(tmpDir, "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	defer func() {
		db.Close()
		// Clean up WAL files if they exist
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	ctx := context.Background()
	svc := sqlite.NewCatalogService(db)

	// Reset timer to exclude setup time
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		dataset := &arcmirror.Dataset{
			Slug:        fmt.Sprintf("region%d-fires-mapserver", i),
			Title:       fmt.Sprintf("Fires %d", i),
			Summary:     "Active fire perimeters.",
			ServiceType: "MapServer",
			MirrorPath:  fmt.Sprintf("Region%d/Fires_MapServer.json", i),
			Keywords:    []string{"fire", "perimeter", fmt.Sprintf("region%d", i)},
		}
		layers := []*arcmirror.Layer{
			{LayerID: 0, Name: "Perimeters", GeometryType: "esriGeometryPolygon", DefaultVisibility: true},
			{LayerID: 1, Name: "Archive", GeometryType: "esriGeometryPolygon"},
		}
		if err := svc.UpsertDataset(ctx, dataset, layers); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRebuildDataset measures the upsert path when every slug
// already exists, matching a catalog refresh over an unchanged mirror.
func BenchmarkRebuildDataset(b *testing.B) {
	tmpDir := b.TempDir()
	dbPath := filepath.Join(tmpDir, "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	ctx := context.Background()
	svc := sqlite.NewCatalogService(db)

	seed := func() *arcmirror.Dataset {
		return &arcmirror.Dataset{
			Slug:        "region1-fires-mapserver",
			Title:       "Fires",
			ServiceType: "MapServer",
			MirrorPath:  "Region1/Fires_MapServer.json",
			Keywords:    []string{"fire", "perimeter"},
		}
	}
	require.NoError(b, svc.UpsertDataset(ctx, seed(), nil))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := svc.UpsertDataset(ctx, seed(), nil); err != nil {
			b.Fatal(err)
		}
	}
}
