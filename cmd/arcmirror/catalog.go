package main

import (
	"fmt"

	"github.com/arcmirror/arcmirror"
	"github.com/arcmirror/arcmirror/catalog"
)

// Run executes the catalog command.
func (c *CatalogCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	builder := &catalog.Builder{
		Store:      deps.Store,
		Catalog:    deps.Catalog,
		Converter:  deps.Converter,
		ServiceURL: cfg.ServiceURL,
		Workers:    c.Concurrency,
	}

	result, err := builder.Build(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", arcmirror.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d datasets (%d unchanged, %d failed)\n",
		result.Indexed, result.Skipped, result.Failed)

	summary, err := deps.Catalog.Summary(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", arcmirror.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Catalog holds %d datasets with %d layers\n",
		summary.Datasets, summary.Layers)

	return nil
}
