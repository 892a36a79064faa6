package main

import (
	"fmt"
	"time"

	"github.com/arcmirror/arcmirror"
	"github.com/arcmirror/arcmirror/markdown"
)

// Run executes the report command.
func (c *ReportCmd) Run(deps *Dependencies) error {
	summary, err := deps.Catalog.Summary(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", arcmirror.ErrorMessage(err))
		return err
	}

	datasets, err := deps.Catalog.FindDatasets(deps.Ctx, arcmirror.DatasetFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", arcmirror.ErrorMessage(err))
		return err
	}

	report := &arcmirror.Report{
		GeneratedAt: time.Now().UTC(),
		ServiceURL:  deps.Config.ServiceURL,
		Summary:     summary,
		Datasets:    datasets,
	}

	if err := markdown.NewReportWriter(deps.Stdout).WriteReport(report); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", arcmirror.ErrorMessage(err))
		return err
	}

	return nil
}
