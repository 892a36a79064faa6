package main

import (
	"fmt"

	"github.com/arcmirror/arcmirror"
	"github.com/arcmirror/arcmirror/crawl"
)

// Run executes the harvest command.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	crawler := &crawl.Crawler{
		Fetcher:  deps.Fetcher,
		Store:    deps.Store,
		Pacer:    deps.Pacer,
		Force:    c.Force,
		MaxDepth: cfg.MaxDepth,
	}

	fmt.Fprintf(deps.Stdout, "Mirroring %s into %s\n", cfg.ServiceURL, cfg.OutputDir)

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressDownloaded:
			fmt.Fprintf(deps.Stdout, "  get  %s\n", event.Path)
		case crawl.ProgressCached:
			fmt.Fprintf(deps.Stdout, "  keep %s\n", event.Path)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 60), event.Error)
		}
	}

	result, err := crawler.Crawl(deps.Ctx, cfg.ServiceURL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", arcmirror.ErrorMessage(err))
		return err
	}

	// Failed subtrees are reported above but do not fail the harvest;
	// the mirror stays usable and a re-run picks up what was missed.
	fmt.Fprintf(deps.Stdout, "Download complete: %d downloaded, %d cached, %d failed (%s)\n",
		result.Downloaded, result.Cached, result.Failed, crawl.FormatBytes(result.Bytes))

	return nil
}
