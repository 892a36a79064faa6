package main

import (
	"fmt"

	"github.com/arcmirror/arcmirror"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	urls, err := deps.Sitemaps.DiscoverServices(deps.Ctx, deps.Config.ServiceURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", arcmirror.ErrorMessage(err))
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No services found.")
		return nil
	}

	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}

	return nil
}
