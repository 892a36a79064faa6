package main

import (
	"context"
	"io"
	"time"

	"github.com/arcmirror/arcmirror"
	"github.com/arcmirror/arcmirror/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Config carries the resolved settings: defaults, then the config
	// file, then command flags.
	Config arcmirror.Config

	DB        *sqlite.DB
	Fetcher   arcmirror.Fetcher
	Store     arcmirror.DocumentStore
	Pacer     arcmirror.Pacer
	Sitemaps  arcmirror.SitemapService
	Catalog   arcmirror.CatalogService
	Converter arcmirror.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `help:"Path to a YAML configuration file" type:"path"`
	Verbose bool   `short:"v" help:"Write debug logs to stderr"`

	Harvest HarvestCmd `cmd:"" help:"Mirror the service catalog to local JSON files"`
	List    ListCmd    `cmd:"" help:"List every service advertised by the catalog sitemap"`
	Catalog CatalogCmd `cmd:"" help:"Index the local mirror into the SQLite catalog"`
	Report  ReportCmd  `cmd:"" help:"Render a markdown inventory of the catalog"`
}

// HarvestCmd is the "harvest" subcommand.
type HarvestCmd struct {
	URL      string        `help:"Service catalog root URL"`
	Output   string        `short:"o" help:"Mirror output directory"`
	Force    bool          `short:"f" help:"Re-fetch documents even when cached"`
	Delay    time.Duration `help:"Minimum spacing between requests"`
	Timeout  time.Duration `help:"Per-request timeout"`
	MaxDepth int           `help:"Maximum folder recursion depth"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	URL string `help:"Service catalog root URL"`
}

// CatalogCmd is the "catalog" subcommand.
type CatalogCmd struct {
	Output      string `short:"o" help:"Mirror directory to index"`
	DB          string `help:"SQLite catalog database path"`
	Concurrency int    `short:"c" help:"Concurrent document parsers"`
}

// ReportCmd is the "report" subcommand.
type ReportCmd struct {
	DB string `help:"SQLite catalog database path"`
}
