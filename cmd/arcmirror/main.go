package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/arcmirror/arcmirror"
	"github.com/arcmirror/arcmirror/crawl"
	"github.com/arcmirror/arcmirror/fs"
	"github.com/arcmirror/arcmirror/htmltomarkdown"
	archttp "github.com/arcmirror/arcmirror/http"
	arcslog "github.com/arcmirror/arcmirror/slog"
	"github.com/arcmirror/arcmirror/sqlite"
	"github.com/arcmirror/arcmirror/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the catalog commands.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("arcmirror"),
		kong.Description("Mirror and catalog ArcGIS REST service metadata"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'arcmirror --help' to see available commands")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := resolveConfig(cli, cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: cfg,
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Wire command-specific dependencies based on command
	if cmd == "harvest" {
		fetcher := archttp.NewFetcher(
			archttp.WithTimeout(cfg.Timeout),
			archttp.WithUserAgent(cfg.UserAgent),
		)
		store := fs.NewStore(cfg.OutputDir)
		deps.Fetcher = fetcher
		deps.Store = store
		deps.Pacer = crawl.NewPacer(cfg.Delay)
		if cli.Verbose {
			deps.Fetcher = arcslog.NewLoggingFetcher(fetcher, logger)
			deps.Store = arcslog.NewLoggingDocumentStore(store, logger)
		}
	}

	if cmd == "list" {
		sitemaps := archttp.NewSitemapService(nil, archttp.WithSitemapUserAgent(cfg.UserAgent))
		deps.Sitemaps = sitemaps
		if cli.Verbose {
			deps.Sitemaps = arcslog.NewLoggingSitemapService(sitemaps, logger)
		}
	}

	if cmd == "catalog" || cmd == "report" {
		m.DB = sqlite.NewDB(cfg.CatalogPath)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open catalog database at %q: %w", cfg.CatalogPath, err)
		}
		defer m.Close()
		deps.DB = m.DB
		deps.Catalog = sqlite.NewCatalogService(m.DB)
	}

	if cmd == "catalog" {
		deps.Store = fs.NewStore(cfg.OutputDir)
		deps.Converter = htmltomarkdown.NewConverter()
	}

	return kongCtx.Run(deps)
}

// resolveConfig layers the configuration sources: defaults first, then
// the config file, then command flags.
func resolveConfig(cli *CLI, cmd string) (arcmirror.Config, error) {
	cfg := arcmirror.DefaultConfig()

	path := yaml.FindConfigFile(cli.Config)
	switch {
	case path != "":
		loaded, err := yaml.Load(path)
		if err != nil {
			return arcmirror.Config{}, err
		}
		cfg = loaded
	case cli.Config != "":
		return arcmirror.Config{}, arcmirror.Errorf(arcmirror.ENOTFOUND, "config file %q not found", cli.Config)
	}

	switch cmd {
	case "harvest":
		c := cli.Harvest
		if c.URL != "" {
			cfg.ServiceURL = c.URL
		}
		if c.Output != "" {
			cfg.OutputDir = c.Output
		}
		if c.Delay > 0 {
			cfg.Delay = c.Delay
		}
		if c.Timeout > 0 {
			cfg.Timeout = c.Timeout
		}
		if c.MaxDepth > 0 {
			cfg.MaxDepth = c.MaxDepth
		}
	case "list":
		if cli.List.URL != "" {
			cfg.ServiceURL = cli.List.URL
		}
	case "catalog":
		if cli.Catalog.Output != "" {
			cfg.OutputDir = cli.Catalog.Output
		}
		if cli.Catalog.DB != "" {
			cfg.CatalogPath = cli.Catalog.DB
		}
	case "report":
		if cli.Report.DB != "" {
			cfg.CatalogPath = cli.Report.DB
		}
	}

	return cfg, nil
}
