package arcmirror

import (
	"net/url"
	"time"
)

// Configuration defaults. The service URL points at the USDA Forest
// Service enterprise data warehouse, the catalog this tool was built for.
const (
	DefaultServiceURL  = "https://apps.fs.usda.gov/arcx/rest/services"
	DefaultOutputDir   = "data/services"
	DefaultCatalogPath = "data/catalog.db"
	DefaultUserAgent   = "arcmirror/1.0"
	DefaultDelay       = 200 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
	DefaultMaxDepth    = 12
)

// Config carries the settings shared by the CLI commands. There is no
// ambient configuration; a Config value is passed explicitly to whatever
// needs one.
type Config struct {
	// ServiceURL is the root services endpoint of the ArcGIS REST catalog.
	ServiceURL string

	// OutputDir is the root of the local mirror tree.
	OutputDir string

	// CatalogPath is the location of the SQLite catalog database.
	CatalogPath string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds each individual request.
	Timeout time.Duration

	// Delay is the minimum spacing between consecutive requests.
	Delay time.Duration

	// MaxDepth bounds folder recursion as a guard against pathological
	// or cyclic folder listings.
	MaxDepth int
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		ServiceURL:  DefaultServiceURL,
		OutputDir:   DefaultOutputDir,
		CatalogPath: DefaultCatalogPath,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		Delay:       DefaultDelay,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Validate returns an error if the configuration is not usable.
func (c Config) Validate() error {
	if c.ServiceURL == "" {
		return Errorf(EINVALID, "service URL required")
	}
	u, err := url.Parse(c.ServiceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "service URL must be an http(s) URL: %s", c.ServiceURL)
	}
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.MaxDepth < 1 {
		return Errorf(EINVALID, "max depth must be at least 1")
	}
	return nil
}
