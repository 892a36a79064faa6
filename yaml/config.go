// Package yaml loads arcmirror configuration from YAML files.
//
// A configuration file is optional. Every key corresponds to a field of
// [arcmirror.Config]; absent keys keep their defaults, so a file only
// needs to name the settings it changes.
package yaml

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/arcmirror/arcmirror"
)

// DefaultConfigFile is the configuration file name searched for in the
// working directory.
const DefaultConfigFile = "arcmirror.yaml"

// appName is the directory name used under the XDG config home.
const appName = "arcmirror"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers decide how to react: a missing explicit path is an
// error, a missing default path is not.
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the YAML document. Durations are strings so files can
// use the usual "200ms" and "30s" notation.
type File struct {
	ServiceURL  string `yaml:"service_url"`
	OutputDir   string `yaml:"output_dir"`
	CatalogPath string `yaml:"catalog_path"`
	UserAgent   string `yaml:"user_agent"`
	Timeout     string `yaml:"timeout"`
	Delay       string `yaml:"delay"`
	MaxDepth    int    `yaml:"max_depth"`
}

// Load reads the file at path and returns its settings merged over the
// defaults.
func Load(path string) (arcmirror.Config, error) {
	f, err := LoadConfigFile(path)
	if err != nil {
		return arcmirror.Config{}, err
	}
	return f.Config()
}

// LoadConfigFile parses the YAML file at path. It returns
// ErrConfigNotFound when the file does not exist.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, arcmirror.Errorf(arcmirror.EINVALID, "parse config %s: %v", path, err)
	}
	return &f, nil
}

// FindConfigFile resolves the configuration file location. An explicit
// path wins; otherwise the working directory is checked for
// arcmirror.yaml, then the XDG config directory. Returns the empty
// string when no file is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	p := filepath.Join(xdg.ConfigHome, appName, "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Config merges the file's settings over the defaults. Unset keys keep
// their default values; an explicit "0s" delay disables request pacing.
func (f *File) Config() (arcmirror.Config, error) {
	cfg := arcmirror.DefaultConfig()
	if f.ServiceURL != "" {
		cfg.ServiceURL = f.ServiceURL
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.CatalogPath != "" {
		cfg.CatalogPath = f.CatalogPath
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return arcmirror.Config{}, arcmirror.Errorf(arcmirror.EINVALID, "invalid timeout %q: %v", f.Timeout, err)
		}
		cfg.Timeout = d
	}
	if f.Delay != "" {
		d, err := time.ParseDuration(f.Delay)
		if err != nil {
			return arcmirror.Config{}, arcmirror.Errorf(arcmirror.EINVALID, "invalid delay %q: %v", f.Delay, err)
		}
		cfg.Delay = d
	}
	if f.MaxDepth != 0 {
		cfg.MaxDepth = f.MaxDepth
	}
	return cfg, nil
}
