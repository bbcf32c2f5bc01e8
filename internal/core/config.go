// Package core implements the download engine behind spp.
//
// This package turns an identifier into a saved PDF: it reads the
// configuration, asks the configured sources for the document in order,
// writes the first payload it gets, and optionally records it in a ledger.
//
// Key components:
//   - config.go: Configuration file structure, defaults and env overrides
//   - engine.go: Fetch and Verify implementation
//   - ledger.go: Download ledger structure and I/O
//   - hash.go: Hashing and file utilities
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	httph "github.com/yanNotDev/search-past-papers/internal/handlers/http"
	"github.com/yanNotDev/search-past-papers/internal/registry"
)

// DefaultConfigPath is read when --config is not given. It may be absent.
const DefaultConfigPath = ".spp.yaml"

// Environment variables that override the configuration file.
const (
	EnvOutputDir   = "SPP_OUTPUT_DIR"
	EnvLedger      = "SPP_LEDGER"
	EnvBaseURL     = "SPP_BASE_URL"
	EnvSentinelURL = "SPP_SENTINEL_URL"
	EnvHTTPTimeout = "SPP_HTTP_TIMEOUT"
)

// Config represents the structure of the .spp.yaml configuration file.
//
// Every field is optional: an empty file (or no file) gives the stock
// behaviour of downloading from papacambridge into the working directory.
//
// Go learning note: Struct tags (like `yaml:"version"`) tell the YAML library
// how to map between YAML field names and Go struct fields.
type Config struct {
	Version  int               `yaml:"version"`  // Config file format version (currently 1)
	Output   Output            `yaml:"output"`   // Where papers are written
	Ledger   string            `yaml:"ledger"`   // Optional download ledger path; empty disables it
	Subjects string            `yaml:"subjects"` // Optional subject catalog replacing the built-in one
	HTTP     HTTP              `yaml:"http"`     // Settings for the http source
	Sources  []registry.Source `yaml:"sources"`  // Sources tried in order
}

// Output controls where downloaded papers go.
type Output struct {
	Dir string `yaml:"dir"` // Directory for <identifier>.pdf files (default ".")
}

// HTTP holds transport settings for the http source.
type HTTP struct {
	Timeout time.Duration `yaml:"timeout"` // Whole-request timeout, e.g. "60s"
}

// DefaultSource is the papacambridge archive.
func DefaultSource() registry.Source {
	return registry.Source{
		Type:     "http",
		URL:      httph.DefaultURL,
		Sentinel: httph.DefaultSentinel,
	}
}

// LoadConfig reads the configuration file at path.
//
// When required is false a missing file is not an error and the defaults
// are returned; this is how the implicit .spp.yaml is treated. Environment
// overrides are applied after the file, then the result is validated.
func LoadConfig(path string, required bool) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// Stock behaviour.
	default:
		return nil, err
	}

	c.applyDefaults()
	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyDefaults fills in every setting the file left empty.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = httph.DefaultTimeout
	}
	if len(c.Sources) == 0 {
		c.Sources = []registry.Source{DefaultSource()}
	}
	for i := range c.Sources {
		if c.Sources[i].Type != "http" {
			continue
		}
		c.Sources[i].URL = firstNonEmpty(c.Sources[i].URL, httph.DefaultURL)
		c.Sources[i].Sentinel = firstNonEmpty(c.Sources[i].Sentinel, httph.DefaultSentinel)
	}
}

// applyEnvOverrides lets SPP_* variables (or a .env file loaded by the
// caller) replace file settings. URL overrides apply to every http source.
func (c *Config) applyEnvOverrides() error {
	c.Output.Dir = firstNonEmpty(os.Getenv(EnvOutputDir), c.Output.Dir)
	c.Ledger = firstNonEmpty(os.Getenv(EnvLedger), c.Ledger)

	for i := range c.Sources {
		if c.Sources[i].Type != "http" {
			continue
		}
		c.Sources[i].URL = firstNonEmpty(os.Getenv(EnvBaseURL), c.Sources[i].URL)
		c.Sources[i].Sentinel = firstNonEmpty(os.Getenv(EnvSentinelURL), c.Sources[i].Sentinel)
	}

	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		c.HTTP.Timeout = d
	}
	return nil
}

// validate checks the settings that would otherwise fail late, in the
// middle of a download.
func (c *Config) validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	for i, src := range c.Sources {
		if err := validateSource(src); err != nil {
			return fmt.Errorf("source %d (%s): %w", i, src.Type, err)
		}
	}
	return nil
}

func validateSource(src registry.Source) error {
	switch src.Type {
	case "":
		return errors.New("source must have a 'type'")
	case "http":
		if !strings.Contains(src.URL, "{{id}}") {
			return fmt.Errorf("url %q has no {{id}} placeholder", src.URL)
		}
	case "file":
		if src.Path == "" {
			return errors.New("file source needs a 'path'")
		}
	case "git":
		if src.URL == "" || src.Ref == "" {
			return errors.New("git source needs 'url' and 'ref'")
		}
	case "command":
		if strings.TrimSpace(src.FetchCmd) == "" {
			return errors.New("command source needs a 'fetch_cmd'")
		}
	}
	return nil
}
