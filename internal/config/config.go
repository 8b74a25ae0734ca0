package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type CommonHTTP struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type USGSConfig struct {
	BaseURL string     `yaml:"base_url"` // e.g. https://earthquake.usgs.gov
	HTTP    CommonHTTP `yaml:"http"`
	MinMag  float64    `yaml:"min_magnitude"` // query floor, 0 = use default
}

type EMSCConfig struct {
	BaseURL string     `yaml:"base_url"` // e.g. https://www.seismicportal.eu
	HTTP    CommonHTTP `yaml:"http"`
	MinMag  float64    `yaml:"min_magnitude"`
	Limit   int        `yaml:"limit"` // max rows per query, default 2000
}

type SourceConfig struct {
	Type string     `yaml:"type"` // "usgs" | "emsc"
	USGS USGSConfig `yaml:"usgs"`
	EMSC EMSCConfig `yaml:"emsc"`
}

type OutputConfig struct {
	Path string `yaml:"path"` // destination JSON document
}

type MetricsConfig struct {
	Enable       bool   `yaml:"enable"`
	TextfilePath string `yaml:"textfile_path"` // Prometheus textfile-collector snapshot, optional
}

type Config struct {
	// Sources are fetched in list order; on a fingerprint collision the
	// earlier source wins, so the first entry is authoritative.
	Sources []SourceConfig `yaml:"sources"`
	Output  OutputConfig   `yaml:"output"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// DefaultMinMag is the magnitude floor both provider queries apply. Earlier
// revisions of the pipeline used 0.1; the published feeds settled on 1.0.
const DefaultMinMag = 1.0

// Default returns the zero-configuration contract: USGS first (authoritative
// on de-dup collisions), then EMSC, writing stats_cache.json in the working
// directory.
func Default() Config {
	return Config{
		Sources: []SourceConfig{
			{Type: "usgs"},
			{Type: "emsc"},
		},
		Output: OutputConfig{Path: "stats_cache.json"},
	}
}

// Load reads a YAML config. An empty path yields Default(); a present file
// must parse and validate.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	if len(c.Sources) == 0 {
		c.Sources = Default().Sources
	}
	if c.Output.Path == "" {
		c.Output.Path = Default().Output.Path
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	for i, s := range c.Sources {
		switch s.Type {
		case "usgs", "emsc":
		case "":
			return fmt.Errorf("sources[%d]: missing type", i)
		default:
			return fmt.Errorf("sources[%d]: unknown source type %q", i, s.Type)
		}
	}
	return nil
}
