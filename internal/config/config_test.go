package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Sources) != 2 || c.Sources[0].Type != "usgs" || c.Sources[1].Type != "emsc" {
		t.Errorf("default sources: got %+v", c.Sources)
	}
	if c.Output.Path != "stats_cache.json" {
		t.Errorf("default output path: got %q", c.Output.Path)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
sources:
  - type: usgs
    usgs:
      base_url: https://earthquake.usgs.gov
      min_magnitude: 0.1
      http:
        timeout: 20s
        user_agent: quake-stats/test
  - type: emsc
    emsc:
      base_url: https://www.seismicportal.eu
      limit: 500
output:
  path: /tmp/out.json
metrics:
  enable: true
  textfile_path: /tmp/quake.prom
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Sources[0].USGS.MinMag != 0.1 {
		t.Errorf("usgs min mag: got %v", c.Sources[0].USGS.MinMag)
	}
	if c.Sources[0].USGS.HTTP.Timeout != 20*time.Second {
		t.Errorf("usgs timeout: got %v", c.Sources[0].USGS.HTTP.Timeout)
	}
	if c.Sources[1].EMSC.Limit != 500 {
		t.Errorf("emsc limit: got %d", c.Sources[1].EMSC.Limit)
	}
	if c.Output.Path != "/tmp/out.json" {
		t.Errorf("output path: got %q", c.Output.Path)
	}
	if !c.Metrics.Enable || c.Metrics.TextfilePath != "/tmp/quake.prom" {
		t.Errorf("metrics: got %+v", c.Metrics)
	}
}

func TestLoad_UnknownSourceType(t *testing.T) {
	path := writeConfig(t, `
sources:
  - type: gdacs
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown source type")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_PartialConfigFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
output:
  path: custom.json
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Sources) != 2 {
		t.Errorf("sources defaulted: got %d, want 2", len(c.Sources))
	}
	if c.Output.Path != "custom.json" {
		t.Errorf("output path: got %q", c.Output.Path)
	}
}
