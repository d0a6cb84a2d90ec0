package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/miketth/keylive/pkg/input"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg := Default()
	err := Parse([]byte(`
diagram = "/tmp/layout.svg"
backend = "device"
stop_timeout = "500ms"
smooth = false
`), &cfg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Diagram != "/tmp/layout.svg" || cfg.Backend != input.BackendDevice {
		t.Errorf("unexpected config %+v", cfg)
	}
	if time.Duration(cfg.StopTimeout) != 500*time.Millisecond {
		t.Errorf("stop_timeout = %v", time.Duration(cfg.StopTimeout))
	}
	if cfg.Smooth {
		t.Error("smooth should be off")
	}
	if time.Duration(cfg.FocusRelease) != input.DefaultFocusRelease || cfg.Stats != StatsSQLite {
		t.Error("fields missing from the file must keep their defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestParseRejects(t *testing.T) {
	for name, src := range map[string]string{
		"unknown key":  `colour = "red"`,
		"bad duration": `stop_timeout = "soon"`,
	} {
		cfg := Default()
		if err := Parse([]byte(src), &cfg); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestValidate(t *testing.T) {
	base := Default()
	base.Diagram = "layout.svg"

	cases := map[string]func(*Config){
		"backend":       func(c *Config) { c.Backend = "x11" },
		"stats":         func(c *Config) { c.Stats = "redis" },
		"stop timeout":  func(c *Config) { c.StopTimeout = 0 },
		"focus release": func(c *Config) { c.FocusRelease = -1 },
		"diagram":       func(c *Config) { c.Diagram = "" },
	}

	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`stats = "json"`+"\n"+`stats_path = "/tmp/p.json"`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if used != path || cfg.Stats != StatsJSON {
		t.Errorf("unexpected result %q %+v", used, cfg)
	}

	if err := cfg.ResolveStatsPath(); err != nil || cfg.StatsPath != "/tmp/p.json" {
		t.Errorf("explicit stats path must be kept: %q %v", cfg.StatsPath, err)
	}

	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("an explicit missing file is an error")
	}
}
