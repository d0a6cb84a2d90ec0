package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"codeberg.org/miketth/keylive/pkg/input"
	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const (
	appName  = "keylive"
	fileName = appName + "/config.toml"

	StatsSQLite = "sqlite"
	StatsJSON   = "json"
	StatsMemory = "memory"
	StatsNone   = "none"
)

var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as "150ms" or "2s" in the file.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type Config struct {
	Diagram      string   `toml:"diagram"`
	Backend      string   `toml:"backend"`
	Device       string   `toml:"device"`
	StopTimeout  Duration `toml:"stop_timeout"`
	FocusRelease Duration `toml:"focus_release"`
	Smooth       bool     `toml:"smooth"`
	Watch        bool     `toml:"watch"`
	Stats        string   `toml:"stats"`
	StatsPath    string   `toml:"stats_path"`
	Snapshot     string   `toml:"snapshot"`
}

func Default() Config {
	return Config{
		Backend:      input.BackendAuto,
		StopTimeout:  Duration(input.DefaultStopTimeout),
		FocusRelease: Duration(input.DefaultFocusRelease),
		Smooth:       true,
		Watch:        true,
		Stats:        StatsSQLite,
	}
}

// Load reads path, or the first keylive/config.toml found in the XDG config
// directories when path is empty. A missing file yields the defaults.
func Load(path string) (Config, string, error) {
	cfg := Default()

	if path == "" {
		found, err := xdg.SearchConfigFile(fileName)
		if err != nil {
			return cfg, "", nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, path, fmt.Errorf("read config: %w", err)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, path, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, path, nil
}

// Parse decodes TOML over cfg, keeping the fields the data leaves out.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return err
	}

	return nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case input.BackendAuto, input.BackendHook, input.BackendDevice, input.BackendFocus:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}

	switch c.Stats {
	case StatsSQLite, StatsJSON, StatsMemory, StatsNone:
	default:
		return fmt.Errorf("%w: unknown stats store %q", ErrInvalid, c.Stats)
	}

	if c.StopTimeout <= 0 {
		return fmt.Errorf("%w: stop_timeout must be positive", ErrInvalid)
	}
	if c.FocusRelease <= 0 {
		return fmt.Errorf("%w: focus_release must be positive", ErrInvalid)
	}
	if c.Diagram == "" {
		return fmt.Errorf("%w: no diagram given", ErrInvalid)
	}

	return nil
}

// ResolveStatsPath fills StatsPath with the default data file for the
// configured store when it is empty.
func (c *Config) ResolveStatsPath() error {
	if c.StatsPath != "" {
		return nil
	}

	var name string
	switch c.Stats {
	case StatsSQLite:
		name = "presses.db"
	case StatsJSON:
		name = "presses.json"
	default:
		return nil
	}

	path, err := xdg.DataFile(appName + "/" + name)
	if err != nil {
		return fmt.Errorf("get data file: %w", err)
	}
	c.StatsPath = path

	return nil
}

// LogFile is where logs go while the terminal window is up.
func LogFile() (string, error) {
	path, err := xdg.StateFile(appName + "/" + appName + ".log")
	if err != nil {
		return "", fmt.Errorf("get state file: %w", err)
	}

	return path, nil
}
