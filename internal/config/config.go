// Package config loads the planner configuration from YAML. Every field has
// a default, so a missing file or section is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/oracle-route/internal/planner"
	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/world"
)

// MapConfig selects the grid: a JSON map file, or a generated example map.
type MapConfig struct {
	Path   string `yaml:"path,omitempty"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Seed   int64  `yaml:"seed"` // 0 picks a fresh seed
}

// PlannerConfig holds solver settings.
type PlannerConfig struct {
	Colours                  []string   `yaml:"colours,omitempty"` // Empty picks from the map
	ShrineQuota              int        `yaml:"shrine_quota"`
	ClusterDistanceThreshold int        `yaml:"cluster_distance_threshold"`
	ClusterSizeCap           int        `yaml:"cluster_size_cap"`
	CustomCycles             [][]string `yaml:"custom_cycles,omitempty"`
}

// StorageConfig locates the run history database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the full planner configuration.
type Config struct {
	Map          MapConfig      `yaml:"map"`
	Planner      PlannerConfig  `yaml:"planner"`
	Requirements map[string]int `yaml:"requirements"` // Per-colour minimum by kind name
	Storage      StorageConfig  `yaml:"storage"`
	Log          LogConfig      `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	gen := world.DefaultGenConfig()
	req := make(map[string]int)
	for k, n := range world.DefaultRequirements() {
		req[k.String()] = n
	}
	return &Config{
		Map: MapConfig{
			Width:  gen.Width,
			Height: gen.Height,
		},
		Planner: PlannerConfig{
			ShrineQuota:              planner.DefaultShrineQuota,
			ClusterDistanceThreshold: planner.DefaultClusterDistanceThreshold,
			ClusterSizeCap:           planner.DefaultClusterSizeCap,
		},
		Requirements: req,
		Storage:      StorageConfig{DBPath: "data/oracle.db"},
		Log:          LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("config file not found, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. Problems wrap tasks.ErrConfig.
func (c *Config) Validate() error {
	var issues []string
	if c.Map.Path == "" && (c.Map.Width <= 0 || c.Map.Height <= 0) {
		issues = append(issues, fmt.Sprintf("map size %dx%d must be positive", c.Map.Width, c.Map.Height))
	}
	if c.Planner.ShrineQuota < 0 {
		issues = append(issues, fmt.Sprintf("shrine_quota must be non-negative, got %d", c.Planner.ShrineQuota))
	}
	if c.Planner.ClusterDistanceThreshold <= 0 {
		issues = append(issues, "cluster_distance_threshold must be positive")
	}
	if c.Planner.ClusterSizeCap <= 0 {
		issues = append(issues, "cluster_size_cap must be positive")
	}
	if n := len(c.Planner.Colours); n != 0 && n != tasks.ColourCount {
		issues = append(issues, fmt.Sprintf("colours must list exactly %d entries, got %d", tasks.ColourCount, n))
	}
	if _, err := c.WorldRequirements(); err != nil {
		issues = append(issues, err.Error())
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		issues = append(issues, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}

	if len(issues) > 0 {
		return fmt.Errorf("%w: %s", tasks.ErrConfig, strings.Join(issues, "; "))
	}
	return nil
}

// WorldRequirements converts the requirement table to kinds.
func (c *Config) WorldRequirements() (world.Requirements, error) {
	names := make([]string, 0, len(c.Requirements))
	for name := range c.Requirements {
		names = append(names, name)
	}
	sort.Strings(names)

	req := make(world.Requirements, len(names))
	for _, name := range names {
		k, err := world.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("requirements: %w", err)
		}
		n := c.Requirements[name]
		if n < 0 {
			return nil, fmt.Errorf("requirements: %s minimum must be non-negative, got %d", name, n)
		}
		req[k] = n
	}
	return req, nil
}

// PlannerOptions returns the solver options of the configuration.
func (c *Config) PlannerOptions() planner.Options {
	return planner.Options{
		ShrineQuota:              c.Planner.ShrineQuota,
		ClusterDistanceThreshold: c.Planner.ClusterDistanceThreshold,
		ClusterSizeCap:           c.Planner.ClusterSizeCap,
		CustomCycles:             c.Planner.CustomCycles,
	}
}

// GenConfig returns the example map generation settings.
func (c *Config) GenConfig() world.GenConfig {
	gen := world.DefaultGenConfig()
	gen.Width = c.Map.Width
	gen.Height = c.Map.Height
	return gen
}

// SlogLevel maps the configured level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
