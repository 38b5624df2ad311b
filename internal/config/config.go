// Package config loads and validates fluxpress.yaml.
package config

import (
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "fluxpress.yaml"

// Config is the theme configuration for one build.
type Config struct {
	Site     Site          `yaml:"site"`
	PerPage  int           `yaml:"per_page"`
	Timezone string        `yaml:"timezone,omitempty"`
	ThemeDir string        `yaml:"theme_dir,omitempty"`
	DataDir  string        `yaml:"data_dir"`
	Output   OutputConfig  `yaml:"output"`
	Build    BuildConfig   `yaml:"build"`
	Titles   Titles        `yaml:"titles"`
	Preview  PreviewConfig `yaml:"preview"`
	Metrics  MetricsConfig `yaml:"metrics"`
	History  HistoryConfig `yaml:"history"`
	Notify   NotifyConfig  `yaml:"notify"`

	location *time.Location
}

// Site is passed unmodified to every page shell.
type Site struct {
	Lang        string `yaml:"lang"`
	Title       string `yaml:"title"`
	Copyright   string `yaml:"copyright"`
	Author      string `yaml:"author"`
	ICP         string `yaml:"icp,omitempty"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`      // remove the output root before generating
	ReportDir string `yaml:"report_dir"` // build reports, kept out of the published tree
}

// BuildConfig tunes page generation.
type BuildConfig struct {
	Concurrency    int    `yaml:"concurrency"`
	HighlightStyle string `yaml:"highlight_style"`
	HardWraps      bool   `yaml:"hard_wraps"`
}

// Titles are the head titles of each page family. "{title}" is replaced with the
// entity title and "{page}" with the page index.
type Titles struct {
	Home       string `yaml:"home"`
	HomePaged  string `yaml:"home_paged"`
	Archives   string `yaml:"archives"`
	Categories string `yaml:"categories"`
	Category   string `yaml:"category"`
	Tags       string `yaml:"tags"`
	Tag        string `yaml:"tag"`
	About      string `yaml:"about"`
	NotFound   string `yaml:"not_found"`
}

// PreviewConfig configures `fluxpress preview`.
type PreviewConfig struct {
	Port int `yaml:"port"`
	// RebuildInterval triggers periodic rebuilds (e.g. "10m"); empty disables them.
	RebuildInterval string `yaml:"rebuild_interval,omitempty"`
	LiveReload      *bool  `yaml:"live_reload,omitempty"`
}

// LiveReloadEnabled defaults to true when unset.
func (p PreviewConfig) LiveReloadEnabled() bool { return p.LiveReload == nil || *p.LiveReload }

// Interval parses RebuildInterval; zero when unset.
func (p PreviewConfig) Interval() time.Duration {
	d, _ := time.ParseDuration(p.RebuildInterval)
	return d
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// HistoryConfig enables the SQLite build history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig publishes build events to NATS when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject"`
}

// Location returns the display time zone used for dates and archive months.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Load reads, defaults and validates the configuration file.
func Load(configPath string) (*Config, error) {
	if loaded := loadEnvFiles(); len(loaded) > 0 {
		slog.Debug("Loaded environment files", slog.Any("files", loaded))
	}

	// #nosec G304 -- configuration path is supplied by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found (run `fluxpress init`)").
				WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration file").
			Fatal().WithContext("path", configPath).Build()
	}
	return Parse(data)
}

// Parse decodes configuration bytes after environment expansion, then applies
// defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "decode configuration").
			Fatal().UserAction().Build()
	}
	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = ApplyDefaults(cfg)
	_ = cfg.Validate()
	return cfg
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Config{
		Site: Site{
			Lang:      "zh",
			Title:     "FluxPress",
			Copyright: "2024",
			Author:    "LaoLiang",
		},
		PerPage:  10,
		Timezone: "Asia/Shanghai",
		DataDir:  DefaultDataDir,
		Output:   OutputConfig{Directory: DefaultOutputDir},
		Build:    BuildConfig{HighlightStyle: DefaultHighlightStyle},
		Preview:  PreviewConfig{Port: DefaultPreviewPort},
		Metrics:  MetricsConfig{Path: DefaultMetricsPath},
		History:  HistoryConfig{Path: DefaultHistoryPath},
		Notify:   NotifyConfig{Subject: DefaultNotifySubject},
	}
	_ = ApplyDefaults(&example)

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "marshal example configuration").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration file").
			Fatal().WithContext("path", configPath).Build()
	}
	return nil
}
