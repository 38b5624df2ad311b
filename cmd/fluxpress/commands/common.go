// Package commands implements the fluxpress subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/eventstore"
	"github.com/fluxpress/theme-classic/internal/metrics"
	"github.com/fluxpress/theme-classic/internal/notify"
	"github.com/fluxpress/theme-classic/internal/site"
	"github.com/fluxpress/theme-classic/internal/theme"
)

// Global carries state shared by subcommands.
type Global struct {
	Out io.Writer
}

// CLI is the root command line.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"fluxpress.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate the site once"`
	Preview  PreviewCmd  `cmd:"" help:"Serve the site locally, rebuilding and reloading on change"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	History  HistoryCmd  `cmd:"" help:"List recent builds from the build history"`
}

// AfterApply runs after flag parsing and sets up logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// buildDeps are the per-build collaborators derived from a configuration.
type buildDeps struct {
	cfg       *config.Config
	theme     *theme.Theme
	generator *site.Generator
	closers   []func() error
}

func (d *buildDeps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			slog.Warn("Failed to release build resource", "error", err)
		}
	}
}

// newBuildDeps resolves the theme and wires the optional build history and
// NATS notifications as build observers.
func newBuildDeps(cfg *config.Config, outputDir string, recorder metrics.Recorder) (*buildDeps, error) {
	th, err := theme.Resolve(cfg.ThemeDir)
	if err != nil {
		return nil, err
	}
	d := &buildDeps{cfg: cfg, theme: th}
	if outputDir == "" {
		outputDir = cfg.Output.Directory
	}
	opts := []site.Option{site.WithOutputDir(outputDir)}
	if recorder != nil {
		opts = append(opts, site.WithRecorder(recorder))
	}

	if cfg.History.Enabled {
		store, err := eventstore.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, store.Close)
		opts = append(opts, site.WithObserver(eventstore.NewRecorder(store, nil, th.Name, outputDir)))
	}

	pub, err := notify.Connect(cfg.Notify)
	if err != nil {
		slog.Warn("Build notifications disabled", "error", err)
	} else if pub != nil {
		d.closers = append(d.closers, pub.Close)
		opts = append(opts, site.WithObserver(pub))
	}

	d.generator = site.NewGenerator(cfg, th, opts...)
	return d, nil
}
