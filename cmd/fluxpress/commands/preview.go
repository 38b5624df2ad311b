package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/metrics"
	"github.com/fluxpress/theme-classic/internal/preview"
	"github.com/fluxpress/theme-classic/internal/site"
	"github.com/fluxpress/theme-classic/internal/theme"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Port         int    `short:"p" help:"Port to serve on (overrides preview.port)"`
	Output       string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	NoLiveReload bool   `name:"no-live-reload" help:"Disable live reload script injection"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	srv, err := p.server(root.Config, cfg)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// server builds the preview server. Every rebuild reloads the configuration
// so edits to it take effect without a restart.
func (p *PreviewCmd) server(configPath string, cfg *config.Config) (*preview.Server, error) {
	outputDir := cfg.Output.Directory
	if p.Output != "" {
		outputDir = p.Output
	}
	port := cfg.Preview.Port
	if p.Port != 0 {
		port = p.Port
	}

	th, err := theme.Resolve(cfg.ThemeDir)
	if err != nil {
		return nil, err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	opts := preview.Options{
		OutputDir:       outputDir,
		Port:            port,
		LiveReload:      cfg.Preview.LiveReloadEnabled() && !p.NoLiveReload,
		RebuildInterval: cfg.Preview.Interval(),
		WatchDirs:       append([]string{cfg.DataDir}, th.WatchPaths()...),
		WatchFiles:      []string{configPath},
	}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		opts.Metrics = metrics.HTTPHandler(reg)
		opts.MetricsPath = cfg.Metrics.Path
	}
	opts.Recorder = recorder

	build := func(ctx context.Context) (*site.BuildReport, error) {
		current, err := config.Load(configPath)
		if err != nil {
			slog.Warn("Configuration reload failed; using previous configuration", "error", err)
			current = cfg
		}
		deps, err := newBuildDeps(current, outputDir, recorder)
		if err != nil {
			return nil, err
		}
		defer deps.Close()
		return deps.generator.Generate(ctx)
	}
	slog.Info("Starting preview", slog.String("url", fmt.Sprintf("http://localhost:%d", port)),
		slog.Bool("live_reload", opts.LiveReload))
	return preview.NewServer(opts, build), nil
}
