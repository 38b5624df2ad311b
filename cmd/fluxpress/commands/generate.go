package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fluxpress/theme-classic/internal/config"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	Clean  bool   `help:"Remove the output directory before generating"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return g.run(ctx, global, root)
}

func (g *GenerateCmd) run(ctx context.Context, global *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if g.Clean {
		cfg.Output.Clean = true
	}
	deps, err := newBuildDeps(cfg, g.Output, nil)
	if err != nil {
		return err
	}
	defer deps.Close()

	report, err := deps.generator.Generate(ctx)
	if report != nil {
		_, _ = fmt.Fprintln(global.Out, report.Summary())
	}
	return err
}
