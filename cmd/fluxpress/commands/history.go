package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/eventstore"
	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of builds to show"`
}

func (h *HistoryCmd) Run(global *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.ConfigError("build history is disabled").
			WithContext("hint", "set history.enabled: true").Build()
	}
	store, err := eventstore.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := eventstore.RecentBuilds(context.Background(), store, h.Limit)
	if err != nil {
		return err
	}
	if len(builds) == 0 {
		_, _ = fmt.Fprintln(global.Out, "No builds recorded yet")
		return nil
	}

	tw := tabwriter.NewWriter(global.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tDURATION\tPOSTS\tPAGES\tWARNINGS\tFAILED STAGE")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			shortID(b.BuildID), b.StartedAt.Format(time.DateTime), b.Status,
			b.Duration.Truncate(time.Millisecond), b.Posts, b.TotalPages(), b.Warnings, dash(b.FailedStage))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
