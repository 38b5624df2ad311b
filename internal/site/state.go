package site

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/content"
	"github.com/fluxpress/theme-classic/internal/logfields"
	"github.com/fluxpress/theme-classic/internal/metrics"
	"github.com/fluxpress/theme-classic/internal/paths"
	"github.com/fluxpress/theme-classic/internal/render"
	"github.com/fluxpress/theme-classic/internal/theme"
)

// BuildState carries everything one build needs. It is created when the
// Loading phase starts and discarded when the build returns.
type BuildState struct {
	ID       string
	Config   *config.Config
	Theme    *theme.Theme
	Snapshot *content.Snapshot
	Owner    *content.Owner
	Renderer *render.Renderer
	Markdown *render.Markdown
	Report   *BuildReport

	out      *outputWriter
	observer BuildObserver
	recorder metrics.Recorder
}

// pageJob renders one page into one output file.
type pageJob struct {
	family paths.Family
	entity string
	page   int
	layout string
	title  string
	data   any
	// load builds data inside the job when it is expensive to compute.
	load func() (any, error)
}

func (j pageJob) target() paths.Target { return paths.Derive(j.family, j.entity, j.page) }

// renderPages claims every target, then renders and writes the pages with at
// most build.concurrency jobs in flight. The first failure cancels the rest.
func (bs *BuildState) renderPages(ctx context.Context, jobs []pageJob) error {
	for _, j := range jobs {
		if err := bs.out.claim(j.family, j.entity, j.target()); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, bs.Config.Build.Concurrency))
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return bs.renderPage(j)
		})
	}
	return g.Wait()
}

func (bs *BuildState) renderPage(j pageJob) error {
	target := j.target()
	data := j.data
	if j.load != nil {
		var err error
		if data, err = j.load(); err != nil {
			return err
		}
	}
	html, err := bs.Renderer.RenderPage(j.layout, data, render.Shell{
		Title: j.title,
		Site:  bs.Config.Site,
		URL:   target.URL,
	})
	if err != nil {
		return err
	}
	if err := bs.out.write(j.family, target, html); err != nil {
		return err
	}
	slog.Debug("Page written", logfields.BuildID(bs.ID), logfields.Family(string(j.family)),
		logfields.Path(target.File), logfields.Layout(j.layout))
	return nil
}

func (bs *BuildState) title(family paths.Family, entityTitle string, page int) string {
	return headTitle(bs.Config.Titles, family, entityTitle, page)
}
