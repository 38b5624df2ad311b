package site

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/content"
	"github.com/fluxpress/theme-classic/internal/logfields"
	"github.com/fluxpress/theme-classic/internal/metrics"
	"github.com/fluxpress/theme-classic/internal/render"
	"github.com/fluxpress/theme-classic/internal/theme"
)

// LoaderFactory returns the content loader of one build. Loaders memoise their
// topics, so a fresh one per build keeps builds independent.
type LoaderFactory func() content.Loader

// Generator runs builds. It keeps no state between builds besides its phase;
// concurrent Generate calls are serialized.
type Generator struct {
	cfg       *config.Config
	theme     *theme.Theme
	outputDir string
	loaders   LoaderFactory
	observers []BuildObserver
	observer  BuildObserver
	recorder  metrics.Recorder

	mu    sync.Mutex
	phase atomic.Int32
}

// Option configures a Generator.
type Option func(*Generator)

// WithLoader replaces the file loader over cfg.DataDir.
func WithLoader(f LoaderFactory) Option { return func(g *Generator) { g.loaders = f } }

// WithObserver registers build observers.
func WithObserver(o ...BuildObserver) Option {
	return func(g *Generator) { g.observers = append(g.observers, o...) }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithOutputDir overrides cfg.Output.Directory.
func WithOutputDir(dir string) Option { return func(g *Generator) { g.outputDir = dir } }

// NewGenerator creates a generator for a validated configuration and a resolved theme.
func NewGenerator(cfg *config.Config, th *theme.Theme, opts ...Option) *Generator {
	g := &Generator{
		cfg:       cfg,
		theme:     th,
		outputDir: cfg.Output.Directory,
		recorder:  metrics.NoopRecorder{},
	}
	g.loaders = func() content.Loader { return content.NewFileLoader(cfg.DataDir, content.WithLocation(cfg.Location())) }
	for _, opt := range opts {
		opt(g)
	}
	g.observer = MultiObserver(append(g.observers, RecorderObserver{Recorder: g.recorder}))
	return g
}

// Phase reports the current lifecycle phase.
func (g *Generator) Phase() Phase { return Phase(g.phase.Load()) }

// OutputDir is the directory pages are written to.
func (g *Generator) OutputDir() string { return filepath.Clean(g.outputDir) }

func (g *Generator) setPhase(p Phase) { g.phase.Store(int32(p)) }

// Generate runs one build and returns its report. The report is returned even
// when the build fails; it is also persisted into output.report_dir.
func (g *Generator) Generate(ctx context.Context) (*BuildReport, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.setPhase(PhaseIdle)

	bs := &BuildState{
		ID:       uuid.NewString(),
		Config:   g.cfg,
		Theme:    g.theme,
		Renderer: render.New(g.theme.Layout, render.WithLocation(g.cfg.Location())),
		Markdown: newMarkdown(g.cfg),
		out:      newOutputWriter(g.OutputDir()),
		observer: g.observer,
		recorder: g.recorder,
	}
	bs.Report = newBuildReport(bs.ID)
	g.observer.OnBuildStart(bs.ID)
	slog.Info("Build started", logfields.BuildID(bs.ID), logfields.Path(g.OutputDir()), slog.String("theme", g.theme.Name))

	err := g.run(ctx, bs)
	var se *StageError
	if err != nil && !stderrors.As(err, &se) {
		bs.Report.addIssue("", SeverityError, err)
	}
	bs.Report.Pages = bs.out.pageCounts()
	bs.Report.Fingerprint = bs.out.fingerprint()
	bs.Report.finish()

	if perr := bs.Report.Persist(g.cfg.Output.ReportDir); perr != nil {
		slog.Warn("Failed to persist build report", logfields.BuildID(bs.ID), logfields.Error(perr))
	}
	g.observer.OnBuildComplete(bs.Report)

	attrs := []slog.Attr{logfields.BuildID(bs.ID), logfields.Outcome(string(bs.Report.Outcome)),
		logfields.Pages(bs.Report.TotalPages()), logfields.DurationMS(float64(bs.Report.Duration().Milliseconds()))}
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "Build failed", append(attrs, logfields.Error(err))...)
		return bs.Report, err
	}
	slog.LogAttrs(ctx, slog.LevelInfo, "Build finished", attrs...)
	return bs.Report, nil
}

func (g *Generator) run(ctx context.Context, bs *BuildState) error {
	g.setPhase(PhaseLoading)
	if err := g.load(ctx, bs); err != nil {
		return err
	}

	g.setPhase(PhaseGenerating)
	if err := runStages(ctx, bs, generationStages()); err != nil {
		return err
	}

	g.setPhase(PhasePublishing)
	return runStages(ctx, bs, publishingStages())
}

// load reads both data topics and records data problems as warnings.
func (g *Generator) load(ctx context.Context, bs *BuildState) error {
	loader := g.loaders()
	snap, err := loader.Issues(ctx)
	if err != nil {
		return err
	}
	owner, err := loader.Owner(ctx)
	if err != nil {
		return err
	}
	bs.Snapshot, bs.Owner = snap, owner
	bs.Report.Posts = len(snap.Posts)
	bs.Report.Categories = len(snap.Categories)
	bs.Report.Tags = len(snap.Tags)

	for _, issue := range content.Check(snap) {
		bs.Report.addIssue("", SeverityWarning, issue)
		slog.Warn("Content data issue", logfields.BuildID(bs.ID), slog.String("issue", issue.Message()),
			slog.Any("context", issue.Context()))
	}
	return nil
}

func newMarkdown(cfg *config.Config) *render.Markdown {
	opts := []render.MarkdownOption{render.WithHighlightStyle(cfg.Build.HighlightStyle)}
	if cfg.Build.HardWraps {
		opts = append(opts, render.WithHardWraps())
	}
	return render.NewMarkdown(opts...)
}
