package eventstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/fluxpress/theme-classic/internal/logfields"
	"github.com/fluxpress/theme-classic/internal/site"
	"github.com/fluxpress/theme-classic/internal/version"
)

const appendTimeout = 5 * time.Second

// Recorder is a site.BuildObserver that appends build events to a Store and
// keeps an optional projection current. Store failures are logged and never
// fail the build.
type Recorder struct {
	store      Store
	projection *HistoryProjection
	theme      string
	outputDir  string
}

var _ site.BuildObserver = (*Recorder)(nil)

// NewRecorder creates a Recorder. projection may be nil.
func NewRecorder(store Store, projection *HistoryProjection, theme, outputDir string) *Recorder {
	return &Recorder{store: store, projection: projection, theme: theme, outputDir: outputDir}
}

func (r *Recorder) OnBuildStart(buildID string) {
	r.append(buildID, TypeBuildStarted, BuildStarted{Theme: r.theme, OutputDir: r.outputDir, Version: version.Version})
}

func (r *Recorder) OnStageStart(string, site.StageName) {}

func (r *Recorder) OnStageComplete(buildID string, stage site.StageName, d time.Duration, result site.StageResult) {
	r.append(buildID, TypeStageCompleted, StageCompleted{Stage: string(stage), Result: string(result), DurationMS: d.Milliseconds()})
}

func (r *Recorder) OnBuildComplete(report *site.BuildReport) {
	pl := BuildCompleted{
		Outcome:     string(report.Outcome),
		DurationMS:  report.Duration().Milliseconds(),
		Posts:       report.Posts,
		Pages:       report.Pages,
		Assets:      report.AssetsCopied,
		Warnings:    len(report.Warnings),
		Fingerprint: report.Fingerprint,
	}
	for _, err := range report.Errors {
		pl.Errors = append(pl.Errors, err.Error())
	}
	r.append(report.ID, TypeBuildCompleted, pl)
}

func (r *Recorder) append(buildID, eventType string, payload any) {
	e, err := NewEvent(buildID, eventType, payload)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		e, err = r.store.Append(ctx, e)
		cancel()
	}
	if err != nil {
		slog.Warn("Failed to record build event", logfields.BuildID(buildID), slog.String("type", eventType), logfields.Error(err))
		return
	}
	if r.projection != nil {
		r.projection.Apply(e)
	}
}
