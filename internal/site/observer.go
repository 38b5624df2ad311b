package site

import (
	"time"

	"github.com/fluxpress/theme-classic/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and the build
// lifecycle. The build history store and the NATS publisher hook in here.
type BuildObserver interface {
	OnBuildStart(buildID string)
	OnStageStart(buildID string, stage StageName)
	OnStageComplete(buildID string, stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnBuildStart(string)                                           {}
func (NoopObserver) OnStageStart(string, StageName)                                {}
func (NoopObserver) OnStageComplete(string, StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(*BuildReport)                                  {}

// MultiObserver fans callbacks out to every observer in order.
type MultiObserver []BuildObserver

func (m MultiObserver) OnBuildStart(id string) {
	for _, o := range m {
		o.OnBuildStart(id)
	}
}

func (m MultiObserver) OnStageStart(id string, stage StageName) {
	for _, o := range m {
		o.OnStageStart(id, stage)
	}
}

func (m MultiObserver) OnStageComplete(id string, stage StageName, d time.Duration, r StageResult) {
	for _, o := range m {
		o.OnStageComplete(id, stage, d, r)
	}
}

func (m MultiObserver) OnBuildComplete(report *BuildReport) {
	for _, o := range m {
		o.OnBuildComplete(report)
	}
}

// RecorderObserver forwards build-level results to a metrics.Recorder. Stage
// durations are recorded by the runner itself.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (RecorderObserver) OnBuildStart(string)                                           {}
func (RecorderObserver) OnStageStart(string, StageName)                                {}
func (RecorderObserver) OnStageComplete(string, StageName, time.Duration, StageResult) {}

func (r RecorderObserver) OnBuildComplete(report *BuildReport) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveBuildDuration(report.Duration())
	r.Recorder.IncBuildOutcome(string(report.Outcome))
	for family, n := range report.Pages {
		r.Recorder.AddPagesWritten(family, n)
	}
}

func resultLabel(r StageResult) metrics.ResultLabel {
	switch r {
	case StageResultWarning:
		return metrics.ResultWarning
	case StageResultFatal:
		return metrics.ResultFatal
	case StageResultCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultSuccess
	}
}
