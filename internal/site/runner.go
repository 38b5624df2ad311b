package site

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/logfields"
)

// stageOutcome is the classified result of one stage run.
type stageOutcome struct {
	Stage  StageName
	Error  *StageError
	Result StageResult
	Abort  bool
}

// runStages executes stages in order, recording timing and stopping on the first
// fatal or canceled stage.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			bs.Report.recordStage(st.Name, 0, stageOutcome{Stage: st.Name, Error: se, Result: StageResultCanceled, Abort: true})
			bs.observer.OnStageComplete(bs.ID, st.Name, 0, StageResultCanceled)
			return se
		}
		bs.observer.OnStageStart(bs.ID, st.Name)
		slog.Debug("Stage started", logfields.BuildID(bs.ID), logfields.Stage(string(st.Name)))

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		out := classifyStageResult(st.Name, err)
		bs.Report.recordStage(st.Name, dur, out)
		bs.recorder.ObserveStageDuration(string(st.Name), dur)
		bs.recorder.IncStageResult(string(st.Name), resultLabel(out.Result))
		bs.observer.OnStageComplete(bs.ID, st.Name, dur, out.Result)

		attrs := []slog.Attr{logfields.BuildID(bs.ID), logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds()) / 1000), logfields.Outcome(string(out.Result))}
		if out.Error != nil {
			attrs = append(attrs, logfields.Error(out.Error.Err))
			slog.LogAttrs(ctx, levelFor(out.Result), "Stage finished with error", attrs...)
		} else {
			slog.LogAttrs(ctx, slog.LevelInfo, "Stage finished", attrs...)
		}
		if out.Abort {
			return out.Error
		}
	}
	return nil
}

// classifyStageResult maps a stage error to its outcome. Classified errors with
// warning severity let the build continue; cancellation and everything else abort.
func classifyStageResult(stage StageName, err error) stageOutcome {
	if err == nil {
		return stageOutcome{Stage: stage, Result: StageResultSuccess}
	}
	var se *StageError
	if !stderrors.As(err, &se) {
		switch {
		case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
			se = newCanceledStageError(stage, err)
		case errors.GetSeverity(err) == errors.SeverityWarning:
			se = newWarnStageError(stage, err)
		default:
			se = newFatalStageError(stage, err)
		}
	}
	switch se.Kind {
	case StageErrorWarning:
		return stageOutcome{Stage: stage, Error: se, Result: StageResultWarning}
	case StageErrorCanceled:
		return stageOutcome{Stage: stage, Error: se, Result: StageResultCanceled, Abort: true}
	default:
		return stageOutcome{Stage: stage, Error: se, Result: StageResultFatal, Abort: true}
	}
}

func levelFor(r StageResult) slog.Level {
	if r == StageResultWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
