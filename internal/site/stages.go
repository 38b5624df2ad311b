package site

import (
	"context"
	"fmt"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePrepareOutput StageName = "prepare_output"
	StagePosts         StageName = "posts"
	StageHome          StageName = "home"
	StageArchives      StageName = "archives"
	StageCategories    StageName = "categories"
	StageTags          StageName = "tags"
	StageSingles       StageName = "singles"
	StagePublishAssets StageName = "publish_assets"
)

// StageErrorKind classifies the outcome of a stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{defs: make([]StageDef, 0, 8)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.defs = append(p.defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.defs))
	copy(out, p.defs)
	return out
}

// generationStages are the stages of the Generating phase.
func generationStages() []StageDef {
	return NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StagePosts, stagePosts).
		Add(StageHome, stageHome).
		Add(StageArchives, stageArchives).
		Add(StageCategories, stageCategories).
		Add(StageTags, stageTags).
		Add(StageSingles, stageSingles).
		Build()
}

// publishingStages are the stages of the Publishing phase.
func publishingStages() []StageDef {
	return NewPipeline().Add(StagePublishAssets, stagePublishAssets).Build()
}
