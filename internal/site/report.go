package site

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/inful/mdfp"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/version"
)

// Report file names written into the output root.
const (
	ReportJSONFile = "build-report.json"
	ReportTextFile = "build-report.txt"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured entry describing a discrete problem encountered.
type ReportIssue struct {
	Category string            `json:"category"`
	Stage    StageName         `json:"stage,omitempty"`
	Severity IssueSeverity     `json:"severity"`
	Message  string            `json:"message"`
	Context  map[string]string `json:"context,omitempty"`
}

// BuildReport captures high-level metrics about a site generation run.
type BuildReport struct {
	ID              string
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one)
	Warnings        []error
	Issues          []ReportIssue
	StageDurations  map[StageName]time.Duration
	StageResults    map[StageName]StageResult
	StageErrorKinds map[StageName]StageErrorKind
	// Pages counts written pages per page family.
	Pages map[string]int
	// Posts, Categories and Tags count the snapshot entities; the active
	// counts exclude entities without posts.
	Posts            int
	Categories       int
	ActiveCategories int
	Tags             int
	ActiveTags       int
	AssetsCopied     int
	// Fingerprint identifies the generated output; equal inputs yield equal fingerprints.
	Fingerprint string
	Outcome     BuildOutcome
	Version     string
}

func newBuildReport(id string) *BuildReport {
	return &BuildReport{
		ID:              id,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageResults:    make(map[StageName]StageResult),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		Pages:           make(map[string]int),
		Version:         version.Version,
	}
}

// TotalPages sums the written pages of every family.
func (r *BuildReport) TotalPages() int {
	n := 0
	for _, c := range r.Pages {
		n += c
	}
	return n
}

func (r *BuildReport) recordStage(stage StageName, d time.Duration, out stageOutcome) {
	r.StageDurations[stage] = d
	r.StageResults[stage] = out.Result
	if out.Error == nil {
		return
	}
	r.StageErrorKinds[stage] = out.Error.Kind
	sev := SeverityError
	if out.Error.Kind == StageErrorWarning {
		sev = SeverityWarning
	}
	r.addIssue(stage, sev, out.Error)
}

// addIssue appends a structured issue and mirrors it into Errors or Warnings.
func (r *BuildReport) addIssue(stage StageName, sev IssueSeverity, err error) {
	issue := ReportIssue{Stage: stage, Severity: sev, Message: err.Error(), Category: string(errors.GetCategory(err))}
	if ce, ok := errors.AsClassified(err); ok {
		issue.Message = ce.Message()
		if ctx := ce.Context(); len(ctx) > 0 {
			issue.Context = make(map[string]string, len(ctx))
			for k, v := range ctx {
				issue.Context[k] = fmt.Sprint(v)
			}
		}
	}
	r.Issues = append(r.Issues, issue)
	if sev == SeverityError {
		r.Errors = append(r.Errors, err)
	} else {
		r.Warnings = append(r.Warnings, err)
	}
}

// finish sets the end time and outcome.
func (r *BuildReport) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

func (r *BuildReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if stderrors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Duration is the wall time of the build.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("build=%s posts=%d categories=%d/%d tags=%d/%d pages=%d assets=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.ID, r.Posts, r.ActiveCategories, r.Categories, r.ActiveTags, r.Tags, r.TotalPages(), r.AssetsCopied,
		r.Duration().Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// Persist writes build-report.json and build-report.txt into dir.
func (r *BuildReport) Persist(dir string) error {
	if r.End.IsZero() {
		r.finish()
	}
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create report directory").Fatal().WithContext("path", dir).Build()
	}
	jb, err := json.MarshalIndent(r.Serializable(), "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "marshal report json").Build()
	}
	if err := writeFileAtomic(filepath.Join(dir, ReportJSONFile), jb); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, ReportTextFile), []byte(r.Summary()+"\n"))
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write report").Fatal().WithContext("path", tmp).Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "rename report").Fatal().WithContext("path", path).Build()
	}
	return nil
}

// BuildReportSerializable mirrors BuildReport with string errors for JSON output.
type BuildReportSerializable struct {
	ID               string            `json:"id"`
	Start            time.Time         `json:"start"`
	End              time.Time         `json:"end"`
	DurationMS       int64             `json:"duration_ms"`
	Errors           []string          `json:"errors"`
	Warnings         []string          `json:"warnings"`
	Issues           []ReportIssue     `json:"issues"`
	StageDurationsMS map[string]int64  `json:"stage_durations_ms"`
	StageResults     map[string]string `json:"stage_results"`
	Pages            map[string]int    `json:"pages"`
	Posts            int               `json:"posts"`
	Categories       int               `json:"categories"`
	ActiveCategories int               `json:"active_categories"`
	Tags             int               `json:"tags"`
	ActiveTags       int               `json:"active_tags"`
	AssetsCopied     int               `json:"assets_copied"`
	Fingerprint      string            `json:"fingerprint,omitempty"`
	Outcome          string            `json:"outcome"`
	Version          string            `json:"version"`
}

// Serializable returns a JSON friendly copy of the report.
func (r *BuildReport) Serializable() *BuildReportSerializable {
	s := &BuildReportSerializable{
		ID:               r.ID,
		Start:            r.Start,
		End:              r.End,
		DurationMS:       r.Duration().Milliseconds(),
		Errors:           make([]string, len(r.Errors)),
		Warnings:         make([]string, len(r.Warnings)),
		Issues:           r.Issues,
		StageDurationsMS: make(map[string]int64, len(r.StageDurations)),
		StageResults:     make(map[string]string, len(r.StageResults)),
		Pages:            r.Pages,
		Posts:            r.Posts,
		Categories:       r.Categories,
		ActiveCategories: r.ActiveCategories,
		Tags:             r.Tags,
		ActiveTags:       r.ActiveTags,
		AssetsCopied:     r.AssetsCopied,
		Fingerprint:      r.Fingerprint,
		Outcome:          string(r.Outcome),
		Version:          r.Version,
	}
	if s.Issues == nil {
		s.Issues = []ReportIssue{}
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	for k, v := range r.StageDurations {
		s.StageDurationsMS[string(k)] = v.Milliseconds()
	}
	for k, v := range r.StageResults {
		s.StageResults[string(k)] = string(v)
	}
	return s
}

// outputFingerprint folds per-file fingerprints into one value. The manifest
// lists files in path order so concurrent writes do not affect the result.
func outputFingerprint(files map[string]string) string {
	if len(files) == 0 {
		return ""
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(files[name])
		b.WriteByte('\n')
	}
	return mdfp.CalculateFingerprintFromParts("", b.String())
}

// fileFingerprint fingerprints one written file; the path acts as the header part.
func fileFingerprint(file string, data []byte) string {
	return mdfp.CalculateFingerprintFromParts("path: "+file, string(data))
}
