package eventstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	statusRunning = "running"
	defaultLimit  = 20
)

// BuildSummary is the read model of one build.
type BuildSummary struct {
	BuildID     string         `json:"build_id"`
	Status      string         `json:"status"` // running, or the final build outcome
	Theme       string         `json:"theme,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Duration    time.Duration  `json:"duration,omitempty"`
	Stages      int            `json:"stages"`
	FailedStage string         `json:"failed_stage,omitempty"`
	Posts       int            `json:"posts"`
	Pages       map[string]int `json:"pages,omitempty"`
	Warnings    int            `json:"warnings"`
	Errors      []string       `json:"errors,omitempty"`
	Fingerprint string         `json:"fingerprint,omitempty"`
}

// TotalPages sums the per-family page counts.
func (s BuildSummary) TotalPages() int {
	n := 0
	for _, c := range s.Pages {
		n += c
	}
	return n
}

// HistoryProjection folds build events into per-build summaries.
type HistoryProjection struct {
	mu     sync.RWMutex
	store  Store
	builds map[string]*BuildSummary
}

// NewHistoryProjection creates an empty projection over store.
func NewHistoryProjection(store Store) *HistoryProjection {
	return &HistoryProjection{store: store, builds: make(map[string]*BuildSummary)}
}

// Rebuild replays every stored event.
func (p *HistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.Range(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.builds = make(map[string]*BuildSummary)
	for _, e := range events {
		p.applyLocked(e)
	}
	return nil
}

// Apply folds one event into the projection.
func (p *HistoryProjection) Apply(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(e)
}

func (p *HistoryProjection) applyLocked(e Event) {
	if e.BuildID == "" {
		return
	}
	s, ok := p.builds[e.BuildID]
	if !ok {
		s = &BuildSummary{BuildID: e.BuildID, Status: statusRunning, StartedAt: e.Timestamp}
		p.builds[e.BuildID] = s
	}

	switch e.Type {
	case TypeBuildStarted:
		s.StartedAt = e.Timestamp
		var pl BuildStarted
		if e.Decode(&pl) == nil {
			s.Theme = pl.Theme
		}
	case TypeStageCompleted:
		s.Stages++
		var pl StageCompleted
		if e.Decode(&pl) == nil && (pl.Result == "fatal" || pl.Result == "canceled") {
			s.FailedStage = pl.Stage
		}
	case TypeBuildCompleted:
		at := e.Timestamp
		s.CompletedAt = &at
		s.Duration = at.Sub(s.StartedAt)
		var pl BuildCompleted
		if e.Decode(&pl) == nil {
			s.Status = pl.Outcome
			s.Posts = pl.Posts
			s.Pages = pl.Pages
			s.Warnings = pl.Warnings
			s.Errors = pl.Errors
			s.Fingerprint = pl.Fingerprint
			if pl.DurationMS > 0 {
				s.Duration = time.Duration(pl.DurationMS) * time.Millisecond
			}
		}
	}
}

// Recent returns up to limit builds, newest first. limit <= 0 means 20.
func (p *HistoryProjection) Recent(limit int) []BuildSummary {
	if limit <= 0 {
		limit = defaultLimit
	}
	p.mu.RLock()
	out := make([]BuildSummary, 0, len(p.builds))
	for _, s := range p.builds {
		out = append(out, *s)
	}
	p.mu.RUnlock()

	slices.SortFunc(out, func(a, b BuildSummary) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(b.BuildID, a.BuildID)
	})
	return out[:min(limit, len(out))]
}

// Build returns the summary of one build.
func (p *HistoryProjection) Build(buildID string) (BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.builds[buildID]
	if !ok {
		return BuildSummary{}, false
	}
	return *s, true
}

// RecentBuilds replays store and returns the newest limit builds.
func RecentBuilds(ctx context.Context, store Store, limit int) ([]BuildSummary, error) {
	p := NewHistoryProjection(store)
	if err := p.Rebuild(ctx); err != nil {
		return nil, err
	}
	return p.Recent(limit), nil
}
