package content

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	ferrors "github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/logfields"
)

// Topic names a data set the host tool fetched for the theme.
type Topic string

const (
	TopicIssues Topic = "issues"
	TopicUsers  Topic = "users"
)

// File returns the data file name of the topic.
func (t Topic) File() string { return string(t) + ".json" }

// Loader provides the content snapshot for one build. Implementations must return
// the same data for repeated calls within a build.
type Loader interface {
	Issues(ctx context.Context) (*Snapshot, error)
	Owner(ctx context.Context) (*Owner, error)
}

// FileLoader reads `<dir>/issues.json` and `<dir>/users.json`. Results are cached
// for the lifetime of the loader, so create one per build.
type FileLoader struct {
	dir string
	loc *time.Location

	mu       sync.Mutex
	snapshot *Snapshot
	owner    *Owner
	ownerSet bool
}

// FileLoaderOption configures a FileLoader.
type FileLoaderOption func(*FileLoader)

// WithLocation sets the zone used for timestamps that carry no offset.
func WithLocation(loc *time.Location) FileLoaderOption {
	return func(l *FileLoader) { l.loc = loc }
}

// NewFileLoader creates a loader over the data directory.
func NewFileLoader(dir string, opts ...FileLoaderOption) *FileLoader {
	l := &FileLoader{dir: dir, loc: time.UTC}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the data directory.
func (l *FileLoader) Dir() string { return l.dir }

// Issues loads posts, categories and tags.
func (l *FileLoader) Issues(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snapshot != nil {
		return l.snapshot, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var w wireIssues
	path := filepath.Join(l.dir, TopicIssues.File())
	if err := readJSON(path, &w); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "load issues snapshot").
			Fatal().WithContext("path", path).Build()
	}
	l.snapshot = w.toSnapshot(l.loc)
	slog.Debug("Loaded content snapshot", logfields.Topic(string(TopicIssues)), logfields.Posts(len(l.snapshot.Posts)),
		slog.Int("categories", len(l.snapshot.Categories)), slog.Int("tags", len(l.snapshot.Tags)))
	return l.snapshot, nil
}

// Owner loads the site owner profile. A missing users file is not an error: the
// about page then renders without a profile.
func (l *FileLoader) Owner(ctx context.Context) (*Owner, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ownerSet {
		return l.owner, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(l.dir, TopicUsers.File())
	var o Owner
	err := readJSON(path, &o)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("No users data; about page renders without owner profile", logfields.Path(path))
		l.owner = nil
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "load users snapshot").
			Fatal().WithContext("path", path).Build()
	default:
		l.owner = &o
	}
	l.ownerSet = true
	return l.owner, nil
}

func readJSON(path string, v any) error {
	// #nosec G304 -- path is built from the configured data directory.
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// StaticLoader serves an in-memory snapshot (tests and embedding callers).
type StaticLoader struct {
	Snapshot *Snapshot
	Profile  *Owner
}

func (s StaticLoader) Issues(context.Context) (*Snapshot, error) {
	if s.Snapshot == nil {
		return &Snapshot{}, nil
	}
	return s.Snapshot, nil
}

func (s StaticLoader) Owner(context.Context) (*Owner, error) { return s.Profile, nil }

// Load dispatches on a topic key: issues yields *Snapshot, users yields *Owner.
func Load(ctx context.Context, l Loader, topic Topic) (any, error) {
	switch topic {
	case TopicIssues:
		return l.Issues(ctx)
	case TopicUsers:
		return l.Owner(ctx)
	default:
		return nil, ferrors.ContentError("unknown data topic").WithContext("topic", string(topic)).Build()
	}
}
