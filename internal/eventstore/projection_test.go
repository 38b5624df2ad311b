package eventstore

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxpress/theme-classic/internal/site"
)

func appendAt(t *testing.T, store Store, at time.Time, buildID, typ string, payload any) {
	t.Helper()
	e := mustEvent(t, buildID, typ, payload)
	e.Timestamp = at
	_, err := store.Append(t.Context(), e)
	require.NoError(t, err)
}

func TestRecentBuilds(t *testing.T) {
	store := newMemoryStore(t)
	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)

	appendAt(t, store, base, "old", TypeBuildStarted, BuildStarted{Theme: "classic"})
	appendAt(t, store, base.Add(time.Second), "old", TypeStageCompleted, StageCompleted{Stage: "posts", Result: "success"})
	appendAt(t, store, base.Add(2*time.Second), "old", TypeBuildCompleted, BuildCompleted{
		Outcome: "success", Posts: 3, Pages: map[string]int{"post": 3, "home": 2}, DurationMS: 1500,
	})
	appendAt(t, store, base.Add(time.Minute), "failed", TypeBuildStarted, BuildStarted{})
	appendAt(t, store, base.Add(time.Minute+time.Second), "failed", TypeStageCompleted, StageCompleted{Stage: "archives", Result: "fatal"})
	appendAt(t, store, base.Add(time.Minute+2*time.Second), "failed", TypeBuildCompleted, BuildCompleted{
		Outcome: "failed", Errors: []string{"missing layout"},
	})
	appendAt(t, store, base.Add(2*time.Minute), "running", TypeBuildStarted, BuildStarted{})

	builds, err := RecentBuilds(t.Context(), store, 0)
	require.NoError(t, err)
	require.Len(t, builds, 3)
	assert.Equal(t, []string{"running", "failed", "old"}, []string{builds[0].BuildID, builds[1].BuildID, builds[2].BuildID})

	assert.Equal(t, "running", builds[0].Status)
	assert.Nil(t, builds[0].CompletedAt)

	assert.Equal(t, "failed", builds[1].Status)
	assert.Equal(t, "archives", builds[1].FailedStage)
	assert.Equal(t, []string{"missing layout"}, builds[1].Errors)

	old := builds[2]
	assert.Equal(t, "success", old.Status)
	assert.Equal(t, "classic", old.Theme)
	assert.Equal(t, 1, old.Stages)
	assert.Equal(t, 5, old.TotalPages())
	assert.Equal(t, 1500*time.Millisecond, old.Duration)
	require.NotNil(t, old.CompletedAt)

	limited, err := RecentBuilds(t.Context(), store, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "running", limited[0].BuildID)
}

type failingStore struct{ Store }

func (failingStore) Range(context.Context, time.Time, time.Time) ([]Event, error) {
	return nil, stderrors.New("disk gone")
}

func TestRecentBuildsStoreError(t *testing.T) {
	_, err := RecentBuilds(t.Context(), failingStore{}, 5)
	assert.EqualError(t, err, "disk gone")
}

func TestRecorderObserver(t *testing.T) {
	store := newMemoryStore(t)
	proj := NewHistoryProjection(store)
	rec := NewRecorder(store, proj, "classic", "public")

	rec.OnBuildStart("b1")
	rec.OnStageStart("b1", site.StagePosts)
	rec.OnStageComplete("b1", site.StagePosts, 20*time.Millisecond, site.StageResultSuccess)
	now := time.Now()
	rec.OnBuildComplete(&site.BuildReport{
		ID: "b1", Start: now.Add(-time.Second), End: now, Outcome: site.OutcomeWarning,
		Posts: 2, Pages: map[string]int{"post": 2}, Warnings: []error{stderrors.New("bad date")},
	})

	events, err := store.ByBuild(t.Context(), "b1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{TypeBuildStarted, TypeStageCompleted, TypeBuildCompleted},
		[]string{events[0].Type, events[1].Type, events[2].Type})

	var done BuildCompleted
	require.NoError(t, events[2].Decode(&done))
	assert.Equal(t, "warning", done.Outcome)
	assert.Equal(t, 1, done.Warnings)
	assert.Equal(t, int64(1000), done.DurationMS)

	summary, ok := proj.Build("b1")
	require.True(t, ok)
	assert.Equal(t, "warning", summary.Status)
	assert.Equal(t, 2, summary.TotalPages())
	assert.Equal(t, "classic", summary.Theme)
}

func TestRecorderSurvivesStoreFailure(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	proj := NewHistoryProjection(store)
	rec := NewRecorder(store, proj, "classic", "public")
	assert.NotPanics(t, func() { rec.OnBuildStart("b1") })
	_, ok := proj.Build("b1")
	assert.False(t, ok)
}
