package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("posts", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("posts", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.AddPagesWritten("post", 3)
	pr.AddPagesWritten("post", 2)
	pr.AddPagesWritten("home", 0)
	pr.IncRebuild("watch")
	pr.SetLiveReloadClients(2)

	assert.InDelta(t, 5, testutil.ToFloat64(pr.pagesWritten.WithLabelValues("post")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.clients), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("posts", time.Second)
		pr.IncBuildOutcome("failed")
		pr.AddPagesWritten("tag-page", 1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncRebuild("schedule")

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fluxpress_preview_rebuilds_total{trigger="schedule"} 1`)
}
