package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "fluxpress"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	pagesWritten  *prom.CounterVec
	rebuilds      *prom.CounterVec
	clients       prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Generated pages by page family",
		}, []string{"family"}),
		rebuilds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "preview_rebuilds_total",
			Help:      "Preview rebuilds by trigger",
		}, []string{"trigger"}),
		clients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live reload clients",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.pagesWritten, pr.rebuilds, pr.clients)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddPagesWritten(family string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesWritten.WithLabelValues(family).Add(float64(n))
}

func (p *PrometheusRecorder) IncRebuild(trigger string) {
	if p == nil {
		return
	}
	p.rebuilds.WithLabelValues(trigger).Inc()
}

func (p *PrometheusRecorder) SetLiveReloadClients(n int) {
	if p == nil {
		return
	}
	p.clients.Set(float64(n))
}
