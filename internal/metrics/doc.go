// Package metrics records build and preview metrics.
//
// Components receive a Recorder through injection and default to NoopRecorder,
// so call sites never check for nil. `fluxpress preview` swaps in a
// PrometheusRecorder when metrics are enabled and serves it under the
// configured path.
package metrics
