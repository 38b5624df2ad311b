package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler exposes the gatherer in the OpenMetrics format. A nil gatherer
// falls back to the process-wide default registry.
func HTTPHandler(g prom.Gatherer) http.Handler {
	if g == nil {
		g = prom.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
