package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/choreboard/internal/metrics"
)

// Instrument counts requests by method and code and observes latency. A nil
// m disables it.
func Instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return promhttp.InstrumentHandlerDuration(m.HTTPDuration,
			promhttp.InstrumentHandlerCounter(m.HTTPRequests, next))
	}
}
