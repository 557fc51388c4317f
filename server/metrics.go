package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xmidt-org/envprobe/xmetrics"
)

const (
	APIRequestsTotal       = "api_requests_total"
	InFlightRequests       = "in_flight_requests"
	RequestDurationSeconds = "request_duration_seconds"

	ActiveConnections        = "active_connections"
	RejectedConnectionsTotal = "rejected_connections_total"

	// ServerLabel distinguishes the connection metrics of each listener
	ServerLabel = "server"
)

// Metrics is the module function for this package that adds the request handling and listener metrics.
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name:       APIRequestsTotal,
			Type:       xmetrics.CounterType,
			Help:       "A counter for requests to the handler",
			LabelNames: []string{"code", "method"},
		},
		{
			Name: InFlightRequests,
			Type: xmetrics.GaugeType,
			Help: "A gauge of requests currently being served by the handler.",
		},
		{
			Name:    RequestDurationSeconds,
			Type:    xmetrics.HistogramType,
			Help:    "A histogram of latencies for requests.",
			Buckets: []float64{.005, .01, .05, .25, .5, 1, 2.5},
		},
		{
			Name:       ActiveConnections,
			Type:       xmetrics.GaugeType,
			Help:       "The number of open connections on each listener",
			LabelNames: []string{ServerLabel},
		},
		{
			Name:       RejectedConnectionsTotal,
			Type:       xmetrics.CounterType,
			Help:       "The total number of connections refused because a listener was at its connection limit",
			LabelNames: []string{ServerLabel},
		},
	}
}

// InstrumentHandler produces an Alice-style decorator that records the Metrics of this package.
// The registry must have been created with the Metrics module.
func InstrumentHandler(r xmetrics.Registry) func(http.Handler) http.Handler {
	var (
		requests = r.NewCounterVec(APIRequestsTotal)
		inFlight = r.NewGaugeVec(InFlightRequests).WithLabelValues()
		duration = r.NewHistogramVec(RequestDurationSeconds)
	)

	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerInFlight(inFlight,
			promhttp.InstrumentHandlerDuration(duration,
				promhttp.InstrumentHandlerCounter(requests, next),
			),
		)
	}
}

// MetricsHandler serves the registry in the Prometheus exposition format
func MetricsHandler(r xmetrics.Registry) http.Handler {
	return promhttp.HandlerFor(r, promhttp.HandlerOpts{})
}
