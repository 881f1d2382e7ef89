package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	RidesPosted     prometheus.Counter
	SeatRequests    prometheus.Counter
	Decisions       *prometheus.CounterVec
	GeoFallbacks    prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RidesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rides_posted_total",
			Help:      "The total number of ride postings created",
		}),
		SeatRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_requests_total",
			Help:      "The total number of seats reserved",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "The total number of seat request decisions",
		}, []string{"outcome"}),
		GeoFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geo_fallback_total",
			Help:      "Times the nearby query fell back to the scan strategy",
		}),
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}
