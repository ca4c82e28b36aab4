package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	CheckinsTotal      prometheus.Counter
	CancellationsTotal prometheus.Counter
	SeatConflicts      prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	return &Metrics{
		CheckinsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_total",
			Help:      "The total number of boarding passes issued",
		}),
		CancellationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "The total number of boarding passes cancelled",
		}),
		SeatConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_conflicts_total",
			Help:      "Check-in attempts rejected because the seat was taken",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
