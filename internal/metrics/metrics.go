package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DeliveryUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindle_sender_delivery_units_total",
			Help: "Delivery units processed, by outcome",
		},
		[]string{"status"}, // delivered, failed, locked
	)

	FailuresByKind = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindle_sender_delivery_failures_total",
			Help: "Failed delivery units, by failure kind",
		},
		[]string{"kind"},
	)

	ArticlesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kindle_sender_articles_delivered_total",
		Help: "Articles marked sent after a successful delivery",
	})

	BelowThreshold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kindle_sender_below_threshold_total",
		Help: "Due users skipped because too few articles were sendable",
	})

	UnitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kindle_sender_unit_duration_seconds",
			Help:    "Time spent on one user's delivery unit",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kindle_sender_run_duration_seconds",
		Help:    "Time spent on one delivery tick",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27m
	})

	RunErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kindle_sender_run_errors_total",
		Help: "Ticks aborted before any unit ran",
	})
)

func RecordUnit(status string, duration time.Duration) {
	DeliveryUnits.WithLabelValues(status).Inc()
	UnitDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func RecordFailure(kind string) {
	FailuresByKind.WithLabelValues(kind).Inc()
}

func RecordRun(duration time.Duration, err error) {
	RunDuration.Observe(duration.Seconds())
	if err != nil {
		RunErrors.Inc()
	}
}
