package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the reminder scheduler's instrumentation.
type Metrics struct {
	CyclesTotal      prometheus.Counter
	CycleErrors      prometheus.Counter
	CycleDuration    prometheus.Histogram
	RemindersEmitted prometheus.Counter
	StepsRescheduled prometheus.Counter
	DeliveryFailures prometheus.Counter
	IncompleteSteps  prometheus.Gauge
}

// New creates and registers scheduler metrics under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		CyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of completed scan cycles",
		}),
		CycleErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycle_errors_total",
			Help:      "Total number of scan cycles that ended in error",
		}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time spent per scan cycle",
			Buckets:   prometheus.DefBuckets,
		}),
		RemindersEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_emitted_total",
			Help:      "Total number of reminder upserts",
		}),
		StepsRescheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_rescheduled_total",
			Help:      "Total number of overdue steps pushed forward a day",
		}),
		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Total number of failed reminder deliveries",
		}),
		IncompleteSteps: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "incomplete_steps",
			Help:      "Incomplete steps seen in the last scan",
		}),
	}
}
