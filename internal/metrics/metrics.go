package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	complaintsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sahaay",
			Name:      "complaints_created_total",
			Help:      "Total complaints created, partitioned by assigned priority.",
		},
		[]string{"priority"},
	)

	escalationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sahaay",
			Name:      "escalations_total",
			Help:      "Total SLA escalation level transitions, partitioned by level.",
		},
		[]string{"level"},
	)

	sweepDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sahaay",
			Name:      "sla_sweep_seconds",
			Help:      "SLA sweep duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	weatherLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sahaay",
			Name:      "weather_lookups_total",
			Help:      "Weather provider lookups, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register attaches the service collectors to the supplied registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		complaintsCreatedTotal,
		escalationsTotal,
		sweepDurationSeconds,
		weatherLookupsTotal,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

func ObserveComplaintCreated(priority string) {
	complaintsCreatedTotal.WithLabelValues(priority).Inc()
}

func ObserveEscalation(level int) {
	escalationsTotal.WithLabelValues(strconv.Itoa(level)).Inc()
}

func ObserveSweep(duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	sweepDurationSeconds.Observe(duration.Seconds())
}

func ObserveWeatherLookup(outcome string) {
	weatherLookupsTotal.WithLabelValues(outcome).Inc()
}
