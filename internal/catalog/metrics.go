package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Warning kinds used as the "kind" label of warnings_total.
const (
	kindDiscovery = "discovery"
	kindModule    = "module"
	kindMismatch  = "mismatch"
	kindDuplicate = "duplicate"
)

type metrics struct {
	builds    prometheus.Counter
	duration  prometheus.Histogram
	functions prometheus.Gauge
	warnings  *prometheus.CounterVec
}

// newMetrics creates the catalog collectors, registering them with reg when
// it is non-nil.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		builds: f.NewCounter(prometheus.CounterOpts{
			Namespace: "funcatalog",
			Subsystem: "catalog",
			Name:      "builds_total",
			Help:      "Total catalog builds",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "funcatalog",
			Subsystem: "catalog",
			Name:      "build_duration_seconds",
			Help:      "Time spent discovering and introspecting modules",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		functions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "funcatalog",
			Subsystem: "catalog",
			Name:      "functions",
			Help:      "Functions in the most recent build",
		}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "funcatalog",
			Subsystem: "catalog",
			Name:      "warnings_total",
			Help:      "Recoverable build problems by kind",
		}, []string{"kind"}),
	}
}
