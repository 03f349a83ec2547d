package metrics

import "github.com/prometheus/client_golang/prometheus"

// AppMetrics tracks outcomes of app configuration requests.
type AppMetrics struct {
	ValidationFailures *prometheus.CounterVec
}

func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "apps",
			Name:      "validation_failures_total",
			Help:      "Total number of rejected app updates, by error name.",
		}, []string{"name"}),
	}

	reg.MustRegister(m.ValidationFailures)
	return m
}
