package metrics

import "github.com/prometheus/client_golang/prometheus"

// TaskMetrics counts tasks handed to the asynchronous task queue.
type TaskMetrics struct {
	Dispatched *prometheus.CounterVec
	Retries    *prometheus.CounterVec
}

func NewTaskMetrics(reg prometheus.Registerer) *TaskMetrics {
	m := &TaskMetrics{
		Dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "dispatched_total",
			Help:      "Total number of task dispatch attempts, by task and result.",
		}, []string{"task", "result"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "dispatch_retries_total",
			Help:      "Total number of retried task enqueues, by task.",
		}, []string{"task"}),
	}

	reg.MustRegister(m.Dispatched, m.Retries)
	return m
}
