package meshgen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindLabel = "kind"
)

var (
	meshQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mesh_queue_depth",
		Help: "The number of mesh requests waiting to be drained.",
	})

	meshQueueOverflowCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_queue_overflow_count_total",
		Help: "The total number of mesh requests rejected by a full queue.",
	}, []string{kindLabel})

	meshRequestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_request_count_total",
		Help: "The total number of mesh requests handled by the drain step.",
	}, []string{kindLabel})

	meshStaleCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_request_stale_count_total",
		Help: "The total number of mesh requests skipped because their patch was gone.",
	}, []string{kindLabel})

	meshBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mesh_build_seconds",
		Help:    "The time spent building one patch mesh.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	})
)

func instrumentQueueDepth(n int) {
	meshQueueDepth.Set(float64(n))
}

func instrumentOverflow(kind string, n int) {
	meshQueueOverflowCount.
		With(prometheus.Labels{kindLabel: kind}).
		Add(float64(n))
}

func instrumentRequest(kind string) {
	meshRequestCount.
		With(prometheus.Labels{kindLabel: kind}).
		Inc()
}

func instrumentStale(kind string) {
	meshStaleCount.
		With(prometheus.Labels{kindLabel: kind}).
		Inc()
}

func instrumentBuild(seconds float64) {
	meshBuildSeconds.Observe(seconds)
}
