package terrain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	faceLabel = "face"
)

var (
	terrainSplitCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_split_count_total",
		Help: "The total number of patch splits.",
	}, []string{faceLabel})

	terrainMergeCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_merge_count_total",
		Help: "The total number of patch merges.",
	}, []string{faceLabel})

	terrainRollbackCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_split_rollback_count_total",
		Help: "The total number of splits undone because their mesh requests were rejected.",
	}, []string{faceLabel})

	terrainPostponeCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_merge_postpone_count_total",
		Help: "The total number of merges delayed because their mesh requests were rejected.",
	}, []string{faceLabel})

	terrainNodeCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terrain_node_count",
		Help: "The number of live quadtree nodes.",
	}, []string{faceLabel})
)

func instrumentSplit(f Face) {
	terrainSplitCount.
		With(prometheus.Labels{faceLabel: f.String()}).
		Inc()
}

func instrumentMerge(f Face) {
	terrainMergeCount.
		With(prometheus.Labels{faceLabel: f.String()}).
		Inc()
}

func instrumentRollback(f Face) {
	terrainRollbackCount.
		With(prometheus.Labels{faceLabel: f.String()}).
		Inc()
}

func instrumentPostpone(f Face) {
	terrainPostponeCount.
		With(prometheus.Labels{faceLabel: f.String()}).
		Inc()
}

func instrumentNodeCount(f Face, n int) {
	terrainNodeCount.
		With(prometheus.Labels{faceLabel: f.String()}).
		Set(float64(n))
}
