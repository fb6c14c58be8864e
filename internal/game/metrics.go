package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	frameSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frame_update_seconds",
		Help:    "The time spent in LOD traversal and mesh drain per frame.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})

	entityCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scene_entity_count",
		Help: "The number of live scene entities.",
	})

	cameraAltitude = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "camera_altitude",
		Help: "The main camera height above the planet surface.",
	})
)

func instrumentFrame(s FrameStats) {
	frameSeconds.Observe(s.Duration.Seconds())
	entityCount.Set(float64(s.Entities))
	cameraAltitude.Set(float64(s.Altitude))
}
