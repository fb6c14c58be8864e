// Package game owns the planet world: terrain, mesh pipeline, scene and cameras, advanced
// one frame at a time without any window.
package game

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/config"
	"github.com/Faultbox/spacecraft/internal/engine/camera"
	"github.com/Faultbox/spacecraft/internal/logger"
	"github.com/Faultbox/spacecraft/internal/meshgen"
	"github.com/Faultbox/spacecraft/internal/scene"
	"github.com/Faultbox/spacecraft/internal/terrain"
)

// FrameStats is what one Tick did.
type FrameStats struct {
	Frame    uint64              `json:"frame"`
	Camera   [3]float32          `json:"camera"`
	Altitude float32             `json:"altitude"`
	LOD      terrain.UpdateStats `json:"lod"`
	Drained  int                 `json:"drained"`
	Mesh     meshgen.Stats       `json:"mesh"`
	Planet   terrain.Stats       `json:"planet"`
	Entities int                 `json:"entities"`
	Duration time.Duration       `json:"duration_ns"`
}

type cameraSlot struct {
	cam  *camera.FlyCamera
	main bool
}

// World is the headless part of the game: planet, mesh pipeline, scene and cameras.
// Tick must be called from one goroutine; LastStats may be read from any.
type World struct {
	cfg       *config.Config
	planet    *terrain.Planet
	queue     *meshgen.Queue
	generator *meshgen.Generator
	scene     *scene.Graph
	root      scene.Entity

	camMu   sync.RWMutex
	cameras []cameraSlot

	frame uint64
	last  atomic.Pointer[FrameStats]
	log   *zap.Logger
}

// NewWorld builds the planet described by cfg. Nothing is meshed until the first Tick.
func NewWorld(cfg *config.Config) (*World, error) {
	log := logger.Named("world")

	q := meshgen.NewQueue(cfg.MeshQueue.Capacity)
	planet, err := terrain.New(terrain.Config{
		Radius:        cfg.Planet.Radius,
		MaxDepth:      cfg.Planet.MaxDepth,
		LODMultiplier: cfg.Planet.LODMultiplier,
	}, q)
	if err != nil {
		return nil, fmt.Errorf("creating planet: %w", err)
	}

	indices, err := meshgen.Indices(cfg.Planet.GridResolution)
	if err != nil {
		return nil, fmt.Errorf("loading index buffer: %w", err)
	}
	builder, err := meshgen.NewBuilder(cfg.Planet.GridResolution, indices, meshgen.NewDisplacer(meshgen.NoiseConfig{
		Enabled:     cfg.Noise.Enabled,
		Seed:        cfg.Noise.Seed,
		Amplitude:   cfg.Noise.Amplitude,
		Frequency:   cfg.Noise.Frequency,
		Octaves:     cfg.Noise.Octaves,
		Persistence: cfg.Noise.Persistence,
		Lacunarity:  cfg.Noise.Lacunarity,
	}))
	if err != nil {
		return nil, fmt.Errorf("creating mesh builder: %w", err)
	}

	graph := scene.NewGraph(scene.NewAssets())
	root := graph.Spawn(scene.SpawnRequest{Name: "planet", Visible: true})

	w := &World{
		cfg:       cfg,
		planet:    planet,
		queue:     q,
		generator: meshgen.NewGenerator(q, builder, planet, graph, root),
		scene:     graph,
		root:      root,
		log:       log,
	}

	log.Info("world created",
		zap.Int("grid_resolution", cfg.Planet.GridResolution),
		zap.Int("queue_capacity", q.Cap()),
		zap.Bool("noise", cfg.Noise.Enabled),
	)
	return w, nil
}

// AddCamera registers a camera. Exactly one camera must be main when Tick runs.
func (w *World) AddCamera(c *camera.FlyCamera, main bool) {
	w.camMu.Lock()
	defer w.camMu.Unlock()
	w.cameras = append(w.cameras, cameraSlot{cam: c, main: main})
}

// RemoveCamera unregisters a camera.
func (w *World) RemoveCamera(c *camera.FlyCamera) {
	w.camMu.Lock()
	defer w.camMu.Unlock()
	for i, s := range w.cameras {
		if s.cam == c {
			w.cameras = append(w.cameras[:i], w.cameras[i+1:]...)
			return
		}
	}
}

// MainCamera returns the single main camera. It panics when there is none or more than
// one, since the LOD has no defined viewpoint then.
func (w *World) MainCamera() *camera.FlyCamera {
	w.camMu.RLock()
	defer w.camMu.RUnlock()

	var found *camera.FlyCamera
	n := 0
	for _, s := range w.cameras {
		if s.main {
			found = s.cam
			n++
		}
	}
	if n != 1 {
		panic(fmt.Sprintf("game: want exactly one main camera, have %d", n))
	}
	return found
}

// Tick runs one frame: LOD traversal from the main camera, then the mesh drain.
func (w *World) Tick() FrameStats {
	start := time.Now()
	pos := w.MainCamera().Position

	w.frame++
	lod := w.planet.Update(pos)
	drained := w.generator.Drain(w.cfg.MeshQueue.DrainPerFrame)

	stats := FrameStats{
		Frame:    w.frame,
		Camera:   [3]float32{pos.X(), pos.Y(), pos.Z()},
		Altitude: w.Altitude(pos),
		LOD:      lod,
		Drained:  drained,
		Mesh:     w.generator.Stats(),
		Planet:   w.planet.Stats(),
		Entities: w.scene.Len(),
		Duration: time.Since(start),
	}
	w.last.Store(&stats)
	instrumentFrame(stats)

	if lod.Splits+lod.Merges > 0 {
		w.log.Debug("lod changed",
			zap.Uint64("frame", w.frame),
			zap.Int("splits", lod.Splits),
			zap.Int("merges", lod.Merges),
			zap.Int("drained", drained),
		)
	}
	return stats
}

// LastStats returns the stats of the most recent Tick, or nil before the first one.
func (w *World) LastStats() *FrameStats {
	return w.last.Load()
}

// Altitude returns the distance of pos above the undisplaced surface.
func (w *World) Altitude(pos mgl32.Vec3) float32 {
	return pos.Len() - w.cfg.Planet.Radius
}

// Planet returns the planet.
func (w *World) Planet() *terrain.Planet {
	return w.planet
}

// Scene returns the scene graph patches are spawned into.
func (w *World) Scene() *scene.Graph {
	return w.scene
}

// Root returns the entity every face root patch hangs under.
func (w *World) Root() scene.Entity {
	return w.root
}

// Report is the snapshot served on the debug endpoint.
func (w *World) Report() any {
	return struct {
		Frame  *FrameStats   `json:"frame"`
		Planet terrain.Stats `json:"planet"`
		Mesh   meshgen.Stats `json:"mesh"`
	}{
		Frame:  w.LastStats(),
		Planet: w.planet.Stats(),
		Mesh:   w.generator.Stats(),
	}
}
