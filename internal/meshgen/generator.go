package meshgen

import (
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/logger"
	"github.com/Faultbox/spacecraft/internal/scene"
	"github.com/Faultbox/spacecraft/internal/terrain"
)

// Resolver gives the drain step access to live terrain nodes.
type Resolver interface {
	Lookup(ref terrain.PatchRef) (terrain.Patch, bool)
	AttachEntity(ref terrain.PatchRef, e scene.Entity) bool
}

// Scene is the part of the scene layer the drain step drives.
type Scene interface {
	Assets() *scene.Assets
	Spawn(req scene.SpawnRequest) scene.Entity
	Exists(e scene.Entity) bool
	SetVisible(e scene.Entity, visible bool) bool
	DespawnRecursive(e scene.Entity) int
}

// Stats are cumulative drain counters.
type Stats struct {
	Created uint64 `json:"created"`
	Removed uint64 `json:"removed"`
	Hidden  uint64 `json:"hidden"`
	Shown   uint64 `json:"shown"`
	Stale   uint64 `json:"stale"`
	Pending int    `json:"pending"`
}

// Generator is the single consumer of a Queue. It is the only code that touches the scene.
type Generator struct {
	queue    *Queue
	builder  *Builder
	resolver Resolver
	scene    Scene
	root     scene.Entity
	log      *zap.Logger

	created atomic.Uint64
	removed atomic.Uint64
	hidden  atomic.Uint64
	shown   atomic.Uint64
	stale   atomic.Uint64
}

// NewGenerator wires a consumer. Face root patches are spawned under root, which may be
// zero for top-level entities.
func NewGenerator(q *Queue, b *Builder, r Resolver, s Scene, root scene.Entity) *Generator {
	return &Generator{
		queue:    q,
		builder:  b,
		resolver: r,
		scene:    s,
		root:     root,
		log:      logger.Named("meshgen"),
	}
}

// Drain handles up to max queued requests in arrival order and returns how many it took.
// max <= 0 drains the queue.
func (g *Generator) Drain(max int) int {
	reqs := g.queue.Drain(max)
	for _, r := range reqs {
		g.handle(r)
	}
	return len(reqs)
}

func (g *Generator) handle(r terrain.Request) {
	instrumentRequest(r.Kind.String())

	var ok bool
	switch r.Kind {
	case terrain.RequestCreate:
		ok = g.create(r)
	case terrain.RequestRemove:
		ok = g.remove(r)
	case terrain.RequestHide, terrain.RequestShow:
		ok = g.setVisible(r, r.Kind == terrain.RequestShow)
	default:
		g.log.Warn("unknown mesh request", zap.Stringer("kind", r.Kind))
		return
	}

	if !ok {
		g.stale.Add(1)
		instrumentStale(r.Kind.String())
		g.log.Debug("stale mesh request skipped",
			zap.Stringer("kind", r.Kind),
			zap.Stringer("ref", r.Ref),
		)
	}
}

func (g *Generator) create(r terrain.Request) bool {
	patch, ok := g.resolver.Lookup(r.Ref)
	if !ok {
		return false
	}
	if patch.Entity != 0 && g.scene.Exists(patch.Entity) {
		return false
	}

	parent := g.root
	if r.Parent.Valid() {
		if pp, ok := g.resolver.Lookup(r.Parent); ok && pp.Entity != 0 {
			parent = pp.Entity
		}
	}

	start := time.Now()
	mesh := g.builder.Build(patch, r.Scale)
	instrumentBuild(time.Since(start).Seconds())

	assets := g.scene.Assets()
	e := g.scene.Spawn(scene.SpawnRequest{
		Name:     "patch " + r.Ref.String(),
		Parent:   parent,
		Mesh:     assets.AddMesh(mesh),
		Material: assets.AddMaterial(PatchMaterial(patch.Face, patch.Level)),
		Visible:  true,
	})
	if !g.resolver.AttachEntity(r.Ref, e) {
		g.scene.DespawnRecursive(e)
		return false
	}

	g.created.Add(1)
	return true
}

// remove works from the snapshot: the node itself is already gone from its tree.
func (g *Generator) remove(r terrain.Request) bool {
	e := r.Patch.Entity
	if e == 0 || !g.scene.Exists(e) {
		return false
	}
	g.scene.DespawnRecursive(e)
	g.removed.Add(1)
	return true
}

func (g *Generator) setVisible(r terrain.Request, visible bool) bool {
	patch, ok := g.resolver.Lookup(r.Ref)
	if !ok || patch.Entity == 0 {
		return false
	}
	if !g.scene.SetVisible(patch.Entity, visible) {
		return false
	}
	if visible {
		g.shown.Add(1)
	} else {
		g.hidden.Add(1)
	}
	return true
}

// Stats returns the counters so far.
func (g *Generator) Stats() Stats {
	return Stats{
		Created: g.created.Load(),
		Removed: g.removed.Load(),
		Hidden:  g.hidden.Load(),
		Shown:   g.shown.Load(),
		Stale:   g.stale.Load(),
		Pending: g.queue.Len(),
	}
}

var faceColors = [6]mgl32.Vec3{
	terrain.Top:    {0.85, 0.85, 0.80},
	terrain.Bottom: {0.55, 0.45, 0.35},
	terrain.Left:   {0.35, 0.60, 0.30},
	terrain.Right:  {0.30, 0.50, 0.70},
	terrain.Front:  {0.75, 0.60, 0.30},
	terrain.Back:   {0.60, 0.35, 0.55},
}

// PatchMaterial returns the material of a patch. The color depends only on face and
// level, so deeper patches are darker shades of their face color.
func PatchMaterial(f terrain.Face, level uint8) scene.Material {
	base := faceColors[int(f)%len(faceColors)]
	shade := 1 - 0.06*float32(level)
	if shade < 0.4 {
		shade = 0.4
	}
	c := base.Mul(shade)
	return scene.Material{BaseColor: c.Vec4(1)}
}
