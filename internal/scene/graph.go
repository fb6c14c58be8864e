package scene

import (
	"sort"
	"sync"
)

type record struct {
	name     string
	parent   Entity
	children []Entity
	visible  bool
	mesh     MeshHandle
	material MaterialHandle
}

// Graph is an entity hierarchy. Despawning an entity despawns its whole subtree and
// releases the meshes and materials the subtree owned.
//
// Visibility is per entity and not inherited: hiding a parent patch leaves the children
// that replace it visible.
type Graph struct {
	mu       sync.RWMutex
	assets   *Assets
	entities map[Entity]*record
	next     Entity
}

// NewGraph creates an empty graph that releases assets into a.
func NewGraph(a *Assets) *Graph {
	return &Graph{
		assets:   a,
		entities: make(map[Entity]*record),
	}
}

// Assets returns the registry the graph releases into.
func (g *Graph) Assets() *Assets {
	return g.assets
}

// Spawn creates an entity. A parent that does not exist is treated as no parent.
func (g *Graph) Spawn(req SpawnRequest) Entity {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	e := g.next
	rec := &record{
		name:     req.Name,
		visible:  req.Visible,
		mesh:     req.Mesh,
		material: req.Material,
	}
	if p, ok := g.entities[req.Parent]; ok && req.Parent != 0 {
		rec.parent = req.Parent
		p.children = append(p.children, e)
	}
	g.entities[e] = rec
	return e
}

// Exists reports whether e is alive.
func (g *Graph) Exists(e Entity) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.entities[e]
	return ok
}

// SetVisible toggles visibility. It returns false if e does not exist.
func (g *Graph) SetVisible(e Entity, visible bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.entities[e]
	if !ok {
		return false
	}
	rec.visible = visible
	return true
}

// Visible reports the visibility flag of e.
func (g *Graph) Visible(e Entity) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rec, ok := g.entities[e]
	return ok && rec.visible
}

// Parent returns the parent of e, or 0.
func (g *Graph) Parent(e Entity) Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if rec, ok := g.entities[e]; ok {
		return rec.parent
	}
	return 0
}

// Children returns a copy of the children of e.
func (g *Graph) Children(e Entity) []Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rec, ok := g.entities[e]
	if !ok {
		return nil
	}
	return append([]Entity(nil), rec.children...)
}

// Name returns the debug name of e.
func (g *Graph) Name(e Entity) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if rec, ok := g.entities[e]; ok {
		return rec.name
	}
	return ""
}

// Len returns the number of live entities.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entities)
}

// DespawnRecursive removes e and all of its descendants and returns how many entities
// were removed. Despawning a missing entity removes nothing.
func (g *Graph) DespawnRecursive(e Entity) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.entities[e]
	if !ok {
		return 0
	}
	if p, ok := g.entities[rec.parent]; ok {
		for i, c := range p.children {
			if c == e {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	return g.despawn(e)
}

func (g *Graph) despawn(e Entity) int {
	rec := g.entities[e]
	n := 1
	for _, c := range rec.children {
		n += g.despawn(c)
	}
	delete(g.entities, e)
	if g.assets != nil {
		if rec.mesh != 0 {
			g.assets.RemoveMesh(rec.mesh)
		}
		if rec.material != 0 {
			g.assets.RemoveMaterial(rec.material)
		}
	}
	return n
}

// Drawables returns the visible entities that carry a mesh, ordered by entity.
func (g *Graph) Drawables() []Drawable {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Drawable, 0, len(g.entities))
	for e, rec := range g.entities {
		if rec.visible && rec.mesh != 0 {
			out = append(out, Drawable{Entity: e, Mesh: rec.mesh, Material: rec.material})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity < out[j].Entity })
	return out
}
