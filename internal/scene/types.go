// Package scene holds the entity hierarchy and asset registries that finished patch
// meshes are handed to.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Entity identifies a scene object. The zero Entity means "none".
type Entity uint32

// MeshHandle identifies a mesh in the asset registry.
type MeshHandle uint32

// MaterialHandle identifies a material in the asset registry.
type MaterialHandle uint32

// Mesh is a non-indexed triangle list: every three positions form one triangle and
// share the face normal stored at the same indices.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Bounds    Bounds
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// EmptyBounds returns an inverted box that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{1e30, 1e30, 1e30},
		Max: mgl32.Vec3{-1e30, -1e30, -1e30},
	}
}

// Material describes how a patch is shaded.
type Material struct {
	BaseColor mgl32.Vec4
}

// SpawnRequest describes a new entity.
type SpawnRequest struct {
	Name     string
	Parent   Entity
	Mesh     MeshHandle
	Material MaterialHandle
	Visible  bool
}

// Drawable is a visible entity with geometry, as seen by a renderer.
type Drawable struct {
	Entity   Entity
	Mesh     MeshHandle
	Material MaterialHandle
}
