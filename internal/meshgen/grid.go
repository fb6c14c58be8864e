package meshgen

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/spacecraft/internal/scene"
	"github.com/Faultbox/spacecraft/internal/terrain"
)

// Builder turns patches into flat-shaded grid meshes.
type Builder struct {
	n       int
	indices []uint32
	height  Displacer
}

// NewBuilder validates that indices describe an n×n grid.
func NewBuilder(n int, indices []uint32, height Displacer) (*Builder, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: resolution %d", ErrBadIndices, n)
	}
	if len(indices) != 6*n*n {
		return nil, fmt.Errorf("%w: got %d indices for resolution %d", ErrBadIndices, len(indices), n)
	}
	limit := uint32((n + 1) * (n + 1))
	for i, v := range indices {
		if v >= limit {
			return nil, fmt.Errorf("%w: index %d out of range", ErrBadIndices, i)
		}
	}
	if height == nil {
		height = Smooth{}
	}
	return &Builder{n: n, indices: indices, height: height}, nil
}

// Resolution returns the number of quads along one patch edge.
func (b *Builder) Resolution() int {
	return b.n
}

// Vertices returns the (n+1)² shared grid points of p, projected onto the sphere.
func (b *Builder) Vertices(p terrain.Patch, scale float32) []mgl32.Vec3 {
	step := p.Length / float32(b.n)
	offset := p.Length / 2
	axisA, axisB := p.Face.PerpendicularVectors()
	origin := p.Cube.Sub(axisA.Mul(offset)).Sub(axisB.Mul(offset))

	out := make([]mgl32.Vec3, 0, (b.n+1)*(b.n+1))
	for y := 0; y <= b.n; y++ {
		for x := 0; x <= b.n; x++ {
			cube := origin.Add(axisA.Mul(float32(x) * step)).Add(axisB.Mul(float32(y) * step))
			unit := cube.Normalize()
			out = append(out, unit.Mul(scale*(1+b.height.Height(unit))))
		}
	}
	return out
}

// Build creates the mesh for p. Vertices are duplicated per triangle so every triangle
// carries its own face normal.
func (b *Builder) Build(p terrain.Patch, scale float32) *scene.Mesh {
	grid := b.Vertices(p, scale)

	m := &scene.Mesh{
		Positions: make([]mgl32.Vec3, 0, len(b.indices)),
		Normals:   make([]mgl32.Vec3, 0, len(b.indices)),
		Bounds:    scene.EmptyBounds(),
	}
	for i := 0; i+2 < len(b.indices); i += 3 {
		p0, p1, p2 := grid[b.indices[i]], grid[b.indices[i+1]], grid[b.indices[i+2]]
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		if l := normal.Len(); l > 0 {
			normal = normal.Mul(1 / l)
		} else {
			normal = p0.Normalize()
		}
		for _, v := range [3]mgl32.Vec3{p0, p1, p2} {
			m.Positions = append(m.Positions, v)
			m.Normals = append(m.Normals, normal)
			m.Bounds.Extend(v)
		}
	}
	return m
}
