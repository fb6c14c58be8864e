package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/spacecraft/internal/scene"
	"github.com/Faultbox/spacecraft/pkg/quadtree"
)

// RootLength is the side length of a whole cube face; the cube spans [-1, 1].
const RootLength float32 = 2

// Patch is the payload of one terrain quadtree node.
type Patch struct {
	// Cube is the patch centroid on the surface of the unit cube.
	Cube mgl32.Vec3
	// Center is Cube projected onto the sphere and scaled by Radius.
	Center mgl32.Vec3
	Face   Face
	Length float32
	Level  uint8
	Radius float32
	// Entity is set by the mesh consumer once the patch has been built.
	Entity scene.Entity
}

// RootPatch returns the level 0 patch covering an entire face.
func RootPatch(face Face, radius float32) Patch {
	cube := face.DirectionVector()
	return Patch{
		Cube:   cube,
		Center: Project(cube, radius),
		Face:   face,
		Length: RootLength,
		Radius: radius,
	}
}

// Project maps a point on the cube onto a sphere of the given radius.
func Project(cube mgl32.Vec3, radius float32) mgl32.Vec3 {
	return cube.Normalize().Mul(radius)
}

// QuadrantOffset returns the child centroid offset in face-basis units of the child's
// length.
func QuadrantOffset(q quadtree.Quadrant) (float32, float32) {
	switch q {
	case quadtree.TopLeft:
		return -0.5, 0.5
	case quadtree.TopRight:
		return 0.5, 0.5
	case quadtree.BottomLeft:
		return -0.5, -0.5
	default:
		return 0.5, -0.5
	}
}

// DeriveChild computes the patch covering quadrant q of parent. It depends only on the
// parent's cube center, length, face and radius.
func DeriveChild(parent Patch, q quadtree.Quadrant, level uint8) Patch {
	length := parent.Length / 2
	ox, oy := QuadrantOffset(q)
	a, b := parent.Face.PerpendicularVectors()
	cube := parent.Cube.Add(a.Mul(ox * length)).Add(b.Mul(oy * length))
	return Patch{
		Cube:   cube,
		Center: Project(cube, parent.Radius),
		Face:   parent.Face,
		Length: length,
		Level:  level,
		Radius: parent.Radius,
	}
}
