// Package terrain maps a quadtree of patches onto each face of a cube-sphere planet and
// decides, every frame, which patches split or merge.
package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Face is one side of the base cube.
type Face uint8

const (
	Top Face = iota
	Bottom
	Left
	Right
	Front
	Back
)

// Faces lists every cube face in planet order.
var Faces = [6]Face{Top, Bottom, Left, Right, Front, Back}

var (
	unitX = mgl32.Vec3{1, 0, 0}
	unitY = mgl32.Vec3{0, 1, 0}
	unitZ = mgl32.Vec3{0, 0, 1}
)

func (f Face) String() string {
	switch f {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	case Front:
		return "front"
	case Back:
		return "back"
	}
	return fmt.Sprintf("face(%d)", uint8(f))
}

// DirectionVector returns the unit outward normal of the face.
func (f Face) DirectionVector() mgl32.Vec3 {
	switch f {
	case Top:
		return unitY
	case Bottom:
		return unitY.Mul(-1)
	case Left:
		return unitX.Mul(-1)
	case Right:
		return unitX
	case Front:
		return unitZ.Mul(-1)
	case Back:
		return unitZ
	}
	panic("terrain: unknown face " + f.String())
}

// PerpendicularVectors returns an orthonormal basis spanning the face plane.
// For every face a × b points inward, so b × a is the outward normal.
func (f Face) PerpendicularVectors() (mgl32.Vec3, mgl32.Vec3) {
	switch f {
	case Top:
		return unitX, unitZ
	case Bottom:
		return unitX, unitZ.Mul(-1)
	case Left:
		return unitY, unitZ
	case Right:
		return unitY, unitZ.Mul(-1)
	case Front:
		return unitX, unitY
	case Back:
		return unitX, unitY.Mul(-1)
	}
	panic("terrain: unknown face " + f.String())
}
