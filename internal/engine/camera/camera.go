// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// FlyCamera moves freely: translation along its own axes, yaw and pitch from the mouse.
type FlyCamera struct {
	Position mgl32.Vec3

	Yaw   float32 // Radians around world up; 0 looks down -Z
	Pitch float32 // Radians, clamped short of straight up or down

	FOV  float32 // Vertical, degrees
	Near float32
	Far  float32

	Speed       float32 // Units per second
	Sensitivity float32 // Degrees per pixel of mouse motion
}

const maxPitch = math.Pi/2 - 0.01

// NewFlyCamera creates a camera at pos looking down -Z.
func NewFlyCamera(pos mgl32.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:    pos,
		FOV:         60,
		Near:        0.1,
		Far:         100000,
		Speed:       10,
		Sensitivity: 0.2,
	}
}

// Forward returns the unit view direction.
func (c *FlyCamera) Forward() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return mgl32.Vec3{
		float32(math.Sin(float64(c.Yaw))) * cp,
		float32(math.Sin(float64(c.Pitch))),
		-float32(math.Cos(float64(c.Yaw))) * cp,
	}
}

// Right returns the unit right vector, always horizontal.
func (c *FlyCamera) Right() mgl32.Vec3 {
	return c.Forward().Cross(worldUp).Normalize()
}

// Up returns the camera's unit up vector.
func (c *FlyCamera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Move translates along the camera axes. Arguments are -1..1 intents, scaled by Speed
// and dt. Vertical movement follows world up, not the camera's up vector.
func (c *FlyCamera) Move(forward, right, up, dt float32) {
	step := c.Speed * dt
	delta := c.Forward().Mul(forward).
		Add(c.Right().Mul(right)).
		Add(worldUp.Mul(up))
	c.Position = c.Position.Add(delta.Mul(step))
}

// Look turns the camera by a mouse delta in pixels. Moving the mouse up looks up.
func (c *FlyCamera) Look(dx, dy float32) {
	c.Yaw += mgl32.DegToRad(dx * c.Sensitivity)
	c.Pitch -= mgl32.DegToRad(dy * c.Sensitivity)
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
}

// LookAt points the camera at target.
func (c *FlyCamera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.Pitch = mgl32.Clamp(float32(math.Asin(float64(d.Y()))), -maxPitch, maxPitch)
	c.Yaw = float32(math.Atan2(float64(d.X()), float64(-d.Z())))
}

// ViewMatrix returns the world-to-camera transform.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), worldUp)
}

// ProjectionMatrix returns a perspective projection for the given aspect ratio.
func (c *FlyCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Scripted flies a camera along a straight line between two points and back, for
// headless runs.
type Scripted struct {
	From, To mgl32.Vec3
	Frames   int
}

// At returns the position at frame i: From at 0, To at Frames/2, From again at Frames.
func (s Scripted) At(i int) mgl32.Vec3 {
	if s.Frames <= 0 {
		return s.From
	}
	half := float32(s.Frames) / 2
	t := float32(i%s.Frames) / half
	if t > 1 {
		t = 2 - t
	}
	return s.From.Add(s.To.Sub(s.From).Mul(t))
}
