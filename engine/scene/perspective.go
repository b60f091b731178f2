package scene

import (
	"github.com/chewxy/math32"
	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/mat"
)

// FirstPersonCamera is a perspective camera steered by yaw and pitch.
type FirstPersonCamera struct {
	Position    mat.Vec3
	FovDegrees  float32
	Aspect      float32
	Near, Far   float32
	MoveSpeed   float32
	Sensitivity float32 // degrees per pixel of mouse travel
	ScrollSpeed float32

	yaw, pitch float32 // radians
	front, up  mat.Vec3
	right      mat.Vec3
}

func NewFirstPerson(position mat.Vec3, aspect float32) *FirstPersonCamera {
	c := &FirstPersonCamera{
		Position:    position,
		FovDegrees:  45,
		Aspect:      aspect,
		Near:        0.1,
		Far:         100,
		MoveSpeed:   2.5,
		Sensitivity: 0.2,
		ScrollSpeed: 12,
		yaw:         -math32.Pi / 2,
	}
	c.updateVectors()
	return c
}

func (c *FirstPersonCamera) Yaw() float32    { return c.yaw * 180 / math32.Pi }
func (c *FirstPersonCamera) Pitch() float32  { return c.pitch * 180 / math32.Pi }
func (c *FirstPersonCamera) Front() mat.Vec3 { return c.front }

func (c *FirstPersonCamera) SetYaw(degrees float32) {
	c.yaw = mat.Radians(degrees)
	c.updateVectors()
}

// SetPitch clamps to ±89 degrees so the view never flips.
func (c *FirstPersonCamera) SetPitch(degrees float32) {
	c.pitch = mat.Radians(math32.Max(-89, math32.Min(89, degrees)))
	c.updateVectors()
}

func (c *FirstPersonCamera) updateVectors() {
	sp, cp := math32.Sincos(c.pitch)
	sy, cy := math32.Sincos(c.yaw)
	c.front = mat.V3(cp*cy, sp, cp*sy).Normalize()
	c.right = c.front.Cross(mat.AxisY).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

// Update moves the camera from the keyboard (WASD, Q/E up and down), the
// mouse and the scroll wheel.
func (c *FirstPersonCamera) Update(in *core.Input, dt float32) {
	step := c.MoveSpeed * dt
	if in.IsKeyDown(core.KeyW) {
		c.Position = c.Position.Add(c.front.Mul(step))
	}
	if in.IsKeyDown(core.KeyS) {
		c.Position = c.Position.Sub(c.front.Mul(step))
	}
	if in.IsKeyDown(core.KeyA) {
		c.Position = c.Position.Sub(c.right.Mul(step))
	}
	if in.IsKeyDown(core.KeyD) {
		c.Position = c.Position.Add(c.right.Mul(step))
	}
	if in.IsKeyDown(core.KeyQ) {
		c.Position = c.Position.Add(c.up.Mul(step))
	}
	if in.IsKeyDown(core.KeyE) {
		c.Position = c.Position.Sub(c.up.Mul(step))
	}

	if dx, dy := in.TakeMouseDelta(); dx != 0 || dy != 0 {
		c.yaw += mat.Radians(float32(dx) * c.Sensitivity)
		c.SetPitch(c.Pitch() - float32(dy)*c.Sensitivity)
	}

	if s := float32(in.TakeScroll()); s != 0 {
		c.Position = c.Position.Add(c.front.Mul(s * c.ScrollSpeed * step))
	}
}

func (c *FirstPersonCamera) View() mat.Mat4 {
	return mat.LookAt(c.Position, c.Position.Add(c.front), c.up)
}

func (c *FirstPersonCamera) ViewProjection() mat.Mat4 {
	proj := mat.Perspective(mat.Radians(c.FovDegrees), c.Aspect, c.Near, c.Far)
	return proj.Mul(c.View())
}
