// Package scene provides the cameras that supply the base view-projection
// matrix geometries are drawn with.
package scene

import (
	"github.com/hubastard/scrawl/engine/mat"
)

// OrthoCamera shows a fixed-size frustum of world units centered on its
// position, independent of the window resolution.
type OrthoCamera struct {
	Width, Height float32 // visible world units at zoom 1
	Near, Far     float32
	X, Y          float32
	RotationRad   float32
	Zoom          float32 // 1 = no zoom
	vp            mat.Mat4
	dirty         bool
}

func NewOrtho(width, height float32) *OrthoCamera {
	c := &OrthoCamera{
		Width: width, Height: height,
		Near: -100, Far: 100,
		Zoom: 1,
	}
	c.Recalculate()
	return c
}

// FitAspect widens or heightens the frustum so world units stay square on a
// framebuffer of w x h pixels.
func (c *OrthoCamera) FitAspect(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	aspect := float32(w) / float32(h)
	if c.Width/c.Height < aspect {
		c.Width = c.Height * aspect
	} else {
		c.Height = c.Width / aspect
	}
	c.dirty = true
}

func (c *OrthoCamera) Move(dx, dy float32) { c.X += dx; c.Y += dy; c.dirty = true }
func (c *OrthoCamera) Rotate(dRad float32) { c.RotationRad += dRad; c.dirty = true }
func (c *OrthoCamera) SetZoom(z float32) {
	if z < 0.05 {
		z = 0.05
	}
	c.Zoom = z
	c.dirty = true
}

func (c *OrthoCamera) ViewProjection() mat.Mat4 {
	if c.dirty {
		c.Recalculate()
	}
	return c.vp
}

func (c *OrthoCamera) Recalculate() {
	hw := c.Width * 0.5 / c.Zoom
	hh := c.Height * 0.5 / c.Zoom
	proj := mat.Ortho(-hw, hw, -hh, hh, c.Near, c.Far)

	// view = R(-rot) · T(-pos)
	view := mat.AxisAngle(mat.AxisZ, -c.RotationRad).Mul(mat.Translation(mat.V3(-c.X, -c.Y, 0)))

	c.vp = proj.Mul(view)
	c.dirty = false
}
