package scene

import (
	"testing"

	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-4

func TestOrthoMapsFrustumToClip(t *testing.T) {
	c := NewOrtho(8, 6)
	p := c.ViewProjection().MulPoint(mat.V3(4, 3, 0))
	assert.InDelta(t, 1, p.X, eps)
	assert.InDelta(t, 1, p.Y, eps)

	c.Move(4, 0)
	p = c.ViewProjection().MulPoint(mat.V3(4, 0, 0))
	assert.InDelta(t, 0, p.X, eps)

	c.SetZoom(2)
	p = c.ViewProjection().MulPoint(mat.V3(6, 0, 0))
	assert.InDelta(t, 1, p.X, eps)

	c.SetZoom(0)
	assert.Equal(t, float32(0.05), c.Zoom)
}

func TestOrthoFitAspect(t *testing.T) {
	c := NewOrtho(8, 8)
	c.FitAspect(800, 400)
	assert.Equal(t, float32(16), c.Width)
	assert.Equal(t, float32(8), c.Height)

	c = NewOrtho(8, 8)
	c.FitAspect(400, 800)
	assert.Equal(t, float32(8), c.Width)
	assert.Equal(t, float32(16), c.Height)
}

func TestFirstPersonLooksDownNegativeZ(t *testing.T) {
	c := NewFirstPerson(mat.V3(0, 0, 5), 1)
	f := c.Front()
	assert.InDelta(t, 0, f.X, eps)
	assert.InDelta(t, -1, f.Z, eps)

	p := c.ViewProjection().MulPoint(mat.V3(0, 0, 0))
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 0, p.Y, eps)
	assert.True(t, p.Z > -1 && p.Z < 1, "origin lies inside the depth range")
}

func TestFirstPersonPitchClamp(t *testing.T) {
	c := NewFirstPerson(mat.V3(0, 0, 0), 1)
	c.SetPitch(120)
	assert.InDelta(t, 89, c.Pitch(), eps)
	c.SetPitch(-120)
	assert.InDelta(t, -89, c.Pitch(), eps)
}

func TestFirstPersonMovesForward(t *testing.T) {
	c := NewFirstPerson(mat.V3(0, 0, 5), 1)
	in := core.NewInput()
	in.Handle(core.EventKey{Key: core.KeyW, Down: true})
	c.Update(in, 1)
	assert.InDelta(t, 2.5, c.Position.Z, eps)
}

func TestFirstPersonTurnsWithMouse(t *testing.T) {
	c := NewFirstPerson(mat.V3(0, 0, 0), 1)
	in := core.NewInput()
	in.Handle(core.EventMouseMove{X: 100, Y: 100})
	c.Update(in, 0)
	assert.InDelta(t, -90, c.Yaw(), eps, "first sample only seeds the pointer")

	in.Handle(core.EventMouseMove{X: 150, Y: 100})
	c.Update(in, 0)
	assert.InDelta(t, -80, c.Yaw(), eps)
}

func TestOrthoControllerZoomsOnScroll(t *testing.T) {
	cam := NewOrtho(8, 8)
	cc := NewOrthoController(cam)
	in := core.NewInput()
	in.Handle(core.EventScroll{Yoff: 1})
	cc.Update(in, 0.016)
	assert.InDelta(t, 1.2, cam.Zoom, eps)

	cc.Update(in, 0.016)
	assert.InDelta(t, 1.2, cam.Zoom, eps, "scroll is consumed once")
}
