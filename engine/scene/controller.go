package scene

import "github.com/hubastard/scrawl/engine/core"

// OrthoController: WASD move, Q/E rotate, scroll zooms.
type OrthoController struct {
	MoveSpeed float32 // frustum widths per second
	RotSpeed  float32 // radians per second
	ZoomSpeed float32 // factor per scroll notch
	Camera    *OrthoCamera
}

func NewOrthoController(cam *OrthoCamera) *OrthoController {
	return &OrthoController{
		MoveSpeed: 0.5,
		RotSpeed:  2.0,
		ZoomSpeed: 1.2,
		Camera:    cam,
	}
}

func (cc *OrthoController) Update(in *core.Input, dt float32) {
	speed := cc.MoveSpeed * cc.Camera.Width * dt / cc.Camera.Zoom
	rot := cc.RotSpeed * dt

	if in.IsKeyDown(core.KeyW) {
		cc.Camera.Move(0, speed)
	}
	if in.IsKeyDown(core.KeyS) {
		cc.Camera.Move(0, -speed)
	}
	if in.IsKeyDown(core.KeyA) {
		cc.Camera.Move(-speed, 0)
	}
	if in.IsKeyDown(core.KeyD) {
		cc.Camera.Move(speed, 0)
	}
	if in.IsKeyDown(core.KeyQ) {
		cc.Camera.Rotate(rot)
	}
	if in.IsKeyDown(core.KeyE) {
		cc.Camera.Rotate(-rot)
	}

	switch s := in.TakeScroll(); {
	case s > 0:
		cc.Camera.SetZoom(cc.Camera.Zoom * cc.ZoomSpeed)
	case s < 0:
		cc.Camera.SetZoom(cc.Camera.Zoom / cc.ZoomSpeed)
	}
}
