package main

import (
	"errors"
	"io/fs"

	"github.com/hubastard/scrawl/engine/assets"
	"github.com/hubastard/scrawl/engine/capture"
	"github.com/hubastard/scrawl/engine/colors"
	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/graphics"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/profiler"
	"github.com/hubastard/scrawl/engine/scene"
)

// SketchLayer draws a rotating quad, circle and cube. F5 captures the next
// frame at high resolution; Ctrl+P dumps the profile.
type SketchLayer struct {
	gfx     *graphics.Graphics
	capture *capture.Pipeline
	files   fs.FS

	cam  *scene.OrthoCamera
	ctrl *scene.OrthoController
	tex  core.Texture
	t    float32
}

func (l *SketchLayer) OnAttach(e *core.Engine) {
	w, h := e.Window.FramebufferSize()
	l.cam = scene.NewOrtho(16, 9)
	l.cam.FitAspect(w, h)
	l.ctrl = scene.NewOrthoController(l.cam)
	l.gfx.SetCamera(l.cam)
	l.gfx.ClearColor(colors.DarkGray)

	tex, err := assets.LoadTexture(e.Device, l.files, "textures/checker.png")
	switch {
	case err == nil:
		l.tex = tex
	case errors.Is(err, fs.ErrNotExist):
		core.Logger().Info("sandbox: no texture, drawing flat colors")
	default:
		core.Logger().Warn("sandbox: texture load failed", "err", err)
	}
}

func (l *SketchLayer) OnDetach(e *core.Engine) {
	if l.tex != nil {
		l.tex.Release()
	}
}

func (l *SketchLayer) OnUpdate(e *core.Engine, dt float64) {
	l.ctrl.Update(e.Input, float32(dt))
	l.t += float32(dt)
}

func (l *SketchLayer) OnRender(e *core.Engine, alpha float64) {
	end := profiler.Start("SketchLayer.OnRender")
	defer end()

	g := l.gfx
	g.BeginFrame()
	spin := l.t * 45

	g.PushMatrix()
	g.Translate(-4, 0, 0)
	q := g.Quad().Scale(2.5, 2.5, 1).Rotate(spin, mat.AxisZ).Color(1, 0.8, 0.2, 1)
	if l.tex != nil {
		q.Texture(l.tex)
	}
	g.PopMatrix()

	g.Circle().Segments(48).Scale(2, 1.2, 1).Rotate(-spin, mat.AxisZ).ColorBytes(64, 160, 255, 255)

	g.PushMatrix()
	g.Translate(4, 0, 0)
	g.Cube().
		ScaleUniform(2).
		Rotate(spin, mat.AxisY).
		Rotate(30, mat.AxisX).
		Color(0.9, 0.3, 0.4, 1)
	g.PopMatrix()

	if err := g.Flush(); err != nil {
		core.Logger().Error("sandbox: flush failed", "err", err)
	}
}

func (l *SketchLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventKey:
		if !v.Down {
			return false
		}
		switch {
		case v.Key == core.KeyF5:
			l.capture.Request()
			return true
		case v.Key == core.KeyP && v.Mods&core.ModCtrl != 0:
			if path, err := profiler.Dump(e.Config.Capture.Dir); err != nil {
				core.Logger().Warn("sandbox: profile dump failed", "err", err)
			} else {
				core.Logger().Info("sandbox: profile written", "path", path)
			}
			return true
		}
	case core.EventResize:
		l.cam.FitAspect(v.W, v.H)
	}
	return false
}
