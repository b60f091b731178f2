package core

import (
	"runtime"
	"time"
)

// Run wires the platform window + device and executes the main loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newDevice func(Window, Config) (Device, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	log := Logger()

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}
	if d, ok := win.(interface{ Destroy() }); ok {
		defer d.Destroy()
	}

	dev, err := newDevice(win, cfg)
	if err != nil {
		return err
	}
	if c, ok := dev.(interface{ Shutdown() }); ok {
		defer c.Shutdown()
	}

	w, h := win.FramebufferSize()
	dev.Viewport(0, 0, w, h)

	eng := &Engine{Window: win, Device: dev, Input: NewInput(), Config: cfg, start: time.Now()}
	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		if !eng.Layers.dispatch(eng, ev) {
			app.OnEvent(eng, ev)
		}
		switch ev.(type) {
		case EventResize:
			fw, fh := win.FramebufferSize()
			if fw < 1 || fh < 1 {
				return
			}
			dev.Viewport(0, 0, fw, fh)
		case EventCloseRequested:
			win.RequestClose()
		}
	})

	app.OnStart(eng)

	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		clear   = cfg.ClearColor
		maxStep = 10 // prevent spiral of death
	)

	for !win.ShouldClose() {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		win.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			dt := float64(tick) / float64(time.Second)
			app.OnUpdate(eng, dt)
			eng.Layers.update(eng, dt)
			accum -= tick
			steps++
		}
		alpha := float64(accum) / float64(tick)

		// A pending capture redirects this frame into its own target.
		capturing := false
		if eng.Capture != nil && eng.Capture.Pending() {
			fw, fh := win.FramebufferSize()
			if err := eng.Capture.Begin(fw, fh); err != nil {
				log.Error("core: capture setup failed", "err", err)
			} else {
				capturing = true
			}
		}

		dev.Clear(clear[0], clear[1], clear[2], clear[3])
		app.OnRender(eng, alpha)
		eng.Layers.render(eng, alpha)
		dev.Flush()
		eng.frame++

		if capturing {
			if path, err := eng.Capture.End(); err != nil {
				log.Error("core: capture failed", "err", err)
			} else {
				log.Info("core: frame captured", "path", path)
			}
			// the window framebuffer was not drawn this frame
			continue
		}

		win.SwapBuffers()
	}

	eng.Layers.detachAll(eng)
	app.OnShutdown(eng)
	log.Info("core: engine exit", "frames", eng.frame, "uptime", eng.Uptime())
	return nil
}
