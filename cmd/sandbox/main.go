package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hubastard/scrawl/engine/assets"
	"github.com/hubastard/scrawl/engine/capture"
	"github.com/hubastard/scrawl/engine/core"
	glbackend "github.com/hubastard/scrawl/engine/gfx/gl"
	"github.com/hubastard/scrawl/engine/graphics"
	"github.com/hubastard/scrawl/engine/platform"
	"github.com/hubastard/scrawl/engine/profiler"
	"github.com/hubastard/scrawl/engine/shader"
	"github.com/hubastard/scrawl/engine/vbuf"
	"github.com/hubastard/scrawl/engine/vertex"
)

const assetDir = "assets"

type App struct {
	buf     *vbuf.Buffer
	gfx     *graphics.Graphics
	capture *capture.Pipeline
	sketch  *SketchLayer
	stats   *StatsLayer
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 12)
	log := core.Logger()

	dev, ok := e.Device.(*glbackend.Device)
	if !ok {
		panic(fmt.Sprintf("sandbox: unexpected device %T", e.Device))
	}

	var err error
	a.buf, err = vbuf.New(dev, e.Config.MaxVertices, vertex.Standard(), core.UsageStream)
	if err != nil {
		panic(err)
	}

	// Programs in assets/shaders/<key>.vert|.frag override generated ones.
	files := os.DirFS(assetDir)
	reg := shader.NewRegistry(func(flags vertex.Flag) (core.Shader, error) {
		vs, fs, found, err := assets.LoadShaderPair(files, "shaders", flags.Key())
		if err != nil {
			return nil, err
		}
		if !found {
			return dev.CompileVariant(flags)
		}
		log.Info("sandbox: using shader override", "key", flags.Key())
		return dev.CompileProgram(vs, fs)
	})
	a.gfx = graphics.New(dev, a.buf, reg)

	a.capture, err = capture.New(dev, e.Config.Capture)
	if err != nil {
		panic(err)
	}
	e.Capture = a.capture

	a.sketch = &SketchLayer{gfx: a.gfx, capture: a.capture, files: files}
	e.Layers.Push(e, a.sketch)
	a.stats = &StatsLayer{gfx: a.gfx}
	e.Layers.Push(e, a.stats)
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {}

func (a *App) OnRender(e *core.Engine, alpha float64) {}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyEscape {
		e.Window.RequestClose()
	}
}

func (a *App) OnShutdown(e *core.Engine) {
	if a.buf != nil {
		a.buf.Release()
	}
}

func loadConfig() core.Config {
	path, ok := assets.FindConfig("scrawl.yaml")
	if !ok {
		return core.DefaultConfig()
	}
	cfg, err := core.LoadConfig(path)
	if err != nil {
		core.Logger().Warn("sandbox: using default config", "err", err)
		return core.DefaultConfig()
	}
	core.Logger().Info("sandbox: config loaded", "path", path)
	return cfg
}

func main() {
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg := loadConfig()
	if err := core.Run(&App{}, cfg, platform.Open, glbackend.Open); err != nil {
		core.Logger().Error("sandbox: run failed", "err", err)
		os.Exit(1)
	}
}
