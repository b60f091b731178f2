package main

import (
	"fmt"

	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/graphics"
	"github.com/hubastard/scrawl/engine/profiler"
)

// StatsLayer puts frame timing and draw statistics in the window title and
// logs a memory summary every few seconds.
type StatsLayer struct {
	gfx   *graphics.Graphics
	ticks int
	last  graphics.Statistics
}

const statsEvery = 60 * 5 // ticks

func (l *StatsLayer) OnAttach(e *core.Engine) {}
func (l *StatsLayer) OnDetach(e *core.Engine) {}

func (l *StatsLayer) OnUpdate(e *core.Engine, dt float64) {
	l.ticks++
	if l.ticks%statsEvery != 0 {
		return
	}
	m := profiler.ReadMemory()
	core.Logger().Debug("sandbox: stats",
		"frame", e.Frame(),
		"draws", l.last.DrawCalls,
		"geometries", l.last.Geometries,
		"vertices", l.last.Vertices,
		"refills", l.last.Refills,
		"heap_mb", float64(m.Alloc)/(1<<20),
		"goroutines", m.Goroutines,
	)
}

func (l *StatsLayer) OnRender(e *core.Engine, alpha float64) {
	l.last = l.gfx.Stats()
	if e.Frame()%30 == 0 {
		fps := float64(e.Frame()) / e.Uptime().Seconds()
		e.Window.SetTitle(fmt.Sprintf("%s | %.0f fps | %d draws | %d verts",
			e.Config.Title, fps, l.last.DrawCalls, l.last.Vertices))
	}
}

func (l *StatsLayer) OnEvent(e *core.Engine, ev core.Event) bool { return false }
