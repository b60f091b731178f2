// Package graphics is the drawing context a sketch talks to: a model matrix
// stack, geometry factories, and a per-frame flush that streams every
// queued geometry through one vertex buffer.
package graphics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hubastard/scrawl/engine/colors"
	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/geom"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/profiler"
	"github.com/hubastard/scrawl/engine/shader"
	"github.com/hubastard/scrawl/engine/vbuf"
)

// Statistics captures the counts generated during one frame.
type Statistics struct {
	DrawCalls  int
	Geometries int
	Vertices   int
	// Refills counts buffer resets forced by a full buffer mid-frame.
	Refills int
}

type Graphics struct {
	dev     core.Device
	buf     *vbuf.Buffer
	shaders *shader.Registry
	camera  core.Camera

	matrices []mat.Mat4
	queue    []*geom.Builder
	clear    colors.Color

	stats         Statistics
	extraUniforms map[string]any
}

// New draws through buf, picking programs from shaders by geometry flags.
func New(dev core.Device, buf *vbuf.Buffer, shaders *shader.Registry) *Graphics {
	return &Graphics{
		dev:      dev,
		buf:      buf,
		shaders:  shaders,
		matrices: []mat.Mat4{mat.Identity()},
		clear:    colors.Gray,
	}
}

func (g *Graphics) Buffer() *vbuf.Buffer { return g.buf }

// Stats returns the statistics of the last flushed frame so far.
func (g *Graphics) Stats() Statistics { return g.stats }

func (g *Graphics) SetCamera(c core.Camera) { g.camera = c }
func (g *Graphics) Camera() core.Camera     { return g.camera }

// ClearColor sets the color Clear fills the bound target with.
func (g *Graphics) ClearColor(c colors.Color) { g.clear = c }

func (g *Graphics) Clear() { g.dev.Clear(g.clear[0], g.clear[1], g.clear[2], g.clear[3]) }

// SetUniform queues an additional uniform sent on every draw call to
// programs that declare it. Supported values are mat.Mat4, int32 and
// [4]float32; nil removes the uniform.
func (g *Graphics) SetUniform(name string, value any) {
	if g.extraUniforms == nil {
		g.extraUniforms = make(map[string]any)
	}
	if value == nil {
		delete(g.extraUniforms, name)
		return
	}
	g.extraUniforms[name] = value
}

// BeginFrame resets the matrix stack and statistics.
func (g *Graphics) BeginFrame() {
	g.matrices = g.matrices[:1]
	g.matrices[0] = mat.Identity()
	g.stats = Statistics{}
}

// ----- Model matrix stack -----

func (g *Graphics) top() *mat.Mat4 { return &g.matrices[len(g.matrices)-1] }

// ModelMatrix is the current model matrix new geometries start from.
func (g *Graphics) ModelMatrix() mat.Mat4 { return *g.top() }

func (g *Graphics) PushMatrix() { g.matrices = append(g.matrices, *g.top()) }

// PopMatrix restores the matrix saved by the matching PushMatrix. An
// unbalanced pop resets to identity.
func (g *Graphics) PopMatrix() {
	if len(g.matrices) == 1 {
		core.Logger().Warn("graphics: PopMatrix without PushMatrix")
		g.matrices[0] = mat.Identity()
		return
	}
	g.matrices = g.matrices[:len(g.matrices)-1]
}

func (g *Graphics) Translate(x, y, z float32) {
	*g.top() = g.top().Mul(mat.Translation(mat.V3(x, y, z)))
}

func (g *Graphics) Scale(x, y, z float32) {
	*g.top() = g.top().Mul(mat.Scaling(mat.V3(x, y, z)))
}

func (g *Graphics) Rotate(degrees float32, axis mat.Vec3) {
	*g.top() = g.top().Mul(mat.AxisAngle(axis, mat.Radians(degrees)))
}

// ----- Geometry factories -----

func (g *Graphics) Triangle() *geom.Builder { return g.add(geom.Triangle) }
func (g *Graphics) Quad() *geom.Builder     { return g.add(geom.Quad) }
func (g *Graphics) Circle() *geom.Builder   { return g.add(geom.Circle) }
func (g *Graphics) Cube() *geom.Builder     { return g.add(geom.Cube) }

func (g *Graphics) add(kind geom.Kind) *geom.Builder {
	b := geom.New(kind, g.ModelMatrix())
	g.queue = append(g.queue, b)
	return b
}

// Pending is the number of geometries queued since the last Flush.
func (g *Graphics) Pending() int { return len(g.queue) }

// Flush writes and draws every queued geometry in creation order, each as
// its own draw call, then empties the queue and the buffer. A geometry
// that fails is skipped; the errors are joined.
func (g *Graphics) Flush() error {
	defer profiler.Start("graphics.Flush")()

	var errs []error
	for _, b := range g.queue {
		if err := g.draw(b); err != nil {
			errs = append(errs, fmt.Errorf("graphics: %s %s: %w", b.Kind(), b.ID(), err))
		}
	}
	for i := range g.queue {
		g.queue[i] = nil
	}
	g.queue = g.queue[:0]
	g.buf.Clear()
	return errors.Join(errs...)
}

func (g *Graphics) draw(b *geom.Builder) error {
	first, err := b.WriteTo(g.buf)
	if errors.Is(err, vbuf.ErrCapacityExceeded) && b.Err() == nil && g.buf.UsedBytes() > 0 {
		// everything written so far is already drawn
		g.buf.Clear()
		g.stats.Refills++
		first, err = b.WriteTo(g.buf)
	}
	if err != nil {
		return err
	}

	sh, err := g.shaders.Lookup(b.Flags())
	if err != nil {
		return err
	}
	sh.Use()

	vp := mat.Identity()
	if g.camera != nil {
		vp = g.camera.ViewProjection()
	}
	if err := sh.SetMat4(shader.UniformViewProjection, vp); err != nil {
		return err
	}
	for i, t := range b.Textures() {
		g.dev.BindTexture(i, t)
		if err := sh.SetInt(shader.UniformTexture(i), int32(i)); err != nil {
			return err
		}
	}
	g.applyExtraUniforms(sh)

	g.buf.ToggleElements(sh, b.Flags())
	g.buf.Draw(b.Primitive(), first, b.VertexCount())

	g.stats.DrawCalls++
	g.stats.Geometries++
	g.stats.Vertices += b.VertexCount()
	return nil
}

func (g *Graphics) applyExtraUniforms(sh core.Shader) {
	names := make([]string, 0, len(g.extraUniforms))
	for name := range g.extraUniforms {
		if _, ok := sh.Uniform(name); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		var err error
		switch v := g.extraUniforms[name].(type) {
		case mat.Mat4:
			err = sh.SetMat4(name, v)
		case int32:
			err = sh.SetInt(name, v)
		case [4]float32:
			err = sh.SetVec4(name, v)
		case colors.Color:
			err = sh.SetVec4(name, v)
		default:
			err = fmt.Errorf("unsupported uniform type %T", v)
		}
		if err != nil {
			core.Logger().Warn("graphics: uniform not set", "name", name, "err", err)
		}
	}
}
