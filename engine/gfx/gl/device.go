// Package glbackend implements core.Device on OpenGL 3.3 core.
package glbackend

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/vertex"
)

var ErrIncompleteTarget = errors.New("glbackend: framebuffer incomplete")

type renderTarget struct {
	fb, color, depth uint32
}

type buffer struct {
	size  int
	usage uint32
}

// Device must only be used on the thread that owns the GL context.
type Device struct {
	buffers  map[core.BufferID]buffer
	targets  map[core.TargetID]renderTarget
	programs []*Program
	maxTex   int
}

// New configures global GL state. The window must have made its context
// current already.
func New(_ core.Window, _ core.Config) (*Device, error) {
	d := &Device{
		buffers: map[core.BufferID]buffer{},
		targets: map[core.TargetID]renderTarget{},
	}
	var limit int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &limit)
	d.maxTex = int(limit)

	gl.Enable(gl.DEPTH_TEST)
	// coplanar 2D shapes draw in submission order
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	core.Logger().Info("glbackend: device ready", "max_texture_size", d.maxTex)
	return d, nil
}

// Open adapts New to the constructor core.Run expects.
func Open(win core.Window, cfg core.Config) (core.Device, error) { return New(win, cfg) }

func usageEnum(u core.Usage) uint32 {
	switch u {
	case core.UsageStatic:
		return gl.STATIC_DRAW
	case core.UsageDynamic:
		return gl.DYNAMIC_DRAW
	}
	return gl.STREAM_DRAW
}

func kindEnum(k vertex.Kind) uint32 {
	switch k {
	case vertex.Float32:
		return gl.FLOAT
	case vertex.Int32:
		return gl.INT
	case vertex.Uint32:
		return gl.UNSIGNED_INT
	case vertex.Int16:
		return gl.SHORT
	case vertex.Uint16:
		return gl.UNSIGNED_SHORT
	case vertex.Int8:
		return gl.BYTE
	case vertex.Uint8:
		return gl.UNSIGNED_BYTE
	}
	panic(fmt.Sprintf("glbackend: unknown element kind %d", k))
}

func primitiveEnum(p core.Primitive) uint32 {
	switch p {
	case core.TriangleFan:
		return gl.TRIANGLE_FAN
	case core.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case core.Lines:
		return gl.LINES
	case core.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

// ----- Buffers -----

func (d *Device) CreateBuffer(size int, usage core.Usage) (core.BufferID, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, errors.New("glbackend: glGenBuffers returned 0")
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, usageEnum(usage))
	if e := gl.GetError(); e == gl.OUT_OF_MEMORY {
		gl.DeleteBuffers(1, &id)
		return 0, fmt.Errorf("glbackend: allocate %d byte buffer: out of memory", size)
	}
	d.buffers[core.BufferID(id)] = buffer{size: size, usage: usageEnum(usage)}
	return core.BufferID(id), nil
}

func (d *Device) BindBuffer(id core.BufferID) { gl.BindBuffer(gl.ARRAY_BUFFER, uint32(id)) }

func (d *Device) UploadBuffer(_ core.BufferID, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, offset, len(data), gl.Ptr(data))
}

// InvalidateBuffer orphans the storage so the driver can hand back fresh
// memory while earlier draws still read the old contents.
func (d *Device) InvalidateBuffer(id core.BufferID) {
	b, ok := d.buffers[id]
	if !ok {
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, b.size, nil, b.usage)
}

func (d *Device) DeleteBuffer(id core.BufferID) {
	raw := uint32(id)
	gl.DeleteBuffers(1, &raw)
	delete(d.buffers, id)
}

// ----- Vertex arrays -----

func (d *Device) CreateVertexArray() (core.VertexArrayID, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return 0, errors.New("glbackend: glGenVertexArrays returned 0")
	}
	return core.VertexArrayID(id), nil
}

func (d *Device) BindVertexArray(id core.VertexArrayID) { gl.BindVertexArray(uint32(id)) }

func (d *Device) DeleteVertexArray(id core.VertexArrayID) {
	raw := uint32(id)
	gl.DeleteVertexArrays(1, &raw)
}

// AttribPointer treats integer kinds as normalized fixed point.
func (d *Device) AttribPointer(location uint32, count int, kind vertex.Kind, stride, offset int) {
	normalized := kind != vertex.Float32
	gl.VertexAttribPointer(location, int32(count), kindEnum(kind), normalized, int32(stride), gl.PtrOffset(offset))
}

func (d *Device) EnableAttrib(location uint32)  { gl.EnableVertexAttribArray(location) }
func (d *Device) DisableAttrib(location uint32) { gl.DisableVertexAttribArray(location) }

func (d *Device) Draw(mode core.Primitive, first, count int) {
	gl.DrawArrays(primitiveEnum(mode), int32(first), int32(count))
}

// ----- Render targets -----

func (d *Device) CreateRenderTarget(w, h int) (core.TargetID, error) {
	var rt renderTarget
	gl.GenFramebuffers(1, &rt.fb)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fb)

	gl.GenTextures(1, &rt.color)
	gl.BindTexture(gl.TEXTURE_2D, rt.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, rt.color, 0)

	gl.GenRenderbuffers(1, &rt.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rt.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(w), int32(h))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, rt.depth)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		d.deleteTarget(rt)
		return 0, fmt.Errorf("%w: %dx%d status 0x%x", ErrIncompleteTarget, w, h, status)
	}
	id := core.TargetID(rt.fb)
	d.targets[id] = rt
	return id, nil
}

func (d *Device) BindRenderTarget(id core.TargetID) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(id))
}

func (d *Device) DeleteRenderTarget(id core.TargetID) {
	rt, ok := d.targets[id]
	if !ok {
		return
	}
	d.deleteTarget(rt)
	delete(d.targets, id)
}

func (d *Device) deleteTarget(rt renderTarget) {
	gl.DeleteRenderbuffers(1, &rt.depth)
	gl.DeleteTextures(1, &rt.color)
	gl.DeleteFramebuffers(1, &rt.fb)
}

func (d *Device) Viewport(x, y, w, h int) {
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
}

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) ReadPixels(w, h, rowStride int, dst []byte) error {
	if rowStride%4 != 0 || rowStride < w*4 {
		return fmt.Errorf("glbackend: row stride %d invalid for width %d", rowStride, w)
	}
	if len(dst) < rowStride*(h-1)+w*4 {
		return fmt.Errorf("glbackend: destination holds %d bytes, need %d", len(dst), rowStride*(h-1)+w*4)
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.PixelStorei(gl.PACK_ROW_LENGTH, int32(rowStride/4))
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
	gl.PixelStorei(gl.PACK_ROW_LENGTH, 0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("glbackend: glReadPixels error 0x%x", e)
	}
	return nil
}

func (d *Device) Flush() { gl.Flush() }

func (d *Device) MaxTextureSize() int { return d.maxTex }

// Shutdown deletes every resource the device still tracks.
func (d *Device) Shutdown() {
	for id := range d.targets {
		d.DeleteRenderTarget(id)
	}
	for id := range d.buffers {
		d.DeleteBuffer(id)
	}
	for _, p := range d.programs {
		p.Delete()
	}
	d.programs = nil
}
