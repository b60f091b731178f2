// Package gpufake is an in-memory core.Device and core.Shader used to test
// the drawing core without a GL context. It keeps just enough state to
// check uploads, attribute wiring, render target lifetimes and read-back.
package gpufake

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/vertex"
)

var ErrRejected = errors.New("gpufake: allocation rejected")

type Pointer struct {
	Count          int
	Kind           vertex.Kind
	Stride, Offset int
	VAO            core.VertexArrayID
}

type DrawCall struct {
	Mode        core.Primitive
	First       int
	Count       int
	VAO         core.VertexArrayID
	Target      core.TargetID
	Invalidated int // invalidations of the bound buffer seen so far
}

type Target struct{ W, H int }

// Device records GL-level effects. Set the exported knobs before use.
type Device struct {
	MaxTexture   int
	RejectBuffer bool
	RejectTarget bool
	// Pixel returns the RGBA color at (x, y) in bottom-up target coordinates.
	Pixel func(x, y int) [4]byte

	Buffers        map[core.BufferID][]byte
	Invalidations  map[core.BufferID]int
	DeletedBuffers []core.BufferID
	VAOs           map[core.VertexArrayID]bool
	DeletedVAOs    []core.VertexArrayID
	Enabled        map[uint32]bool
	Pointers       map[uint32]Pointer
	Targets        map[core.TargetID]Target
	DeletedTargets []core.TargetID
	Draws          []DrawCall
	Calls          []string

	BoundBuffer core.BufferID
	BoundVAO    core.VertexArrayID
	BoundTarget core.TargetID
	ViewportWH  [2]int
	Flushes     int
	Textures    map[int]core.Texture

	next uint32
}

func New() *Device {
	return &Device{
		MaxTexture:    16384,
		Buffers:       map[core.BufferID][]byte{},
		Invalidations: map[core.BufferID]int{},
		VAOs:          map[core.VertexArrayID]bool{},
		Enabled:       map[uint32]bool{},
		Pointers:      map[uint32]Pointer{},
		Targets:       map[core.TargetID]Target{},
		Textures:      map[int]core.Texture{},
	}
}

func (d *Device) id() uint32 { d.next++; return d.next }

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Reset forgets recorded calls but keeps resources.
func (d *Device) Reset() { d.Calls = nil; d.Draws = nil }

// EnabledLocations returns the enabled attribute locations in ascending order.
func (d *Device) EnabledLocations() []uint32 {
	var out []uint32
	for loc, on := range d.Enabled {
		if on {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (d *Device) CreateBuffer(size int, usage core.Usage) (core.BufferID, error) {
	if d.RejectBuffer {
		return 0, ErrRejected
	}
	id := core.BufferID(d.id())
	d.Buffers[id] = make([]byte, size)
	d.record("CreateBuffer %d %d %s", id, size, usage)
	return id, nil
}

func (d *Device) BindBuffer(id core.BufferID) { d.BoundBuffer = id }

func (d *Device) UploadBuffer(id core.BufferID, offset int, data []byte) {
	buf, ok := d.Buffers[id]
	if !ok {
		panic(fmt.Sprintf("gpufake: upload to unknown buffer %d", id))
	}
	if offset+len(data) > len(buf) {
		panic(fmt.Sprintf("gpufake: upload [%d,%d) beyond buffer size %d", offset, offset+len(data), len(buf)))
	}
	copy(buf[offset:], data)
	d.record("UploadBuffer %d %d %d", id, offset, len(data))
}

func (d *Device) InvalidateBuffer(id core.BufferID) {
	d.Invalidations[id]++
	d.record("InvalidateBuffer %d", id)
}

func (d *Device) DeleteBuffer(id core.BufferID) {
	delete(d.Buffers, id)
	d.DeletedBuffers = append(d.DeletedBuffers, id)
	d.record("DeleteBuffer %d", id)
}

func (d *Device) CreateVertexArray() (core.VertexArrayID, error) {
	id := core.VertexArrayID(d.id())
	d.VAOs[id] = true
	return id, nil
}

func (d *Device) BindVertexArray(id core.VertexArrayID) { d.BoundVAO = id }

func (d *Device) DeleteVertexArray(id core.VertexArrayID) {
	delete(d.VAOs, id)
	d.DeletedVAOs = append(d.DeletedVAOs, id)
	d.record("DeleteVertexArray %d", id)
}

func (d *Device) AttribPointer(location uint32, count int, kind vertex.Kind, stride, offset int) {
	d.Pointers[location] = Pointer{Count: count, Kind: kind, Stride: stride, Offset: offset, VAO: d.BoundVAO}
}

func (d *Device) EnableAttrib(location uint32) {
	d.Enabled[location] = true
	d.record("EnableAttrib %d", location)
}

func (d *Device) DisableAttrib(location uint32) {
	d.Enabled[location] = false
	d.record("DisableAttrib %d", location)
}

func (d *Device) Draw(mode core.Primitive, first, count int) {
	d.Draws = append(d.Draws, DrawCall{
		Mode: mode, First: first, Count: count,
		VAO: d.BoundVAO, Target: d.BoundTarget,
		Invalidated: d.Invalidations[d.BoundBuffer],
	})
	d.record("Draw %d %d %d", mode, first, count)
}

func (d *Device) CreateRenderTarget(w, h int) (core.TargetID, error) {
	if d.RejectTarget {
		return 0, ErrRejected
	}
	id := core.TargetID(d.id())
	d.Targets[id] = Target{W: w, H: h}
	d.record("CreateRenderTarget %d %dx%d", id, w, h)
	return id, nil
}

func (d *Device) BindRenderTarget(id core.TargetID) {
	d.BoundTarget = id
	d.record("BindRenderTarget %d", id)
}

func (d *Device) DeleteRenderTarget(id core.TargetID) {
	delete(d.Targets, id)
	d.DeletedTargets = append(d.DeletedTargets, id)
	d.record("DeleteRenderTarget %d", id)
}

func (d *Device) Viewport(_, _, w, h int) {
	d.ViewportWH = [2]int{w, h}
	d.record("Viewport %dx%d", w, h)
}

func (d *Device) Clear(r, g, b, a float32) { d.record("Clear") }

func (d *Device) ReadPixels(w, h, rowStride int, dst []byte) error {
	if rowStride < w*4 {
		return fmt.Errorf("gpufake: row stride %d smaller than row %d", rowStride, w*4)
	}
	if len(dst) < rowStride*(h-1)+w*4 {
		return fmt.Errorf("gpufake: destination too small")
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var px [4]byte
			if d.Pixel != nil {
				px = d.Pixel(x, y)
			}
			copy(dst[y*rowStride+x*4:], px[:])
		}
	}
	d.record("ReadPixels %dx%d", w, h)
	return nil
}

func (d *Device) Flush() {
	d.Flushes++
	d.record("Flush")
}

func (d *Device) MaxTextureSize() int { return d.MaxTexture }

func (d *Device) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	return &Texture{id: d.id(), w: desc.Width, h: desc.Height}, nil
}

func (d *Device) BindTexture(unit int, t core.Texture) { d.Textures[unit] = t }

type Texture struct {
	id       uint32
	w, h     int
	Released bool
}

// NewTexture returns a standalone texture handle.
func NewTexture(id uint32) *Texture { return &Texture{id: id, w: 1, h: 1} }

func (t *Texture) ID() uint32  { return t.id }
func (t *Texture) Width() int  { return t.w }
func (t *Texture) Height() int { return t.h }
func (t *Texture) Release()    { t.Released = true }

// Shader declares a fixed set of attributes and uniforms.
type Shader struct {
	Program  uint32
	Attribs  map[string]uint32
	Uniforms map[string]int32
	Values   map[string]any
	Uses     int
}

// NewShader declares the shader inputs for flags at consecutive locations,
// in ascending bit order, plus the given uniforms.
func NewShader(program uint32, flags vertex.Flag, uniforms ...string) *Shader {
	s := &Shader{
		Program:  program,
		Attribs:  map[string]uint32{},
		Uniforms: map[string]int32{},
		Values:   map[string]any{},
	}
	for i, f := range flags.Bits() {
		s.Attribs[f.ShaderInput()] = uint32(i)
	}
	for i, u := range uniforms {
		s.Uniforms[u] = int32(i)
	}
	return s
}

func (s *Shader) ID() uint32 { return s.Program }
func (s *Shader) Use()       { s.Uses++ }

func (s *Shader) Attribute(name string) (uint32, bool) {
	loc, ok := s.Attribs[name]
	return loc, ok
}

func (s *Shader) Uniform(name string) (int32, bool) {
	loc, ok := s.Uniforms[name]
	return loc, ok
}

func (s *Shader) set(name string, v any) error {
	if _, ok := s.Uniforms[name]; !ok {
		return fmt.Errorf("gpufake: uniform %q: %w", name, core.ErrAttributeNotFound)
	}
	s.Values[name] = v
	return nil
}

func (s *Shader) SetMat4(name string, m mat.Mat4) error   { return s.set(name, m) }
func (s *Shader) SetInt(name string, v int32) error       { return s.set(name, v) }
func (s *Shader) SetVec4(name string, v [4]float32) error { return s.set(name, v) }
