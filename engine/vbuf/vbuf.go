// Package vbuf implements the streaming vertex buffer: a fixed-capacity GPU
// buffer filled through a bump cursor and reset wholesale with Clear.
package vbuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hubastard/scrawl/engine/colors"
	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/vertex"
)

var (
	// ErrCapacityExceeded is returned when a write does not fit in the
	// remaining space. It is the same value as vertex.ErrCapacityExceeded.
	ErrCapacityExceeded = vertex.ErrCapacityExceeded

	ErrInvalidElementCount = errors.New("vbuf: element count must be positive")
	ErrReleased            = errors.New("vbuf: buffer has been released")
)

// Buffer owns one GPU buffer and one vertex array. The write cursor only
// moves forward until Clear; a write that does not fit fails whole.
type Buffer struct {
	dev    core.Device
	layout *vertex.Layout
	usage  core.Usage

	id  core.BufferID
	vao core.VertexArrayID

	totalBytes int
	usedBytes  int

	// last ToggleElements request, to skip redundant state changes
	toggled       bool
	toggledShader uint32
	toggledFlags  vertex.Flag
	appliedFlags  vertex.Flag

	enc      []byte
	released bool
}

// New allocates room for elementCount vertices of layout. The contents are
// uninitialized.
func New(dev core.Device, elementCount int, layout *vertex.Layout, usage core.Usage) (*Buffer, error) {
	if elementCount <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidElementCount, elementCount)
	}
	total := elementCount * layout.Stride()

	id, err := dev.CreateBuffer(total, usage)
	if err != nil {
		return nil, fmt.Errorf("vbuf: allocate %d bytes: %w", total, err)
	}
	vao, err := dev.CreateVertexArray()
	if err != nil {
		dev.DeleteBuffer(id)
		return nil, fmt.Errorf("vbuf: create vertex array: %w", err)
	}

	core.Logger().Debug("vbuf: allocated",
		"buffer", id, "elements", elementCount, "stride", layout.Stride(),
		"bytes", total, "usage", usage, "layout", layout.Key(false))

	return &Buffer{
		dev:        dev,
		layout:     layout,
		usage:      usage,
		id:         id,
		vao:        vao,
		totalBytes: total,
	}, nil
}

func (b *Buffer) Layout() *vertex.Layout { return b.layout }
func (b *Buffer) Usage() core.Usage      { return b.usage }
func (b *Buffer) ID() core.BufferID      { return b.id }
func (b *Buffer) UsedBytes() int         { return b.usedBytes }
func (b *Buffer) TotalBytes() int        { return b.totalBytes }
func (b *Buffer) Released() bool         { return b.released }

// UsedElements is the number of vertex records started so far.
func (b *Buffer) UsedElements() int {
	s := b.layout.Stride()
	if s == 0 {
		return 0
	}
	return (b.usedBytes + s - 1) / s
}

func (b *Buffer) TotalElements() int {
	s := b.layout.Stride()
	if s == 0 {
		return 0
	}
	return b.totalBytes / s
}

// CanWriteElements reports whether n more whole vertices fit.
func (b *Buffer) CanWriteElements(n int) bool {
	if n < 0 || b.released {
		return false
	}
	return b.usedBytes+n*b.layout.Stride() <= b.totalBytes
}

// Flags is the union of the layout part flags.
func (b *Buffer) Flags(enabledOnly bool) vertex.Flag { return b.layout.Flags(enabledOnly) }

// Key is the shader variant key for the enabled parts.
func (b *Buffer) Key() string { return b.layout.Key(true) }

// Write uploads p at the cursor and advances it by len(p).
func (b *Buffer) Write(p []byte) error {
	if b.released {
		return ErrReleased
	}
	if len(p) == 0 {
		return nil
	}
	if b.usedBytes+len(p) > b.totalBytes {
		return fmt.Errorf("vbuf: write of %d bytes at %d/%d: %w", len(p), b.usedBytes, b.totalBytes, ErrCapacityExceeded)
	}
	b.dev.BindBuffer(b.id)
	b.dev.UploadBuffer(b.id, b.usedBytes, p)
	b.usedBytes += len(p)
	return nil
}

// WriteFloat32 writes v as little-endian float32 values.
func (b *Buffer) WriteFloat32(v ...float32) error {
	p := b.scratch(len(v) * 4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(f))
	}
	return b.Write(p)
}

// WriteUint32 writes v as little-endian uint32 values.
func (b *Buffer) WriteUint32(v ...uint32) error {
	p := b.scratch(len(v) * 4)
	for i, u := range v {
		binary.LittleEndian.PutUint32(p[i*4:], u)
	}
	return b.Write(p)
}

func (b *Buffer) WriteVec3(v mat.Vec3) error      { return b.WriteFloat32(v.X, v.Y, v.Z) }
func (b *Buffer) WriteColor(c colors.Color) error { return b.WriteFloat32(c[0], c[1], c[2], c[3]) }

func (b *Buffer) scratch(n int) []byte {
	if cap(b.enc) < n {
		b.enc = make([]byte, n)
	}
	return b.enc[:n]
}

// Clear resets the cursor and tells the device the old contents are dead.
func (b *Buffer) Clear() {
	if b.released {
		return
	}
	b.dev.BindBuffer(b.id)
	b.dev.InvalidateBuffer(b.id)
	b.usedBytes = 0
}

func (b *Buffer) Bind() {
	b.dev.BindVertexArray(b.vao)
	b.dev.BindBuffer(b.id)
}

func (b *Buffer) Unbind() {
	b.dev.BindBuffer(0)
	b.dev.BindVertexArray(0)
}

// SetEnabled masks or unmasks a layout part. The next ToggleElements call
// re-applies attribute state.
func (b *Buffer) SetEnabled(flag vertex.Flag, enabled bool) bool {
	b.toggled = false
	return b.layout.SetEnabled(flag, enabled)
}

// BindForDraw binds the buffer and enables every enabled part the shader
// declares. Parts the shader does not declare are skipped. It returns the
// flags that ended up enabled.
func (b *Buffer) BindForDraw(shader core.Shader) vertex.Flag {
	b.toggled = false
	b.Bind()
	enabled := vertex.None
	for i := 0; i < b.layout.Len(); i++ {
		part := b.layout.Part(i)
		if !part.Enabled {
			continue
		}
		loc, ok := shader.Attribute(part.Flag.ShaderInput())
		if !ok {
			core.Logger().Debug("vbuf: shader lacks attribute", "program", shader.ID(), "attribute", part.Flag.ShaderInput())
			continue
		}
		b.pointer(loc, i)
		b.dev.EnableAttrib(loc)
		enabled = enabled.Add(part.Flag)
	}
	return enabled
}

// ToggleElements enables the attributes in flags that are enabled in the
// layout and declared by the shader, and disables the shader's other
// inputs. Repeating the last request for the same shader is a no-op.
func (b *Buffer) ToggleElements(shader core.Shader, flags vertex.Flag) vertex.Flag {
	if b.toggled && b.toggledShader == shader.ID() && b.toggledFlags == flags {
		return b.appliedFlags
	}
	b.dev.BindVertexArray(b.vao)
	b.dev.BindBuffer(b.id)

	applied := vertex.None
	for i := 0; i < b.layout.Len(); i++ {
		part := b.layout.Part(i)
		loc, ok := shader.Attribute(part.Flag.ShaderInput())
		if !ok {
			continue
		}
		if part.Enabled && flags.Has(part.Flag) {
			b.pointer(loc, i)
			b.dev.EnableAttrib(loc)
			applied = applied.Add(part.Flag)
		} else {
			b.dev.DisableAttrib(loc)
		}
	}

	core.Logger().Debug("vbuf: toggled attributes", "buffer", b.id, "program", shader.ID(), "requested", flags, "applied", applied)
	b.toggled = true
	b.toggledShader = shader.ID()
	b.toggledFlags = flags
	b.appliedFlags = applied
	return applied
}

func (b *Buffer) pointer(loc uint32, part int) {
	p := b.layout.Part(part)
	b.dev.AttribPointer(loc, p.Count, p.Kind, b.layout.Stride(), b.layout.Offset(part))
}

// Draw issues count vertices starting at vertex first from this buffer.
func (b *Buffer) Draw(mode core.Primitive, first, count int) {
	if count <= 0 {
		return
	}
	b.dev.BindVertexArray(b.vao)
	b.dev.Draw(mode, first, count)
}

// Release frees the GPU buffer and vertex array. Further calls are no-ops.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.Unbind()
	b.dev.DeleteBuffer(b.id)
	b.dev.DeleteVertexArray(b.vao)
	b.released = true
	b.toggled = false
	core.Logger().Debug("vbuf: released", "buffer", b.id)
}
