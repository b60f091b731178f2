package core

import (
	"errors"

	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/vertex"
)

// Usage is the update-frequency hint given when a GPU buffer is allocated.
type Usage int

const (
	UsageStatic Usage = iota
	UsageDynamic
	UsageStream
)

func (u Usage) String() string {
	switch u {
	case UsageStatic:
		return "static"
	case UsageDynamic:
		return "dynamic"
	case UsageStream:
		return "stream"
	}
	return "unknown"
}

// Primitive selects how vertices are assembled by Draw.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleFan
	TriangleStrip
	Lines
	Points
)

// Opaque device handles. Zero is never a valid buffer or vertex array;
// DefaultTarget is the window framebuffer.
type (
	BufferID      uint32
	VertexArrayID uint32
	TargetID      uint32
)

const DefaultTarget TargetID = 0

// Device is the slice of a graphics API the drawing core needs.
// Implementations are not safe for concurrent use; every call happens on
// the render thread.
type Device interface {
	CreateBuffer(size int, usage Usage) (BufferID, error)
	BindBuffer(id BufferID)
	UploadBuffer(id BufferID, offset int, data []byte)
	InvalidateBuffer(id BufferID)
	DeleteBuffer(id BufferID)

	CreateVertexArray() (VertexArrayID, error)
	BindVertexArray(id VertexArrayID)
	DeleteVertexArray(id VertexArrayID)
	AttribPointer(location uint32, count int, kind vertex.Kind, stride, offset int)
	EnableAttrib(location uint32)
	DisableAttrib(location uint32)
	Draw(mode Primitive, first, count int)

	CreateRenderTarget(w, h int) (TargetID, error)
	BindRenderTarget(id TargetID)
	DeleteRenderTarget(id TargetID)
	Viewport(x, y, w, h int)
	Clear(r, g, b, a float32)
	// ReadPixels copies the bound target's RGBA8 pixels, bottom row first,
	// into dst using rowStride bytes per row.
	ReadPixels(w, h, rowStride int, dst []byte) error
	Flush()
	MaxTextureSize() int

	CreateTexture(desc TextureDesc) (Texture, error)
	BindTexture(unit int, t Texture)
}

// ErrAttributeNotFound reports a shader input or uniform the program does
// not declare.
var ErrAttributeNotFound = errors.New("attribute not found")

// Shader is a linked program as seen by the buffers and the graphics
// context. Attribute lookups may miss; callers decide whether that is fatal.
type Shader interface {
	ID() uint32
	Use()
	Attribute(name string) (uint32, bool)
	Uniform(name string) (int32, bool)
	SetMat4(name string, m mat.Mat4) error
	SetInt(name string, v int32) error
	SetVec4(name string, v [4]float32) error
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type TextureDesc struct {
	Width, Height        int
	Format               TextureFormat
	Pixels               []byte // tightly packed rows, bottom row first
	MinFilter, MagFilter string // "nearest" | "linear"
	WrapU, WrapV         string // "clamp" | "repeat"
}

type Texture interface {
	ID() uint32
	Width() int
	Height() int
	Release()
}

// Camera supplies the view-projection matrix geometries are drawn with.
type Camera interface {
	ViewProjection() mat.Mat4
}
