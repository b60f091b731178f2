// Package geom holds the per-instance geometry builder and the transform
// stack it composes into a model matrix.
package geom

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hubastard/scrawl/engine/colors"
	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/scratch"
	"github.com/hubastard/scrawl/engine/vbuf"
	"github.com/hubastard/scrawl/engine/vertex"
)

// MaxTextures is the number of texture slots, one per UV channel.
const MaxTextures = len(vertex.UvChannels)

var (
	ErrCapacityExceeded = vertex.ErrCapacityExceeded
	ErrInvalidSegments  = errors.New("geom: a circle needs at least 3 segments")
	ErrNotCircle        = errors.New("geom: segments only apply to circles")
	ErrNilTexture       = errors.New("geom: nil texture")
	ErrMisaligned       = errors.New("geom: buffer cursor is not on a vertex boundary")
)

var (
	defaultNormal = mat.V3(0, 0, 1)
	defaultColor  = colors.Black
)

// staging is shared by every builder; all writes happen on the render thread.
var staging = scratch.New(64 * 1024)

// Builder accumulates attribute defaults and transforms for one drawable
// instance. Setters chain; the first setter error is kept and returned by
// WriteTo. A builder is written once and then dropped.
type Builder struct {
	id         uuid.UUID
	kind       Kind
	base       mat.Mat4
	transforms *TransformStack

	position mat.Vec3
	normal   mat.Vec3
	color    colors.Color
	textures [MaxTextures]core.Texture
	flags    vertex.Flag
	segments int

	err   error
	verts []Vertex
}

// New starts a geometry of kind on top of base, typically the caller's
// current model matrix.
func New(kind Kind, base mat.Mat4) *Builder {
	b := &Builder{
		id:         uuid.New(),
		kind:       kind,
		base:       base,
		transforms: NewTransformStack(),
		normal:     defaultNormal,
		color:      defaultColor,
		flags:      vertex.Position0,
		segments:   DefaultSegments,
	}
	if kind == Cube {
		b.flags = b.flags.Add(vertex.Normal0)
	}
	return b
}

func (b *Builder) ID() uuid.UUID               { return b.id }
func (b *Builder) Kind() Kind                  { return b.kind }
func (b *Builder) Flags() vertex.Flag          { return b.flags }
func (b *Builder) Err() error                  { return b.err }
func (b *Builder) Transforms() *TransformStack { return b.transforms }
func (b *Builder) Primitive() core.Primitive   { return b.kind.Primitive() }
func (b *Builder) VertexCount() int            { return vertexCount(b.kind, b.segments) }

// ModelMatrix composes the pushed transforms onto the base matrix.
func (b *Builder) ModelMatrix() mat.Mat4 { return b.transforms.Compose(b.base) }

// Textures returns the attached textures in slot order.
func (b *Builder) Textures() []core.Texture {
	var out []core.Texture
	for _, t := range b.textures {
		if t == nil {
			break
		}
		out = append(out, t)
	}
	return out
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Position moves the shape center in local space, before any transform.
func (b *Builder) Position(x, y, z float32) *Builder {
	b.position = mat.V3(x, y, z)
	return b
}

func (b *Builder) Normal(x, y, z float32) *Builder {
	b.normal = mat.V3(x, y, z)
	b.flags = b.flags.Add(vertex.Normal0)
	return b
}

func (b *Builder) Color(r, g, bl, a float32) *Builder {
	b.color = colors.Color{r, g, bl, a}
	b.flags = b.flags.Add(vertex.Color0)
	return b
}

// ColorBytes sets the color from 0..255 channels.
func (b *Builder) ColorBytes(r, g, bl, a uint8) *Builder {
	c := colors.FromBytes(r, g, bl, a)
	return b.Color(c[0], c[1], c[2], c[3])
}

func (b *Builder) Grey(g, a float32) *Builder { return b.Color(g, g, g, a) }

// Texture attaches t to the first free slot and enables that slot's UV
// channel. A fifth texture fails with ErrCapacityExceeded.
func (b *Builder) Texture(t core.Texture) *Builder {
	if t == nil {
		return b.fail(ErrNilTexture)
	}
	for i := range b.textures {
		if b.textures[i] == nil {
			b.textures[i] = t
			b.flags = b.flags.Add(vertex.UvChannels[i])
			return b
		}
	}
	return b.fail(fmt.Errorf("geom: all %d texture slots in use: %w", MaxTextures, ErrCapacityExceeded))
}

func (b *Builder) Translate(x, y, z float32) *Builder {
	b.transforms.PushTranslate(mat.V3(x, y, z))
	return b
}

func (b *Builder) Scale(x, y, z float32) *Builder {
	b.transforms.PushScale(mat.V3(x, y, z))
	return b
}

func (b *Builder) ScaleUniform(s float32) *Builder { return b.Scale(s, s, s) }

func (b *Builder) Rotate(degrees float32, axis mat.Vec3) *Builder {
	b.transforms.PushRotate(axis, degrees)
	return b
}

// Segments sets the rim vertex count of a circle.
func (b *Builder) Segments(n int) *Builder {
	if b.kind != Circle {
		return b.fail(ErrNotCircle)
	}
	if n < 3 {
		return b.fail(fmt.Errorf("%w, got %d", ErrInvalidSegments, n))
	}
	b.segments = n
	return b
}

// Vertices returns the expanded local-space vertices, without the builder
// position or model matrix applied.
func (b *Builder) Vertices() []Vertex {
	b.verts = expand(b.verts[:0], b.kind, b.segments, b.normal)
	return b.verts
}

// WriteTo bakes the model matrix into the expanded vertices, packs them in
// buf's layout and uploads them in a single write. It returns the index of
// the first vertex written. On error nothing is written.
func (b *Builder) WriteTo(buf *vbuf.Buffer) (first int, err error) {
	if b.err != nil {
		return 0, b.err
	}
	layout := buf.Layout()
	if s := layout.Stride(); s > 0 && buf.UsedBytes()%s != 0 {
		return 0, fmt.Errorf("geom: %d bytes in use, stride %d: %w", buf.UsedBytes(), s, ErrMisaligned)
	}
	n := b.VertexCount()
	if !buf.CanWriteElements(n) {
		return 0, fmt.Errorf("geom: %s needs %d vertices, %d of %d in use: %w",
			b.kind, n, buf.UsedElements(), buf.TotalElements(), ErrCapacityExceeded)
	}

	m := b.ModelMatrix()
	mark := staging.Mark()
	defer staging.Truncate(mark)
	staging.Ensure(n * layout.Stride())

	for _, v := range b.Vertices() {
		p := m.MulPoint(v.Pos.Add(b.position))
		nrm := m.MulDir(v.Normal).Normalize()
		for i := 0; i < layout.Len(); i++ {
			part := layout.Part(i)
			var comps [4]float32
			switch {
			case part.Flag == vertex.Position0:
				comps = [4]float32{p.X, p.Y, p.Z, 1}
			case part.Flag == vertex.Normal0:
				comps = [4]float32{nrm.X, nrm.Y, nrm.Z, 0}
			case part.Flag == vertex.Color0 || part.Flag == vertex.Color1:
				comps = b.color
			case part.Flag.UvIndex() >= 0:
				comps = [4]float32{v.UV.X, v.UV.Y, 0, 1}
			}
			for c := 0; c < part.Count; c++ {
				var x float32
				if c < len(comps) {
					x = comps[c]
				}
				staging.Put(part.Kind, x)
			}
		}
	}

	first = buf.UsedElements()
	if err := buf.Write(staging.BytesFrom(mark)); err != nil {
		return 0, err
	}
	return first, nil
}
