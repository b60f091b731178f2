package geom

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/gfx/gpufake"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/vbuf"
	"github.com/hubastard/scrawl/engine/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func f32At(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

func TestComposeOrder(t *testing.T) {
	ts := NewTransformStack()
	ts.PushTranslate(mat.V3(1, 0, 0))
	ts.PushScale(mat.V3(2, 2, 2))
	got := ts.Compose(mat.Identity())
	want := mat.Identity().Mul(mat.Translation(mat.V3(1, 0, 0))).Mul(mat.Scaling(mat.V3(2, 2, 2)))
	assert.True(t, got.ApproxEqual(want, eps))

	st := NewTransformStack()
	st.PushScale(mat.V3(2, 2, 2))
	st.PushTranslate(mat.V3(1, 0, 0))
	other := st.Compose(mat.Identity())
	assert.False(t, got.ApproxEqual(other, eps))

	// last pushed acts first on local space
	p := got.MulPoint(mat.V3(1, 0, 0))
	assert.InDelta(t, 3, p.X, eps)
	p = other.MulPoint(mat.V3(1, 0, 0))
	assert.InDelta(t, 4, p.X, eps)
}

func TestComposeOntoBase(t *testing.T) {
	base := mat.Translation(mat.V3(0, 10, 0))
	ts := NewTransformStack()
	ts.PushRotate(mat.AxisZ, 90)
	p := ts.Compose(base).MulPoint(mat.V3(1, 0, 0))
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 11, p.Y, eps)

	empty := NewTransformStack()
	assert.Equal(t, base, empty.Compose(base))
}

func TestTransformStackGrowsByDoubling(t *testing.T) {
	ts := NewTransformStack()
	assert.Equal(t, 8, ts.Cap())
	for i := 0; i < 9; i++ {
		ts.PushTranslate(mat.V3(float32(i), 0, 0))
	}
	assert.Equal(t, 9, ts.Len())
	assert.Equal(t, 16, ts.Cap())
	assert.Equal(t, float32(8), ts.At(8).Vector.X)
}

func TestRotateStoresRadians(t *testing.T) {
	ts := NewTransformStack()
	ts.PushRotate(mat.AxisY, 180)
	assert.InDelta(t, math.Pi, ts.At(0).Radians, eps)
}

func TestUnknownTransformKindPanics(t *testing.T) {
	assert.Panics(t, func() { Transform{Kind: TransformKind(9)}.Matrix() })
}

func TestFlagsAreMonotonic(t *testing.T) {
	tex := gpufake.NewTexture(1)
	a := New(Quad, mat.Identity()).Color(1, 0, 0, 1).Normal(0, 1, 0).Texture(tex)
	b := New(Quad, mat.Identity()).Texture(tex).Normal(0, 0, 1).Grey(0.5, 1)

	want := vertex.Position0 | vertex.Normal0 | vertex.Color0 | vertex.Uv0
	assert.Equal(t, want, a.Flags())
	assert.Equal(t, want, b.Flags())
	assert.Equal(t, a.Flags().Key(), b.Flags().Key())

	before := a.Flags()
	a.Translate(1, 1, 0).Position(3, 3, 0).ColorBytes(0, 0, 0, 255)
	assert.True(t, a.Flags().Has(before))
}

func TestDefaults(t *testing.T) {
	b := New(Triangle, mat.Identity())
	assert.Equal(t, vertex.Position0, b.Flags())
	assert.NotEqual(t, b.ID(), New(Triangle, mat.Identity()).ID())
	assert.Equal(t, vertex.Position0|vertex.Normal0, New(Cube, mat.Identity()).Flags())
}

func TestTextureSlotCapacity(t *testing.T) {
	b := New(Quad, mat.Identity())
	texs := []core.Texture{gpufake.NewTexture(1), gpufake.NewTexture(2), gpufake.NewTexture(3), gpufake.NewTexture(4)}
	for _, tex := range texs {
		b.Texture(tex)
	}
	require.NoError(t, b.Err())
	assert.Equal(t, texs, b.Textures())
	assert.True(t, b.Flags().Has(vertex.Uv0|vertex.Uv1|vertex.Uv2|vertex.Uv3))

	b.Texture(gpufake.NewTexture(5))
	assert.ErrorIs(t, b.Err(), ErrCapacityExceeded)
	assert.Equal(t, texs, b.Textures())

	dev := gpufake.New()
	buf, err := vbuf.New(dev, 64, vertex.Standard(), core.UsageStream)
	require.NoError(t, err)
	_, err = b.WriteTo(buf)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 0, buf.UsedBytes())
}

func TestSegments(t *testing.T) {
	c := New(Circle, mat.Identity())
	assert.Equal(t, DefaultSegments+2, c.VertexCount())
	c.Segments(6)
	assert.Equal(t, 8, c.VertexCount())
	assert.Equal(t, core.TriangleFan, c.Primitive())

	assert.ErrorIs(t, New(Circle, mat.Identity()).Segments(2).Err(), ErrInvalidSegments)
	assert.ErrorIs(t, New(Quad, mat.Identity()).Segments(8).Err(), ErrNotCircle)
}

func TestVertexCountMatchesExpansion(t *testing.T) {
	for _, k := range []Kind{Triangle, Quad, Circle, Cube} {
		b := New(k, mat.Identity())
		assert.Len(t, b.Vertices(), b.VertexCount(), k.String())
	}
}

func TestCubeNormalsPointOutward(t *testing.T) {
	for _, v := range New(Cube, mat.Identity()).Vertices() {
		assert.InDelta(t, 1, v.Normal.Len(), eps)
		assert.Greater(t, v.Pos.Dot(v.Normal), float32(0))
	}
}

func TestWriteToBakesModelMatrix(t *testing.T) {
	dev := gpufake.New()
	layout := vertex.PositionColor()
	buf, err := vbuf.New(dev, 16, layout, core.UsageStream)
	require.NoError(t, err)

	first, err := New(Triangle, mat.Translation(mat.V3(10, 0, 0))).
		Position(0, 1, 0).
		Scale(2, 2, 2).
		Color(0.25, 0.5, 0.75, 1).
		WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	assert.Equal(t, 3, buf.UsedElements())

	data := dev.Buffers[buf.ID()]
	// apex (0,0.5) + position (0,1) scaled by 2 then moved by 10 on x
	assert.InDelta(t, 10, f32At(data, 0), eps)
	assert.InDelta(t, 3, f32At(data, 4), eps)
	assert.InDelta(t, 0.5, f32At(data, 16), eps)

	second, err := New(Quad, mat.Identity()).WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, second)
	assert.Equal(t, 9, buf.UsedElements())
	// default color is opaque black
	off := 3 * layout.Stride()
	assert.Equal(t, float32(0), f32At(data, off+12))
	assert.Equal(t, float32(1), f32At(data, off+24))
}

func TestWriteToNormalsUseLinearPart(t *testing.T) {
	dev := gpufake.New()
	layout := vertex.NewLayout(vertex.P(vertex.Position0, 3, vertex.Float32), vertex.P(vertex.Normal0, 3, vertex.Float32))
	buf, err := vbuf.New(dev, 3, layout, core.UsageStream)
	require.NoError(t, err)

	_, err = New(Triangle, mat.Translation(mat.V3(5, 5, 5))).
		Rotate(90, mat.AxisX).
		Scale(3, 3, 3).
		WriteTo(buf)
	require.NoError(t, err)

	data := dev.Buffers[buf.ID()]
	assert.InDelta(t, 0, f32At(data, 12), eps)
	assert.InDelta(t, -1, f32At(data, 16), eps)
	assert.InDelta(t, 0, f32At(data, 20), eps)
}

func TestWriteToFailsAtomically(t *testing.T) {
	dev := gpufake.New()
	buf, err := vbuf.New(dev, 8, vertex.PositionColor(), core.UsageStream)
	require.NoError(t, err)

	_, err = New(Quad, mat.Identity()).WriteTo(buf)
	require.NoError(t, err)
	used := buf.UsedBytes()

	_, err = New(Quad, mat.Identity()).WriteTo(buf)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.ErrorIs(t, err, vbuf.ErrCapacityExceeded)
	assert.Equal(t, used, buf.UsedBytes())

	_, err = New(Triangle, mat.Identity()).WriteTo(buf)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	buf.Clear()
	_, err = New(Quad, mat.Identity()).WriteTo(buf)
	assert.NoError(t, err)
}

func TestNilTextureIsRejected(t *testing.T) {
	b := New(Quad, mat.Identity()).Texture(nil)
	assert.ErrorIs(t, b.Err(), ErrNilTexture)
	assert.False(t, b.Flags().Has(vertex.Uv0))
	assert.Empty(t, b.Textures())

	tex := gpufake.NewTexture(1)
	b.Texture(tex)
	assert.Equal(t, []core.Texture{tex}, b.Textures())
	assert.True(t, b.Flags().Has(vertex.Uv0))
	assert.False(t, b.Flags().Has(vertex.Uv1))
}

func TestWriteToRejectsMisalignedCursor(t *testing.T) {
	dev := gpufake.New()
	buf, err := vbuf.New(dev, 16, vertex.PositionColor(), core.UsageStream)
	require.NoError(t, err)
	require.NoError(t, buf.WriteFloat32(1, 2, 3))

	_, err = New(Triangle, mat.Identity()).WriteTo(buf)
	assert.ErrorIs(t, err, ErrMisaligned)
	assert.Equal(t, 12, buf.UsedBytes())

	buf.Clear()
	first, err := New(Triangle, mat.Identity()).WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, first)
}

func TestWriteToPacksIntegerColor(t *testing.T) {
	dev := gpufake.New()
	layout := vertex.NewLayout(vertex.P(vertex.Position0, 3, vertex.Float32), vertex.P(vertex.Color0, 4, vertex.Uint8))
	buf, err := vbuf.New(dev, 3, layout, core.UsageStream)
	require.NoError(t, err)

	_, err = New(Triangle, mat.Identity()).ColorBytes(255, 0, 128, 255).WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, layout.Stride())
	assert.Equal(t, []byte{255, 0, 128, 255}, dev.Buffers[buf.ID()][12:16])
}
