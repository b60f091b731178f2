package graphics

import (
	"testing"

	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/geom"
	"github.com/hubastard/scrawl/engine/gfx/gpufake"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/shader"
	"github.com/hubastard/scrawl/engine/vbuf"
	"github.com/hubastard/scrawl/engine/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCamera mat.Mat4

func (c fixedCamera) ViewProjection() mat.Mat4 { return mat.Mat4(c) }

type fixture struct {
	dev      *gpufake.Device
	g        *Graphics
	compiled map[string]*gpufake.Shader
}

func newFixture(t *testing.T, vertices int) *fixture {
	t.Helper()
	f := &fixture{dev: gpufake.New(), compiled: map[string]*gpufake.Shader{}}
	buf, err := vbuf.New(f.dev, vertices, vertex.Standard(), core.UsageStream)
	require.NoError(t, err)

	program := uint32(100)
	reg := shader.NewRegistry(func(flags vertex.Flag) (core.Shader, error) {
		program++
		uniforms := []string{shader.UniformViewProjection, "uTint"}
		for i := 0; i < geom.MaxTextures; i++ {
			uniforms = append(uniforms, shader.UniformTexture(i))
		}
		sh := gpufake.NewShader(program, flags, uniforms...)
		f.compiled[flags.Key()] = sh
		return sh, nil
	})
	f.g = New(f.dev, buf, reg)
	return f
}

func TestMatrixStack(t *testing.T) {
	f := newFixture(t, 64)
	g := f.g

	g.PushMatrix()
	g.Translate(1, 2, 0)
	g.Rotate(90, mat.AxisZ)
	p := g.ModelMatrix().MulPoint(mat.V3(1, 0, 0))
	assert.InDelta(t, 1, p.X, 1e-5)
	assert.InDelta(t, 3, p.Y, 1e-5)
	g.PopMatrix()
	assert.Equal(t, mat.Identity(), g.ModelMatrix())

	g.Scale(2, 2, 2)
	g.PopMatrix()
	assert.Equal(t, mat.Identity(), g.ModelMatrix(), "an unbalanced pop resets")
}

func TestFactoriesCaptureCurrentMatrix(t *testing.T) {
	f := newFixture(t, 64)
	g := f.g

	g.Translate(5, 0, 0)
	b := g.Quad()
	g.Translate(5, 0, 0)

	p := b.ModelMatrix().MulPoint(mat.V3(0, 0, 0))
	assert.InDelta(t, 5, p.X, 1e-5)
	assert.Equal(t, 1, g.Pending())
}

func TestFlushDrawsEachGeometry(t *testing.T) {
	f := newFixture(t, 128)
	g := f.g
	vp := fixedCamera(mat.Scaling(mat.V3(0.5, 0.5, 1)))
	g.SetCamera(vp)
	g.SetUniform("uTint", [4]float32{1, 0, 0, 1})

	g.Quad().Color(1, 0, 0, 1)
	g.Circle().Segments(8).Texture(gpufake.NewTexture(9))
	g.Triangle()

	require.NoError(t, g.Flush())

	require.Len(t, f.dev.Draws, 3)
	assert.Equal(t, core.Triangles, f.dev.Draws[0].Mode)
	assert.Equal(t, 0, f.dev.Draws[0].First)
	assert.Equal(t, 6, f.dev.Draws[0].Count)
	assert.Equal(t, core.TriangleFan, f.dev.Draws[1].Mode)
	assert.Equal(t, 6, f.dev.Draws[1].First)
	assert.Equal(t, 10, f.dev.Draws[1].Count)
	assert.Equal(t, 16, f.dev.Draws[2].First)

	s := g.Stats()
	assert.Equal(t, 3, s.DrawCalls)
	assert.Equal(t, 19, s.Vertices)
	assert.Equal(t, 0, g.Pending())
	assert.Equal(t, 0, g.Buffer().UsedBytes())

	colored := f.compiled["Position0_Color0"]
	require.NotNil(t, colored)
	assert.Equal(t, mat.Mat4(vp), colored.Values[shader.UniformViewProjection])
	assert.Equal(t, [4]float32{1, 0, 0, 1}, colored.Values["uTint"])

	textured := f.compiled["Position0_Uv0"]
	require.NotNil(t, textured)
	assert.Equal(t, int32(0), textured.Values[shader.UniformTexture(0)])
	assert.Equal(t, uint32(9), f.dev.Textures[0].ID())
}

func TestFlushRefillsWhenFull(t *testing.T) {
	f := newFixture(t, 10)
	g := f.g

	g.Quad()
	g.Quad()
	require.NoError(t, g.Flush())

	require.Len(t, f.dev.Draws, 2)
	assert.Equal(t, 0, f.dev.Draws[1].First)
	assert.Equal(t, 1, g.Stats().Refills)
}

func TestFlushReportsOversizedGeometry(t *testing.T) {
	f := newFixture(t, 10)
	g := f.g

	g.Circle()
	g.Quad()
	err := g.Flush()
	assert.ErrorIs(t, err, vertex.ErrCapacityExceeded)
	assert.Len(t, f.dev.Draws, 1, "the quad is still drawn")
}

func TestFlushSkipsBrokenBuilder(t *testing.T) {
	f := newFixture(t, 64)
	g := f.g

	q := g.Quad()
	for i := 0; i < 5; i++ {
		q.Texture(gpufake.NewTexture(uint32(i + 1)))
	}
	g.Triangle()

	err := g.Flush()
	assert.ErrorIs(t, err, geom.ErrCapacityExceeded)
	assert.Len(t, f.dev.Draws, 1)
}

func TestBeginFrameResets(t *testing.T) {
	f := newFixture(t, 64)
	g := f.g
	g.PushMatrix()
	g.Translate(1, 1, 1)
	g.Triangle()
	require.NoError(t, g.Flush())

	g.BeginFrame()
	assert.Equal(t, mat.Identity(), g.ModelMatrix())
	assert.Equal(t, Statistics{}, g.Stats())
}
