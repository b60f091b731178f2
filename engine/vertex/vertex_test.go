package vertex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutStrideAndOffsets(t *testing.T) {
	l := NewLayout(
		P(Position0, 3, Float32),
		P(Color0, 4, Uint8),
		P(Uv0, 2, Float32),
		P(Normal0, 3, Int16),
	)
	assert.Equal(t, 3*4+4*1+2*4+3*2, l.Stride())

	want := []int{0, 12, 16, 24}
	for i := 0; i < l.Len(); i++ {
		assert.Equal(t, want[i], l.Offset(i), "offset %d", i)
		if i > 0 {
			assert.Equal(t, l.Offset(i-1)+l.Part(i-1).Bytes(), l.Offset(i), "part %d must follow part %d without a gap", i, i-1)
		}
	}
}

func TestLayoutEmptyIsZeroStride(t *testing.T) {
	l := NewLayout()
	assert.Equal(t, 0, l.Stride())
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, None, l.Flags(false))
}

func TestLayoutDisableKeepsStride(t *testing.T) {
	l := Standard()
	stride := l.Stride()
	offsets := make([]int, l.Len())
	for i := range offsets {
		offsets[i] = l.Offset(i)
	}

	require.True(t, l.SetEnabled(Normal0, false))
	assert.False(t, l.SetEnabled(Color1, false))

	assert.Equal(t, stride, l.Stride())
	for i := range offsets {
		assert.Equal(t, offsets[i], l.Offset(i))
	}
	assert.False(t, l.Flags(true).Has(Normal0))
	assert.True(t, l.Flags(false).Has(Normal0))
}

func TestLayoutPartsIsCopy(t *testing.T) {
	l := PositionColor()
	parts := l.Parts()
	parts[0].Enabled = false
	assert.True(t, l.Part(0).Enabled)
}

func TestLayoutIndex(t *testing.T) {
	l := PositionColorUv()
	assert.Equal(t, 2, l.Index(Uv0))
	assert.Equal(t, -1, l.Index(Normal0))
}

func TestKindSize(t *testing.T) {
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 2, Uint16.Size())
	assert.Equal(t, 1, Int8.Size())
	assert.Panics(t, func() { Kind(99).Size() })
}

func TestFlagUnionHas(t *testing.T) {
	f := Position0.Union(Color0)
	assert.True(t, f.Has(Position0))
	assert.True(t, f.Has(Position0|Color0))
	assert.False(t, f.Has(Position0|Normal0))
	assert.Equal(t, 2, f.Count())
	assert.Equal(t, []Flag{Position0, Color0}, f.Bits())
}

func TestFlagKeyDeterministic(t *testing.T) {
	a := None.Add(Uv1).Add(Position0).Add(Color0)
	b := Color0.Union(Uv1).Union(Position0)
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "Position0_Color0_Uv1", a.Key())
	assert.Equal(t, "None", None.Key())
}

func TestFlagShaderInput(t *testing.T) {
	assert.Equal(t, "aPosition0", Position0.ShaderInput())
	assert.Equal(t, "aUv3", Uv3.ShaderInput())
	assert.Equal(t, 2, Uv2.UvIndex())
	assert.Equal(t, -1, Color0.UvIndex())
}

func TestLayoutKey(t *testing.T) {
	l := PositionColorUv()
	assert.Equal(t, "Position0_Color0_Uv0", l.Key(true))
	l.SetEnabled(Uv0, false)
	assert.Equal(t, "Position0_Color0", l.Key(true))
	assert.Equal(t, "Position0_Color0_Uv0", l.Key(false))
}
