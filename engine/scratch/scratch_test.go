package scratch

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/hubastard/scrawl/engine/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaResetKeepsCapacity(t *testing.T) {
	a := New(8)
	a.F32(1).F32(2).F32(3)
	require.Equal(t, 12, a.Len())
	c := a.Cap()

	a.Reset()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, c, a.Cap())
}

func TestArenaMarkAndTruncate(t *testing.T) {
	a := New(0)
	a.U8(1)
	m := a.Mark()
	a.U16(0x0302).U8(4)
	assert.Equal(t, []byte{2, 3, 4}, a.BytesFrom(m))

	a.Truncate(m)
	assert.Equal(t, []byte{1}, a.Bytes())
}

func TestArenaEnsureDoubles(t *testing.T) {
	a := New(4)
	a.Pad(4, 0)
	a.Ensure(1)
	assert.Equal(t, 8, a.Cap())
	a.Ensure(100)
	assert.Equal(t, 104, a.Cap())
}

func TestPutEncodesKinds(t *testing.T) {
	a := New(0)
	a.Put(vertex.Float32, 1.5)
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(a.Bytes())))

	a.Reset()
	a.Put(vertex.Uint8, 1).Put(vertex.Uint8, 0.5).Put(vertex.Uint8, 7).Put(vertex.Int8, -1)
	assert.Equal(t, []byte{255, 128, 255, 0x81}, a.Bytes())

	a.Reset()
	a.Put(vertex.Int16, -1)
	assert.Equal(t, int16(-math.MaxInt16), int16(binary.LittleEndian.Uint16(a.Bytes())))

	assert.Panics(t, func() { a.Put(vertex.Kind(42), 0) })
}
