package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBytesRoundTrip(t *testing.T) {
	c := FromBytes(255, 128, 0, 255)
	assert.InDelta(t, 1, c[0], 1e-6)
	assert.InDelta(t, 128.0/255, c[1], 1e-6)
	assert.Equal(t, [4]uint8{255, 128, 0, 255}, c.Bytes())
}

func TestBytesClamps(t *testing.T) {
	assert.Equal(t, [4]uint8{0, 255, 0, 255}, Color{-1, 2, 0, 1}.Bytes())
}

func TestGrey(t *testing.T) {
	g := Grey(128)
	assert.Equal(t, g[0], g[1])
	assert.Equal(t, float32(1), g[3])
	assert.Equal(t, float32(0.25), Red.WithAlpha(0.25)[3])
}
