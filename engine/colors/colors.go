// Package colors holds RGBA colors with float channels in [0,1].
package colors

type Color [4]float32

var (
	White    = Color{1, 1, 1, 1}
	Red      = Color{1, 0, 0, 1}
	Green    = Color{0, 1, 0, 1}
	Blue     = Color{0, 0, 1, 1}
	Black    = Color{0, 0, 0, 1}
	Magenta  = Color{1, 0, 1, 1}
	Cyan     = Color{0, 1, 1, 1}
	Yellow   = Color{1, 1, 0, 1}
	Gray     = Color{0.5, 0.5, 0.5, 1}
	DarkGray = Color{0.08, 0.10, 0.12, 1}
)

const byteToUnit = 1.0 / 255

// FromBytes converts 0..255 channels.
func FromBytes(r, g, b, a uint8) Color {
	return Color{float32(r) * byteToUnit, float32(g) * byteToUnit, float32(b) * byteToUnit, float32(a) * byteToUnit}
}

// Grey is an opaque grey of the given 0..255 level.
func Grey(level uint8) Color { return FromBytes(level, level, level, 255) }

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Bytes converts to 0..255 channels, clamping out-of-range values.
func (c Color) Bytes() [4]uint8 {
	var out [4]uint8
	for i, v := range c {
		switch {
		case v <= 0:
			out[i] = 0
		case v >= 1:
			out[i] = 255
		default:
			out[i] = uint8(v*255 + 0.5)
		}
	}
	return out
}
