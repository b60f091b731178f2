package vertex

import (
	"math/bits"
	"strconv"
	"strings"
)

// Flag is a bitmask over vertex attribute semantics. A single bit names one
// attribute; a combination describes which attributes a geometry, buffer or
// shader carries.
type Flag uint32

const (
	Position0 Flag = 1 << iota
	Normal0
	Color0
	Color1
	Uv0
	Uv1
	Uv2
	Uv3

	None Flag = 0
)

// UvChannels lists the texture coordinate flags in channel order.
var UvChannels = [4]Flag{Uv0, Uv1, Uv2, Uv3}

var flagNames = map[Flag]string{
	Position0: "Position0",
	Normal0:   "Normal0",
	Color0:    "Color0",
	Color1:    "Color1",
	Uv0:       "Uv0",
	Uv1:       "Uv1",
	Uv2:       "Uv2",
	Uv3:       "Uv3",
}

func (f Flag) Union(o Flag) Flag { return f | o }

// Add is Union under the name the builders use: flags only accumulate.
func (f Flag) Add(o Flag) Flag { return f | o }

// Has reports whether every bit of o is set in f.
func (f Flag) Has(o Flag) bool { return f&o == o }

// Contains reports whether f is a superset of o.
func (f Flag) Contains(o Flag) bool { return f.Has(o) }

// Count returns the number of attributes in f.
func (f Flag) Count() int { return bits.OnesCount32(uint32(f)) }

// Bits returns the single-bit flags set in f in ascending bit order.
func (f Flag) Bits() []Flag {
	out := make([]Flag, 0, f.Count())
	for v := uint32(f); v != 0; v &= v - 1 {
		out = append(out, Flag(v&-v))
	}
	return out
}

// Key returns the canonical lookup token for f. The token depends only on
// the bits set, never on how f was assembled.
func (f Flag) Key() string {
	if f == None {
		return "None"
	}
	var sb strings.Builder
	for i, b := range f.Bits() {
		if i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteString(b.name())
	}
	return sb.String()
}

func (f Flag) String() string { return f.Key() }

// ShaderInput is the GLSL attribute name for a single-bit flag.
func (f Flag) ShaderInput() string { return "a" + f.name() }

// UvIndex returns the texture channel of a single Uv flag, or -1.
func (f Flag) UvIndex() int {
	for i, uv := range UvChannels {
		if f == uv {
			return i
		}
	}
	return -1
}

func (f Flag) name() string {
	if n, ok := flagNames[f]; ok {
		return n
	}
	return "Bit" + strconv.Itoa(bits.TrailingZeros32(uint32(f)))
}
