// Package vertex describes per-vertex attribute layouts and the flag sets
// used to match geometries, buffers and shader variants.
package vertex

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is the root error for any write that would overflow a
// fixed capacity (buffer bytes, texture slots). Callers test with errors.Is.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// Kind is the scalar element type of an attribute component.
type Kind uint8

const (
	Float32 Kind = iota
	Int32
	Uint32
	Int16
	Uint16
	Int8
	Uint8
)

// Size returns the byte size of one element.
func (k Kind) Size() int {
	switch k {
	case Float32, Int32, Uint32:
		return 4
	case Int16, Uint16:
		return 2
	case Int8, Uint8:
		return 1
	}
	panic(fmt.Sprintf("vertex: unknown element kind %d", k))
}

func (k Kind) String() string {
	switch k {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Part is one attribute of a vertex record.
type Part struct {
	Flag    Flag
	Count   int // components, e.g. 3 for a position
	Kind    Kind
	Enabled bool
}

// P is shorthand for an enabled part.
func P(flag Flag, count int, kind Kind) Part {
	return Part{Flag: flag, Count: count, Kind: kind, Enabled: true}
}

// Bytes is the byte footprint of the part inside one vertex.
func (p Part) Bytes() int { return p.Count * p.Kind.Size() }

// Layout is an ordered, immutable list of parts. Only the per-part Enabled
// bit may change after construction; disabled parts keep their byte slot.
type Layout struct {
	parts   []Part
	offsets []int
	stride  int
}

// NewLayout computes stride and offsets in one pass. An empty part list
// yields a zero-stride layout.
func NewLayout(parts ...Part) *Layout {
	l := &Layout{
		parts:   make([]Part, len(parts)),
		offsets: make([]int, len(parts)),
	}
	copy(l.parts, parts)
	for i, p := range l.parts {
		l.offsets[i] = l.stride
		l.stride += p.Bytes()
	}
	return l
}

// Stride is the byte size of one vertex record.
func (l *Layout) Stride() int { return l.stride }

func (l *Layout) Len() int { return len(l.parts) }

func (l *Layout) Part(i int) Part { return l.parts[i] }

// Offset is the byte offset of part i within a vertex record.
func (l *Layout) Offset(i int) int { return l.offsets[i] }

// Parts returns a copy of the parts in layout order.
func (l *Layout) Parts() []Part {
	out := make([]Part, len(l.parts))
	copy(out, l.parts)
	return out
}

// Index returns the position of the part carrying flag, or -1.
func (l *Layout) Index(flag Flag) int {
	for i, p := range l.parts {
		if p.Flag == flag {
			return i
		}
	}
	return -1
}

// SetEnabled toggles every part carrying flag. It reports whether any part matched.
func (l *Layout) SetEnabled(flag Flag, enabled bool) bool {
	found := false
	for i := range l.parts {
		if l.parts[i].Flag == flag {
			l.parts[i].Enabled = enabled
			found = true
		}
	}
	return found
}

// Flags is the union of the part flags, optionally restricted to enabled parts.
func (l *Layout) Flags(enabledOnly bool) Flag {
	f := None
	for _, p := range l.parts {
		if enabledOnly && !p.Enabled {
			continue
		}
		f = f.Add(p.Flag)
	}
	return f
}

// Key is the shader variant key for the layout's flags.
func (l *Layout) Key(enabledOnly bool) string { return l.Flags(enabledOnly).Key() }

// PositionColor is position(3) + color(4).
func PositionColor() *Layout {
	return NewLayout(
		P(Position0, 3, Float32),
		P(Color0, 4, Float32),
	)
}

// PositionColorUv is position(3) + color(4) + uv0(2).
func PositionColorUv() *Layout {
	return NewLayout(
		P(Position0, 3, Float32),
		P(Color0, 4, Float32),
		P(Uv0, 2, Float32),
	)
}

// Standard carries every attribute a builder can produce.
func Standard() *Layout {
	return NewLayout(
		P(Position0, 3, Float32),
		P(Normal0, 3, Float32),
		P(Color0, 4, Float32),
		P(Uv0, 2, Float32),
		P(Uv1, 2, Float32),
		P(Uv2, 2, Float32),
		P(Uv3, 2, Float32),
	)
}
