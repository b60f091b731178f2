// Package scratch is a reusable CPU staging area for bytes on their way to
// the GPU. Reset it before each batch; it only allocates when a batch is
// larger than every batch before it.
package scratch

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/hubastard/scrawl/engine/vertex"
)

// Arena is not safe for concurrent use. Slices returned by Bytes and
// BytesFrom are valid until the next Reset or append.
type Arena struct {
	buf []byte
}

// New returns an arena with the given starting capacity. Example:
// scratch.New(64 * 1024)
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Arena{buf: make([]byte, 0, capacity)}
}

// Reset clears the length without freeing memory.
func (a *Arena) Reset() { a.buf = a.buf[:0] }

func (a *Arena) Cap() int { return cap(a.buf) }
func (a *Arena) Len() int { return len(a.buf) }

// GrowTo increases capacity, keeping the current contents.
func (a *Arena) GrowTo(minCapacity int) {
	if minCapacity <= cap(a.buf) {
		return
	}
	nb := make([]byte, len(a.buf), minCapacity)
	copy(nb, a.buf)
	a.buf = nb
}

// Ensure makes room for at least n more bytes, doubling when it has to grow.
func (a *Arena) Ensure(n int) {
	if len(a.buf)+n > cap(a.buf) {
		newCap := cap(a.buf) * 2
		if newCap < len(a.buf)+n {
			newCap = len(a.buf) + n
		}
		a.GrowTo(newCap)
	}
}

// Mark returns a bookmark to later slice or roll back the output.
func (a *Arena) Mark() int { return len(a.buf) }

// BytesFrom returns the bytes produced since mark.
func (a *Arena) BytesFrom(mark int) []byte { return a.buf[mark:] }

// Truncate rolls the arena back to mark.
func (a *Arena) Truncate(mark int) { a.buf = a.buf[:mark] }

func (a *Arena) Bytes() []byte { return a.buf }

// ----- Append primitives (chainable, little-endian) -----

func (a *Arena) B(p []byte) *Arena {
	a.buf = append(a.buf, p...)
	return a
}

func (a *Arena) F32(v float32) *Arena {
	a.buf = binary.LittleEndian.AppendUint32(a.buf, math.Float32bits(v))
	return a
}

func (a *Arena) U32(v uint32) *Arena {
	a.buf = binary.LittleEndian.AppendUint32(a.buf, v)
	return a
}

func (a *Arena) U16(v uint16) *Arena {
	a.buf = binary.LittleEndian.AppendUint16(a.buf, v)
	return a
}

func (a *Arena) U8(v uint8) *Arena {
	a.buf = append(a.buf, v)
	return a
}

// Pad appends n copies of c.
func (a *Arena) Pad(n int, c byte) *Arena {
	if n <= 0 {
		return a
	}
	a.Ensure(n)
	for i := 0; i < n; i++ {
		a.buf = append(a.buf, c)
	}
	return a
}

// Put appends one attribute component encoded as kind. Integer kinds are
// normalized fixed point: v is clamped to [0,1] for unsigned kinds and to
// [-1,1] for signed kinds, then scaled to the kind's range.
func (a *Arena) Put(kind vertex.Kind, v float32) *Arena {
	switch kind {
	case vertex.Float32:
		return a.F32(v)
	case vertex.Uint32:
		return a.U32(uint32(float64(unorm(v)) * math.MaxUint32))
	case vertex.Int32:
		return a.U32(uint32(int32(float64(snorm(v)) * math.MaxInt32)))
	case vertex.Uint16:
		return a.U16(uint16(math32.Round(unorm(v) * math.MaxUint16)))
	case vertex.Int16:
		return a.U16(uint16(int16(math32.Round(snorm(v) * math.MaxInt16))))
	case vertex.Uint8:
		return a.U8(uint8(math32.Round(unorm(v) * math.MaxUint8)))
	case vertex.Int8:
		return a.U8(uint8(int8(math32.Round(snorm(v) * math.MaxInt8))))
	}
	panic("scratch: unknown element kind " + kind.String())
}

func unorm(v float32) float32 { return math32.Min(math32.Max(v, 0), 1) }
func snorm(v float32) float32 { return math32.Min(math32.Max(v, -1), 1) }
