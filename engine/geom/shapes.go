package geom

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/mat"
)

// Kind selects how a builder expands into vertices. Every shape is unit
// sized and centered on the builder position in local space.
type Kind uint8

const (
	Triangle Kind = iota
	Quad
	Circle
	Cube
)

const DefaultSegments = 32

func (k Kind) String() string {
	switch k {
	case Triangle:
		return "triangle"
	case Quad:
		return "quad"
	case Circle:
		return "circle"
	case Cube:
		return "cube"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Primitive is the assembly mode the expanded vertices are meant for.
func (k Kind) Primitive() core.Primitive {
	if k == Circle {
		return core.TriangleFan
	}
	return core.Triangles
}

// Vertex is a local-space vertex before the model matrix is applied.
type Vertex struct {
	Pos    mat.Vec3
	Normal mat.Vec3
	UV     mat.Vec2
}

func vertexCount(k Kind, segments int) int {
	switch k {
	case Triangle:
		return 3
	case Quad:
		return 6
	case Circle:
		return segments + 2
	case Cube:
		return 36
	}
	panic(fmt.Sprintf("geom: unknown shape kind %d", uint8(k)))
}

// expand appends the local-space vertices of k, counter-clockwise.
// normal is used for flat shapes; the cube carries its own face normals.
func expand(dst []Vertex, k Kind, segments int, normal mat.Vec3) []Vertex {
	switch k {
	case Triangle:
		return append(dst,
			Vertex{mat.V3(0, 0.5, 0), normal, mat.Vec2{X: 0.5, Y: 1}},
			Vertex{mat.V3(-0.5, -0.5, 0), normal, mat.Vec2{X: 0, Y: 0}},
			Vertex{mat.V3(0.5, -0.5, 0), normal, mat.Vec2{X: 1, Y: 0}},
		)
	case Quad:
		return appendFace(dst, mat.V3(0, 0, 0), mat.AxisX, mat.AxisY, normal)
	case Circle:
		dst = append(dst, Vertex{mat.V3(0, 0, 0), normal, mat.Vec2{X: 0.5, Y: 0.5}})
		step := 2 * math32.Pi / float32(segments)
		for i := 0; i <= segments; i++ {
			// close the fan exactly on the first rim vertex
			s, c := math32.Sincos(step * float32(i%segments))
			dst = append(dst, Vertex{
				Pos:    mat.V3(c*0.5, s*0.5, 0),
				Normal: normal,
				UV:     mat.Vec2{X: 0.5 + c*0.5, Y: 0.5 + s*0.5},
			})
		}
		return dst
	case Cube:
		for _, f := range cubeFaces {
			dst = appendFace(dst, f.n.Mul(0.5), f.u, f.v, f.n)
		}
		return dst
	}
	panic(fmt.Sprintf("geom: unknown shape kind %d", uint8(k)))
}

// appendFace emits a unit square centered on c spanned by u and v, as two
// triangles wound counter-clockwise when seen from u×v.
func appendFace(dst []Vertex, c, u, v, n mat.Vec3) []Vertex {
	hu, hv := u.Mul(0.5), v.Mul(0.5)
	bl := Vertex{c.Sub(hu).Sub(hv), n, mat.Vec2{X: 0, Y: 0}}
	br := Vertex{c.Add(hu).Sub(hv), n, mat.Vec2{X: 1, Y: 0}}
	tr := Vertex{c.Add(hu).Add(hv), n, mat.Vec2{X: 1, Y: 1}}
	tl := Vertex{c.Sub(hu).Add(hv), n, mat.Vec2{X: 0, Y: 1}}
	return append(dst, bl, br, tr, bl, tr, tl)
}

var cubeFaces = [6]struct{ n, u, v mat.Vec3 }{
	{mat.V3(0, 0, 1), mat.V3(1, 0, 0), mat.V3(0, 1, 0)},
	{mat.V3(0, 0, -1), mat.V3(-1, 0, 0), mat.V3(0, 1, 0)},
	{mat.V3(1, 0, 0), mat.V3(0, 0, -1), mat.V3(0, 1, 0)},
	{mat.V3(-1, 0, 0), mat.V3(0, 0, 1), mat.V3(0, 1, 0)},
	{mat.V3(0, 1, 0), mat.V3(1, 0, 0), mat.V3(0, 0, -1)},
	{mat.V3(0, -1, 0), mat.V3(1, 0, 0), mat.V3(0, 0, 1)},
}
