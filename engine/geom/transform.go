package geom

import (
	"fmt"

	"github.com/hubastard/scrawl/engine/mat"
)

type TransformKind uint8

const (
	Translation TransformKind = iota
	Rotation
	Scale
)

func (k TransformKind) String() string {
	switch k {
	case Translation:
		return "translation"
	case Rotation:
		return "rotation"
	case Scale:
		return "scale"
	}
	return fmt.Sprintf("TransformKind(%d)", uint8(k))
}

// Transform is one pending operation. Radians is only read for rotations.
type Transform struct {
	Kind    TransformKind
	Vector  mat.Vec3
	Radians float32
}

// Matrix panics on an unknown kind: transforms are only built by the Push
// methods, so anything else is a bug.
func (t Transform) Matrix() mat.Mat4 {
	switch t.Kind {
	case Translation:
		return mat.Translation(t.Vector)
	case Scale:
		return mat.Scaling(t.Vector)
	case Rotation:
		return mat.AxisAngle(t.Vector, t.Radians)
	}
	panic(fmt.Sprintf("geom: unknown transform kind %d", uint8(t.Kind)))
}

const initialTransforms = 8

// TransformStack is an append-only list of transforms owned by one geometry.
type TransformStack struct {
	items []Transform
}

func NewTransformStack() *TransformStack {
	return &TransformStack{items: make([]Transform, 0, initialTransforms)}
}

func (s *TransformStack) Len() int           { return len(s.items) }
func (s *TransformStack) Cap() int           { return cap(s.items) }
func (s *TransformStack) At(i int) Transform { return s.items[i] }

func (s *TransformStack) PushTranslate(v mat.Vec3) { s.push(Transform{Kind: Translation, Vector: v}) }
func (s *TransformStack) PushScale(v mat.Vec3)     { s.push(Transform{Kind: Scale, Vector: v}) }

// PushRotate appends a rotation of degrees about axis.
func (s *TransformStack) PushRotate(axis mat.Vec3, degrees float32) {
	s.push(Transform{Kind: Rotation, Vector: axis, Radians: mat.Radians(degrees)})
}

func (s *TransformStack) push(t Transform) {
	if len(s.items) == cap(s.items) {
		n := cap(s.items) * 2
		if n == 0 {
			n = initialTransforms
		}
		grown := make([]Transform, len(s.items), n)
		copy(grown, s.items)
		s.items = grown
	}
	s.items = append(s.items, t)
}

// Compose folds the stack onto base in push order, right-multiplying each
// transform, so the last one pushed is applied first to local vertices.
func (s *TransformStack) Compose(base mat.Mat4) mat.Mat4 {
	m := base
	for _, t := range s.items {
		m = m.Mul(t.Matrix())
	}
	return m
}
