package mat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func assertVec(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestIdentityMul(t *testing.T) {
	m := Translation(V3(1, 2, 3)).Mul(Scaling(V3(2, 2, 2)))
	assert.Equal(t, m, Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Identity()))
}

func TestMulAppliesRightOperandFirst(t *testing.T) {
	ts := Translation(V3(1, 0, 0)).Mul(Scaling(V3(2, 2, 2)))
	assertVec(t, V3(3, 0, 0), ts.MulPoint(V3(1, 0, 0)))

	st := Scaling(V3(2, 2, 2)).Mul(Translation(V3(1, 0, 0)))
	assertVec(t, V3(4, 0, 0), st.MulPoint(V3(1, 0, 0)))
}

func TestAxisAngle(t *testing.T) {
	r := AxisAngle(AxisZ, Radians(90))
	assertVec(t, V3(0, 1, 0), r.MulPoint(V3(1, 0, 0)))

	r = AxisAngle(AxisY, Radians(90))
	assertVec(t, V3(0, 0, -1), r.MulPoint(V3(1, 0, 0)))

	// axis does not need to be normalized
	r = AxisAngle(V3(0, 0, 5), Radians(180))
	assertVec(t, V3(-1, 0, 0), r.MulPoint(V3(1, 0, 0)))
}

func TestMulDirIgnoresTranslation(t *testing.T) {
	m := Translation(V3(10, 10, 10))
	assertVec(t, V3(0, 0, 1), m.MulDir(V3(0, 0, 1)))
}

func TestOrthoMapsCornersToClipSpace(t *testing.T) {
	o := Ortho(-4, 4, -3, 3, -1, 1)
	assertVec(t, V3(1, 1, 0), o.MulPoint(V3(4, 3, 0)))
	assertVec(t, V3(-1, -1, 0), o.MulPoint(V3(-4, -3, 0)))
}

func TestLookAtPutsEyeAtOrigin(t *testing.T) {
	v := LookAt(V3(0, 0, 5), V3(0, 0, 0), AxisY)
	assertVec(t, V3(0, 0, 0), v.MulPoint(V3(0, 0, 5)))
	assertVec(t, V3(0, 0, -5), v.MulPoint(V3(0, 0, 0)))
}

func TestVec3(t *testing.T) {
	assertVec(t, AxisZ, AxisX.Cross(AxisY))
	assert.InDelta(t, 5, V3(3, 4, 0).Len(), eps)
	assertVec(t, V3(0, 0, 0), V3(0, 0, 0).Normalize())
	assertVec(t, V3(0, 1, 0), V3(0, 7, 0).Normalize())
}
