package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testViewProj() mgl32.Mat4 {
	proj := PerspectiveZO(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

func TestProjectDepthIsMonotonicAlongViewDirection(t *testing.T) {
	vp := testViewProj()

	near := ProjectDepth(vp, mgl32.Vec3{0, 0, 4})
	mid := ProjectDepth(vp, mgl32.Vec3{0, 0, 0})
	far := ProjectDepth(vp, mgl32.Vec3{0, 0, -20})

	assert.Less(t, near, mid)
	assert.Less(t, mid, far)
	assert.GreaterOrEqual(t, near, float32(0))
	assert.LessOrEqual(t, far, float32(1))
}

func TestFrustumSphereVisible(t *testing.T) {
	f := ExtractFrustum(testViewProj())

	assert.True(t, f.SphereVisible(mgl32.Vec3{0, 0, 0}, 1))
	assert.False(t, f.SphereVisible(mgl32.Vec3{0, 0, 20}, 1), "behind the camera")
	assert.False(t, f.SphereVisible(mgl32.Vec3{500, 0, 0}, 1))
	assert.True(t, f.SphereVisible(mgl32.Vec3{0, 0, 5.5}, 1), "straddles the near plane")
}

func TestModelMatrixTranslatesAndScales(t *testing.T) {
	m := ModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})
	p := m.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.InDelta(t, 3, p.X(), 1e-5)
	assert.InDelta(t, 4, p.Y(), 1e-5)
	assert.InDelta(t, 5, p.Z(), 1e-5)
}

func TestCoalesceAndGrowTo(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))

	s := GrowTo([]*int{nil}, 3)
	assert.Len(t, s, 3)
	assert.Len(t, GrowTo(s, 1), 3, "never shrinks")
}
