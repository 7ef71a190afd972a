package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveZO builds a right-handed perspective projection mapping depth to [0, 1],
// the clip-space convention of WebGPU. mgl32.Perspective targets the [-1, 1] GL range instead.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveZO(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// ModelMatrix composes translation, Euler rotation (Y * X * Z order) and scale into a world matrix.
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around X, Y and Z
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: T * Ry * Rx * Rz * S
func ModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DY(rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z())).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// ProjectDepth transforms a world position by a view-projection matrix and returns its normalized
// device depth. When the homogeneous w is too close to zero for a divide, clip-space z is returned.
func ProjectDepth(viewProj mgl32.Mat4, position mgl32.Vec3) float32 {
	clip := viewProj.Mul4x1(position.Vec4(1))
	if w := clip.W(); w > 1e-6 || w < -1e-6 {
		return clip.Z() / w
	}
	return clip.Z()
}
