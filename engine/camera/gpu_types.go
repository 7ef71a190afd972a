package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformKey is the runtime parameter holding the serialized GPUCameraUniform of the current camera.
var UniformKey = graphics.NewParameterKey[[]byte]("CameraUniform")

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Size: 80 bytes (WGSL aligned):
//
//	struct CameraUniform {
//	    view_proj: mat4x4<f32>,
//	    position: vec3<f32>,
//	}
type GPUCameraUniform struct {
	ViewProj       mgl32.Mat4 // offset  0
	CameraPosition mgl32.Vec3 // offset 64
	_pad           float32    // offset 76
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	return buf
}
