package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUMaterialUniform is the GPU-aligned representation of a material's surface factors.
// Size: 32 bytes (WGSL aligned):
//
//	struct MaterialUniform {
//	    base_color: vec4<f32>,
//	    metallic: f32,
//	    roughness: f32,
//	}
type GPUMaterialUniform struct {
	BaseColor mgl32.Vec4 // offset  0
	Metallic  float32    // offset 16
	Roughness float32    // offset 20
	_pad      [2]float32 // offset 24
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.BaseColor[i]))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Metallic))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Roughness))
	return buf
}
