package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// UniformKey holds the serialized GPUMaterialUniform of a material.
	UniformKey = graphics.NewParameterKey[[]byte]("MaterialUniform")

	// TransparentKey is the compiler parameter selecting the blended shader permutation.
	TransparentKey = graphics.NewCompilerKey[bool]("MATERIAL_TRANSPARENT")

	// TexturedKey is the compiler parameter selecting the textured shader permutation.
	TexturedKey = graphics.NewCompilerKey[bool]("MATERIAL_TEXTURED")
)

// material is the implementation of the Material interface.
type material struct {
	mu sync.Mutex

	name         string
	baseColor    mgl32.Vec4
	metallic     float32
	roughness    float32
	transparent  bool
	diffuseLabel string

	parameters *graphics.ParameterCollection
}

// Material defines the interface for a render material: surface properties plus the parameter
// collection a renderer copies into each mesh drawn with it.
//
// Every setter republishes the material's parameters, so consumers detect changes by comparing
// Parameters().Version() with the version they last copied.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo/diffuse RGBA color of the material.
	//
	// Returns:
	//   - mgl32.Vec4: the base color as RGBA values
	BaseColor() mgl32.Vec4

	// Metallic retrieves the metallic factor of the material.
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	Roughness() float32

	// HasTransparency reports whether meshes using this material are drawn in the transparent bucket.
	//
	// Returns:
	//   - bool: true if the material blends
	HasTransparency() bool

	// DiffuseTexture returns the label of the diffuse texture, or "" when untextured.
	DiffuseTexture() string

	// Parameters returns the material's runtime and compiler parameters.
	//
	// Returns:
	//   - *graphics.ParameterCollection: the live collection, shared with the material
	Parameters() *graphics.ParameterCollection

	// SetBaseColor sets the base color.
	//
	// Parameters:
	//   - color: the new RGBA color
	SetBaseColor(color mgl32.Vec4)

	// SetTransparency moves the material between the opaque and transparent buckets.
	//
	// Parameters:
	//   - transparent: whether the material blends
	SetTransparency(transparent bool)

	// SetDiffuseTexture sets the diffuse texture label. An empty label removes the texture.
	SetDiffuseTexture(label string)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor:  mgl32.Vec4{1, 1, 1, 1},
		metallic:   0.0,
		roughness:  1.0,
		parameters: graphics.NewParameterCollection(),
	}
	for _, opt := range options {
		opt(m)
	}
	m.publish()
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() mgl32.Vec4 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseColor
}

func (m *material) Metallic() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metallic
}

func (m *material) Roughness() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roughness
}

func (m *material) HasTransparency() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transparent
}

func (m *material) DiffuseTexture() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diffuseLabel
}

func (m *material) Parameters() *graphics.ParameterCollection {
	return m.parameters
}

func (m *material) SetBaseColor(color mgl32.Vec4) {
	m.mu.Lock()
	m.baseColor = color
	m.mu.Unlock()
	m.publish()
}

func (m *material) SetTransparency(transparent bool) {
	m.mu.Lock()
	m.transparent = transparent
	m.mu.Unlock()
	m.publish()
}

func (m *material) SetDiffuseTexture(label string) {
	m.mu.Lock()
	m.diffuseLabel = label
	m.mu.Unlock()
	m.publish()
}

// publish writes the current surface state into the parameter collection.
func (m *material) publish() {
	m.mu.Lock()
	uniform := GPUMaterialUniform{BaseColor: m.baseColor, Metallic: m.metallic, Roughness: m.roughness}
	transparent, textured := m.transparent, m.diffuseLabel != ""
	m.mu.Unlock()

	graphics.SetParameter(m.parameters, UniformKey, uniform.Marshal())
	graphics.SetParameter(m.parameters, TransparentKey, transparent)
	graphics.SetParameter(m.parameters, TexturedKey, textured)
}
