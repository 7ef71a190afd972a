package graphics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDeviceClosed is returned by operations on a device after Close.
	ErrDeviceClosed = errors.New("graphics: device closed")
	// ErrInvalidDescriptor is returned when a texture descriptor has a zero size or unknown format.
	ErrInvalidDescriptor = errors.New("graphics: invalid texture descriptor")
	// ErrForeignResource is returned when a resource created by another device is passed in.
	ErrForeignResource = errors.New("graphics: resource belongs to another device")
)

// Platform identifies the host the device runs on.
type Platform int

const (
	PlatformHeadless Platform = iota
	PlatformDesktop
	PlatformWeb
)

func (p Platform) String() string {
	switch p {
	case PlatformDesktop:
		return "desktop"
	case PlatformWeb:
		return "web"
	default:
		return "headless"
	}
}

// ShaderProfile names the shader binary format a device consumes.
type ShaderProfile string

const (
	ShaderProfileSPIRV ShaderProfile = "spirv"
	ShaderProfileWGSL  ShaderProfile = "wgsl"
)

// ClearFlags selects which attachments Clear touches.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil

	ClearAll = ClearColor | ClearDepth | ClearStencil
)

// ClearOptions describes a clear of the currently bound render targets.
type ClearOptions struct {
	Flags   ClearFlags
	Color   mgl32.Vec4
	Depth   float32
	Stencil uint32
}

// DrawKind tells a backend which fixed geometry a DrawCommand refers to.
type DrawKind int

const (
	DrawMesh DrawKind = iota
	DrawSprite
	DrawFullscreenQuad
	DrawUI
)

// DrawCommand is one draw submitted by a renderer against the currently bound targets.
type DrawCommand struct {
	Label         string
	Kind          DrawKind
	Module        *ShaderModule
	Parameters    *ParameterCollection
	World         mgl32.Mat4
	VertexCount   uint32
	IndexCount    uint32
	InstanceCount uint32
}

// ShaderModule is a device-owned compiled shader.
type ShaderModule struct {
	label  string
	handle any
	owner  Device
}

// Label returns the debug label the module was created with.
func (m *ShaderModule) Label() string {
	return m.label
}

// Handle returns the backend object behind the module.
func (m *ShaderModule) Handle() any {
	return m.handle
}

// DeviceStats counts the work a device has been asked to do since creation.
type DeviceStats struct {
	TexturesCreated   int
	TexturesDestroyed int
	ModulesCreated    int
	ModulesDestroyed  int
	TargetBinds       int
	Clears            int
	Draws             int
}

// Device is the graphics device abstraction the render pipeline draws through.
// Render target bindings are device-wide state: whoever changes them restores them.
type Device interface {
	// Platform returns the host platform of the device.
	Platform() Platform

	// ShaderProfile returns the shader binary format consumed by CreateShaderModule.
	ShaderProfile() ShaderProfile

	// BackBuffer returns the presentation color target.
	//
	// Returns:
	//   - *Texture: the back buffer, sized to the current surface
	BackBuffer() *Texture

	// DepthStencilBuffer returns the depth target paired with the back buffer, or nil.
	DepthStencilBuffer() *Texture

	// CreateTexture allocates a texture.
	//
	// Parameters:
	//   - desc: size, format and usage of the texture
	//
	// Returns:
	//   - *Texture: the new texture
	//   - error: ErrInvalidDescriptor or a backend error
	CreateTexture(desc TextureDescriptor) (*Texture, error)

	// DestroyTexture releases a texture. Destroying twice is a no-op.
	//
	// Parameters:
	//   - texture: the texture to release
	DestroyTexture(texture *Texture)

	// SetRenderTargets binds the depth target and color targets for subsequent Clear and Draw calls.
	//
	// Parameters:
	//   - depth: the depth-stencil target, or nil
	//   - colors: the color targets in slot order
	SetRenderTargets(depth *Texture, colors ...*Texture)

	// RenderTargets returns the currently bound targets.
	//
	// Returns:
	//   - *Texture: the bound depth-stencil target, or nil
	//   - []*Texture: a copy of the bound color targets
	RenderTargets() (*Texture, []*Texture)

	// Clear clears the currently bound targets.
	//
	// Parameters:
	//   - options: which attachments to clear and to what values
	//
	// Returns:
	//   - error: error if the device is closed or the backend rejects the clear
	Clear(options ClearOptions) error

	// Draw submits one draw against the currently bound targets. Both backends validate and count
	// draws without encoding geometry; vertex and pipeline state are outside this abstraction.
	//
	// Parameters:
	//   - cmd: the draw to perform
	//
	// Returns:
	//   - error: error if the device is closed or the backend rejects the draw
	Draw(cmd DrawCommand) error

	// CreateShaderModule creates a shader module from SPIR-V words.
	//
	// Parameters:
	//   - label: debug label
	//   - spirv: SPIR-V words
	//
	// Returns:
	//   - *ShaderModule: the new module
	//   - error: backend error
	CreateShaderModule(label string, spirv []uint32) (*ShaderModule, error)

	// DestroyShaderModule releases a shader module. Destroying twice is a no-op.
	DestroyShaderModule(module *ShaderModule)

	// BeginProfile opens a named profiling marker.
	BeginProfile(name string)

	// EndProfile closes the innermost profiling marker.
	EndProfile()

	// Resize recreates the back buffer and its depth target at the given size.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	//
	// Returns:
	//   - error: backend error
	Resize(width, height uint32) error

	// Present flushes the frame to the presentation surface, when there is one.
	Present() error

	// Stats returns counters of the work performed so far.
	Stats() DeviceStats

	// Close releases every device resource.
	Close()
}
