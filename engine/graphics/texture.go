package graphics

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/gogpu/gputypes"
)

// TextureDescriptor describes a 2D texture. It is comparable and used as a pooling key.
type TextureDescriptor struct {
	Label       string
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	Usage       gputypes.TextureUsage
	SampleCount uint32
}

// RenderTargetDescriptor returns a descriptor for a sampled render target.
func RenderTargetDescriptor(label string, width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Label:  label,
		Width:  width,
		Height: height,
		Format: format,
		Usage:  gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc,
	}
}

func (d TextureDescriptor) validate() error {
	if d.Width == 0 || d.Height == 0 {
		return fmt.Errorf("%w: %q has size %dx%d", ErrInvalidDescriptor, d.Label, d.Width, d.Height)
	}
	if d.Format == gputypes.TextureFormatUndefined {
		return fmt.Errorf("%w: %q has no format", ErrInvalidDescriptor, d.Label)
	}
	return nil
}

func (d TextureDescriptor) withDefaults() TextureDescriptor {
	d.SampleCount = max(d.SampleCount, 1)
	if d.Usage == 0 {
		d.Usage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding
	}
	return d
}

// Texture is a device texture plus a tag container that lets owners recognise their textures.
type Texture struct {
	desc      TextureDescriptor
	handle    any
	view      any
	owner     Device
	tags      *common.PropertyContainer
	destroyed bool
}

func newTexture(owner Device, desc TextureDescriptor, handle, view any) *Texture {
	return &Texture{
		desc:   desc,
		handle: handle,
		view:   view,
		owner:  owner,
		tags:   common.NewPropertyContainer(),
	}
}

// Descriptor returns the descriptor the texture was created with.
func (t *Texture) Descriptor() TextureDescriptor {
	return t.desc
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 {
	return t.desc.Width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 {
	return t.desc.Height
}

// Format returns the texture pixel format.
func (t *Texture) Format() gputypes.TextureFormat {
	return t.desc.Format
}

// Tags returns the texture's tag container.
func (t *Texture) Tags() *common.PropertyContainer {
	return t.tags
}

// Handle returns the backend texture object.
func (t *Texture) Handle() any {
	return t.handle
}

// View returns the backend view of the whole texture.
func (t *Texture) View() any {
	return t.view
}

// Destroyed reports whether the texture has been released.
func (t *Texture) Destroyed() bool {
	return t.destroyed
}

// IsDepthFormat reports whether format is a depth or depth-stencil format.
func IsDepthFormat(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float,
		gputypes.TextureFormatDepth32FloatStencil8:
		return true
	}
	return false
}
