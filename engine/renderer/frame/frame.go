package frame

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/gogpu/gputypes"
)

// CurrentKey carries the render frame renderers currently draw into.
var CurrentKey = common.NewPropertyKey[*RenderFrame]("RenderFrame.Current", nil)

// ownerKey tags textures with the frame that created them.
var ownerKey = common.NewPropertyKey[*RenderFrame]("RenderFrame.Owner", nil)

// ErrNoReference is returned when a relative frame has neither a reference frame nor a back buffer.
var ErrNoReference = errors.New("frame: relative size without a reference texture")

// SizeMode selects how Descriptor.Width and Height are interpreted.
type SizeMode int

const (
	// SizeAbsolute treats Width and Height as pixels.
	SizeAbsolute SizeMode = iota
	// SizeRelative treats Width and Height as percentages of the reference texture.
	SizeRelative
)

// Format is the logical color format of a frame.
type Format int

const (
	FormatLDR Format = iota
	FormatHDR
)

// DepthFormat is the logical depth-stencil format of a frame.
type DepthFormat int

const (
	DepthNone DepthFormat = iota
	DepthOnly
	DepthAndStencil
)

// Descriptor describes how to build a RenderFrame.
type Descriptor struct {
	Mode        SizeMode
	Width       uint32
	Height      uint32
	Format      Format
	DepthFormat DepthFormat
}

// DefaultDescriptor is a full-size LDR frame with a depth target.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		Mode:        SizeRelative,
		Width:       100,
		Height:      100,
		Format:      FormatLDR,
		DepthFormat: DepthOnly,
	}
}

// ColorFormat maps a logical format to a pixel format.
func ColorFormat(f Format) gputypes.TextureFormat {
	if f == FormatHDR {
		return gputypes.TextureFormatRGBA16Float
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// DepthStencilFormat maps a logical depth format to a pixel format, or Undefined for DepthNone.
func DepthStencilFormat(f DepthFormat) gputypes.TextureFormat {
	switch f {
	case DepthOnly:
		return gputypes.TextureFormatDepth32Float
	case DepthAndStencil:
		return gputypes.TextureFormatDepth24PlusStencil8
	}
	return gputypes.TextureFormatUndefined
}

// ResolveSize computes the pixel size of desc against a reference size. Relative sizes are
// percentages rounded down and never smaller than one pixel.
//
// Parameters:
//   - desc: the frame descriptor
//   - refWidth: reference width in pixels
//   - refHeight: reference height in pixels
//
// Returns:
//   - uint32: width in pixels
//   - uint32: height in pixels
func ResolveSize(desc Descriptor, refWidth, refHeight uint32) (uint32, uint32) {
	if desc.Mode == SizeAbsolute {
		return desc.Width, desc.Height
	}
	w := uint32(uint64(refWidth) * uint64(desc.Width) / 100)
	h := uint32(uint64(refHeight) * uint64(desc.Height) / 100)
	return max(w, 1), max(h, 1)
}

// RenderFrame is a color target plus an optional depth-stencil target.
type RenderFrame struct {
	desc   Descriptor
	device graphics.Device
	color  *graphics.Texture
	depth  *graphics.Texture
	owned  bool
}

// New allocates a frame. Relative sizes resolve against reference's color target, or the device
// back buffer when reference is nil.
//
// Parameters:
//   - device: the device allocating the textures
//   - desc: size and formats
//   - reference: optional reference frame for relative sizes
//
// Returns:
//   - *RenderFrame: the frame, owning both textures
//   - error: ErrNoReference or a device error
func New(device graphics.Device, desc Descriptor, reference *RenderFrame) (*RenderFrame, error) {
	if device == nil {
		panic("frame: New requires a device")
	}

	var ref *graphics.Texture
	if reference != nil {
		ref = reference.color
	} else {
		ref = device.BackBuffer()
	}
	if desc.Mode == SizeRelative && ref == nil {
		return nil, ErrNoReference
	}
	var refW, refH uint32
	if ref != nil {
		refW, refH = ref.Width(), ref.Height()
	}
	width, height := ResolveSize(desc, refW, refH)

	f := &RenderFrame{desc: desc, device: device, owned: true}
	color, err := device.CreateTexture(graphics.RenderTargetDescriptor("RenderFrame.Color", width, height, ColorFormat(desc.Format)))
	if err != nil {
		return nil, fmt.Errorf("frame color target: %w", err)
	}
	f.color = color

	if desc.DepthFormat != DepthNone {
		depth, err := device.CreateTexture(graphics.TextureDescriptor{
			Label:  "RenderFrame.DepthStencil",
			Width:  width,
			Height: height,
			Format: DepthStencilFormat(desc.DepthFormat),
			Usage:  gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
		})
		if err != nil {
			device.DestroyTexture(color)
			return nil, fmt.Errorf("frame depth target: %w", err)
		}
		f.depth = depth
	}

	f.tag()
	return f, nil
}

// Wrap builds a frame around existing textures without taking ownership. Dispose leaves them alive.
//
// Parameters:
//   - color: the color target
//   - depth: the depth-stencil target, or nil
//
// Returns:
//   - *RenderFrame: the frame
func Wrap(color, depth *graphics.Texture) *RenderFrame {
	if color == nil {
		panic("frame: Wrap requires a color texture")
	}
	d := Descriptor{
		Mode:   SizeAbsolute,
		Width:  color.Width(),
		Height: color.Height(),
	}
	if color.Format() == gputypes.TextureFormatRGBA16Float {
		d.Format = FormatHDR
	}
	if depth != nil {
		d.DepthFormat = DepthOnly
		if depth.Format() == gputypes.TextureFormatDepth24PlusStencil8 {
			d.DepthFormat = DepthAndStencil
		}
	}
	return &RenderFrame{desc: d, color: color, depth: depth}
}

// FromTexture returns the frame that created t, or nil when t was not created by New.
func FromTexture(t *graphics.Texture) *RenderFrame {
	if t == nil {
		return nil
	}
	f, _ := common.Get(t.Tags(), ownerKey)
	return f
}

func (f *RenderFrame) tag() {
	common.Set(f.color.Tags(), ownerKey, f)
	if f.depth != nil {
		common.Set(f.depth.Tags(), ownerKey, f)
	}
}

// Descriptor returns the descriptor the frame was built from.
func (f *RenderFrame) Descriptor() Descriptor {
	return f.desc
}

// RenderTarget returns the color target.
func (f *RenderFrame) RenderTarget() *graphics.Texture {
	return f.color
}

// DepthStencil returns the depth-stencil target, or nil.
func (f *RenderFrame) DepthStencil() *graphics.Texture {
	return f.depth
}

// Width returns the frame width in pixels.
func (f *RenderFrame) Width() uint32 {
	return f.color.Width()
}

// Height returns the frame height in pixels.
func (f *RenderFrame) Height() uint32 {
	return f.color.Height()
}

// Activate binds the frame's targets on device and returns a function restoring the previous binding.
func (f *RenderFrame) Activate(device graphics.Device) func() {
	prevDepth, prevColors := device.RenderTargets()
	device.SetRenderTargets(f.depth, f.color)
	return func() {
		device.SetRenderTargets(prevDepth, prevColors...)
	}
}

// Dispose destroys owned textures. Disposing twice, or disposing a wrapped frame, is a no-op.
func (f *RenderFrame) Dispose() {
	if !f.owned {
		return
	}
	f.owned = false
	common.Remove(f.color.Tags(), ownerKey)
	f.device.DestroyTexture(f.color)
	if f.depth != nil {
		common.Remove(f.depth.Tags(), ownerKey)
		f.device.DestroyTexture(f.depth)
	}
}
