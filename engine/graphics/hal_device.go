package graphics

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// halDevice drives a gogpu HAL device. Draws and clears are validated and counted;
// command encoding is left to the presentation backend.
type halDevice struct {
	deviceState

	device   hal.Device
	queue    hal.Queue
	platform Platform

	backBufferWidth  uint32
	backBufferHeight uint32
	backBufferFormat gputypes.TextureFormat
	depthFormat      gputypes.TextureFormat

	backBuffer *Texture
	depth      *Texture
	onClose    func()
}

var _ Device = &halDevice{}

// NewHALDevice wraps an opened HAL device and creates its back buffer and depth target.
//
// Parameters:
//   - device: the opened HAL device
//   - queue: the device queue (may be nil for headless use)
//   - options: functional options applied after defaults
//
// Returns:
//   - Device: the device
//   - error: error if the back buffer cannot be created
func NewHALDevice(device hal.Device, queue hal.Queue, options ...HALDeviceBuilderOption) (Device, error) {
	if device == nil {
		panic("graphics: NewHALDevice requires a hal.Device")
	}
	d := &halDevice{
		device:           device,
		queue:            queue,
		platform:         PlatformHeadless,
		backBufferWidth:  1280,
		backBufferHeight: 720,
		backBufferFormat: gputypes.TextureFormatBGRA8Unorm,
		depthFormat:      gputypes.TextureFormatDepth24PlusStencil8,
	}
	for _, opt := range options {
		opt(d)
	}
	if err := d.Resize(d.backBufferWidth, d.backBufferHeight); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *halDevice) Platform() Platform {
	return d.platform
}

func (d *halDevice) ShaderProfile() ShaderProfile {
	return ShaderProfileSPIRV
}

func (d *halDevice) BackBuffer() *Texture {
	return d.backBuffer
}

func (d *halDevice) DepthStencilBuffer() *Texture {
	return d.depth
}

func (d *halDevice) CreateTexture(desc TextureDescriptor) (*Texture, error) {
	if d.isClosed() {
		return nil, ErrDeviceClosed
	}
	desc = desc.withDefaults()
	if err := desc.validate(); err != nil {
		return nil, err
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   desc.SampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %q: %w", desc.Label, err)
	}

	_ = d.count(func(s *DeviceStats) { s.TexturesCreated++ })
	return newTexture(d, desc, tex, view), nil
}

func (d *halDevice) DestroyTexture(t *Texture) {
	if t == nil || t.destroyed || t.owner != Device(d) {
		return
	}
	t.destroyed = true
	d.unbind(t)
	if view, ok := t.view.(hal.TextureView); ok && view != nil {
		d.device.DestroyTextureView(view)
	}
	if tex, ok := t.handle.(hal.Texture); ok && tex != nil {
		d.device.DestroyTexture(tex)
	}
	_ = d.count(func(s *DeviceStats) { s.TexturesDestroyed++ })
}

func (d *halDevice) SetRenderTargets(depth *Texture, colors ...*Texture) {
	d.setRenderTargets(depth, colors)
}

func (d *halDevice) RenderTargets() (*Texture, []*Texture) {
	return d.renderTargets()
}

func (d *halDevice) Clear(options ClearOptions) error {
	depth, colors := d.renderTargets()
	if options.Flags&ClearColor != 0 && len(colors) == 0 {
		return fmt.Errorf("graphics: clear color with no color target bound")
	}
	if options.Flags&(ClearDepth|ClearStencil) != 0 && depth == nil {
		return fmt.Errorf("graphics: clear depth with no depth target bound")
	}
	return d.count(func(s *DeviceStats) { s.Clears++ })
}

func (d *halDevice) Draw(cmd DrawCommand) error {
	if cmd.Module != nil && cmd.Module.owner != Device(d) {
		return fmt.Errorf("draw %q: %w", cmd.Label, ErrForeignResource)
	}
	return d.count(func(s *DeviceStats) { s.Draws++ })
}

func (d *halDevice) CreateShaderModule(label string, spirv []uint32) (*ShaderModule, error) {
	if d.isClosed() {
		return nil, ErrDeviceClosed
	}
	if len(spirv) == 0 {
		return nil, fmt.Errorf("shader module %q: empty SPIR-V", label)
	}
	m, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shader module %q: %w", label, err)
	}
	_ = d.count(func(s *DeviceStats) { s.ModulesCreated++ })
	return &ShaderModule{label: label, handle: m, owner: d}, nil
}

func (d *halDevice) DestroyShaderModule(m *ShaderModule) {
	if m == nil || m.handle == nil || m.owner != Device(d) {
		return
	}
	if hm, ok := m.handle.(hal.ShaderModule); ok {
		d.device.DestroyShaderModule(hm)
	}
	m.handle = nil
	_ = d.count(func(s *DeviceStats) { s.ModulesDestroyed++ })
}

func (d *halDevice) Resize(width, height uint32) error {
	back, err := d.CreateTexture(TextureDescriptor{
		Label:  "BackBuffer",
		Width:  width,
		Height: height,
		Format: d.backBufferFormat,
		Usage:  gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("resize back buffer: %w", err)
	}
	depth, err := d.CreateTexture(TextureDescriptor{
		Label:  "DepthStencilBuffer",
		Width:  width,
		Height: height,
		Format: d.depthFormat,
		Usage:  gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		d.DestroyTexture(back)
		return fmt.Errorf("resize depth buffer: %w", err)
	}

	oldBack, oldDepth := d.backBuffer, d.depth
	d.backBuffer, d.depth = back, depth
	d.backBufferWidth, d.backBufferHeight = width, height
	d.DestroyTexture(oldBack)
	d.DestroyTexture(oldDepth)

	d.SetRenderTargets(d.depth, d.backBuffer)
	common.Logger().Debug("graphics: back buffer resized", "width", width, "height", height)
	return nil
}

func (d *halDevice) Present() error {
	if d.isClosed() {
		return ErrDeviceClosed
	}
	return nil
}

func (d *halDevice) Stats() DeviceStats {
	return d.snapshot()
}

func (d *halDevice) Close() {
	back, depth := d.backBuffer, d.depth
	d.DestroyTexture(back)
	d.DestroyTexture(depth)
	if !d.markClosed() {
		return
	}
	if d.onClose != nil {
		d.onClose()
	}
}
