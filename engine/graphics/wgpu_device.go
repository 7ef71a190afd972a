package graphics

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

// wgpuDevice presents through a WebGPU surface. Clears are encoded as load-op render passes and
// draws are only validated and counted. The back buffer view is acquired lazily from the surface
// and released on Present.
type wgpuDevice struct {
	deviceState

	frameMu       sync.Mutex
	instance      *wgpu.Instance
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode

	backBuffer   *Texture
	depth        *Texture
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Device = &wgpuDevice{}

// WGPUDeviceBuilderOption is a functional option for configuring a WebGPU-backed Device.
type WGPUDeviceBuilderOption func(*wgpuDevice)

// WithVSync selects FIFO presentation instead of immediate.
func WithVSync(enabled bool) WGPUDeviceBuilderOption {
	return func(d *wgpuDevice) {
		if enabled {
			d.presentMode = wgpu.PresentModeFifo
		} else {
			d.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithWGPUProfiler routes BeginProfile/EndProfile markers to p.
func WithWGPUProfiler(p *profiler.Profiler) WGPUDeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.profiler = p
	}
}

// NewWGPUDevice creates a WebGPU instance, adapter and device for the given surface and configures it.
// Must be called from the thread that owns the window.
//
// Parameters:
//   - surfaceDescriptor: platform surface descriptor, usually from window.Window.SurfaceDescriptor
//   - width: initial surface width in pixels
//   - height: initial surface height in pixels
//   - options: functional options applied before configuration
//
// Returns:
//   - Device: the device
//   - error: error if no adapter or device could be obtained
func NewWGPUDevice(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height uint32, options ...WGPUDeviceBuilderOption) (Device, error) {
	if surfaceDescriptor == nil {
		panic("graphics: NewWGPUDevice requires a surface descriptor")
	}
	runtime.LockOSThread()

	d := &wgpuDevice{
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
	}
	for _, opt := range options {
		opt(d)
	}
	d.surface = d.instance.CreateSurface(surfaceDescriptor)

	a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	d.adapter = a

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	if err := d.Resize(width, height); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *wgpuDevice) Platform() Platform {
	return PlatformDesktop
}

func (d *wgpuDevice) ShaderProfile() ShaderProfile {
	return ShaderProfileSPIRV
}

func (d *wgpuDevice) BackBuffer() *Texture {
	return d.backBuffer
}

func (d *wgpuDevice) DepthStencilBuffer() *Texture {
	return d.depth
}

func (d *wgpuDevice) CreateTexture(desc TextureDescriptor) (*Texture, error) {
	if d.isClosed() {
		return nil, ErrDeviceClosed
	}
	desc = desc.withDefaults()
	if err := desc.validate(); err != nil {
		return nil, err
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   desc.SampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        toWGPUFormat(desc.Format),
		Usage:         toWGPUUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create texture view %q: %w", desc.Label, err)
	}

	_ = d.count(func(s *DeviceStats) { s.TexturesCreated++ })
	return newTexture(d, desc, tex, view), nil
}

func (d *wgpuDevice) DestroyTexture(t *Texture) {
	if t == nil || t.destroyed || t.owner != Device(d) {
		return
	}
	t.destroyed = true
	d.unbind(t)
	if view, ok := t.view.(*wgpu.TextureView); ok && view != nil {
		view.Release()
	}
	if tex, ok := t.handle.(*wgpu.Texture); ok && tex != nil {
		tex.Release()
	}
	_ = d.count(func(s *DeviceStats) { s.TexturesDestroyed++ })
}

func (d *wgpuDevice) SetRenderTargets(depth *Texture, colors ...*Texture) {
	d.setRenderTargets(depth, colors)
}

func (d *wgpuDevice) RenderTargets() (*Texture, []*Texture) {
	return d.renderTargets()
}

// viewOf returns the view to render into for t, acquiring the surface image for the back buffer.
func (d *wgpuDevice) viewOf(t *Texture) (*wgpu.TextureView, error) {
	if t != d.backBuffer {
		view, _ := t.view.(*wgpu.TextureView)
		return view, nil
	}

	d.frameMu.Lock()
	defer d.frameMu.Unlock()
	if d.frameView != nil {
		return d.frameView, nil
	}
	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("surface view: %w", err)
	}
	d.frameSurface, d.frameView = surfaceTexture, view
	return view, nil
}

func (d *wgpuDevice) Clear(options ClearOptions) error {
	if d.isClosed() {
		return ErrDeviceClosed
	}
	depth, colors := d.renderTargets()

	desc := &wgpu.RenderPassDescriptor{}
	if options.Flags&ClearColor != 0 {
		for _, c := range colors {
			view, err := d.viewOf(c)
			if err != nil {
				return err
			}
			desc.ColorAttachments = append(desc.ColorAttachments, wgpu.RenderPassColorAttachment{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(options.Color.X()),
					G: float64(options.Color.Y()),
					B: float64(options.Color.Z()),
					A: float64(options.Color.W()),
				},
			})
		}
	}
	if depth != nil && options.Flags&(ClearDepth|ClearStencil) != 0 {
		view, _ := depth.view.(*wgpu.TextureView)
		attachment := &wgpu.RenderPassDepthStencilAttachment{
			View:            view,
			DepthLoadOp:     wgpu.LoadOpLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: options.Depth,
		}
		if options.Flags&ClearDepth != 0 {
			attachment.DepthLoadOp = wgpu.LoadOpClear
		}
		if depth.Format() == gputypes.TextureFormatDepth24PlusStencil8 {
			attachment.StencilLoadOp = wgpu.LoadOpLoad
			attachment.StencilStoreOp = wgpu.StoreOpStore
			attachment.StencilClearValue = options.Stencil
			if options.Flags&ClearStencil != 0 {
				attachment.StencilLoadOp = wgpu.LoadOpClear
			}
		}
		desc.DepthStencilAttachment = attachment
	}
	if len(desc.ColorAttachments) == 0 && desc.DepthStencilAttachment == nil {
		return nil
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	defer encoder.Release()
	pass := encoder.BeginRenderPass(desc)
	pass.End()
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()

	return d.count(func(s *DeviceStats) { s.Clears++ })
}

func (d *wgpuDevice) Draw(cmd DrawCommand) error {
	if cmd.Module != nil && cmd.Module.owner != Device(d) {
		return fmt.Errorf("draw %q: %w", cmd.Label, ErrForeignResource)
	}
	return d.count(func(s *DeviceStats) { s.Draws++ })
}

func (d *wgpuDevice) CreateShaderModule(label string, spirv []uint32) (*ShaderModule, error) {
	if d.isClosed() {
		return nil, ErrDeviceClosed
	}
	m, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		SPIRVDescriptor: &wgpu.ShaderModuleSPIRVDescriptor{
			Code: SPIRVBytes(spirv),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shader module %q: %w", label, err)
	}
	_ = d.count(func(s *DeviceStats) { s.ModulesCreated++ })
	return &ShaderModule{label: label, handle: m, owner: d}, nil
}

func (d *wgpuDevice) DestroyShaderModule(m *ShaderModule) {
	if m == nil || m.handle == nil || m.owner != Device(d) {
		return
	}
	if wm, ok := m.handle.(*wgpu.ShaderModule); ok {
		wm.Release()
	}
	m.handle = nil
	_ = d.count(func(s *DeviceStats) { s.ModulesDestroyed++ })
}

func (d *wgpuDevice) Resize(width, height uint32) error {
	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surfaceFormat = capabilities.Formats[0]
	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	depth, err := d.CreateTexture(TextureDescriptor{
		Label:  "DepthStencilBuffer",
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatDepth24PlusStencil8,
		Usage:  gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("resize depth buffer: %w", err)
	}

	oldDepth := d.depth
	d.depth = depth
	d.DestroyTexture(oldDepth)

	// The back buffer has no texture of its own; its view comes from the surface each frame.
	d.backBuffer = newTexture(d, TextureDescriptor{
		Label:       "BackBuffer",
		Width:       width,
		Height:      height,
		Format:      fromWGPUFormat(d.surfaceFormat),
		Usage:       gputypes.TextureUsageRenderAttachment,
		SampleCount: 1,
	}, nil, nil)

	d.SetRenderTargets(d.depth, d.backBuffer)
	common.Logger().Debug("graphics: surface configured", "width", width, "height", height)
	return nil
}

func (d *wgpuDevice) Present() error {
	if d.isClosed() {
		return ErrDeviceClosed
	}
	d.frameMu.Lock()
	defer d.frameMu.Unlock()

	if d.frameSurface == nil {
		return nil
	}
	d.surface.Present()
	d.frameView.Release()
	d.frameSurface.Release()
	d.frameView, d.frameSurface = nil, nil
	return nil
}

func (d *wgpuDevice) Stats() DeviceStats {
	return d.snapshot()
}

func (d *wgpuDevice) Close() {
	d.DestroyTexture(d.depth)
	if !d.markClosed() {
		return
	}
	d.frameMu.Lock()
	if d.frameView != nil {
		d.frameView.Release()
		d.frameSurface.Release()
		d.frameView, d.frameSurface = nil, nil
	}
	d.frameMu.Unlock()

	d.queue.Release()
	d.device.Release()
	d.adapter.Release()
	d.surface.Release()
	d.instance.Release()
}

func toWGPUFormat(f gputypes.TextureFormat) wgpu.TextureFormat {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case gputypes.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatRGBA16Float:
		return wgpu.TextureFormatRGBA16Float
	case gputypes.TextureFormatDepth32Float:
		return wgpu.TextureFormatDepth32Float
	case gputypes.TextureFormatDepth24Plus:
		return wgpu.TextureFormatDepth24Plus
	case gputypes.TextureFormatDepth24PlusStencil8:
		return wgpu.TextureFormatDepth24PlusStencil8
	}
	return wgpu.TextureFormatUndefined
}

func fromWGPUFormat(f wgpu.TextureFormat) gputypes.TextureFormat {
	switch f {
	case wgpu.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case wgpu.TextureFormatRGBA16Float:
		return gputypes.TextureFormatRGBA16Float
	}
	return gputypes.TextureFormatBGRA8Unorm
}

func toWGPUUsage(u gputypes.TextureUsage) wgpu.TextureUsage {
	var out wgpu.TextureUsage
	if u&gputypes.TextureUsageCopySrc != 0 {
		out |= wgpu.TextureUsageCopySrc
	}
	if u&gputypes.TextureUsageCopyDst != 0 {
		out |= wgpu.TextureUsageCopyDst
	}
	if u&gputypes.TextureUsageTextureBinding != 0 {
		out |= wgpu.TextureUsageTextureBinding
	}
	if u&gputypes.TextureUsageStorageBinding != 0 {
		out |= wgpu.TextureUsageStorageBinding
	}
	if u&gputypes.TextureUsageRenderAttachment != 0 {
		out |= wgpu.TextureUsageRenderAttachment
	}
	return out
}
