package graphics

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
	"github.com/gogpu/gputypes"
)

// HALDeviceBuilderOption is a functional option for configuring a HAL-backed Device.
type HALDeviceBuilderOption func(*halDevice)

// WithBackBufferSize sets the initial back buffer size.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - HALDeviceBuilderOption: option function that sets the size
func WithBackBufferSize(width, height uint32) HALDeviceBuilderOption {
	return func(d *halDevice) {
		d.backBufferWidth = width
		d.backBufferHeight = height
	}
}

// WithBackBufferFormat sets the back buffer color format.
//
// Parameters:
//   - format: the color format
//
// Returns:
//   - HALDeviceBuilderOption: option function that sets the format
func WithBackBufferFormat(format gputypes.TextureFormat) HALDeviceBuilderOption {
	return func(d *halDevice) {
		d.backBufferFormat = format
	}
}

// WithDepthFormat sets the format of the depth target paired with the back buffer.
//
// Parameters:
//   - format: a depth or depth-stencil format
//
// Returns:
//   - HALDeviceBuilderOption: option function that sets the format
func WithDepthFormat(format gputypes.TextureFormat) HALDeviceBuilderOption {
	return func(d *halDevice) {
		d.depthFormat = format
	}
}

// WithHALProfiler routes BeginProfile/EndProfile markers to p.
//
// Parameters:
//   - p: the profiler receiving markers
//
// Returns:
//   - HALDeviceBuilderOption: option function that sets the profiler
func WithHALProfiler(p *profiler.Profiler) HALDeviceBuilderOption {
	return func(d *halDevice) {
		d.profiler = p
	}
}

// WithPlatform overrides the reported platform.
//
// Parameters:
//   - platform: the platform to report
//
// Returns:
//   - HALDeviceBuilderOption: option function that sets the platform
func WithPlatform(platform Platform) HALDeviceBuilderOption {
	return func(d *halDevice) {
		d.platform = platform
	}
}
