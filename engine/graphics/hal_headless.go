//go:build !(js && wasm)

package graphics

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

// NewHeadlessDevice opens the HAL noop backend and wraps it. Used for tooling and tests
// where no window or GPU is available.
//
// Parameters:
//   - options: functional options forwarded to NewHALDevice
//
// Returns:
//   - Device: the headless device; Close releases the noop instance too
//   - error: error if the noop backend cannot be opened
func NewHeadlessDevice(options ...HALDeviceBuilderOption) (Device, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("headless instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("headless instance: no adapters")
	}
	opened, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("headless device: %w", err)
	}

	d, err := NewHALDevice(opened.Device, opened.Queue, options...)
	if err != nil {
		opened.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.(*halDevice).onClose = func() {
		opened.Device.Destroy()
		instance.Destroy()
	}
	return d, nil
}
