package effect

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
)

// Effect is the live GPU object for one EffectBytecode.
type Effect struct {
	bytecode *EffectBytecode
	module   *graphics.ShaderModule
	device   graphics.Device
	disposed atomic.Bool
}

func newEffect(device graphics.Device, bc *EffectBytecode) (*Effect, error) {
	m, err := device.CreateShaderModule(bc.Name, bc.SPIRV)
	if err != nil {
		return nil, err
	}
	return &Effect{bytecode: bc, module: m, device: device}, nil
}

// Name returns the name of the compile that first produced the bytecode.
func (e *Effect) Name() string {
	return e.bytecode.Name
}

// Bytecode returns the compiled bytecode.
func (e *Effect) Bytecode() *EffectBytecode {
	return e.bytecode
}

// Module returns the shader module, or nil once disposed.
func (e *Effect) Module() *graphics.ShaderModule {
	if e.disposed.Load() {
		return nil
	}
	return e.module
}

// IsDisposed reports whether the effect was evicted or closed. Holders must load a replacement.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}

// Dispose destroys the shader module. Only the first call has an effect.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	e.device.DestroyShaderModule(e.module)
}
