package engine

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-compose/engine/config"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
	"github.com/Carmen-Shannon/oxy-compose/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithConfig replaces the default configuration. Apply it before options that override
// single settings.
//
// Parameters:
//   - cfg: the configuration, usually from config.Load
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
	}
}

// WithProfiling enables or disables the periodic profiler report.
//
// Parameters:
//   - enabled: if true, the profiler logs frame statistics
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		e.cfg.Profiler.Enabled = enabled
	}
}

// WithProfiler uses p instead of a profiler built from the configuration.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the update rate in ticks per second. Values <= 0 select 60Hz.
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetTickRate(fps)
	}
}

// WithRenderFrameLimit caps the render rate in frames per second. Pass 0 to uncap.
//
// Parameters:
//   - fps: maximum render frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithWindow presents to w instead of a window the engine creates. The engine does not
// close it.
//
// Parameters:
//   - w: an open window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithDevice draws through d instead of opening the configured backend. The engine does
// not close it.
//
// Parameters:
//   - d: the graphics device
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDevice(d graphics.Device) EngineBuilderOption {
	return func(e *engine) {
		e.device = d
	}
}

// WithEffectSystem publishes sys in the render context instead of a system the engine
// builds. The engine does not close it.
func WithEffectSystem(sys effect.System) EngineBuilderOption {
	return func(e *engine) {
		e.effects = sys
	}
}

// WithShaderFS resolves shader sources in fsys before the configured source directories.
func WithShaderFS(fsys fs.FS) EngineBuilderOption {
	return func(e *engine) {
		e.shaderFS = fsys
	}
}

// WithPipelines registers pipelines with the manager, drawn in the given order.
//
// Parameters:
//   - pipelines: detached pipelines
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPipelines(pipelines ...renderer.RenderPipeline) EngineBuilderOption {
	return func(e *engine) {
		e.pipelines = append(e.pipelines, pipelines...)
	}
}

// WithScene registers a scene at the given key during construction.
//
// Parameters:
//   - key: the update order key, lower first
//   - s: the scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scenes[key] = s
	}
}

// WithOrbitInput drives the first scene camera that has an orbit controller from window
// input. Ignored for headless engines.
//
// Parameters:
//   - sensitivity: radians of orbit per pixel dragged
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithOrbitInput(sensitivity float32) EngineBuilderOption {
	return func(e *engine) {
		e.orbitSensitivity = sensitivity
	}
}
