package model_renderer

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
)

// ModelComponentRendererOption is a functional option for configuring a ModelComponentRenderer.
type ModelComponentRendererOption func(*ModelComponentRenderer)

// WithEffectSystem sets the effect system meshes load through.
// Without it the renderer uses effect.SystemKey from the context tags at load time.
//
// Parameters:
//   - system: the effect system
//
// Returns:
//   - ModelComponentRendererOption: option function to apply
func WithEffectSystem(system effect.System) ModelComponentRendererOption {
	return func(r *ModelComponentRenderer) {
		r.system = system
	}
}

// WithAsyncEffects makes mesh effect loads non-blocking. Meshes without a loaded effect are skipped
// and meshes being recompiled keep drawing with their previous effect.
//
// Returns:
//   - ModelComponentRendererOption: option function to apply
func WithAsyncEffects() ModelComponentRendererOption {
	return func(r *ModelComponentRenderer) {
		r.async = true
	}
}

// WithCallbacks sets the effect update hooks.
//
// Parameters:
//   - cb: the hooks
//
// Returns:
//   - ModelComponentRendererOption: option function to apply
func WithCallbacks(cb *Callbacks) ModelComponentRendererOption {
	return func(r *ModelComponentRenderer) {
		r.callbacks = cb
	}
}

// WithDefaultMaterial sets the material used by meshes that reference none.
//
// Parameters:
//   - m: the default material
//
// Returns:
//   - ModelComponentRendererOption: option function to apply
func WithDefaultMaterial(m material.Material) ModelComponentRendererOption {
	return func(r *ModelComponentRenderer) {
		r.defaultMaterial = m
	}
}

// WithFrustumCulling toggles bounding sphere culling against the current camera. Enabled by default.
//
// Parameters:
//   - enabled: whether meshes outside the frustum are skipped
//
// Returns:
//   - ModelComponentRendererOption: option function to apply
func WithFrustumCulling(enabled bool) ModelComponentRendererOption {
	return func(r *ModelComponentRenderer) {
		r.frustumCulling = enabled
	}
}

// WithRendererOptions passes options to the underlying renderer.
//
// Parameters:
//   - options: renderer options such as renderer.WithEnabled
//
// Returns:
//   - ModelComponentRendererOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) ModelComponentRendererOption {
	return func(r *ModelComponentRenderer) {
		r.rendererOptions = append(r.rendererOptions, options...)
	}
}
