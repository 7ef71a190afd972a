package compositor

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
)

// ClearRendererOption is a functional option for configuring a ClearRenderer.
type ClearRendererOption func(*ClearRenderer)

// WithClearFlags selects the attachments to clear. Defaults to graphics.ClearAll.
//
// Parameters:
//   - flags: the attachments
//
// Returns:
//   - ClearRendererOption: option function to apply
func WithClearFlags(flags graphics.ClearFlags) ClearRendererOption {
	return func(r *ClearRenderer) {
		r.options.Flags = flags
	}
}

// WithClearColor sets the color clear value.
//
// Parameters:
//   - color: RGBA in 0..1
//
// Returns:
//   - ClearRendererOption: option function to apply
func WithClearColor(color mgl32.Vec4) ClearRendererOption {
	return func(r *ClearRenderer) {
		r.options.Color = color
	}
}

// WithClearDepth sets the depth clear value.
func WithClearDepth(depth float32) ClearRendererOption {
	return func(r *ClearRenderer) {
		r.options.Depth = depth
	}
}

// WithClearStencil sets the stencil clear value.
func WithClearStencil(stencil uint32) ClearRendererOption {
	return func(r *ClearRenderer) {
		r.options.Stencil = stencil
	}
}
