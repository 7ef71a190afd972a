package compositor

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// ClearRenderer clears the bound render targets. Flags for attachments that are not bound are dropped.
type ClearRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	options graphics.ClearOptions
}

var _ renderer.SceneRenderer = &ClearRenderer{}

// NewClearRenderer creates a renderer clearing color to opaque black, depth to 1 and stencil to 0.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *ClearRenderer: the renderer
func NewClearRenderer(options ...ClearRendererOption) *ClearRenderer {
	r := &ClearRenderer{
		options: graphics.ClearOptions{
			Flags: graphics.ClearAll,
			Color: mgl32.Vec4{0, 0, 0, 1},
			Depth: 1,
		},
	}
	for _, opt := range options {
		opt(r)
	}
	r.Renderer = renderer.New("Clear", r)
	return r
}

// Options returns the configured clear.
func (r *ClearRenderer) Options() graphics.ClearOptions {
	return r.options
}

func (r *ClearRenderer) DrawCore(ctx *renderer.RenderContext) error {
	opts := r.options
	depth, colors := ctx.Device.RenderTargets()
	if len(colors) == 0 {
		opts.Flags &^= graphics.ClearColor
	}
	if depth == nil {
		opts.Flags &^= graphics.ClearDepth | graphics.ClearStencil
	}
	if opts.Flags == 0 {
		return nil
	}
	return ctx.Device.Clear(opts)
}
