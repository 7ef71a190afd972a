// Package compositor provides the scene renderers a render pipeline is composed from: cameras,
// model and sprite drawing, UI, backgrounds, clears, intermediate frames and nested pipelines.
package compositor

import (
	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/frame"
)

// outputSize returns the size of what is currently drawn to: the current frame, else the bound color
// target, else the back buffer. It returns zeros when none is known.
func outputSize(ctx *renderer.RenderContext) (uint32, uint32) {
	if f, ok := common.Get(ctx.Tags, frame.CurrentKey); ok && f != nil {
		return f.Width(), f.Height()
	}
	if _, colors := ctx.Device.RenderTargets(); len(colors) > 0 && colors[0] != nil {
		return colors[0].Width(), colors[0].Height()
	}
	if bb := ctx.Device.BackBuffer(); bb != nil {
		return bb.Width(), bb.Height()
	}
	return 0, 0
}
