package renderer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
)

// CullingMaskKey carries the render-group mask of the camera currently drawing.
var CullingMaskKey = common.NewPropertyKey[GroupMask]("Renderer.CullingMask", GroupMaskAll)

// GroupMask is a bit set of render groups 0..31.
type GroupMask uint32

// GroupMaskAll selects every render group.
const GroupMaskAll GroupMask = 0xFFFFFFFF

// Contains reports whether group is selected by the mask.
func (m GroupMask) Contains(group uint8) bool {
	return group < 32 && m&(1<<group) != 0
}

// FrameTime is the clock state of the frame being drawn.
type FrameTime struct {
	Frame   uint64
	Total   time.Duration
	Elapsed time.Duration
}

// RenderContext is the ambient state shared by every renderer during a frame.
// It is owned by the frame driver and passed by reference; it is not safe for concurrent draws.
type RenderContext struct {
	Device     graphics.Device
	Parameters *graphics.ParameterCollection
	Tags       *common.PropertyContainer
	Allocator  *graphics.ResourceAllocator
	Time       FrameTime

	currentPass RenderPass
}

// NewRenderContext creates a context for device with empty parameters and tags.
//
// Parameters:
//   - device: the graphics device renderers draw through
//
// Returns:
//   - *RenderContext: the new context
func NewRenderContext(device graphics.Device) *RenderContext {
	if device == nil {
		panic("renderer: NewRenderContext requires a device")
	}
	return &RenderContext{
		Device:     device,
		Parameters: graphics.NewParameterCollection(),
		Tags:       common.NewPropertyContainer(),
		Allocator:  graphics.NewResourceAllocator(device),
	}
}

// CurrentPass returns the pass being drawn, or nil outside a pass traversal.
func (c *RenderContext) CurrentPass() RenderPass {
	return c.currentPass
}

// PushPass makes pass current and returns the function restoring the previous one.
// Always defer the returned function.
func (c *RenderContext) PushPass(pass RenderPass) func() {
	prev := c.currentPass
	c.currentPass = pass
	return func() {
		c.currentPass = prev
	}
}

// AdvanceFrame moves the frame clock forward by elapsed.
func (c *RenderContext) AdvanceFrame(elapsed time.Duration) {
	c.Time.Frame++
	c.Time.Elapsed = elapsed
	c.Time.Total += elapsed
}
