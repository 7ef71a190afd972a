package compositor

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/frame"
)

// FrameRenderer draws its children into a RenderFrame it owns. The frame is built from a descriptor
// against the current frame, or the back buffer, and rebuilt when the resolved size changes.
// While the children draw the frame is bound and is the current frame.
type FrameRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	desc     frame.Descriptor
	output   *frame.RenderFrame
	children *renderer.Collection[renderer.SceneRenderer]
}

var _ renderer.SceneRenderer = &FrameRenderer{}

// NewFrameRenderer creates a frame renderer.
//
// Parameters:
//   - name: the debug name
//   - desc: how to build the frame
//   - children: scene renderers drawn into the frame
//
// Returns:
//   - *FrameRenderer: the renderer
func NewFrameRenderer(name string, desc frame.Descriptor, children ...renderer.SceneRenderer) *FrameRenderer {
	r := &FrameRenderer{
		desc:     desc,
		children: renderer.NewCollection[renderer.SceneRenderer](name+".Children", renderer.WithProfiling(false)),
	}
	for _, c := range children {
		r.children.Add(c)
	}
	r.Renderer = renderer.New(name, r)
	return r
}

// Children returns the collection drawn into the frame.
func (r *FrameRenderer) Children() *renderer.Collection[renderer.SceneRenderer] {
	return r.children
}

// Output returns the frame of the last draw, or nil.
func (r *FrameRenderer) Output() *frame.RenderFrame {
	return r.output
}

func (r *FrameRenderer) LoadCore(*renderer.RenderContext) error {
	return r.ToLoadAndUnload(r.children)
}

func (r *FrameRenderer) UnloadCore() {
	if r.output != nil {
		r.output.Dispose()
		r.output = nil
	}
}

func (r *FrameRenderer) DrawCore(ctx *renderer.RenderContext) error {
	if err := r.ensureOutput(ctx); err != nil {
		return err
	}
	defer r.output.Activate(ctx.Device)()
	defer common.Push(ctx.Tags, frame.CurrentKey, r.output)()
	return r.children.Draw(ctx)
}

func (r *FrameRenderer) ensureOutput(ctx *renderer.RenderContext) error {
	// Sized against the same reference frame.New uses.
	reference, _ := common.Get(ctx.Tags, frame.CurrentKey)
	var refW, refH uint32
	if reference != nil {
		refW, refH = reference.Width(), reference.Height()
	} else if bb := ctx.Device.BackBuffer(); bb != nil {
		refW, refH = bb.Width(), bb.Height()
	}
	w, h := frame.ResolveSize(r.desc, refW, refH)
	if r.output != nil && r.output.Width() == w && r.output.Height() == h {
		return nil
	}
	if r.output != nil {
		r.output.Dispose()
		r.output = nil
	}
	out, err := frame.New(ctx.Device, r.desc, reference)
	if err != nil {
		return fmt.Errorf("compositor: %s output: %w", r.Name(), err)
	}
	r.output = out
	common.Logger().Debug("render frame created", "renderer", r.Name(), "width", out.Width(), "height", out.Height())
	return nil
}
