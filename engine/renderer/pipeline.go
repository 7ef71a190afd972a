package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/common"
)

// ErrPipelineAttached is returned when attaching a pipeline that is attached or nested.
var ErrPipelineAttached = errors.New("renderer: pipeline already attached")

// RenderPipeline is a root pass that can be attached to a context as a frame entry point.
type RenderPipeline interface {
	RenderPass

	// Attach binds the pipeline to ctx and loads every renderer of the tree in pre-order.
	// On failure the renderers already loaded are unloaded and the pipeline stays detached.
	//
	// Parameters:
	//   - ctx: the context renderers are loaded with
	//
	// Returns:
	//   - error: ErrPipelineAttached, or the first load error
	Attach(ctx *RenderContext) error

	// Detach unloads every renderer of the tree and unbinds the context. Detaching twice is a no-op.
	Detach()

	// Context returns the attached context, or nil.
	Context() *RenderContext

	// Draw traverses the tree with DrawPass.
	//
	// Parameters:
	//   - ctx: must be the attached context
	//
	// Returns:
	//   - error: ErrNotLoaded, ErrContextMismatch, or the traversal error
	Draw(ctx *RenderContext) error
}

type renderPipeline struct {
	*renderPass
}

var _ RenderPipeline = &renderPipeline{}

// NewRenderPipeline creates a detached pipeline.
//
// Parameters:
//   - name: the pipeline name, unique within a Manager
//   - options: pass options applied to the root pass
//
// Returns:
//   - RenderPipeline: the pipeline
func NewRenderPipeline(name string, options ...RenderPassBuilderOption) RenderPipeline {
	p := &renderPipeline{renderPass: newRenderPass(name)}
	p.self = p
	for _, opt := range options {
		opt(p.renderPass)
	}
	return p
}

func (p *renderPipeline) Attach(ctx *RenderContext) error {
	if ctx == nil {
		panic("renderer: Attach requires a context")
	}
	if p.ctx != nil || p.parent != nil {
		return fmt.Errorf("%w: %s", ErrPipelineAttached, p.name)
	}
	p.ctx = ctx
	if err := p.loadTree(ctx); err != nil {
		p.ctx = nil
		return fmt.Errorf("attach pipeline %s: %w", p.name, err)
	}
	common.Logger().Debug("pipeline attached", "pipeline", p.name)
	return nil
}

func (p *renderPipeline) Detach() {
	if p.ctx == nil {
		return
	}
	p.unloadTree()
	p.ctx = nil
	common.Logger().Debug("pipeline detached", "pipeline", p.name)
}

func (p *renderPipeline) Context() *RenderContext {
	return p.ctx
}

func (p *renderPipeline) Draw(ctx *RenderContext) error {
	if p.ctx == nil {
		return fmt.Errorf("%w: pipeline %s", ErrNotLoaded, p.name)
	}
	if ctx != p.ctx {
		return fmt.Errorf("%w: pipeline %s", ErrContextMismatch, p.name)
	}
	return DrawPass(p, ctx)
}
