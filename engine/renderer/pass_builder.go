package renderer

// RenderPassBuilderOption is a functional option applied to a pass during construction.
type RenderPassBuilderOption func(*renderPass)

// WithRendererDrawing installs a start hook drawing the pass's renderers in order.
// Use it for passes whose renderers are not driven by a composition renderer.
//
// Returns:
//   - RenderPassBuilderOption: a function that installs the hook
func WithRendererDrawing() RenderPassBuilderOption {
	return func(p *renderPass) {
		p.OnStartPass(p.DrawRenderers)
	}
}

// WithStartPass registers a start hook.
//
// Parameters:
//   - hook: the hook to run before children are drawn
//
// Returns:
//   - RenderPassBuilderOption: a function that registers the hook
func WithStartPass(hook PassHook) RenderPassBuilderOption {
	return func(p *renderPass) {
		p.OnStartPass(hook)
	}
}

// WithEndPass registers an end hook.
//
// Parameters:
//   - hook: the hook to run after children are drawn
//
// Returns:
//   - RenderPassBuilderOption: a function that registers the hook
func WithEndPass(hook PassHook) RenderPassBuilderOption {
	return func(p *renderPass) {
		p.OnEndPass(hook)
	}
}

// WithChildren adds child passes at construction time. The new pass is detached, so nothing loads.
// Panics if a child already has a parent.
//
// Parameters:
//   - children: passes to add in order
//
// Returns:
//   - RenderPassBuilderOption: a function that adds the children
func WithChildren(children ...RenderPass) RenderPassBuilderOption {
	return func(p *renderPass) {
		for _, c := range children {
			if err := p.AddChild(c); err != nil {
				panic(err)
			}
		}
	}
}

// WithRenderers adds renderers at construction time. The new pass is detached, so nothing loads.
//
// Parameters:
//   - renderers: renderers to add in order
//
// Returns:
//   - RenderPassBuilderOption: a function that adds the renderers
func WithRenderers(renderers ...Renderer) RenderPassBuilderOption {
	return func(p *renderPass) {
		for _, r := range renderers {
			_ = p.AddRenderer(r)
		}
	}
}
