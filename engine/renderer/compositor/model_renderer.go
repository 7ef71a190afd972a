package compositor

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/model_renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
)

// ModelRenderer draws the scene's models with one effect: opaque meshes front to back, then
// transparent meshes back to front.
type ModelRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	component *model_renderer.ModelComponentRenderer
	items     renderer.ComponentItems
}

var _ renderer.SceneRenderer = &ModelRenderer{}

// NewModelRenderer creates a model renderer drawing s with effectName.
//
// Parameters:
//   - s: the scene
//   - effectName: the effect meshes compile from
//   - options: options for the owned ModelComponentRenderer
//
// Returns:
//   - *ModelRenderer: the renderer
func NewModelRenderer(s scene.Scene, effectName string, options ...model_renderer.ModelComponentRendererOption) *ModelRenderer {
	r := &ModelRenderer{
		component: model_renderer.NewModelComponentRenderer(s, effectName, options...),
	}
	r.Renderer = renderer.New("Models:"+effectName, r)
	return r
}

// Component returns the owned component renderer.
func (r *ModelRenderer) Component() *model_renderer.ModelComponentRenderer {
	return r.component
}

func (r *ModelRenderer) LoadCore(*renderer.RenderContext) error {
	return r.ToLoadAndUnload(r.component)
}

func (r *ModelRenderer) DrawCore(ctx *renderer.RenderContext) error {
	return renderer.DrawComponents(ctx, &r.items, r.component)
}

// Items returns the buckets of the last draw, sorted.
func (r *ModelRenderer) Items() *renderer.ComponentItems {
	return &r.items
}
