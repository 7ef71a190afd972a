package model_renderer

import (
	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
)

// CallbacksKey carries model renderer hooks in a render context's tags.
// Hooks set on a renderer with WithCallbacks take precedence.
var CallbacksKey = common.NewPropertyKey[*Callbacks]("ModelRenderer.Callbacks", nil)

// Callbacks are hooks run around the effect update and draw of every mesh.
type Callbacks struct {
	// PreEffectUpdate runs before the mesh's effect is checked for recompilation.
	// It may change mesh parameters to select another permutation.
	PreEffectUpdate func(ctx *renderer.RenderContext, mesh *RenderMesh)

	// PostEffectUpdate runs after the mesh is drawn.
	PostEffectUpdate func(ctx *renderer.RenderContext, mesh *RenderMesh)
}
