package renderer

// SceneRenderer marks renderers that draw part of a scene for the current camera.
// Implementations embed SceneRendererTag.
type SceneRenderer interface {
	Renderer
	sceneRenderer()
}

// SceneRendererTag implements the SceneRenderer marker when embedded.
type SceneRendererTag struct{}

func (SceneRendererTag) sceneRenderer() {}

// EntityComponentRenderer prepares render items for one kind of entity component and draws ranges of them.
type EntityComponentRenderer interface {
	Renderer

	// Prepare appends this frame's items to the opaque and transparent buckets.
	//
	// Parameters:
	//   - ctx: the loaded context
	//   - opaque: bucket for items drawn front-to-back
	//   - transparent: bucket for items drawn back-to-front
	Prepare(ctx *RenderContext, opaque, transparent *RenderItemList)

	// DrawItems draws items[from:to]. The items are sorted by the caller.
	//
	// Parameters:
	//   - ctx: the loaded context
	//   - items: a sorted item list
	//   - from: first index, inclusive
	//   - to: last index, exclusive
	//
	// Returns:
	//   - error: error from effect compilation or the device
	DrawItems(ctx *RenderContext, items RenderItemList, from, to int) error
}
