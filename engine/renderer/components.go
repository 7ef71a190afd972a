package renderer

// ComponentItems holds the per-frame buckets shared by a group of EntityComponentRenderers.
// Keep one per drawing renderer so the buckets reuse their capacity across frames.
type ComponentItems struct {
	Opaque      RenderItemList
	Transparent RenderItemList
}

// DrawComponents prepares every renderer into items, sorts the opaque bucket front-to-back and the
// transparent bucket back-to-front, and draws opaque before transparent. Each maximal run of items
// owned by one renderer is drawn with a single DrawItems call.
//
// Parameters:
//   - ctx: the loaded context
//   - items: the buckets to reuse; reset on entry
//   - renderers: the component renderers, prepared in order
//
// Returns:
//   - error: the first DrawItems error
func DrawComponents(ctx *RenderContext, items *ComponentItems, renderers ...EntityComponentRenderer) error {
	items.Opaque.Reset()
	items.Transparent.Reset()
	for _, r := range renderers {
		if r.Enabled() {
			r.Prepare(ctx, &items.Opaque, &items.Transparent)
		}
	}
	items.Opaque.SortFrontToBack()
	items.Transparent.SortBackToFront()

	if err := drawRuns(ctx, items.Opaque); err != nil {
		return err
	}
	return drawRuns(ctx, items.Transparent)
}

func drawRuns(ctx *RenderContext, items RenderItemList) error {
	for from := 0; from < len(items); {
		owner := items[from].Renderer
		to := from + 1
		for to < len(items) && items[to].Renderer == owner {
			to++
		}
		if err := owner.DrawItems(ctx, items, from, to); err != nil {
			return err
		}
		from = to
	}
	return nil
}
