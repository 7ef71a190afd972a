package compositor

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// UIRectKey carries the rectangle of the UI element being drawn.
var UIRectKey = graphics.NewParameterKey[mgl32.Vec4]("UIRect")

// UIRenderer draws the scene's UI elements over everything else: the depth target is cleared first and
// elements are drawn in ascending Z, ties in scene order.
type UIRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	scene  scene.Scene
	params *graphics.ParameterCollection
}

var _ renderer.SceneRenderer = &UIRenderer{}

// NewUIRenderer creates a UI renderer for s.
func NewUIRenderer(s scene.Scene) *UIRenderer {
	if s == nil {
		panic("compositor: NewUIRenderer requires a scene")
	}
	r := &UIRenderer{scene: s, params: graphics.NewParameterCollection()}
	r.Renderer = renderer.New("UI", r)
	return r
}

func (r *UIRenderer) DrawCore(ctx *renderer.RenderContext) error {
	var objects []game_object.GameObject
	for _, obj := range r.scene.UIObjects() {
		if obj.Enabled() {
			objects = append(objects, obj)
		}
	}
	if len(objects) == 0 {
		return nil
	}
	slices.SortStableFunc(objects, func(a, b game_object.GameObject) int {
		return cmp.Compare(a.UI().Z, b.UI().Z)
	})

	if depth, _ := ctx.Device.RenderTargets(); depth != nil {
		if err := ctx.Device.Clear(graphics.ClearOptions{Flags: graphics.ClearDepth, Depth: 1}); err != nil {
			return err
		}
	}

	for _, obj := range objects {
		ui := obj.UI()
		graphics.SetParameter(r.params, UIRectKey, ui.Rect)
		err := ctx.Device.Draw(graphics.DrawCommand{
			Label:         ui.Label,
			Kind:          graphics.DrawUI,
			Parameters:    r.params,
			World:         mgl32.Ident4(),
			VertexCount:   6,
			InstanceCount: 1,
		})
		if err != nil {
			return fmt.Errorf("compositor: draw ui %q: %w", ui.Label, err)
		}
	}
	return nil
}
