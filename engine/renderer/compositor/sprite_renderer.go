package compositor

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/model_renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// SpriteColorKey carries the tint of the sprite being drawn.
var SpriteColorKey = graphics.NewParameterKey[mgl32.Vec4]("SpriteColor")

// SpriteRenderer draws the scene's sprite components as quads. Sprites are culled by render group,
// bucketed by transparency and depth sorted like meshes.
type SpriteRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	scene      scene.Scene
	effectName string
	effect     *model_renderer.DynamicEffectCompiler
	items      renderer.ComponentItems
	params     []*graphics.ParameterCollection
}

var _ renderer.SceneRenderer = &SpriteRenderer{}
var _ renderer.EntityComponentRenderer = &SpriteRenderer{}

// NewSpriteRenderer creates a sprite renderer for s.
//
// Parameters:
//   - s: the scene
//   - effectName: the sprite effect, "" to draw without one
//
// Returns:
//   - *SpriteRenderer: the renderer
func NewSpriteRenderer(s scene.Scene, effectName string) *SpriteRenderer {
	if s == nil {
		panic("compositor: NewSpriteRenderer requires a scene")
	}
	r := &SpriteRenderer{scene: s, effectName: effectName}
	r.Renderer = renderer.New("Sprites", r)
	return r
}

func (r *SpriteRenderer) LoadCore(ctx *renderer.RenderContext) error {
	if r.effectName == "" {
		return nil
	}
	sys, ok := common.Get(ctx.Tags, effect.SystemKey)
	if !ok || sys == nil {
		return model_renderer.ErrNoEffectSystem
	}
	r.effect = model_renderer.NewDynamicEffectCompiler(sys, r.effectName, false)
	return nil
}

func (r *SpriteRenderer) UnloadCore() {
	r.effect = nil
}

func (r *SpriteRenderer) DrawCore(ctx *renderer.RenderContext) error {
	return renderer.DrawComponents(ctx, &r.items, r)
}

type spriteItem struct {
	object game_object.GameObject
	sprite *game_object.Sprite
	params *graphics.ParameterCollection
}

func (r *SpriteRenderer) Prepare(ctx *renderer.RenderContext, opaque, transparent *renderer.RenderItemList) {
	cam, ok := common.Get(ctx.Tags, camera.CurrentKey)
	if !ok || cam == nil {
		return
	}
	mask := common.GetOrDefault(ctx.Tags, renderer.CullingMaskKey)
	viewProj := cam.ViewProjection()

	n := 0
	for _, obj := range r.scene.SpriteObjects() {
		s := obj.Sprite()
		if s == nil || !obj.Enabled() || !mask.Contains(obj.Group()) {
			continue
		}
		r.params = common.GrowTo(r.params, n+1)
		if r.params[n] == nil {
			r.params[n] = graphics.NewParameterCollection()
		}
		graphics.SetParameter(r.params[n], SpriteColorKey, s.Color)

		item := renderer.RenderItem{
			Renderer:    r,
			DrawContext: spriteItem{object: obj, sprite: s, params: r.params[n]},
			Depth:       common.ProjectDepth(viewProj, obj.Position()),
		}
		n++
		if s.Transparent {
			*transparent = append(*transparent, item)
		} else {
			*opaque = append(*opaque, item)
		}
	}
}

func (r *SpriteRenderer) DrawItems(ctx *renderer.RenderContext, items renderer.RenderItemList, from, to int) error {
	var module *graphics.ShaderModule
	if r.effect != nil {
		if _, err := r.effect.Update(effect.ParametersFrom(ctx.Parameters)); err != nil {
			return fmt.Errorf("compositor: sprite effect: %w", err)
		}
		if e := r.effect.Effect(); e != nil {
			module = e.Module()
		}
	}

	for _, item := range items[from:to] {
		it, ok := item.DrawContext.(spriteItem)
		if !ok {
			continue
		}
		size := it.sprite.Size
		world := it.object.WorldMatrix().Mul4(mgl32.Scale3D(size.X(), size.Y(), 1))
		err := ctx.Device.Draw(graphics.DrawCommand{
			Label:         it.sprite.Texture,
			Kind:          graphics.DrawSprite,
			Module:        module,
			Parameters:    it.params,
			World:         world,
			VertexCount:   6,
			InstanceCount: 1,
		})
		if err != nil {
			return fmt.Errorf("compositor: draw sprite %q: %w", it.object.Name(), err)
		}
	}
	return nil
}
