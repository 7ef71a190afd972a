package compositor

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// BackgroundColorKey carries the background tint or fill color.
	BackgroundColorKey = graphics.NewParameterKey[mgl32.Vec4]("BackgroundColor")

	// BackgroundIntensityKey carries the background brightness scale.
	BackgroundIntensityKey = graphics.NewParameterKey[float32]("BackgroundIntensity")
)

// BackgroundRenderer fills the output with the scene's first enabled background component.
type BackgroundRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	scene  scene.Scene
	params *graphics.ParameterCollection
}

var _ renderer.SceneRenderer = &BackgroundRenderer{}

// NewBackgroundRenderer creates a background renderer for s.
func NewBackgroundRenderer(s scene.Scene) *BackgroundRenderer {
	if s == nil {
		panic("compositor: NewBackgroundRenderer requires a scene")
	}
	r := &BackgroundRenderer{scene: s, params: graphics.NewParameterCollection()}
	r.Renderer = renderer.New("Background", r)
	return r
}

func (r *BackgroundRenderer) DrawCore(ctx *renderer.RenderContext) error {
	obj := r.scene.Background()
	if obj == nil {
		return nil
	}
	bg := obj.Background()
	graphics.SetParameter(r.params, BackgroundColorKey, bg.Color)
	graphics.SetParameter(r.params, BackgroundIntensityKey, bg.Intensity)
	return ctx.Device.Draw(graphics.DrawCommand{
		Label:         bg.Texture,
		Kind:          graphics.DrawFullscreenQuad,
		Parameters:    r.params,
		World:         mgl32.Ident4(),
		VertexCount:   3,
		InstanceCount: 1,
	})
}
