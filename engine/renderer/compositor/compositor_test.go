package compositor

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/model"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/frame"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraRendererScopesCameraState(t *testing.T) {
	f := newFixture(t)
	f.camera.SetCullingMask(renderer.GroupMask(0b101))

	var seen camera.Camera
	var mask renderer.GroupMask
	var uniform []byte
	p := newRecorder(func(ctx *renderer.RenderContext) {
		seen, _ = common.Get(ctx.Tags, camera.CurrentKey)
		mask = common.GetOrDefault(ctx.Tags, renderer.CullingMaskKey)
		uniform, _ = graphics.GetParameter(ctx.Parameters, camera.UniformKey)
	})
	r := NewCameraRenderer(f.scene, WithCameraChildren(p))
	f.load(t, r)

	require.NoError(t, r.Draw(f.ctx))
	assert.Same(t, f.camera, seen)
	assert.Equal(t, renderer.GroupMask(0b101), mask)
	assert.NotEmpty(t, uniform)
	assert.InDelta(t, 320.0/240.0, f.camera.Aspect(), 1e-5)

	_, ok := common.Get(f.ctx.Tags, camera.CurrentKey)
	assert.False(t, ok)
	assert.Equal(t, renderer.GroupMaskAll, common.GetOrDefault(f.ctx.Tags, renderer.CullingMaskKey))
	_, ok = graphics.GetParameter(f.ctx.Parameters, camera.UniformKey)
	assert.False(t, ok)
}

func TestCameraRendererWithoutCameraSkipsChildren(t *testing.T) {
	f := newFixture(t)
	f.scene.SetCamera(nil)
	p := newRecorder(nil)
	r := NewCameraRenderer(f.scene, WithCameraChildren(p))
	f.load(t, r)

	require.NoError(t, r.Draw(f.ctx))
	assert.Equal(t, 0, p.draws)

	other := camera.NewCamera()
	r = NewCameraRenderer(f.scene, WithCamera(other), WithCameraChildren(newRecorder(nil)))
	f.load(t, r)
	assert.Same(t, other, r.Camera())
}

func TestPipelineDrawsComposedScene(t *testing.T) {
	f := newFixture(t)
	f.scene.Add(game_object.NewGameObject(
		game_object.WithModel(model.NewModel(
			model.WithMeshes(model.Mesh{Name: "body", Material: 0, VertexCount: 36}),
			model.WithMaterials(material.NewMaterial()),
		)),
	))
	f.scene.Add(game_object.NewGameObject(game_object.WithSprite(&game_object.Sprite{Texture: "leaf", Size: mgl32.Vec2{1, 1}})))
	f.scene.Add(game_object.NewGameObject(game_object.WithBackground(&game_object.Background{Color: mgl32.Vec4{0, 0, 1, 1}, Intensity: 1})))
	f.scene.Add(game_object.NewGameObject(game_object.WithUI(&game_object.UIElement{Label: "hud"})))

	models := NewModelRenderer(f.scene, "Mesh")
	cam := NewCameraRenderer(f.scene, WithCameraChildren(
		NewClearRenderer(),
		NewBackgroundRenderer(f.scene),
		models,
		NewSpriteRenderer(f.scene, "Sprite"),
		NewUIRenderer(f.scene),
	))
	pipeline := renderer.NewRenderPipeline("main", renderer.WithRendererDrawing(), renderer.WithRenderers(cam))
	m, err := renderer.NewManager(f.ctx, pipeline)
	require.NoError(t, err)
	t.Cleanup(m.Close)

	require.NoError(t, m.Draw())
	stats := f.device.Stats()
	assert.Equal(t, 4, stats.Draws, "background, mesh, sprite and ui")
	assert.Equal(t, 2, stats.Clears, "frame clear and ui depth clear")
	assert.Len(t, models.Items().Opaque, 1)
	assert.True(t, models.Component().IsLoaded())

	m.Close()
	assert.False(t, models.Component().IsLoaded())
}

func TestUIRendererDrawsInZOrder(t *testing.T) {
	f := newFixture(t)
	for _, e := range []game_object.UIElement{{Label: "top", Z: 5}, {Label: "bottom", Z: -1}, {Label: "middle", Z: 2}, {Label: "middle-2", Z: 2}} {
		f.scene.Add(game_object.NewGameObject(game_object.WithUI(&e)))
	}
	f.scene.Add(game_object.NewGameObject(game_object.WithUI(&game_object.UIElement{Label: "off"}), game_object.WithEnabled(false)))

	r := NewUIRenderer(f.scene)
	f.load(t, r)
	require.NoError(t, r.Draw(f.ctx))
	assert.Equal(t, 4, f.device.Stats().Draws)
	assert.Equal(t, 1, f.device.Stats().Clears)
}

func TestSpriteRendererCullsAndBuckets(t *testing.T) {
	f := newFixture(t)
	common.Set(f.ctx.Tags, camera.CurrentKey, f.camera)
	f.scene.Add(game_object.NewGameObject(game_object.WithName("near"), game_object.WithPosition(mgl32.Vec3{0, 0, 5}), game_object.WithSprite(&game_object.Sprite{})))
	f.scene.Add(game_object.NewGameObject(game_object.WithName("far"), game_object.WithPosition(mgl32.Vec3{0, 0, -5}), game_object.WithSprite(&game_object.Sprite{})))
	f.scene.Add(game_object.NewGameObject(game_object.WithName("glass"), game_object.WithSprite(&game_object.Sprite{Transparent: true})))
	f.scene.Add(game_object.NewGameObject(game_object.WithName("hidden"), game_object.WithGroup(4), game_object.WithSprite(&game_object.Sprite{})))
	defer common.Push(f.ctx.Tags, renderer.CullingMaskKey, renderer.GroupMask(1))()

	r := NewSpriteRenderer(f.scene, "")
	f.load(t, r)

	var opaque, transparent renderer.RenderItemList
	r.Prepare(f.ctx, &opaque, &transparent)
	require.Len(t, opaque, 2)
	require.Len(t, transparent, 1)

	opaque.SortFrontToBack()
	assert.Equal(t, "near", opaque[0].DrawContext.(spriteItem).object.Name())
	require.NoError(t, r.DrawItems(f.ctx, opaque, 0, 2))
	assert.Equal(t, 2, f.device.Stats().Draws)
}

func TestClearRendererDropsUnboundAttachments(t *testing.T) {
	f := newFixture(t)
	r := NewClearRenderer(WithClearColor(mgl32.Vec4{1, 0, 0, 1}), WithClearDepth(0.5), WithClearStencil(1))
	f.load(t, r)
	assert.Equal(t, float32(0.5), r.Options().Depth)

	f.device.SetRenderTargets(nil, f.device.BackBuffer())
	require.NoError(t, r.Draw(f.ctx), "depth clear is skipped without a depth target")
	f.device.SetRenderTargets(nil)
	require.NoError(t, r.Draw(f.ctx))
	assert.Equal(t, 1, f.device.Stats().Clears)
}

func TestFrameRendererBindsAndRestoresTargets(t *testing.T) {
	f := newFixture(t)
	desc := frame.Descriptor{Mode: frame.SizeRelative, Width: 50, Height: 50, Format: frame.FormatHDR, DepthFormat: frame.DepthOnly}

	var bound *graphics.Texture
	var current *frame.RenderFrame
	p := newRecorder(func(ctx *renderer.RenderContext) {
		_, colors := ctx.Device.RenderTargets()
		bound = colors[0]
		current, _ = common.Get(ctx.Tags, frame.CurrentKey)
	})
	r := NewFrameRenderer("Half", desc, p)
	f.load(t, r)

	require.NoError(t, r.Draw(f.ctx))
	out := r.Output()
	require.NotNil(t, out)
	assert.Equal(t, uint32(160), out.Width())
	assert.Equal(t, uint32(120), out.Height())
	assert.Same(t, out.RenderTarget(), bound)
	assert.Same(t, out, current)
	assert.Same(t, out, frame.FromTexture(bound))

	_, colors := f.device.RenderTargets()
	assert.Same(t, f.device.BackBuffer(), colors[0])

	require.NoError(t, r.Draw(f.ctx))
	assert.Same(t, out, r.Output(), "unchanged size keeps the frame")

	require.NoError(t, f.device.Resize(640, 480))
	require.NoError(t, r.Draw(f.ctx))
	assert.NotSame(t, out, r.Output())
	assert.Equal(t, uint32(320), r.Output().Width())

	r.Unload()
	assert.Nil(t, r.Output())
}

func TestRecursiveRendererDrawsNestedPipeline(t *testing.T) {
	f := newFixture(t)

	var nestedPass, outerPass renderer.RenderPass
	inner := newRecorder(func(ctx *renderer.RenderContext) { nestedPass = ctx.CurrentPass() })
	nested := renderer.NewRenderPipeline("nested", renderer.WithRendererDrawing(), renderer.WithRenderers(inner))
	rec := NewRecursiveRenderer(nested)
	after := newRecorder(func(ctx *renderer.RenderContext) { outerPass = ctx.CurrentPass() })

	main := renderer.NewRenderPipeline("main", renderer.WithRendererDrawing(), renderer.WithRenderers(rec, after))
	require.NoError(t, main.Attach(f.ctx))
	assert.Same(t, f.ctx, nested.Context())

	require.NoError(t, main.Draw(f.ctx))
	assert.Equal(t, 1, inner.draws)
	assert.Equal(t, nested, nestedPass)
	assert.Equal(t, main, outerPass)

	main.Detach()
	assert.Nil(t, nested.Context())
}
