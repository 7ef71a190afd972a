package engine

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/config"
	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/compositor"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadSource = `@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}`

func headlessConfig() config.Config {
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 320, 240
	cfg.Graphics.Backend = config.BackendHeadless
	cfg.Effects.SourceDirs = nil
	cfg.Effects.HotReload = false
	cfg.Effects.Validate = false
	return cfg
}

func newHeadlessEngine(t *testing.T, options ...EngineBuilderOption) Engine {
	t.Helper()
	fsys := fstest.MapFS{"Quad.wgsl": {Data: []byte(quadSource)}}
	e, err := NewEngine(append([]EngineBuilderOption{WithConfig(headlessConfig()), WithShaderFS(fsys)}, options...)...)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, e.Close()) })
	return e
}

func TestNewEnginePublishesEffectSystem(t *testing.T) {
	e := newHeadlessEngine(t)

	assert.Nil(t, e.Window())
	assert.Equal(t, uint32(320), e.Device().BackBuffer().Width())
	sys, ok := common.Get(e.Context().Tags, effect.SystemKey)
	require.True(t, ok)
	assert.Same(t, e.Effects(), sys)

	fx, err := e.Effects().LoadEffect("Quad", nil)
	require.NoError(t, err)
	assert.Equal(t, "vs_main", fx.Bytecode().Reflection.VertexEntry)
}

func TestRenderFrameDrawsPipelines(t *testing.T) {
	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{0, 0, 10}))
	s := scene.NewScene("main", scene.WithCamera(cam))
	t.Cleanup(s.Close)
	s.Add(game_object.NewGameObject(game_object.WithUI(&game_object.UIElement{Label: "hud"})))

	pipeline := renderer.NewRenderPipeline("main", renderer.WithRendererDrawing(), renderer.WithRenderers(
		compositor.NewCameraRenderer(s, compositor.WithCameraChildren(
			compositor.NewClearRenderer(),
			compositor.NewUIRenderer(s),
		)),
	))

	var presented []float32
	e := newHeadlessEngine(t, WithPipelines(pipeline), WithScene(0, s))
	e.SetRenderCallback(func(dt float32) { presented = append(presented, dt) })

	require.NoError(t, e.RenderFrame(16*time.Millisecond))
	require.NoError(t, e.RenderFrame(16*time.Millisecond))

	assert.Len(t, presented, 2)
	assert.Equal(t, uint64(2), e.Context().Time.Frame)
	assert.Equal(t, 32*time.Millisecond, e.Context().Time.Total)
	assert.Equal(t, 2, e.Device().Stats().Draws)
	assert.Same(t, pipeline, e.Manager().Pipeline("main"))
}

func TestResizeAppliesOnNextFrame(t *testing.T) {
	e := newHeadlessEngine(t)

	e.Resize(640, 480)
	assert.Equal(t, uint32(320), e.Device().BackBuffer().Width())
	e.Resize(0, 0)
	require.NoError(t, e.RenderFrame(time.Millisecond))
	assert.Equal(t, uint32(640), e.Device().BackBuffer().Width())
	assert.Equal(t, uint32(480), e.Device().BackBuffer().Height())
}

func TestTickUpdatesActiveScenesInKeyOrder(t *testing.T) {
	var order []string
	first := scene.NewScene("first")
	second := scene.NewScene("second")
	paused := scene.NewScene("paused", scene.WithActive(false))
	for _, s := range []scene.Scene{first, second, paused} {
		t.Cleanup(s.Close)
	}
	spin := game_object.NewGameObject(game_object.WithRotationSpeed(mgl32.Vec3{0, 1, 0}))
	first.Add(spin)
	frozen := game_object.NewGameObject(game_object.WithRotationSpeed(mgl32.Vec3{0, 1, 0}))
	paused.Add(frozen)

	e := newHeadlessEngine(t, WithScene(2, second), WithScene(1, first), WithScene(3, paused))
	e.SetTickCallback(func(float32) {
		for _, s := range e.Scenes() {
			order = append(order, s.Name())
		}
	})

	e.Tick(0.5)
	assert.Equal(t, []string{"first", "second", "paused"}, order)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, spin.Rotation())
	assert.Equal(t, mgl32.Vec3{}, frozen.Rotation())

	e.RemoveScene(2)
	assert.Nil(t, e.Scene(2))
	assert.Len(t, e.Scenes(), 2)
}

func TestRunStopsOnQuit(t *testing.T) {
	e := newHeadlessEngine(t, WithTickRate(200), WithRenderFrameLimit(200))

	frames := make(chan struct{}, 1)
	e.SetRenderCallback(func(float32) {
		select {
		case frames <- struct{}{}:
		default:
		}
	})

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	select {
	case <-frames:
	case <-time.After(5 * time.Second):
		t.Fatal("no frame rendered")
	}
	e.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestClosedEngineRejectsFrames(t *testing.T) {
	e, err := NewEngine(WithConfig(headlessConfig()))
	require.NoError(t, err)
	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.RenderFrame(time.Millisecond), ErrClosed)
	assert.ErrorIs(t, e.Run(), ErrClosed)
	assert.NoError(t, e.Close())
}

func TestInvalidConfig(t *testing.T) {
	cfg := headlessConfig()
	cfg.Graphics.Backend = "vulkan"
	_, err := NewEngine(WithConfig(cfg))
	assert.ErrorContains(t, err, "backend")
}
