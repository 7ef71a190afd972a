package compositor

import (
	"encoding/binary"
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const spirvMagic = 0x07230203

// hashCompiler compiles every request to words derived from the name and parameters.
type hashCompiler struct {
	calls int
}

func (c *hashCompiler) Compile(name string, params effect.CompilerParameters) *effect.Result[*effect.EffectBytecode] {
	c.calls++
	hash := params.Hash()
	words := []uint32{spirvMagic, binary.LittleEndian.Uint32(hash[:4])}
	for _, r := range name {
		words = append(words, uint32(r))
	}
	return effect.Completed(effect.NewEffectBytecode(name, words, "", params.Clone(), map[string][32]byte{name: {}}))
}

func (c *hashCompiler) ResetCache([]string) {}

type fixture struct {
	ctx    *renderer.RenderContext
	device graphics.Device
	system effect.System
	scene  scene.Scene
	camera camera.Camera
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	device, err := graphics.NewHeadlessDevice(graphics.WithBackBufferSize(320, 240))
	require.NoError(t, err)
	t.Cleanup(device.Close)

	sys, err := effect.NewSystem(device, &hashCompiler{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Close() })

	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{0, 0, 10}))
	s := scene.NewScene("test", scene.WithCamera(cam))
	t.Cleanup(s.Close)

	ctx := renderer.NewRenderContext(device)
	common.Set(ctx.Tags, effect.SystemKey, sys)
	return &fixture{ctx: ctx, device: device, system: sys, scene: s, camera: cam}
}

func (f *fixture) load(t *testing.T, r renderer.Renderer) {
	t.Helper()
	require.NoError(t, r.Load(f.ctx))
	t.Cleanup(r.Unload)
}

// recorder is a scene renderer running a callback on every draw.
type recorder struct {
	renderer.Renderer
	renderer.SceneRendererTag
	onDraw func(ctx *renderer.RenderContext)
	draws  int
}

func newRecorder(onDraw func(ctx *renderer.RenderContext)) *recorder {
	p := &recorder{onDraw: onDraw}
	p.Renderer = renderer.New("recorder", p)
	return p
}

func (p *recorder) DrawCore(ctx *renderer.RenderContext) error {
	p.draws++
	if p.onDraw != nil {
		p.onDraw(ctx)
	}
	return nil
}
