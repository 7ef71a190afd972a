package model_renderer

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/model"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const spirvMagic = 0x07230203

// testCompiler compiles every permutation to distinct words derived from the parameter hash.
// Each effect depends on a source file of its own name.
type testCompiler struct {
	mu    sync.Mutex
	calls map[string]int
	fail  error
	gate  chan struct{}
}

func newTestCompiler() *testCompiler {
	return &testCompiler{calls: make(map[string]int)}
}

func (c *testCompiler) Compile(name string, params effect.CompilerParameters) *effect.Result[*effect.EffectBytecode] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name]++
	if c.fail != nil {
		return effect.Failed[*effect.EffectBytecode](&effect.CompileError{Effect: name, Log: c.fail.Error()})
	}

	hash := params.Hash()
	words := []uint32{spirvMagic}
	for i := 0; i < len(hash); i += 4 {
		words = append(words, binary.LittleEndian.Uint32(hash[i:]))
	}
	for _, r := range name {
		words = append(words, uint32(r))
	}
	bc := effect.NewEffectBytecode(name, words, "", params.Clone(), map[string][32]byte{name: {}})
	if c.gate == nil {
		return effect.Completed(bc)
	}
	gate := c.gate
	return effect.Go(func() (*effect.EffectBytecode, error) {
		<-gate
		return bc, nil
	})
}

func (c *testCompiler) ResetCache([]string) {}

func (c *testCompiler) callCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

// hold makes later compiles wait until the returned function is called.
func (c *testCompiler) hold() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	gate := make(chan struct{})
	c.gate = gate
	return func() { close(gate) }
}

func (c *testCompiler) setFail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = err
}

type fixture struct {
	ctx      *renderer.RenderContext
	device   graphics.Device
	system   effect.System
	compiler *testCompiler
	scene    scene.Scene
	camera   camera.Camera
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	device, err := graphics.NewHeadlessDevice(graphics.WithBackBufferSize(320, 240))
	require.NoError(t, err)
	t.Cleanup(device.Close)

	c := newTestCompiler()
	sys, err := effect.NewSystem(device, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Close() })

	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{0, 0, 10}), camera.WithFar(100))
	s := scene.NewScene("test", scene.WithCamera(cam))
	t.Cleanup(s.Close)

	ctx := renderer.NewRenderContext(device)
	common.Set(ctx.Tags, effect.SystemKey, sys)
	common.Set(ctx.Tags, camera.CurrentKey, cam)

	return &fixture{ctx: ctx, device: device, system: sys, compiler: c, scene: s, camera: cam}
}

// addModel adds an object at z with one mesh per material. A nil material uses the renderer default.
func (f *fixture) addModel(name string, z float32, mats ...material.Material) game_object.GameObject {
	var meshes []model.Mesh
	var used []material.Material
	for _, m := range mats {
		mesh := model.Mesh{Name: name, Material: -1, VertexCount: 3}
		if m != nil {
			mesh.Material = len(used)
			used = append(used, m)
		}
		meshes = append(meshes, mesh)
	}
	obj := game_object.NewGameObject(
		game_object.WithName(name),
		game_object.WithPosition(mgl32.Vec3{0, 0, z}),
		game_object.WithModel(model.NewModel(model.WithName(name), model.WithMeshes(meshes...), model.WithMaterials(used...))),
	)
	obj.Update(0)
	f.scene.Add(obj)
	return obj
}

func (f *fixture) load(t *testing.T, r renderer.Renderer) {
	t.Helper()
	require.NoError(t, r.Load(f.ctx))
	t.Cleanup(r.Unload)
}

// drawOrder records the object names of meshes as they are drawn.
type drawOrder struct {
	names []string
}

func (d *drawOrder) callbacks() *Callbacks {
	return &Callbacks{PostEffectUpdate: func(_ *renderer.RenderContext, m *RenderMesh) {
		d.names = append(d.names, m.Model.Object.Name())
	}}
}
