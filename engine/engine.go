package engine

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/config"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
	"github.com/Carmen-Shannon/oxy-compose/engine/window"
)

// ErrClosed is returned by RenderFrame and Run after Close.
var ErrClosed = errors.New("engine: closed")

// Engine drives the update and render loops. Each render frame advances the frame clock,
// applies queued shader reloads, draws every registered pipeline and presents.
type Engine interface {
	// Config returns the configuration the engine was built with.
	Config() config.Config

	// Window returns the window, or nil for headless engines.
	Window() window.Window

	// Device returns the graphics device.
	Device() graphics.Device

	// Context returns the render context shared by every pipeline.
	Context() *renderer.RenderContext

	// Manager returns the pipeline manager drawn each frame.
	Manager() renderer.Manager

	// Effects returns the effect system published in the context tags.
	Effects() effect.System

	// Profiler returns the frame profiler.
	Profiler() *profiler.Profiler

	// AddScene registers a scene at the given key. Scenes update in ascending key order.
	AddScene(key int, s scene.Scene)

	// RemoveScene unregisters the scene at key without closing it.
	RemoveScene(key int)

	// Scene returns the scene at key, or nil.
	Scene(key int) scene.Scene

	// Scenes returns the registered scenes in ascending key order.
	Scenes() []scene.Scene

	// SetTickRate sets the update rate. Values <= 0 select 60Hz.
	SetTickRate(fps float64)

	// SetRenderFrameLimit caps the render rate. Pass 0 to uncap.
	SetRenderFrameLimit(fps float64)

	// SetTickCallback registers a function called after the scenes update each tick.
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function called after each presented frame.
	SetRenderCallback(callback func(deltaTime float32))

	// Resize queues a back buffer resize applied at the start of the next render frame.
	Resize(width, height int)

	// Tick updates every active scene by dt seconds, then runs the tick callback.
	Tick(dt float32)

	// RenderFrame draws and presents one frame.
	//
	// Parameters:
	//   - elapsed: time since the previous frame
	//
	// Returns:
	//   - error: ErrClosed, or the first draw, resize or present error
	RenderFrame(elapsed time.Duration) error

	// Run starts the update and render loops and blocks until Quit, the window closes or a
	// frame fails.
	//
	// Returns:
	//   - error: the frame error that stopped the engine, or nil
	Run() error

	// Quit stops Run. Safe to call more than once.
	Quit()

	// Close releases the pipelines, the effect system and whatever the engine created.
	//
	// Returns:
	//   - error: joined release errors
	Close() error
}

type engine struct {
	mu  sync.Mutex
	cfg config.Config

	window  window.Window
	device  graphics.Device
	ctx     *renderer.RenderContext
	manager renderer.Manager
	effects effect.System

	ownsWindow, ownsDevice, ownsEffects bool

	profiler         *profiler.Profiler
	profilingEnabled bool

	shaderFS         fs.FS
	pipelines        []renderer.RenderPipeline
	orbitSensitivity float32

	scenes map[int]scene.Scene

	tickRate         atomic.Int64
	renderFrameLimit atomic.Int64
	tickCallback     func(deltaTime float32)
	renderCallback   func(deltaTime float32)

	pendingResize atomic.Pointer[[2]uint32]

	quit     chan struct{}
	quitOnce sync.Once
	closed   atomic.Bool
}

var _ Engine = &engine{}

// NewEngine builds an engine from config.Default overridden by options. Without WithDevice
// the backend named by the configuration is opened: "headless" needs no window, "wgpu"
// presents to the window from WithWindow or to a new one. Without WithEffectSystem a
// naga-backed effect system reads shaders from the configured source directories.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine
//   - error: error if the window, device, effect system or a pipeline fails to start
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		cfg:    config.Default(),
		scenes: make(map[int]scene.Scene),
		quit:   make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.tickRate.Load() == 0 {
		e.SetTickRate(e.cfg.Loop.TickRate)
	}
	if e.renderFrameLimit.Load() == 0 {
		e.SetRenderFrameLimit(e.cfg.Loop.FrameLimit)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(
			profiler.WithUpdateInterval(time.Duration(e.cfg.Profiler.Interval)),
			profiler.WithTopMarkers(e.cfg.Profiler.TopMarkers),
		)
		e.profilingEnabled = e.profilingEnabled || e.cfg.Profiler.Enabled
	}

	if err := e.start(); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

func (e *engine) start() error {
	if e.device == nil {
		if err := e.openDevice(); err != nil {
			return err
		}
		e.ownsDevice = true
	}

	if e.effects == nil {
		sys, err := e.openEffects()
		if err != nil {
			return err
		}
		e.effects = sys
		e.ownsEffects = true
	}

	e.ctx = renderer.NewRenderContext(e.device)
	common.Set(e.ctx.Tags, effect.SystemKey, e.effects)

	m, err := renderer.NewManager(e.ctx, e.pipelines...)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.manager = m

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		if e.orbitSensitivity > 0 {
			e.bindOrbit()
		}
	}
	common.Logger().Info("engine started",
		"platform", e.device.Platform().String(),
		"width", e.device.BackBuffer().Width(),
		"height", e.device.BackBuffer().Height(),
		"pipelines", len(e.pipelines))
	return nil
}

func (e *engine) openDevice() error {
	w, h := uint32(e.cfg.Window.Width), uint32(e.cfg.Window.Height)
	if e.cfg.Graphics.Backend == config.BackendHeadless {
		d, err := graphics.NewHeadlessDevice(graphics.WithBackBufferSize(w, h), graphics.WithHALProfiler(e.profiler))
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		e.device = d
		return nil
	}

	if e.window == nil {
		win, err := window.NewWindow(window.WithConfig(e.cfg.Window))
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		e.window = win
		e.ownsWindow = true
	}
	d, err := graphics.NewWGPUDevice(e.window.SurfaceDescriptor(), uint32(e.window.Width()), uint32(e.window.Height()),
		graphics.WithVSync(e.cfg.Graphics.VSync), graphics.WithWGPUProfiler(e.profiler))
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.device = d
	return nil
}

func (e *engine) openEffects() (effect.System, error) {
	var libOpts []shader.LibraryBuilderOption
	if e.shaderFS != nil {
		libOpts = append(libOpts, shader.WithFS(e.shaderFS))
	}
	lib := shader.NewLibrary(append(libOpts, shader.WithSearchDirs(e.cfg.Effects.SourceDirs...))...)

	compiler := effect.NewCompiler(lib,
		effect.WithAsyncWorkers(e.cfg.Effects.CompileWorkers),
		effect.WithValidation(e.cfg.Effects.Validate),
		effect.WithDebugInfo(e.cfg.Effects.DebugInfo),
	)
	var sysOpts []effect.SystemBuilderOption
	if e.cfg.Effects.HotReload {
		sysOpts = append(sysOpts, effect.WithHotReload(lib))
	}
	sys, err := effect.NewSystem(e.device, compiler, sysOpts...)
	if err != nil {
		_ = compiler.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	return sys, nil
}

// bindOrbit routes window input to the first scene camera driven by an orbit controller.
func (e *engine) bindOrbit() {
	for _, s := range e.Scenes() {
		cam := s.Camera()
		if cam == nil {
			continue
		}
		if oc, ok := cam.Controller().(*camera.OrbitController); ok {
			window.BindOrbit(e.window, oc, e.orbitSensitivity)
			return
		}
	}
}

func (e *engine) Config() config.Config {
	return e.cfg
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Device() graphics.Device {
	return e.device
}

func (e *engine) Context() *renderer.RenderContext {
	return e.ctx
}

func (e *engine) Manager() renderer.Manager {
	return e.manager
}

func (e *engine) Effects() effect.System {
	return e.effects
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp.Compare[int])
	out := make([]scene.Scene, len(keys))
	for i, k := range keys {
		out[i] = e.scenes[k]
	}
	return out
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.tickRate.Store(int64(float64(time.Second) / fps))
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit.Store(-1)
		return
	}
	e.renderFrameLimit.Store(int64(float64(time.Second) / fps))
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized windows report a zero framebuffer; keep the last size.
		return
	}
	e.pendingResize.Store(&[2]uint32{uint32(width), uint32(height)})
}

func (e *engine) Tick(dt float32) {
	for _, s := range e.Scenes() {
		if s.Active() {
			s.Update(dt)
		}
	}
	e.mu.Lock()
	cb := e.tickCallback
	e.mu.Unlock()
	if cb != nil {
		cb(dt)
	}
}

func (e *engine) RenderFrame(elapsed time.Duration) error {
	if e.closed.Load() {
		return ErrClosed
	}
	defer e.profiler.Track("Engine.RenderFrame")()

	if size := e.pendingResize.Swap(nil); size != nil {
		if err := e.device.Resize(size[0], size[1]); err != nil {
			return fmt.Errorf("engine: resize: %w", err)
		}
	}

	e.ctx.AdvanceFrame(elapsed)
	e.effects.Update()

	if err := e.manager.Draw(); err != nil {
		return err
	}
	if err := e.device.Present(); err != nil {
		return fmt.Errorf("engine: present: %w", err)
	}
	e.ctx.Allocator.Recycle()

	e.mu.Lock()
	cb := e.renderCallback
	e.mu.Unlock()
	if cb != nil {
		cb(float32(elapsed.Seconds()))
	}
	if e.profilingEnabled {
		e.profiler.Tick()
	}
	return nil
}

func (e *engine) Run() error {
	if e.closed.Load() {
		return ErrClosed
	}
	var (
		wg       sync.WaitGroup
		frameErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.runTicks()
	}()
	go func() {
		defer wg.Done()
		if err := e.runFrames(); err != nil {
			frameErr = err
			common.Logger().Error("render loop stopped", "error", err)
			e.Quit()
		}
	}()

	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quit:
				_ = e.window.Close()
			default:
			}
		})
		e.window.ProcessMessages()
		e.Quit()
	}
	wg.Wait()
	return frameErr
}

func (e *engine) runTicks() {
	rate := time.Duration(e.tickRate.Load())
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-e.quit:
			return
		case now := <-ticker.C:
			e.Tick(float32(now.Sub(last).Seconds()))
			last = now
			if r := time.Duration(e.tickRate.Load()); r != rate {
				rate = r
				ticker.Reset(rate)
			}
		}
	}
}

func (e *engine) runFrames() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: render panic: %v", r)
		}
	}()

	last := time.Now()
	for {
		select {
		case <-e.quit:
			return nil
		default:
		}
		start := time.Now()
		if err := e.RenderFrame(start.Sub(last)); err != nil {
			return err
		}
		last = start

		if limit := time.Duration(e.renderFrameLimit.Load()); limit > 0 {
			if remaining := limit - time.Since(start); remaining > 0 {
				select {
				case <-e.quit:
					return nil
				case <-time.After(remaining):
				}
			}
		}
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quit)
	})
}

func (e *engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.Quit()

	var errs []error
	if e.manager != nil {
		e.manager.Close()
	}
	if e.ownsEffects && e.effects != nil {
		errs = append(errs, e.effects.Close())
	}
	if e.ownsDevice && e.device != nil {
		e.device.Close()
	}
	if e.ownsWindow && e.window != nil && e.window.IsRunning() {
		errs = append(errs, e.window.Close())
	}
	return errors.Join(errs...)
}
