package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
)

var (
	// ErrAlreadyLoaded is returned by Load on a renderer that is loaded.
	ErrAlreadyLoaded = errors.New("renderer: already loaded")
	// ErrNotLoaded is returned by Draw and ToLoadAndUnload on a renderer that is not loaded.
	ErrNotLoaded = errors.New("renderer: not loaded")
	// ErrContextMismatch is returned by Draw when the context differs from the one passed to Load.
	ErrContextMismatch = errors.New("renderer: drawn with a context other than the one it was loaded with")
)

// Core is the drawing behaviour plugged into a Renderer created by New.
// A Core may also implement Loader and Unloader.
type Core interface {
	DrawCore(ctx *RenderContext) error
}

// Loader is implemented by cores that acquire resources when the renderer loads.
type Loader interface {
	LoadCore(ctx *RenderContext) error
}

// Unloader is implemented by cores that release resources when the renderer unloads.
type Unloader interface {
	UnloadCore()
}

// Renderer is a named drawing unit with a Load/Draw/Unload lifecycle.
// Draw is only valid between Load and the next Unload, and only with the context given to Load.
type Renderer interface {
	// Name returns the renderer's debug name.
	Name() string

	// Enabled reports whether Draw does anything.
	Enabled() bool

	// SetEnabled toggles drawing without touching the load state.
	//
	// Parameters:
	//   - enabled: the new state
	SetEnabled(enabled bool)

	// IsLoaded reports whether the renderer is between Load and Unload.
	IsLoaded() bool

	// Context returns the context bound by Load, or nil when unloaded.
	Context() *RenderContext

	// Initialize is Load under the name used by composition code.
	Initialize(ctx *RenderContext) error

	// Load binds the renderer to ctx and acquires its resources.
	// On failure the renderer stays unloaded and any children it loaded are unloaded again.
	//
	// Parameters:
	//   - ctx: the context every later Draw must use
	//
	// Returns:
	//   - error: ErrAlreadyLoaded, or the core's load error
	Load(ctx *RenderContext) error

	// Unload releases resources and unbinds the context. Unloading an unloaded renderer is a no-op.
	Unload()

	// Draw runs the renderer's draw core. A disabled renderer returns nil without drawing.
	// Temporary textures obtained through ScopedTexture are released when the core returns or panics.
	//
	// Parameters:
	//   - ctx: must be the context bound by Load
	//
	// Returns:
	//   - error: ErrNotLoaded, ErrContextMismatch, or the core's draw error
	Draw(ctx *RenderContext) error

	// ToLoadAndUnload loads child against this renderer's context now and unloads it with this renderer.
	//
	// Parameters:
	//   - child: the renderer to own
	//
	// Returns:
	//   - error: ErrNotLoaded if this renderer is not loaded, or the child's load error
	ToLoadAndUnload(child Renderer) error

	// ScopedTexture obtains a temporary texture that lives until the current Draw returns.
	//
	// Parameters:
	//   - desc: the texture descriptor
	//
	// Returns:
	//   - *graphics.Texture: the temporary texture
	//   - error: error if called outside Draw or allocation fails
	ScopedTexture(desc graphics.TextureDescriptor) (*graphics.Texture, error)
}

type rendererImpl struct {
	name      string
	enabled   bool
	profiling bool
	core      Core
	ctx       *RenderContext
	owned     []Renderer
	scoped    []*graphics.Texture
	drawing   int
}

var _ Renderer = &rendererImpl{}

// New creates a Renderer driven by core.
// Types that embed the returned Renderer usually pass themselves as core.
//
// Parameters:
//   - name: debug name, also used for profiling markers
//   - core: the draw core; may additionally implement Loader and Unloader
//   - options: functional options applied after defaults
//
// Returns:
//   - Renderer: the renderer, enabled and unloaded
func New(name string, core Core, options ...RendererBuilderOption) Renderer {
	if core == nil {
		panic("renderer: New requires a core")
	}
	r := &rendererImpl{
		name:      name,
		enabled:   true,
		profiling: true,
		core:      core,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *rendererImpl) Name() string {
	return r.name
}

func (r *rendererImpl) Enabled() bool {
	return r.enabled
}

func (r *rendererImpl) SetEnabled(enabled bool) {
	r.enabled = enabled
}

func (r *rendererImpl) IsLoaded() bool {
	return r.ctx != nil
}

func (r *rendererImpl) Context() *RenderContext {
	return r.ctx
}

func (r *rendererImpl) Initialize(ctx *RenderContext) error {
	return r.Load(ctx)
}

func (r *rendererImpl) Load(ctx *RenderContext) error {
	if ctx == nil {
		panic("renderer: Load requires a context")
	}
	if r.ctx != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, r.name)
	}

	r.ctx = ctx
	if l, ok := r.core.(Loader); ok {
		if err := l.LoadCore(ctx); err != nil {
			r.unloadOwned()
			r.ctx = nil
			return fmt.Errorf("load %s: %w", r.name, err)
		}
	}
	common.Logger().Debug("renderer loaded", "renderer", r.name)
	return nil
}

func (r *rendererImpl) Unload() {
	if r.ctx == nil {
		return
	}
	r.unloadOwned()
	if u, ok := r.core.(Unloader); ok {
		u.UnloadCore()
	}
	r.releaseScoped()
	r.ctx = nil
	common.Logger().Debug("renderer unloaded", "renderer", r.name)
}

func (r *rendererImpl) unloadOwned() {
	for _, child := range slices.Backward(r.owned) {
		child.Unload()
	}
	r.owned = nil
}

func (r *rendererImpl) Draw(ctx *RenderContext) error {
	if !r.enabled {
		return nil
	}
	if r.ctx == nil {
		return fmt.Errorf("%w: %s", ErrNotLoaded, r.name)
	}
	if ctx != r.ctx {
		return fmt.Errorf("%w: %s", ErrContextMismatch, r.name)
	}

	if r.profiling {
		ctx.Device.BeginProfile(r.name)
		defer ctx.Device.EndProfile()
	}

	// Scoped textures from this draw are released on every exit path, nested draws release only their own.
	mark := len(r.scoped)
	r.drawing++
	defer func() {
		r.drawing--
		r.releaseScopedFrom(mark)
	}()

	return r.core.DrawCore(ctx)
}

func (r *rendererImpl) ToLoadAndUnload(child Renderer) error {
	if r.ctx == nil {
		return fmt.Errorf("%w: %s", ErrNotLoaded, r.name)
	}
	if err := child.Load(r.ctx); err != nil {
		return err
	}
	r.owned = append(r.owned, child)
	return nil
}

func (r *rendererImpl) ScopedTexture(desc graphics.TextureDescriptor) (*graphics.Texture, error) {
	if r.drawing == 0 {
		return nil, fmt.Errorf("renderer: %s requested a scoped texture outside Draw", r.name)
	}
	t, err := r.ctx.Allocator.GetTemporaryTexture(desc)
	if err != nil {
		return nil, err
	}
	r.scoped = append(r.scoped, t)
	return t, nil
}

func (r *rendererImpl) releaseScoped() {
	r.releaseScopedFrom(0)
}

func (r *rendererImpl) releaseScopedFrom(mark int) {
	if r.ctx == nil {
		r.scoped = nil
		return
	}
	mark = min(mark, len(r.scoped))
	for _, t := range r.scoped[mark:] {
		r.ctx.Allocator.ReleaseReference(t)
	}
	r.scoped = r.scoped[:mark]
}
