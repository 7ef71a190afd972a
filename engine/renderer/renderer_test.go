package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTwiceFails(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	r, _ := newTestRenderer("A", log)

	require.NoError(t, r.Initialize(ctx))
	assert.ErrorIs(t, r.Load(ctx), ErrAlreadyLoaded)
	assert.Same(t, ctx, r.Context())
	assert.Equal(t, []string{"load:A"}, log.events)
}

func TestUnloadIsIdempotent(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	r, _ := newTestRenderer("A", log)

	r.Unload()
	require.NoError(t, r.Load(ctx))
	r.Unload()
	r.Unload()

	assert.False(t, r.IsLoaded())
	assert.Equal(t, []string{"load:A", "unload:A"}, log.events)
}

func TestDrawRequiresMatchingLoadedContext(t *testing.T) {
	ctx := newTestContext(t)
	other := newTestContext(t)
	log := &eventLog{}
	r, _ := newTestRenderer("A", log)

	assert.ErrorIs(t, r.Draw(ctx), ErrNotLoaded)

	require.NoError(t, r.Load(ctx))
	assert.ErrorIs(t, r.Draw(other), ErrContextMismatch)
	require.NoError(t, r.Draw(ctx))

	r.Unload()
	require.NoError(t, r.Load(other))
	require.NoError(t, r.Draw(other), "reloading with another context rebinds it")
}

func TestDisabledRendererSkipsDraw(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	r, _ := newTestRenderer("A", log, WithEnabled(false))

	require.NoError(t, r.Draw(ctx), "disabled renderers do not check load state")
	require.NoError(t, r.Load(ctx))
	require.NoError(t, r.Draw(ctx))
	r.SetEnabled(true)
	require.NoError(t, r.Draw(ctx))

	assert.Equal(t, []string{"load:A", "draw:A"}, log.events)
}

func TestLoadFailureLeavesRendererUnloaded(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	boom := errors.New("boom")

	child, _ := newTestRenderer("child", log)

	owner := &ownerCore{log: log, child: child, err: boom}
	r := New("owner", owner)
	owner.self = r

	err := r.Load(ctx)
	assert.ErrorIs(t, err, boom)
	assert.False(t, r.IsLoaded())
	assert.False(t, child.IsLoaded(), "children loaded during a failed load are unloaded")
	assert.Equal(t, []string{"load:child", "unload:child"}, log.events)
}

type ownerCore struct {
	log   *eventLog
	self  Renderer
	child Renderer
	err   error
}

func (o *ownerCore) LoadCore(*RenderContext) error {
	if err := o.self.ToLoadAndUnload(o.child); err != nil {
		return err
	}
	return o.err
}

func (o *ownerCore) DrawCore(ctx *RenderContext) error {
	return o.child.Draw(ctx)
}

func TestToLoadAndUnloadOwnsChild(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	child, _ := newTestRenderer("child", log)

	owner := &ownerCore{log: log, child: child}
	r := New("owner", owner)
	owner.self = r

	assert.ErrorIs(t, r.ToLoadAndUnload(child), ErrNotLoaded)

	require.NoError(t, r.Load(ctx))
	assert.True(t, child.IsLoaded())
	require.NoError(t, r.Draw(ctx))

	r.Unload()
	assert.False(t, child.IsLoaded())
	assert.Equal(t, []string{"load:child", "draw:child", "unload:child"}, log.events)
}

func TestScopedTexturesReleasedAfterDraw(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	r, core := newTestRenderer("A", log)
	desc := graphics.RenderTargetDescriptor("scratch", 16, 16, gputypes.TextureFormatRGBA8Unorm)

	var inDraw int
	core.onDraw = func(ctx *RenderContext) error {
		_, err := r.ScopedTexture(desc)
		require.NoError(t, err)
		inDraw = ctx.Allocator.InUse()
		return nil
	}

	_, err := r.ScopedTexture(desc)
	assert.Error(t, err, "scoped textures only exist during Draw")

	require.NoError(t, r.Load(ctx))
	require.NoError(t, r.Draw(ctx))
	assert.Equal(t, 1, inDraw)
	assert.Equal(t, 0, ctx.Allocator.InUse())
	assert.Equal(t, 1, ctx.Allocator.Pooled())
}

func TestScopedTexturesReleasedWhenDrawPanics(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	r, core := newTestRenderer("A", log)
	core.onDraw = func(*RenderContext) error {
		_, err := r.ScopedTexture(graphics.RenderTargetDescriptor("scratch", 8, 8, gputypes.TextureFormatRGBA8Unorm))
		require.NoError(t, err)
		panic("draw failed")
	}
	require.NoError(t, r.Load(ctx))

	assert.Panics(t, func() { _ = r.Draw(ctx) })
	assert.Equal(t, 0, ctx.Allocator.InUse())
}

func TestDrawPlacesProfilingMarkers(t *testing.T) {
	p := profiler.NewProfiler()
	ctx := newTestContextWithProfiler(t, p)
	log := &eventLog{}
	r, _ := newTestRenderer("Profiled", log)
	quiet, _ := newTestRenderer("Quiet", log, WithProfiling(false))
	require.NoError(t, r.Load(ctx))
	require.NoError(t, quiet.Load(ctx))

	require.NoError(t, r.Draw(ctx))
	require.NoError(t, quiet.Draw(ctx))

	stats := p.Markers()
	require.Len(t, stats, 1)
	assert.Equal(t, "Profiled", stats[0].Name)
}
