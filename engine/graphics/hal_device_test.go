package graphics

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T, options ...HALDeviceBuilderOption) Device {
	t.Helper()
	d, err := NewHeadlessDevice(options...)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestHeadlessDeviceBackBuffer(t *testing.T) {
	d := newTestDevice(t, WithBackBufferSize(1920, 1080))

	bb := d.BackBuffer()
	require.NotNil(t, bb)
	assert.Equal(t, uint32(1920), bb.Width())
	assert.Equal(t, uint32(1080), bb.Height())
	assert.Equal(t, gputypes.TextureFormatDepth24PlusStencil8, d.DepthStencilBuffer().Format())

	depth, colors := d.RenderTargets()
	assert.Same(t, d.DepthStencilBuffer(), depth)
	assert.Equal(t, []*Texture{bb}, colors)
	assert.Equal(t, PlatformHeadless, d.Platform())
}

func TestCreateTextureValidatesDescriptor(t *testing.T) {
	d := newTestDevice(t)

	_, err := d.CreateTexture(TextureDescriptor{Label: "empty", Format: gputypes.TextureFormatRGBA8Unorm})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	_, err = d.CreateTexture(TextureDescriptor{Label: "noformat", Width: 4, Height: 4})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	tex, err := d.CreateTexture(RenderTargetDescriptor("ok", 4, 4, gputypes.TextureFormatRGBA16Float))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tex.Descriptor().SampleCount)
}

func TestDestroyTextureUnbindsAndIsIdempotent(t *testing.T) {
	d := newTestDevice(t)
	before := d.Stats()

	tex, err := d.CreateTexture(RenderTargetDescriptor("target", 8, 8, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, err)
	d.SetRenderTargets(nil, tex)

	d.DestroyTexture(tex)
	d.DestroyTexture(tex)

	_, colors := d.RenderTargets()
	assert.Empty(t, colors)
	assert.True(t, tex.Destroyed())
	assert.Equal(t, before.TexturesDestroyed+1, d.Stats().TexturesDestroyed)
}

func TestClearRequiresBoundTargets(t *testing.T) {
	d := newTestDevice(t)

	require.NoError(t, d.Clear(ClearOptions{Flags: ClearAll}))
	d.SetRenderTargets(nil)
	assert.Error(t, d.Clear(ClearOptions{Flags: ClearColor}))
	assert.Error(t, d.Clear(ClearOptions{Flags: ClearDepth}))
}

func TestShaderModuleLifecycle(t *testing.T) {
	d := newTestDevice(t)

	_, err := d.CreateShaderModule("empty", nil)
	assert.Error(t, err)

	m, err := d.CreateShaderModule("module", []uint32{0x07230203, 0x00010300})
	require.NoError(t, err)
	require.NoError(t, d.Draw(DrawCommand{Label: "draw", Module: m}))

	d.DestroyShaderModule(m)
	d.DestroyShaderModule(m)
	stats := d.Stats()
	assert.Equal(t, 1, stats.ModulesCreated)
	assert.Equal(t, 1, stats.ModulesDestroyed)
	assert.Equal(t, 1, stats.Draws)
}

func TestClosedDeviceRejectsWork(t *testing.T) {
	d, err := NewHeadlessDevice()
	require.NoError(t, err)
	d.Close()
	d.Close()

	_, err = d.CreateTexture(RenderTargetDescriptor("late", 4, 4, gputypes.TextureFormatRGBA8Unorm))
	assert.ErrorIs(t, err, ErrDeviceClosed)
	assert.ErrorIs(t, d.Draw(DrawCommand{}), ErrDeviceClosed)
}
