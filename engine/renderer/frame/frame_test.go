package frame

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDevice(t *testing.T, width, height uint32) graphics.Device {
	t.Helper()
	d, err := graphics.NewHeadlessDevice(graphics.WithBackBufferSize(width, height))
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestResolveSize(t *testing.T) {
	tests := []struct {
		name   string
		desc   Descriptor
		w, h   uint32
		ww, wh uint32
	}{
		{name: "half of full hd", desc: Descriptor{Mode: SizeRelative, Width: 50, Height: 50}, w: 1920, h: 1080, ww: 960, wh: 540},
		{name: "full", desc: Descriptor{Mode: SizeRelative, Width: 100, Height: 100}, w: 800, h: 600, ww: 800, wh: 600},
		{name: "rounds down", desc: Descriptor{Mode: SizeRelative, Width: 33, Height: 33}, w: 100, h: 10, ww: 33, wh: 3},
		{name: "never zero", desc: Descriptor{Mode: SizeRelative, Width: 1, Height: 1}, w: 10, h: 10, ww: 1, wh: 1},
		{name: "absolute ignores reference", desc: Descriptor{Mode: SizeAbsolute, Width: 256, Height: 128}, w: 1920, h: 1080, ww: 256, wh: 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ResolveSize(tt.desc, tt.w, tt.h)
			assert.Equal(t, tt.ww, w)
			assert.Equal(t, tt.wh, h)
		})
	}
}

func TestFormatMapping(t *testing.T) {
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, ColorFormat(FormatLDR))
	assert.Equal(t, gputypes.TextureFormatRGBA16Float, ColorFormat(FormatHDR))
	assert.Equal(t, gputypes.TextureFormatUndefined, DepthStencilFormat(DepthNone))
	assert.Equal(t, gputypes.TextureFormatDepth32Float, DepthStencilFormat(DepthOnly))
	assert.Equal(t, gputypes.TextureFormatDepth24PlusStencil8, DepthStencilFormat(DepthAndStencil))
}

func TestNewRelativeToBackBuffer(t *testing.T) {
	d := newDevice(t, 1920, 1080)

	f, err := New(d, Descriptor{Mode: SizeRelative, Width: 50, Height: 50, Format: FormatHDR, DepthFormat: DepthAndStencil}, nil)
	require.NoError(t, err)

	assert.Equal(t, uint32(960), f.RenderTarget().Width())
	assert.Equal(t, uint32(540), f.RenderTarget().Height())
	assert.Equal(t, gputypes.TextureFormatRGBA16Float, f.RenderTarget().Format())
	require.NotNil(t, f.DepthStencil())
	assert.Equal(t, gputypes.TextureFormatDepth24PlusStencil8, f.DepthStencil().Format())
}

func TestNewRelativeToReferenceFrame(t *testing.T) {
	d := newDevice(t, 1920, 1080)
	ref, err := New(d, Descriptor{Mode: SizeAbsolute, Width: 400, Height: 200}, nil)
	require.NoError(t, err)
	assert.Nil(t, ref.DepthStencil())

	f, err := New(d, Descriptor{Mode: SizeRelative, Width: 25, Height: 50}, ref)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), f.Width())
	assert.Equal(t, uint32(100), f.Height())
}

func TestFromTextureRecoversOwner(t *testing.T) {
	d := newDevice(t, 640, 480)
	f, err := New(d, DefaultDescriptor(), nil)
	require.NoError(t, err)

	assert.Same(t, f, FromTexture(f.RenderTarget()))
	assert.Same(t, f, FromTexture(f.DepthStencil()))
	assert.Nil(t, FromTexture(d.BackBuffer()))
	assert.Nil(t, FromTexture(nil))

	f.Dispose()
	f.Dispose()
	assert.True(t, f.RenderTarget().Destroyed())
	assert.Nil(t, FromTexture(f.RenderTarget()))
}

func TestWrapDoesNotOwnTextures(t *testing.T) {
	d := newDevice(t, 640, 480)
	f := Wrap(d.BackBuffer(), d.DepthStencilBuffer())

	assert.Equal(t, DepthAndStencil, f.Descriptor().DepthFormat)
	assert.Nil(t, FromTexture(d.BackBuffer()))
	f.Dispose()
	assert.False(t, d.BackBuffer().Destroyed())
}

func TestActivateRestoresPreviousBinding(t *testing.T) {
	d := newDevice(t, 640, 480)
	f, err := New(d, DefaultDescriptor(), nil)
	require.NoError(t, err)

	restore := f.Activate(d)
	depth, colors := d.RenderTargets()
	assert.Same(t, f.DepthStencil(), depth)
	assert.Equal(t, []*graphics.Texture{f.RenderTarget()}, colors)

	restore()
	depth, colors = d.RenderTargets()
	assert.Same(t, d.DepthStencilBuffer(), depth)
	assert.Equal(t, []*graphics.Texture{d.BackBuffer()}, colors)
}
