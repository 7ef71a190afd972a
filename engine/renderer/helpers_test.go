package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	events []string
}

func (l *eventLog) add(e string) {
	l.events = append(l.events, e)
}

type testCore struct {
	name    string
	log     *eventLog
	loadErr error
	onDraw  func(ctx *RenderContext) error
}

func (c *testCore) LoadCore(*RenderContext) error {
	c.log.add("load:" + c.name)
	return c.loadErr
}

func (c *testCore) UnloadCore() {
	c.log.add("unload:" + c.name)
}

func (c *testCore) DrawCore(ctx *RenderContext) error {
	c.log.add("draw:" + c.name)
	if c.onDraw != nil {
		return c.onDraw(ctx)
	}
	return nil
}

func newTestRenderer(name string, log *eventLog, options ...RendererBuilderOption) (Renderer, *testCore) {
	core := &testCore{name: name, log: log}
	return New(name, core, options...), core
}

func newTestContext(t *testing.T) *RenderContext {
	t.Helper()
	return newTestContextWithProfiler(t, nil)
}

func newTestContextWithProfiler(t *testing.T, p *profiler.Profiler) *RenderContext {
	t.Helper()
	device, err := graphics.NewHeadlessDevice(graphics.WithBackBufferSize(320, 240), graphics.WithHALProfiler(p))
	require.NoError(t, err)
	t.Cleanup(device.Close)
	return NewRenderContext(device)
}
