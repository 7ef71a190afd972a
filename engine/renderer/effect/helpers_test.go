package effect

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/stretchr/testify/require"
)

const spirvMagic = 0x07230203

type fakeCompiler struct {
	mu      sync.Mutex
	calls   map[string]int
	resets  [][]string
	closed  int
	async   bool
	waiting []func()
	build   func(name string, params CompilerParameters) (*EffectBytecode, error)
}

func newFakeCompiler(build func(name string, params CompilerParameters) (*EffectBytecode, error)) *fakeCompiler {
	return &fakeCompiler{calls: make(map[string]int), build: build}
}

func (c *fakeCompiler) Compile(name string, params CompilerParameters) *Result[*EffectBytecode] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name]++
	if !c.async {
		bc, err := c.build(name, params)
		if err != nil {
			return Failed[*EffectBytecode](err)
		}
		return Completed(bc)
	}
	r := newPending[*EffectBytecode]()
	c.waiting = append(c.waiting, func() { r.resolve(c.build(name, params)) })
	return r
}

func (c *fakeCompiler) ResetCache(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets = append(c.resets, names)
}

func (c *fakeCompiler) Close() error {
	c.closed++
	return nil
}

func (c *fakeCompiler) release() {
	c.mu.Lock()
	waiting := c.waiting
	c.waiting = nil
	c.mu.Unlock()
	for _, fn := range waiting {
		fn()
	}
}

func (c *fakeCompiler) callCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func fakeBytecode(name string, words []uint32, used CompilerParameters, deps ...string) *EffectBytecode {
	d := make(map[string][32]byte, len(deps))
	for _, n := range deps {
		d[n] = [32]byte{}
	}
	return NewEffectBytecode(name, append([]uint32{spirvMagic}, words...), "", used, d)
}

func newTestDevice(t *testing.T) graphics.Device {
	t.Helper()
	d, err := graphics.NewHeadlessDevice()
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func newTestSystem(t *testing.T, c Compiler, options ...SystemBuilderOption) (System, graphics.Device) {
	t.Helper()
	d := newTestDevice(t)
	s, err := NewSystem(d, c, options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, d
}
