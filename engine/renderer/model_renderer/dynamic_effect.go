package model_renderer

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
)

// DynamicEffectCompiler tracks the effect one mesh draws with and reloads it when the mesh's
// compiler parameters change or the current effect is evicted by a source reload.
//
// A failed compile is not retried until the parameters change or the effect system applies a
// new batch of source changes.
type DynamicEffectCompiler struct {
	system effect.System
	name   string
	async  bool

	effect   *effect.Effect
	hash     [32]byte
	compiled bool

	pending     *effect.Result[*effect.Effect]
	pendingHash [32]byte

	err           error
	errGeneration uint64
}

// NewDynamicEffectCompiler creates a compiler for effect name. Nothing is loaded until Update.
//
// Parameters:
//   - system: the effect system to load through
//   - name: the effect name
//   - async: when true, Update never blocks and the previous effect stays current until a reload completes
//
// Returns:
//   - *DynamicEffectCompiler: the compiler
func NewDynamicEffectCompiler(system effect.System, name string, async bool) *DynamicEffectCompiler {
	if system == nil {
		panic("model_renderer: NewDynamicEffectCompiler requires an effect system")
	}
	return &DynamicEffectCompiler{system: system, name: name, async: async}
}

// Effect returns the effect to draw with, or nil before the first successful load.
func (c *DynamicEffectCompiler) Effect() *effect.Effect {
	return c.effect
}

// Update reloads the effect when params hash differently from the last load or the effect was disposed.
//
// Parameters:
//   - params: the mesh's merged compiler parameters
//
// Returns:
//   - bool: true if the current effect changed
//   - error: the load error; async loads report it on the Update that observes completion
func (c *DynamicEffectCompiler) Update(params effect.CompilerParameters) (bool, error) {
	hash := params.Hash()

	if c.pending != nil {
		if c.pendingHash != hash {
			// Superseded; the result is dropped and the newer parameters load below.
			c.pending = nil
		} else if !c.pending.IsCompleted() {
			return false, nil
		} else {
			e, err := c.pending.Wait()
			c.pending = nil
			return c.finish(hash, e, err)
		}
	}

	stale := !c.compiled || hash != c.hash || c.effect == nil || c.effect.IsDisposed()
	if !stale {
		return false, nil
	}
	if c.err != nil && hash == c.hash && c.errGeneration == c.system.Generation() {
		return false, c.err
	}

	if c.async {
		r := c.system.LoadEffectAsync(c.name, params)
		if !r.IsCompleted() {
			c.pending, c.pendingHash = r, hash
			return false, nil
		}
		e, err := r.Wait()
		return c.finish(hash, e, err)
	}
	e, err := c.system.LoadEffect(c.name, params)
	return c.finish(hash, e, err)
}

func (c *DynamicEffectCompiler) finish(hash [32]byte, e *effect.Effect, err error) (bool, error) {
	c.hash, c.compiled = hash, true
	if err != nil {
		c.err, c.errGeneration = err, c.system.Generation()
		return false, err
	}
	c.err = nil
	changed := e != c.effect
	c.effect = e
	return changed, nil
}
