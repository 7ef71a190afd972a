package model_renderer

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamicEffectCompilerReloadsOnParameterChange(t *testing.T) {
	f := newFixture(t)
	d := NewDynamicEffectCompiler(f.system, "Fx", false)

	changed, err := d.Update(effect.CompilerParameters{"A": 1})
	require.NoError(t, err)
	assert.True(t, changed)
	first := d.Effect()

	changed, err = d.Update(effect.CompilerParameters{"A": 1})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, f.compiler.callCount("Fx"))

	changed, err = d.Update(effect.CompilerParameters{"A": 2})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotSame(t, first, d.Effect())
}

func TestDynamicEffectCompilerAsyncKeepsPreviousEffect(t *testing.T) {
	f := newFixture(t)
	d := NewDynamicEffectCompiler(f.system, "Fx", true)

	release := f.compiler.hold()
	changed, err := d.Update(effect.CompilerParameters{"A": 1})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, d.Effect())

	release()
	require.Eventually(t, func() bool {
		changed, err := d.Update(effect.CompilerParameters{"A": 1})
		return err == nil && changed
	}, time.Second, time.Millisecond)
	first := d.Effect()
	require.NotNil(t, first)

	release = f.compiler.hold()
	_, err = d.Update(effect.CompilerParameters{"A": 2})
	require.NoError(t, err)
	assert.Same(t, first, d.Effect(), "the previous effect stays current while compiling")

	release()
	require.Eventually(t, func() bool {
		changed, err := d.Update(effect.CompilerParameters{"A": 2})
		return err == nil && changed
	}, time.Second, time.Millisecond)
	assert.NotSame(t, first, d.Effect())
	assert.Equal(t, 2, f.compiler.callCount("Fx"))
}
