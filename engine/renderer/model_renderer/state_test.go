package model_renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRendererStateSharesSlotsByEffectName(t *testing.T) {
	s := NewRendererState()

	a := s.AllocateModelSlot("A")
	b := s.AllocateModelSlot("B")
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, a, s.AllocateModelSlot("A"))
	assert.Equal(t, 2, s.RefCount(a))

	s.ReleaseModelSlot(a)
	name, ok := s.SlotName(a)
	assert.True(t, ok)
	assert.Equal(t, "A", name)

	s.ReleaseModelSlot(a)
	_, ok = s.SlotName(a)
	assert.False(t, ok)
	assert.Equal(t, 2, s.SlotCount(), "slot indices are never handed back")
}

func TestRendererStateReusesLowestFreeSlot(t *testing.T) {
	s := NewRendererState()
	for _, name := range []string{"A", "B", "C", "D"} {
		s.AllocateModelSlot(name)
	}
	s.ReleaseModelSlot(2)
	s.ReleaseModelSlot(0)

	assert.Equal(t, 0, s.AllocateModelSlot("E"))
	assert.Equal(t, 2, s.AllocateModelSlot("F"))
	assert.Equal(t, 4, s.AllocateModelSlot("G"))
	assert.Equal(t, 5, s.SlotCount())
}

func TestReleaseUnallocatedSlotPanics(t *testing.T) {
	s := NewRendererState()
	assert.Panics(t, func() { s.ReleaseModelSlot(0) })

	i := s.AllocateModelSlot("A")
	s.ReleaseModelSlot(i)
	assert.Panics(t, func() { s.ReleaseModelSlot(i) })
}
