package model_renderer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
)

// StateKey holds the scene's RendererState in scene.Services().
var StateKey = common.NewPropertyKey[*RendererState]("ModelRenderer.State", nil)

type slotEntry struct {
	effectName string
	refs       int
}

// RendererState hands out per-effect mesh slots to the model renderers of one scene.
// Renderers sharing an effect name share a slot, and so share the per-mesh state built for it.
// Released slots are reused lowest index first.
type RendererState struct {
	mu     sync.Mutex
	slots  []slotEntry
	byName map[string]int
	free   []int
}

// NewRendererState creates an empty slot allocator.
func NewRendererState() *RendererState {
	return &RendererState{byName: make(map[string]int)}
}

// StateFor returns the slot allocator of s, creating it on first use.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - *RendererState: the scene's allocator
func StateFor(s scene.Scene) *RendererState {
	return common.GetOrCreate(s.Services(), StateKey, NewRendererState)
}

// AllocateModelSlot returns the slot for effectName, taking a reference on it.
//
// Parameters:
//   - effectName: the effect the calling renderer draws with
//
// Returns:
//   - int: the slot index
func (s *RendererState) AllocateModelSlot(effectName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byName[effectName]; ok {
		s.slots[i].refs++
		return i
	}

	var i int
	if len(s.free) > 0 {
		i = s.free[0]
		s.free = s.free[1:]
	} else {
		i = len(s.slots)
		s.slots = append(s.slots, slotEntry{})
	}
	s.slots[i] = slotEntry{effectName: effectName, refs: 1}
	s.byName[effectName] = i
	return i
}

// ReleaseModelSlot drops one reference on a slot. The last release frees it for reuse.
// Releasing a slot that is not allocated panics.
//
// Parameters:
//   - index: a slot returned by AllocateModelSlot
func (s *RendererState) ReleaseModelSlot(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.slots) || s.slots[index].refs == 0 {
		panic(fmt.Sprintf("model_renderer: release of unallocated slot %d", index))
	}
	e := &s.slots[index]
	e.refs--
	if e.refs > 0 {
		return
	}
	delete(s.byName, e.effectName)
	*e = slotEntry{}
	i, _ := slices.BinarySearch(s.free, index)
	s.free = slices.Insert(s.free, i, index)
}

// SlotCount returns the number of slot indices ever handed out, allocated or free.
func (s *RendererState) SlotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// SlotName returns the effect name owning a slot.
//
// Returns:
//   - string: the effect name
//   - bool: false if the slot is free or out of range
func (s *RendererState) SlotName(index int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.slots) || s.slots[index].refs == 0 {
		return "", false
	}
	return s.slots[index].effectName, true
}

// RefCount returns the number of renderers holding a slot.
func (s *RendererState) RefCount(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.slots) {
		return 0
	}
	return s.slots[index].refs
}
