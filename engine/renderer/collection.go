package renderer

import (
	"fmt"
	"slices"
)

// Diff compares two generations of a renderer list by identity.
// Order among survivors is irrelevant; added keeps current order and removed keeps previous order.
//
// Parameters:
//   - previous: the generation drawn last time
//   - current: the generation about to be drawn
//
// Returns:
//   - added: items in current but not in previous
//   - removed: items in previous but not in current
func Diff[T comparable](previous, current []T) (added, removed []T) {
	prevSet := make(map[T]struct{}, len(previous))
	for _, p := range previous {
		prevSet[p] = struct{}{}
	}
	curSet := make(map[T]struct{}, len(current))
	for _, c := range current {
		curSet[c] = struct{}{}
		if _, ok := prevSet[c]; !ok {
			added = append(added, c)
		}
	}
	for _, p := range previous {
		if _, ok := curSet[p]; !ok {
			removed = append(removed, p)
		}
	}
	return added, removed
}

type collectable interface {
	comparable
	Renderer
}

// Collection is a renderer drawing a list of renderers in order.
// Each draw unloads renderers that left the list since the previous draw and loads the ones that joined.
type Collection[T collectable] struct {
	Renderer
	items  []T
	loaded []T
}

// NewCollection creates an empty collection renderer.
//
// Parameters:
//   - name: debug name
//   - options: renderer options
//
// Returns:
//   - *Collection[T]: the collection
func NewCollection[T collectable](name string, options ...RendererBuilderOption) *Collection[T] {
	c := &Collection[T]{}
	c.Renderer = New(name, c, options...)
	return c
}

// Add appends r to the list. It is loaded on the next draw.
func (c *Collection[T]) Add(r T) {
	c.items = append(c.items, r)
}

// Insert places r at index, clamped to the list bounds.
func (c *Collection[T]) Insert(index int, r T) {
	index = max(0, min(index, len(c.items)))
	c.items = slices.Insert(c.items, index, r)
}

// Remove deletes r from the list. It is unloaded on the next draw.
func (c *Collection[T]) Remove(r T) bool {
	i := slices.Index(c.items, r)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// Clear empties the list.
func (c *Collection[T]) Clear() {
	c.items = nil
}

// Items returns a copy of the list.
func (c *Collection[T]) Items() []T {
	return slices.Clone(c.items)
}

// Len returns the number of renderers in the list.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

func (c *Collection[T]) DrawCore(ctx *RenderContext) error {
	added, removed := Diff(c.loaded, c.items)
	for _, r := range removed {
		r.Unload()
	}

	next := slices.DeleteFunc(slices.Clone(c.loaded), func(r T) bool { return slices.Contains(removed, r) })
	for _, r := range added {
		if !r.IsLoaded() {
			if err := r.Load(ctx); err != nil {
				c.loaded = next
				return fmt.Errorf("collection %s: %w", c.Name(), err)
			}
		}
		next = append(next, r)
	}
	c.loaded = next

	for _, r := range c.items {
		if err := r.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection[T]) UnloadCore() {
	for _, r := range slices.Backward(c.loaded) {
		r.Unload()
	}
	c.loaded = nil
}
