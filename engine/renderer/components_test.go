package renderer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type depthItem struct {
	depth       float32
	transparent bool
}

type itemRenderer struct {
	Renderer
	name  string
	items []depthItem
	calls *[]string
}

func newItemRenderer(name string, calls *[]string, items ...depthItem) *itemRenderer {
	r := &itemRenderer{name: name, items: items, calls: calls}
	r.Renderer = New(name, r)
	return r
}

func (r *itemRenderer) DrawCore(*RenderContext) error {
	return nil
}

func (r *itemRenderer) Prepare(_ *RenderContext, opaque, transparent *RenderItemList) {
	for _, it := range r.items {
		item := RenderItem{Renderer: r, DrawContext: it, Depth: it.depth}
		if it.transparent {
			*transparent = append(*transparent, item)
		} else {
			*opaque = append(*opaque, item)
		}
	}
}

func (r *itemRenderer) DrawItems(_ *RenderContext, items RenderItemList, from, to int) error {
	*r.calls = append(*r.calls, fmt.Sprintf("%s[%d:%d]", r.name, from, to))
	return nil
}

func TestDrawComponentsDrawsRunsInDepthOrder(t *testing.T) {
	var calls []string
	a := newItemRenderer("a", &calls, depthItem{depth: 0.1}, depthItem{depth: 0.2}, depthItem{depth: 0.9, transparent: true})
	b := newItemRenderer("b", &calls, depthItem{depth: 0.5}, depthItem{depth: 0.3, transparent: true})

	var items ComponentItems
	require.NoError(t, DrawComponents(newTestContext(t), &items, a, b))
	assert.Equal(t, []string{"a[0:2]", "b[2:3]", "a[0:1]", "b[1:2]"}, calls)

	calls = nil
	b.SetEnabled(false)
	require.NoError(t, DrawComponents(newTestContext(t), &items, a, b))
	assert.Equal(t, []string{"a[0:2]", "a[0:1]"}, calls)
	assert.Len(t, items.Opaque, 2, "buckets are reset between draws")
}
