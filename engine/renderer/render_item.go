package renderer

import (
	"cmp"
	"slices"
)

// RenderItem is one drawable prepared for the current frame.
type RenderItem struct {
	Renderer    EntityComponentRenderer
	DrawContext any
	Depth       float32
}

// RenderItemList is a per-frame bucket of render items.
type RenderItemList []RenderItem

// SortFrontToBack orders items by ascending depth. Equal depths keep insertion order.
func (l RenderItemList) SortFrontToBack() {
	slices.SortStableFunc(l, func(a, b RenderItem) int {
		return cmp.Compare(a.Depth, b.Depth)
	})
}

// SortBackToFront orders items by descending depth. Equal depths keep insertion order.
func (l RenderItemList) SortBackToFront() {
	slices.SortStableFunc(l, func(a, b RenderItem) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
}

// Reset empties the list keeping its capacity.
func (l *RenderItemList) Reset() {
	clear(*l)
	*l = (*l)[:0]
}
