package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		previous []string
		current  []string
		added    []string
		removed  []string
	}{
		{name: "empty", previous: nil, current: nil},
		{name: "first generation", previous: nil, current: []string{"a", "b"}, added: []string{"a", "b"}},
		{name: "reorder only", previous: []string{"a", "b"}, current: []string{"b", "a"}},
		{name: "swap one", previous: []string{"a", "b", "c"}, current: []string{"c", "d", "a"}, added: []string{"d"}, removed: []string{"b"}},
		{name: "all gone", previous: []string{"a", "b"}, current: nil, removed: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := Diff(tt.previous, tt.current)
			assert.Equal(t, tt.added, added)
			assert.Equal(t, tt.removed, removed)
		})
	}
}

func TestCollectionLoadsAndUnloadsBetweenGenerations(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	a, _ := newTestRenderer("A", log)
	b, _ := newTestRenderer("B", log)
	c, _ := newTestRenderer("C", log)

	coll := NewCollection[Renderer]("collection")
	coll.Add(a)
	coll.Add(b)
	require.NoError(t, coll.Load(ctx))
	require.NoError(t, coll.Draw(ctx))
	assert.Equal(t, []string{"load:A", "load:B", "draw:A", "draw:B"}, log.events)

	log.events = nil
	assert.True(t, coll.Remove(a))
	coll.Insert(0, c)
	require.NoError(t, coll.Draw(ctx))
	assert.Equal(t, []string{"unload:A", "load:C", "draw:C", "draw:B"}, log.events)

	log.events = nil
	coll.Unload()
	assert.Equal(t, []string{"unload:C", "unload:B"}, log.events)
	assert.False(t, b.IsLoaded())
}

func TestCollectionRetriesFailedLoadNextDraw(t *testing.T) {
	ctx := newTestContext(t)
	log := &eventLog{}
	a, _ := newTestRenderer("A", log)
	b, bCore := newTestRenderer("B", log)
	bCore.loadErr = assert.AnError

	coll := NewCollection[Renderer]("collection")
	coll.Add(a)
	coll.Add(b)
	require.NoError(t, coll.Load(ctx))

	assert.ErrorIs(t, coll.Draw(ctx), assert.AnError)
	assert.True(t, a.IsLoaded(), "renderers loaded before the failure stay loaded")

	bCore.loadErr = nil
	log.events = nil
	require.NoError(t, coll.Draw(ctx))
	assert.Equal(t, []string{"load:B", "draw:A", "draw:B"}, log.events)
}
