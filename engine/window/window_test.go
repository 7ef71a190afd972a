package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/config"
	"github.com/stretchr/testify/assert"
)

func TestWithConfig(t *testing.T) {
	w := &engineWindow{title: "keep", width: 1, height: 1}
	WithConfig(config.WindowConfig{Width: 800, Height: 600, MaxWidth: 1920})(w)

	assert.Equal(t, "keep", w.title, "empty title keeps the current one")
	assert.Equal(t, 800, w.width)
	assert.Equal(t, 600, w.height)
	assert.Equal(t, sizeLimits{maxWidth: 1920}, w.limits)
}

func TestDragOnlyWhileMiddleButtonHeld(t *testing.T) {
	w := &engineWindow{}
	var deltas [][2]float32
	w.SetDragCallback(func(dx, dy float32) { deltas = append(deltas, [2]float32{dx, dy}) })

	w.cursorMoved(10, 10)
	w.setDragging(true, 10, 10)
	w.cursorMoved(14, 7)
	w.cursorMoved(15, 7)
	w.setDragging(false, 15, 7)
	w.cursorMoved(40, 40)

	assert.Equal(t, [][2]float32{{4, -3}, {1, 0}}, deltas)
}

func TestResizedUpdatesSize(t *testing.T) {
	w := &engineWindow{}
	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })
	w.resized(640, 480)
	assert.Equal(t, [2]int{640, 480}, got)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
}

func TestBindOrbit(t *testing.T) {
	w := &engineWindow{}
	oc := camera.NewOrbitController(camera.WithOrbit(5, 0, 0))
	BindOrbit(w, oc, 0.01)

	w.setDragging(true, 0, 0)
	w.cursorMoved(0, 10)
	assert.InDelta(t, 0.1, oc.Elevation(), 1e-5)

	w.onScroll(1)
	assert.InDelta(t, 4, oc.Radius(), 1e-5)
}
