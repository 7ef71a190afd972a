package window

import "github.com/Carmen-Shannon/oxy-compose/engine/camera"

// BindOrbit drives oc from w: middle-button drags orbit and the scroll wheel zooms.
//
// Parameters:
//   - w: the input source
//   - oc: the controller to drive
//   - sensitivity: radians of orbit per pixel dragged
func BindOrbit(w Window, oc *camera.OrbitController, sensitivity float32) {
	if oc == nil {
		panic("window: BindOrbit requires a controller")
	}
	w.SetDragCallback(func(dx, dy float32) {
		oc.Orbit(-dx*sensitivity, dy*sensitivity)
	})
	w.SetScrollCallback(func(delta float32) {
		oc.Zoom(delta)
	})
}
