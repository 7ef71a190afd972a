package window

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a desktop window that hosts the presentation surface and forwards input.
// Callbacks run on the thread that calls ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called after each event poll.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called with the new framebuffer size in pixels.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for vertical scroll. Positive delta scrolls up.
	SetScrollCallback(callback func(delta float32))

	// SetKeyCallback sets the callback for key presses, repeats and releases.
	//
	// Parameters:
	//   - callback: function receiving the key code and whether the key is down
	SetKeyCallback(callback func(keyCode uint32, down bool))

	// SetDragCallback sets the callback for cursor movement while the middle button is held.
	//
	// Parameters:
	//   - callback: function receiving the cursor delta in pixels since the last event
	SetDragCallback(callback func(dx, dy float32))

	// SurfaceDescriptor returns the platform surface descriptor for a WebGPU device, or nil
	// once the window is closed.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open.
	IsRunning() bool

	// ProcessMessages polls events until the window closes.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// Close destroys the window.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error
}

// sizeLimits bounds interactive resizing. Zero leaves a side unbounded.
type sizeLimits struct {
	minWidth, minHeight int
	maxWidth, maxHeight int
}

type engineWindow struct {
	title  string
	width  int
	height int
	limits sizeLimits

	platform *glfwWindow

	onUpdate func()
	onResize func(width, height int)
	onScroll func(delta float32)
	onKey    func(keyCode uint32, down bool)
	onDrag   func(dx, dy float32)

	dragging   bool
	lastCursor [2]float64
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. It locks the calling goroutine to its OS thread;
// call it from the goroutine that will run ProcessMessages.
//
// Parameters:
//   - options: functional options applied over a 1280x720 default
//
// Returns:
//   - Window: the open window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "oxy-compose",
		width:  1280,
		height: 720,
		limits: sizeLimits{minWidth: 600, minHeight: 200},
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyCallback(callback func(keyCode uint32, down bool)) {
	w.onKey = callback
}

func (w *engineWindow) SetDragCallback(callback func(dx, dy float32)) {
	w.onDrag = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunning(w)
}

func (w *engineWindow) Close() error {
	return platformClose(w)
}

func (w *engineWindow) ProcessMessages() {
	for platformPollEvents(w) {
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// cursorMoved turns absolute cursor positions into drag deltas.
func (w *engineWindow) cursorMoved(x, y float64) {
	dx, dy := x-w.lastCursor[0], y-w.lastCursor[1]
	w.lastCursor = [2]float64{x, y}
	if w.dragging && w.onDrag != nil {
		w.onDrag(float32(dx), float32(dy))
	}
}

// setDragging starts or ends a middle-button drag at the given cursor position.
func (w *engineWindow) setDragging(dragging bool, x, y float64) {
	w.dragging = dragging
	w.lastCursor = [2]float64{x, y}
}

func (w *engineWindow) resized(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
