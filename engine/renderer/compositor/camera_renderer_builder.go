package compositor

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
)

// CameraRendererOption is a functional option for configuring a CameraRenderer.
type CameraRendererOption func(*CameraRenderer)

// WithCamera draws with cam instead of the scene's main camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - CameraRendererOption: option function to apply
func WithCamera(cam camera.Camera) CameraRendererOption {
	return func(r *CameraRenderer) {
		r.camera = cam
	}
}

// WithCameraName sets the renderer name. Defaults to "Camera".
//
// Parameters:
//   - name: the debug name
//
// Returns:
//   - CameraRendererOption: option function to apply
func WithCameraName(name string) CameraRendererOption {
	return func(r *CameraRenderer) {
		r.name = name
	}
}

// WithCameraChildren appends scene renderers drawn for the camera.
//
// Parameters:
//   - children: the renderers, drawn in order
//
// Returns:
//   - CameraRendererOption: option function to apply
func WithCameraChildren(children ...renderer.SceneRenderer) CameraRendererOption {
	return func(r *CameraRenderer) {
		for _, c := range children {
			r.children.Add(c)
		}
	}
}

// WithCameraRendererOptions passes options to the underlying renderer.
//
// Parameters:
//   - options: renderer options
//
// Returns:
//   - CameraRendererOption: option function to apply
func WithCameraRendererOptions(options ...renderer.RendererBuilderOption) CameraRendererOption {
	return func(r *CameraRenderer) {
		r.rendererOptions = append(r.rendererOptions, options...)
	}
}
