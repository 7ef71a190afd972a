package compositor

import (
	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
)

// CameraRenderer draws its children for one camera. While the children draw, the camera is the
// current camera, its culling mask is the current mask and its uniform is set on the context parameters.
type CameraRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	scene    scene.Scene
	camera   camera.Camera
	children *renderer.Collection[renderer.SceneRenderer]

	name            string
	rendererOptions []renderer.RendererBuilderOption
}

var _ renderer.SceneRenderer = &CameraRenderer{}

// NewCameraRenderer creates a camera renderer for s. Without WithCamera it draws with the scene's main camera.
//
// Parameters:
//   - s: the scene
//   - options: functional options
//
// Returns:
//   - *CameraRenderer: the renderer
func NewCameraRenderer(s scene.Scene, options ...CameraRendererOption) *CameraRenderer {
	if s == nil {
		panic("compositor: NewCameraRenderer requires a scene")
	}
	r := &CameraRenderer{
		scene:    s,
		children: renderer.NewCollection[renderer.SceneRenderer]("Camera.Children", renderer.WithProfiling(false)),
		name:     "Camera",
	}
	for _, opt := range options {
		opt(r)
	}
	r.Renderer = renderer.New(r.name, r, r.rendererOptions...)
	return r
}

// Children returns the collection drawn for the camera.
func (r *CameraRenderer) Children() *renderer.Collection[renderer.SceneRenderer] {
	return r.children
}

// Camera returns the camera drawn with, or nil when neither an override nor a scene camera is set.
func (r *CameraRenderer) Camera() camera.Camera {
	if r.camera != nil {
		return r.camera
	}
	return r.scene.Camera()
}

func (r *CameraRenderer) LoadCore(*renderer.RenderContext) error {
	return r.ToLoadAndUnload(r.children)
}

func (r *CameraRenderer) DrawCore(ctx *renderer.RenderContext) error {
	cam := r.Camera()
	if cam == nil {
		return nil
	}
	if w, h := outputSize(ctx); w > 0 && h > 0 {
		cam.SetAspect(float32(w) / float32(h))
	}

	defer common.Push(ctx.Tags, camera.CurrentKey, cam)()
	defer common.Push(ctx.Tags, renderer.CullingMaskKey, cam.CullingMask())()

	prev, hadPrev := graphics.GetParameter(ctx.Parameters, camera.UniformKey)
	uniform := cam.Uniform()
	graphics.SetParameter(ctx.Parameters, camera.UniformKey, uniform.Marshal())
	defer func() {
		if hadPrev {
			graphics.SetParameter(ctx.Parameters, camera.UniformKey, prev)
		} else {
			ctx.Parameters.Remove(camera.UniformKey.Name())
		}
	}()

	return r.children.Draw(ctx)
}
