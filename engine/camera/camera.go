package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// CurrentKey carries the camera scene renderers draw for.
var CurrentKey = common.NewPropertyKey[Camera]("Camera.Current", nil)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	cullingMask renderer.GroupMask

	view           mgl32.Mat4
	projection     mgl32.Mat4
	viewProjection mgl32.Mat4

	controller Controller
}

// Camera holds a perspective projection and a look-at view.
// Matrices are recomputed whenever a setting changes and on Update when a Controller is attached.
type Camera interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the world-space look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at point
	Target() mgl32.Vec3

	// Up returns the camera's up vector.
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// CullingMask returns the render groups this camera sees.
	//
	// Returns:
	//   - renderer.GroupMask: the culling mask
	CullingMask() renderer.GroupMask

	// View returns the current view matrix.
	View() mgl32.Mat4

	// Projection returns the current projection matrix, [0, 1] depth range.
	Projection() mgl32.Mat4

	// ViewProjection returns Projection * View.
	ViewProjection() mgl32.Mat4

	// Frustum returns the culling planes of ViewProjection.
	//
	// Returns:
	//   - common.Frustum: the normalized frustum planes
	Frustum() common.Frustum

	// Uniform returns the GPU layout of the camera's current state.
	//
	// Returns:
	//   - GPUCameraUniform: view-projection and eye position
	Uniform() GPUCameraUniform

	// SetPosition moves the eye and recomputes matrices.
	//
	// Parameters:
	//   - position: world-space eye position
	SetPosition(position mgl32.Vec3)

	// SetTarget moves the look-at point and recomputes matrices.
	//
	// Parameters:
	//   - target: world-space look-at point
	SetTarget(target mgl32.Vec3)

	// SetUp sets the up vector and recomputes matrices.
	SetUp(up mgl32.Vec3)

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	SetFar(far float32)

	// SetCullingMask sets the render groups this camera sees.
	//
	// Parameters:
	//   - mask: the new culling mask
	SetCullingMask(mask renderer.GroupMask)

	// Controller returns the attached Controller, or nil.
	Controller() Controller

	// SetController attaches a Controller. Pass nil to detach.
	//
	// Parameters:
	//   - ctrl: the controller driving position and target
	SetController(ctrl Controller)

	// Update copies position and target from the attached controller and recomputes matrices.
	// Without a controller it does nothing.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 0, 10) looking at the origin with a 45 degree field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		position:    mgl32.Vec3{0, 0, 10},
		up:          mgl32.Vec3{0, 1, 0},
		fov:         45.0 * (math.Pi / 180.0),
		aspect:      1.0,
		near:        0.1,
		far:         100.0,
		cullingMask: renderer.GroupMaskAll,
	}
	for _, option := range options {
		option(c)
	}
	c.syncController()
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) CullingMask() renderer.GroupMask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cullingMask
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.ExtractFrustum(c.ViewProjection())
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{ViewProj: c.viewProjection, CameraPosition: c.position}
}

func (c *cameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetCullingMask(mask renderer.GroupMask) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cullingMask = mask
}

func (c *cameraImpl) Controller() Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.syncController()
	c.updateMatrices()
}

// syncController copies position and target from the controller. Caller must hold the mutex.
func (c *cameraImpl) syncController() {
	if c.controller == nil {
		return
	}
	c.position = c.controller.Position()
	c.target = c.controller.Target()
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// A degenerate look direction keeps the previous view. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.position.Sub(c.target).Len() > 1e-6 {
		c.view = mgl32.LookAtV(c.position, c.target, c.up)
	} else if c.view == (mgl32.Mat4{}) {
		c.view = mgl32.Ident4()
	}
	c.projection = common.PerspectiveZO(c.fov, c.aspect, c.near, c.far)
	c.viewProjection = c.projection.Mul4(c.view)
}
