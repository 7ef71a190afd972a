package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Controller owns a camera's positional state. Camera.Update reads from it once per frame.
type Controller interface {
	// Position returns the camera's world-space position.
	Position() mgl32.Vec3

	// Target returns the look-at point.
	Target() mgl32.Vec3
}

// OrbitController places the camera on a sphere around a target using radius, azimuth and elevation.
type OrbitController struct {
	mu sync.Mutex

	target    mgl32.Vec3
	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32
}

var _ Controller = &OrbitController{}

// NewOrbitController creates an orbit controller 10 units from the origin, 30 degrees above the horizon.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - *OrbitController: the newly created controller
func NewOrbitController(options ...OrbitControllerOption) *OrbitController {
	oc := &OrbitController{
		radius:       10,
		elevation:    float32(math.Pi / 6),
		minRadius:    0.5,
		maxRadius:    1000,
		minElevation: float32(-math.Pi/2 + 0.05),
		maxElevation: float32(math.Pi/2 - 0.05),
	}
	for _, option := range options {
		option(oc)
	}
	oc.clamp()
	return oc
}

func (oc *OrbitController) Position() mgl32.Vec3 {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	cosElev := float32(math.Cos(float64(oc.elevation)))
	sinElev := float32(math.Sin(float64(oc.elevation)))
	cosAzim := float32(math.Cos(float64(oc.azimuth)))
	sinAzim := float32(math.Sin(float64(oc.azimuth)))
	return oc.target.Add(mgl32.Vec3{
		oc.radius * cosElev * sinAzim,
		oc.radius * sinElev,
		oc.radius * cosElev * cosAzim,
	})
}

func (oc *OrbitController) Target() mgl32.Vec3 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

// SetTarget moves the pivot point; the camera keeps its offset from it.
func (oc *OrbitController) SetTarget(target mgl32.Vec3) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = target
}

// Orbit rotates around the target. Elevation is clamped short of the poles.
//
// Parameters:
//   - dAzimuth: change of the horizontal angle in radians
//   - dElevation: change of the vertical angle in radians
func (oc *OrbitController) Orbit(dAzimuth, dElevation float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth = float32(math.Mod(float64(oc.azimuth+dAzimuth), 2*math.Pi))
	oc.elevation += dElevation
	oc.clamp()
}

// Zoom moves toward the target by delta. Radius is clamped to the configured limits.
func (oc *OrbitController) Zoom(delta float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.radius -= delta
	oc.clamp()
}

// Radius returns the distance from the target.
func (oc *OrbitController) Radius() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.radius
}

// Elevation returns the vertical angle in radians.
func (oc *OrbitController) Elevation() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.elevation
}

func (oc *OrbitController) clamp() {
	oc.radius = mgl32.Clamp(oc.radius, oc.minRadius, oc.maxRadius)
	oc.elevation = mgl32.Clamp(oc.elevation, oc.minElevation, oc.maxElevation)
}

// OrbitControllerOption is a functional option applied by NewOrbitController.
type OrbitControllerOption func(*OrbitController)

// WithOrbitTarget sets the pivot point.
//
// Parameters:
//   - target: world-space pivot
//
// Returns:
//   - OrbitControllerOption: a function that sets the pivot
func WithOrbitTarget(target mgl32.Vec3) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.target = target
	}
}

// WithOrbit sets the initial spherical coordinates.
//
// Parameters:
//   - radius: distance from the target
//   - azimuth: horizontal angle in radians
//   - elevation: vertical angle in radians
//
// Returns:
//   - OrbitControllerOption: a function that sets the coordinates
func WithOrbit(radius, azimuth, elevation float32) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.radius = radius
		oc.azimuth = azimuth
		oc.elevation = elevation
	}
}

// WithRadiusLimits bounds Zoom.
//
// Parameters:
//   - minRadius: closest allowed distance
//   - maxRadius: farthest allowed distance
//
// Returns:
//   - OrbitControllerOption: a function that sets the limits
func WithRadiusLimits(minRadius, maxRadius float32) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.minRadius = minRadius
		oc.maxRadius = maxRadius
	}
}
