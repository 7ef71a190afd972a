package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	mu sync.Mutex

	id      uint64
	name    string
	enabled atomic.Bool
	group   uint8

	position      mgl32.Vec3
	rotation      mgl32.Vec3
	rotationSpeed mgl32.Vec3
	scale         mgl32.Vec3

	instance   *model.Instance
	sprite     *Sprite
	ui         *UIElement
	background *Background
}

// GameObject defines the interface for a scene entity: a transform, a render group and
// optional components consumed by the scene renderers.
type GameObject interface {
	// ID returns the unique identifier of this GameObject, 0 until added to a scene.
	//
	// Returns:
	//   - uint64: the object's unique ID
	ID() uint64

	// Name returns the debug name.
	Name() string

	// Enabled reports whether the GameObject is drawn.
	//
	// Returns:
	//   - bool: true if the object is enabled
	Enabled() bool

	// Group returns the render group (0..31) matched against camera culling masks.
	//
	// Returns:
	//   - uint8: the render group
	Group() uint8

	// Position returns the world-space position.
	Position() mgl32.Vec3

	// Rotation returns the Euler rotation in radians.
	Rotation() mgl32.Vec3

	// RotationSpeed returns the rotation applied per second by Update.
	RotationSpeed() mgl32.Vec3

	// Scale returns the scale factors.
	Scale() mgl32.Vec3

	// WorldMatrix composes position, rotation and scale.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// Model returns the model instance, or nil when the object has no model component.
	//
	// Returns:
	//   - *model.Instance: the instance or nil
	Model() *model.Instance

	// Sprite returns the sprite component, or nil.
	Sprite() *Sprite

	// UI returns the UI component, or nil.
	UI() *UIElement

	// Background returns the background component, or nil.
	Background() *Background

	// SetID sets the unique identifier. Called by the scene.
	SetID(id uint64)

	// SetEnabled sets whether the GameObject is drawn.
	SetEnabled(enabled bool)

	// SetGroup sets the render group. Values above 31 are clamped to 31.
	//
	// Parameters:
	//   - group: the render group
	SetGroup(group uint8)

	// SetPosition sets the world-space position.
	SetPosition(position mgl32.Vec3)

	// SetRotation sets the Euler rotation in radians.
	SetRotation(rotation mgl32.Vec3)

	// SetRotationSpeed sets the rotation applied per second by Update.
	SetRotationSpeed(speed mgl32.Vec3)

	// SetScale sets the scale factors.
	SetScale(scale mgl32.Vec3)

	// SetModel attaches a fresh instance of m, or removes the model component when m is nil.
	//
	// Parameters:
	//   - m: the model to display
	SetModel(m model.Model)

	// SetSprite sets or removes the sprite component.
	SetSprite(s *Sprite)

	// SetUI sets or removes the UI component.
	SetUI(ui *UIElement)

	// SetBackground sets or removes the background component.
	SetBackground(b *Background)

	// Update advances the rotation by RotationSpeed * dt and places the model instance at WorldMatrix.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates an enabled GameObject at the origin in render group 0.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.instance != nil {
		obj.instance.SetWorld(obj.worldMatrix())
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Group() uint8 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.group
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotationSpeed
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.worldMatrix()
}

func (g *gameObject) worldMatrix() mgl32.Mat4 {
	return common.ModelMatrix(g.position, g.rotation, g.scale)
}

func (g *gameObject) Model() *model.Instance {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.instance
}

func (g *gameObject) Sprite() *Sprite {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sprite
}

func (g *gameObject) UI() *UIElement {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ui
}

func (g *gameObject) Background() *Background {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.background
}

func (g *gameObject) SetID(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetGroup(group uint8) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.group = min(group, 31)
}

func (g *gameObject) SetPosition(position mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = position
}

func (g *gameObject) SetRotation(rotation mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = rotation
}

func (g *gameObject) SetRotationSpeed(speed mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = speed
}

func (g *gameObject) SetScale(scale mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = scale
}

func (g *gameObject) SetModel(m model.Model) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m == nil {
		g.instance = nil
		return
	}
	g.instance = model.NewInstance(m)
	g.instance.SetWorld(g.worldMatrix())
}

func (g *gameObject) SetSprite(s *Sprite) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sprite = s
}

func (g *gameObject) SetUI(ui *UIElement) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ui = ui
}

func (g *gameObject) SetBackground(b *Background) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.background = b
}

func (g *gameObject) Update(dt float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rotationSpeed != (mgl32.Vec3{}) {
		g.rotation = g.rotation.Add(g.rotationSpeed.Mul(dt))
	}
	if g.instance != nil {
		g.instance.SetWorld(g.worldMatrix())
	}
}
