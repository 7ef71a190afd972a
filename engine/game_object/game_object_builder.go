package game_object

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithName sets the debug name of the GameObject.
//
// Parameters:
//   - name: the debug name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is drawn.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithGroup sets the render group matched against camera culling masks.
//
// Parameters:
//   - group: render group 0..31
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the group
func WithGroup(group uint8) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.group = min(group, 31)
	}
}

// WithModel attaches a model component.
//
// Parameters:
//   - m: the Model to display
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.instance = model.NewInstance(m)
	}
}

// WithSprite attaches a sprite component.
//
// Parameters:
//   - s: the sprite
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the sprite
func WithSprite(s *Sprite) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.sprite = s
	}
}

// WithUI attaches a UI component.
//
// Parameters:
//   - ui: the UI element
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the UI element
func WithUI(ui *UIElement) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.ui = ui
	}
}

// WithBackground attaches a background component.
//
// Parameters:
//   - b: the background
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the background
func WithBackground(b *Background) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.background = b
	}
}

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - position: the position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(position mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = position
	}
}

// WithRotation sets the initial Euler rotation in radians.
//
// Parameters:
//   - rotation: the rotation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rotation mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = rotation
	}
}

// WithRotationSpeed sets the rotation applied per second by Update.
//
// Parameters:
//   - speed: radians per second around each axis
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(speed mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = speed
	}
}

// WithScale sets the initial scale.
//
// Parameters:
//   - scale: the scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(scale mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = scale
	}
}
