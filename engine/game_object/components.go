package game_object

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Sprite is a camera-facing textured quad placed at the object's position.
type Sprite struct {
	// Texture is the label of the sprite texture.
	Texture string

	// Size is the quad size in world units.
	Size mgl32.Vec2

	// Color tints the texture.
	Color mgl32.Vec4

	// Transparent places the sprite in the back-to-front bucket.
	Transparent bool
}

// UIElement is a screen-space element. Elements are drawn in ascending Z order.
type UIElement struct {
	// Label identifies the element in draw commands.
	Label string

	// Rect is the element rectangle in normalized screen coordinates: x, y, width, height.
	Rect mgl32.Vec4

	// Z orders elements; higher values draw later, on top.
	Z int
}

// Background fills the whole output behind everything else.
type Background struct {
	// Texture is the label of the background texture, "" for a solid color.
	Texture string

	// Color tints the texture, or is the fill color.
	Color mgl32.Vec4

	// Intensity scales the background brightness.
	Intensity float32
}
