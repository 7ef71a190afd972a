package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// --- Transform & Hierarchy Types ---

// Transform represents a decomposed local transform.
type Transform struct {
	// Translation is the position offset.
	Translation mgl32.Vec3

	// Rotation is the orientation quaternion.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes the transform as T * R * S.
//
// Returns:
//   - mgl32.Mat4: the local matrix
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Node is one element of a model's transform hierarchy.
// Nodes are stored parents first: a node's Parent index is always lower than its own.
type Node struct {
	// Name is the node identifier.
	Name string

	// Parent is the index of the parent node, -1 for roots.
	Parent int

	// Local is the bind-pose transform relative to the parent.
	Local Transform
}

// Mesh is one drawable part of a model. Vertex data lives with the device backend;
// the render pipeline only needs counts, placement and bounds.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Node is the index of the node the mesh is attached to.
	Node int

	// Material is the index into the model's materials, -1 for the renderer default.
	Material int

	// VertexCount is the number of vertices.
	VertexCount uint32

	// IndexCount is the number of indices, 0 for non-indexed meshes.
	IndexCount uint32

	// BoundingCenter is the bounding sphere center in node space.
	BoundingCenter mgl32.Vec3

	// BoundingRadius is the bounding sphere radius in node space.
	BoundingRadius float32

	// Skinned reports whether the mesh is deformed by the model's skeleton.
	Skinned bool
}

// --- Skeleton Types ---

// Bone binds a skeleton joint to a hierarchy node.
type Bone struct {
	// Name is the bone's identifier.
	Name string

	// Node is the index of the hierarchy node driving the bone.
	Node int

	// InverseBindMatrix transforms from model space to bone space at bind pose.
	InverseBindMatrix mgl32.Mat4
}

// Skeleton is the list of bones skinned meshes are weighted against.
type Skeleton struct {
	// Bones is the array of all bones in the skeleton, in shader palette order.
	Bones []Bone
}
