package model

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
)

// ModelBuilderOption is a function that configures a model during construction.
type ModelBuilderOption func(*model)

// WithName sets the model identifier.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithNodes sets the transform hierarchy. Nodes must be ordered parents first.
//
// Parameters:
//   - nodes: the hierarchy nodes
//
// Returns:
//   - ModelBuilderOption: a function that applies the nodes option to a model
func WithNodes(nodes ...Node) ModelBuilderOption {
	return func(m *model) {
		m.nodes = nodes
	}
}

// WithMeshes sets the drawable parts of the model.
//
// Parameters:
//   - meshes: the meshes
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes ...Mesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = meshes
	}
}

// WithSkeleton sets the bone list used by skinned meshes.
//
// Parameters:
//   - skeleton: the skeleton
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithMaterials sets the materials meshes index into.
//
// Parameters:
//   - mats: the materials
//
// Returns:
//   - ModelBuilderOption: a function that applies the materials option to a model
func WithMaterials(mats ...material.Material) ModelBuilderOption {
	return func(m *model) {
		m.materials = mats
	}
}
