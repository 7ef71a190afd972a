package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name      string
	nodes     []Node
	meshes    []Mesh
	skeleton  *Skeleton
	materials []material.Material
}

// Model defines the interface for immutable model data shared by every entity that displays it.
// Per-entity state (placement, animated node transforms, bone palette) lives in an Instance.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Nodes retrieves the transform hierarchy, parents first.
	//
	// Returns:
	//   - []Node: the nodes; never empty
	Nodes() []Node

	// Meshes retrieves the drawable parts of the model.
	//
	// Returns:
	//   - []Mesh: the meshes; may be empty
	Meshes() []Mesh

	// Skeleton retrieves the bone list for skinned meshes.
	// Returns nil for static models.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// Materials retrieves the materials meshes index into.
	Materials() []material.Material

	// Material returns the material of a mesh, or nil when the mesh uses the renderer default.
	//
	// Parameters:
	//   - mesh: index into Meshes
	//
	// Returns:
	//   - material.Material: the material or nil
	Material(mesh int) material.Material
}

var _ Model = &model{}

// NewModel creates a new Model configured with the provided options.
// A model without nodes gets a single identity root. Panics when a node or mesh
// references an index that breaks the parents-first ordering or does not exist.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: the newly created Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, option := range options {
		option(m)
	}
	if len(m.nodes) == 0 {
		m.nodes = []Node{{Name: "root", Parent: -1, Local: IdentityTransform()}}
	}
	for i, n := range m.nodes {
		if n.Parent >= i || n.Parent < -1 {
			panic(fmt.Sprintf("model: %s node %d has parent %d", m.name, i, n.Parent))
		}
	}
	for i, mesh := range m.meshes {
		if mesh.Node < 0 || mesh.Node >= len(m.nodes) {
			panic(fmt.Sprintf("model: %s mesh %d references node %d", m.name, i, mesh.Node))
		}
	}
	if m.skeleton != nil {
		for i, b := range m.skeleton.Bones {
			if b.Node < 0 || b.Node >= len(m.nodes) {
				panic(fmt.Sprintf("model: %s bone %d references node %d", m.name, i, b.Node))
			}
		}
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Nodes() []Node {
	return m.nodes
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Materials() []material.Material {
	return m.materials
}

func (m *model) Material(mesh int) material.Material {
	if mesh < 0 || mesh >= len(m.meshes) {
		return nil
	}
	idx := m.meshes[mesh].Material
	if idx < 0 || idx >= len(m.materials) {
		return nil
	}
	return m.materials[idx]
}
