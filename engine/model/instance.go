package model

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Instance is one entity's view of a Model: its world placement, animated node transforms,
// the resulting node world matrices and the skinning bone palette.
//
// Setters only record state. UpdateHierarchy and UpdateSkinning recompute the derived matrices and
// are called once per frame by the model renderer.
type Instance struct {
	mu sync.Mutex

	model     Model
	world     mgl32.Mat4
	locals    []Transform
	nodeWorld []mgl32.Mat4
	bones     []mgl32.Mat4
	hidden    []bool
	version   uint64
}

// NewInstance creates an instance of m at the origin in bind pose.
//
// Parameters:
//   - m: the model to instance
//
// Returns:
//   - *Instance: the instance with its hierarchy already computed
func NewInstance(m Model) *Instance {
	if m == nil {
		panic("model: NewInstance requires a model")
	}
	nodes := m.Nodes()
	inst := &Instance{
		model:     m,
		world:     mgl32.Ident4(),
		locals:    make([]Transform, len(nodes)),
		nodeWorld: make([]mgl32.Mat4, len(nodes)),
		hidden:    make([]bool, len(m.Meshes())),
	}
	for i, n := range nodes {
		inst.locals[i] = n.Local
	}
	if s := m.Skeleton(); s != nil {
		inst.bones = make([]mgl32.Mat4, len(s.Bones))
	}
	inst.UpdateHierarchy()
	inst.UpdateSkinning()
	return inst
}

// Model returns the instanced model.
func (inst *Instance) Model() Model {
	return inst.model
}

// World returns the instance placement.
func (inst *Instance) World() mgl32.Mat4 {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.world
}

// SetWorld places the instance. Takes effect on the next UpdateHierarchy.
//
// Parameters:
//   - world: the world matrix of the model root
func (inst *Instance) SetWorld(world mgl32.Mat4) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.world = world
}

// SetLocalTransform poses one node. Takes effect on the next UpdateHierarchy.
//
// Parameters:
//   - node: index into Model().Nodes()
//   - t: the node's transform relative to its parent
func (inst *Instance) SetLocalTransform(node int, t Transform) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if node >= 0 && node < len(inst.locals) {
		inst.locals[node] = t
	}
}

// SetMeshVisible shows or hides one mesh of this instance.
func (inst *Instance) SetMeshVisible(mesh int, visible bool) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if mesh >= 0 && mesh < len(inst.hidden) {
		inst.hidden[mesh] = !visible
	}
}

// MeshVisible reports whether a mesh of this instance is drawn.
func (inst *Instance) MeshVisible(mesh int) bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return mesh >= 0 && mesh < len(inst.hidden) && !inst.hidden[mesh]
}

// UpdateHierarchy recomputes every node world matrix from the placement and local transforms.
// Each call bumps Version.
func (inst *Instance) UpdateHierarchy() {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	for i, n := range inst.model.Nodes() {
		local := inst.locals[i].Matrix()
		if n.Parent < 0 {
			inst.nodeWorld[i] = inst.world.Mul4(local)
			continue
		}
		inst.nodeWorld[i] = inst.nodeWorld[n.Parent].Mul4(local)
	}
	inst.version++
}

// UpdateSkinning recomputes the bone palette from the node world matrices.
// Static models have an empty palette and this is a no-op.
func (inst *Instance) UpdateSkinning() {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	s := inst.model.Skeleton()
	if s == nil {
		return
	}
	for i, b := range s.Bones {
		inst.bones[i] = inst.nodeWorld[b.Node].Mul4(b.InverseBindMatrix)
	}
}

// NodeWorld returns the world matrix of a node as of the last UpdateHierarchy.
func (inst *Instance) NodeWorld(node int) mgl32.Mat4 {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.nodeWorld[node]
}

// MeshWorld returns the world matrix of the node a mesh is attached to.
func (inst *Instance) MeshWorld(mesh int) mgl32.Mat4 {
	return inst.NodeWorld(inst.model.Meshes()[mesh].Node)
}

// MeshCenter returns the world-space bounding sphere center of a mesh.
func (inst *Instance) MeshCenter(mesh int) mgl32.Vec3 {
	m := inst.model.Meshes()[mesh]
	return inst.NodeWorld(m.Node).Mul4x1(m.BoundingCenter.Vec4(1)).Vec3()
}

// BoneMatrices returns a copy of the bone palette as of the last UpdateSkinning.
func (inst *Instance) BoneMatrices() []mgl32.Mat4 {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return append([]mgl32.Mat4(nil), inst.bones...)
}

// Version counts UpdateHierarchy calls.
func (inst *Instance) Version() uint64 {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.version
}
