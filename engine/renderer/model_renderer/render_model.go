package model_renderer

import (
	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/model"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// SkinnedKey is set on meshes deformed by a skeleton.
	SkinnedKey = graphics.NewCompilerKey[bool]("MODEL_SKINNED")

	// WorldKey carries the mesh's world matrix.
	WorldKey = graphics.NewParameterKey[mgl32.Mat4]("World")

	// BonesKey carries the bone palette of skinned meshes.
	BonesKey = graphics.NewParameterKey[[]mgl32.Mat4]("Bones")
)

// RenderMesh is the draw state of one mesh of one model for one effect slot.
type RenderMesh struct {
	// Model is the owning render model.
	Model *RenderModel

	// Index is the mesh index in the model.
	Index int

	// Mesh is the mesh description.
	Mesh model.Mesh

	// Material is the mesh material, nil for the renderer default.
	Material material.Material

	// Parameters are the per-mesh draw parameters: material values, world matrix and bones.
	Parameters *graphics.ParameterCollection

	// Transparent reports whether the mesh is drawn in the transparent bucket.
	Transparent bool

	// World is the mesh world matrix as of the last prepare.
	World mgl32.Mat4

	effect          *DynamicEffectCompiler
	materialVersion uint64
	materialSynced  bool
}

func newRenderMesh(rm *RenderModel, index int, mesh model.Mesh, mat material.Material) *RenderMesh {
	m := &RenderMesh{
		Model:      rm,
		Index:      index,
		Mesh:       mesh,
		Material:   mat,
		Parameters: graphics.NewParameterCollection(),
		World:      mgl32.Ident4(),
	}
	if mesh.Skinned {
		graphics.SetParameter(m.Parameters, SkinnedKey, true)
	}
	m.UpdateMaterial()
	return m
}

// Enabled reports whether the mesh is visible on its instance.
func (m *RenderMesh) Enabled() bool {
	return m.Model.Instance.MeshVisible(m.Index)
}

// Effect returns the effect the mesh draws with, or nil while none is loaded.
func (m *RenderMesh) Effect() *effect.Effect {
	if m.effect == nil {
		return nil
	}
	return m.effect.Effect()
}

// UpdateMaterial copies the material's parameters into the mesh when the material changed since the
// last call and refreshes Transparent.
//
// Returns:
//   - bool: true if the material parameters were copied
func (m *RenderMesh) UpdateMaterial() bool {
	if m.Material == nil {
		return false
	}
	pc := m.Material.Parameters()
	if m.materialSynced && pc.Version() == m.materialVersion {
		return false
	}
	m.Parameters.CopyFrom(pc)
	m.materialVersion = pc.Version()
	m.materialSynced = true
	m.Transparent = m.Material.HasTransparency()
	return true
}

// slotMeshes is the mesh list built for one slot, tagged with the effect name it was built for.
type slotMeshes struct {
	effectName string
	meshes     []*RenderMesh
}

// RenderModel is the render-side state of one game object with a model component.
// Mesh lists are built lazily per effect slot and the slot array only ever grows.
type RenderModel struct {
	// Object is the game object.
	Object game_object.GameObject

	// Instance is the object's model instance when the render model was created.
	Instance *model.Instance

	slots      []*slotMeshes
	lastUpdate uint64
}

func newRenderModel(obj game_object.GameObject) *RenderModel {
	return &RenderModel{Object: obj, Instance: obj.Model()}
}

// SlotCount returns the length of the slot array.
func (rm *RenderModel) SlotCount() int {
	return len(rm.slots)
}

// Meshes returns the meshes built for slot, or nil if none were built.
func (rm *RenderModel) Meshes(slot int) []*RenderMesh {
	if slot < 0 || slot >= len(rm.slots) || rm.slots[slot] == nil {
		return nil
	}
	return rm.slots[slot].meshes
}

// ensureSlots grows the slot array to hold n entries.
func (rm *RenderModel) ensureSlots(n int) {
	rm.slots = common.GrowTo(rm.slots, n)
}

// meshesFor returns the meshes of slot, building them when the slot is empty or was built for
// another effect. build is called for each new mesh.
func (rm *RenderModel) meshesFor(slot int, effectName string, build func(*RenderMesh)) []*RenderMesh {
	if s := rm.slots[slot]; s != nil && s.effectName == effectName {
		return s.meshes
	}
	src := rm.Instance.Model()
	meshes := make([]*RenderMesh, 0, len(src.Meshes()))
	for i, mesh := range src.Meshes() {
		m := newRenderMesh(rm, i, mesh, src.Material(i))
		build(m)
		meshes = append(meshes, m)
	}
	rm.slots[slot] = &slotMeshes{effectName: effectName, meshes: meshes}
	return meshes
}

// updateHierarchy recomputes node and bone matrices at most once per frame.
func (rm *RenderModel) updateHierarchy(frame uint64) {
	if rm.lastUpdate == frame+1 {
		return
	}
	rm.lastUpdate = frame + 1
	rm.Instance.UpdateHierarchy()
	rm.Instance.UpdateSkinning()
}
