package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func translated(x, y, z float32) Transform {
	t := IdentityTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

func TestHierarchyAndSkinning(t *testing.T) {
	m := NewModel(
		WithName("arm"),
		WithNodes(
			Node{Name: "shoulder", Parent: -1, Local: translated(0, 1, 0)},
			Node{Name: "elbow", Parent: 0, Local: translated(0, 2, 0)},
		),
		WithMeshes(Mesh{Name: "forearm", Node: 1, BoundingCenter: mgl32.Vec3{0, 0.5, 0}, Skinned: true}),
		WithSkeleton(&Skeleton{Bones: []Bone{
			{Name: "elbow", Node: 1, InverseBindMatrix: mgl32.Translate3D(0, -3, 0)},
		}}),
	)
	inst := NewInstance(m)
	assert.Equal(t, uint64(1), inst.Version())
	assert.True(t, inst.MeshCenter(0).ApproxEqual(mgl32.Vec3{0, 3.5, 0}))
	assert.True(t, inst.BoneMatrices()[0].ApproxEqual(mgl32.Ident4()), "bind pose palette is identity")

	inst.SetWorld(mgl32.Translate3D(10, 0, 0))
	inst.SetLocalTransform(1, translated(0, 4, 0))
	assert.True(t, inst.MeshCenter(0).ApproxEqual(mgl32.Vec3{0, 3.5, 0}), "pending until UpdateHierarchy")

	inst.UpdateHierarchy()
	inst.UpdateSkinning()
	assert.Equal(t, uint64(2), inst.Version())
	assert.True(t, inst.MeshCenter(0).ApproxEqual(mgl32.Vec3{10, 5.5, 0}))
	assert.True(t, inst.BoneMatrices()[0].ApproxEqual(mgl32.Translate3D(10, 2, 0)))
}

func TestDefaultRootAndMaterials(t *testing.T) {
	glass := material.NewMaterial(material.WithTransparency(true))
	m := NewModel(
		WithMeshes(Mesh{Node: 0, Material: 0}, Mesh{Node: 0, Material: -1}),
		WithMaterials(glass),
	)
	assert.Len(t, m.Nodes(), 1)
	assert.Same(t, glass, m.Material(0))
	assert.Nil(t, m.Material(1))
	assert.Nil(t, m.Material(5))
}

func TestMeshVisibility(t *testing.T) {
	inst := NewInstance(NewModel(WithMeshes(Mesh{})))
	assert.True(t, inst.MeshVisible(0))
	inst.SetMeshVisible(0, false)
	assert.False(t, inst.MeshVisible(0))
	assert.False(t, inst.MeshVisible(3))
}

func TestInvalidHierarchyPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewModel(WithNodes(Node{Parent: 0}))
	})
	assert.Panics(t, func() {
		NewModel(WithMeshes(Mesh{Node: 2}))
	})
}
