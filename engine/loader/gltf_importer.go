package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/model"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// importDocument converts a parsed document into a model. Nodes are reordered parents first
// from the default scene's roots; nodes unreachable from them are dropped with their meshes.
func importDocument(name string, doc *gltfDocument) (model.Model, error) {
	order, remap, err := orderNodes(doc)
	if err != nil {
		return nil, err
	}

	nodes := make([]model.Node, len(order))
	for i, src := range order {
		n := doc.Nodes[src.index]
		nodes[i] = model.Node{Name: n.Name, Parent: src.parent, Local: nodeTransform(n)}
	}

	var meshes []model.Mesh
	for i, src := range order {
		n := doc.Nodes[src.index]
		if n.Mesh == nil {
			continue
		}
		if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("loader: node %d references mesh %d", src.index, *n.Mesh)
		}
		built, err := importMesh(doc, doc.Meshes[*n.Mesh], i, n.Skin != nil)
		if err != nil {
			return nil, fmt.Errorf("loader: mesh %d: %w", *n.Mesh, err)
		}
		meshes = append(meshes, built...)
	}

	skeleton, err := importSkeleton(doc, remap)
	if err != nil {
		return nil, err
	}

	options := []model.ModelBuilderOption{
		model.WithName(name),
		model.WithNodes(nodes...),
		model.WithMeshes(meshes...),
		model.WithMaterials(importMaterials(doc)...),
	}
	if skeleton != nil {
		options = append(options, model.WithSkeleton(skeleton))
	}
	return model.NewModel(options...), nil
}

type orderedNode struct {
	index  int
	parent int
}

func orderNodes(doc *gltfDocument) ([]orderedNode, map[int]int, error) {
	roots := sceneRoots(doc)
	remap := make(map[int]int, len(doc.Nodes))
	var order []orderedNode

	queue := make([]orderedNode, 0, len(roots))
	for _, r := range roots {
		queue = append(queue, orderedNode{index: r, parent: -1})
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.index < 0 || cur.index >= len(doc.Nodes) {
			return nil, nil, fmt.Errorf("loader: node %d out of range", cur.index)
		}
		if _, seen := remap[cur.index]; seen {
			return nil, nil, fmt.Errorf("loader: node %d has more than one parent", cur.index)
		}
		at := len(order)
		remap[cur.index] = at
		order = append(order, cur)
		for _, c := range doc.Nodes[cur.index].Children {
			queue = append(queue, orderedNode{index: c, parent: at})
		}
	}
	return order, remap, nil
}

// sceneRoots returns the default scene's root nodes, or every node no other node claims as
// a child when the document declares no scene.
func sceneRoots(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeTransform(n gltfNode) model.Transform {
	t := model.IdentityTransform()
	if n.Matrix != nil {
		m := mgl32.Mat4(*n.Matrix)
		t.Translation = m.Col(3).Vec3()
		t.Scale = mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
		if t.Scale.X() != 0 && t.Scale.Y() != 0 && t.Scale.Z() != 0 {
			rot := mgl32.Mat4FromCols(
				m.Col(0).Mul(1/t.Scale.X()),
				m.Col(1).Mul(1/t.Scale.Y()),
				m.Col(2).Mul(1/t.Scale.Z()),
				mgl32.Vec4{0, 0, 0, 1},
			)
			t.Rotation = mgl32.Mat4ToQuat(rot)
		}
		return t
	}
	if n.Translation != nil {
		t.Translation = mgl32.Vec3(*n.Translation)
	}
	if n.Rotation != nil {
		r := *n.Rotation
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if n.Scale != nil {
		t.Scale = mgl32.Vec3(*n.Scale)
	}
	return t
}

// importMesh produces one model mesh per triangle primitive.
func importMesh(doc *gltfDocument, m gltfMesh, node int, skinnedNode bool) ([]model.Mesh, error) {
	var out []model.Mesh
	for p, prim := range m.Primitives {
		if prim.Mode != nil && *prim.Mode != gltfModeTriangles {
			common.Logger().Debug("loader: skipping non-triangle primitive", "mesh", m.Name, "primitive", p, "mode", *prim.Mode)
			continue
		}
		pos, ok := prim.Attributes["POSITION"]
		if !ok || pos < 0 || pos >= len(doc.Accessors) {
			return nil, fmt.Errorf("primitive %d has no POSITION accessor", p)
		}
		positions := doc.Accessors[pos]

		mesh := model.Mesh{
			Name:        m.Name,
			Node:        node,
			Material:    -1,
			VertexCount: uint32(positions.Count),
		}
		if len(m.Primitives) > 1 {
			mesh.Name = fmt.Sprintf("%s.%d", m.Name, p)
		}
		if prim.Material != nil {
			mesh.Material = *prim.Material
		}
		if prim.Indices != nil {
			if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
				return nil, fmt.Errorf("primitive %d indices accessor %d out of range", p, *prim.Indices)
			}
			mesh.IndexCount = uint32(doc.Accessors[*prim.Indices].Count)
		}
		if len(positions.Min) == 3 && len(positions.Max) == 3 {
			lo, hi := mgl32.Vec3(positions.Min), mgl32.Vec3(positions.Max)
			mesh.BoundingCenter = lo.Add(hi).Mul(0.5)
			mesh.BoundingRadius = hi.Sub(lo).Len() / 2
		}
		_, joints := prim.Attributes["JOINTS_0"]
		mesh.Skinned = skinnedNode && joints
		out = append(out, mesh)
	}
	return out, nil
}

// importSkeleton binds the document's first skin. Additional skins are not supported by
// model.Model and are ignored.
func importSkeleton(doc *gltfDocument, remap map[int]int) (*model.Skeleton, error) {
	if len(doc.Skins) == 0 {
		return nil, nil
	}
	skin := doc.Skins[0]

	var inverse []float32
	if skin.InverseBindMatrices != nil {
		var err error
		if inverse, err = doc.readFloats(*skin.InverseBindMatrices); err != nil {
			return nil, fmt.Errorf("loader: skin %q: %w", skin.Name, err)
		}
		if len(inverse) < len(skin.Joints)*16 {
			return nil, fmt.Errorf("loader: skin %q: %d inverse bind matrices for %d joints", skin.Name, len(inverse)/16, len(skin.Joints))
		}
	}

	bones := make([]model.Bone, len(skin.Joints))
	for i, joint := range skin.Joints {
		node, ok := remap[joint]
		if !ok {
			return nil, fmt.Errorf("loader: skin %q joint %d is not in the scene", skin.Name, joint)
		}
		bones[i] = model.Bone{Name: doc.Nodes[joint].Name, Node: node, InverseBindMatrix: mgl32.Ident4()}
		if inverse != nil {
			bones[i].InverseBindMatrix = mgl32.Mat4(inverse[i*16 : i*16+16])
		}
	}
	return &model.Skeleton{Bones: bones}, nil
}

func importMaterials(doc *gltfDocument) []material.Material {
	out := make([]material.Material, len(doc.Materials))
	for i, m := range doc.Materials {
		// glTF defaults: white, fully metallic, fully rough.
		options := []material.MaterialBuilderOption{
			material.WithName(m.Name),
			material.WithMetallic(1),
			material.WithRoughness(1),
			material.WithTransparency(m.AlphaMode == "BLEND"),
		}
		if pbr := m.PbrMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				options = append(options, material.WithBaseColor(mgl32.Vec4(*pbr.BaseColorFactor)))
			}
			if pbr.MetallicFactor != nil {
				options = append(options, material.WithMetallic(*pbr.MetallicFactor))
			}
			if pbr.RoughnessFactor != nil {
				options = append(options, material.WithRoughness(*pbr.RoughnessFactor))
			}
			if pbr.BaseColorTexture != nil {
				if label := textureLabel(doc, pbr.BaseColorTexture.Index); label != "" {
					options = append(options, material.WithDiffuseTexture(label))
				}
			}
		}
		out[i] = material.NewMaterial(options...)
	}
	return out
}

// textureLabel names a texture by its image name, image URI or texture name, in that order.
func textureLabel(doc *gltfDocument, index int) string {
	if index < 0 || index >= len(doc.Textures) {
		return ""
	}
	tex := doc.Textures[index]
	if tex.Source != nil && *tex.Source >= 0 && *tex.Source < len(doc.Images) {
		img := doc.Images[*tex.Source]
		if img.Name != "" {
			return img.Name
		}
		if img.URI != "" && len(img.URI) < 256 {
			return img.URI
		}
	}
	return tex.Name
}
