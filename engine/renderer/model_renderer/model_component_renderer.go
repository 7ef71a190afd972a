package model_renderer

import (
	"errors"
	"fmt"
	"maps"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
)

// ErrNoEffectSystem is returned by Load when no effect system was configured or found in the context tags.
var ErrNoEffectSystem = errors.New("model_renderer: no effect system")

// ModelComponentRenderer prepares and draws the model components of a scene with one effect.
//
// On load it takes the slot of its effect name from the scene's RendererState. During Prepare each
// render model lazily builds its meshes for that slot, so renderers sharing an effect share meshes.
type ModelComponentRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	scene      scene.Scene
	effectName string
	state      *RendererState
	processor  *ModelProcessor

	system          effect.System
	async           bool
	callbacks       *Callbacks
	defaultMaterial material.Material
	frustumCulling  bool
	rendererOptions []renderer.RendererBuilderOption

	slot  int
	items renderer.ComponentItems
}

var _ renderer.EntityComponentRenderer = &ModelComponentRenderer{}
var _ renderer.SceneRenderer = &ModelComponentRenderer{}

// NewModelComponentRenderer creates an unloaded model renderer for s drawing with effectName.
//
// Parameters:
//   - s: the scene whose model objects are drawn
//   - effectName: the effect every mesh is compiled from
//   - options: functional options
//
// Returns:
//   - *ModelComponentRenderer: the renderer
func NewModelComponentRenderer(s scene.Scene, effectName string, options ...ModelComponentRendererOption) *ModelComponentRenderer {
	if s == nil {
		panic("model_renderer: NewModelComponentRenderer requires a scene")
	}
	r := &ModelComponentRenderer{
		scene:          s,
		effectName:     effectName,
		state:          StateFor(s),
		processor:      ProcessorFor(s),
		frustumCulling: true,
		slot:           -1,
	}
	for _, opt := range options {
		opt(r)
	}
	r.Renderer = renderer.New("Model:"+effectName, r, r.rendererOptions...)
	return r
}

// EffectName returns the effect meshes are compiled from.
func (r *ModelComponentRenderer) EffectName() string {
	return r.effectName
}

// Slot returns the allocated slot, or -1 while unloaded.
func (r *ModelComponentRenderer) Slot() int {
	return r.slot
}

func (r *ModelComponentRenderer) LoadCore(ctx *renderer.RenderContext) error {
	if r.system == nil {
		sys, ok := common.Get(ctx.Tags, effect.SystemKey)
		if !ok || sys == nil {
			return ErrNoEffectSystem
		}
		r.system = sys
	}
	r.slot = r.state.AllocateModelSlot(r.effectName)
	return nil
}

func (r *ModelComponentRenderer) UnloadCore() {
	if r.slot >= 0 {
		r.state.ReleaseModelSlot(r.slot)
		r.slot = -1
	}
}

// DrawCore prepares, sorts and draws this renderer's items on its own.
func (r *ModelComponentRenderer) DrawCore(ctx *renderer.RenderContext) error {
	return renderer.DrawComponents(ctx, &r.items, r)
}

// Prepare appends one item per visible mesh of every enabled model object whose render group is in
// the current culling mask. Nothing is prepared without a current camera.
func (r *ModelComponentRenderer) Prepare(ctx *renderer.RenderContext, opaque, transparent *renderer.RenderItemList) {
	if r.slot < 0 {
		return
	}
	cam, ok := common.Get(ctx.Tags, camera.CurrentKey)
	if !ok || cam == nil {
		return
	}
	mask := common.GetOrDefault(ctx.Tags, renderer.CullingMaskKey)
	viewProj := cam.ViewProjection()
	frustum := cam.Frustum()

	for _, rm := range r.processor.Sync() {
		rm.ensureSlots(r.slot + 1)

		obj := rm.Object
		if !obj.Enabled() || !mask.Contains(obj.Group()) {
			continue
		}

		meshes := rm.meshesFor(r.slot, r.effectName, r.buildMesh)
		rm.updateHierarchy(ctx.Time.Frame)

		for _, m := range meshes {
			if !m.Enabled() {
				continue
			}
			center := rm.Instance.MeshCenter(m.Index)
			if r.frustumCulling && m.Mesh.BoundingRadius > 0 && !frustum.SphereVisible(center, m.Mesh.BoundingRadius) {
				continue
			}

			m.UpdateMaterial()
			m.World = rm.Instance.MeshWorld(m.Index)
			graphics.SetParameter(m.Parameters, WorldKey, m.World)
			if m.Mesh.Skinned {
				graphics.SetParameter(m.Parameters, BonesKey, rm.Instance.BoneMatrices())
			}

			item := renderer.RenderItem{Renderer: r, DrawContext: m, Depth: common.ProjectDepth(viewProj, center)}
			if m.Transparent {
				*transparent = append(*transparent, item)
			} else {
				*opaque = append(*opaque, item)
			}
		}
	}
}

func (r *ModelComponentRenderer) buildMesh(m *RenderMesh) {
	if m.Material == nil && r.defaultMaterial != nil {
		m.Material = r.defaultMaterial
		m.UpdateMaterial()
	}
	m.effect = NewDynamicEffectCompiler(r.system, r.effectName, r.async)
	if _, err := m.effect.Update(r.compilerParameters(r.Context(), m)); err != nil {
		common.Logger().Warn("mesh effect compile failed", "effect", r.effectName, "mesh", m.Mesh.Name, "error", err)
	}
}

// compilerParameters merges the context's compiler values with the mesh's; the mesh wins.
func (r *ModelComponentRenderer) compilerParameters(ctx *renderer.RenderContext, m *RenderMesh) effect.CompilerParameters {
	params := effect.CompilerParameters{}
	if ctx != nil {
		maps.Copy(params, ctx.Parameters.CompilerValues())
	}
	maps.Copy(params, m.Parameters.CompilerValues())
	return params
}

// DrawItems updates each mesh's effect and submits one mesh draw per item.
// Meshes without a loaded effect are skipped.
func (r *ModelComponentRenderer) DrawItems(ctx *renderer.RenderContext, items renderer.RenderItemList, from, to int) error {
	cb := r.callbacks
	if cb == nil {
		cb = common.GetOrDefault(ctx.Tags, CallbacksKey)
	}

	for _, item := range items[from:to] {
		m, ok := item.DrawContext.(*RenderMesh)
		if !ok || m.effect == nil {
			continue
		}
		if cb != nil && cb.PreEffectUpdate != nil {
			cb.PreEffectUpdate(ctx, m)
		}
		if _, err := m.effect.Update(r.compilerParameters(ctx, m)); err != nil {
			return fmt.Errorf("model_renderer: mesh %q of %s: %w", m.Mesh.Name, r.Name(), err)
		}

		if e := m.Effect(); e != nil && e.Module() != nil {
			err := ctx.Device.Draw(graphics.DrawCommand{
				Label:         m.Mesh.Name,
				Kind:          graphics.DrawMesh,
				Module:        e.Module(),
				Parameters:    m.Parameters,
				World:         m.World,
				VertexCount:   m.Mesh.VertexCount,
				IndexCount:    m.Mesh.IndexCount,
				InstanceCount: 1,
			})
			if err != nil {
				return fmt.Errorf("model_renderer: draw %q: %w", m.Mesh.Name, err)
			}
		}
		if cb != nil && cb.PostEffectUpdate != nil {
			cb.PostEffectUpdate(ctx, m)
		}
	}
	return nil
}
