package model_renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
	"github.com/Carmen-Shannon/oxy-compose/engine/scene"
)

// ProcessorKey holds the scene's ModelProcessor in scene.Services().
var ProcessorKey = common.NewPropertyKey[*ModelProcessor]("ModelRenderer.Processor", nil)

// ModelProcessor keeps one RenderModel per scene object carrying a model component.
// Every model renderer of a scene shares the processor, so mesh state built for a slot is built once.
type ModelProcessor struct {
	mu      sync.Mutex
	scene   scene.Scene
	objects []game_object.GameObject
	models  map[game_object.GameObject]*RenderModel
}

// ProcessorFor returns the model processor of s, creating it on first use.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - *ModelProcessor: the scene's processor
func ProcessorFor(s scene.Scene) *ModelProcessor {
	return common.GetOrCreate(s.Services(), ProcessorKey, func() *ModelProcessor {
		return &ModelProcessor{scene: s, models: make(map[game_object.GameObject]*RenderModel)}
	})
}

// Sync reconciles the render models with the scene and returns them in scene order.
// Objects that left the scene or lost their model drop their render state. An object whose
// model component was replaced gets a fresh RenderModel.
//
// Returns:
//   - []*RenderModel: one render model per model object
func (p *ModelProcessor) Sync() []*RenderModel {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.scene.ModelObjects()
	added, removed := renderer.Diff(p.objects, current)
	for _, obj := range removed {
		delete(p.models, obj)
	}
	for _, obj := range added {
		p.models[obj] = newRenderModel(obj)
	}
	p.objects = current

	out := make([]*RenderModel, 0, len(current))
	for _, obj := range current {
		rm := p.models[obj]
		if inst := obj.Model(); inst != nil && inst != rm.Instance {
			rm = newRenderModel(obj)
			p.models[obj] = rm
		}
		out = append(out, rm)
	}
	if len(added)+len(removed) > 0 {
		common.Logger().Debug("render models synced", "scene", p.scene.Name(), "added", len(added), "removed", len(removed))
	}
	return out
}

// Count returns the number of render models as of the last Sync.
func (p *ModelProcessor) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.models)
}
