package compositor

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/engine/renderer"
)

// ErrRecursiveDraw is returned when a nested pipeline draws the renderer that nests it.
var ErrRecursiveDraw = errors.New("compositor: pipeline drawn recursively")

// RecursiveRenderer draws another pipeline as part of the current one. The nested pipeline is
// attached to the same context on load and detached on unload; the current pass is restored after it draws.
type RecursiveRenderer struct {
	renderer.Renderer
	renderer.SceneRendererTag

	pipeline renderer.RenderPipeline
	drawing  bool
}

var _ renderer.SceneRenderer = &RecursiveRenderer{}

// NewRecursiveRenderer creates a renderer drawing pipeline.
func NewRecursiveRenderer(pipeline renderer.RenderPipeline) *RecursiveRenderer {
	if pipeline == nil {
		panic("compositor: NewRecursiveRenderer requires a pipeline")
	}
	r := &RecursiveRenderer{pipeline: pipeline}
	r.Renderer = renderer.New("Recursive:"+pipeline.Name(), r)
	return r
}

// Pipeline returns the nested pipeline.
func (r *RecursiveRenderer) Pipeline() renderer.RenderPipeline {
	return r.pipeline
}

func (r *RecursiveRenderer) LoadCore(ctx *renderer.RenderContext) error {
	return r.pipeline.Attach(ctx)
}

func (r *RecursiveRenderer) UnloadCore() {
	r.pipeline.Detach()
}

func (r *RecursiveRenderer) DrawCore(ctx *renderer.RenderContext) error {
	if r.drawing {
		return fmt.Errorf("%w: %s", ErrRecursiveDraw, r.pipeline.Name())
	}
	r.drawing = true
	defer func() { r.drawing = false }()
	return r.pipeline.Draw(ctx)
}
