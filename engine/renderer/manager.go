package renderer

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrDuplicatePipeline is returned when registering a pipeline whose name is taken.
var ErrDuplicatePipeline = errors.New("renderer: pipeline name already registered")

// Manager owns the set of top-level pipelines drawn each frame.
type Manager interface {
	// Context returns the context pipelines are attached to.
	Context() *RenderContext

	// AddPipeline attaches p to the manager's context and registers it.
	//
	// Parameters:
	//   - p: a detached pipeline
	//
	// Returns:
	//   - error: ErrDuplicatePipeline, ErrPipelineAttached, or the first renderer load error
	AddPipeline(p RenderPipeline) error

	// RemovePipeline unregisters p and detaches it, unloading its renderers.
	//
	// Returns:
	//   - bool: true if p was registered
	RemovePipeline(p RenderPipeline) bool

	// Pipeline returns the registered pipeline with the given name, or nil.
	Pipeline(name string) RenderPipeline

	// Pipelines returns the registered pipelines in registration order.
	Pipelines() []RenderPipeline

	// Draw draws every registered pipeline in registration order, stopping at the first error.
	Draw() error

	// Close detaches every pipeline in reverse registration order.
	Close()
}

type manager struct {
	mu        sync.Mutex
	ctx       *RenderContext
	pipelines []RenderPipeline
	byName    map[string]RenderPipeline
}

var _ Manager = &manager{}

// NewManager creates a manager drawing with ctx.
//
// Parameters:
//   - ctx: the frame's render context
//   - pipelines: pipelines registered immediately, in order
//
// Returns:
//   - Manager: the manager
//   - error: the first registration error
func NewManager(ctx *RenderContext, pipelines ...RenderPipeline) (Manager, error) {
	if ctx == nil {
		panic("renderer: NewManager requires a context")
	}
	m := &manager{
		ctx:    ctx,
		byName: make(map[string]RenderPipeline),
	}
	for _, p := range pipelines {
		if err := m.AddPipeline(p); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}

func (m *manager) Context() *RenderContext {
	return m.ctx
}

func (m *manager) AddPipeline(p RenderPipeline) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[p.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePipeline, p.Name())
	}
	if err := p.Attach(m.ctx); err != nil {
		return err
	}
	m.pipelines = append(m.pipelines, p)
	m.byName[p.Name()] = p
	return nil
}

func (m *manager) RemovePipeline(p RenderPipeline) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.Index(m.pipelines, p)
	if i < 0 {
		return false
	}
	m.pipelines = slices.Delete(m.pipelines, i, i+1)
	delete(m.byName, p.Name())
	p.Detach()
	return true
}

func (m *manager) Pipeline(name string) RenderPipeline {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byName[name]
}

func (m *manager) Pipelines() []RenderPipeline {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.pipelines)
}

func (m *manager) Draw() error {
	for _, p := range m.Pipelines() {
		if err := p.Draw(m.ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *manager) Close() {
	m.mu.Lock()
	pipelines := m.pipelines
	m.pipelines = nil
	clear(m.byName)
	m.mu.Unlock()

	for _, p := range slices.Backward(pipelines) {
		p.Detach()
	}
}
