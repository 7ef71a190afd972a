package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-compose/common"
)

// ErrPassAttached is returned when a pass that already has a parent is added elsewhere.
var ErrPassAttached = errors.New("renderer: pass already has a parent")

// PassHook runs when a pass starts or ends.
type PassHook func(ctx *RenderContext) error

// RenderPass is a node of the render tree: ordered child passes, ordered renderers and start/end hooks.
// While its root pipeline is attached to a context, adding renderers or subtrees loads them immediately
// and removing them unloads them immediately.
type RenderPass interface {
	// Name returns the pass name.
	Name() string

	// Parent returns the enclosing pass, or nil for a root.
	Parent() RenderPass

	// Children returns a copy of the child passes in draw order.
	Children() []RenderPass

	// Renderers returns a copy of the renderers in draw order.
	Renderers() []Renderer

	// AddChild appends child. When the tree is live every renderer below child is loaded first;
	// if one fails, the ones already loaded are unloaded again and child is not added.
	//
	// Parameters:
	//   - child: a pass without a parent
	//
	// Returns:
	//   - error: ErrPassAttached, or the load error
	AddChild(child RenderPass) error

	// InsertChild is AddChild at a position.
	InsertChild(index int, child RenderPass) error

	// RemoveChild detaches child, unloading every renderer below it when the tree is live.
	//
	// Returns:
	//   - bool: true if child was a child of this pass
	RemoveChild(child RenderPass) bool

	// AddRenderer appends r, loading it when the tree is live.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: the load error; r is not added in that case
	AddRenderer(r Renderer) error

	// InsertRenderer is AddRenderer at a position.
	InsertRenderer(index int, r Renderer) error

	// RemoveRenderer removes r, unloading it when the tree is live.
	//
	// Returns:
	//   - bool: true if r was attached to this pass
	RemoveRenderer(r Renderer) bool

	// OnStartPass registers a hook run before the children are drawn.
	OnStartPass(hook PassHook)

	// OnEndPass registers a hook run after the children are drawn.
	OnEndPass(hook PassHook)

	// StartPass runs the start hooks in registration order, stopping at the first error.
	StartPass(ctx *RenderContext) error

	// EndPass runs the end hooks in registration order, stopping at the first error.
	EndPass(ctx *RenderContext) error

	// DrawRenderers draws the pass's renderers in order, stopping at the first error.
	DrawRenderers(ctx *RenderContext) error

	// IsLive reports whether the pass belongs to a tree attached to a context.
	IsLive() bool

	node() *renderPass
}

type renderPass struct {
	name      string
	parent    *renderPass
	self      RenderPass
	children  *common.TrackingList[RenderPass]
	renderers *common.TrackingList[Renderer]
	onStart   []PassHook
	onEnd     []PassHook

	// Set on roots only, while attached.
	ctx *RenderContext
}

var _ RenderPass = &renderPass{}

// NewRenderPass creates a detached pass.
//
// Parameters:
//   - name: the pass name
//   - options: functional options applied in order
//
// Returns:
//   - RenderPass: the new pass
func NewRenderPass(name string, options ...RenderPassBuilderOption) RenderPass {
	p := newRenderPass(name)
	p.self = p
	for _, opt := range options {
		opt(p)
	}
	return p
}

func newRenderPass(name string) *renderPass {
	p := &renderPass{name: name}
	p.children = common.NewTrackingList(p.childAdded, p.childRemoved)
	p.renderers = common.NewTrackingList(p.rendererAdded, p.rendererRemoved)
	return p
}

func (p *renderPass) node() *renderPass {
	return p
}

func (p *renderPass) Name() string {
	return p.name
}

func (p *renderPass) Parent() RenderPass {
	if p.parent == nil {
		return nil
	}
	return p.parent.self
}

func (p *renderPass) Children() []RenderPass {
	return p.children.Items()
}

func (p *renderPass) Renderers() []Renderer {
	return p.renderers.Items()
}

func (p *renderPass) root() *renderPass {
	r := p
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (p *renderPass) liveContext() *RenderContext {
	return p.root().ctx
}

func (p *renderPass) IsLive() bool {
	return p.liveContext() != nil
}

func (p *renderPass) AddChild(child RenderPass) error {
	return p.InsertChild(p.children.Len(), child)
}

func (p *renderPass) InsertChild(index int, child RenderPass) error {
	c := child.node()
	if c.parent != nil || c.ctx != nil || c == p {
		return fmt.Errorf("%w: %s", ErrPassAttached, c.name)
	}
	for a := p; a != nil; a = a.parent {
		if a == c {
			return fmt.Errorf("renderer: adding %s under %s would create a cycle", c.name, p.name)
		}
	}
	return p.children.Insert(index, child)
}

func (p *renderPass) RemoveChild(child RenderPass) bool {
	return p.children.Remove(child)
}

func (p *renderPass) childAdded(child RenderPass) error {
	c := child.node()
	c.parent = p
	if ctx := p.liveContext(); ctx != nil {
		if err := c.loadTree(ctx); err != nil {
			c.parent = nil
			return err
		}
	}
	return nil
}

func (p *renderPass) childRemoved(child RenderPass) {
	c := child.node()
	if p.IsLive() {
		c.unloadTree()
	}
	c.parent = nil
}

func (p *renderPass) AddRenderer(r Renderer) error {
	return p.InsertRenderer(p.renderers.Len(), r)
}

func (p *renderPass) InsertRenderer(index int, r Renderer) error {
	if r == nil {
		panic("renderer: InsertRenderer requires a renderer")
	}
	return p.renderers.Insert(index, r)
}

func (p *renderPass) RemoveRenderer(r Renderer) bool {
	return p.renderers.Remove(r)
}

func (p *renderPass) rendererAdded(r Renderer) error {
	if ctx := p.liveContext(); ctx != nil {
		return r.Load(ctx)
	}
	return nil
}

func (p *renderPass) rendererRemoved(r Renderer) {
	if p.IsLive() {
		r.Unload()
	}
}

// loadTree loads every renderer of the subtree in pre-order. On failure it unloads what it loaded.
func (p *renderPass) loadTree(ctx *RenderContext) error {
	var loaded []Renderer
	var walk func(n *renderPass) error
	walk = func(n *renderPass) error {
		for _, r := range n.renderers.Items() {
			if err := r.Load(ctx); err != nil {
				return fmt.Errorf("pass %s: %w", n.name, err)
			}
			loaded = append(loaded, r)
		}
		for _, c := range n.children.Items() {
			if err := walk(c.node()); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(p); err != nil {
		for _, r := range slices.Backward(loaded) {
			r.Unload()
		}
		return err
	}
	return nil
}

// unloadTree unloads every renderer of the subtree in reverse load order.
func (p *renderPass) unloadTree() {
	for _, c := range slices.Backward(p.children.Items()) {
		c.node().unloadTree()
	}
	for _, r := range slices.Backward(p.renderers.Items()) {
		r.Unload()
	}
}

func (p *renderPass) OnStartPass(hook PassHook) {
	p.onStart = append(p.onStart, hook)
}

func (p *renderPass) OnEndPass(hook PassHook) {
	p.onEnd = append(p.onEnd, hook)
}

func (p *renderPass) StartPass(ctx *RenderContext) error {
	for _, h := range p.onStart {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *renderPass) EndPass(ctx *RenderContext) error {
	for _, h := range p.onEnd {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *renderPass) DrawRenderers(ctx *RenderContext) error {
	for _, r := range p.renderers.Items() {
		if err := r.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// DrawPass draws a pass tree: pass becomes current, its start hooks run, each child is drawn in order,
// pass becomes current again, its end hooks run. The previous current pass is restored on every exit path.
// A failing hook aborts the traversal; end hooks of passes already started do not run.
//
// Parameters:
//   - pass: the subtree root
//   - ctx: the render context
//
// Returns:
//   - error: the first hook or renderer error
func DrawPass(pass RenderPass, ctx *RenderContext) error {
	restore := ctx.PushPass(pass)
	defer restore()

	if err := pass.StartPass(ctx); err != nil {
		return fmt.Errorf("start pass %s: %w", pass.Name(), err)
	}
	for _, child := range pass.Children() {
		if err := DrawPass(child, ctx); err != nil {
			return err
		}
	}
	ctx.currentPass = pass
	if err := pass.EndPass(ctx); err != nil {
		return fmt.Errorf("end pass %s: %w", pass.Name(), err)
	}
	return nil
}
