package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via New.
type RendererBuilderOption func(*rendererImpl)

// WithEnabled sets the initial enabled state.
//
// Parameters:
//   - enabled: whether Draw runs the core
//
// Returns:
//   - RendererBuilderOption: a function that applies the enabled state to a renderer
func WithEnabled(enabled bool) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.enabled = enabled
	}
}

// WithProfiling toggles the device profiling markers placed around each Draw.
//
// Parameters:
//   - enabled: whether Draw brackets the core with BeginProfile/EndProfile
//
// Returns:
//   - RendererBuilderOption: a function that applies the profiling flag to a renderer
func WithProfiling(enabled bool) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.profiling = enabled
	}
}
