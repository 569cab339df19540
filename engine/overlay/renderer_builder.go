package overlay

// RendererBuilderOption is a functional option applied to an overlay renderer during construction via NewRenderer.
type RendererBuilderOption func(*rendererImpl)

// WithBackend uses the given backend instead of creating a wgpu backend.
//
// Parameters:
//   - b: the backend to draw with
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b Backend) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.backend = b
	}
}

// WithSize sets the initial viewport size.
//
// Parameters:
//   - width: the logical width
//   - height: the logical height
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.width, r.height = max(width, 0), max(height, 0)
	}
}
