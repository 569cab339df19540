package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend uses the given backend instead of creating a wgpu backend.
//
// Parameters:
//   - b: the backend to draw with
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b Backend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithSize sets the initial logical size. A window passed to NewRenderer overrides it.
//
// Parameters:
//   - width: the logical width
//   - height: the logical height
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = width, height
	}
}

// WithPixelRatio overrides the window's content scale as drawing buffer density.
//
// Parameters:
//   - ratio: framebuffer pixels per logical unit, clamped to MaxPixelRatio
//
// Returns:
//   - RendererBuilderOption: a function that applies the pixel ratio option to a renderer
func WithPixelRatio(ratio float32) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPixelRatio = &ratio
	}
}

// WithToneMapping sets the tone mapping operator and exposure.
//
// Parameters:
//   - t: the tone mapping operator
//   - exposure: the exposure, ignored when not positive
//
// Returns:
//   - RendererBuilderOption: a function that applies the tone mapping option to a renderer
func WithToneMapping(t ToneMapping, exposure float32) RendererBuilderOption {
	return func(r *renderer) {
		r.toneMapping = t
		if exposure > 0 {
			r.exposure = exposure
		}
	}
}

// WithShadowMap records whether shadow mapping is requested.
//
// Parameters:
//   - enabled: true to request shadow maps
//
// Returns:
//   - RendererBuilderOption: a function that applies the shadow map option to a renderer
func WithShadowMap(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.shadowMap = enabled
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
