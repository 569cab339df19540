package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithSharedBuffer binds a buffer owned elsewhere. Release leaves it alone.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to bind
//
// Returns:
//   - BindGroupProviderOption: a function that binds the buffer
func WithSharedBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
		p.borrowed[binding] = true
	}
}

// WithSharedTextureView binds a texture view owned elsewhere, such as a fallback texture.
// Release leaves it alone.
//
// Parameters:
//   - binding: the binding index for this texture view
//   - view: the texture view to bind
//
// Returns:
//   - BindGroupProviderOption: a function that binds the texture view
func WithSharedTextureView(binding int, view *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = view
		p.borrowed[binding] = true
	}
}

// WithSharedSampler binds a sampler owned elsewhere. Release leaves it alone.
//
// Parameters:
//   - binding: the binding index for this sampler
//   - s: the sampler to bind
//
// Returns:
//   - BindGroupProviderOption: a function that binds the sampler
func WithSharedSampler(binding int, s *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = s
		p.borrowed[binding] = true
	}
}
