package pipeline

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Target describes the attachments a render pipeline draws into.
type Target struct {
	// Format is the color attachment format, usually the surface format.
	Format wgpu.TextureFormat
	// SampleCount is the MSAA sample count of the color and depth attachments.
	SampleCount uint32
	// DepthFormat is the depth attachment format, or TextureFormatUndefined for passes without depth.
	DepthFormat wgpu.TextureFormat
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key string

	// source holds one WGSL module containing both entry points.
	source        string
	vertexEntry   string
	fragmentEntry string

	bindGroupLayouts []wgpu.BindGroupLayoutDescriptor
	vertexLayouts    []wgpu.VertexBufferLayout

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState

	renderPipeline *wgpu.RenderPipeline
	layouts        []*wgpu.BindGroupLayout
}

// Pipeline describes a render pipeline: its WGSL module, resource layouts and fixed-function state.
// Build compiles it against a device and Target.
type Pipeline interface {
	// Key returns the unique key of this pipeline, used for labels and lookups.
	//
	// Returns:
	//   - string: the pipeline key
	Key() string

	// Source returns the WGSL module source.
	//
	// Returns:
	//   - string: the WGSL code
	Source() string

	// BindGroupLayoutDescriptors returns the declared bind group layouts, indexed by group.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: one descriptor per bind group
	BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor

	// VertexLayouts returns the vertex buffer layouts, indexed by slot.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// DepthTestEnabled returns whether fragments are depth tested.
	//
	// Returns:
	//   - bool: true if depth testing is enabled
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether fragments write depth.
	//
	// Returns:
	//   - bool: true if depth writing is enabled
	DepthWriteEnabled() bool

	// BlendEnabled returns whether the color target blends.
	//
	// Returns:
	//   - bool: true if blending is enabled
	BlendEnabled() bool

	// BlendState returns the configured blend state. It is only applied when BlendEnabled is true.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state
	BlendState() *wgpu.BlendState

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	//
	// Returns:
	//   - wgpu.FrontFace: the winding order
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the write mask
	WriteMask() wgpu.ColorWriteMask

	// ColorTargetState returns the color target state for a given format.
	//
	// Parameters:
	//   - format: the color attachment format
	//
	// Returns:
	//   - wgpu.ColorTargetState: the color target state
	ColorTargetState(format wgpu.TextureFormat) wgpu.ColorTargetState

	// DepthStencilState returns the depth state for a given depth format, or nil when format is undefined.
	//
	// Parameters:
	//   - format: the depth attachment format
	//
	// Returns:
	//   - *wgpu.DepthStencilState: the depth state, or nil
	DepthStencilState(format wgpu.TextureFormat) *wgpu.DepthStencilState

	// Build compiles the shader module, bind group layouts and render pipeline.
	// Calling Build again releases the previous GPU objects first.
	//
	// Parameters:
	//   - device: the device to create GPU objects on
	//   - target: the attachments the pipeline draws into
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	Build(device *wgpu.Device, target Target) error

	// RenderPipeline returns the compiled pipeline, or nil before Build.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the compiled layout for a group, or nil before Build or when out of range.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the compiled layout
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// Release frees the compiled GPU objects.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline description. Nothing touches the GPU until Build.
//
// Parameters:
//   - key: the unique key for this pipeline
//   - source: the WGSL module containing the vertex and fragment entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline with the specified configuration
func NewPipeline(key, source string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:               key,
		source:            source,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState:        AlphaBlend(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AlphaBlend is straight alpha blending for color with premultiplied accumulation of alpha.
//
// Returns:
//   - *wgpu.BlendState: the blend state
func AlphaBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// PremultipliedBlend blends a premultiplied source over the target: result = src + dst * (1 - src.a).
//
// Returns:
//   - *wgpu.BlendState: the blend state
func PremultipliedBlend() *wgpu.BlendState {
	over := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	}
	return &wgpu.BlendState{Color: over, Alpha: over}
}

// UnderBlend composites the source behind what is already in the target:
// result = src * (1 - dst.a) + dst. The source must be premultiplied.
//
// Returns:
//   - *wgpu.BlendState: the blend state
func UnderBlend() *wgpu.BlendState {
	under := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOneMinusDstAlpha,
		DstFactor: wgpu.BlendFactorOne,
		Operation: wgpu.BlendOperationAdd,
	}
	return &wgpu.BlendState{Color: under, Alpha: under}
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Source() string {
	return p.source
}

func (p *pipeline) BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayouts
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) ColorTargetState(format wgpu.TextureFormat) wgpu.ColorTargetState {
	state := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		state.Blend = p.blendState
	}
	return state
}

func (p *pipeline) DepthStencilState(format wgpu.TextureFormat) *wgpu.DepthStencilState {
	if format == wgpu.TextureFormatUndefined {
		return nil
	}
	depthCompare := wgpu.CompareFunctionLess
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}
	return &wgpu.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: p.depthWriteEnabled,
		DepthCompare:      depthCompare,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

func (p *pipeline) Build(device *wgpu.Device, target Target) error {
	if device == nil {
		return errors.New("cannot build pipeline without a device")
	}
	if p.source == "" {
		return fmt.Errorf("pipeline %q has no shader source", p.key)
	}
	p.Release()

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.key + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.source,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to compile shader for %q: %w", p.key, err)
	}
	defer module.Release()

	layouts := make([]*wgpu.BindGroupLayout, len(p.bindGroupLayouts))
	for g := range p.bindGroupLayouts {
		layout, layoutErr := device.CreateBindGroupLayout(&p.bindGroupLayouts[g])
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		layouts[g] = layout
	}
	p.layouts = layouts

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.key,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	sampleCount := target.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}

	created, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.key + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntry,
			Targets:    []wgpu.ColorTargetState{p.ColorTargetState(target.Format)},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: p.DepthStencilState(target.DepthFormat),
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline %q: %w", p.key, err)
	}
	p.renderPipeline = created
	return nil
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.layouts) {
		return nil
	}
	return p.layouts[group]
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	for _, l := range p.layouts {
		if l != nil {
			l.Release()
		}
	}
	p.layouts = nil
}
