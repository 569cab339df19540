package overlay

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	quadBindingUniform = iota
	quadBindingFrame
	quadBindingSampler
)

type gpuSurface struct {
	provider      bind_group_provider.BindGroupProvider
	width, height uint32
	frame         *image.RGBA
}

type wgpuOverlayBackendImpl struct {
	mu     *sync.Mutex
	target renderer.GPUTarget

	pipeline    pipeline.Pipeline
	builtFormat wgpu.TextureFormat
	sampler     *wgpu.Sampler
	surfaces    map[string]*gpuSurface

	width, height int
}

var _ Backend = &wgpuOverlayBackendImpl{}

func newWGPUOverlayBackend(target renderer.GPUTarget) *wgpuOverlayBackendImpl {
	samp, err := target.Device().CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Overlay Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(err)
	}
	return &wgpuOverlayBackendImpl{
		mu:       &sync.Mutex{},
		target:   target,
		sampler:  samp,
		surfaces: make(map[string]*gpuSurface),
	}
}

func quadLayout() wgpu.BindGroupLayoutDescriptor {
	var u GPUQuadUniform
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Overlay Quad",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    quadBindingUniform,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(u.Size()),
				},
			},
			{
				Binding:    quadBindingFrame,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    quadBindingSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// ensurePipeline builds the under-blended quad pipeline for the surface format.
// Caller must hold the mutex.
func (b *wgpuOverlayBackendImpl) ensurePipeline(format wgpu.TextureFormat) error {
	if b.pipeline != nil && b.builtFormat == format {
		return nil
	}
	if b.pipeline == nil {
		b.pipeline = pipeline.NewPipeline("overlay-quad", quadSource,
			pipeline.WithBindGroupLayouts(quadLayout()),
			pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendState(pipeline.UnderBlend()),
		)
	}
	if err := b.pipeline.Build(b.target.Device(), pipeline.Target{Format: format, SampleCount: 1}); err != nil {
		return err
	}
	b.builtFormat = format

	for name, s := range b.surfaces {
		s.provider.Release()
		delete(b.surfaces, name)
	}
	return nil
}

// surfaceResources returns the texture and bind group for a quad, uploading its frame when it changed.
// Caller must hold the mutex.
func (b *wgpuOverlayBackendImpl) surfaceResources(q Quad) (*gpuSurface, error) {
	name := q.Surface.Name()
	frame := q.Frame
	data := common.ImageToStaging(frame)
	device, queue := b.target.Device(), b.target.Queue()

	s, ok := b.surfaces[name]
	if ok && s.width == data.Width && s.height == data.Height {
		if s.frame != frame {
			if err := s.provider.WriteTexture(queue, quadBindingFrame, data); err != nil {
				return nil, err
			}
			s.frame = frame
		}
		return s, nil
	}
	if ok {
		s.provider.Release()
		delete(b.surfaces, name)
	}

	res := bind_group_provider.NewBindGroupProvider("Overlay "+name,
		bind_group_provider.WithSharedSampler(quadBindingSampler, b.sampler),
	)
	var u GPUQuadUniform
	if err := res.InitUniform(device, quadBindingUniform, uint64(u.Size())); err != nil {
		res.Release()
		return nil, err
	}
	if err := res.InitTexture(device, queue, quadBindingFrame, data, wgpu.TextureFormatRGBA8UnormSrgb); err != nil {
		res.Release()
		return nil, err
	}
	if err := res.InitBindGroup(device, b.pipeline.BindGroupLayout(0)); err != nil {
		res.Release()
		return nil, err
	}
	log.Printf("[Overlay] surface %q texture %dx%d", name, data.Width, data.Height)

	s = &gpuSurface{provider: res, width: data.Width, height: data.Height, frame: frame}
	b.surfaces[name] = s
	return s, nil
}

func (b *wgpuOverlayBackendImpl) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *wgpuOverlayBackendImpl) Draw(quads []Quad) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	view := b.target.CurrentView()
	if view == nil {
		return errors.New("no frame in flight")
	}
	format := b.target.SurfaceFormat()
	if err := b.ensurePipeline(format); err != nil {
		return err
	}
	encodeSRGB := format != wgpu.TextureFormatBGRA8UnormSrgb && format != wgpu.TextureFormatRGBA8UnormSrgb

	var calls []*gpuSurface
	var writes []bind_group_provider.BufferWrite
	for _, q := range quads {
		// A surface shows nothing until its source has produced a frame.
		if q.Frame == nil {
			continue
		}
		s, err := b.surfaceResources(q)
		if err != nil {
			return fmt.Errorf("surface %q: %w", q.Surface.Name(), err)
		}
		u := quadUniform(q, encodeSRGB)
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.provider,
			Binding:  quadBindingUniform,
			Data:     u.Marshal(),
		})
		calls = append(calls, s)
	}
	if len(calls) == 0 {
		return nil
	}
	queue := b.target.Queue()
	bind_group_provider.WriteBuffers(queue, writes)

	encoder, err := b.target.Device().CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})
	pass.SetPipeline(b.pipeline.RenderPipeline())
	for _, s := range calls {
		pass.SetBindGroup(0, s.provider.BindGroup(), nil)
		pass.Draw(4, 1, 0, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}
