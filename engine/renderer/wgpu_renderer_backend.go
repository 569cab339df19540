package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/Carmen-Shannon/oxy-theater/engine/light"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/tone_mapping.wgsl
var toneMappingSource string

//go:embed assets/lit.wgsl
var litSource string

//go:embed assets/background.wgsl
var backgroundSource string

const depthFormat = wgpu.TextureFormatDepth24Plus

// Frame bind group (group 0) bindings.
const (
	frameBindingCamera = iota
	frameBindingLight
	frameBindingScene
	frameBindingEnvMap
	frameBindingEnvSampler
)

// Object bind group (group 1) bindings.
const (
	objectBindingUniform = iota
	objectBindingAlbedo
	objectBindingAlbedoSampler
)

const vertexStride = 32

type gpuObject struct {
	provider bind_group_provider.BindGroupProvider
	geometry *scene.Geometry
	texture  *common.TextureStagingData
	version  uint64
	uniform  GPUObjectUniform
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount

	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	litPipelines       [sideCount]pipeline.Pipeline
	rawPipelines       [sideCount]pipeline.Pipeline
	backgroundPipeline pipeline.Pipeline
	builtFormat        wgpu.TextureFormat

	frameResources bind_group_provider.BindGroupProvider
	uploadedEnv    *common.CubeTextureStagingData
	fallbackWhite  bind_group_provider.BindGroupProvider
	fallbackCube   bind_group_provider.BindGroupProvider
	linearSampler  *wgpu.Sampler
	objects        map[uint64]*gpuObject

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var (
	_ Backend   = &wgpuRendererBackendImpl{}
	_ GPUTarget = &wgpuRendererBackendImpl{}
)

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) *wgpuRendererBackendImpl {
	runtime.LockOSThread()
	if surfaceDescriptor == nil {
		panic("renderer: window has no surface descriptor")
	}
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		objects:     make(map[uint64]*gpuObject),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initSharedResources(); err != nil {
		panic(err)
	}
	return b
}

// initSharedResources creates the sampler and the fallback textures bound when a material
// has no albedo texture or the scene has no environment.
func (b *wgpuRendererBackendImpl) initSharedResources() error {
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Linear Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}
	b.linearSampler = samp

	white := &common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
	b.fallbackWhite = bind_group_provider.NewBindGroupProvider("Fallback White")
	if err := b.fallbackWhite.InitTexture(b.device, b.queue, 0, white, wgpu.TextureFormatRGBA8UnormSrgb); err != nil {
		return fmt.Errorf("failed to create fallback texture: %w", err)
	}

	black := &common.TextureStagingData{Pixels: []byte{0, 0, 0, 255}, Width: 1, Height: 1}
	cube := &common.CubeTextureStagingData{}
	for i := range cube.Faces {
		cube.Faces[i] = black
	}
	b.fallbackCube = bind_group_provider.NewBindGroupProvider("Fallback Cube")
	if err := b.fallbackCube.InitCubeTexture(b.device, b.queue, 0, cube); err != nil {
		return fmt.Errorf("failed to create fallback cube: %w", err)
	}
	return nil
}

func uniformEntry(binding uint32, size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

func textureEntry(binding uint32, dim wgpu.TextureViewDimension) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: dim,
		},
	}
}

func samplerEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Sampler: wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeFiltering,
		},
	}
}

func frameLayout() wgpu.BindGroupLayoutDescriptor {
	var cam camera.GPUCameraUniform
	var l light.GPULight
	var s GPUSceneUniform
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Frame",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(frameBindingCamera, uint64(cam.Size())),
			uniformEntry(frameBindingLight, uint64(l.Size())),
			uniformEntry(frameBindingScene, uint64(s.Size())),
			textureEntry(frameBindingEnvMap, wgpu.TextureViewDimensionCube),
			samplerEntry(frameBindingEnvSampler),
		},
	}
}

func objectLayout() wgpu.BindGroupLayoutDescriptor {
	var o GPUObjectUniform
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Object",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(objectBindingUniform, uint64(o.Size())),
			textureEntry(objectBindingAlbedo, wgpu.TextureViewDimension2D),
			samplerEntry(objectBindingAlbedoSampler),
		},
	}
}

func meshVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: vertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// shaderPrelude holds the struct definitions and helpers shared by every 3D shader.
func shaderPrelude() string {
	return camera.GPUCameraUniformSource + "\n" +
		light.GPULightSource + "\n" +
		GPUSceneUniformSource + "\n" +
		GPUObjectUniformSource + "\n" +
		toneMappingSource + "\n"
}

// sideCount is the number of scene.Side values; pipelines are built once per side.
const sideCount = int(scene.SideDouble) + 1

// cullModeFor maps a material side onto the rasterizer cull mode. Front faces wind counter-clockwise.
func cullModeFor(side scene.Side) wgpu.CullMode {
	switch side {
	case scene.SideBack:
		return wgpu.CullModeFront
	case scene.SideDouble:
		return wgpu.CullModeNone
	default:
		return wgpu.CullModeBack
	}
}

// newScenePipelines describes the lit and raw pipelines for every side, and the background pipeline.
func newScenePipelines() (lit, raw [sideCount]pipeline.Pipeline, background pipeline.Pipeline) {
	prelude := shaderPrelude()
	for i := range sideCount {
		side := scene.Side(i)
		lit[i] = pipeline.NewPipeline("lit-"+side.String(), prelude+litSource,
			pipeline.WithBindGroupLayouts(frameLayout(), objectLayout()),
			pipeline.WithVertexLayouts(meshVertexLayout()),
			pipeline.WithBlendState(pipeline.PremultipliedBlend()),
			pipeline.WithCullMode(cullModeFor(side)),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		)
		raw[i] = pipeline.NewPipeline("no-blending-"+side.String(), prelude+litSource,
			pipeline.WithEntryPoints("vs_main", "fs_raw"),
			pipeline.WithBindGroupLayouts(frameLayout(), objectLayout()),
			pipeline.WithVertexLayouts(meshVertexLayout()),
			pipeline.WithBlendState(nil),
			pipeline.WithCullMode(cullModeFor(side)),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		)
	}
	background = pipeline.NewPipeline("background", prelude+backgroundSource,
		pipeline.WithBindGroupLayouts(frameLayout()),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendState(nil),
	)
	return lit, raw, background
}

func (b *wgpuRendererBackendImpl) buildPipelines() error {
	if b.backgroundPipeline != nil && b.builtFormat == b.surfaceFormat {
		return nil
	}
	if b.backgroundPipeline == nil {
		b.litPipelines, b.rawPipelines, b.backgroundPipeline = newScenePipelines()
	}
	target := pipeline.Target{
		Format:      b.surfaceFormat,
		SampleCount: uint32(b.sampleCount),
		DepthFormat: depthFormat,
	}
	all := append(append([]pipeline.Pipeline{b.backgroundPipeline}, b.litPipelines[:]...), b.rawPipelines[:]...)
	for _, p := range all {
		if err := p.Build(b.device, target); err != nil {
			return err
		}
	}
	b.builtFormat = b.surfaceFormat

	// Bind groups reference the old layouts after a rebuild.
	b.releaseFrameResources()
	for id, obj := range b.objects {
		obj.provider.Release()
		delete(b.objects, id)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	log.Printf("[Renderer] surface configured %dx%d (%v)", width, height, b.surfaceFormat)

	if err := b.buildPipelines(); err != nil {
		panic(err)
	}
	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	if msaaEnabled {
		// The 3D pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) releaseFrameResources() {
	if b.frameResources != nil {
		b.frameResources.Release()
		b.frameResources = nil
	}
	b.uploadedEnv = nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

// ensureFrameResources (re)creates the frame bind group when the environment cube changes.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) ensureFrameResources(env *common.CubeTextureStagingData) error {
	if b.frameResources != nil && b.uploadedEnv == env {
		return nil
	}
	b.releaseFrameResources()

	var opts []bind_group_provider.BindGroupProviderOption
	opts = append(opts, bind_group_provider.WithSharedSampler(frameBindingEnvSampler, b.linearSampler))
	if env == nil {
		opts = append(opts, bind_group_provider.WithSharedTextureView(frameBindingEnvMap, b.fallbackCube.TextureView(0)))
	}
	res := bind_group_provider.NewBindGroupProvider("Frame", opts...)

	var cam camera.GPUCameraUniform
	var l light.GPULight
	var s GPUSceneUniform
	for binding, size := range map[int]int{
		frameBindingCamera: cam.Size(),
		frameBindingLight:  l.Size(),
		frameBindingScene:  s.Size(),
	} {
		if err := res.InitUniform(b.device, binding, uint64(size)); err != nil {
			res.Release()
			return err
		}
	}
	if env != nil {
		if err := res.InitCubeTexture(b.device, b.queue, frameBindingEnvMap, env); err != nil {
			res.Release()
			return fmt.Errorf("failed to upload environment: %w", err)
		}
	}
	if err := res.InitBindGroup(b.device, b.litPipelines[scene.SideFront].BindGroupLayout(0)); err != nil {
		res.Release()
		return err
	}
	b.frameResources = res
	b.uploadedEnv = env
	return nil
}

func (b *wgpuRendererBackendImpl) encodeSRGB() uint32 {
	switch b.surfaceFormat {
	case wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb:
		return 0
	default:
		return 1
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame(frame FrameState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return errors.New("surface not configured")
	}
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	if err := b.ensureFrameResources(frame.Environment); err != nil {
		return err
	}
	frame.Scene.EncodeSRGB = b.encodeSRGB()
	bind_group_provider.WriteBuffers(b.queue, []bind_group_provider.BufferWrite{
		{Provider: b.frameResources, Binding: frameBindingCamera, Data: frame.Camera.Marshal()},
		{Provider: b.frameResources, Binding: frameBindingLight, Data: frame.Light.Marshal()},
		{Provider: b.frameResources, Binding: frameBindingScene, Data: frame.Scene.Marshal()},
	})

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// Alpha is cleared to 1 so only surfaces drawn with lower alpha open the frame to the overlay.
	attachment := &b.renderPassDescriptor.ColorAttachments[0]
	attachment.ClearValue = wgpu.Color{
		R: float64(frame.ClearColor[0]),
		G: float64(frame.ClearColor[1]),
		B: float64(frame.ClearColor[2]),
		A: 1.0,
	}
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetBindGroup(0, b.frameResources.BindGroup(), nil)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) DrawBackground() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.SetPipeline(b.backgroundPipeline.RenderPipeline())
	b.framePass.SetBindGroup(0, b.frameResources.BindGroup(), nil)
	b.framePass.Draw(3, 1, 0, 0)
}

// objectResources returns the cached GPU resources for an item, rebuilding whatever changed.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) objectResources(item DrawItem) (*gpuObject, error) {
	obj, ok := b.objects[item.ID]
	if ok && obj.geometry == item.Geometry && obj.texture == item.Texture {
		return obj, nil
	}
	if ok {
		obj.provider.Release()
	}

	var opts []bind_group_provider.BindGroupProviderOption
	opts = append(opts, bind_group_provider.WithSharedSampler(objectBindingAlbedoSampler, b.linearSampler))
	if item.Texture == nil {
		opts = append(opts, bind_group_provider.WithSharedTextureView(objectBindingAlbedo, b.fallbackWhite.TextureView(0)))
	}
	res := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Object %d", item.ID), opts...)

	geom := item.Geometry
	if err := res.InitMesh(b.device, b.queue, common.SliceToBytes(geom.Vertices), common.SliceToBytes(geom.Indices), len(geom.Indices)); err != nil {
		res.Release()
		return nil, err
	}
	if err := res.InitUniform(b.device, objectBindingUniform, uint64(item.Uniform.Size())); err != nil {
		res.Release()
		return nil, err
	}
	if item.Texture != nil {
		if err := res.InitTexture(b.device, b.queue, objectBindingAlbedo, item.Texture, wgpu.TextureFormatRGBA8UnormSrgb); err != nil {
			res.Release()
			return nil, err
		}
	}
	if err := res.InitBindGroup(b.device, b.litPipelines[scene.SideFront].BindGroupLayout(1)); err != nil {
		res.Release()
		return nil, err
	}

	obj = &gpuObject{provider: res, geometry: geom, texture: item.Texture}
	b.objects[item.ID] = obj
	return obj, nil
}

func (b *wgpuRendererBackendImpl) DrawMesh(item DrawItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("no frame in progress")
	}
	if item.Geometry == nil {
		return errors.New("draw item has no geometry")
	}
	obj, err := b.objectResources(item)
	if err != nil {
		return err
	}
	if obj.uniform != item.Uniform || obj.version != item.Version {
		bind_group_provider.WriteBuffers(b.queue, []bind_group_provider.BufferWrite{
			{Provider: obj.provider, Binding: objectBindingUniform, Data: item.Uniform.Marshal()},
		})
		obj.uniform = item.Uniform
		obj.version = item.Version
	}

	side := item.Side
	if side < 0 || int(side) >= sideCount {
		side = scene.SideFront
	}
	p := b.litPipelines[side]
	if item.Blending == scene.BlendingNone {
		p = b.rawPipelines[side]
	}
	b.framePass.SetPipeline(p.RenderPipeline())
	b.framePass.SetBindGroup(0, b.frameResources.BindGroup(), nil)
	b.framePass.SetBindGroup(1, obj.provider.BindGroup(), nil)
	b.framePass.SetVertexBuffer(0, obj.provider.VertexBuffer(), 0, wgpu.WholeSize)
	if ib := obj.provider.IndexBuffer(); ib != nil {
		b.framePass.SetIndexBuffer(ib, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		b.framePass.DrawIndexed(uint32(obj.provider.IndexCount()), 1, 0, 0, 0)
	} else {
		b.framePass.Draw(uint32(len(item.Geometry.Vertices)), 1, 0, 0)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		log.Printf("[Renderer] failed to finish frame: %v", err)
		b.frameEncoder.Release()
		b.frameEncoder = nil
		return
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Forget(keep map[uint64]bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, obj := range b.objects {
		if !keep[id] {
			obj.provider.Release()
			delete(b.objects, id)
		}
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) CurrentView() *wgpu.TextureView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frameView
}
