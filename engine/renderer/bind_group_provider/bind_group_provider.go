package bind_group_provider

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label prefixed to every GPU object created by this provider.
	label string

	bindGroup    *wgpu.BindGroup
	buffers      map[int]*wgpu.Buffer
	textures     map[int]*wgpu.Texture
	textureSizes map[int][2]uint32
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler

	// borrowed marks bindings whose resource is owned elsewhere and must not be released here.
	borrowed map[int]bool

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

// BindGroupProvider owns the GPU resources behind one bind group plus an optional mesh.
// Render backends create one per drawable and per frame-wide resource set, initialize its
// bindings, then build the bind group against a pipeline layout.
type BindGroupProvider interface {
	// Label returns the debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// BindGroup returns the bind group, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer at a binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at a binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view
	TextureView(binding int) *wgpu.TextureView

	// TextureSize returns the size of the texture at a binding, zero when absent or borrowed.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint32: width in texels
	//   - uint32: height in texels
	TextureSize(binding int) (uint32, uint32)

	// Sampler returns the sampler at a binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the mesh vertex buffer, or nil.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the mesh index buffer, or nil.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of mesh indices.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// InitMesh uploads vertex and index data into new buffers, replacing any previous mesh.
	//
	// Parameters:
	//   - device: the device to allocate on
	//   - queue: the queue used to upload the data
	//   - vertexData: raw vertex bytes
	//   - indexData: raw uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMesh(device *wgpu.Device, queue *wgpu.Queue, vertexData, indexData []byte, indexCount int) error

	// InitUniform creates a uniform buffer at a binding if none exists yet.
	//
	// Parameters:
	//   - device: the device to allocate on
	//   - binding: the binding index
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: an error if the buffer could not be created
	InitUniform(device *wgpu.Device, binding int, size uint64) error

	// InitTexture creates a 2D texture at a binding and uploads the pixels, replacing any previous texture.
	//
	// Parameters:
	//   - device: the device to allocate on
	//   - queue: the queue used to upload the pixels
	//   - binding: the binding index
	//   - data: RGBA8 pixels
	//   - format: the texture format, usually RGBA8UnormSrgb
	//
	// Returns:
	//   - error: an error if the texture or its view could not be created
	InitTexture(device *wgpu.Device, queue *wgpu.Queue, binding int, data *common.TextureStagingData, format wgpu.TextureFormat) error

	// WriteTexture uploads new pixels into the existing texture at a binding.
	// The data must match the texture size.
	//
	// Parameters:
	//   - queue: the queue used to upload the pixels
	//   - binding: the binding index
	//   - data: RGBA8 pixels
	//
	// Returns:
	//   - error: an error if there is no texture or the size differs
	WriteTexture(queue *wgpu.Queue, binding int, data *common.TextureStagingData) error

	// InitCubeTexture creates a six-layer cube texture at a binding and uploads each face.
	//
	// Parameters:
	//   - device: the device to allocate on
	//   - queue: the queue used to upload the pixels
	//   - binding: the binding index
	//   - cube: the six faces, which must be square and equal in size
	//
	// Returns:
	//   - error: an error if the cube is invalid or a GPU object could not be created
	InitCubeTexture(device *wgpu.Device, queue *wgpu.Queue, binding int, cube *common.CubeTextureStagingData) error

	// InitSampler creates a sampler at a binding.
	//
	// Parameters:
	//   - device: the device to allocate on
	//   - binding: the binding index
	//   - desc: the sampler descriptor
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(device *wgpu.Device, binding int, desc *wgpu.SamplerDescriptor) error

	// InitBindGroup builds the bind group from every initialized binding, in binding order.
	// Any previous bind group is released.
	//
	// Parameters:
	//   - device: the device to allocate on
	//   - layout: the bind group layout compiled by the pipeline
	//
	// Returns:
	//   - error: an error if the layout is nil or the bind group could not be created
	InitBindGroup(device *wgpu.Device, layout *wgpu.BindGroupLayout) error

	// Release releases every GPU resource owned by this provider. Borrowed resources are left alone.
	Release()
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty BindGroupProvider.
//
// Parameters:
//   - label: debug label for the GPU objects it creates
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureSizes: make(map[int][2]uint32),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		borrowed:     make(map[int]bool),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) TextureSize(binding int) (uint32, uint32) {
	s := p.textureSizes[binding]
	return s[0], s[1]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) InitMesh(device *wgpu.Device, queue *wgpu.Queue, vertexData, indexData []byte, indexCount int) error {
	if len(vertexData) == 0 {
		return errors.New("mesh has no vertex data")
	}
	p.releaseMesh()

	vb, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.label + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	queue.WriteBuffer(vb, 0, vertexData)
	p.vertexBuffer = vb

	if len(indexData) > 0 {
		ib, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: p.label + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		queue.WriteBuffer(ib, 0, indexData)
		p.indexBuffer = ib
	}
	p.indexCount = indexCount
	return nil
}

func (p *bindGroupProvider) InitUniform(device *wgpu.Device, binding int, size uint64) error {
	if p.buffers[binding] != nil {
		return nil
	}
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("%s Uniform %d", p.label, binding),
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	p.buffers[binding] = buf
	return nil
}

func (p *bindGroupProvider) InitTexture(device *wgpu.Device, queue *wgpu.Queue, binding int, data *common.TextureStagingData, format wgpu.TextureFormat) error {
	if data == nil || data.Width == 0 || data.Height == 0 {
		return fmt.Errorf("texture binding %d has no pixels", binding)
	}
	p.releaseTexture(binding)

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     fmt.Sprintf("%s Texture %d", p.label, binding),
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	writeLayer(queue, tex, 0, data)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	p.textures[binding] = tex
	p.textureSizes[binding] = [2]uint32{data.Width, data.Height}
	p.textureViews[binding] = view
	return nil
}

func (p *bindGroupProvider) WriteTexture(queue *wgpu.Queue, binding int, data *common.TextureStagingData) error {
	tex := p.textures[binding]
	if tex == nil {
		return fmt.Errorf("texture binding %d is not initialized", binding)
	}
	size := p.textureSizes[binding]
	if data.Width != size[0] || data.Height != size[1] {
		return fmt.Errorf("texture binding %d is %dx%d, got %dx%d", binding, size[0], size[1], data.Width, data.Height)
	}
	writeLayer(queue, tex, 0, data)
	return nil
}

func (p *bindGroupProvider) InitCubeTexture(device *wgpu.Device, queue *wgpu.Queue, binding int, cube *common.CubeTextureStagingData) error {
	if cube == nil {
		return fmt.Errorf("cube binding %d has no faces", binding)
	}
	size, err := cube.Size()
	if err != nil {
		return err
	}
	p.releaseTexture(binding)

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     fmt.Sprintf("%s Cube %d", p.label, binding),
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              size,
			Height:             size,
			DepthOrArrayLayers: uint32(common.CubeFaceCount),
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	for i, face := range cube.Faces {
		writeLayer(queue, tex, uint32(i), face)
	}

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           fmt.Sprintf("%s Cube View %d", p.label, binding),
		Format:          wgpu.TextureFormatRGBA8UnormSrgb,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: uint32(common.CubeFaceCount),
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		tex.Release()
		return err
	}
	p.textures[binding] = tex
	p.textureSizes[binding] = [2]uint32{size, size}
	p.textureViews[binding] = view
	return nil
}

func (p *bindGroupProvider) InitSampler(device *wgpu.Device, binding int, desc *wgpu.SamplerDescriptor) error {
	if old := p.samplers[binding]; old != nil && !p.borrowed[binding] {
		old.Release()
	}
	samp, err := device.CreateSampler(desc)
	if err != nil {
		return err
	}
	delete(p.borrowed, binding)
	p.samplers[binding] = samp
	return nil
}

func (p *bindGroupProvider) InitBindGroup(device *wgpu.Device, layout *wgpu.BindGroupLayout) error {
	if layout == nil {
		return fmt.Errorf("%s: bind group layout is nil", p.label)
	}

	bindings := make([]int, 0, len(p.buffers)+len(p.textureViews)+len(p.samplers))
	for b := range p.buffers {
		bindings = append(bindings, b)
	}
	for b := range p.textureViews {
		bindings = append(bindings, b)
	}
	for b := range p.samplers {
		bindings = append(bindings, b)
	}
	sort.Ints(bindings)

	entries := make([]wgpu.BindGroupEntry, 0, len(bindings))
	for _, b := range bindings {
		switch {
		case p.buffers[b] != nil:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: uint32(b),
				Buffer:  p.buffers[b],
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		case p.textureViews[b] != nil:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     uint32(b),
				TextureView: p.textureViews[b],
			})
		case p.samplers[b] != nil:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: uint32(b),
				Sampler: p.samplers[b],
			})
		}
	}

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.label + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
	return nil
}

func (p *bindGroupProvider) releaseMesh() {
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}

func (p *bindGroupProvider) releaseTexture(binding int) {
	if p.borrowed[binding] {
		delete(p.borrowed, binding)
		delete(p.textureViews, binding)
		return
	}
	if tv := p.textureViews[binding]; tv != nil {
		tv.Release()
		delete(p.textureViews, binding)
	}
	if tex := p.textures[binding]; tex != nil {
		tex.Release()
		delete(p.textures, binding)
	}
	delete(p.textureSizes, binding)
}

func (p *bindGroupProvider) Release() {
	for b := range p.textureViews {
		p.releaseTexture(b)
	}
	for b, s := range p.samplers {
		if s != nil && !p.borrowed[b] {
			s.Release()
		}
		delete(p.samplers, b)
	}
	for b, buf := range p.buffers {
		if buf != nil && !p.borrowed[b] {
			buf.Release()
		}
		delete(p.buffers, b)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	p.releaseMesh()
}

func writeLayer(queue *wgpu.Queue, tex *wgpu.Texture, layer uint32, data *common.TextureStagingData) {
	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: layer},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)
}
