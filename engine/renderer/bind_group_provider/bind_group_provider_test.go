package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyProvider(t *testing.T) {
	p := NewBindGroupProvider("model")
	assert.Equal(t, "model", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.VertexBuffer())
	assert.Zero(t, p.IndexCount())
	w, h := p.TextureSize(2)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestInitBindGroupRequiresLayout(t *testing.T) {
	assert.Error(t, NewBindGroupProvider("frame").InitBindGroup(nil, nil))
}

func TestWriteTextureRequiresTexture(t *testing.T) {
	assert.Error(t, NewBindGroupProvider("video").WriteTexture(nil, 0, nil))
}

func TestWriteBuffersSkipsMissingTargets(t *testing.T) {
	p := NewBindGroupProvider("object")
	n := WriteBuffers(nil, []BufferWrite{
		{Provider: p, Binding: 0, Data: []byte{1}},
		{Provider: nil, Binding: 0, Data: []byte{1}},
	})
	assert.Zero(t, n)
}

func TestReleaseClearsBorrowedWithoutTouchingThem(t *testing.T) {
	p := NewBindGroupProvider("object", WithSharedTextureView(2, nil), WithSharedSampler(3, nil)).(*bindGroupProvider)
	assert.True(t, p.borrowed[2])
	p.Release()
	assert.Empty(t, p.textureViews)
	assert.Empty(t, p.samplers)
}
