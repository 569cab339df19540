package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUSceneUniformSource is the canonical WGSL definition of the SceneUniform struct.
// Matches GPUSceneUniform layout exactly (48 bytes).
//
//go:embed assets/scene_uniform.wgsl
var GPUSceneUniformSource string

// GPUObjectUniformSource is the canonical WGSL definition of the ObjectUniform struct.
// Matches GPUObjectUniform layout exactly (160 bytes).
//
//go:embed assets/object_uniform.wgsl
var GPUObjectUniformSource string

// GPUSceneUniform carries the frame-wide fog, tone mapping and environment flags.
type GPUSceneUniform struct {
	FogColor    [3]float32 // offset  0: linear RGB fog color
	FogNear     float32    // offset 12: view distance where fog starts
	FogFar      float32    // offset 16: view distance where fog is total
	FogEnabled  uint32     // offset 20: 1 = fog on
	ToneMapping uint32     // offset 24: ToneMapping value
	Exposure    float32    // offset 28: tone mapping exposure
	EnvEnabled  uint32     // offset 32: 1 = environment cube bound
	EncodeSRGB  uint32     // offset 36: 1 = shader must encode sRGB itself
	_pad        [2]uint32  // offset 40: padding to 48 bytes
}

// Size returns the size of the GPUSceneUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUSceneUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSceneUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUSceneUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.FogColor[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.FogNear))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.FogFar))
	binary.LittleEndian.PutUint32(buf[20:], g.FogEnabled)
	binary.LittleEndian.PutUint32(buf[24:], g.ToneMapping)
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(g.Exposure))
	binary.LittleEndian.PutUint32(buf[32:], g.EnvEnabled)
	binary.LittleEndian.PutUint32(buf[36:], g.EncodeSRGB)
	return buf
}

// GPUObjectUniform carries one drawable's transform and material.
type GPUObjectUniform struct {
	Model        [16]float32 // offset   0: model matrix
	NormalMatrix [16]float32 // offset  64: inverse transpose of the model matrix
	Color        [3]float32  // offset 128: linear RGB base color
	Opacity      float32     // offset 140: alpha written to the frame
	EnvIntensity float32     // offset 144: environment contribution multiplier
	HasTexture   uint32      // offset 148: 1 = albedo texture bound
	Lit          uint32      // offset 152: 1 = apply lighting and tone mapping
	_pad         uint32      // offset 156: padding to 160 bytes
}

// Size returns the size of the GPUObjectUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (160)
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.NormalMatrix[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.Color[i]))
	}
	binary.LittleEndian.PutUint32(buf[140:], math.Float32bits(g.Opacity))
	binary.LittleEndian.PutUint32(buf[144:], math.Float32bits(g.EnvIntensity))
	binary.LittleEndian.PutUint32(buf[148:], g.HasTexture)
	binary.LittleEndian.PutUint32(buf[152:], g.Lit)
	return buf
}
