package overlay

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

//go:embed assets/quad.wgsl
var quadSource string

// GPUQuadUniform carries one projected surface. Matches QuadUniform in quad.wgsl (80 bytes).
type GPUQuadUniform struct {
	Corners    [4][4]float32 // offset  0: clip-space corners in strip order
	Opacity    float32       // offset 64: surface opacity
	EncodeSRGB uint32        // offset 68: 1 = shader must encode sRGB itself
	_pad       [2]uint32     // offset 72: padding to 80 bytes
}

// Size returns the size of the GPUQuadUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUQuadUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUQuadUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUQuadUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 4 {
		for j := range 4 {
			binary.LittleEndian.PutUint32(buf[(i*4+j)*4:], math.Float32bits(g.Corners[i][j]))
		}
	}
	binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(g.Opacity))
	binary.LittleEndian.PutUint32(buf[68:], g.EncodeSRGB)
	return buf
}

func quadUniform(q Quad, encodeSRGB bool) GPUQuadUniform {
	u := GPUQuadUniform{Opacity: q.Opacity}
	for i, c := range q.Clip {
		u.Corners[i] = c
	}
	if encodeSRGB {
		u.EncodeSRGB = 1
	}
	return u
}
