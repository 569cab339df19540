package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the position, Euler rotation and scale of a scene element.
// Rotation angles are in radians and applied in Y * X * Z order.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// NewTransform returns a Transform at the origin with unit scale.
//
// Returns:
//   - Transform: the identity transform
func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix builds the column-major model matrix T * Ry * Rx * Rz * S.
//
// Returns:
//   - mgl32.Mat4: the model matrix for this transform
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(mgl32.HomogRotate3DY(t.Rotation.Y()))
	m = m.Mul4(mgl32.HomogRotate3DX(t.Rotation.X()))
	m = m.Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z()))
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Perspective creates a perspective projection matrix for WebGPU clip space, where depth maps to [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// Unproject maps a point in normalized device coordinates back into world space.
// The z component follows the WebGPU convention: 0 is the near plane, 1 is the far plane.
//
// Parameters:
//   - ndc: the point in normalized device coordinates
//   - invViewProj: the inverse of the camera's view-projection matrix
//
// Returns:
//   - mgl32.Vec3: the world-space position
func Unproject(ndc mgl32.Vec3, invViewProj mgl32.Mat4) mgl32.Vec3 {
	v := invViewProj.Mul4x1(ndc.Vec4(1))
	if v.W() == 0 {
		return v.Vec3()
	}
	return v.Vec3().Mul(1 / v.W())
}

// Project maps a world-space point into clip space.
//
// Parameters:
//   - p: the world-space position
//   - viewProj: the camera's view-projection matrix
//
// Returns:
//   - mgl32.Vec4: homogeneous clip coordinates (not divided by w)
func Project(p mgl32.Vec3, viewProj mgl32.Mat4) mgl32.Vec4 {
	return viewProj.Mul4x1(p.Vec4(1))
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// The returned slice shares memory with the input.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}
