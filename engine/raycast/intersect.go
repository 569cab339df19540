package raycast

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-7

// IntersectQuad tests a ray against a width x height rectangle centered on the local XY plane of model.
// The test is double-sided. FrontFace reports whether the ray came from the local +Z side.
//
// Parameters:
//   - ray: the world-space ray
//   - model: the quad's model matrix
//   - width, height: quad extent in local units
//
// Returns:
//   - Intersection: the hit with Distance, Point and UV filled in (Object is left nil)
//   - bool: true if the ray hits the quad in front of its origin
func IntersectQuad(ray Ray, model mgl32.Mat4, width, height float32) (Intersection, bool) {
	inv := model.Inv()
	origin := inv.Mul4x1(ray.Origin.Vec4(1)).Vec3()
	dir := inv.Mul4x1(ray.Direction.Vec4(0)).Vec3()

	if math32.Abs(dir.Z()) < epsilon {
		return Intersection{}, false
	}
	t := -origin.Z() / dir.Z()
	if t < 0 {
		return Intersection{}, false
	}

	local := origin.Add(dir.Mul(t))
	halfW, halfH := width/2, height/2
	if local.X() < -halfW || local.X() > halfW || local.Y() < -halfH || local.Y() > halfH {
		return Intersection{}, false
	}

	// The affine transform preserves the ray parameter, so the world point sits at the same t.
	point := ray.At(t)
	return Intersection{
		Distance:  point.Sub(ray.Origin).Len(),
		Point:     point,
		UV:        mgl32.Vec2{local.X()/width + 0.5, local.Y()/height + 0.5},
		FrontFace: dir.Z() < 0,
	}, true
}

// IntersectTriangle tests a ray against a world-space triangle using the Möller–Trumbore algorithm.
// The test is double-sided.
//
// Parameters:
//   - ray: the world-space ray
//   - a, b, c: triangle vertices
//
// Returns:
//   - float32: ray parameter of the hit
//   - mgl32.Vec2: barycentric coordinates (u, v) of the hit relative to b and c
//   - bool: true if the ray hits the triangle in front of its origin
func IntersectTriangle(ray Ray, a, b, c mgl32.Vec3) (float32, mgl32.Vec2, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	p := ray.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if math32.Abs(det) < epsilon {
		return 0, mgl32.Vec2{}, false
	}
	invDet := 1 / det

	s := ray.Origin.Sub(a)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, mgl32.Vec2{}, false
	}

	q := s.Cross(edge1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, mgl32.Vec2{}, false
	}

	t := edge2.Dot(q) * invDet
	if t < epsilon {
		return 0, mgl32.Vec2{}, false
	}
	return t, mgl32.Vec2{u, v}, true
}
