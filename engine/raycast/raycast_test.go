package raycast

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testQuad is a width x height quad with a fixed transform.
type testQuad struct {
	name          string
	transform     common.Transform
	width, height float32
}

func (q *testQuad) Intersect(ray Ray) (Intersection, bool) {
	hit, ok := IntersectQuad(ray, q.transform.Matrix(), q.width, q.height)
	hit.Object = q
	return hit, ok
}

func quadAt(name string, z float32) *testQuad {
	tr := common.NewTransform()
	tr.Position = mgl32.Vec3{0, 0, z}
	return &testQuad{name: name, transform: tr, width: 2, height: 2}
}

func TestIntersectQuadFrontAndBack(t *testing.T) {
	model := mgl32.Ident4()

	hit, ok := IntersectQuad(Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, model, 2, 2)
	require.True(t, ok)
	assert.InDelta(t, 5, hit.Distance, 1e-5)
	assert.InDelta(t, 0.5, hit.UV.X(), 1e-5)
	assert.InDelta(t, 0.5, hit.UV.Y(), 1e-5)
	assert.True(t, hit.FrontFace)

	hit, ok = IntersectQuad(Ray{Origin: mgl32.Vec3{0, 0, -5}, Direction: mgl32.Vec3{0, 0, 1}}, model, 2, 2)
	assert.True(t, ok, "quads are double-sided")
	assert.False(t, hit.FrontFace)
}

func TestIntersectQuadMisses(t *testing.T) {
	model := mgl32.Ident4()

	_, ok := IntersectQuad(Ray{Origin: mgl32.Vec3{3, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, model, 2, 2)
	assert.False(t, ok, "outside the quad bounds")

	_, ok = IntersectQuad(Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, 1}}, model, 2, 2)
	assert.False(t, ok, "quad is behind the ray")

	_, ok = IntersectQuad(Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{1, 0, 0}}, model, 2, 2)
	assert.False(t, ok, "ray parallel to the quad")
}

func TestIntersectQuadScaledTransform(t *testing.T) {
	tr := common.Transform{
		Position: mgl32.Vec3{0, 0, -4},
		Scale:    mgl32.Vec3{0.01, 0.01, 0.01},
	}
	// A 720x405 quad at scale 0.01 spans 7.2 x 4.05 world units.
	ray := Ray{Origin: mgl32.Vec3{3.5, 0, 0}, Direction: mgl32.Vec3{0, 0, -1}}
	hit, ok := IntersectQuad(ray, tr.Matrix(), 720, 405)
	require.True(t, ok)
	assert.InDelta(t, 4, hit.Distance, 1e-4)

	ray.Origin = mgl32.Vec3{3.7, 0, 0}
	_, ok = IntersectQuad(ray, tr.Matrix(), 720, 405)
	assert.False(t, ok)
}

func TestIntersectTriangle(t *testing.T) {
	a, b, c := mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, -1, 0}, mgl32.Vec3{0, 1, 0}

	dist, _, ok := IntersectTriangle(Ray{Origin: mgl32.Vec3{0, 0, 3}, Direction: mgl32.Vec3{0, 0, -1}}, a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 3, dist, 1e-5)

	_, _, ok = IntersectTriangle(Ray{Origin: mgl32.Vec3{0, 0, -3}, Direction: mgl32.Vec3{0, 0, 1}}, a, b, c)
	assert.True(t, ok)

	_, _, ok = IntersectTriangle(Ray{Origin: mgl32.Vec3{2, 2, 3}, Direction: mgl32.Vec3{0, 0, -1}}, a, b, c)
	assert.False(t, ok)
}

func TestIntersectObjectsSortedNearestFirst(t *testing.T) {
	far := quadAt("far", -10)
	near := quadAt("near", -2)
	mid := quadAt("mid", -5)

	rc := NewRaycaster()
	rc.Set(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	hits := rc.IntersectObjects(far, near, mid, nil)

	require.Len(t, hits, 3)
	assert.Same(t, near, hits[0].Object)
	assert.Same(t, mid, hits[1].Object)
	assert.Same(t, far, hits[2].Object)
}

func TestNearFarFilter(t *testing.T) {
	rc := NewRaycaster(WithNear(3), WithFar(8))
	rc.Set(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	hits := rc.IntersectObjects(quadAt("a", -2), quadAt("b", -5), quadAt("c", -10))

	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].Object.(*testQuad).name)
}

func TestSetFromCameraThroughCenter(t *testing.T) {
	cam := camera.NewCamera(camera.WithLookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}), camera.WithAspect(16.0/9.0))
	rc := NewRaycaster()
	rc.SetFromCamera(mgl32.Vec2{0, 0}, cam)

	ray := rc.Ray()
	assert.InDeltaSlice(t, []float32{0, 0, 5}, ray.Origin[:], 1e-5)
	assert.InDeltaSlice(t, []float32{0, 0, -1}, ray.Direction[:], 1e-4)

	hits := rc.IntersectObjects(quadAt("origin", 0))
	require.Len(t, hits, 1)
	assert.InDelta(t, 5, hits[0].Distance, 1e-3)
}

func TestSetFromCameraCornerMisses(t *testing.T) {
	cam := camera.NewCamera(camera.WithLookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}), camera.WithAspect(16.0/9.0))
	rc := NewRaycaster()
	rc.SetFromCamera(common.NormalizePointer(1900, 50, 2000, 1000), cam)

	assert.Empty(t, rc.IntersectObjects(quadAt("small", 0)))
}
