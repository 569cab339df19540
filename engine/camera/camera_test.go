package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl32.Vec3, eps float32) {
	t.Helper()
	assert.InDeltaSlicef(t, want[:], got[:], float64(eps), "want %v, got %v", want, got)
}

func TestStartPositionRoundTrips(t *testing.T) {
	ctrl := NewCameraController(WithStartPosition(mgl32.Vec3{4, 1, -4}))
	vecNear(t, mgl32.Vec3{4, 1, -4}, ctrl.Position(), 1e-4)
	assert.InDelta(t, math.Sqrt(33), ctrl.Radius(), 1e-4)
	assert.InDelta(t, 3*math.Pi/4, ctrl.Azimuth(), 1e-4)
}

func TestCameraFollowsController(t *testing.T) {
	ctrl := NewCameraController(WithStartPosition(mgl32.Vec3{4, 1, -4}))
	cam := NewCamera(WithController(ctrl), WithAspect(16.0/9.0))

	vecNear(t, mgl32.Vec3{4, 1, -4}, cam.Position(), 1e-4)

	// The origin is the look-at target, so it projects to the center of the screen.
	clip := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	require.NotZero(t, clip.W())
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)
}

func TestProjectionDepthRange(t *testing.T) {
	cam := NewCamera(WithLookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}), WithNear(0.1), WithFar(100))

	near := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-4)
}

func TestInverseViewProjection(t *testing.T) {
	cam := NewCamera(WithLookAt(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, 0}), WithAspect(2))
	identity := cam.ViewProjectionMatrix().Mul4(cam.InverseViewProjectionMatrix())
	want := mgl32.Ident4()
	assert.InDeltaSlice(t, want[:], identity[:], 1e-4)

	ndc := mgl32.Vec3{0.3, -0.2, 0.5}
	world := cam.InverseViewProjectionMatrix().Mul4x1(ndc.Vec4(1))
	clip := cam.ViewProjectionMatrix().Mul4x1(world)
	back := clip.Vec3().Mul(1 / clip.W())
	assert.InDeltaSlice(t, ndc[:], back[:], 1e-4)
}

func TestSetAspectIgnoresNonPositive(t *testing.T) {
	cam := NewCamera(WithAspect(1.5))
	cam.SetAspect(0)
	assert.Equal(t, float32(1.5), cam.Aspect())
	cam.SetAspect(2)
	assert.Equal(t, float32(2), cam.Aspect())
}

func TestZoomWithoutDampingIsImmediate(t *testing.T) {
	ctrl := NewCameraController(WithRadius(10), WithZoomSpeed(1))
	ctrl.Zoom(2)
	assert.InDelta(t, 8, ctrl.Radius(), 1e-6)
	assert.True(t, ctrl.Settled())
}

func TestZoomClampsToBounds(t *testing.T) {
	ctrl := NewCameraController(WithRadius(10), WithZoomSpeed(1), WithRadiusBounds(5, 20))
	ctrl.Zoom(100)
	assert.InDelta(t, 5, ctrl.Radius(), 1e-6)
	ctrl.Zoom(-100)
	assert.InDelta(t, 20, ctrl.Radius(), 1e-6)
}

func TestDampedRotateConvergesOverUpdates(t *testing.T) {
	ctrl := NewCameraController(WithRadius(5), WithDamping(6, 1), WithMouseSensitivity(0.01))
	ctrl.Rotate(-100, 0)

	// Goal moves but the actual azimuth waits for Update.
	assert.InDelta(t, 0, ctrl.Azimuth(), 1e-6)
	assert.False(t, ctrl.Settled())

	ctrl.Update(1.0 / 60.0)
	first := ctrl.Azimuth()
	assert.Greater(t, first, float32(0))
	assert.Less(t, first, float32(1))

	for range 600 {
		ctrl.Update(1.0 / 60.0)
	}
	assert.InDelta(t, 1, ctrl.Azimuth(), 1e-3)
	assert.True(t, ctrl.Settled())
}

func TestDisablingDampingSnapsToGoal(t *testing.T) {
	ctrl := NewCameraController(WithRadius(5), WithDamping(6, 1), WithZoomSpeed(1))
	ctrl.Zoom(1)
	ctrl.SetDamping(false)
	assert.InDelta(t, 4, ctrl.Radius(), 1e-6)
}

func TestElevationClamped(t *testing.T) {
	ctrl := NewCameraController(WithElevationBounds(-0.5, 0.5), WithMouseSensitivity(1))
	ctrl.Rotate(0, 10)
	assert.InDelta(t, 0.5, ctrl.Elevation(), 1e-6)
}

func TestPanMovesTargetAndPositionTogether(t *testing.T) {
	ctrl := NewCameraController(WithRadius(5), WithPanSpeed(0.1))
	before := ctrl.Position().Sub(ctrl.Target())
	ctrl.Pan(10, 0)
	after := ctrl.Position().Sub(ctrl.Target())

	vecNear(t, before, after, 1e-5)
	assert.NotEqual(t, mgl32.Vec3{}, ctrl.Target())
}

func TestUniformMarshalLayout(t *testing.T) {
	cam := NewCamera(WithLookAt(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}))
	u := cam.Uniform()
	buf := u.Marshal()
	require.Len(t, buf, 144)
	assert.Equal(t, 144, u.Size())
	assert.Equal(t, [3]float32{1, 2, 3}, u.CameraPosition)
}
