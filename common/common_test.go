package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePointer(t *testing.T) {
	assert.Equal(t, mgl32.Vec2{-1, 1}, NormalizePointer(0, 0, 800, 600))
	assert.Equal(t, mgl32.Vec2{1, -1}, NormalizePointer(800, 600, 800, 600))
	assert.Equal(t, mgl32.Vec2{0, 0}, NormalizePointer(400, 300, 800, 600))
	assert.Equal(t, mgl32.Vec2{}, NormalizePointer(10, 10, 0, 600))
}

func TestSignalFiresOnce(t *testing.T) {
	s := NewSignal()
	assert.False(t, s.Fired())

	assert.True(t, s.Fire())
	assert.False(t, s.Fire())
	assert.True(t, s.Fired())

	select {
	case <-s.Done():
	default:
		t.Fatal("done channel still open")
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}

	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3, p.X(), 1e-6)
	assert.InDelta(t, 2, p.Y(), 1e-6)
	assert.InDelta(t, 3, p.Z(), 1e-6)
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	vp := Perspective(mgl32.DegToRad(60), 1.5, 0.1, 100).Mul4(view)

	clip := Project(mgl32.Vec3{1, -0.5, 0}, vp)
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.GreaterOrEqual(t, ndc.Z(), float32(0))
	assert.LessOrEqual(t, ndc.Z(), float32(1))

	back := Unproject(ndc, vp.Inv())
	assert.InDelta(t, 1, back.X(), 1e-3)
	assert.InDelta(t, -0.5, back.Y(), 1e-3)
	assert.InDelta(t, 0, back.Z(), 1e-3)
}

func TestClampAndCoalesce(t *testing.T) {
	assert.Equal(t, 2, Clamp(5, 0, 2))
	assert.Equal(t, float32(0), Clamp(float32(-1), 0, 1))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestPlayerStateNames(t *testing.T) {
	assert.Equal(t, "playing", PlayerStatePlaying.String())
	assert.Equal(t, "cued", PlayerStateCued.String())
	assert.Equal(t, -1, int(PlayerStateUnstarted))
	assert.Equal(t, "State(4)", PlayerState(4).String())
}
