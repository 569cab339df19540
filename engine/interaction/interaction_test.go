package interaction

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/Carmen-Shannon/oxy-theater/engine/overlay"
	"github.com/Carmen-Shannon/oxy-theater/engine/raycast"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	state    common.PlayerState
	commands []string
	err      error
}

func (p *fakePlayer) PlayerState() common.PlayerState { return p.state }

func (p *fakePlayer) PlayVideo() error {
	p.commands = append(p.commands, "play")
	p.state = common.PlayerStatePlaying
	return p.err
}

func (p *fakePlayer) PauseVideo() error {
	p.commands = append(p.commands, "pause")
	p.state = common.PlayerStatePaused
	return p.err
}

type notifications struct {
	enters int
	leaves int
}

// proxyAtOrigin builds the occlusion proxy of a default surface centred at the origin facing +Z.
func proxyAtOrigin() scene.Object {
	t := common.NewTransform()
	t.Scale = mgl32.Vec3{0.01, 0.01, 0.01}
	surf := overlay.NewSurface("iframe", overlay.WithSurfaceTransform(t))
	return overlay.NewOcclusionProxy(surf).Object()
}

func viewer() camera.Camera {
	return camera.NewCamera(
		camera.WithLookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}),
		camera.WithAspect(16.0/9.0),
	)
}

func setup(player Player) (Controller, *notifications) {
	n := &notifications{}
	ctx := NewContext(Target{Object: proxyAtOrigin(), Handler: PlaybackToggle})
	if player != nil {
		ctx.SetPlayer(player)
	}
	c := NewController(ctx,
		WithOnEnter(func(Target, raycast.Intersection) { n.enters++ }),
		WithOnLeave(func(Target, raycast.Intersection) { n.leaves++ }),
	)
	return c, n
}

// pointAt moves the pointer to an NDC position in an 800x450 viewport.
func pointAt(c Controller, ndc mgl32.Vec2) {
	x := (float64(ndc.X()) + 1) / 2 * 800
	y := (1 - float64(ndc.Y())) / 2 * 450
	c.PointerMove(x, y, 800, 450)
}

func TestPointerMoveNormalizes(t *testing.T) {
	c, _ := setup(nil)
	c.PointerMove(600, 112.5, 800, 450)
	assert.InDelta(t, 0.5, c.Context().Pointer().X(), 1e-6)
	assert.InDelta(t, 0.5, c.Context().Pointer().Y(), 1e-6)
}

func TestOffProxyToCentreEntersOnce(t *testing.T) {
	c, n := setup(nil)
	cam := viewer()

	pointAt(c, mgl32.Vec2{0.9, 0.9})
	assert.Equal(t, StateIdle, c.Update(cam))
	assert.Nil(t, c.Context().Hit())

	pointAt(c, mgl32.Vec2{0, 0})
	assert.Equal(t, StateHovering, c.Update(cam))

	assert.Equal(t, 1, n.enters)
	assert.Zero(t, n.leaves)
	hit := c.Context().Hit()
	require.NotNil(t, hit)
	assert.InDelta(t, 5, hit.Distance, 1e-3)
}

func TestHoverIsEdgeTriggered(t *testing.T) {
	c, n := setup(nil)
	cam := viewer()

	pointAt(c, mgl32.Vec2{0.9, 0.9})
	for range 5 {
		c.Update(cam)
	}
	assert.Zero(t, n.enters)
	assert.Zero(t, n.leaves)

	pointAt(c, mgl32.Vec2{0.1, -0.1})
	for range 5 {
		c.Update(cam)
	}
	pointAt(c, mgl32.Vec2{-0.95, 0.95})
	for range 5 {
		c.Update(cam)
	}

	assert.Equal(t, 1, n.enters)
	assert.Equal(t, 1, n.leaves)
	assert.Equal(t, StateIdle, c.State())
}

func TestRevealedProxyStillHit(t *testing.T) {
	proxy := proxyAtOrigin()
	proxy.Material().SetOpacity(0)
	c := NewController(NewContext(Target{Object: proxy}))

	assert.Equal(t, StateHovering, c.Update(viewer()))
}

func TestProxyIgnoredFromBehind(t *testing.T) {
	c, n := setup(nil)
	behind := camera.NewCamera(
		camera.WithLookAt(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{}),
		camera.WithAspect(16.0/9.0),
	)

	assert.Equal(t, StateIdle, c.Update(behind))
	assert.Zero(t, n.enters)
}

func TestClickWhileIdleIsNoop(t *testing.T) {
	p := &fakePlayer{state: common.PlayerStatePaused}
	c, _ := setup(p)

	pointAt(c, mgl32.Vec2{0.9, 0.9})
	c.Update(viewer())

	assert.False(t, c.Click())
	assert.Empty(t, p.commands)
}

func TestClicksWhileHoveringAlternate(t *testing.T) {
	p := &fakePlayer{state: common.PlayerStatePaused}
	c, _ := setup(p)

	pointAt(c, mgl32.Vec2{0, 0})
	c.Update(viewer())

	assert.True(t, c.Click())
	assert.True(t, c.Click())
	assert.Equal(t, []string{"play", "pause"}, p.commands)
}

func TestClickWithoutPlayerIsSafe(t *testing.T) {
	c, _ := setup(nil)
	c.Update(viewer())

	assert.NotPanics(t, func() { c.Click() })
	assert.NotPanics(t, func() { PlaybackToggle(nil, raycast.Intersection{}) })
}

func TestPlaybackToggleStates(t *testing.T) {
	for _, s := range []common.PlayerState{common.PlayerStateUnstarted, common.PlayerStateEnded, common.PlayerStateCued, common.PlayerStateBuffering} {
		p := &fakePlayer{state: s}
		ctx := NewContext()
		ctx.SetPlayer(p)
		PlaybackToggle(ctx, raycast.Intersection{})
		assert.Equal(t, []string{"play"}, p.commands, s.String())
	}

	p := &fakePlayer{state: common.PlayerStatePlaying, err: errors.New("busy")}
	ctx := NewContext()
	ctx.SetPlayer(p)
	PlaybackToggle(ctx, raycast.Intersection{})
	assert.Equal(t, []string{"pause"}, p.commands)
}

func TestTargetSwitchFiresLeaveThenEnter(t *testing.T) {
	left := scene.NewMesh("left", scene.NewPlaneGeometry(2, 2), scene.NewMaterial(),
		scene.WithTransform(common.Transform{Position: mgl32.Vec3{-2, 0, 0}, Scale: mgl32.Vec3{1, 1, 1}}))
	right := scene.NewMesh("right", scene.NewPlaneGeometry(2, 2), scene.NewMaterial(),
		scene.WithTransform(common.Transform{Position: mgl32.Vec3{2, 0, 0}, Scale: mgl32.Vec3{1, 1, 1}}))

	var events []string
	c := NewController(NewContext(Target{Object: left}, Target{Object: right}),
		WithOnEnter(func(tg Target, _ raycast.Intersection) { events = append(events, "enter "+tg.Object.(scene.Object).Name()) }),
		WithOnLeave(func(tg Target, _ raycast.Intersection) { events = append(events, "leave "+tg.Object.(scene.Object).Name()) }),
	)
	cam := viewer()

	c.Context().SetPointer(mgl32.Vec2{-0.3, 0})
	c.Update(cam)
	c.Context().SetPointer(mgl32.Vec2{0.3, 0})
	c.Update(cam)

	assert.Equal(t, []string{"enter left", "leave left", "enter right"}, events)
}

func TestRaycasterFarBoundExcludesTarget(t *testing.T) {
	c := NewController(NewContext(Target{Object: proxyAtOrigin()}),
		WithRaycaster(raycast.NewRaycaster(raycast.WithFar(1))))
	assert.Equal(t, StateIdle, c.Update(viewer()))
}

func TestContextIgnoresEmptyTargets(t *testing.T) {
	ctx := NewContext(Target{})
	assert.Empty(t, ctx.Targets())
	assert.Nil(t, ctx.Player())
}
