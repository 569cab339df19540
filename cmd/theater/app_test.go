package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/Carmen-Shannon/oxy-theater/internal/config"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWorld(t *testing.T) {
	cfg := config.Default()
	world, model, sun := buildWorld(cfg)

	require.NotNil(t, world.Fog())
	assert.Equal(t, float32(10), world.Fog().Near)
	assert.Equal(t, float32(30), world.Fog().Far)
	assert.Equal(t, float32(2.5), model.Material().EnvMapIntensity())
	assert.True(t, model.CastShadow())
	assert.InDelta(t, 1.5708, model.Transform().Rotation.Y(), 1e-4)
	assert.Equal(t, mgl32.Vec3{0, -4, 0}, model.Transform().Position)

	assert.Equal(t, float32(3), sun.Intensity())
	assert.Equal(t, mgl32.Vec3{0.25, 3, -2.25}, sun.Position())
	assert.Equal(t, float32(15), sun.Shadow().Far)
	assert.Equal(t, 1024, sun.Shadow().MapSize)
	assert.Len(t, world.Lights(), 1)
}

func TestBuildScreenMirrorsSurface(t *testing.T) {
	surfaces, surface, proxy := buildScreen(config.Default())

	assert.Same(t, surface, surfaces.Surface("iframe"))
	assert.Equal(t, surface.Transform(), proxy.Object().Transform())
	assert.Equal(t, scene.BlendingNone, proxy.Object().Material().Blending())
	assert.Equal(t, scene.SideFront, proxy.Object().Material().Side())
	assert.Equal(t, float32(1), proxy.Opacity())
	g := proxy.Object().Geometry()
	assert.Equal(t, float32(720), g.Width)
	assert.Equal(t, float32(405), g.Height)
}

func TestBuildCamera(t *testing.T) {
	cam, controls := buildCamera(config.Default(), 1600, 900)
	assert.InDelta(t, 4, cam.Position().X(), 1e-3)
	assert.InDelta(t, 1, cam.Position().Y(), 1e-3)
	assert.InDelta(t, -4, cam.Position().Z(), 1e-3)
	assert.True(t, controls.Damping())
	assert.InDelta(t, 16.0/9.0, cam.Aspect(), 1e-6)
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--video", "flag.mp4", "--exposure", "2", "--audio=false"}))

	cfg := config.Default()
	cfg.Window.Width = 999
	var o overrides
	o.video, _ = cmd.Flags().GetString("video")
	o.exposure, _ = cmd.Flags().GetFloat32("exposure")
	o.audio, _ = cmd.Flags().GetBool("audio")
	o.apply(cmd, cfg)

	assert.Equal(t, "flag.mp4", cfg.Video.Source)
	assert.Equal(t, float32(2), cfg.Renderer.Exposure)
	assert.False(t, cfg.Video.Audio)
	assert.Equal(t, 999, cfg.Window.Width)
}
