package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-theater/engine/renderer"
	"github.com/Carmen-Shannon/oxy-theater/engine/video"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsMatchScene(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, Vec3{1, 1, 1}, c.Fog.Color)
	assert.Equal(t, float32(10), c.Fog.Near)
	assert.Equal(t, float32(30), c.Fog.Far)
	assert.Equal(t, float32(2.5), c.Environment.Intensity)
	assert.Equal(t, float32(3), c.Light.Intensity)
	assert.Equal(t, Vec3{0.25, 3, -2.25}, c.Light.Position)
	assert.Equal(t, renderer.ToneMappingReinhard, c.ToneMapping())
	assert.Equal(t, float32(3), c.Renderer.Exposure)
	assert.Equal(t, 720, c.Surface.Width)
	assert.Equal(t, 405, c.Surface.Height)

	opts, err := c.PlayerOptions()
	require.NoError(t, err)
	assert.Equal(t, video.QualityHighdef, opts.SuggestedQuality)
	assert.Equal(t, 2160, opts.Height)
	assert.Equal(t, 3, opts.CCLoadPolicy)
	assert.True(t, opts.Loop)
	assert.True(t, opts.DisableKB)
	assert.False(t, opts.Autoplay)
}

func TestPlayerOptionsCopiesVideoSection(t *testing.T) {
	c := Default()
	c.Video.Source = "trailer.mp4"
	c.Video.Quality = "HD720"
	c.Video.Width = 1280
	c.Video.FS = true
	c.Video.Autoplay = true
	c.Video.Controls = true

	opts, err := c.PlayerOptions()
	require.NoError(t, err)
	assert.Equal(t, "trailer.mp4", opts.VideoID)
	assert.Equal(t, video.QualityHD720, opts.SuggestedQuality)
	assert.Equal(t, 1280, opts.Width)
	assert.Equal(t, c.Video.Height, opts.Height)
	assert.True(t, opts.FS)
	assert.True(t, opts.Autoplay)
	assert.True(t, opts.Controls)
	assert.Nil(t, opts.Events.OnReady)

	c.Video.Quality = ""
	opts, err = c.PlayerOptions()
	require.NoError(t, err)
	assert.Equal(t, video.QualityDefault, opts.SuggestedQuality)

	c.Video.Quality = "8k"
	_, err = c.PlayerOptions()
	assert.ErrorIs(t, err, video.ErrInvalidQuality)
}

func TestLoadMissingFilesUsesDefaults(t *testing.T) {
	c, err := load(filepath.Join(t.TempDir(), "missing.yaml"), mapLookup(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestFileThenEnvPrecedence(t *testing.T) {
	path := writeFile(t, "theater.yaml", `
window:
  width: 800
  height: 600
renderer:
  tone_mapping: aces
  exposure: 1.5
video:
  source: file.mp4
fog:
  near: 5
`)
	c, err := load(path, mapLookup(map[string]string{
		"THEATER_WINDOW_WIDTH": "1024",
		"THEATER_VIDEO_SOURCE": "env.mp4",
	}))
	require.NoError(t, err)

	assert.Equal(t, 1024, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.Equal(t, "env.mp4", c.Video.Source)
	assert.Equal(t, renderer.ToneMappingACESFilmic, c.ToneMapping())
	assert.Equal(t, float32(1.5), c.Renderer.Exposure)
	assert.Equal(t, float32(5), c.Fog.Near)
	assert.Equal(t, float32(30), c.Fog.Far)
}

func TestBadYAML(t *testing.T) {
	path := writeFile(t, "theater.yaml", "window: [")
	_, err := load(path, mapLookup(nil))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestBadEnvValue(t *testing.T) {
	_, err := load("", mapLookup(map[string]string{"THEATER_MSAA": "four"}))
	assert.ErrorContains(t, err, "THEATER_MSAA")
}

func TestProcessEnvBeatsDotenv(t *testing.T) {
	envFile := writeFile(t, ".env", "THEATER_EXPOSURE=2\nTHEATER_PROFILING=true\n")
	t.Setenv("THEATER_EXPOSURE", "4")

	c, err := Load(filepath.Join(t.TempDir(), "none.yaml"), envFile)
	require.NoError(t, err)
	assert.Equal(t, float32(4), c.Renderer.Exposure)
	assert.True(t, c.Profiling)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Renderer.ToneMapping = "filmic"
	c.Video.Quality = "4k"
	c.Window.Width = 0
	c.Renderer.MSAA = 2

	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, renderer.ErrInvalidToneMapping)
	assert.ErrorIs(t, err, video.ErrInvalidQuality)
	assert.ErrorContains(t, err, "window size")
	assert.ErrorContains(t, err, "msaa")
}
