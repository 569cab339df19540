package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/stretchr/testify/assert"
)

func TestShortPressReleaseIsClick(t *testing.T) {
	w := newEngineWindow()
	clicks := 0
	w.SetClickCallback(func(x, y float64) {
		clicks++
		assert.Equal(t, 102.0, x)
		assert.Equal(t, 51.0, y)
	})

	w.handleCursor(100, 50)
	w.handleButton(common.MouseButtonLeft, true)
	w.handleCursor(102, 51)
	w.handleButton(common.MouseButtonLeft, false)

	assert.Equal(t, 1, clicks)
}

func TestDragReleaseStillClicks(t *testing.T) {
	w := newEngineWindow(WithDragThreshold(4))
	var clicks [][2]float64
	var dragX, dragY float64
	w.SetClickCallback(func(x, y float64) { clicks = append(clicks, [2]float64{x, y}) })
	w.SetDragCallback(func(button int, dx, dy float64) {
		assert.Equal(t, common.MouseButtonLeft, button)
		dragX += dx
		dragY += dy
	})

	w.handleCursor(0, 0)
	w.handleButton(common.MouseButtonLeft, true)
	w.handleCursor(3, 0)
	w.handleCursor(20, 10)
	w.handleButton(common.MouseButtonLeft, false)

	assert.Equal(t, [][2]float64{{20, 10}}, clicks)
	// The first 3px stay under the threshold and are not reported as drag.
	assert.Equal(t, 17.0, dragX)
	assert.Equal(t, 10.0, dragY)
}

func TestReleaseWithoutPressIgnored(t *testing.T) {
	w := newEngineWindow()
	clicks := 0
	w.SetClickCallback(func(_, _ float64) { clicks++ })

	w.handleButton(common.MouseButtonLeft, false)

	assert.Zero(t, clicks)
}

func TestRightButtonNeverClicks(t *testing.T) {
	w := newEngineWindow()
	clicks := 0
	w.SetClickCallback(func(_, _ float64) { clicks++ })

	w.handleButton(common.MouseButtonRight, true)
	w.handleButton(common.MouseButtonRight, false)

	assert.Zero(t, clicks)
}

func TestResizeUpdatesSize(t *testing.T) {
	w := newEngineWindow(WithSize(800, 600))
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())

	var gotW, gotH int
	w.SetResizeCallback(func(width, height int) { gotW, gotH = width, height })
	w.handleResize(1024, 768, 0)

	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
	assert.Equal(t, 1024, gotW)
	assert.Equal(t, 768, gotH)
	assert.Equal(t, float32(1), w.PixelRatio())
}

func TestResizeRatioCurrentInCallback(t *testing.T) {
	w := newEngineWindow(WithSize(800, 600))
	var seen float32
	w.SetResizeCallback(func(int, int) { seen = w.PixelRatio() })

	w.handleResize(800, 600, 2)
	assert.Equal(t, float32(2), seen)

	w.handleResize(800, 600, 1)
	assert.Equal(t, float32(1), seen)
}

func TestFramebufferRatio(t *testing.T) {
	// Window coordinates already in pixels, as on Windows and X11.
	assert.Equal(t, float32(1), framebufferRatio(1280, 1280))
	// Retina framebuffer at twice the window size.
	assert.Equal(t, float32(2), framebufferRatio(2560, 1280))
	assert.Equal(t, float32(1.5), framebufferRatio(1500, 1000))
	// Minimized windows report zero sizes.
	assert.Equal(t, float32(1), framebufferRatio(0, 0))
	assert.Equal(t, float32(1), framebufferRatio(1280, 0))
}

func TestUninitializedWindowIsNotRunning(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.False(t, w.PollEvents())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}
