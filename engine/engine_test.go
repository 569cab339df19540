package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-theater/engine/profiler"
	"github.com/Carmen-Shannon/oxy-theater/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow stays open for a fixed number of polls.
type fakeWindow struct {
	window.Window
	polls int
	open  int
}

func (w *fakeWindow) PollEvents() bool {
	w.polls++
	return w.polls <= w.open
}

func TestStagesRunInOrder(t *testing.T) {
	var calls []string
	record := func(name string) Stage {
		return func(float32) { calls = append(calls, name) }
	}

	e := NewEngine(
		WithWindow(&fakeWindow{open: 1}),
		WithStage(StageOverlay, record("overlay")),
		WithStage(StageRender, record("render")),
		WithStage(StageControls, record("controls")),
		WithStage(StageInteraction, record("interaction")),
		WithStage(StagePrepare, record("prepare")),
	)
	e.AddStage(StageRender, record("render-2"))

	require.NoError(t, e.Run())
	assert.Equal(t, []string{"prepare", "interaction", "controls", "render", "render-2", "overlay"}, calls)
	assert.Equal(t, uint64(1), e.Frames())
	assert.False(t, e.Running())
}

func TestWindowCloseEndsLoop(t *testing.T) {
	w := &fakeWindow{open: 3}
	ticks := 0
	e := NewEngine(WithWindow(w), WithStage(StageRender, func(float32) { ticks++ }))

	require.NoError(t, e.Run())
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 4, w.polls)
}

func TestQuitFromStage(t *testing.T) {
	var e Engine
	ticks := 0
	e = NewEngine(WithStage(StagePrepare, func(float32) {
		ticks++
		if ticks == 2 {
			e.Quit()
			e.Quit()
		}
	}))

	require.NoError(t, e.Run())
	assert.Equal(t, 2, ticks)
}

func TestPanickingStageEndsLoop(t *testing.T) {
	overlays := 0
	e := NewEngine(
		WithStage(StageRender, func(float32) { panic("device lost") }),
		WithStage(StageOverlay, func(float32) { overlays++ }),
	)

	err := e.Run()
	require.ErrorIs(t, err, ErrStagePanic)
	assert.Contains(t, err.Error(), "render")
	assert.Contains(t, err.Error(), "device lost")
	assert.Zero(t, overlays)
	assert.Zero(t, e.Frames())
}

func TestAddStageIgnoresInvalid(t *testing.T) {
	e := NewEngine().(*engine)
	e.AddStage(stageCount, func(float32) {})
	e.AddStage(StagePrepare, nil)
	for _, s := range e.stages {
		assert.Empty(t, s)
	}
}

func TestProfilerTicksWhenEnabled(t *testing.T) {
	clock := time.Unix(0, 0)
	reports := 0
	p := profiler.NewProfiler(
		profiler.WithClock(func() time.Time { clock = clock.Add(time.Second); return clock }),
		profiler.WithReporter(func(profiler.Sample) { reports++ }),
	)
	e := NewEngine(WithWindow(&fakeWindow{open: 2}), WithProfiler(p), WithProfiling(true))

	require.NoError(t, e.Run())
	assert.Equal(t, 2, reports)

	e = NewEngine(WithWindow(&fakeWindow{open: 2}), WithProfiler(p))
	e.EnableProfiler()
	e.DisableProfiler()
	require.NoError(t, e.Run())
	assert.Equal(t, 2, reports)
}

func TestFrameLimit(t *testing.T) {
	e := NewEngine(WithWindow(&fakeWindow{open: 3}), WithRenderFrameLimit(100))
	start := time.Now()
	require.NoError(t, e.Run())
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	assert.Equal(t, "overlay", StageOverlay.String())
	assert.Equal(t, "StageOrder(9)", StageOrder(9).String())
}
