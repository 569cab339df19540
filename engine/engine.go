package engine

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-theater/engine/profiler"
	"github.com/Carmen-Shannon/oxy-theater/engine/window"
)

// ErrStagePanic is returned by Run when a stage panicked.
var ErrStagePanic = errors.New("stage panicked")

// StageOrder fixes where a stage runs within a tick. Stages run in ascending order.
type StageOrder int

const (
	// StagePrepare drains loader completions, the occlusion handshake and player events.
	StagePrepare StageOrder = iota
	// StageInteraction casts the pointer ray and fires hover notifications.
	StageInteraction
	// StageControls advances the camera controls.
	StageControls
	// StageRender draws the 3D frame.
	StageRender
	// StageOverlay composites the overlay surfaces and presents.
	StageOverlay

	stageCount
)

var stageNames = [stageCount]string{
	StagePrepare:     "prepare",
	StageInteraction: "interaction",
	StageControls:    "controls",
	StageRender:      "render",
	StageOverlay:     "overlay",
}

func (s StageOrder) String() string {
	if s >= 0 && s < stageCount {
		return stageNames[s]
	}
	return fmt.Sprintf("StageOrder(%d)", int(s))
}

// Stage is one step of a tick, receiving the time since the previous tick in seconds.
type Stage func(deltaTime float32)

// engine implements the Engine interface.
// It runs every stage on the thread that called Run.
type engine struct {
	mu *sync.Mutex

	running  atomic.Bool
	frames   atomic.Uint64
	quitOnce sync.Once
	quit     chan struct{}

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	stages [stageCount][]Stage

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine drives a single cooperative loop. Each tick polls the window and then runs the registered
// stages in StageOrder. Pacing comes from the presenting stage; with vsync that is the display refresh.
type Engine interface {
	// Window returns the window polled at the start of each tick.
	//
	// Returns:
	//   - window.Window: the window instance, or nil when the engine runs headless
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddStage appends a stage at the given position. Stages sharing a position run in the order added.
	// Stages added while running take effect on the next tick.
	//
	// Parameters:
	//   - order: where the stage runs within a tick
	//   - stage: the stage function, nil is ignored
	AddStage(order StageOrder, stage Stage)

	// Run locks the calling goroutine to its OS thread and ticks until the window closes or Quit is called.
	// A panicking stage is recovered and logged, and ends the loop.
	//
	// Returns:
	//   - error: nil on a normal shutdown, or an error wrapping ErrStagePanic
	Run() error

	// Running reports whether Run is ticking.
	//
	// Returns:
	//   - bool: true between the start of Run and its return
	Running() bool

	// Frames returns the number of completed ticks.
	//
	// Returns:
	//   - uint64: the tick count
	Frames() uint64

	// Quit stops the loop after the current tick.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, stages, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:       &sync.Mutex{},
		quit:     make(chan struct{}),
		profiler: profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) AddStage(order StageOrder, stage Stage) {
	if stage == nil || order < 0 || order >= stageCount {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stages[order] = append(e.stages[order], stage)
}

func (e *engine) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	e.running.Store(true)
	defer e.running.Store(false)

	lastTick := time.Now()
	for {
		select {
		case <-e.quit:
			return nil
		default:
		}
		if e.window != nil && !e.window.PollEvents() {
			log.Println("[Engine] window closed")
			e.Quit()
			return nil
		}

		now := time.Now()
		dt := float32(now.Sub(lastTick).Seconds())
		lastTick = now

		if err := e.tick(dt); err != nil {
			e.Quit()
			return err
		}
		e.frames.Add(1)

		e.mu.Lock()
		profiling, limit := e.profilingEnabled, e.renderFrameLimit
		e.mu.Unlock()
		if profiling && e.profiler != nil {
			e.profiler.Tick()
		}
		if limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// tick runs every stage once, converting a panic into an error.
func (e *engine) tick(dt float32) (err error) {
	e.mu.Lock()
	var stages [stageCount][]Stage
	for i := range e.stages {
		stages[i] = append([]Stage(nil), e.stages[i]...)
	}
	e.mu.Unlock()

	current := StagePrepare
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] %s stage recovered from panic: %v", current, r)
			err = fmt.Errorf("%w: %s: %v", ErrStagePanic, current, r)
		}
	}()

	for order := range stageCount {
		current = order
		for _, stage := range stages[order] {
			stage(dt)
		}
	}
	return nil
}

func (e *engine) Running() bool {
	return e.running.Load()
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

// Quit closes the quit channel once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quit)
	})
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
