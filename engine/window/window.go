package window

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// All callbacks are invoked from PollEvents on the thread that created the window.
type Window interface {
	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in window coordinates
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position relative to the top-left of the client area
	SetMouseMoveCallback(callback func(x, y float64))

	// SetDragCallback sets the callback for cursor movement while a button is held past the click threshold.
	//
	// Parameters:
	//   - callback: function receiving the held button and the cursor delta since the last event
	SetDragCallback(callback func(button int, dx, dy float64))

	// SetClickCallback sets the callback for left-button clicks.
	// Every left press followed by a release is a click, including one that dragged in between.
	//
	// Parameters:
	//   - callback: function receiving the cursor position at release
	SetClickCallback(callback func(x, y float64))

	// CursorPosition returns the last known cursor position.
	//
	// Returns:
	//   - float64: x in window coordinates
	//   - float64: y in window coordinates
	CursorPosition() (float64, float64)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// PollEvents processes pending platform events without blocking and dispatches callbacks.
	//
	// Returns:
	//   - bool: false once the window has been asked to close
	PollEvents() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// Width returns the current client area width in window coordinates.
	//
	// Returns:
	//   - int: width
	Width() int

	// Height returns the current client area height in window coordinates.
	//
	// Returns:
	//   - int: height
	Height() int

	// PixelRatio returns the ratio of framebuffer pixels to window coordinates, measured from the
	// framebuffer size. It is current when the resize callback runs.
	//
	// Returns:
	//   - float32: the device pixel ratio (1 on standard displays)
	PixelRatio() float32
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	title     string
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int
	width     int
	height    int

	// pixelRatio is the framebuffer to window coordinate ratio reported by the platform.
	pixelRatio float32

	// dragThreshold is the cursor travel from the press after which drag deltas are reported.
	dragThreshold float64

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	cursorX, cursorY float64

	// pressed tracks held buttons and where they went down.
	pressed map[int]*buttonPress

	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseMove func(x, y float64)
	onDrag      func(button int, dx, dy float64)
	onClick     func(x, y float64)
}

// buttonPress records a held mouse button.
type buttonPress struct {
	startX, startY float64
	dragging       bool
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured, visible window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:             &sync.Mutex{},
		title:          "oxy theater",
		maxWidth:       3840,
		maxHeight:      2160,
		minWidth:       320,
		minHeight:      180,
		width:          1280,
		height:         720,
		pixelRatio:     1,
		dragThreshold:  4,
		pressed:        make(map[int]*buttonPress),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetDragCallback(callback func(button int, dx, dy float64)) {
	w.onDrag = callback
}

func (w *engineWindow) SetClickCallback(callback func(x, y float64)) {
	w.onClick = callback
}

func (w *engineWindow) CursorPosition() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursorX, w.cursorY
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *engineWindow) PixelRatio() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pixelRatio
}

// handleResize stores the new client size and pixel ratio, then notifies the resize callback.
// The ratio is stored before the callback runs so PixelRatio is current inside it.
func (w *engineWindow) handleResize(width, height int, ratio float32) {
	w.mu.Lock()
	w.width = width
	w.height = height
	if ratio > 0 {
		w.pixelRatio = ratio
	}
	w.mu.Unlock()
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// framebufferRatio is framebuffer pixels per window coordinate. It is 1 where the two coincide.
func framebufferRatio(framebufferWidth, windowWidth int) float32 {
	if framebufferWidth <= 0 || windowWidth <= 0 {
		return 1
	}
	return float32(framebufferWidth) / float32(windowWidth)
}

// handleCursor records the cursor position and forwards movement and drag deltas.
func (w *engineWindow) handleCursor(x, y float64) {
	w.mu.Lock()
	lastX, lastY := w.cursorX, w.cursorY
	w.cursorX, w.cursorY = x, y
	w.mu.Unlock()

	if w.onMouseMove != nil {
		w.onMouseMove(x, y)
	}

	for button, press := range w.pressed {
		if !press.dragging && math.Hypot(x-press.startX, y-press.startY) > w.dragThreshold {
			press.dragging = true
		}
		if press.dragging && w.onDrag != nil {
			w.onDrag(button, x-lastX, y-lastY)
		}
	}
}

// handleButton tracks press and release pairs and turns left-button pairs into clicks.
func (w *engineWindow) handleButton(button int, down bool) {
	x, y := w.CursorPosition()
	if down {
		w.pressed[button] = &buttonPress{startX: x, startY: y}
		return
	}

	if _, ok := w.pressed[button]; !ok {
		return
	}
	delete(w.pressed, button)

	if button == common.MouseButtonLeft && w.onClick != nil {
		w.onClick(x, y)
	}
}

// handleKey forwards a key transition to the matching callback.
func (w *engineWindow) handleKey(keyCode uint32, down bool) {
	if down {
		if w.onKeyDown != nil {
			w.onKeyDown(keyCode)
		}
		return
	}
	if w.onKeyUp != nil {
		w.onKeyUp(keyCode)
	}
}
