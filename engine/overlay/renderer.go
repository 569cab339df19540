package overlay

import (
	"fmt"
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraSource is the part of a camera the overlay Renderer projects with.
type CameraSource interface {
	ViewProjectionMatrix() mgl32.Mat4
}

// Quad is one surface projected into the current frame.
type Quad struct {
	Surface Surface
	// Clip holds the corners in clip space in strip order: top-left, top-right, bottom-left, bottom-right.
	Clip [4]mgl32.Vec4
	// Pixels holds the same corners in logical screen pixels, origin top-left.
	// Corners behind the camera keep their undivided clip x and y.
	Pixels  [4]mgl32.Vec2
	Opacity float32
	Frame   *image.RGBA
}

// Backend draws projected quads into the frame in flight.
type Backend interface {
	// Resize updates the viewport the quads are drawn into.
	//
	// Parameters:
	//   - width: the viewport width
	//   - height: the viewport height
	Resize(width, height int)

	// Draw draws the quads over the current frame.
	//
	// Parameters:
	//   - quads: the projected surfaces, in scene order
	//
	// Returns:
	//   - error: an error if the pass could not be recorded
	Draw(quads []Quad) error
}

// Renderer projects overlay surfaces with the primary camera so they stay registered with the 3D scene.
type Renderer interface {
	// SetSize sets the viewport size.
	//
	// Parameters:
	//   - width: the logical width
	//   - height: the logical height
	SetSize(width, height int)

	// Size returns the viewport size.
	//
	// Returns:
	//   - int: the logical width
	//   - int: the logical height
	Size() (int, int)

	// Project computes the quad of every visible surface without drawing.
	//
	// Parameters:
	//   - s: the overlay scene
	//   - cam: the camera to project with
	//
	// Returns:
	//   - []Quad: the projected surfaces
	Project(s Scene, cam CameraSource) []Quad

	// Render projects and draws the scene.
	//
	// Parameters:
	//   - s: the overlay scene
	//   - cam: the camera to project with
	//
	// Returns:
	//   - error: an error if drawing failed
	Render(s Scene, cam CameraSource) error
}

type rendererImpl struct {
	mu            *sync.Mutex
	backend       Backend
	width, height int
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates an overlay renderer drawing into the primary renderer's target.
// Unless WithBackend is given, target must be non-nil.
//
// Parameters:
//   - target: the GPU target shared with the primary renderer
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(target renderer.GPUTarget, options ...RendererBuilderOption) Renderer {
	r := &rendererImpl{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(r)
	}
	if r.backend == nil {
		if target == nil {
			panic("overlay: a GPU target is required without an explicit backend")
		}
		r.backend = newWGPUOverlayBackend(target)
	}
	r.backend.Resize(r.width, r.height)
	return r
}

func (r *rendererImpl) SetSize(width, height int) {
	r.mu.Lock()
	r.width, r.height = max(width, 0), max(height, 0)
	w, h := r.width, r.height
	r.mu.Unlock()
	r.backend.Resize(w, h)
}

func (r *rendererImpl) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *rendererImpl) Project(s Scene, cam CameraSource) []Quad {
	w, h := r.Size()
	viewProj := cam.ViewProjectionMatrix()

	var quads []Quad
	for _, surf := range s.Surfaces() {
		if q, ok := projectSurface(surf, viewProj, w, h); ok {
			quads = append(quads, q)
		}
	}
	return quads
}

func (r *rendererImpl) Render(s Scene, cam CameraSource) error {
	w, h := r.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	quads := r.Project(s, cam)
	if len(quads) == 0 {
		return nil
	}
	if err := r.backend.Draw(quads); err != nil {
		return fmt.Errorf("failed to draw overlay: %w", err)
	}
	return nil
}

// projectSurface projects the surface rectangle through model, view and projection.
// Surfaces entirely behind the camera or fully transparent are skipped.
func projectSurface(surf Surface, viewProj mgl32.Mat4, width, height int) (Quad, bool) {
	opacity := surf.Opacity()
	if opacity <= 0 {
		return Quad{}, false
	}
	sw, sh := surf.Size()
	mvp := viewProj.Mul4(surf.Matrix())

	q := Quad{Surface: surf, Opacity: opacity}
	inFront := false
	for i, c := range corners(sw, sh) {
		clip := mvp.Mul4x1(c.Vec4(1))
		q.Clip[i] = clip
		q.Pixels[i] = clipToPixels(clip, width, height)
		if clip.W() > 0 {
			inFront = true
		}
	}
	if !inFront {
		return Quad{}, false
	}
	if src := surf.Source(); src != nil {
		q.Frame = src.Frame()
	}
	return q, true
}

func clipToPixels(clip mgl32.Vec4, width, height int) mgl32.Vec2 {
	x, y := clip.X(), clip.Y()
	if clip.W() > 0 {
		x, y = x/clip.W(), y/clip.W()
	}
	return mgl32.Vec2{
		(x + 1) / 2 * float32(width),
		(1 - y) / 2 * float32(height),
	}
}
